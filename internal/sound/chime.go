package sound

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// ChimeSampleRate is the rate the built-in chime is rendered at
const ChimeSampleRate = 44100

const (
	noteLength = 180 * time.Millisecond
	gapLength  = 40 * time.Millisecond
)

// Chime renders the built-in two-note switch confirmation
func Chime() *Clip {
	sr := beep.SampleRate(ChimeSampleRate)
	note := func(freq float64) beep.Streamer {
		return beep.Take(sr.N(noteLength), tone(float64(sr), freq, 0.35))
	}
	s := beep.Seq(note(880), beep.Silence(sr.N(gapLength)), note(1320))
	return streamToClip(s, ChimeSampleRate, 2)
}

// tone is a sine wave with a short linear fade in and exponential decay
func tone(sampleRate, freq, amplitude float64) beep.Streamer {
	var pos int
	attack := sampleRate * 0.005
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			t := float64(pos) / sampleRate
			env := math.Exp(-t * 12)
			if p := float64(pos); p < attack {
				env *= p / attack
			}
			v := amplitude * env * math.Sin(2*math.Pi*freq*t)
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	})
}
