package sound

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// Clip is interleaved signed 16-bit PCM ready for playback
type Clip struct {
	Samples    []int16
	SampleRate uint32
	Channels   int
}

// Frames returns the number of sample frames in the clip
func (c *Clip) Frames() int {
	if c.Channels == 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Scale applies a volume factor in place; factors at or above 1.0 are a no-op
func (c *Clip) Scale(volume float64) {
	if volume >= 1.0 {
		return
	}
	if volume < 0 {
		volume = 0
	}
	for i := range c.Samples {
		c.Samples[i] = int16(float64(c.Samples[i]) * volume)
	}
}

// Bytes returns the samples as little-endian bytes
func (c *Clip) Bytes() []byte {
	return samplesToBytes(c.Samples)
}

// SupportedFormat reports whether Decode understands the file extension
func SupportedFormat(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".wav", ".flac", ".ogg", ".aiff", ".aif":
		return true
	}
	return false
}

// Decode reads an audio file into a clip
func Decode(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".mp3":
		return decodeBeep(mp3.Decode(f))
	case ".wav":
		return decodeWAV(wav.Decode(f))
	case ".flac":
		return decodeBeep(flac.Decode(f))
	case ".ogg":
		return decodeBeep(vorbis.Decode(f))
	case ".aiff", ".aif":
		return decodeAIFF(f)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", ext)
	}
}

func decodeBeep(streamer beep.StreamSeekCloser, format beep.Format, err error) (*Clip, error) {
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	return streamToClip(streamer, int(format.SampleRate), format.NumChannels), nil
}

// decodeWAV undoes the wav decoder's 16 and 24-bit normalisation, which
// divides by the full unsigned range and so halves every sample.
func decodeWAV(streamer beep.StreamSeekCloser, format beep.Format, err error) (*Clip, error) {
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.Precision >= 2 {
		s = &effects.Gain{Streamer: streamer, Gain: 1}
	}
	return streamToClip(s, int(format.SampleRate), format.NumChannels), nil
}

func decodeAIFF(r io.ReadSeeker) (*Clip, error) {
	decoder := aiff.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid AIFF file")
	}

	decoder.ReadInfo()

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read AIFF data: %w", err)
	}

	return &Clip{
		Samples:    intBufferToSamples(buf, int(decoder.BitDepth)),
		SampleRate: uint32(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
	}, nil
}

// streamToClip drains a beep streamer into 16-bit samples
func streamToClip(streamer beep.Streamer, sampleRate int, numChannels int) *Clip {
	var all []int16
	buffer := make([][2]float64, 512)

	for {
		n, ok := streamer.Stream(buffer)
		if n == 0 {
			break
		}

		for i := 0; i < n; i++ {
			all = append(all, toInt16(buffer[i][0]))
			if numChannels >= 2 {
				all = append(all, toInt16(buffer[i][1]))
			}
		}

		if !ok {
			break
		}
	}

	return &Clip{Samples: all, SampleRate: uint32(sampleRate), Channels: numChannels}
}

func toInt16(v float64) int16 {
	switch {
	case v > 1:
		v = 1
	case v < -1:
		v = -1
	}
	return int16(v * 32767)
}

// intBufferToSamples converts a go-audio buffer of the given bit depth to 16-bit
func intBufferToSamples(buf *audio.IntBuffer, bitDepth int) []int16 {
	samples := make([]int16, len(buf.Data))

	var shift int
	switch bitDepth {
	case 8:
		shift = -8
	case 24:
		shift = 8
	case 32:
		shift = 16
	}

	for i, v := range buf.Data {
		switch {
		case shift < 0:
			samples[i] = int16(v << -shift)
		default:
			samples[i] = int16(v >> shift)
		}
	}
	return samples
}

// samplesToBytes converts int16 samples to bytes (little-endian)
func samplesToBytes(samples []int16) []byte {
	bytes := make([]byte, len(samples)*2)
	for i, s := range samples {
		bytes[i*2] = byte(s)
		bytes[i*2+1] = byte(s >> 8)
	}
	return bytes
}
