// ABOUTME: CLI tool for previewing the switch chime with optional device selection.
// ABOUTME: Plays the built-in chime, or a MP3/WAV/FLAC/OGG/AIFF file, via the malgo backend.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/777genius/audiocycle/internal/sound"
)

// player is the part of sound.Player the preview needs
type player interface {
	Play(clip *sound.Clip) error
	PlayFile(path string) error
	Close() error
}

type playerFactory func(deviceName string, volume float64) (player, error)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, func(device string, volume float64) (player, error) {
		return sound.NewPlayer(device, volume)
	}))
}

func run(args []string, stdout, stderr io.Writer, newPlayer playerFactory) int {
	fs := flag.NewFlagSet("sound-preview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	volumeFlag := fs.Float64("volume", 1.0, "Volume level (0.0 to 1.0)")
	deviceFlag := fs.String("device", "", "Audio output device name (empty = system default)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sound-preview [options] [path-to-audio-file]\n\n")
		fmt.Fprintf(stderr, "Without a file the built-in switch chime is played.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nSupported formats: MP3, WAV, FLAC, OGG/Vorbis, AIFF\n\n")
		fmt.Fprintf(stderr, "Examples:\n")
		fmt.Fprintf(stderr, "  sound-preview\n")
		fmt.Fprintf(stderr, "  sound-preview --volume 0.3 C:\\Windows\\Media\\chimes.wav\n")
		fmt.Fprintf(stderr, "  sound-preview --device \"Speakers (Realtek(R) Audio)\"\n")
		fmt.Fprintf(stderr, "\nList available devices:\n")
		fmt.Fprintf(stderr, "  list-devices --playback\n")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *volumeFlag < 0.0 || *volumeFlag > 1.0 {
		fmt.Fprintf(stderr, "Error: Volume must be between 0.0 and 1.0 (got %.2f)\n", *volumeFlag)
		return 1
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 1
	}

	soundPath := fs.Arg(0)
	label := "built-in chime"
	if soundPath != "" {
		if _, err := os.Stat(soundPath); os.IsNotExist(err) {
			fmt.Fprintf(stderr, "Error: Sound file not found: %s\n", soundPath)
			return 1
		}
		if !sound.SupportedFormat(soundPath) {
			fmt.Fprintf(stderr, "Error: Unsupported audio format: %s\n", filepath.Ext(soundPath))
			return 1
		}
		label = filepath.Base(soundPath)
	}

	volumePercent := int(*volumeFlag * 100)
	if *deviceFlag != "" {
		fmt.Fprintf(stdout, "Playing: %s (volume: %d%%, device: %s)\n", label, volumePercent, *deviceFlag)
	} else {
		fmt.Fprintf(stdout, "Playing: %s (volume: %d%%)\n", label, volumePercent)
	}

	p, err := newPlayer(*deviceFlag, *volumeFlag)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating audio player: %v\n", err)
		return 1
	}
	defer p.Close()

	if soundPath == "" {
		err = p.Play(sound.Chime())
	} else {
		err = p.PlayFile(soundPath)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error playing sound: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "Playback completed")
	return 0
}
