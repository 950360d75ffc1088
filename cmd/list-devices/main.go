// ABOUTME: CLI tool to list active audio output devices with their endpoint ids.
// ABOUTME: The ids are what `audiocycle exclude` and `audiocycle set` take.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/777genius/audiocycle/internal/audio"
	"github.com/777genius/audiocycle/internal/sound"
)

func main() {
	playback := flag.Bool("playback", false, "list the playback names used for the chime instead")
	flag.Parse()

	var err error
	if *playback {
		err = listOutputs(os.Stdout, sound.ListOutputs)
	} else {
		err = listEndpoints(os.Stdout, audio.NewSystem())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing audio devices: %v\n", err)
		os.Exit(1)
	}
}

func listEndpoints(w io.Writer, backend audio.Backend) error {
	devices, err := backend.Enumerate()
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		fmt.Fprintln(w, "No audio output devices found.")
		return nil
	}

	fmt.Fprintln(w, "Active audio output devices:")
	fmt.Fprintln(w)

	for i, dev := range devices {
		defaultMarker := ""
		if dev.IsDefault {
			defaultMarker = " (default)"
		}
		fmt.Fprintf(w, "  %d: %s%s\n", i+1, dev.Name, defaultMarker)
		fmt.Fprintf(w, "     %s\n", dev.ID)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "To skip a device while cycling:")
	fmt.Fprintln(w, "  audiocycle exclude --add DEVICE_ID")
	return nil
}

func listOutputs(w io.Writer, list func() ([]sound.OutputInfo, error)) error {
	outputs, err := list()
	if err != nil {
		return err
	}

	if len(outputs) == 0 {
		fmt.Fprintln(w, "No playback devices found.")
		return nil
	}

	fmt.Fprintln(w, "Playback devices:")
	for i, out := range outputs {
		defaultMarker := ""
		if out.IsDefault {
			defaultMarker = " (default)"
		}
		fmt.Fprintf(w, "  %d: %s%s\n", i+1, out.Name, defaultMarker)
	}
	return nil
}
