package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/777genius/audiocycle/internal/sound"
)

type fakePlayer struct {
	device  string
	volume  float64
	clips   int
	files   []string
	closed  bool
	playErr error
}

func (p *fakePlayer) Play(*sound.Clip) error {
	p.clips++
	return p.playErr
}

func (p *fakePlayer) PlayFile(path string) error {
	p.files = append(p.files, path)
	return p.playErr
}

func (p *fakePlayer) Close() error {
	p.closed = true
	return nil
}

func runPreview(t *testing.T, fp *fakePlayer, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr, func(device string, volume float64) (player, error) {
		if fp == nil {
			return nil, errors.New("no audio backend")
		}
		fp.device, fp.volume = device, volume
		return fp, nil
	})
	return code, stdout.String(), stderr.String()
}

// TestHelp tests that -h prints usage
func TestHelp(t *testing.T) {
	code, _, stderr := runPreview(t, &fakePlayer{}, "-h")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stderr, "Usage:") {
		t.Errorf("Expected usage information in output, got: %s", stderr)
	}
}

func TestBuiltInChime(t *testing.T) {
	fp := &fakePlayer{}
	code, stdout, _ := runPreview(t, fp, "--device", "Headphones", "--volume", "0.3")

	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if fp.clips != 1 || len(fp.files) != 0 {
		t.Errorf("clips=%d files=%v, want the chime only", fp.clips, fp.files)
	}
	if fp.device != "Headphones" || fp.volume != 0.3 {
		t.Errorf("player created with %q %.2f", fp.device, fp.volume)
	}
	if !fp.closed {
		t.Error("player not closed")
	}
	if !strings.Contains(stdout, "built-in chime (volume: 30%, device: Headphones)") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestPlayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ding.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}

	fp := &fakePlayer{}
	code, stdout, _ := runPreview(t, fp, path)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if len(fp.files) != 1 || fp.files[0] != path {
		t.Errorf("files = %v", fp.files)
	}
	if !strings.Contains(stdout, "Playing: ding.wav (volume: 100%)") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

// TestNonExistentFile tests error handling for missing files
func TestNonExistentFile(t *testing.T) {
	code, _, stderr := runPreview(t, &fakePlayer{}, "/nonexistent/file.mp3")
	if code == 0 {
		t.Error("Expected error for non-existent file")
	}
	if !strings.Contains(stderr, "not found") {
		t.Errorf("Expected 'not found' error, got: %s", stderr)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	code, _, stderr := runPreview(t, &fakePlayer{}, path)
	if code == 0 || !strings.Contains(stderr, "Unsupported audio format: .txt") {
		t.Errorf("code=%d stderr=%s", code, stderr)
	}
}

// TestInvalidVolume tests volume validation
func TestInvalidVolume(t *testing.T) {
	code, _, stderr := runPreview(t, &fakePlayer{}, "--volume", "2.0")
	if code == 0 {
		t.Error("Expected error for invalid volume")
	}
	if !strings.Contains(stderr, "Volume must be between") {
		t.Errorf("Expected volume validation error, got: %s", stderr)
	}
}

func TestPlayerErrors(t *testing.T) {
	code, _, stderr := runPreview(t, nil)
	if code == 0 || !strings.Contains(stderr, "Error creating audio player: no audio backend") {
		t.Errorf("code=%d stderr=%s", code, stderr)
	}

	fp := &fakePlayer{playErr: errors.New("device lost")}
	code, _, stderr = runPreview(t, fp)
	if code == 0 || !strings.Contains(stderr, "Error playing sound: device lost") {
		t.Errorf("code=%d stderr=%s", code, stderr)
	}
	if !fp.closed {
		t.Error("player not closed after failure")
	}
}
