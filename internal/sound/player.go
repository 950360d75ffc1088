// ABOUTME: Audio playback module with device selection support.
// ABOUTME: Uses malgo (miniaudio bindings) for cross-platform audio output.

package sound

import (
	"fmt"
	"os"
	"sync"
	"time"
	"unsafe"

	"github.com/gen2brain/malgo"

	"github.com/777genius/audiocycle/internal/logging"
)

const playbackTimeout = 30 * time.Second

// OutputInfo is a playback device as miniaudio sees it
type OutputInfo struct {
	Name      string
	IsDefault bool
}

// Player plays clips on a specific device
type Player struct {
	ctx        *malgo.AllocatedContext
	deviceID   unsafe.Pointer
	deviceName string
	volume     float64
	mu         sync.Mutex
}

// ListOutputs returns all playback devices miniaudio can open
func ListOutputs() ([]OutputInfo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init audio context: %w", err)
	}
	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()

	devices, err := ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	result := make([]OutputInfo, 0, len(devices))
	for _, dev := range devices {
		result = append(result, OutputInfo{
			Name:      dev.Name(),
			IsDefault: dev.IsDefault != 0,
		})
	}

	return result, nil
}

// NewPlayer creates a player for the named device.
// An empty name, or a name miniaudio does not know, uses the system default.
func NewPlayer(deviceName string, volume float64) (*Player, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init audio context: %w", err)
	}

	player := &Player{
		ctx:    ctx,
		volume: volume,
	}

	if deviceName == "" {
		return player, nil
	}

	devices, err := ctx.Devices(malgo.Playback)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	for _, dev := range devices {
		if dev.Name() == deviceName {
			player.deviceID = dev.ID.Pointer()
			player.deviceName = deviceName
			logging.Debug("Audio device found: %s", deviceName)
			return player, nil
		}
	}

	// Names differ between backends; the new default is the device we want anyway
	logging.Debug("Audio device %q not found, using system default", deviceName)
	return player, nil
}

// DeviceName returns the device the player is bound to, empty for the default
func (p *Player) DeviceName() string {
	return p.deviceName
}

// PlayFile decodes and plays an audio file
func (p *Player) PlayFile(soundPath string) error {
	if _, err := os.Stat(soundPath); os.IsNotExist(err) {
		return fmt.Errorf("sound file not found: %s", soundPath)
	}

	clip, err := Decode(soundPath)
	if err != nil {
		return fmt.Errorf("failed to decode audio: %w", err)
	}
	return p.Play(clip)
}

// Play blocks until the clip has been played or the playback timeout passes
func (p *Player) Play(clip *Clip) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx == nil {
		return fmt.Errorf("player is closed")
	}
	if clip.Channels <= 0 || len(clip.Samples) == 0 {
		return fmt.Errorf("empty audio clip")
	}

	clip.Scale(p.volume)
	audioData := clip.Bytes()
	channels := clip.Channels

	// Larger buffer to prevent crackling
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(channels)
	deviceConfig.SampleRate = clip.SampleRate
	deviceConfig.PeriodSizeInFrames = 4096
	deviceConfig.Periods = 4
	deviceConfig.Alsa.NoMMap = 1

	if p.deviceID != nil {
		deviceConfig.Playback.DeviceID = p.deviceID
	}

	var pos int
	done := make(chan struct{})
	var doneOnce sync.Once

	dataCallback := func(outputSamples, inputSamples []byte, frameCount uint32) {
		bytesToWrite := int(frameCount) * channels * 2
		if pos+bytesToWrite > len(audioData) {
			bytesToWrite = len(audioData) - pos
		}

		if bytesToWrite > 0 {
			copy(outputSamples, audioData[pos:pos+bytesToWrite])
			pos += bytesToWrite
		}

		for i := bytesToWrite; i < len(outputSamples); i++ {
			outputSamples[i] = 0
		}

		if pos >= len(audioData) {
			doneOnce.Do(func() {
				close(done)
			})
		}
	}

	device, err := malgo.InitDevice(p.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: dataCallback,
	})
	if err != nil {
		return fmt.Errorf("failed to init audio device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("failed to start audio device: %w", err)
	}

	select {
	case <-done:
		// Let the buffer drain
		time.Sleep(200 * time.Millisecond)
		logging.Debug("Audio playback completed (%d frames)", clip.Frames())
	case <-time.After(playbackTimeout):
		logging.Warn("Audio playback timeout")
	}

	_ = device.Stop()
	return nil
}

// Close releases resources
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx != nil {
		_ = p.ctx.Uninit()
		p.ctx.Free()
		p.ctx = nil
	}
	return nil
}
