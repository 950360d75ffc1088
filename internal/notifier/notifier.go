package notifier

import (
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/777genius/audiocycle/internal/audio"
	"github.com/777genius/audiocycle/internal/config"
	"github.com/777genius/audiocycle/internal/logging"
	"github.com/777genius/audiocycle/internal/platform"
	"github.com/777genius/audiocycle/internal/sound"
)

// Title is the desktop notification title for a device switch
const Title = "Audio output switched"

// windowsAppName is fixed on Windows: every distinct AppName leaves a
// permanent entry under the notification settings registry key.
const windowsAppName = "Audio Cycle"

// Notifier announces a new default output device
type Notifier struct {
	icon string

	send  func(title, message, icon string) error
	chime func(deviceName string, cfg config.NotificationsConfig) error

	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// New creates a new notifier
func New() *Notifier {
	n := &Notifier{}
	n.send = n.sendWithBeeep
	n.chime = n.playChime
	return n
}

// SetIcon sets the image shown with desktop notifications; missing files are ignored
func (n *Notifier) SetIcon(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.icon = path
}

// Announce reports a switch to dev using the settings in cfg, which the
// caller loads fresh for every cycle. The desktop notification is sent
// inline; the chime plays in the background so the caller is not held up.
// Failures are logged only: the switch itself already succeeded.
func (n *Notifier) Announce(dev audio.AudioDevice, cfg config.NotificationsConfig) {
	if cfg.Desktop {
		if err := n.SendDesktop(fmt.Sprintf("Switched to %s", dev.Name)); err != nil {
			logging.Warn("Failed to announce %s: %v", dev.ID, err)
		}
	}

	if cfg.Sound {
		n.PlayChimeAsync(dev.Name, cfg)
	}
}

// SendDesktop sends a desktop notification with the switch title
func (n *Notifier) SendDesktop(message string) error {
	n.mu.Lock()
	icon := n.icon
	n.mu.Unlock()

	if icon != "" && !platform.FileExists(icon) {
		logging.Warn("Notification icon not found: %s, using default", icon)
		icon = ""
	}
	return n.send(Title, message, icon)
}

// PlayChimeAsync plays the chime on the named device in a goroutine.
// Close waits for it to finish.
func (n *Notifier) PlayChimeAsync(deviceName string, cfg config.NotificationsConfig) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		logging.Debug("Notifier closed, skipping chime")
		return
	}
	n.wg.Add(1)
	n.mu.Unlock()

	go func() {
		defer n.wg.Done()
		if err := n.chime(deviceName, cfg); err != nil {
			logging.Warn("Failed to play chime on %q: %v", deviceName, err)
		}
	}()
}

func (n *Notifier) playChime(deviceName string, cfg config.NotificationsConfig) error {
	p, err := sound.NewPlayer(deviceName, cfg.Volume)
	if err != nil {
		return err
	}
	defer p.Close()

	if path := cfg.SoundPath; path != "" {
		if platform.FileExists(path) && sound.SupportedFormat(path) {
			return p.PlayFile(path)
		}
		logging.Warn("Chime file unusable: %s, using built-in tone", path)
	}
	return p.Play(sound.Chime())
}

// sendWithBeeep sends notification via beeep (cross-platform)
func (n *Notifier) sendWithBeeep(title, message, icon string) error {
	// Windows keeps a fixed name; elsewhere a unique name stops the
	// notification daemon from replacing the previous switch notice.
	originalAppName := beeep.AppName
	if platform.IsWindows() {
		beeep.AppName = windowsAppName
	} else {
		beeep.AppName = fmt.Sprintf("%s-%d", platform.AppName, time.Now().UnixNano())
	}
	defer func() {
		beeep.AppName = originalAppName
	}()

	if err := beeep.Notify(title, message, icon); err != nil {
		logging.Error("Failed to send desktop notification: %v", err)
		return err
	}

	logging.Debug("Desktop notification sent via beeep: %s", message)
	return nil
}

// Close waits for in-flight chimes; later chimes are skipped
func (n *Notifier) Close() error {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()

	n.wg.Wait()
	return nil
}
