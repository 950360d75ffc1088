// ABOUTME: Orchestrates a default-device switch: enumerate, filter, select, commit, report.
// ABOUTME: Every operation reads the config fresh; nothing about devices is cached.

package control

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/777genius/audiocycle/internal/audio"
	"github.com/777genius/audiocycle/internal/config"
	"github.com/777genius/audiocycle/internal/indicator"
	"github.com/777genius/audiocycle/internal/logging"
)

// IndicatorFile is the indicator written next to the config when no path is configured
const IndicatorFile = "indicator.ico"

// Store loads and saves the config under its own lock
type Store interface {
	Path() string
	Load(ctx context.Context) (*config.Config, error)
	Save(ctx context.Context, cfg *config.Config) error
	Update(ctx context.Context, fn func(*config.Config) error) (*config.Config, error)
}

// Announcer is told about every successful cycle, with the notification
// settings read for that cycle
type Announcer interface {
	Announce(dev audio.AudioDevice, cfg config.NotificationsConfig)
}

// Controller is the command surface used by the CLI and the hotkey daemon
type Controller struct {
	backend   audio.Backend
	store     Store
	announcer Announcer
	indicator bool
}

// New creates a controller. The indicator is not written until EnableIndicator.
func New(backend audio.Backend, store Store) *Controller {
	return &Controller{
		backend: backend,
		store:   store,
	}
}

// SetAnnouncer sets who is told about successful cycles; nil disables announcements
func (c *Controller) SetAnnouncer(a Announcer) {
	c.announcer = a
}

// EnableIndicator makes state-changing operations rewrite the indicator file
func (c *Controller) EnableIndicator() {
	c.indicator = true
}

// ListDevices returns a fresh snapshot of active output devices
func (c *Controller) ListDevices(ctx context.Context) ([]audio.AudioDevice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.backend.Enumerate()
}

// CycleNext switches the default to the next included device.
// Commit errors are returned as they come from the backend.
func (c *Controller) CycleNext(ctx context.Context) (audio.Selection, error) {
	op := opID()

	devices, err := c.backend.Enumerate()
	if err != nil {
		logging.Error("[%s] cycle: %v", op, err)
		return audio.Selection{}, err
	}

	cfg, err := c.store.Load(ctx)
	if err != nil {
		logging.Error("[%s] cycle: %v", op, err)
		return audio.Selection{}, err
	}

	sel, err := audio.SelectNext(devices, audio.ExclusionSet(cfg.ExcludedDeviceIDs))
	if err != nil {
		logging.Warn("[%s] cycle: %v", op, err)
		return audio.Selection{}, err
	}

	logging.Debug("[%s] cycle: %d devices, %d excluded, next %s (%d)",
		op, len(devices), len(cfg.ExcludedDeviceIDs), sel.Device.ID, sel.Position)

	if err := c.backend.SetDefault(sel.Device.ID); err != nil {
		logging.Error("[%s] cycle: %v", op, err)
		return audio.Selection{}, err
	}

	logging.Info("[%s] Switched to %s (%s)", op, sel.Device.Name, sel.Device.ID)

	c.writeIndicator(op, cfg, sel.Position)
	if c.announcer != nil && cfg.IsAnnouncementEnabled() {
		c.announcer.Announce(sel.Device, cfg.Notifications)
	}
	return sel, nil
}

// SetActiveDevice makes id the default for every role without consulting the exclusions
func (c *Controller) SetActiveDevice(ctx context.Context, id string) error {
	op := opID()

	if err := c.backend.SetDefault(id); err != nil {
		logging.Error("[%s] set %s: %v", op, id, err)
		return err
	}
	logging.Info("[%s] Default set to %s", op, id)

	c.refresh(ctx, op)
	return nil
}

// IndicatorPosition returns the 1-based position of the default among the
// included devices; ok is false when there is none. Nothing is changed.
func (c *Controller) IndicatorPosition(ctx context.Context) (pos int, ok bool, err error) {
	pos, ok, _, err = c.position(ctx)
	return pos, ok, err
}

// RefreshIndicator recomputes the position and rewrites the indicator file
func (c *Controller) RefreshIndicator(ctx context.Context) (pos int, ok bool, err error) {
	pos, ok, cfg, err := c.position(ctx)
	if err != nil {
		return 0, false, err
	}
	if err := indicator.WriteFile(c.indicatorPath(cfg), pos, cfg.Indicator.Size); err != nil {
		return pos, ok, err
	}
	return pos, ok, nil
}

// ExclusionConfig returns the current config
func (c *Controller) ExclusionConfig(ctx context.Context) (*config.Config, error) {
	return c.store.Load(ctx)
}

// SetExcludedDevices replaces the exclusion list. Duplicates are dropped and
// ids need not belong to a present device.
func (c *Controller) SetExcludedDevices(ctx context.Context, ids []string) error {
	_, err := c.store.Update(ctx, func(cfg *config.Config) error {
		cfg.ExcludedDeviceIDs = dedupe(ids)
		return nil
	})
	if err != nil {
		return err
	}

	c.refresh(ctx, opID())
	return nil
}

// SaveConfig validates and stores cfg as a whole
func (c *Controller) SaveConfig(ctx context.Context, cfg *config.Config) error {
	if err := c.store.Save(ctx, cfg); err != nil {
		return err
	}

	c.refresh(ctx, opID())
	return nil
}

func (c *Controller) position(ctx context.Context) (int, bool, *config.Config, error) {
	devices, err := c.backend.Enumerate()
	if err != nil {
		return 0, false, nil, err
	}
	cfg, err := c.store.Load(ctx)
	if err != nil {
		return 0, false, nil, err
	}
	pos, ok := audio.IndicatorPosition(devices, audio.ExclusionSet(cfg.ExcludedDeviceIDs))
	return pos, ok, cfg, nil
}

// refresh follows a successful change; failures are logged only
func (c *Controller) refresh(ctx context.Context, op string) {
	if !c.indicator {
		return
	}
	pos, ok, cfg, err := c.position(ctx)
	if err != nil {
		logging.Warn("[%s] indicator refresh: %v", op, err)
		return
	}
	if !ok {
		pos = 0
	}
	c.writeIndicator(op, cfg, pos)
}

func (c *Controller) writeIndicator(op string, cfg *config.Config, pos int) {
	if !c.indicator {
		return
	}
	path := c.indicatorPath(cfg)
	if err := indicator.WriteFile(path, pos, cfg.Indicator.Size); err != nil {
		logging.Warn("[%s] indicator refresh: %v", op, err)
		return
	}
	logging.Debug("[%s] indicator %d written to %s", op, pos, path)
}

func (c *Controller) indicatorPath(cfg *config.Config) string {
	if cfg.Indicator.Path != "" {
		return cfg.Indicator.Path
	}
	return filepath.Join(filepath.Dir(c.store.Path()), IndicatorFile)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func opID() string {
	return uuid.NewString()[:8]
}
