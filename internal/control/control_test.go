package control

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/777genius/audiocycle/internal/audio"
	"github.com/777genius/audiocycle/internal/config"
)

// fakeBackend behaves like the OS: a successful SetDefault moves the default flag
type fakeBackend struct {
	devices  []audio.AudioDevice
	enumErr  error
	setErr   error
	setCalls []string
}

func (b *fakeBackend) Enumerate() ([]audio.AudioDevice, error) {
	if b.enumErr != nil {
		return nil, b.enumErr
	}
	out := make([]audio.AudioDevice, len(b.devices))
	copy(out, b.devices)
	return out, nil
}

func (b *fakeBackend) SetDefault(id string) error {
	b.setCalls = append(b.setCalls, id)
	if b.setErr != nil {
		return b.setErr
	}
	for i := range b.devices {
		b.devices[i].IsDefault = b.devices[i].ID == id
	}
	return nil
}

type fakeAnnouncer struct {
	announced []audio.AudioDevice
	settings  []config.NotificationsConfig
}

func (a *fakeAnnouncer) Announce(dev audio.AudioDevice, cfg config.NotificationsConfig) {
	a.announced = append(a.announced, dev)
	a.settings = append(a.settings, cfg)
}

func newBackend(defaultID string, ids ...string) *fakeBackend {
	b := &fakeBackend{}
	for _, id := range ids {
		b.devices = append(b.devices, audio.AudioDevice{ID: id, Name: "Device " + id, IsDefault: id == defaultID})
	}
	return b
}

func newController(t *testing.T, b *fakeBackend) (*Controller, *config.Manager) {
	t.Helper()
	store := config.NewManager(t.TempDir())
	return New(b, store), store
}

func TestCycleNext(t *testing.T) {
	ctx := context.Background()
	b := newBackend("A", "A", "B", "C")
	c, _ := newController(t, b)

	sel, err := c.CycleNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B", sel.Device.ID)
	assert.Equal(t, "Device B", sel.Device.Name)
	assert.Equal(t, 2, sel.Position)
	assert.Equal(t, []string{"B"}, b.setCalls)

	// Three cycles return to the start
	for _, want := range []string{"C", "A"} {
		sel, err = c.CycleNext(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, sel.Device.ID)
	}
}

func TestCycleNextSkipsExcluded(t *testing.T) {
	ctx := context.Background()
	b := newBackend("A", "A", "B", "C")
	c, _ := newController(t, b)
	require.NoError(t, c.SetExcludedDevices(ctx, []string{"B"}))

	sel, err := c.CycleNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "C", sel.Device.ID)
	assert.Equal(t, 2, sel.Position)
}

func TestCycleNextExcludedDefault(t *testing.T) {
	ctx := context.Background()
	b := newBackend("B", "A", "B", "C")
	c, _ := newController(t, b)
	require.NoError(t, c.SetExcludedDevices(ctx, []string{"B"}))

	sel, err := c.CycleNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", sel.Device.ID)
	assert.Equal(t, 1, sel.Position)
}

func TestCycleNextNoDevices(t *testing.T) {
	c, _ := newController(t, &fakeBackend{})

	_, err := c.CycleNext(context.Background())
	assert.ErrorIs(t, err, audio.ErrNoDevices)
}

func TestCycleNextPropagatesCommitError(t *testing.T) {
	b := newBackend("A", "A", "B")
	commitErr := &audio.CommitError{Role: audio.RoleMultimedia, Err: errors.New("E_FAIL")}
	b.setErr = commitErr
	c, _ := newController(t, b)
	a := &fakeAnnouncer{}
	c.SetAnnouncer(a)

	_, err := c.CycleNext(context.Background())
	assert.Same(t, commitErr, err, "commit errors are returned untouched")
	assert.Equal(t, []string{"B"}, b.setCalls, "no retry")
	assert.Empty(t, a.announced)
}

func TestCycleNextEnumerationError(t *testing.T) {
	b := &fakeBackend{enumErr: &audio.EnumerationError{Op: "enumerate endpoints", Err: errors.New("boom")}}
	c, _ := newController(t, b)

	_, err := c.CycleNext(context.Background())
	var enumErr *audio.EnumerationError
	assert.ErrorAs(t, err, &enumErr)
	assert.Empty(t, b.setCalls)
}

func TestCycleNextAnnounces(t *testing.T) {
	ctx := context.Background()
	b := newBackend("A", "A", "B")
	c, store := newController(t, b)
	a := &fakeAnnouncer{}
	c.SetAnnouncer(a)

	// Announcements are off by default
	_, err := c.CycleNext(ctx)
	require.NoError(t, err)
	assert.Empty(t, a.announced)

	_, err = store.Update(ctx, func(cfg *config.Config) error {
		cfg.Notifications.Desktop = true
		return nil
	})
	require.NoError(t, err)

	_, err = c.CycleNext(ctx)
	require.NoError(t, err)
	require.Len(t, a.announced, 1)
	assert.Equal(t, "A", a.announced[0].ID)
}

func TestCycleNextAnnouncesWithCurrentSettings(t *testing.T) {
	ctx := context.Background()
	b := newBackend("A", "A", "B")
	c, store := newController(t, b)
	a := &fakeAnnouncer{}
	c.SetAnnouncer(a)

	set := func(desktop, sound bool) {
		_, err := store.Update(ctx, func(cfg *config.Config) error {
			cfg.Notifications.Desktop = desktop
			cfg.Notifications.Sound = sound
			return nil
		})
		require.NoError(t, err)
	}

	set(true, false)
	_, err := c.CycleNext(ctx)
	require.NoError(t, err)

	// Same controller, settings edited on disk in between
	set(false, true)
	_, err = c.CycleNext(ctx)
	require.NoError(t, err)

	require.Len(t, a.settings, 2)
	assert.True(t, a.settings[0].Desktop)
	assert.False(t, a.settings[0].Sound)
	assert.False(t, a.settings[1].Desktop, "desktop turned off after the first cycle")
	assert.True(t, a.settings[1].Sound)
}

func TestCycleNextConfigLockError(t *testing.T) {
	dir := t.TempDir()
	holder := config.NewManager(dir)
	store := config.NewManager(dir)
	store.SetLockTimeout(1)

	// Hold the lock through a slow update on another manager
	release := make(chan struct{})
	locked := make(chan struct{})
	go func() {
		_, _ = holder.Update(context.Background(), func(*config.Config) error {
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked
	defer close(release)

	b := newBackend("A", "A", "B")
	c := New(b, store)
	_, err := c.CycleNext(context.Background())
	var lockErr *config.LockError
	assert.ErrorAs(t, err, &lockErr)
	assert.Empty(t, b.setCalls)
}

func TestSetActiveDevice(t *testing.T) {
	ctx := context.Background()
	b := newBackend("A", "A", "B", "C")
	c, _ := newController(t, b)
	require.NoError(t, c.SetExcludedDevices(ctx, []string{"C"}))

	// Exclusions do not apply to an explicit choice
	require.NoError(t, c.SetActiveDevice(ctx, "C"))
	assert.Equal(t, []string{"C"}, b.setCalls)

	pos, ok, err := c.IndicatorPosition(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "default is excluded")
	assert.Zero(t, pos)

	b.setErr = &audio.BindError{Err: errors.New("class not registered")}
	err = c.SetActiveDevice(ctx, "A")
	var bindErr *audio.BindError
	assert.ErrorAs(t, err, &bindErr)
}

func TestIndicatorPosition(t *testing.T) {
	ctx := context.Background()
	b := newBackend("C", "A", "B", "C")
	c, _ := newController(t, b)

	pos, ok, err := c.IndicatorPosition(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, pos)

	require.NoError(t, c.SetExcludedDevices(ctx, []string{"A"}))
	pos, ok, err = c.IndicatorPosition(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, pos)
	assert.Empty(t, b.setCalls, "no commit")
}

func TestRefreshIndicatorWritesFile(t *testing.T) {
	ctx := context.Background()
	b := newBackend("B", "A", "B")
	c, store := newController(t, b)

	pos, ok, err := c.RefreshIndicator(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, pos)

	path := filepath.Join(filepath.Dir(store.Path()), IndicatorFile)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 1, 0}, data[:4])
}

func TestEnableIndicatorRefreshesAfterChanges(t *testing.T) {
	ctx := context.Background()
	b := newBackend("A", "A", "B")
	c, store := newController(t, b)

	pngPath := filepath.Join(t.TempDir(), "badge.png")
	cfg := config.DefaultConfig()
	cfg.Indicator.Path = pngPath
	require.NoError(t, c.SaveConfig(ctx, cfg))
	assert.NoFileExists(t, pngPath, "indicator disabled")

	c.EnableIndicator()
	_, err := c.CycleNext(ctx)
	require.NoError(t, err)
	assert.FileExists(t, pngPath)

	require.NoError(t, os.Remove(pngPath))
	require.NoError(t, c.SetExcludedDevices(ctx, []string{"A"}))
	assert.FileExists(t, pngPath)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(store.Path()), IndicatorFile))
}

func TestSetExcludedDevicesDedupes(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t, newBackend("A", "A"))

	require.NoError(t, c.SetExcludedDevices(ctx, []string{"x", "", "y", "x", "gone"}))

	cfg, err := c.ExclusionConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "gone"}, cfg.ExcludedDeviceIDs)

	require.NoError(t, c.SetExcludedDevices(ctx, nil))
	cfg, err = c.ExclusionConfig(ctx)
	require.NoError(t, err)
	assert.Empty(t, cfg.ExcludedDeviceIDs)
}

func TestSaveConfigRejectsInvalid(t *testing.T) {
	c, _ := newController(t, newBackend("A", "A"))
	cfg := config.DefaultConfig()
	cfg.Notifications.Volume = 3

	assert.Error(t, c.SaveConfig(context.Background(), cfg))
}

func TestListDevices(t *testing.T) {
	b := newBackend("B", "A", "B")
	c, _ := newController(t, b)

	devices, err := c.ListDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.True(t, devices[1].IsDefault)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.ListDevices(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
