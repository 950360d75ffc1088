package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rogpeppe/go-internal/lockedfile"

	"github.com/777genius/audiocycle/internal/logging"
)

// DefaultLockTimeout bounds how long a load or save waits for another process
const DefaultLockTimeout = 5 * time.Second

// LockError reports that the config lock could not be acquired
type LockError struct {
	Path string
	Err  error
}

func (e *LockError) Error() string {
	return fmt.Sprintf("failed to lock config manager (%s): %v", e.Path, e.Err)
}

func (e *LockError) Unwrap() error { return e.Err }

// Manager owns the config file. Each Load, Save or Update holds the lock for
// its own duration only: a channel semaphore within the process and a lock
// file next to the config across processes (tray daemon and CLI).
type Manager struct {
	path        string
	sem         chan struct{}
	fileLock    *lockedfile.Mutex
	lockTimeout time.Duration
}

// NewManager creates a manager for <dir>/config.json
func NewManager(dir string) *Manager {
	path := filepath.Join(dir, FileName)
	return &Manager{
		path:        path,
		sem:         make(chan struct{}, 1),
		fileLock:    lockedfile.MutexAt(path + ".lock"),
		lockTimeout: DefaultLockTimeout,
	}
}

// Path returns the config file path
func (m *Manager) Path() string {
	return m.path
}

// SetLockTimeout changes how long lock acquisition may block; zero or less means
// only the caller's context bounds it
func (m *Manager) SetLockTimeout(d time.Duration) {
	m.lockTimeout = d
}

// Load reads the current config, or the defaults when no file exists yet
func (m *Manager) Load(ctx context.Context) (*Config, error) {
	unlock, err := m.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return Load(m.path)
}

// Save validates and writes cfg
func (m *Manager) Save(ctx context.Context, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	unlock, err := m.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	return Write(m.path, cfg)
}

// Update loads, modifies and saves the config under a single lock
func (m *Manager) Update(ctx context.Context, fn func(*Config) error) (*Config, error) {
	unlock, err := m.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	cfg, err := Load(m.path)
	if err != nil {
		return nil, err
	}
	if err := fn(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := Write(m.path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (m *Manager) lock(ctx context.Context) (func(), error) {
	if m.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.lockTimeout)
		defer cancel()
	}

	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, &LockError{Path: m.path, Err: ctx.Err()}
	}
	release := func() { <-m.sem }

	type result struct {
		unlock func()
		err    error
	}
	done := make(chan result, 1)
	go func() {
		unlock, err := m.fileLock.Lock()
		done <- result{unlock, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			release()
			return nil, &LockError{Path: m.path, Err: r.err}
		}
		return func() {
			r.unlock()
			release()
		}, nil

	case <-ctx.Done():
		// The file lock may still be granted later; hand it back as soon as it is.
		go func() {
			if r := <-done; r.err == nil {
				r.unlock()
			}
			release()
		}()
		logging.Warn("Timed out waiting for config lock: %s", m.path)
		return nil, &LockError{Path: m.path, Err: ctx.Err()}
	}
}
