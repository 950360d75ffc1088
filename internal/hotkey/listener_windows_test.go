//go:build windows

package hotkey

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"
)

func TestEnsureMessageQueueAcceptsPosts(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ensureMessageQueue()
	r, _, err := procPostThreadMessageW.Call(uintptr(windows.GetCurrentThreadId()), wmReload, 0, 0)
	assert.NotZero(t, r, "post to own thread failed: %v", err)
}

func TestListenWithoutHotkeyStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	none := func() (*Binding, error) { return nil, nil }
	done := make(chan error, 1)
	go func() { done <- Listen(ctx, none, "", func() {}) }()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Listen did not return after cancel with no hotkey registered")
	}
}
