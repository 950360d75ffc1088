//go:build windows

package hotkey

import (
	"context"
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/777genius/audiocycle/internal/logging"
)

var (
	moduser32              = windows.NewLazySystemDLL("user32.dll")
	procRegisterHotKey     = moduser32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = moduser32.NewProc("UnregisterHotKey")
	procGetMessageW        = moduser32.NewProc("GetMessageW")
	procPeekMessageW       = moduser32.NewProc("PeekMessageW")
	procPostThreadMessageW = moduser32.NewProc("PostThreadMessageW")
)

const (
	wmQuit   = 0x0012
	wmHotkey = 0x0312
	wmReload = 0x8000 + 1 // WM_APP + 1

	pmNoRemove = 0x0000

	hotkeyID = 1
)

type msg struct {
	hwnd    windows.Handle
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

// Listen registers the binding from source as a global hotkey and calls onPress
// for each press on the message-loop thread, until ctx is done.
// When watchPath is not empty, the binding is re-read from source whenever that file changes.
func Listen(ctx context.Context, source Source, watchPath string, onPress func()) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	ensureMessageQueue()

	tid := windows.GetCurrentThreadId()
	post := func(m uint32) {
		procPostThreadMessageW.Call(uintptr(tid), uintptr(m), 0, 0)
	}

	registered, err := register(source)
	if err != nil {
		return err
	}
	defer func() {
		if registered {
			procUnregisterHotKey.Call(0, hotkeyID)
		}
	}()

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if watchPath != "" {
		if err := WatchFile(loopCtx, watchPath, func() { post(wmReload) }); err != nil {
			logging.Warn("Hotkey changes will need a restart: %v", err)
		}
	}

	go func() {
		<-loopCtx.Done()
		post(wmQuit)
	}()

	var m msg
	for {
		r, _, callErr := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(r) {
		case -1:
			return fmt.Errorf("GetMessage failed: %w", callErr)
		case 0:
			return ctx.Err()
		}

		switch m.message {
		case wmHotkey:
			if m.wParam == hotkeyID {
				onPress()
			}
		case wmReload:
			if registered {
				procUnregisterHotKey.Call(0, hotkeyID)
			}
			registered, err = register(source)
			if err != nil {
				logging.Error("Failed to re-register hotkey: %v", err)
			}
		}
	}
}

// ensureMessageQueue creates the calling thread's message queue. Messages
// posted to a thread without one are dropped.
func ensureMessageQueue() {
	var m msg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmNoRemove)
}

func register(source Source) (bool, error) {
	b, err := source()
	if err != nil {
		return false, err
	}
	if b == nil {
		logging.Info("No hotkey configured")
		return false, nil
	}

	r, _, callErr := procRegisterHotKey.Call(0, hotkeyID, uintptr(b.Modifiers|modNoRepeat), uintptr(b.Key))
	if r == 0 {
		return false, fmt.Errorf("failed to register hotkey %s, it might be already in use by another application: %w", b, callErr)
	}
	logging.Info("Hotkey registered: %s", b)
	return true, nil
}
