//go:build windows

package audio

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"

	"github.com/777genius/audiocycle/internal/logging"
)

var (
	clsidMMDeviceEnumerator = ole.NewGUID("{BCDE0395-E52F-467C-8E3D-C4579291692E}")
	iidIMMDeviceEnumerator  = ole.NewGUID("{A95664D2-9614-4F35-A746-DE8DB63617E6}")

	// PolicyConfigClient / IPolicyConfig are undocumented. A mismatch here makes
	// CoCreateInstance fail with REGDB_E_CLASSNOTREG or E_NOINTERFACE.
	clsidPolicyConfigClient = ole.NewGUID("{870AF99C-171D-4F9E-AF0D-E63DF40C2BC9}")
	iidIPolicyConfig        = ole.NewGUID("{F8679F50-850A-41CF-9C72-430F290290C8}")
)

var (
	modole32             = windows.NewLazySystemDLL("ole32.dll")
	procPropVariantClear = modole32.NewProc("PropVariantClear")
)

const (
	hrSFalse          = 0x00000001
	hrRPCChangedMode  = 0x80010106
	eRender           = 0
	deviceStateActive = 0x00000001
	stgmRead          = 0x00000000
)

// comScope pins the calling goroutine to its thread and initialises COM there
// with the given concurrency model. The returned func undoes both.
// An existing initialisation on the thread (S_FALSE, RPC_E_CHANGED_MODE) is accepted.
func comScope(coinit uint32) (func(), error) {
	runtime.LockOSThread()

	err := ole.CoInitializeEx(0, coinit)
	if err == nil {
		return func() {
			ole.CoUninitialize()
			runtime.UnlockOSThread()
		}, nil
	}

	var oleErr *ole.OleError
	if errors.As(err, &oleErr) {
		switch uint32(oleErr.Code()) {
		case hrSFalse:
			// Already initialised with the same model; the call still needs balancing.
			return func() {
				ole.CoUninitialize()
				runtime.UnlockOSThread()
			}, nil
		case hrRPCChangedMode:
			logging.Debug("COM already initialised with another model on this thread")
			return runtime.UnlockOSThread, nil
		}
	}

	runtime.UnlockOSThread()
	return nil, fmt.Errorf("CoInitializeEx failed: %w", err)
}

// hresult converts a raw HRESULT into an error, nil for success codes
func hresult(hr uintptr) error {
	if int32(hr) < 0 {
		return ole.NewError(hr)
	}
	return nil
}
