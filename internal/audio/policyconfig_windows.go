//go:build windows

package audio

import (
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

// iPolicyConfigVtbl is the IPolicyConfig method table. Dispatch is positional,
// so every slot is declared even though only SetDefaultEndpoint is called.
type iPolicyConfigVtbl struct {
	ole.IUnknownVtbl
	GetMixFormat          uintptr
	GetDeviceFormat       uintptr
	ResetDeviceFormat     uintptr
	SetDeviceFormat       uintptr
	GetProcessingPeriod   uintptr
	SetProcessingPeriod   uintptr
	GetShareMode          uintptr
	SetShareMode          uintptr
	GetPropertyValue      uintptr
	SetPropertyValue      uintptr
	SetDefaultEndpoint    uintptr
	SetEndpointVisibility uintptr
}

type iPolicyConfig struct {
	ole.IUnknown
}

func (p *iPolicyConfig) vtbl() *iPolicyConfigVtbl {
	return (*iPolicyConfigVtbl)(unsafe.Pointer(p.RawVTable))
}

// SetDefaultEndpoint wraps IPolicyConfig::SetDefaultEndpoint(PCWSTR, ERole)
func (p *iPolicyConfig) SetDefaultEndpoint(id string, role Role) error {
	wid, err := windows.UTF16PtrFromString(id)
	if err != nil {
		return fmt.Errorf("invalid device id: %w", err)
	}

	hr, _, _ := syscall.SyscallN(
		p.vtbl().SetDefaultEndpoint,
		uintptr(unsafe.Pointer(p)),
		uintptr(unsafe.Pointer(wid)),
		uintptr(role),
	)
	runtime.KeepAlive(wid)
	return hresult(hr)
}

func (p *iPolicyConfig) Release() {
	p.IUnknown.Release()
}

// bindPolicyConfig creates the PolicyConfigClient object. COM must already be
// initialised on the calling thread.
func bindPolicyConfig() (policyConfig, error) {
	unk, err := ole.CreateInstance(clsidPolicyConfigClient, iidIPolicyConfig)
	if err != nil {
		return nil, err
	}
	return (*iPolicyConfig)(unsafe.Pointer(unk)), nil
}
