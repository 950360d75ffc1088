//go:build windows

package audio

import (
	"errors"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

// pkeyDeviceFriendlyName is PKEY_Device_FriendlyName
var pkeyDeviceFriendlyName = propertyKey{
	fmtid: *ole.NewGUID("{A45C254E-DF1C-4EFD-8020-67D146A850E0}"),
	pid:   14,
}

type propertyKey struct {
	fmtid ole.GUID
	pid   uint32
}

type iMMDeviceEnumeratorVtbl struct {
	ole.IUnknownVtbl
	EnumAudioEndpoints                     uintptr
	GetDefaultAudioEndpoint                uintptr
	GetDevice                              uintptr
	RegisterEndpointNotificationCallback   uintptr
	UnregisterEndpointNotificationCallback uintptr
}

type iMMDeviceCollectionVtbl struct {
	ole.IUnknownVtbl
	GetCount uintptr
	Item     uintptr
}

type iMMDeviceVtbl struct {
	ole.IUnknownVtbl
	Activate          uintptr
	OpenPropertyStore uintptr
	GetId             uintptr
	GetState          uintptr
}

type iPropertyStoreVtbl struct {
	ole.IUnknownVtbl
	GetCount uintptr
	GetAt    uintptr
	GetValue uintptr
	SetValue uintptr
	Commit   uintptr
}

func vtable[T any](obj *ole.IUnknown) *T {
	return (*T)(unsafe.Pointer(obj.RawVTable))
}

func enumerateSystem() ([]AudioDevice, error) {
	release, err := comScope(ole.COINIT_MULTITHREADED)
	if err != nil {
		return nil, &EnumerationError{Op: "initialize COM", Err: err}
	}
	defer release()

	unk, err := ole.CreateInstance(clsidMMDeviceEnumerator, iidIMMDeviceEnumerator)
	if err != nil {
		return nil, &EnumerationError{Op: "create device enumerator", Err: err}
	}
	defer unk.Release()

	return enumerate(&mmDeviceEnumerator{obj: unk})
}

type mmDeviceEnumerator struct {
	obj *ole.IUnknown
}

func (e *mmDeviceEnumerator) DefaultEndpointID(role Role) (string, error) {
	var dev *ole.IUnknown
	hr, _, _ := syscall.SyscallN(
		vtable[iMMDeviceEnumeratorVtbl](e.obj).GetDefaultAudioEndpoint,
		uintptr(unsafe.Pointer(e.obj)),
		uintptr(eRender),
		uintptr(role),
		uintptr(unsafe.Pointer(&dev)),
	)
	if err := hresult(hr); err != nil {
		return "", err
	}
	d := &mmDevice{obj: dev}
	defer d.Release()
	return d.ID()
}

func (e *mmDeviceEnumerator) ActiveRenderEndpoints() (endpointCollection, error) {
	var coll *ole.IUnknown
	hr, _, _ := syscall.SyscallN(
		vtable[iMMDeviceEnumeratorVtbl](e.obj).EnumAudioEndpoints,
		uintptr(unsafe.Pointer(e.obj)),
		uintptr(eRender),
		uintptr(deviceStateActive),
		uintptr(unsafe.Pointer(&coll)),
	)
	if err := hresult(hr); err != nil {
		return nil, err
	}
	return &mmDeviceCollection{obj: coll}, nil
}

type mmDeviceCollection struct {
	obj *ole.IUnknown
}

func (c *mmDeviceCollection) Count() (int, error) {
	var n uint32
	hr, _, _ := syscall.SyscallN(
		vtable[iMMDeviceCollectionVtbl](c.obj).GetCount,
		uintptr(unsafe.Pointer(c.obj)),
		uintptr(unsafe.Pointer(&n)),
	)
	if err := hresult(hr); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (c *mmDeviceCollection) Item(i int) (endpoint, error) {
	var dev *ole.IUnknown
	hr, _, _ := syscall.SyscallN(
		vtable[iMMDeviceCollectionVtbl](c.obj).Item,
		uintptr(unsafe.Pointer(c.obj)),
		uintptr(uint32(i)),
		uintptr(unsafe.Pointer(&dev)),
	)
	if err := hresult(hr); err != nil {
		return nil, err
	}
	return &mmDevice{obj: dev}, nil
}

func (c *mmDeviceCollection) Release() {
	c.obj.Release()
}

type mmDevice struct {
	obj *ole.IUnknown
}

func (d *mmDevice) ID() (string, error) {
	var p *uint16
	hr, _, _ := syscall.SyscallN(
		vtable[iMMDeviceVtbl](d.obj).GetId,
		uintptr(unsafe.Pointer(d.obj)),
		uintptr(unsafe.Pointer(&p)),
	)
	if err := hresult(hr); err != nil {
		return "", err
	}
	defer ole.CoTaskMemFree(uintptr(unsafe.Pointer(p)))
	return ole.LpOleStrToString(p), nil
}

func (d *mmDevice) OpenPropertyStore() (propertyStore, error) {
	var store *ole.IUnknown
	hr, _, _ := syscall.SyscallN(
		vtable[iMMDeviceVtbl](d.obj).OpenPropertyStore,
		uintptr(unsafe.Pointer(d.obj)),
		uintptr(stgmRead),
		uintptr(unsafe.Pointer(&store)),
	)
	if err := hresult(hr); err != nil {
		return nil, err
	}
	return &comPropertyStore{obj: store}, nil
}

func (d *mmDevice) Release() {
	d.obj.Release()
}

type comPropertyStore struct {
	obj *ole.IUnknown
}

func (s *comPropertyStore) FriendlyName() (variant, error) {
	v := &propVariant{}
	hr, _, _ := syscall.SyscallN(
		vtable[iPropertyStoreVtbl](s.obj).GetValue,
		uintptr(unsafe.Pointer(s.obj)),
		uintptr(unsafe.Pointer(&pkeyDeviceFriendlyName)),
		uintptr(unsafe.Pointer(&v.raw)),
	)
	if err := hresult(hr); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *comPropertyStore) Release() {
	s.obj.Release()
}

// propVariant owns one PROPVARIANT written by IPropertyStore::GetValue
type propVariant struct {
	raw struct {
		vt       uint16
		reserved [3]uint16
		val      [2]uint64
	}
	cleared bool
}

func (v *propVariant) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&v.raw)), unsafe.Sizeof(v.raw))
}

// WideString reads the VT_LPWSTR payload; the string is CoTaskMem-owned until Clear
func (v *propVariant) WideString() (string, error) {
	p := *(**uint16)(unsafe.Pointer(&v.raw.val[0]))
	if p == nil {
		return "", errors.New("null string pointer")
	}
	return windows.UTF16PtrToString(p), nil
}

func (v *propVariant) Clear() error {
	if v.cleared {
		return nil
	}
	v.cleared = true
	hr, _, _ := procPropVariantClear.Call(uintptr(unsafe.Pointer(&v.raw)))
	return hresult(hr)
}
