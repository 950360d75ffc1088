//go:build windows

package audio

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"
)

func TestPropVariantWideString(t *testing.T) {
	name, err := windows.UTF16PtrFromString("Speakers (High Definition Audio)")
	require.NoError(t, err)

	v := &propVariant{}
	v.raw.vt = vtLPWSTR
	*(**uint16)(unsafe.Pointer(&v.raw.val[0])) = name

	got, ok := decodeVariantString(v)
	runtime.KeepAlive(name)
	assert.True(t, ok)
	assert.Equal(t, "Speakers (High Definition Audio)", got)
}

func TestPropVariantWideStringNull(t *testing.T) {
	v := &propVariant{}
	v.raw.vt = vtLPWSTR

	_, err := v.WideString()
	assert.Error(t, err)
	_, ok := decodeVariantString(v)
	assert.False(t, ok)
}
