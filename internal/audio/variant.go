package audio

import (
	"encoding/binary"
	"strconv"
)

// PROPVARIANT layout: a 2-byte type tag at offset 0, three reserved words,
// then the value union at offset 8 on both 32- and 64-bit builds.
const (
	variantTagOffset     = 0
	variantPayloadOffset = 8

	// vtLPWSTR marks a pointer to a NUL-terminated UTF-16 string
	vtLPWSTR = 31
)

const pointerSize = strconv.IntSize / 8

// variant is a property value handed out by the OS property store.
// WideString follows the payload pointer itself so no address ever travels
// as a plain integer. Clear releases whatever the value owns and must be
// called exactly once.
type variant interface {
	Bytes() []byte
	WideString() (string, error)
	Clear() error
}

// variantLayout reads fields out of the raw bytes of a PROPVARIANT
type variantLayout []byte

func (b variantLayout) tag() (uint16, bool) {
	if len(b) < variantTagOffset+2 {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b[variantTagOffset:]), true
}

func (b variantLayout) pointer() (uintptr, bool) {
	if len(b) < variantPayloadOffset+pointerSize {
		return 0, false
	}
	if pointerSize == 4 {
		return uintptr(binary.LittleEndian.Uint32(b[variantPayloadOffset:])), true
	}
	return uintptr(binary.LittleEndian.Uint64(b[variantPayloadOffset:])), true
}

// decodeVariantString extracts the string held by a VT_LPWSTR variant.
// ok is false for any other tag, a null pointer or an undecodable string.
func decodeVariantString(v variant) (s string, ok bool) {
	layout := variantLayout(v.Bytes())

	tag, ok := layout.tag()
	if !ok || tag != vtLPWSTR {
		return "", false
	}

	ptr, ok := layout.pointer()
	if !ok || ptr == 0 {
		return "", false
	}

	s, err := v.WideString()
	if err != nil {
		return "", false
	}
	return s, true
}
