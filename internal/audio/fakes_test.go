package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// fakeVariant lays out a PROPVARIANT the way the OS would and resolves
// "pointers" through a lookup table instead of memory
type fakeVariant struct {
	raw     []byte
	strings map[uintptr]string
	clears  int
}

func newFakeVariant(tag uint16, ptr uintptr, strings map[uintptr]string) *fakeVariant {
	raw := make([]byte, 24)
	binary.LittleEndian.PutUint16(raw[variantTagOffset:], tag)
	if pointerSize == 4 {
		binary.LittleEndian.PutUint32(raw[variantPayloadOffset:], uint32(ptr))
	} else {
		binary.LittleEndian.PutUint64(raw[variantPayloadOffset:], uint64(ptr))
	}
	return &fakeVariant{raw: raw, strings: strings}
}

func (v *fakeVariant) Bytes() []byte { return v.raw }

func (v *fakeVariant) WideString() (string, error) {
	ptr, ok := variantLayout(v.raw).pointer()
	if !ok {
		return "", errors.New("payload too short")
	}
	s, ok := v.strings[ptr]
	if !ok {
		return "", fmt.Errorf("no string at 0x%x", ptr)
	}
	return s, nil
}

func (v *fakeVariant) Clear() error {
	v.clears++
	return nil
}

type fakeStore struct {
	value    *fakeVariant
	err      error
	released int
}

func (s *fakeStore) FriendlyName() (variant, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.value, nil
}

func (s *fakeStore) Release() { s.released++ }

type fakeEndpoint struct {
	id       string
	idErr    error
	store    *fakeStore
	storeErr error
	released int
}

func (e *fakeEndpoint) ID() (string, error) { return e.id, e.idErr }

func (e *fakeEndpoint) OpenPropertyStore() (propertyStore, error) {
	if e.storeErr != nil {
		return nil, e.storeErr
	}
	return e.store, nil
}

func (e *fakeEndpoint) Release() { e.released++ }

type fakeCollection struct {
	endpoints []*fakeEndpoint
	countErr  error
	released  int
}

func (c *fakeCollection) Count() (int, error) {
	if c.countErr != nil {
		return 0, c.countErr
	}
	return len(c.endpoints), nil
}

func (c *fakeCollection) Item(i int) (endpoint, error) {
	if i >= len(c.endpoints) {
		return nil, errors.New("index out of range")
	}
	return c.endpoints[i], nil
}

func (c *fakeCollection) Release() { c.released++ }

type fakeEnumerator struct {
	defaultID  string
	defaultErr error
	collection *fakeCollection
	enumErr    error
	roles      []Role
}

func (e *fakeEnumerator) DefaultEndpointID(role Role) (string, error) {
	e.roles = append(e.roles, role)
	return e.defaultID, e.defaultErr
}

func (e *fakeEnumerator) ActiveRenderEndpoints() (endpointCollection, error) {
	if e.enumErr != nil {
		return nil, e.enumErr
	}
	return e.collection, nil
}

// namedEndpoint returns an endpoint whose friendly name decodes to name
func namedEndpoint(id, name string) *fakeEndpoint {
	const ptr = 0x1000
	return &fakeEndpoint{
		id:    id,
		store: &fakeStore{value: newFakeVariant(vtLPWSTR, ptr, map[uintptr]string{ptr: name})},
	}
}

type fakePolicy struct {
	failOn   map[Role]error
	calls    []Role
	ids      []string
	released int
}

func (p *fakePolicy) SetDefaultEndpoint(id string, role Role) error {
	p.calls = append(p.calls, role)
	p.ids = append(p.ids, id)
	return p.failOn[role]
}

func (p *fakePolicy) Release() { p.released++ }
