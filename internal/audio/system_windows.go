//go:build windows

package audio

import (
	"github.com/go-ole/go-ole"
)

// Enumerate lists active render endpoints and marks the multimedia default
func (s *System) Enumerate() ([]AudioDevice, error) {
	return enumerateSystem()
}

// SetDefault commits id as the default endpoint for General, Multimedia and Communications.
// The policy object wants a single-threaded apartment.
func (s *System) SetDefault(id string) error {
	release, err := comScope(ole.COINIT_APARTMENTTHREADED)
	if err != nil {
		return &BindError{Err: err}
	}
	defer release()

	return commit(bindPolicyConfig, id)
}
