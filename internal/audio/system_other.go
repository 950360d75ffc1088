//go:build !windows

package audio

// Enumerate always fails: render endpoints are only reachable through the Windows audio stack
func (s *System) Enumerate() ([]AudioDevice, error) {
	return nil, &EnumerationError{Op: "create device enumerator", Err: ErrUnsupportedPlatform}
}

// SetDefault always fails on this platform
func (s *System) SetDefault(id string) error {
	return &BindError{Err: ErrUnsupportedPlatform}
}
