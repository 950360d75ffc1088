//go:build !windows

package hotkey

import "context"

// Listen is not implemented outside Windows
func Listen(ctx context.Context, source Source, watchPath string, onPress func()) error {
	return ErrUnsupportedPlatform
}
