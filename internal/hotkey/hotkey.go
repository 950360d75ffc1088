// ABOUTME: Global hotkey accelerators ("CommandOrControl+Shift+A") and their registration.
// ABOUTME: Parsing is portable; registration needs the Windows message loop.

package hotkey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Modifier flags as taken by RegisterHotKey
const (
	ModAlt      uint32 = 0x0001
	ModControl  uint32 = 0x0002
	ModShift    uint32 = 0x0004
	ModWin      uint32 = 0x0008
	modNoRepeat uint32 = 0x4000
)

// ErrUnsupportedPlatform is returned by Listen where global hotkeys are not implemented
var ErrUnsupportedPlatform = errors.New("global hotkeys are not supported on this platform")

// Binding is a parsed accelerator
type Binding struct {
	Modifiers uint32
	Key       uint32 // virtual-key code
	KeyName   string
}

var modifierNames = map[string]uint32{
	"commandorcontrol": ModControl,
	"cmdorctrl":        ModControl,
	"commandorctrl":    ModControl,
	"cmdorcontrol":     ModControl,
	"control":          ModControl,
	"ctrl":             ModControl,
	"command":          ModWin,
	"cmd":              ModWin,
	"super":            ModWin,
	"meta":             ModWin,
	"win":              ModWin,
	"alt":              ModAlt,
	"option":           ModAlt,
	"altgr":            ModAlt | ModControl,
	"shift":            ModShift,
}

var namedKeys = map[string]uint32{
	"space":      0x20,
	"tab":        0x09,
	"enter":      0x0D,
	"return":     0x0D,
	"escape":     0x1B,
	"esc":        0x1B,
	"backspace":  0x08,
	"delete":     0x2E,
	"insert":     0x2D,
	"home":       0x24,
	"end":        0x23,
	"pageup":     0x21,
	"pagedown":   0x22,
	"up":         0x26,
	"arrowup":    0x26,
	"down":       0x28,
	"arrowdown":  0x28,
	"left":       0x25,
	"arrowleft":  0x25,
	"right":      0x27,
	"arrowright": 0x27,
}

// Parse parses a "+"-separated accelerator: any modifiers followed by exactly one key
func Parse(accel string) (Binding, error) {
	accel = strings.TrimSpace(accel)
	if accel == "" {
		return Binding{}, fmt.Errorf("empty hotkey")
	}

	var b Binding
	for _, raw := range strings.Split(accel, "+") {
		token := strings.TrimSpace(raw)
		if token == "" {
			return Binding{}, fmt.Errorf("invalid hotkey %q: empty key", accel)
		}
		lower := strings.ToLower(token)

		if mod, ok := modifierNames[lower]; ok {
			if b.KeyName != "" {
				return Binding{}, fmt.Errorf("invalid hotkey %q: modifier %s after key", accel, token)
			}
			b.Modifiers |= mod
			continue
		}

		if b.KeyName != "" {
			return Binding{}, fmt.Errorf("invalid hotkey %q: more than one key", accel)
		}
		vk, name, ok := keyCode(lower)
		if !ok {
			return Binding{}, fmt.Errorf("invalid hotkey %q: unknown key %s", accel, token)
		}
		b.Key = vk
		b.KeyName = name
	}

	if b.KeyName == "" {
		return Binding{}, fmt.Errorf("invalid hotkey %q: no key", accel)
	}
	return b, nil
}

func keyCode(lower string) (uint32, string, bool) {
	lower = strings.TrimPrefix(lower, "key")
	if len(lower) == 1 {
		c := lower[0]
		switch {
		case c >= 'a' && c <= 'z':
			return uint32(c-'a') + 0x41, strings.ToUpper(lower), true
		case c >= '0' && c <= '9':
			return uint32(c-'0') + 0x30, lower, true
		}
	}

	if d := strings.TrimPrefix(lower, "digit"); d != lower && len(d) == 1 && d[0] >= '0' && d[0] <= '9' {
		return uint32(d[0]-'0') + 0x30, d, true
	}

	if strings.HasPrefix(lower, "f") {
		if n, err := strconv.Atoi(lower[1:]); err == nil && n >= 1 && n <= 24 {
			return 0x70 + uint32(n-1), "F" + strconv.Itoa(n), true
		}
	}

	if vk, ok := namedKeys[lower]; ok {
		return vk, strings.ToUpper(lower[:1]) + lower[1:], true
	}
	return 0, "", false
}

// String renders the binding in canonical accelerator form
func (b Binding) String() string {
	var parts []string
	if b.Modifiers&ModControl != 0 {
		parts = append(parts, "Ctrl")
	}
	if b.Modifiers&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if b.Modifiers&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if b.Modifiers&ModWin != 0 {
		parts = append(parts, "Win")
	}
	parts = append(parts, b.KeyName)
	return strings.Join(parts, "+")
}
