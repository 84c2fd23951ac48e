//go:build windows

package hotkeys

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procRegisterHotKey   = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey = user32.NewProc("UnregisterHotKey")
)

const (
	modAlt     = 0x0001
	modControl = 0x0002
	modShift   = 0x0004
	modWin     = 0x0008
)

// systemRegistrar binds hotkeys on the host window via user32.
type systemRegistrar struct {
	hwnd uintptr
}

// NewSystemRegistrar returns the Win32 hotkey registrar for hwnd.
func NewSystemRegistrar(hwnd uintptr) (Registrar, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("load user32: %w", err)
	}
	return &systemRegistrar{hwnd: hwnd}, nil
}

func (r *systemRegistrar) Register(id int, b Binding) error {
	vk, ok := virtualKey(b.Key)
	if !ok {
		return fmt.Errorf("hotkey id %d: no virtual key for %q", id, b.Key)
	}
	ret, _, err := procRegisterHotKey.Call(r.hwnd, uintptr(id), uintptr(nativeModifiers(b.Mods)), uintptr(vk))
	if ret == 0 {
		return fmt.Errorf("register hotkey id %d (%s): %w", id, b, err)
	}
	return nil
}

func (r *systemRegistrar) Unregister(id int) {
	procUnregisterHotKey.Call(r.hwnd, uintptr(id)) //nolint:errcheck
}

func nativeModifiers(m Modifiers) uint32 {
	var out uint32
	if m&ModCtrl != 0 {
		out |= modControl
	}
	if m&ModAlt != 0 {
		out |= modAlt
	}
	if m&ModShift != 0 {
		out |= modShift
	}
	if m&ModSuper != 0 {
		out |= modWin
	}
	return out
}

// virtualKey maps a normalized key name to its Win32 virtual key code.
// Digits and uppercase letters share their ASCII value.
func virtualKey(key string) (uint32, bool) {
	if len(key) == 1 {
		c := key[0]
		if c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' {
			return uint32(c), true
		}
		return 0, false
	}
	if strings.HasPrefix(key, "F") {
		const vkF1 = 0x70
		if n, err := strconv.Atoi(key[1:]); err == nil && n >= 1 && n <= 12 {
			return vkF1 + uint32(n) - 1, true
		}
	}
	return 0, false
}
