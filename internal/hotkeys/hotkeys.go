// Package hotkeys parses system-wide hotkey bindings and manages their
// registration lifecycle. The id space is fixed: ids 1-10 select tabs
// 1-10, ids 101 and up spawn the profile at index id-101.
package hotkeys

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tabnest/tabnest/internal/config"
)

// ErrUnsupported is returned by NewSystemRegistrar on platforms without
// a global hotkey backend.
var ErrUnsupported = errors.New("hotkeys: no registrar backend on this platform")

// Modifiers is the set of modifier keys a binding requires.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModAlt
	ModShift
	ModSuper
)

func (m Modifiers) String() string {
	var parts []string
	if m&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if m&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if m&ModSuper != 0 {
		parts = append(parts, "Super")
	}
	return strings.Join(parts, "+")
}

// Binding is one parsed hotkey: at least one modifier plus a key. Key
// is normalized to "F1".."F12", "0".."9" or "A".."Z".
type Binding struct {
	Mods Modifiers
	Key  string
}

func (b Binding) String() string {
	if b.Mods == 0 {
		return b.Key
	}
	return b.Mods.String() + "+" + b.Key
}

// Parse reads a binding string like "Ctrl+Shift+F1". Parts are
// case-insensitive and may be padded with spaces; Control, Win, Windows
// and Super are accepted aliases. A binding needs at least one modifier
// so a bare key press can never trigger it.
func Parse(s string) (Binding, error) {
	var b Binding
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		switch strings.ToUpper(part) {
		case "CTRL", "CONTROL":
			b.Mods |= ModCtrl
		case "ALT":
			b.Mods |= ModAlt
		case "SHIFT":
			b.Mods |= ModShift
		case "WIN", "WINDOWS", "SUPER":
			b.Mods |= ModSuper
		default:
			if b.Key != "" {
				return Binding{}, fmt.Errorf("hotkey %q: more than one key", s)
			}
			key, err := normalizeKey(part)
			if err != nil {
				return Binding{}, fmt.Errorf("hotkey %q: %w", s, err)
			}
			b.Key = key
		}
	}
	if b.Mods == 0 {
		return Binding{}, fmt.Errorf("hotkey %q: no modifier", s)
	}
	if b.Key == "" {
		return Binding{}, fmt.Errorf("hotkey %q: no key", s)
	}
	return b, nil
}

func normalizeKey(key string) (string, error) {
	k := strings.ToUpper(key)
	if len(k) > 1 && k[0] == 'F' {
		n, err := strconv.Atoi(k[1:])
		if err != nil || n < 1 || n > 12 {
			return "", fmt.Errorf("unknown key %q", key)
		}
		return "F" + strconv.Itoa(n), nil
	}
	if len(k) == 1 {
		c := k[0]
		if c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' {
			return string(c), nil
		}
	}
	return "", fmt.Errorf("unknown key %q", key)
}

// Registration id space.
const (
	TabIDBase     = 1
	tabIDCount    = 10
	ProfileIDBase = 101
)

// IsTabID reports whether id selects a tab.
func IsTabID(id int) bool { return id >= TabIDBase && id < TabIDBase+tabIDCount }

// IsProfileID reports whether id spawns a profile.
func IsProfileID(id int) bool { return id >= ProfileIDBase }

// TabIndex returns the 0-based tab index a tab hotkey id addresses.
func TabIndex(id int) (int, bool) {
	if !IsTabID(id) {
		return 0, false
	}
	return id - TabIDBase, true
}

// ProfileIndex returns the profile index a profile hotkey id addresses.
func ProfileIndex(id int) (int, bool) {
	if !IsProfileID(id) {
		return 0, false
	}
	return id - ProfileIDBase, true
}

// Registrar is the platform hook that binds system-wide hotkeys to the
// host window.
type Registrar interface {
	Register(id int, b Binding) error
	Unregister(id int)
}

// Set owns the currently registered ids so a config reload can unbind
// and rebind the whole table in one sweep.
type Set struct {
	log zerolog.Logger
	reg Registrar
	ids []int
}

func NewSet(log zerolog.Logger, reg Registrar) *Set {
	return &Set{
		log: log.With().Str("component", "hotkeys").Logger(),
		reg: reg,
	}
}

// BindTabs registers the tab selection hotkeys. Keys of bindings map a
// binding string to a 1-based tab number; invalid entries are skipped
// with a warning so one typo does not take down the rest of the table.
func (s *Set) BindTabs(bindings map[string]int) {
	for hk, num := range bindings {
		b, err := Parse(hk)
		if err != nil {
			s.log.Warn().Err(err).Msg("skipping tab hotkey")
			continue
		}
		if num < 1 || num > tabIDCount {
			s.log.Warn().Str("hotkey", hk).Int("tab", num).Msg("tab number out of range")
			continue
		}
		s.register(TabIDBase+num-1, b)
	}
}

// BindProfiles registers one hotkey per profile that declares one. The
// profile at index i gets id ProfileIDBase+i.
func (s *Set) BindProfiles(profiles []config.Profile) {
	for i, p := range profiles {
		if p.Hotkey == "" {
			continue
		}
		b, err := Parse(p.Hotkey)
		if err != nil {
			s.log.Warn().Err(err).Str("profile", p.Name).Msg("skipping profile hotkey")
			continue
		}
		s.register(ProfileIDBase+i, b)
	}
}

func (s *Set) register(id int, b Binding) {
	if err := s.reg.Register(id, b); err != nil {
		s.log.Warn().Err(err).Msg("hotkey registration failed")
		return
	}
	s.ids = append(s.ids, id)
	s.log.Debug().Int("id", id).Stringer("binding", b).Msg("hotkey registered")
}

// UnbindAll unregisters every id the set has registered.
func (s *Set) UnbindAll() {
	for _, id := range s.ids {
		s.reg.Unregister(id)
	}
	s.ids = nil
}

// IDs returns a copy of the currently registered ids.
func (s *Set) IDs() []int {
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}
