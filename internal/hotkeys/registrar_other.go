//go:build !windows

package hotkeys

// NewSystemRegistrar reports that global hotkeys have no backend on
// this platform. The host degrades gracefully: tabs are still reachable
// through the strip, just not through system-wide bindings.
func NewSystemRegistrar(uintptr) (Registrar, error) {
	return nil, ErrUnsupported
}
