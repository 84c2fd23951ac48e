//go:build !windows

package winsys

// New reports that no backend exists for this platform. The rest of the
// code base stays portable: everything above winsys runs against the Fake
// in tests, and the CLI surfaces this error on startup.
func New() (WindowSystem, error) {
	return nil, ErrUnsupported
}
