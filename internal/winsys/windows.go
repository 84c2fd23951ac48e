//go:build windows

package winsys

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetClassNameW            = user32.NewProc("GetClassNameW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procSetWindowPos             = user32.NewProc("SetWindowPos")
	procShowWindow               = user32.NewProc("ShowWindow")
	procPostMessageW             = user32.NewProc("PostMessageW")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procBringWindowToTop         = user32.NewProc("BringWindowToTop")
	procIsWindow                 = user32.NewProc("IsWindow")
)

const (
	wmClose     = 0x0010
	swHide      = 0
	swShow      = 5
	swpNoZOrder = 0x0004
	maxTitleLen = 512
	maxClassLen = 256
)

type win32Rect struct {
	left, top, right, bottom int32
}

// win32 implements WindowSystem via user32.
type win32 struct{}

// New returns the Win32 window system.
func New() (WindowSystem, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("load user32: %w", err)
	}
	return &win32{}, nil
}

// EnumWindows callbacks registered with syscall.NewCallback are never
// released, and the process-wide callback budget is small. A single
// callback is created once; the visit closure is handed to it through
// enumVisit under enumMu, which also serializes concurrent enumerations.
var (
	enumMu       sync.Mutex
	enumVisit    func(WindowInfo) bool
	enumProcOnce sync.Once
	enumProcPtr  uintptr
)

func enumProc(hwnd, _ uintptr) uintptr {
	if enumVisit(describeWindow(WindowID(hwnd))) {
		return 1
	}
	return 0
}

func (s *win32) EnumWindows(visit func(WindowInfo) bool) error {
	enumProcOnce.Do(func() {
		enumProcPtr = syscall.NewCallback(enumProc)
	})

	enumMu.Lock()
	defer enumMu.Unlock()
	enumVisit = visit
	defer func() { enumVisit = nil }()

	// EnumWindows reports failure when the callback stops enumeration
	// early, so the return value alone cannot distinguish short-circuit
	// from error; GetLastError disambiguates.
	ret, _, lastErr := procEnumWindows.Call(enumProcPtr, 0)
	if ret == 0 {
		if errno, ok := lastErr.(syscall.Errno); ok && errno != 0 {
			return fmt.Errorf("EnumWindows: %w", errno)
		}
	}
	return nil
}

func describeWindow(id WindowID) WindowInfo {
	return WindowInfo{
		ID:    id,
		PID:   windowPID(id),
		Title: windowText(id, procGetWindowTextW, maxTitleLen),
		Class: windowText(id, procGetClassNameW, maxClassLen),
	}
}

func windowPID(id WindowID) int {
	var pid uint32
	procGetWindowThreadProcessId.Call(uintptr(id), uintptr(unsafe.Pointer(&pid)))
	return int(pid)
}

func windowText(id WindowID, proc *windows.LazyProc, maxLen int) string {
	buf := make([]uint16, maxLen)
	n, _, _ := proc.Call(uintptr(id), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

func (s *win32) WindowRect(id WindowID) (Rect, error) {
	var r win32Rect
	ret, _, lastErr := procGetWindowRect.Call(uintptr(id), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return Rect{}, fmt.Errorf("GetWindowRect(%#x): %w", uintptr(id), lastErr)
	}
	return Rect{X: r.left, Y: r.top, Width: r.right - r.left, Height: r.bottom - r.top}, nil
}

func (s *win32) MoveWindow(id WindowID, r Rect) error {
	ret, _, lastErr := procSetWindowPos.Call(
		uintptr(id),
		0, // ignored with SWP_NOZORDER
		uintptr(r.X), uintptr(r.Y),
		uintptr(r.Width), uintptr(r.Height),
		swpNoZOrder,
	)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos(%#x): %w", uintptr(id), lastErr)
	}
	return nil
}

func (s *win32) ShowWindow(id WindowID) {
	procShowWindow.Call(uintptr(id), swShow)
}

func (s *win32) HideWindow(id WindowID) {
	procShowWindow.Call(uintptr(id), swHide)
}

func (s *win32) RaiseWindow(id WindowID) {
	procSetForegroundWindow.Call(uintptr(id))
	procBringWindowToTop.Call(uintptr(id))
}

func (s *win32) RequestClose(id WindowID) bool {
	ret, _, _ := procPostMessageW.Call(uintptr(id), wmClose, 0, 0)
	return ret != 0
}

func (s *win32) IsWindow(id WindowID) bool {
	ret, _, _ := procIsWindow.Call(uintptr(id))
	return ret != 0
}

func (s *win32) WindowTitle(id WindowID) string {
	if !s.IsWindow(id) {
		return ""
	}
	return windowText(id, procGetWindowTextW, maxTitleLen)
}
