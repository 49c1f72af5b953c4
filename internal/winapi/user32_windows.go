//go:build windows

package winapi

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetClassNameW            = user32.NewProc("GetClassNameW")
	procIsWindow                 = user32.NewProc("IsWindow")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procIsIconic                 = user32.NewProc("IsIconic")
	procGetWindowLongPtrW        = user32.NewProc("GetWindowLongPtrW")
	procShowWindow               = user32.NewProc("ShowWindow")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procSetWindowPos             = user32.NewProc("SetWindowPos")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
)

// Win32 constants, defined manually.
const (
	swHide    = 0
	swShow    = 5
	swRestore = 9

	wsMinimize = 0x20000000
	wsVisible  = 0x10000000
	wsPopup    = 0x80000000

	swpNoMove = 0x0002
	swpNoSize = 0x0001
)

var (
	hwndTopmost   = ^uintptr(0) // (HWND)-1
	hwndNoTopmost = ^uintptr(1) // (HWND)-2

	gwlStyle = ^uintptr(15) // GWL_STYLE (-16) as a pointer-sized int
)

type backend struct{}

func newBackend() Ops {
	return backend{}
}

func (backend) Enum(visit func(Handle) bool) error {
	cb := syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		if visit(Handle(hwnd)) {
			return 1
		}
		return 0
	})
	ret, _, err := procEnumWindows.Call(cb, 0)
	if ret == 0 {
		return fmt.Errorf("winapi: EnumWindows: %w", err)
	}
	return nil
}

func (backend) Title(h Handle) string {
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:n])
}

func (backend) ClassName(h Handle) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetClassNameW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:n])
}

func (backend) IsWindow(h Handle) bool {
	ret, _, _ := procIsWindow.Call(uintptr(h))
	return ret != 0
}

func (backend) IsVisible(h Handle) bool {
	ret, _, _ := procIsWindowVisible.Call(uintptr(h))
	return ret != 0
}

func (backend) IsMinimized(h Handle) bool {
	ret, _, _ := procIsIconic.Call(uintptr(h))
	return ret != 0
}

func (backend) HasPopupStyle(h Handle) bool {
	return windowStyle(h)&wsPopup != 0
}

func windowStyle(h Handle) uintptr {
	style, _, _ := procGetWindowLongPtrW.Call(uintptr(h), gwlStyle)
	return style
}

func (backend) ProcessID(h Handle) uint32 {
	var pid uint32
	procGetWindowThreadProcessId.Call(uintptr(h), uintptr(unsafe.Pointer(&pid)))
	return pid
}

func (backend) Foreground() Handle {
	hwnd, _, _ := procGetForegroundWindow.Call()
	return Handle(hwnd)
}

func (backend) Show(h Handle) error {
	procShowWindow.Call(uintptr(h), swShow)
	return nil
}

func (backend) Hide(h Handle) error {
	procShowWindow.Call(uintptr(h), swHide)
	return nil
}

func (backend) Restore(h Handle) error {
	procShowWindow.Call(uintptr(h), swRestore)
	return nil
}

func (backend) BringToFront(h Handle) error {
	ret, _, err := procSetForegroundWindow.Call(uintptr(h))
	if ret == 0 {
		return fmt.Errorf("winapi: SetForegroundWindow: %w", err)
	}
	return nil
}

func (backend) SetTopmost(h Handle, on bool) error {
	insertAfter := hwndNoTopmost
	if on {
		insertAfter = hwndTopmost
	}
	ret, _, err := procSetWindowPos.Call(uintptr(h), insertAfter, 0, 0, 0, 0, swpNoMove|swpNoSize)
	if ret == 0 {
		return fmt.Errorf("winapi: SetWindowPos: %w", err)
	}
	return nil
}
