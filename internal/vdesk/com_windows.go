//go:build windows

package vdesk

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
)

// The public desktop-manager contract is documented and stable. Everything
// reached through the immersive shell below it is not: those vtable layouts
// follow the shipped shell builds and can move between OS releases, which is
// why the bridge treats every discovery failure as a soft no-op.
var (
	clsidVirtualDesktopManager = ole.NewGUID("{AA509086-5CA9-4C25-8F95-589D3C07B48A}")
	iidVirtualDesktopManager   = ole.NewGUID("{A5CD92FF-29BE-454C-8D04-D82879FB3F1B}")

	clsidImmersiveShell = ole.NewGUID("{C2F03A33-21F5-47FA-B4BB-156362A2F239}")
	iidServiceProvider  = ole.NewGUID("{6D5140C1-7436-11CE-8034-00AA006009FA}")

	iidVirtualDesktopManagerInternal = ole.NewGUID("{F31574D6-B682-4CDC-BD56-1827860ABEC6}")
)

type iVirtualDesktopManager struct {
	ole.IUnknown
}

type iVirtualDesktopManagerVtbl struct {
	ole.IUnknownVtbl
	IsWindowOnCurrentVirtualDesktop uintptr
	GetWindowDesktopId              uintptr
	MoveWindowToDesktop             uintptr
}

func (v *iVirtualDesktopManager) vtbl() *iVirtualDesktopManagerVtbl {
	return (*iVirtualDesktopManagerVtbl)(unsafe.Pointer(v.RawVTable))
}

type iServiceProvider struct {
	ole.IUnknown
}

type iServiceProviderVtbl struct {
	ole.IUnknownVtbl
	QueryService uintptr
}

func (v *iServiceProvider) vtbl() *iServiceProviderVtbl {
	return (*iServiceProviderVtbl)(unsafe.Pointer(v.RawVTable))
}

// Layout as shipped since the 1809-era shell. Only SwitchDesktop and
// FindDesktop are called; the earlier slots exist to keep the offsets right.
type iVirtualDesktopManagerInternal struct {
	ole.IUnknown
}

type iVirtualDesktopManagerInternalVtbl struct {
	ole.IUnknownVtbl
	GetCount            uintptr
	MoveViewToDesktop   uintptr
	CanViewMoveDesktops uintptr
	GetCurrentDesktop   uintptr
	GetDesktops         uintptr
	GetAdjacentDesktop  uintptr
	SwitchDesktop       uintptr
	CreateDesktopW      uintptr
	RemoveDesktop       uintptr
	FindDesktop         uintptr
}

func (v *iVirtualDesktopManagerInternal) vtbl() *iVirtualDesktopManagerInternalVtbl {
	return (*iVirtualDesktopManagerInternalVtbl)(unsafe.Pointer(v.RawVTable))
}

type iVirtualDesktop struct {
	ole.IUnknown
}

// comManager backs the facade with the real IVirtualDesktopManager.
type comManager struct {
	mgr *iVirtualDesktopManager
}

func newNativeManager() (desktopManager, error) {
	unk, err := ole.CreateInstance(clsidVirtualDesktopManager, iidVirtualDesktopManager)
	if err != nil {
		return nil, fmt.Errorf("vdesk: create IVirtualDesktopManager: %w", err)
	}
	return &comManager{mgr: (*iVirtualDesktopManager)(unsafe.Pointer(unk))}, nil
}

func (c *comManager) IsWindowOnCurrentDesktop(w Window) (bool, HResult) {
	var onCurrent int32
	hr, _, _ := syscall.SyscallN(c.mgr.vtbl().IsWindowOnCurrentVirtualDesktop,
		uintptr(unsafe.Pointer(c.mgr)),
		uintptr(w),
		uintptr(unsafe.Pointer(&onCurrent)))
	return onCurrent != 0, HResult(hr)
}

func (c *comManager) WindowDesktopID(w Window) (DesktopID, HResult) {
	var id DesktopID
	hr, _, _ := syscall.SyscallN(c.mgr.vtbl().GetWindowDesktopId,
		uintptr(unsafe.Pointer(c.mgr)),
		uintptr(w),
		uintptr(unsafe.Pointer(&id)))
	return id, HResult(hr)
}

func (c *comManager) MoveWindowToDesktop(w Window, id DesktopID) HResult {
	hr, _, _ := syscall.SyscallN(c.mgr.vtbl().MoveWindowToDesktop,
		uintptr(unsafe.Pointer(c.mgr)),
		uintptr(w),
		uintptr(unsafe.Pointer(&id)))
	return HResult(hr)
}

func (c *comManager) Release() {
	c.mgr.Release()
}

// comShell is one per-switch hold on the immersive shell object and its
// IServiceProvider face.
type comShell struct {
	shell *ole.IUnknown
	sp    *iServiceProvider
}

func nativeShellOpener() (shellSession, bool) {
	unk, err := ole.CreateInstance(clsidImmersiveShell, ole.IID_IUnknown)
	if err != nil {
		return nil, false
	}

	var raw uintptr
	hr, _, _ := syscall.SyscallN(unk.VTable().QueryInterface,
		uintptr(unsafe.Pointer(unk)),
		uintptr(unsafe.Pointer(iidServiceProvider)),
		uintptr(unsafe.Pointer(&raw)))
	if !HResult(hr).Succeeded() || raw == 0 {
		unk.Release()
		return nil, false
	}

	return &comShell{shell: unk, sp: (*iServiceProvider)(unsafe.Pointer(raw))}, true
}

func (s *comShell) InternalManager() (internalManager, HResult) {
	// The internal manager's IID doubles as its service id here. That is
	// how the shell's discovery protocol works, not a copy mistake: both
	// arguments mean "which internal contract do I want".
	var raw uintptr
	hr, _, _ := syscall.SyscallN(s.sp.vtbl().QueryService,
		uintptr(unsafe.Pointer(s.sp)),
		uintptr(unsafe.Pointer(iidVirtualDesktopManagerInternal)),
		uintptr(unsafe.Pointer(iidVirtualDesktopManagerInternal)),
		uintptr(unsafe.Pointer(&raw)))
	if !HResult(hr).Succeeded() || raw == 0 {
		return nil, HResult(hr)
	}
	return &comInternalManager{im: (*iVirtualDesktopManagerInternal)(unsafe.Pointer(raw))}, HResult(hr)
}

func (s *comShell) Release() {
	s.sp.Release()
	s.shell.Release()
}

type comInternalManager struct {
	im *iVirtualDesktopManagerInternal
}

func (c *comInternalManager) FindDesktop(id DesktopID) (desktopHandle, HResult) {
	var raw uintptr
	hr, _, _ := syscall.SyscallN(c.im.vtbl().FindDesktop,
		uintptr(unsafe.Pointer(c.im)),
		uintptr(unsafe.Pointer(&id)),
		uintptr(unsafe.Pointer(&raw)))
	if HResult(hr) != S_OK || raw == 0 {
		return nil, HResult(hr)
	}
	return &comDesktop{d: (*iVirtualDesktop)(unsafe.Pointer(raw))}, HResult(hr)
}

func (c *comInternalManager) SwitchDesktop(d desktopHandle) HResult {
	cd, ok := d.(*comDesktop)
	if !ok {
		return errStatus(0x80004003) // E_POINTER
	}
	hr, _, _ := syscall.SyscallN(c.im.vtbl().SwitchDesktop,
		uintptr(unsafe.Pointer(c.im)),
		uintptr(unsafe.Pointer(cd.d)))
	return HResult(hr)
}

func (c *comInternalManager) Release() {
	c.im.Release()
}

type comDesktop struct {
	d *iVirtualDesktop
}

func (c *comDesktop) Release() {
	c.d.Release()
}
