//go:build !windows

package winapi

type backend struct{}

func newBackend() Ops {
	return backend{}
}

func (backend) Enum(func(Handle) bool) error       { return ErrUnsupported }
func (backend) Title(Handle) string                { return "" }
func (backend) ClassName(Handle) string            { return "" }
func (backend) IsWindow(Handle) bool               { return false }
func (backend) IsVisible(Handle) bool              { return false }
func (backend) IsMinimized(Handle) bool            { return false }
func (backend) HasPopupStyle(Handle) bool          { return false }
func (backend) ProcessID(Handle) uint32            { return 0 }
func (backend) Foreground() Handle                 { return 0 }
func (backend) Show(Handle) error                  { return ErrUnsupported }
func (backend) Hide(Handle) error                  { return ErrUnsupported }
func (backend) Restore(Handle) error               { return ErrUnsupported }
func (backend) BringToFront(Handle) error          { return ErrUnsupported }
func (backend) SetTopmost(Handle, bool) error      { return ErrUnsupported }
