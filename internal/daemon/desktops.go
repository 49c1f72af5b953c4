package daemon

import (
	"errors"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/go-ole/go-ole"

	"github.com/winhop/winhop/internal/logging"
	"github.com/winhop/winhop/internal/vdesk"
)

// errDesktopsUnavailable is returned when the virtual-desktop interface
// could not be bound on this machine.
var errDesktopsUnavailable = errors.New("daemon: virtual desktop interface unavailable")

// desktopService owns the one OS thread all virtual-desktop calls run on.
// The desktop manager is apartment-affine, so the service pins a goroutine
// with LockOSThread, initializes COM there, and funnels every call through
// a channel to that thread.
type desktopService struct {
	log       *slog.Logger
	calls     chan func(*vdesk.Manager)
	closed    chan struct{}
	closeOnce func()
	available atomic.Bool
}

func startDesktopService() *desktopService {
	closed := make(chan struct{})
	var once atomic.Bool
	s := &desktopService{
		log:    logging.L("desktops"),
		calls:  make(chan func(*vdesk.Manager)),
		closed: closed,
		closeOnce: func() {
			if once.CompareAndSwap(false, true) {
				close(closed)
			}
		},
	}

	ready := make(chan struct{})
	go s.loop(ready)
	<-ready
	return s
}

func (s *desktopService) loop(ready chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var mgr *vdesk.Manager
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		s.log.Warn("COM initialization failed, desktop features disabled", logging.KeyError, err)
	} else {
		defer ole.CoUninitialize()
		m, err := vdesk.New()
		if err != nil {
			s.log.Warn("desktop manager unavailable", logging.KeyError, err)
		} else {
			mgr = m
			s.available.Store(true)
		}
	}
	close(ready)

	for {
		select {
		case fn := <-s.calls:
			fn(mgr)
		case <-s.closed:
			s.available.Store(false)
			if mgr != nil {
				mgr.Close()
			}
			return
		}
	}
}

// do runs fn on the desktop thread and waits for it.
func (s *desktopService) do(fn func(*vdesk.Manager)) error {
	if !s.available.Load() {
		return errDesktopsUnavailable
	}
	done := make(chan struct{})
	select {
	case s.calls <- func(m *vdesk.Manager) {
		defer close(done)
		fn(m)
	}:
		<-done
		return nil
	case <-s.closed:
		return errDesktopsUnavailable
	}
}

func (s *desktopService) Available() bool {
	return s.available.Load()
}

func (s *desktopService) DesktopID(w vdesk.Window) (vdesk.DesktopID, error) {
	var (
		id  vdesk.DesktopID
		err error
	)
	if doErr := s.do(func(m *vdesk.Manager) {
		id, err = m.DesktopID(w)
	}); doErr != nil {
		return vdesk.DesktopID{}, doErr
	}
	return id, err
}

func (s *desktopService) IsOnCurrentDesktop(w vdesk.Window) (bool, error) {
	var (
		on  bool
		err error
	)
	if doErr := s.do(func(m *vdesk.Manager) {
		on, err = m.IsOnCurrentDesktop(w)
	}); doErr != nil {
		return false, doErr
	}
	return on, err
}

func (s *desktopService) MoveToDesktop(w vdesk.Window, id vdesk.DesktopID) error {
	var err error
	if doErr := s.do(func(m *vdesk.Manager) {
		err = m.MoveToDesktop(w, id)
	}); doErr != nil {
		return doErr
	}
	return err
}

// Switch asks the shell to activate the desktop. Best effort; a desktop
// that cannot be resolved or switched to is silently left alone.
func (s *desktopService) Switch(id vdesk.DesktopID) error {
	return s.do(func(m *vdesk.Manager) {
		m.SwitchToDesktop(id)
	})
}

func (s *desktopService) Close() {
	s.closeOnce()
}
