//go:build windows

package hotkeys

import (
	"fmt"

	"golang.design/x/hotkey"
)

var namedKeys = map[string]hotkey.Key{
	"space":  hotkey.KeySpace,
	"tab":    hotkey.KeyTab,
	"escape": hotkey.KeyEscape,
	"enter":  hotkey.KeyReturn,
	"delete": hotkey.KeyDelete,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
	"f1":     hotkey.KeyF1,
	"f2":     hotkey.KeyF2,
	"f3":     hotkey.KeyF3,
	"f4":     hotkey.KeyF4,
	"f5":     hotkey.KeyF5,
	"f6":     hotkey.KeyF6,
	"f7":     hotkey.KeyF7,
	"f8":     hotkey.KeyF8,
	"f9":     hotkey.KeyF9,
	"f10":    hotkey.KeyF10,
	"f11":    hotkey.KeyF11,
	"f12":    hotkey.KeyF12,
}

func translateKey(k string) (hotkey.Key, error) {
	if hk, ok := namedKeys[k]; ok {
		return hk, nil
	}
	if len(k) == 1 {
		b := k[0]
		// Letter and digit virtual-key codes match ASCII uppercase.
		switch {
		case b >= 'a' && b <= 'z':
			return hotkey.Key(b - 'a' + 'A'), nil
		case b >= '0' && b <= '9':
			return hotkey.Key(b), nil
		}
	}
	return 0, fmt.Errorf("untranslatable key %q", k)
}

func translateMods(c Chord) []hotkey.Modifier {
	var mods []hotkey.Modifier
	if c.Ctrl {
		mods = append(mods, hotkey.ModCtrl)
	}
	if c.Shift {
		mods = append(mods, hotkey.ModShift)
	}
	if c.Alt {
		mods = append(mods, hotkey.ModAlt)
	}
	if c.Win {
		mods = append(mods, hotkey.ModWin)
	}
	return mods
}

// registerChord registers the chord system-wide and invokes fn on each
// press from a dedicated goroutine. The returned func unregisters.
func registerChord(c Chord, fn func()) (func(), error) {
	key, err := translateKey(c.Key)
	if err != nil {
		return nil, err
	}

	hk := hotkey.New(translateMods(c), key)
	if err := hk.Register(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-hk.Keydown():
				fn()
			}
		}
	}()

	return func() {
		close(done)
		hk.Unregister()
	}, nil
}
