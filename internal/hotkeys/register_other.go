//go:build !windows

package hotkeys

func registerChord(Chord, func()) (func(), error) {
	return nil, ErrUnsupported
}
