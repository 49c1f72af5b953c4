package vdesk

import "sync"

// nativeRef guards exactly-once release of one native COM reference.
// Reference counting has no compiler-enforced discipline, so every ref this
// package owns goes through a guard: Release is idempotent and nil-safe, and
// Live gates any further use of the underlying object.
type nativeRef struct {
	mu       sync.Mutex
	release  func()
	released bool
}

func newNativeRef(release func()) *nativeRef {
	return &nativeRef{release: release}
}

// Release drops the underlying reference. Safe to call any number of times,
// on every exit path, and on a nil guard.
func (r *nativeRef) Release() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true
	if r.release != nil {
		r.release()
	}
}

// Live reports whether the reference is still held.
func (r *nativeRef) Live() bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.released
}
