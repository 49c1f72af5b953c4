// Package windex maintains a searchable index of top-level windows. A
// periodic scan enumerates windows, filters out shell chrome and popups,
// resolves process names and virtual-desktop placement, and keeps a
// last-active ordering for jump targets.
package windex

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/winhop/winhop/internal/logging"
	"github.com/winhop/winhop/internal/vdesk"
	"github.com/winhop/winhop/internal/winapi"
	"github.com/winhop/winhop/internal/workerpool"
)

// DesktopQuerier answers virtual-desktop placement questions for a window.
// The daemon hands the index a funneled view of the desktop manager so every
// native call lands on the thread that owns it.
type DesktopQuerier interface {
	DesktopID(w vdesk.Window) (vdesk.DesktopID, error)
	IsOnCurrentDesktop(w vdesk.Window) (bool, error)
}

// Entry is one indexed window.
type Entry struct {
	Handle    winapi.Handle   `json:"handle"`
	Title     string          `json:"title"`
	Class     string          `json:"class"`
	PID       uint32          `json:"pid"`
	Process   string          `json:"process"`
	Desktop   vdesk.DesktopID `json:"desktop"`
	OnCurrent bool            `json:"onCurrent"`

	lastActive time.Time
}

// Options configures an Index.
type Options struct {
	Ops      winapi.Ops
	Desktops DesktopQuerier
	Pool     *workerpool.Pool

	// ExcludedClasses are window class names dropped from the index.
	ExcludedClasses []string

	// Interval between scans when running the loop.
	Interval time.Duration

	// ProcName overrides process-name resolution; tests use this. The
	// default asks the process table.
	ProcName func(pid uint32) string
}

// Index is the scanning window index. All methods are safe for concurrent
// use.
type Index struct {
	ops      winapi.Ops
	desks    DesktopQuerier
	pool     *workerpool.Pool
	excluded map[string]struct{}
	interval time.Duration
	procName func(pid uint32) string
	log      *slog.Logger

	mu      sync.RWMutex
	entries map[winapi.Handle]Entry
	active  map[winapi.Handle]time.Time
}

// New builds an index. It does not scan; call Scan or Run.
func New(opts Options) *Index {
	excluded := make(map[string]struct{}, len(opts.ExcludedClasses))
	for _, c := range opts.ExcludedClasses {
		excluded[c] = struct{}{}
	}

	procName := opts.ProcName
	if procName == nil {
		procName = lookupProcessName
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &Index{
		ops:      opts.Ops,
		desks:    opts.Desktops,
		pool:     opts.Pool,
		excluded: excluded,
		interval: interval,
		procName: procName,
		log:      logging.L("windex"),
		entries:  make(map[winapi.Handle]Entry),
		active:   make(map[winapi.Handle]time.Time),
	}
}

// lookupProcessName resolves an executable name from the process table.
func lookupProcessName(pid uint32) string {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return ""
	}
	name, err := p.Name()
	if err != nil {
		return ""
	}
	return name
}

// Run scans on the configured interval until the context is cancelled. The
// first scan happens immediately.
func (ix *Index) Run(ctx context.Context) {
	ix.Scan()

	t := time.NewTicker(ix.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			ix.Scan()
		}
	}
}

// Scan rebuilds the index from the current window list. Per-window lookups
// fan out on the worker pool when one is configured.
func (ix *Index) Scan() {
	var handles []winapi.Handle
	if err := ix.ops.Enum(func(h winapi.Handle) bool {
		handles = append(handles, h)
		return true
	}); err != nil {
		ix.log.Warn("window enumeration failed", logging.KeyError, err)
		return
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		found = make(map[winapi.Handle]Entry, len(handles))
	)
	for _, h := range handles {
		h := h
		task := func() {
			e, ok := ix.inspect(h)
			if !ok {
				return
			}
			mu.Lock()
			found[h] = e
			mu.Unlock()
		}

		if ix.pool != nil {
			wg.Add(1)
			wrapped := func() { defer wg.Done(); task() }
			if !ix.pool.Submit(wrapped) {
				wg.Done()
				task()
			}
		} else {
			task()
		}
	}
	wg.Wait()

	ix.mu.Lock()
	for h, at := range ix.active {
		e, ok := found[h]
		if !ok {
			delete(ix.active, h)
			continue
		}
		e.lastActive = at
		found[h] = e
	}
	ix.entries = found
	ix.mu.Unlock()

	ix.log.Debug("scan complete", "windows", len(found))
}

// inspect decides whether a window belongs in the index and fills its entry.
func (ix *Index) inspect(h winapi.Handle) (Entry, bool) {
	if !ix.ops.IsVisible(h) || ix.ops.HasPopupStyle(h) {
		return Entry{}, false
	}
	title := ix.ops.Title(h)
	if title == "" {
		return Entry{}, false
	}
	class := ix.ops.ClassName(h)
	if _, skip := ix.excluded[class]; skip {
		return Entry{}, false
	}

	e := Entry{
		Handle: h,
		Title:  title,
		Class:  class,
		PID:    ix.ops.ProcessID(h),
	}
	e.Process = ix.procName(e.PID)

	if ix.desks != nil {
		if id, err := ix.desks.DesktopID(vdesk.Window(h)); err == nil {
			e.Desktop = id
		}
		if on, err := ix.desks.IsOnCurrentDesktop(vdesk.Window(h)); err == nil {
			e.OnCurrent = on
		}
	}
	return e, true
}

// MarkActive records a foreground transition so ordering and history follow
// real usage.
func (ix *Index) MarkActive(h winapi.Handle) {
	now := time.Now()
	ix.mu.Lock()
	ix.active[h] = now
	if e, ok := ix.entries[h]; ok {
		e.lastActive = now
		ix.entries[h] = e
	}
	ix.mu.Unlock()
}

// Lookup returns the entry for a handle from the latest scan.
func (ix *Index) Lookup(h winapi.Handle) (Entry, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	e, ok := ix.entries[h]
	return e, ok
}

// Entries returns a snapshot ordered most recently active first, with
// never-activated windows after, sorted by process then title.
func (ix *Index) Entries() []Entry {
	ix.mu.RLock()
	out := make([]Entry, 0, len(ix.entries))
	for _, e := range ix.entries {
		out = append(out, e)
	}
	ix.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.lastActive.Equal(b.lastActive) {
			return a.lastActive.After(b.lastActive)
		}
		if a.Process != b.Process {
			return a.Process < b.Process
		}
		return a.Title < b.Title
	})
	return out
}

// Search fuzzy-matches query against "process title" strings and returns
// matches best first. An empty query returns the last-active ordering.
func (ix *Index) Search(query string) []Entry {
	entries := ix.Entries()
	if strings.TrimSpace(query) == "" {
		return entries
	}

	haystack := make([]string, len(entries))
	for i, e := range entries {
		haystack[i] = e.Process + " " + e.Title
	}

	matches := fuzzy.Find(query, haystack)
	out := make([]Entry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entries[m.Index])
	}
	return out
}
