package viewrouter

import (
	"errors"
	"net/url"
)

// Direction tells which way the browser moved through its history.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionBack
	DirectionForward
)

func (d Direction) String() string {
	switch d {
	case DirectionBack:
		return "back"
	case DirectionForward:
		return "forward"
	default:
		return "none"
	}
}

// History is the browsing context the router keeps in sync.  Addresses are
// logical paths with an optional query ("/event/3?tab=1"); implementations
// must not reload the document.
type History interface {
	// Location returns the address currently shown.
	Location() (*url.URL, error)
	// Push adds a new entry for pathAndQuery.
	Push(pathAndQuery string) error
	// Replace overwrites the current entry with pathAndQuery.
	Replace(pathAndQuery string) error
	// Listen registers f to be called after the user moves back or forward.
	// Only one listener may be registered at a time.
	Listen(f func(Direction)) error
	// Unlisten removes the listener registered with Listen.
	Unlisten() error
}

var (
	errListenerSet    = errors.New("history listener already set")
	errListenerNotSet = errors.New("history listener not set")
)

// MemoryHistory is a History kept entirely in memory.  It is what a
// non-browser host (or a test) uses in place of window.history.
type MemoryHistory struct {
	entries []string
	index   int
	onPop   func(Direction)
}

// NewMemoryHistory returns a MemoryHistory with a single entry.  An empty
// initial address leaves the history without any entry, like a document
// that has not been given a path yet.
func NewMemoryHistory(initial string) *MemoryHistory {
	h := &MemoryHistory{index: -1}
	if initial != "" {
		h.entries = []string{initial}
		h.index = 0
	}
	return h
}

// Location implements History.
func (h *MemoryHistory) Location() (*url.URL, error) {
	if h.index < 0 {
		return &url.URL{}, nil
	}
	return url.Parse(h.entries[h.index])
}

// Push implements History.  Entries after the current one are discarded.
func (h *MemoryHistory) Push(pathAndQuery string) error {
	h.entries = append(h.entries[:h.index+1], pathAndQuery)
	h.index++
	return nil
}

// Replace implements History.
func (h *MemoryHistory) Replace(pathAndQuery string) error {
	if h.index < 0 {
		return h.Push(pathAndQuery)
	}
	h.entries[h.index] = pathAndQuery
	return nil
}

// Listen implements History.
func (h *MemoryHistory) Listen(f func(Direction)) error {
	if h.onPop != nil {
		return errListenerSet
	}
	h.onPop = f
	return nil
}

// Unlisten implements History.
func (h *MemoryHistory) Unlisten() error {
	if h.onPop == nil {
		return errListenerNotSet
	}
	h.onPop = nil
	return nil
}

// Back moves one entry back, like the browser back button.  It reports
// false if there is nothing to go back to.
func (h *MemoryHistory) Back() bool { return h.Go(-1) }

// Forward moves one entry forward.  It reports false at the newest entry.
func (h *MemoryHistory) Forward() bool { return h.Go(1) }

// Go moves delta entries through the history and notifies the listener.
func (h *MemoryHistory) Go(delta int) bool {
	next := h.index + delta
	if delta == 0 || next < 0 || next >= len(h.entries) {
		return false
	}
	h.index = next
	if h.onPop != nil {
		dir := DirectionForward
		if delta < 0 {
			dir = DirectionBack
		}
		h.onPop(dir)
	}
	return true
}

// Entries returns a copy of all entries, oldest first.
func (h *MemoryHistory) Entries() []string {
	ret := make([]string, len(h.entries))
	copy(ret, h.entries)
	return ret
}

// Index returns the position of the current entry in Entries.
func (h *MemoryHistory) Index() int { return h.index }
