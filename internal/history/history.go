// Package history keeps the bounded log of submitted entries and the
// navigation cursor used while browsing them.
//
// Browsing never mutates stored entries; the editor copies the selected
// entry into the live buffer. The draft being edited when browsing starts is
// kept aside and handed back when navigation walks past the newest entry.
//
// A History is safe for concurrent use: the editor loop navigates while
// hosts load or persist entries from other goroutines.
package history

import "sync"

// History is a bounded, ordered log of submitted lines, oldest first.
type History struct {
	mu       sync.Mutex
	entries  []string
	capacity int

	// nav is the index of the entry currently shown while browsing,
	// or -1 when not browsing.
	nav int

	draft string
}

// DefaultCapacity is used when no positive capacity is configured.
const DefaultCapacity = 1000

// New creates a history bounded to the given capacity.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity, nav: -1}
}

// Push appends an entry, evicting the oldest when over capacity.
// Empty entries and entries equal to the newest one are skipped.
// Any navigation in progress is reset.
func (h *History) Push(entry string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.push(entry)
}

func (h *History) push(entry string) {
	h.resetNavigation()
	if entry == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
}

// Prev moves the navigation cursor one entry back and returns the entry to
// show. On the first call it saves current as the draft to restore later.
// Returns ok=false when there is nothing older to show.
func (h *History) Prev(current string) (entry string, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return "", false
	}
	if h.nav < 0 {
		h.draft = current
		h.nav = len(h.entries) - 1
		return h.entries[h.nav], true
	}
	if h.nav == 0 {
		return "", false
	}
	h.nav--
	return h.entries[h.nav], true
}

// Next moves the navigation cursor one entry forward. Walking past the
// newest entry ends navigation and returns the saved draft.
// Returns ok=false when not browsing.
func (h *History) Next() (entry string, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.nav < 0 {
		return "", false
	}
	if h.nav == len(h.entries)-1 {
		draft := h.draft
		h.resetNavigation()
		return draft, true
	}
	h.nav++
	return h.entries[h.nav], true
}

// Browsing returns true while history navigation is in progress.
func (h *History) Browsing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.nav >= 0
}

// ResetNavigation ends any navigation in progress and discards the saved
// draft. Called whenever the user edits or submits.
func (h *History) ResetNavigation() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resetNavigation()
}

func (h *History) resetNavigation() {
	h.nav = -1
	h.draft = ""
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns a copy of the stored entries, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// SetEntries replaces the stored entries. Each entry passes through the
// Push rules, so capacity and duplicate handling apply.
func (h *History) SetEntries(entries []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = h.entries[:0]
	for _, e := range entries {
		h.push(e)
	}
	h.resetNavigation()
}

// SetCapacity changes the capacity, evicting oldest entries as needed.
func (h *History) SetCapacity(capacity int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	h.capacity = capacity
	if len(h.entries) > capacity {
		h.entries = h.entries[len(h.entries)-capacity:]
	}
	h.resetNavigation()
}
