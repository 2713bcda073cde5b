package gateway

import "sync"

// historyRing is a fixed-capacity ring of command history entries. Once
// full, appending overwrites the oldest entry.
type historyRing struct {
	mu       sync.Mutex
	capacity int
	entries  []CommandHistoryEntry
	start    int // index of the oldest entry once the ring is full
}

func (r *historyRing) append(e CommandHistoryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.capacity <= 0 {
		return
	}
	if len(r.entries) < r.capacity {
		r.entries = append(r.entries, e)
		return
	}
	r.entries[r.start] = e
	r.start = (r.start + 1) % r.capacity
}

// last returns up to n entries, oldest first.
func (r *historyRing) last(n int) []CommandHistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := len(r.entries)
	if n > total {
		n = total
	}
	out := make([]CommandHistoryEntry, 0, n)
	for i := total - n; i < total; i++ {
		out = append(out, r.entries[(r.start+i)%total])
	}
	return out
}

func (r *historyRing) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *historyRing) clear() {
	r.mu.Lock()
	r.entries = nil
	r.start = 0
	r.mu.Unlock()
}
