package view

import (
	"sync"

	"github.com/zappabad/stockpick/internal/news"
)

// NewsView keeps the active event and a bounded ring buffer of past events.
type NewsView struct {
	mu     sync.RWMutex
	active *news.HistoryItem
	buf    []news.HistoryItem
	size   int
	start  int
	count  int
}

// NewNewsView creates a new NewsView with the given history capacity.
func NewNewsView(capacity int) *NewsView {
	if capacity <= 0 {
		capacity = 10
	}
	return &NewsView{
		buf:  make([]news.HistoryItem, capacity),
		size: capacity,
	}
}

// Apply records a lifecycle event.
func (v *NewsView) Apply(ev NewsEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch ev.Type {
	case EventApplied:
		item := ev.Item
		v.active = &item
		v.push(item)
	case EventReverted:
		if v.active != nil && v.active.Event.ID == ev.Item.Event.ID {
			v.active = nil
		}
	case EventCleared:
		v.active = nil
		v.start, v.count = 0, 0
	}
}

func (v *NewsView) push(item news.HistoryItem) {
	if v.count < v.size {
		v.buf[(v.start+v.count)%v.size] = item
		v.count++
		return
	}
	// overwrite oldest
	v.buf[v.start] = item
	v.start = (v.start + 1) % v.size
}

// Active returns the currently applied event, if any.
func (v *NewsView) Active() (news.HistoryItem, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.active == nil {
		return news.HistoryItem{}, false
	}
	return *v.active, true
}

// Latest returns the last n events, newest first.
func (v *NewsView) Latest(n int) []news.HistoryItem {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if n <= 0 || v.count == 0 {
		return nil
	}
	if n > v.count {
		n = v.count
	}

	out := make([]news.HistoryItem, n)
	last := v.start + v.count - 1
	for i := 0; i < n; i++ {
		out[i] = v.buf[(last-i)%v.size]
	}
	return out
}

// Count returns the number of retained events.
func (v *NewsView) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.count
}
