package view

import (
	"fmt"
	"testing"

	"github.com/zappabad/stockpick/internal/news"
)

func applied(id string) NewsEvent {
	return NewsEvent{Type: EventApplied, Item: news.HistoryItem{Event: news.Event{ID: id}}}
}

func TestNewsViewRingBuffer(t *testing.T) {
	v := NewNewsView(3)
	for i := 1; i <= 5; i++ {
		v.Apply(applied(fmt.Sprintf("ev-%d", i)))
	}

	if v.Count() != 3 {
		t.Fatalf("expected 3 retained events, got %d", v.Count())
	}
	latest := v.Latest(10)
	want := []string{"ev-5", "ev-4", "ev-3"}
	for i, id := range want {
		if latest[i].Event.ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, latest[i].Event.ID)
		}
	}
}

func TestNewsViewActiveLifecycle(t *testing.T) {
	v := NewNewsView(5)
	v.Apply(applied("a"))

	if item, ok := v.Active(); !ok || item.Event.ID != "a" {
		t.Fatalf("expected active event a, got %+v ok=%v", item, ok)
	}

	// reverting a different event leaves the active one in place
	v.Apply(NewsEvent{Type: EventReverted, Item: news.HistoryItem{Event: news.Event{ID: "b"}}})
	if _, ok := v.Active(); !ok {
		t.Fatal("expected event a to remain active")
	}

	v.Apply(NewsEvent{Type: EventReverted, Item: news.HistoryItem{Event: news.Event{ID: "a"}}})
	if _, ok := v.Active(); ok {
		t.Error("expected no active event after revert")
	}
	if v.Count() != 1 {
		t.Errorf("expected history to keep the reverted event, got %d", v.Count())
	}

	v.Apply(NewsEvent{Type: EventCleared})
	if v.Count() != 0 {
		t.Errorf("expected cleared history, got %d", v.Count())
	}
}
