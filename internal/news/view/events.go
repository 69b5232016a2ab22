package view

import "github.com/zappabad/stockpick/internal/news"

// EventType indicates what happened to a news event.
type EventType int

const (
	EventApplied EventType = iota
	EventReverted
	EventCleared
)

func (t EventType) String() string {
	switch t {
	case EventApplied:
		return "APPLIED"
	case EventReverted:
		return "REVERTED"
	case EventCleared:
		return "CLEARED"
	default:
		return "UNKNOWN"
	}
}

// NewsEvent is published by the news service on every lifecycle change.
type NewsEvent struct {
	Type EventType
	Item news.HistoryItem
	Time int64
}
