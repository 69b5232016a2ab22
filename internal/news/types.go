package news

import (
	"time"

	"github.com/zappabad/stockpick/internal/market"
)

// ImpactRange is a [Min, Max] percentage range an event samples from to shift
// an asset's drift.
type ImpactRange struct {
	Min float64
	Max float64
}

// Template is one entry of the static news catalog.
type Template struct {
	ID          string
	Press       string
	Title       string
	MinDuration time.Duration
	MaxDuration time.Duration
	Impacts     map[market.AssetKey]ImpactRange
}

// Event is an active or historical market-moving occurrence.
type Event struct {
	ID         string
	TemplateID string
	Title      string
	Press      string
	Duration   time.Duration
	Impacts    map[market.AssetKey]ImpactRange
	StartTime  time.Time
	EndTime    time.Time
}

// Expired reports whether the event has reached its end time.
func (e Event) Expired(now time.Time) bool {
	return !now.Before(e.EndTime)
}

// Remaining returns the time left before the event expires.
func (e Event) Remaining(now time.Time) time.Duration {
	if d := e.EndTime.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Keys returns the affected asset keys in the given iteration order.
func (e Event) Keys(order []market.AssetKey) []market.AssetKey {
	out := make([]market.AssetKey, 0, len(e.Impacts))
	for _, k := range order {
		if _, ok := e.Impacts[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// HistoryItem is an event retained for display together with the impacts
// sampled when it was applied.
type HistoryItem struct {
	Event   Event
	Applied map[market.AssetKey]float64
}
