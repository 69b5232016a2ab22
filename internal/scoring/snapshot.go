package scoring

import (
	"time"

	"github.com/zappabad/stockpick/internal/market"
)

// Baseline is one asset's state at the instant a selection was locked in.
type Baseline struct {
	Price      float64
	HistoryLen int
	// Evicted is the asset's eviction counter at capture time; it lets the
	// selection window stay aligned after the history buffer is full.
	Evicted int
}

// Snapshot is the immutable zero-point used for scoring.
type Snapshot struct {
	taken   time.Time
	order   []market.AssetKey
	entries map[market.AssetKey]Baseline
}

// Capture records price and history length of every asset.
func Capture(assets []market.Asset, now time.Time) Snapshot {
	s := Snapshot{
		taken:   now,
		order:   make([]market.AssetKey, 0, len(assets)),
		entries: make(map[market.AssetKey]Baseline, len(assets)),
	}
	for _, a := range assets {
		s.order = append(s.order, a.Key)
		s.entries[a.Key] = Baseline{
			Price:      a.Price,
			HistoryLen: len(a.History),
			Evicted:    a.Evicted,
		}
	}
	return s
}

// Taken returns the capture time.
func (s Snapshot) Taken() time.Time { return s.taken }

// Empty reports whether the snapshot holds no entries.
func (s Snapshot) Empty() bool { return len(s.entries) == 0 }

// Baseline returns the recorded baseline for key.
func (s Snapshot) Baseline(key market.AssetKey) (Baseline, bool) {
	b, ok := s.entries[key]
	return b, ok
}

// Keys returns the captured keys in capture order.
func (s Snapshot) Keys() []market.AssetKey {
	out := make([]market.AssetKey, len(s.order))
	copy(out, s.order)
	return out
}

// since returns the part of a's history appended after the baseline.
func (b Baseline) since(a market.Asset) []float64 {
	start := b.HistoryLen - (a.Evicted - b.Evicted)
	if start < 0 {
		start = 0
	}
	if start >= len(a.History) {
		return nil
	}
	return a.History[start:]
}
