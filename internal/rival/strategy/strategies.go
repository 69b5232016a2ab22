package strategy

import (
	"fmt"
	"sort"

	"github.com/zappabad/stockpick/internal/analysis"
	"github.com/zappabad/stockpick/internal/market"
)

// Names accepted by New.
const (
	NameMomentum = "momentum"
	NameNews     = "news"
	NameRandom   = "random"
)

// Rand is the randomness the random strategy needs.
type Rand interface {
	Intn(n int) int
}

// New returns the strategy registered under name.
func New(name string, rng Rand) (Strategy, error) {
	switch name {
	case NameMomentum:
		return Momentum{}, nil
	case NameNews:
		return NewsChaser{}, nil
	case NameRandom:
		if rng == nil {
			return nil, fmt.Errorf("strategy %q needs a random source", name)
		}
		return &Random{rng: rng}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// Momentum picks the top of the live ranking, preferring assets with a
// bullish signal.
type Momentum struct{}

func (Momentum) Choose(mr MarketReader, _ NewsReader) (market.AssetKey, string, bool) {
	ranked := analysis.LiveRanking(mr.Snapshot().Assets)
	if len(ranked) == 0 {
		return "", "", false
	}
	for _, a := range ranked {
		if in := analysis.Analyze(a); in.Signal == analysis.Bullish {
			return a.Key, fmt.Sprintf("bullish, momentum %+.2f%%", in.MomentumPct), true
		}
	}
	return ranked[0].Key, "best risk efficiency", true
}

// NewsChaser buys the asset the active headline favours most, falling back
// to Momentum when no event is running.
type NewsChaser struct{}

func (NewsChaser) Choose(mr MarketReader, nr NewsReader) (market.AssetKey, string, bool) {
	item, ok := nr.Active()
	if !ok {
		return Momentum{}.Choose(mr, nr)
	}
	snap := mr.Snapshot()

	type cand struct {
		key    market.AssetKey
		impact float64
	}
	var cands []cand
	for _, a := range snap.Assets {
		if v, hit := item.Applied[a.Key]; hit {
			cands = append(cands, cand{a.Key, v})
		}
	}
	if len(cands) == 0 {
		return Momentum{}.Choose(mr, nr)
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].impact > cands[j].impact })
	best := cands[0]
	if best.impact <= 0 {
		return Momentum{}.Choose(mr, nr)
	}
	return best.key, fmt.Sprintf("headline %q (%+.0f%%)", item.Event.Title, best.impact), true
}

// Random picks uniformly.
type Random struct {
	rng Rand
}

func (r *Random) Choose(mr MarketReader, _ NewsReader) (market.AssetKey, string, bool) {
	assets := mr.Snapshot().Assets
	if len(assets) == 0 {
		return "", "", false
	}
	return assets[r.rng.Intn(len(assets))].Key, "coin flip", true
}
