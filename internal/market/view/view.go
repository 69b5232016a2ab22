package view

import (
	"sync"

	"github.com/zappabad/stockpick/internal/market"
)

// Snapshot is a point-in-time copy of every asset.
type Snapshot struct {
	Tick   int64
	Time   int64
	Assets []market.Asset
}

// Find returns the asset for key from the snapshot.
func (s Snapshot) Find(key market.AssetKey) (market.Asset, bool) {
	for _, a := range s.Assets {
		if a.Key == key {
			return a, true
		}
	}
	return market.Asset{}, false
}

// MarketView holds the latest published state of the market.
// It is thread-safe and returns copies (not internal references).
type MarketView struct {
	mu    sync.RWMutex
	tick  int64
	time  int64
	order []market.AssetKey
	byKey map[market.AssetKey]market.Asset
}

// NewMarketView creates an empty MarketView.
func NewMarketView() *MarketView {
	return &MarketView{
		byKey: make(map[market.AssetKey]market.Asset),
	}
}

// Publish replaces the view contents with a copy of assets.
func (v *MarketView) Publish(tick, now int64, assets *market.Assets) {
	list := assets.List()

	v.mu.Lock()
	defer v.mu.Unlock()

	v.tick = tick
	v.time = now
	v.order = v.order[:0]
	clear(v.byKey)
	for _, a := range list {
		v.order = append(v.order, a.Key)
		v.byKey[a.Key] = a
	}
}

// Snapshot returns a deep copy of the current state.
func (v *MarketView) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	snap := Snapshot{
		Tick:   v.tick,
		Time:   v.time,
		Assets: make([]market.Asset, 0, len(v.order)),
	}
	for _, k := range v.order {
		snap.Assets = append(snap.Assets, v.byKey[k].Clone())
	}
	return snap
}

// Asset returns a copy of a single asset.
func (v *MarketView) Asset(key market.AssetKey) (market.Asset, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	a, ok := v.byKey[key]
	if !ok {
		return market.Asset{}, false
	}
	return a.Clone(), true
}

// Keys returns the asset keys in iteration order.
func (v *MarketView) Keys() []market.AssetKey {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]market.AssetKey, len(v.order))
	copy(out, v.order)
	return out
}
