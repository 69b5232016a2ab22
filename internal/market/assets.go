package market

// Assets is the ordered collection of every tracked asset. Iteration order is
// the seed order and never changes.
type Assets struct {
	order []AssetKey
	byKey map[AssetKey]*Asset
}

// NewAssets builds a collection from seeds.
func NewAssets(seeds []Seed, warmup int) *Assets {
	as := &Assets{
		order: make([]AssetKey, 0, len(seeds)),
		byKey: make(map[AssetKey]*Asset, len(seeds)),
	}
	for _, s := range seeds {
		if _, dup := as.byKey[s.Key]; dup {
			continue
		}
		a := NewAsset(s, warmup)
		as.order = append(as.order, s.Key)
		as.byKey[s.Key] = &a
	}
	return as
}

// FromList builds a collection from already materialized assets, keeping
// their order.
func FromList(list []Asset) *Assets {
	as := &Assets{
		order: make([]AssetKey, 0, len(list)),
		byKey: make(map[AssetKey]*Asset, len(list)),
	}
	for i := range list {
		a := list[i].Clone()
		if _, dup := as.byKey[a.Key]; dup {
			continue
		}
		as.order = append(as.order, a.Key)
		as.byKey[a.Key] = &a
	}
	return as
}

// Keys returns asset keys in iteration order.
func (as *Assets) Keys() []AssetKey {
	out := make([]AssetKey, len(as.order))
	copy(out, as.order)
	return out
}

// Len returns the number of assets.
func (as *Assets) Len() int {
	return len(as.order)
}

// Get returns the asset for key. The pointer is owned by the collection.
func (as *Assets) Get(key AssetKey) (*Asset, bool) {
	a, ok := as.byKey[key]
	return a, ok
}

// Each calls fn for every asset in iteration order.
func (as *Assets) Each(fn func(a *Asset)) {
	for _, k := range as.order {
		fn(as.byKey[k])
	}
}

// List returns deep copies of all assets in iteration order.
func (as *Assets) List() []Asset {
	out := make([]Asset, 0, len(as.order))
	for _, k := range as.order {
		out = append(out, as.byKey[k].Clone())
	}
	return out
}

// BaseDrift returns the unperturbed drift of an asset.
func (as *Assets) BaseDrift(key AssetKey) (float64, bool) {
	a, ok := as.byKey[key]
	if !ok {
		return 0, false
	}
	return a.BaseDrift, true
}

// SetDrift overrides the active drift of an asset. Unknown keys are ignored.
func (as *Assets) SetDrift(key AssetKey, drift float64) bool {
	a, ok := as.byKey[key]
	if !ok {
		return false
	}
	a.Drift = drift
	return true
}
