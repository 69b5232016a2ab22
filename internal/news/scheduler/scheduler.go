package scheduler

import (
	"fmt"
	"time"

	"github.com/zappabad/stockpick/internal/market"
	"github.com/zappabad/stockpick/internal/news"
)

// Rand is the randomness the scheduler needs. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// DriftStore gives the scheduler read access to baseline drift and write
// access to active drift. *market.Assets satisfies it.
type DriftStore interface {
	BaseDrift(key market.AssetKey) (float64, bool)
	SetDrift(key market.AssetKey, drift float64) bool
}

// Uniform samples uniformly from [min, max).
func Uniform(rng Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

// CreateEvent picks a template uniformly, samples its duration and stamps the
// event at now.
func CreateEvent(catalog news.Catalog, now time.Time, rng Rand) news.Event {
	t := catalog[rng.Intn(len(catalog))]
	secs := Uniform(rng, t.MinDuration.Seconds(), t.MaxDuration.Seconds())
	dur := time.Duration(secs * float64(time.Second))

	impacts := make(map[market.AssetKey]news.ImpactRange, len(t.Impacts))
	for k, r := range t.Impacts {
		impacts[k] = r
	}

	return news.Event{
		ID:         fmt.Sprintf("%s-%d", t.ID, now.UnixMilli()),
		TemplateID: t.ID,
		Title:      t.Title,
		Press:      t.Press,
		Duration:   dur,
		Impacts:    impacts,
		StartTime:  now,
		EndTime:    now.Add(dur),
	}
}

// Apply samples an impact percentage per affected asset and overrides its
// active drift with baseDrift*(1+impact/100). Overrides replace any earlier
// override; they never stack. Keys are visited in order; keys absent from
// order or from the store are skipped. The sampled impacts are returned.
func Apply(ev news.Event, store DriftStore, order []market.AssetKey, rng Rand) map[market.AssetKey]float64 {
	applied := make(map[market.AssetKey]float64, len(ev.Impacts))
	for _, k := range ev.Keys(order) {
		base, ok := store.BaseDrift(k)
		if !ok {
			continue
		}
		r := ev.Impacts[k]
		pct := Uniform(rng, r.Min, r.Max)
		store.SetDrift(k, base*(1+pct/100))
		applied[k] = pct
	}
	return applied
}

// Revert restores the drift of every asset the event touched to its baseline.
// Keys are visited and returned in order, like Apply.
func Revert(ev news.Event, store DriftStore, order []market.AssetKey) []market.AssetKey {
	keys := make([]market.AssetKey, 0, len(ev.Impacts))
	for _, k := range ev.Keys(order) {
		base, ok := store.BaseDrift(k)
		if !ok {
			continue
		}
		store.SetDrift(k, base)
		keys = append(keys, k)
	}
	return keys
}
