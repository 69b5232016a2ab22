// Package scoring evaluates every asset's performance since a selection
// snapshot and ranks them by a weighted composite score.
package scoring

import (
	"math"
	"sort"

	"github.com/zappabad/stockpick/internal/market"
	"github.com/zappabad/stockpick/internal/market/core"
)

const (
	rangeEpsilon = 1e-9
	volEpsilon   = 1e-6
)

// Result is one asset's evaluation since the snapshot.
type Result struct {
	Key            market.AssetKey
	Name           string
	StartPrice     float64
	EndPrice       float64
	ReturnPct      float64
	VolatilityPct  float64
	MaxDrawdownPct float64
	TrendStability float64 // fraction of up-ticks, 0..1
	Efficiency     float64 // 0..1
	RiskAdjusted   float64 // ReturnPct / VolatilityPct
	Score          float64
}

// Score evaluates every asset against snap and returns the results ranked by
// descending score. Ties keep the input order.
func Score(snap Snapshot, assets []market.Asset, w Weights) []Result {
	results := make([]Result, 0, len(assets))
	for _, a := range assets {
		results = append(results, Evaluate(snap, a, w))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Evaluate scores a single asset. An asset missing from the snapshot is
// measured from its current price over an empty window.
func Evaluate(snap Snapshot, a market.Asset, w Weights) Result {
	var slice []float64
	start := a.Price
	if b, ok := snap.Baseline(a.Key); ok {
		start = b.Price
		slice = b.since(a)
	}
	end := a.Price
	if len(slice) > 0 {
		end = slice[len(slice)-1]
	}

	rets := make([]float64, 0, len(slice))
	for i := 1; i < len(slice); i++ {
		rets = append(rets, core.PctChange(slice[i], slice[i-1]))
	}

	r := Result{
		Key:            a.Key,
		Name:           a.Name,
		StartPrice:     start,
		EndPrice:       end,
		ReturnPct:      core.PctChange(end, start),
		VolatilityPct:  sampleStddev(rets),
		MaxDrawdownPct: core.MaxDrawdownPct(slice),
		TrendStability: trendStability(slice),
		Efficiency:     efficiency(slice, start, end),
	}
	r.RiskAdjusted = r.ReturnPct / math.Max(volEpsilon, r.VolatilityPct)
	r.Score = composite(r, w)
	return r
}

func composite(r Result, w Weights) float64 {
	return w.Return*r.ReturnPct +
		w.RiskAdjusted*r.RiskAdjusted +
		w.Trend*r.TrendStability +
		w.Efficiency*r.Efficiency +
		w.Drawdown*(100-math.Min(100, r.MaxDrawdownPct))
}

func sampleStddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(len(xs))
	var ss float64
	for _, v := range xs {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// trendStability is the fraction of consecutive up-ticks; 0.5 when there is
// nothing to measure.
func trendStability(xs []float64) float64 {
	if len(xs) < 2 {
		return 0.5
	}
	up := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[i-1] {
			up++
		}
	}
	return float64(up) / float64(len(xs)-1)
}

// efficiency is |end-start| over the traded range, clamped to [0,1].
func efficiency(xs []float64, start, end float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	hi, lo := xs[0], xs[0]
	for _, v := range xs[1:] {
		hi = math.Max(hi, v)
		lo = math.Min(lo, v)
	}
	e := math.Abs(end-start) / math.Max(rangeEpsilon, hi-lo)
	return math.Min(1, math.Max(0, e))
}
