package core

import (
	"math"

	"github.com/zappabad/stockpick/internal/market"
)

// Rand is the randomness the price engine needs. *rand.Rand satisfies it.
type Rand interface {
	NormFloat64() float64
}

// Advance moves a by one simulated tick:
//
//	price' = price * (1 + drift + vol*N(0,1))
//
// clamped to market.MinPrice, appended to the history window (oldest entries
// evicted beyond maxHistory), and followed by a full stats recompute.
func Advance(a *market.Asset, rng Rand, maxHistory int) {
	vol := a.Vol
	if vol < 0 {
		vol = 0
	}
	next := a.Price * (1 + a.Drift + vol*rng.NormFloat64())
	if math.IsNaN(next) || next < market.MinPrice {
		next = market.MinPrice
	}
	Push(a, next, maxHistory)
}

// Push appends price to the asset's history and recomputes its stats.
func Push(a *market.Asset, price float64, maxHistory int) {
	if maxHistory < 1 {
		maxHistory = 1
	}
	a.History = append(a.History, price)
	if over := len(a.History) - maxHistory; over > 0 {
		// copy down so the backing array does not grow without bound
		n := copy(a.History, a.History[over:])
		a.History = a.History[:n]
		a.Evicted += over
	}
	a.Price = price
	a.Stats = ComputeStats(a.History)
}

// ComputeStats derives the rolling statistics from a price window.
func ComputeStats(history []float64) market.Stats {
	var st market.Stats
	if len(history) == 0 {
		return st
	}

	first := history[0]
	last := history[len(history)-1]
	st.ReturnPct = PctChange(last, first)

	if len(history) >= 2 {
		st.Volatility = stddevPopulation(history)
		st.Drawdown = MaxDrawdownPct(history)
	}

	vol := st.Volatility
	if vol == 0 {
		vol = 1
	}
	st.Efficiency = st.ReturnPct / vol
	st.RiskEfficiency = st.Efficiency - math.Abs(st.Drawdown*0.1)
	return st
}

// PctChange returns (a-b)/b in percent, or 0 when b is 0.
func PctChange(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return (a - b) / b * 100
}

// MaxDrawdownPct scans xs left to right keeping a running peak and returns the
// largest peak-to-trough decline as a positive percentage.
func MaxDrawdownPct(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	peak := xs[0]
	worst := 0.0
	for _, v := range xs {
		if v > peak {
			peak = v
		}
		if dd := PctChange(v, peak); dd < worst {
			worst = dd
		}
	}
	return math.Abs(worst)
}

func stddevPopulation(xs []float64) float64 {
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
	return math.Sqrt(ss / float64(len(xs)))
}
