// Package analysis derives the short-window insight shown next to each asset
// while the player is deciding.
package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/zappabad/stockpick/internal/market"
	"github.com/zappabad/stockpick/internal/market/core"
)

// Window is the number of trailing prices an insight is computed from.
const Window = 40

type Signal int

const (
	Neutral Signal = iota
	Bullish
	Caution
)

func (s Signal) String() string {
	switch s {
	case Bullish:
		return "BULLISH"
	case Caution:
		return "CAUTION"
	default:
		return "NEUTRAL"
	}
}

type Risk int

const (
	RiskMedium Risk = iota
	RiskLow
	RiskHigh
)

func (r Risk) String() string {
	switch r {
	case RiskLow:
		return "LOW"
	case RiskHigh:
		return "HIGH"
	default:
		return "MEDIUM"
	}
}

// Thresholds, all in percent.
const (
	bullishMomentum = 2.0
	cautionMomentum = -2.0
	cautionDrawdown = 4.0
	lowRiskVol      = 1.2
	highRiskVol     = 2.8
)

// Insight summarizes an asset's recent behaviour.
type Insight struct {
	Key         market.AssetKey
	MomentumPct float64
	VolPct      float64 // population stddev of per-tick % returns
	DrawdownPct float64
	Volume      float64 // sum of absolute price changes
	Signal      Signal
	Risk        Risk
	Comment     string
}

// Analyze computes the insight for a over its last Window prices.
func Analyze(a market.Asset) Insight {
	h := a.History
	if len(h) > Window {
		h = h[len(h)-Window:]
	}
	base, last := a.Price, a.Price
	if len(h) > 0 {
		base, last = h[0], h[len(h)-1]
	}

	in := Insight{
		Key:         a.Key,
		MomentumPct: core.PctChange(last, base),
		DrawdownPct: core.MaxDrawdownPct(h),
	}

	rets := make([]float64, 0, len(h))
	for i := 1; i < len(h); i++ {
		rets = append(rets, core.PctChange(h[i], h[i-1]))
		in.Volume += math.Abs(h[i] - h[i-1])
	}
	in.VolPct = popStddev(rets)

	switch {
	case in.MomentumPct < cautionMomentum || in.DrawdownPct > cautionDrawdown:
		in.Signal = Caution
	case in.MomentumPct > bullishMomentum && a.Drift >= 0:
		in.Signal = Bullish
	}
	switch {
	case in.VolPct < lowRiskVol:
		in.Risk = RiskLow
	case in.VolPct > highRiskVol:
		in.Risk = RiskHigh
	}
	in.Comment = comment(in)
	return in
}

func comment(in Insight) string {
	var parts []string
	switch in.Signal {
	case Bullish:
		parts = append(parts, "Clear short-term uptrend.")
	case Caution:
		parts = append(parts, "Watch for a sharp correction.")
	}
	switch in.Risk {
	case RiskHigh:
		parts = append(parts, "Market is very volatile.")
	case RiskLow:
		parts = append(parts, "Steady movement.")
	}
	if len(parts) == 0 {
		return "No clear trend; waiting looks wise."
	}
	return strings.Join(parts, " ")
}

func popStddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(len(xs))
	var ss float64
	for _, v := range xs {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// LiveRanking orders assets by risk efficiency, best first. Ties keep the
// input order.
func LiveRanking(assets []market.Asset) []market.Asset {
	out := make([]market.Asset, len(assets))
	copy(out, assets)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RiskEfficiency > out[j].RiskEfficiency
	})
	return out
}
