package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/zappabad/stockpick/internal/market"
)

// fixedRand always returns the same normal draw.
type fixedRand float64

func (f fixedRand) NormFloat64() float64 { return float64(f) }

func TestAdvanceDeterministicStep(t *testing.T) {
	a := market.NewAsset(market.Seed{Key: "X", Name: "X", Price: 100, Drift: 0.01, Vol: 0.1}, 1)

	Advance(&a, fixedRand(0.5), 10)

	want := 100 * (1 + 0.01 + 0.1*0.5)
	if math.Abs(a.Price-want) > 1e-9 {
		t.Fatalf("expected price %v, got %v", want, a.Price)
	}
	if len(a.History) != 2 {
		t.Fatalf("expected history length 2, got %d", len(a.History))
	}
	if a.History[len(a.History)-1] != a.Price {
		t.Errorf("expected last history entry to equal price")
	}
}

func TestAdvanceClampsToMinPrice(t *testing.T) {
	a := market.NewAsset(market.Seed{Key: "X", Name: "X", Price: 1, Drift: 0, Vol: 1}, 1)

	Advance(&a, fixedRand(-50), 10)

	if a.Price != market.MinPrice {
		t.Errorf("expected clamp to %v, got %v", market.MinPrice, a.Price)
	}
}

func TestAdvanceBoundsHistory(t *testing.T) {
	const maxHistory = 25
	rng := rand.New(rand.NewSource(42))
	a := market.NewAsset(market.DefaultSeeds()[0], 10)

	for i := 0; i < 200; i++ {
		Advance(&a, rng, maxHistory)
		if len(a.History) > maxHistory {
			t.Fatalf("tick %d: history length %d exceeds %d", i, len(a.History), maxHistory)
		}
		if a.Price != a.History[len(a.History)-1] {
			t.Fatalf("tick %d: price %v != last history %v", i, a.Price, a.History[len(a.History)-1])
		}
		if a.Price <= 0 {
			t.Fatalf("tick %d: non-positive price %v", i, a.Price)
		}
		if a.Volatility < 0 || a.Drawdown < 0 {
			t.Fatalf("tick %d: negative stats %+v", i, a.Stats)
		}
	}

	// 10 warmup + 200 pushes, window of 25
	if a.Evicted != 10+200-maxHistory {
		t.Errorf("expected %d evicted, got %d", 10+200-maxHistory, a.Evicted)
	}
}

func TestPushEvictsOldestFirst(t *testing.T) {
	a := market.Asset{Price: 1, History: []float64{1, 2, 3}}

	Push(&a, 4, 3)

	want := []float64{2, 3, 4}
	for i := range want {
		if a.History[i] != want[i] {
			t.Fatalf("expected history %v, got %v", want, a.History)
		}
	}
	if a.Evicted != 1 {
		t.Errorf("expected 1 evicted, got %d", a.Evicted)
	}
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name    string
		history []float64
		check   func(t *testing.T, st market.Stats)
	}{
		{
			name:    "empty",
			history: nil,
			check: func(t *testing.T, st market.Stats) {
				if st != (market.Stats{}) {
					t.Errorf("expected zero stats, got %+v", st)
				}
			},
		},
		{
			name:    "single point",
			history: []float64{50},
			check: func(t *testing.T, st market.Stats) {
				if st.Volatility != 0 || st.Drawdown != 0 {
					t.Errorf("expected zero volatility and drawdown, got %+v", st)
				}
			},
		},
		{
			name:    "zero base",
			history: []float64{0, 10},
			check: func(t *testing.T, st market.Stats) {
				if st.ReturnPct != 0 {
					t.Errorf("expected 0%% return on zero base, got %v", st.ReturnPct)
				}
			},
		},
		{
			name:    "rise and dip",
			history: []float64{100, 110, 99, 105},
			check: func(t *testing.T, st market.Stats) {
				if math.Abs(st.ReturnPct-5) > 1e-9 {
					t.Errorf("expected 5%% return, got %v", st.ReturnPct)
				}
				if math.Abs(st.Drawdown-10) > 1e-9 {
					t.Errorf("expected 10%% drawdown, got %v", st.Drawdown)
				}
				if st.Volatility <= 0 {
					t.Errorf("expected positive volatility, got %v", st.Volatility)
				}
				wantEff := st.ReturnPct / st.Volatility
				if math.Abs(st.Efficiency-wantEff) > 1e-9 {
					t.Errorf("expected efficiency %v, got %v", wantEff, st.Efficiency)
				}
				if math.Abs(st.RiskEfficiency-(wantEff-1)) > 1e-9 {
					t.Errorf("expected risk efficiency %v, got %v", wantEff-1, st.RiskEfficiency)
				}
			},
		},
		{
			name:    "flat",
			history: []float64{10, 10, 10},
			check: func(t *testing.T, st market.Stats) {
				if st.Volatility != 0 || st.Efficiency != 0 {
					t.Errorf("expected flat stats, got %+v", st)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ComputeStats(tt.history))
		})
	}
}

func TestMaxDrawdownPct(t *testing.T) {
	got := MaxDrawdownPct([]float64{100, 102, 104, 103, 106})
	want := (104.0 - 103.0) / 104.0 * 100
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, got)
	}
	if MaxDrawdownPct([]float64{5}) != 0 {
		t.Error("expected 0 for a single point")
	}
}
