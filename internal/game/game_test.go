package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zappabad/stockpick/internal/market"
	"github.com/zappabad/stockpick/internal/news"
	"github.com/zappabad/stockpick/internal/rival/strategy"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	cfg := DefaultConfig()
	cfg.MarketConfig.Manual = true
	cfg.DisableNews = true
	cfg.RandSeed = 99
	cfg.HistorySize = 3
	cfg.Rivals = []RivalConfig{
		{Name: "Chartist", Strategy: strategy.NameMomentum},
		{Name: "Dart", Strategy: strategy.NameRandom},
	}
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

func playRound(t *testing.T, g *Game, key market.AssetKey, now time.Time) Round {
	t.Helper()
	if _, err := g.StartRound(now); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if _, err := g.Pick(key, now.Add(time.Second)); err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if err := g.Market.Step(context.Background(), 10); err != nil {
		t.Fatalf("Step: %v", err)
	}
	r, changed := g.Advance(now.Add(time.Second + g.Config().EvalWindow))
	if !changed || r.Phase != PhaseResult {
		t.Fatalf("expected result phase, got %s (changed=%v)", r.Phase, changed)
	}
	return r
}

func TestRoundFlow(t *testing.T) {
	g := newTestGame(t)
	now := time.Unix(1_000, 0)

	if got := g.Round().Phase; got != PhaseAnalysis {
		t.Fatalf("initial phase %s", got)
	}

	r, err := g.StartRound(now)
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if r.Phase != PhaseThinking || r.ID.String() == "" {
		t.Fatalf("unexpected round %+v", r)
	}
	if r.Remaining(now) != g.Config().PickWindow {
		t.Errorf("Remaining = %v", r.Remaining(now))
	}

	// Still inside the pick window.
	if _, changed := g.Advance(now.Add(time.Second)); changed {
		t.Fatal("advanced before the deadline")
	}

	r, err = g.Pick(market.KeyCSI, now.Add(2*time.Second))
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if r.Phase != PhaseEvaluating || r.Pick != market.KeyCSI {
		t.Fatalf("unexpected round after pick %+v", r)
	}
	if len(r.RivalPicks) != 2 {
		t.Errorf("expected 2 rival picks, got %d", len(r.RivalPicks))
	}
	if r.Snapshot.Empty() {
		t.Error("snapshot not captured")
	}

	if err := g.Market.Step(context.Background(), 25); err != nil {
		t.Fatalf("Step: %v", err)
	}

	r, changed := g.Advance(r.Deadline)
	if !changed || r.Phase != PhaseResult {
		t.Fatalf("expected result, got %s", r.Phase)
	}
	if len(r.Results) != len(market.DefaultSeeds()) {
		t.Fatalf("expected %d results, got %d", len(market.DefaultSeeds()), len(r.Results))
	}
	for i := 1; i < len(r.Results); i++ {
		if r.Results[i-1].Score < r.Results[i].Score {
			t.Errorf("results not sorted at %d", i)
		}
	}
	if r.Rank(market.KeyCSI) == 0 {
		t.Error("pick missing from results")
	}

	hist := g.History()
	if len(hist) != 1 || hist[0].RoundID != r.ID || hist[0].Pick != market.KeyCSI {
		t.Fatalf("unexpected history %+v", hist)
	}

	if got := g.Restart(); got.Phase != PhaseAnalysis {
		t.Errorf("Restart phase %s", got.Phase)
	}
}

func TestPickWindowExpires(t *testing.T) {
	g := newTestGame(t)
	now := time.Unix(2_000, 0)

	if _, err := g.StartRound(now); err != nil {
		t.Fatal(err)
	}
	r, changed := g.Advance(now.Add(g.Config().PickWindow))
	if !changed || r.Phase != PhaseAnalysis {
		t.Fatalf("expected return to analysis, got %s", r.Phase)
	}
	if len(g.History()) != 0 {
		t.Error("abandoned round recorded")
	}
}

func TestWrongPhase(t *testing.T) {
	g := newTestGame(t)
	now := time.Unix(3_000, 0)

	if _, err := g.Pick(market.KeyWTM, now); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Pick in analysis: got %v", err)
	}
	if _, err := g.StartRound(now); err != nil {
		t.Fatal(err)
	}
	if _, err := g.StartRound(now); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("second StartRound: got %v", err)
	}
}

func TestPickUnknownAsset(t *testing.T) {
	g := newTestGame(t)
	now := time.Unix(4_000, 0)
	if _, err := g.StartRound(now); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Pick("NOPE", now); !errors.Is(err, ErrUnknownAsset) {
		t.Fatalf("got %v, want ErrUnknownAsset", err)
	}
	if g.Round().Phase != PhaseThinking {
		t.Error("failed pick changed the phase")
	}
}

func TestHistoryBounded(t *testing.T) {
	g := newTestGame(t)
	now := time.Unix(5_000, 0)

	var last Round
	for i := 0; i < 5; i++ {
		last = playRound(t, g, market.KeyWTM, now.Add(time.Duration(i)*time.Minute))
		g.Restart()
	}
	hist := g.History()
	if len(hist) != 3 {
		t.Fatalf("history len %d, want 3", len(hist))
	}
	if hist[2].RoundID != last.ID {
		t.Error("newest record is not last")
	}

	tally := g.Tally()
	if tally.Rounds != 3 {
		t.Errorf("tally rounds %d", tally.Rounds)
	}
	if tally.Wins > tally.Rounds {
		t.Errorf("more wins than rounds: %+v", tally)
	}
}

func TestResetClearsState(t *testing.T) {
	g := newTestGame(t)
	playRound(t, g, market.KeyMWS, time.Unix(6_000, 0))

	if err := g.Reset(context.Background()); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if g.Round().Phase != PhaseAnalysis {
		t.Error("round not reset")
	}
	if len(g.History()) != 0 {
		t.Error("history not cleared")
	}
	for _, a := range g.Market.Snapshot().Assets {
		if len(a.History) != g.Config().MarketConfig.WarmupHistory {
			t.Errorf("%s history len %d after reset", a.Key, len(a.History))
		}
	}
}

func TestLeaderAndInsight(t *testing.T) {
	g := newTestGame(t)
	if err := g.Market.Step(context.Background(), 50); err != nil {
		t.Fatal(err)
	}
	if _, ok := g.Leader(); !ok {
		t.Error("no leader")
	}
	in, err := g.Insight(market.KeyBGE)
	if err != nil || in.Key != market.KeyBGE {
		t.Errorf("Insight: %+v, %v", in, err)
	}
	if _, err := g.Insight("NOPE"); !errors.Is(err, ErrUnknownAsset) {
		t.Errorf("got %v", err)
	}
}

func TestNewGameRejectsUnknownStrategy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MarketConfig.Manual = true
	cfg.DisableNews = true
	cfg.Rivals = []RivalConfig{{Name: "x", Strategy: "telepathy"}}
	if _, err := NewGame(cfg); err == nil {
		t.Fatal("expected error")
	}
}

func TestGameWithNews(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MarketConfig.Manual = true
	cfg.NewsConfig.MinDelay = 10 * time.Millisecond
	cfg.NewsConfig.MaxDelay = 20 * time.Millisecond
	cfg.NewsConfig.PollInterval = 5 * time.Millisecond
	cfg.RandSeed = 5
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	defer g.Close()

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := g.News.Active(); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("no news event became active")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if err := g.Reset(context.Background()); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if g.Round().Phase != PhaseAnalysis {
		t.Error("round not reset")
	}
}

type fixedNews struct {
	item news.HistoryItem
}

func (f fixedNews) Active() (news.HistoryItem, bool) { return f.item, true }

func TestExternalNewsReaderReachesRivals(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MarketConfig.Manual = true
	cfg.DisableNews = true
	cfg.RandSeed = 99
	cfg.Rivals = []RivalConfig{{Name: "Newshound", Strategy: strategy.NameNews}}
	cfg.NewsReader = fixedNews{item: news.HistoryItem{
		Event:   news.Event{ID: "ai-boom-1", Title: "AI industry booms"},
		Applied: map[market.AssetKey]float64{market.KeyBGE: 5, market.KeyMWS: 30},
	}}
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	defer g.Close()

	now := time.Unix(1_000, 0)
	if _, err := g.StartRound(now); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	r, err := g.Pick(market.KeyWTM, now)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if len(r.RivalPicks) != 1 || r.RivalPicks[0].Key != market.KeyMWS {
		t.Fatalf("expected Newshound to follow the headline to MWS, got %+v", r.RivalPicks)
	}
}
