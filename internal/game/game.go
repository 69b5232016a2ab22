package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zappabad/stockpick/internal/analysis"
	"github.com/zappabad/stockpick/internal/logger"
	"github.com/zappabad/stockpick/internal/market"
	marketservice "github.com/zappabad/stockpick/internal/market/service"
	"github.com/zappabad/stockpick/internal/news"
	newsservice "github.com/zappabad/stockpick/internal/news/service"
	"github.com/zappabad/stockpick/internal/rival"
	"github.com/zappabad/stockpick/internal/rival/strategy"
	"github.com/zappabad/stockpick/internal/scoring"
)

var (
	ErrWrongPhase   = errors.New("action not allowed in current phase")
	ErrUnknownAsset = marketservice.ErrUnknownAsset
)

type rivalEntry struct {
	rival.Rival
	strategy strategy.Strategy
}

// Game owns all the game subsystems, manages their lifecycle and runs the
// round state machine. The round clock is driven by the caller through
// Advance, so the TUI and the headless simulator share one flow.
type Game struct {
	Market *marketservice.MarketService
	News   *newsservice.NewsService // nil when news is disabled

	cfg    Config
	rivals []rivalEntry

	mu      sync.Mutex
	round   Round
	history *history
}

// NewGame creates a new Game with the given configuration and starts its
// services.
func NewGame(cfg Config) (*Game, error) {
	def := DefaultConfig()
	if len(cfg.Seeds) == 0 {
		cfg.Seeds = def.Seeds
	}
	if cfg.Catalog == nil {
		cfg.Catalog = def.Catalog
	}
	if cfg.PickWindow <= 0 {
		cfg.PickWindow = def.PickWindow
	}
	if cfg.EvalWindow <= 0 {
		cfg.EvalWindow = def.EvalWindow
	}
	if cfg.Weights == (scoring.Weights{}) {
		cfg.Weights = def.Weights
	}

	keys := make([]market.AssetKey, 0, len(cfg.Seeds))
	for _, s := range cfg.Seeds {
		keys = append(keys, s.Key)
	}
	if !cfg.DisableNews {
		if err := cfg.Catalog.Validate(keys); err != nil {
			return nil, fmt.Errorf("news catalog: %w", err)
		}
	}

	seed := cfg.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// one source per goroutine; *rand.Rand is not safe for concurrent use
	marketRng := rand.New(rand.NewSource(seed))
	newsRng := rand.New(rand.NewSource(seed + 1))
	rivalRng := rand.New(rand.NewSource(seed + 2))

	g := &Game{
		cfg:     cfg,
		history: newHistory(cfg.HistorySize),
	}
	for i, rc := range cfg.Rivals {
		strat, err := strategy.New(rc.Strategy, rivalRng)
		if err != nil {
			return nil, fmt.Errorf("rival %q: %w", rc.Name, err)
		}
		g.rivals = append(g.rivals, rivalEntry{
			Rival:    rival.Rival{ID: rival.RivalID(i + 1), Name: rc.Name, Strategy: rc.Strategy},
			strategy: strat,
		})
	}

	g.Market = marketservice.NewMarketService(cfg.Seeds, cfg.MarketConfig, marketRng)
	if !cfg.DisableNews {
		g.News = newsservice.NewNewsService(cfg.Catalog, g.Market, cfg.NewsConfig, newsRng)
	}

	logger.Info("game ready: %d assets, %d rivals, news=%v", len(cfg.Seeds), len(g.rivals), !cfg.DisableNews)
	return g, nil
}

// Config returns the effective configuration.
func (g *Game) Config() Config {
	return g.cfg
}

// Rivals returns the computer opponents.
func (g *Game) Rivals() []rival.Rival {
	out := make([]rival.Rival, len(g.rivals))
	for i, r := range g.rivals {
		out[i] = r.Rival
	}
	return out
}

// Round returns a copy of the current round.
func (g *Game) Round() Round {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.round.clone()
}

// StartRound opens the pick window. Allowed from the analysis phase only.
func (g *Game) StartRound(now time.Time) (Round, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.round.Phase != PhaseAnalysis {
		return g.round.clone(), fmt.Errorf("start round in %s: %w", g.round.Phase, ErrWrongPhase)
	}
	g.round = Round{
		ID:       uuid.New(),
		Phase:    PhaseThinking,
		Started:  now,
		Deadline: now.Add(g.cfg.PickWindow),
	}
	logger.Debug("round %s: pick window open until %s", g.round.ID, g.round.Deadline.Format(time.TimeOnly))
	return g.round.clone(), nil
}

// Pick locks in key, captures the selection snapshot and starts the
// evaluation countdown. Rivals choose at the same instant.
func (g *Game) Pick(key market.AssetKey, now time.Time) (Round, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.round.Phase != PhaseThinking {
		return g.round.clone(), fmt.Errorf("pick in %s: %w", g.round.Phase, ErrWrongPhase)
	}
	snap := g.Market.Snapshot()
	picked, ok := snap.Find(key)
	if !ok {
		return g.round.clone(), fmt.Errorf("pick %q: %w", key, ErrUnknownAsset)
	}

	g.round.Pick = key
	g.round.PickedAt = now
	g.round.Snapshot = scoring.Capture(snap.Assets, now)
	g.round.RivalPicks = g.rivalPicks(now)
	g.round.Phase = PhaseEvaluating
	g.round.Deadline = now.Add(g.cfg.EvalWindow)

	logger.Info("round %s: picked %s at %.2f", g.round.ID, key, picked.Price)
	return g.round.clone(), nil
}

func (g *Game) rivalPicks(now time.Time) []rival.Pick {
	var nr strategy.NewsReader = noNews{}
	switch {
	case g.News != nil:
		nr = g.News
	case g.cfg.NewsReader != nil:
		nr = g.cfg.NewsReader
	}
	picks := make([]rival.Pick, 0, len(g.rivals))
	for _, r := range g.rivals {
		key, reason, ok := r.strategy.Choose(g.Market, nr)
		if !ok {
			logger.Warn("rival %s made no pick", r.Name)
			continue
		}
		picks = append(picks, rival.Pick{
			RivalID: r.ID,
			Name:    r.Name,
			Key:     key,
			Reason:  reason,
			Time:    now.UnixNano(),
		})
	}
	return picks
}

// Advance moves the round along once its countdown has run out: an expired
// pick window with no pick returns to analysis, an expired evaluation is
// scored. It reports whether the phase changed.
func (g *Game) Advance(now time.Time) (Round, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.round.Deadline.IsZero() || now.Before(g.round.Deadline) {
		return g.round.clone(), false
	}

	switch g.round.Phase {
	case PhaseThinking:
		logger.Info("round %s: no pick before the deadline", g.round.ID)
		g.round = Round{}
		return g.round.clone(), true

	case PhaseEvaluating:
		g.round.Results = scoring.Score(g.round.Snapshot, g.Market.Snapshot().Assets, g.cfg.Weights)
		g.round.Phase = PhaseResult
		g.round.Deadline = time.Time{}

		rec := newRecord(g.round, now)
		g.history.add(rec)
		logger.Info("round %s: winner %s, pick %s ranked %d", g.round.ID, rec.Winner.Key, rec.Pick, rec.PickRank)
		return g.round.clone(), true
	}
	return g.round.clone(), false
}

// Restart abandons the current round and returns to analysis.
func (g *Game) Restart() Round {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.round = Round{}
	return g.round
}

// Reset reinitializes the market, clears any running news event and the
// round history.
func (g *Game) Reset(ctx context.Context) error {
	if g.News != nil {
		if err := g.News.Clear(ctx); err != nil {
			return fmt.Errorf("clear news: %w", err)
		}
	}
	if err := g.Market.Reset(ctx); err != nil {
		return fmt.Errorf("reset market: %w", err)
	}
	g.history.reset()
	g.Restart()
	return nil
}

// Leader returns the asset currently on top of the live ranking.
func (g *Game) Leader() (market.Asset, bool) {
	ranked := analysis.LiveRanking(g.Market.Snapshot().Assets)
	if len(ranked) == 0 {
		return market.Asset{}, false
	}
	return ranked[0], true
}

// Insight analyzes one asset's recent prices.
func (g *Game) Insight(key market.AssetKey) (analysis.Insight, error) {
	a, err := g.Market.Asset(key)
	if err != nil {
		return analysis.Insight{}, err
	}
	return analysis.Analyze(a), nil
}

// History returns finished rounds, oldest first.
func (g *Game) History() []Record {
	return g.history.all()
}

// Tally summarizes the round history.
func (g *Game) Tally() Tally {
	return g.history.tally()
}

// Close shuts down all game subsystems in reverse dependency order.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.News != nil {
		g.News.Close()
	}
	if g.Market != nil {
		g.Market.Close()
	}
}

type noNews struct{}

func (noNews) Active() (news.HistoryItem, bool) { return news.HistoryItem{}, false }
