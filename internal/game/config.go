package game

import (
	"time"

	"github.com/zappabad/stockpick/internal/market"
	marketservice "github.com/zappabad/stockpick/internal/market/service"
	"github.com/zappabad/stockpick/internal/news"
	newsservice "github.com/zappabad/stockpick/internal/news/service"
	"github.com/zappabad/stockpick/internal/rival/strategy"
	"github.com/zappabad/stockpick/internal/scoring"
)

// RivalConfig describes one computer opponent.
type RivalConfig struct {
	Name     string
	Strategy string
}

// Config holds configuration for the game.
type Config struct {
	// Seeds are the assets created in the market.
	Seeds []market.Seed
	// Catalog is the news template table.
	Catalog news.Catalog
	// MarketConfig is the configuration for the market service.
	MarketConfig marketservice.Config
	// NewsConfig is the configuration for the news service.
	NewsConfig newsservice.Config
	// DisableNews runs the market without the news scheduler.
	DisableNews bool
	// NewsReader tells rivals about the active event when news is scheduled
	// outside the game, e.g. on a virtual clock. Ignored unless DisableNews.
	NewsReader strategy.NewsReader
	// PickWindow is how long the player has to pick once a round starts.
	PickWindow time.Duration
	// EvalWindow is how long a pick is held before scoring.
	EvalWindow time.Duration
	// Weights are the score coefficients.
	Weights scoring.Weights
	// Rivals pick alongside the player every round.
	Rivals []RivalConfig
	// HistorySize is how many finished rounds are remembered.
	HistorySize int
	// RandSeed seeds every random source; 0 means seed from the clock.
	RandSeed int64
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Seeds:        market.DefaultSeeds(),
		Catalog:      news.DefaultCatalog(),
		MarketConfig: marketservice.DefaultConfig(),
		NewsConfig:   newsservice.DefaultConfig(),
		PickWindow:   5 * time.Second,
		EvalWindow:   20 * time.Second,
		Weights:      scoring.DefaultWeights(),
		Rivals: []RivalConfig{
			{Name: "Chartist", Strategy: strategy.NameMomentum},
			{Name: "Newshound", Strategy: strategy.NameNews},
		},
		HistorySize: 20,
	}
}
