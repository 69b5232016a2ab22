package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/zappabad/stockpick/internal/game"
	"github.com/zappabad/stockpick/internal/rival/strategy"
	"github.com/zappabad/stockpick/internal/scoring"
)

// EnvPrefix prefixes every environment override, e.g. STOCKPICK_MARKET_TICK_INTERVAL.
const EnvPrefix = "STOCKPICK"

// Config represents the complete application configuration
type Config struct {
	Market  MarketConfig    `mapstructure:"market" envconfig:"MARKET"`
	News    NewsConfig      `mapstructure:"news" envconfig:"NEWS"`
	Round   RoundConfig     `mapstructure:"round" envconfig:"ROUND"`
	Weights scoring.Weights `mapstructure:"weights" envconfig:"WEIGHTS"`
	Rivals  []RivalConfig   `mapstructure:"rivals" ignored:"true"`
	Logging LoggingConfig   `mapstructure:"logging" envconfig:"LOG"`
	// Seed fixes every random source; 0 seeds from the clock.
	Seed int64 `mapstructure:"seed" envconfig:"SEED"`
}

// MarketConfig holds price engine configuration
type MarketConfig struct {
	TickInterval  time.Duration `mapstructure:"tick_interval" envconfig:"TICK_INTERVAL"`
	MaxHistory    int           `mapstructure:"max_history" envconfig:"MAX_HISTORY"`
	WarmupHistory int           `mapstructure:"warmup_history" envconfig:"WARMUP_HISTORY"`
}

// NewsConfig holds event scheduler configuration
type NewsConfig struct {
	Enabled      bool          `mapstructure:"enabled" envconfig:"ENABLED"`
	MinDelay     time.Duration `mapstructure:"min_delay" envconfig:"MIN_DELAY"`
	MaxDelay     time.Duration `mapstructure:"max_delay" envconfig:"MAX_DELAY"`
	PollInterval time.Duration `mapstructure:"poll_interval" envconfig:"POLL_INTERVAL"`
	HistorySize  int           `mapstructure:"history_size" envconfig:"HISTORY_SIZE"`
}

// RoundConfig holds the round flow timing
type RoundConfig struct {
	PickWindow  time.Duration `mapstructure:"pick_window" envconfig:"PICK_WINDOW"`
	EvalWindow  time.Duration `mapstructure:"eval_window" envconfig:"EVAL_WINDOW"`
	HistorySize int           `mapstructure:"history_size" envconfig:"HISTORY_SIZE"`
}

// RivalConfig describes one computer opponent
type RivalConfig struct {
	Name     string `mapstructure:"name"`
	Strategy string `mapstructure:"strategy"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level" envconfig:"LEVEL"`
	File  string `mapstructure:"file" envconfig:"FILE"`
}

// Load reads configuration from an optional YAML file, a .env file in the
// working directory and STOCKPICK_* environment variables, in increasing
// order of precedence. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// .env is optional
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if len(cfg.Rivals) == 0 {
		cfg.Rivals = defaultRivals()
	}
	return &cfg, nil
}

func defaultRivals() []RivalConfig {
	var out []RivalConfig
	for _, r := range game.DefaultConfig().Rivals {
		out = append(out, RivalConfig{Name: r.Name, Strategy: r.Strategy})
	}
	return out
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	gd := game.DefaultConfig()

	v.SetDefault("market.tick_interval", gd.MarketConfig.TickInterval.String())
	v.SetDefault("market.max_history", gd.MarketConfig.MaxHistory)
	v.SetDefault("market.warmup_history", gd.MarketConfig.WarmupHistory)

	v.SetDefault("news.enabled", true)
	v.SetDefault("news.min_delay", gd.NewsConfig.MinDelay.String())
	v.SetDefault("news.max_delay", gd.NewsConfig.MaxDelay.String())
	v.SetDefault("news.poll_interval", gd.NewsConfig.PollInterval.String())
	v.SetDefault("news.history_size", gd.NewsConfig.HistorySize)

	v.SetDefault("round.pick_window", gd.PickWindow.String())
	v.SetDefault("round.eval_window", gd.EvalWindow.String())
	v.SetDefault("round.history_size", gd.HistorySize)

	v.SetDefault("weights.return", gd.Weights.Return)
	v.SetDefault("weights.risk_adjusted", gd.Weights.RiskAdjusted)
	v.SetDefault("weights.trend", gd.Weights.Trend)
	v.SetDefault("weights.efficiency", gd.Weights.Efficiency)
	v.SetDefault("weights.drawdown", gd.Weights.Drawdown)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "stockpick.log")
	v.SetDefault("seed", 0)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Market.TickInterval < 10*time.Millisecond {
		return errors.New("market.tick_interval must be at least 10ms")
	}
	if c.Market.MaxHistory < 2 {
		return errors.New("market.max_history must be at least 2")
	}
	if c.Market.WarmupHistory < 1 || c.Market.WarmupHistory > c.Market.MaxHistory {
		return errors.New("market.warmup_history must be between 1 and market.max_history")
	}

	if c.News.Enabled {
		if c.News.MinDelay <= 0 {
			return errors.New("news.min_delay must be positive")
		}
		if c.News.MaxDelay < c.News.MinDelay {
			return errors.New("news.max_delay must not be less than news.min_delay")
		}
		if c.News.PollInterval <= 0 {
			return errors.New("news.poll_interval must be positive")
		}
		if c.News.HistorySize < 1 {
			return errors.New("news.history_size must be at least 1")
		}
	}

	if c.Round.PickWindow <= 0 || c.Round.EvalWindow <= 0 {
		return errors.New("round.pick_window and round.eval_window must be positive")
	}
	if c.Round.HistorySize < 1 {
		return errors.New("round.history_size must be at least 1")
	}

	w := c.Weights
	if w.Return < 0 || w.RiskAdjusted < 0 || w.Trend < 0 || w.Efficiency < 0 || w.Drawdown < 0 {
		return errors.New("weights must not be negative")
	}

	for i, r := range c.Rivals {
		if r.Name == "" {
			return fmt.Errorf("rivals[%d].name is required", i)
		}
		switch r.Strategy {
		case strategy.NameMomentum, strategy.NameNews, strategy.NameRandom:
		default:
			return fmt.Errorf("rivals[%d].strategy must be one of: %s, %s, %s", i,
				strategy.NameMomentum, strategy.NameNews, strategy.NameRandom)
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return errors.New("logging.level must be one of: debug, info, warn, error")
	}
	return nil
}

// Game converts the file configuration into the game's runtime configuration.
func (c *Config) Game() game.Config {
	gc := game.DefaultConfig()

	gc.MarketConfig.TickInterval = c.Market.TickInterval
	gc.MarketConfig.MaxHistory = c.Market.MaxHistory
	gc.MarketConfig.WarmupHistory = c.Market.WarmupHistory

	gc.DisableNews = !c.News.Enabled
	gc.NewsConfig.MinDelay = c.News.MinDelay
	gc.NewsConfig.MaxDelay = c.News.MaxDelay
	gc.NewsConfig.PollInterval = c.News.PollInterval
	gc.NewsConfig.HistorySize = c.News.HistorySize

	gc.PickWindow = c.Round.PickWindow
	gc.EvalWindow = c.Round.EvalWindow
	gc.HistorySize = c.Round.HistorySize
	gc.Weights = c.Weights
	gc.RandSeed = c.Seed

	gc.Rivals = gc.Rivals[:0]
	for _, r := range c.Rivals {
		gc.Rivals = append(gc.Rivals, game.RivalConfig{Name: r.Name, Strategy: r.Strategy})
	}
	return gc
}
