// Package cli wires the configuration, logger and game into cobra commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zappabad/stockpick/internal/config"
	"github.com/zappabad/stockpick/internal/logger"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// options are the flags shared by every command.
type options struct {
	configPath string
	seed       int64
	debug      bool
}

// NewRootCmd creates the root command. Without a subcommand it starts the
// interactive game.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "stockpick",
		Short: "stockpick - a terminal stock-picking game",
		Long: `stockpick simulates five synthetic stocks whose prices drift randomly while
news headlines push them around. Start a round, pick the stock you think will
do best over the next twenty seconds, and see how it ranks.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts)
		},
	}

	rootCmd.AddCommand(newPlayCmd(opts))
	rootCmd.AddCommand(newSimulateCmd(opts))
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Configuration file path (YAML)")
	rootCmd.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "Random seed (0 uses the config value or the clock)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	return rootCmd
}

// loadConfig loads and validates configuration, applying flag overrides.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}
	if opts.debug {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func initLogger(cfg *config.Config, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logger.Init(cfg.Logging.Level, w)
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stockpick %s\n", Version)
		},
	}
}
