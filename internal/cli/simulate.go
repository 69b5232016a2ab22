package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/zappabad/stockpick/internal/config"
	"github.com/zappabad/stockpick/internal/game"
	"github.com/zappabad/stockpick/internal/logger"
	"github.com/zappabad/stockpick/internal/market"
	"github.com/zappabad/stockpick/internal/news/scheduler"
	"github.com/zappabad/stockpick/tui/styles"
)

type simulateOptions struct {
	rounds     int
	pick       string
	idleTicks  int
	quietNews  bool
	showLeader bool
}

func newSimulateCmd(opts *options) *cobra.Command {
	sopts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play rounds headlessly and print the rankings",
		Long: `Run the game without a terminal UI on a virtual clock: the market advances one
tick per configured tick interval, news is scheduled on the same clock, and each
round picks the given stock (or a random one) and prints the ranked results.
Example: stockpick simulate --rounds 3 --pick MWS --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			initLogger(cfg, cmd.ErrOrStderr())
			return runSimulate(cmd.Context(), cmd.OutOrStdout(), cfg, sopts)
		},
	}

	cmd.Flags().IntVar(&sopts.rounds, "rounds", 1, "Number of rounds to play")
	cmd.Flags().StringVar(&sopts.pick, "pick", "", "Asset key to pick every round (random when empty)")
	cmd.Flags().IntVar(&sopts.idleTicks, "idle-ticks", 20, "Ticks the market runs between rounds")
	cmd.Flags().BoolVar(&sopts.quietNews, "no-news", false, "Disable news events")
	cmd.Flags().BoolVar(&sopts.showLeader, "leader", false, "Print the live leader before each pick")

	return cmd
}

// simulation drives a game on a virtual clock.
type simulation struct {
	g      *game.Game
	driver *scheduler.Driver
	tick   time.Duration
	now    time.Time
	rng    *rand.Rand
	out    io.Writer
	seed   int64
}

// newSimulation starts a game with a manual market. News, when enabled, is
// scheduled by a driver on the virtual clock and shown to the rivals.
func newSimulation(out io.Writer, cfg *config.Config, withNews bool) (*simulation, error) {
	gc := cfg.Game()
	gc.MarketConfig.Manual = true
	gc.DisableNews = true
	if gc.RandSeed == 0 {
		gc.RandSeed = time.Now().UnixNano()
	}

	sim := &simulation{
		tick: gc.MarketConfig.TickInterval,
		now:  time.Unix(0, 0).UTC(),
		rng:  rand.New(rand.NewSource(gc.RandSeed + 3)),
		out:  out,
		seed: gc.RandSeed,
	}
	if withNews {
		sim.driver = scheduler.NewDriver(gc.Catalog, rand.New(rand.NewSource(gc.RandSeed+4)),
			gc.NewsConfig.MinDelay, gc.NewsConfig.MaxDelay)
		gc.NewsReader = sim.driver
	}

	g, err := game.NewGame(gc)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	sim.g = g
	return sim, nil
}

func runSimulate(ctx context.Context, out io.Writer, cfg *config.Config, sopts *simulateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if sopts.rounds < 1 {
		return fmt.Errorf("--rounds must be at least 1")
	}

	sim, err := newSimulation(out, cfg, cfg.News.Enabled && !sopts.quietNews)
	if err != nil {
		return err
	}
	g := sim.g
	defer g.Close()

	var pick market.AssetKey
	if sopts.pick != "" {
		pick = market.AssetKey(strings.ToUpper(sopts.pick))
		if _, err := g.Market.Asset(pick); err != nil {
			return fmt.Errorf("--pick %s: %w", sopts.pick, err)
		}
	}

	logger.Info("simulating %d rounds with seed %d", sopts.rounds, sim.seed)

	for i := 1; i <= sopts.rounds; i++ {
		if err := sim.run(ctx, sopts.idleTicks); err != nil {
			return err
		}
		if sopts.showLeader {
			if a, ok := g.Leader(); ok {
				fmt.Fprintf(out, "leader before round %d: %s (risk efficiency %.2f)\n", i, a.Key, a.RiskEfficiency)
			}
		}

		r, err := sim.playRound(ctx, pick)
		if err != nil {
			return err
		}
		if err := printRound(out, i, r); err != nil {
			return err
		}
		g.Restart()
	}

	t := g.Tally()
	summary := fmt.Sprintf("You won %d of %d rounds", t.Wins, t.Rounds)
	for _, rv := range g.Rivals() {
		summary += fmt.Sprintf(" · %s %d", rv.Name, t.RivalWins[rv.Name])
	}
	_, err = fmt.Fprintln(out, titleStyle.Render(summary))
	return err
}

// run advances the market and the news clock by n ticks.
func (s *simulation) run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := s.g.Market.Step(ctx, 1); err != nil {
			return fmt.Errorf("step market: %w", err)
		}
		s.now = s.now.Add(s.tick)
		if s.driver == nil {
			continue
		}
		tr, err := s.driver.Poll(ctx, s.now, s.g.Market)
		if err != nil {
			return fmt.Errorf("poll news: %w", err)
		}
		if tr.Applied != nil {
			fmt.Fprintf(s.out, "%s %s: %s\n", s.now.Format("15:04:05"), tr.Applied.Event.Press, tr.Applied.Event.Title)
		}
	}
	return nil
}

func (s *simulation) playRound(ctx context.Context, pick market.AssetKey) (game.Round, error) {
	r, err := s.g.StartRound(s.now)
	if err != nil {
		return r, err
	}

	key := pick
	if key == "" {
		keys := s.g.Market.Keys()
		key = keys[s.rng.Intn(len(keys))]
	}
	if r, err = s.g.Pick(key, s.now); err != nil {
		return r, err
	}

	for {
		if err := s.run(ctx, 1); err != nil {
			return r, err
		}
		if r, changed := s.g.Advance(s.now); changed {
			return r, nil
		}
	}
}

func printRound(w io.Writer, n int, r game.Round) error {
	owners := make(map[market.AssetKey][]string)
	owners[r.Pick] = append(owners[r.Pick], "you")
	for _, rp := range r.RivalPicks {
		owners[rp.Key] = append(owners[rp.Key], rp.Name)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(cellStyle).
		Headers("#", "KEY", "NAME", "START", "END", "RETURN", "VOL", "MDD", "TREND", "EFF", "SCORE", "PICKED BY")
	for i, res := range r.Results {
		t.Row(
			fmt.Sprintf("%d", i+1),
			string(res.Key),
			res.Name,
			styles.FormatPrice(res.StartPrice),
			styles.FormatPrice(res.EndPrice),
			styles.FormatPct(res.ReturnPct),
			fmt.Sprintf("%.2f", res.VolatilityPct),
			fmt.Sprintf("%.2f", res.MaxDrawdownPct),
			fmt.Sprintf("%.2f", res.TrendStability),
			fmt.Sprintf("%.2f", res.Efficiency),
			fmt.Sprintf("%.1f", res.Score),
			strings.Join(owners[res.Key], ", "),
		)
	}

	rank := r.Rank(r.Pick)
	verdict := loseStyle.Render(fmt.Sprintf("%s ranked #%d", r.Pick, rank))
	if rank == 1 {
		verdict = winStyle.Render(fmt.Sprintf("%s won the round", r.Pick))
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n\n",
		titleStyle.Render(fmt.Sprintf("Round %d (%s)", n, r.ID.String()[:8])), t.Render(), verdict)
	return err
}
