package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/stockpick/internal/game"
	"github.com/zappabad/stockpick/internal/logger"
	"github.com/zappabad/stockpick/internal/market"
	"github.com/zappabad/stockpick/tui/panels"
	"github.com/zappabad/stockpick/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusMarket PanelFocus = iota
	FocusChart
	FocusNews
	FocusResults
	focusCount
)

// refreshInterval drives the countdown and redraws between market ticks.
const refreshInterval = 100 * time.Millisecond

// Model is the main TUI application model.
type Model struct {
	game *game.Game
	keys *panels.KeyMap
	help help.Model

	marketPanel  *panels.MarketOverviewPanel
	chartPanel   *panels.PriceChartPanel
	newsPanel    *panels.NewsPanel
	resultsPanel *panels.ResultsPanel

	focusedPanel PanelFocus

	width  int
	height int

	statusMsg string
	ready     bool

	// now is injectable for tests
	now func() time.Time
}

// NewModel creates a new TUI model for g.
func NewModel(g *game.Game) *Model {
	keys := panels.DefaultKeyMap()
	m := &Model{
		game:         g,
		keys:         keys,
		help:         help.New(),
		marketPanel:  panels.NewMarketOverviewPanel(keys),
		chartPanel:   panels.NewPriceChartPanel(),
		newsPanel:    panels.NewNewsPanel(keys),
		resultsPanel: panels.NewResultsPanel(keys),
		focusedPanel: FocusMarket,
		now:          time.Now,
	}
	m.updateAllData()
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.marketPanel.Init(),
		m.chartPanel.Init(),
		m.newsPanel.Init(),
		m.resultsPanel.Init(),
		m.listenMarketEvents(),
		m.tickRefresh(),
	}
	if m.game.News != nil {
		cmds = append(cmds, m.listenNewsEvents())
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Focus):
			m.focusedPanel = (m.focusedPanel + 1) % focusCount
		case key.Matches(msg, m.keys.Start):
			m.startRound()
		case key.Matches(msg, m.keys.Pick):
			if sel, ok := m.marketPanel.Selected(); ok && m.focusedPanel == FocusMarket {
				m.pick(sel.Key)
			}
		case key.Matches(msg, m.keys.Quick):
			if i, err := strconv.Atoi(msg.String()); err == nil {
				m.marketPanel.Select(i - 1)
				if sel, ok := m.marketPanel.Selected(); ok {
					m.pick(sel.Key)
				}
			}
		case key.Matches(msg, m.keys.Restart):
			m.game.Restart()
			m.statusMsg = "Back to analysis"
		case key.Matches(msg, m.keys.Reset):
			cmds = append(cmds, m.resetGame())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case panels.MarketUpdateMsg:
		m.updateAllData()
		cmds = append(cmds, m.listenMarketEvents())

	case panels.NewsUpdateMsg:
		logger.Debug("tui: news %s %s", msg.Event.Type, msg.Event.Item.Event.ID)
		m.updateNews()
		cmds = append(cmds, m.listenNewsEvents())

	case resetResultMsg:
		m.statusMsg = msg.message
		m.updateAllData()

	case tickMsg:
		m.advance()
		cmds = append(cmds, m.tickRefresh())
	}

	m.updateFocusedPanel(msg, &cmds)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	prev, _ := m.marketPanel.Selected()
	switch m.focusedPanel {
	case FocusMarket:
		m.marketPanel, cmd = m.marketPanel.Update(msg)
	case FocusChart:
		m.chartPanel, cmd = m.chartPanel.Update(msg)
	case FocusNews:
		m.newsPanel, cmd = m.newsPanel.Update(msg)
	case FocusResults:
		m.resultsPanel, cmd = m.resultsPanel.Update(msg)
	}
	if sel, ok := m.marketPanel.Selected(); ok && sel.Key != prev.Key {
		m.updateChart()
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) startRound() {
	r, err := m.game.StartRound(m.now())
	if err != nil {
		m.statusMsg = "❌ " + err.Error()
		return
	}
	m.statusMsg = fmt.Sprintf("Round %s: pick a stock!", r.ID.String()[:8])
}

func (m *Model) pick(k market.AssetKey) {
	r, err := m.game.Pick(k, m.now())
	if err != nil {
		m.statusMsg = "❌ " + err.Error()
		return
	}
	m.statusMsg = fmt.Sprintf("✓ Picked %s", r.Pick)
	m.updateAllData()
}

func (m *Model) advance() {
	r, changed := m.game.Advance(m.now())
	if changed {
		switch r.Phase {
		case game.PhaseAnalysis:
			m.statusMsg = "⏱ Time's up, no pick made"
		case game.PhaseResult:
			if w, ok := r.Winner(); ok {
				m.statusMsg = fmt.Sprintf("🏁 %s wins the round", w.Key)
			}
			m.focusedPanel = FocusResults
		}
		m.updateAllData()
	}
	// keeps the countdown and news timers moving between ticks
	m.updateNews()
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	m.marketPanel.SetFocus(m.focusedPanel == FocusMarket)
	m.chartPanel.SetFocus(m.focusedPanel == FocusChart)
	m.newsPanel.SetFocus(m.focusedPanel == FocusNews)
	m.resultsPanel.SetFocus(m.focusedPanel == FocusResults)

	// Layout:
	// ┌───────────────────────────────┬───────────────┐
	// │         Phase banner                          │
	// ├───────────────────────────────┼───────────────┤
	// │      Market Overview          │     News      │
	// ├───────────────────────────────┼───────────────┤
	// │          Chart                │    Results    │
	// └───────────────────────────────┴───────────────┘

	leftWidth := m.width * 3 / 5
	rightWidth := m.width - leftWidth

	bodyHeight := m.height - 3
	topHeight := bodyHeight * 2 / 5
	bottomHeight := bodyHeight - topHeight

	m.marketPanel.SetSize(leftWidth, topHeight)
	m.newsPanel.SetSize(rightWidth, topHeight)
	m.chartPanel.SetSize(leftWidth, bottomHeight)
	m.resultsPanel.SetSize(rightWidth, bottomHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, m.marketPanel.View(), m.newsPanel.View())
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top, m.chartPanel.View(), m.resultsPanel.View())

	return lipgloss.JoinVertical(lipgloss.Left, m.renderBanner(), topRow, bottomRow, m.renderStatusBar())
}

func (m *Model) renderBanner() string {
	r := m.game.Round()
	now := m.now()

	var text string
	switch r.Phase {
	case game.PhaseAnalysis:
		text = "Study the market, press s to start a round"
	case game.PhaseThinking:
		text = styles.CountdownStyle.Render(fmt.Sprintf("🎯 Pick a stock! %ds left", secondsLeft(r, now)))
	case game.PhaseEvaluating:
		text = styles.CountdownStyle.Render(fmt.Sprintf("⏱ Evaluating %s... %ds", r.Pick, secondsLeft(r, now)))
		if leader, ok := m.game.Leader(); ok {
			text += styles.LeaderStyle.Render(fmt.Sprintf("  leader %s", leader.Key))
		}
	case game.PhaseResult:
		if w, ok := r.Winner(); ok {
			text = fmt.Sprintf("Winner %s · you ranked #%d · press r for a new round", w.Key, r.Rank(r.Pick))
		}
	}
	return styles.PhaseStyle.Render(r.Phase.String()) + " " + text
}

func secondsLeft(r game.Round, now time.Time) int {
	return int((r.Remaining(now) + time.Second - 1) / time.Second)
}

func (m *Model) renderStatusBar() string {
	helpStr := m.help.ShortHelpView(m.keys.ShortHelp())

	status := ""
	if m.statusMsg != "" {
		status = " │ " + m.statusMsg
	}

	return styles.StatusBarStyle.Width(m.width).Render(helpStr + status)
}

func (m *Model) updateAllData() {
	snap := m.game.Market.Snapshot()
	m.marketPanel.SetSnapshot(snap)

	r := m.game.Round()
	var leader market.AssetKey
	if a, ok := m.game.Leader(); ok {
		leader = a.Key
	}
	m.marketPanel.SetMarks(r.Pick, leader)

	m.updateChart()
	m.updateNews()

	if r.Phase == game.PhaseResult {
		m.resultsPanel.SetRound(r)
	}
	m.resultsPanel.SetHistory(m.game.History(), m.game.Tally())
}

func (m *Model) updateChart() {
	sel, ok := m.marketPanel.Selected()
	if !ok {
		return
	}
	m.chartPanel.SetAsset(sel)

	r := m.game.Round()
	m.chartPanel.SetBaseline(0)
	if r.Phase == game.PhaseEvaluating || r.Phase == game.PhaseResult {
		if b, ok := r.Snapshot.Baseline(sel.Key); ok {
			m.chartPanel.SetBaseline(b.Price)
		}
	}
}

func (m *Model) updateNews() {
	if m.game.News == nil {
		return
	}
	active, ok := m.game.News.Active()
	m.newsPanel.SetNews(active, ok, m.game.News.Latest(20), m.now())
}

func (m *Model) resetGame() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := m.game.Reset(ctx); err != nil {
			return resetResultMsg{message: "❌ Reset failed: " + err.Error()}
		}
		return resetResultMsg{message: "✓ Market reset"}
	}
}

func (m *Model) listenMarketEvents() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.game.Market.Events()
		if !ok {
			return nil
		}
		return panels.MarketUpdateMsg{Event: ev}
	}
}

func (m *Model) listenNewsEvents() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.game.News.Events()
		if !ok {
			return nil
		}
		return panels.NewsUpdateMsg{Event: ev}
	}
}

// tickMsg is sent periodically to drive the round clock.
type tickMsg struct{}

func (m *Model) tickRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

// resetResultMsg is sent after a reset completes.
type resetResultMsg struct {
	message string
}
