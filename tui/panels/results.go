package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/stockpick/internal/game"
	"github.com/zappabad/stockpick/internal/market"
	"github.com/zappabad/stockpick/internal/scoring"
	"github.com/zappabad/stockpick/tui/styles"
)

// ResultsPanel shows the ranking of the last finished round, or the round
// history when toggled.
type ResultsPanel struct {
	keys  *KeyMap
	table table.Model

	round       game.Round
	history     []game.Record
	tally       game.Tally
	showHistory bool

	focused bool
	width   int
	height  int
}

// NewResultsPanel creates a new results panel.
func NewResultsPanel(keys *KeyMap) *ResultsPanel {
	t := table.New(table.WithColumns(resultColumns()), table.WithHeight(6))
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.BorderColor).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.TextSecondaryColor)
	s.Selected = s.Selected.
		Foreground(styles.TextColor).
		Background(lipgloss.Color("#374151")).
		Bold(false)
	t.SetStyles(s)

	return &ResultsPanel{keys: keys, table: t}
}

func resultColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 2},
		{Title: "Key", Width: 4},
		{Title: "Return", Width: 8},
		{Title: "Vol", Width: 6},
		{Title: "MDD", Width: 6},
		{Title: "Trend", Width: 5},
		{Title: "Eff", Width: 5},
		{Title: "Score", Width: 8},
		{Title: "", Width: 12},
	}
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "Round", Width: 8},
		{Title: "Pick", Width: 4},
		{Title: "Rank", Width: 4},
		{Title: "Winner", Width: 6},
		{Title: "Return", Width: 8},
		{Title: "Rivals", Width: 24},
	}
}

// Init initializes the panel.
func (p *ResultsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *ResultsPanel) Update(msg tea.Msg) (*ResultsPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, p.keys.NextView) {
		p.showHistory = !p.showHistory
		p.refresh()
		return p, nil
	}
	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, cmd
}

// View renders the panel.
func (p *ResultsPanel) View() string {
	var content strings.Builder

	name := "🏁 Results"
	if p.showHistory {
		name = fmt.Sprintf("🏁 History (%d/%d won)", p.tally.Wins, p.tally.Rounds)
	}

	if !p.showHistory && len(p.round.Results) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(
			"Pick a stock during the countdown to see how it ranks."))
	} else {
		content.WriteString(p.table.View())
		if !p.showHistory {
			content.WriteString("\n")
			content.WriteString(p.summary())
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle(name, p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *ResultsPanel) summary() string {
	winner, ok := p.round.Winner()
	if !ok {
		return ""
	}
	rank := p.round.Rank(p.round.Pick)
	line := fmt.Sprintf("Winner %s %s · your %s ranked #%d", winner.Key, styles.FormatPct(winner.ReturnPct), p.round.Pick, rank)
	if rank == 1 {
		return styles.WinStyle.Render("🏆 " + line)
	}
	return styles.LoseStyle.Render(line)
}

// SetFocus sets the focus state of the panel.
func (p *ResultsPanel) SetFocus(focused bool) {
	p.focused = focused
	if focused {
		p.table.Focus()
	} else {
		p.table.Blur()
	}
}

// SetSize sets the panel dimensions.
func (p *ResultsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	h := height - 6
	if h < 3 {
		h = 3
	}
	p.table.SetHeight(h)
	p.table.SetWidth(width - 4)
}

// SetRound shows the ranking of r.
func (p *ResultsPanel) SetRound(r game.Round) {
	p.round = r
	p.refresh()
}

// SetHistory sets the finished rounds (oldest first) and their tally.
func (p *ResultsPanel) SetHistory(records []game.Record, tally game.Tally) {
	p.history = records
	p.tally = tally
	p.refresh()
}

func (p *ResultsPanel) refresh() {
	if p.showHistory {
		p.table.SetRows(nil)
		p.table.SetColumns(historyColumns())
		p.table.SetRows(HistoryRows(p.history))
		return
	}
	p.table.SetRows(nil)
	p.table.SetColumns(resultColumns())
	p.table.SetRows(ResultRows(p.round))
}

// ResultRows renders a scored round as table rows, marking the player's pick
// and every rival's pick.
func ResultRows(r game.Round) []table.Row {
	owners := make(map[market.AssetKey][]string)
	if r.Pick != "" {
		owners[r.Pick] = append(owners[r.Pick], "you")
	}
	for _, rp := range r.RivalPicks {
		owners[rp.Key] = append(owners[rp.Key], rp.Name)
	}

	rows := make([]table.Row, 0, len(r.Results))
	for i, res := range r.Results {
		rows = append(rows, resultRow(i+1, res, strings.Join(owners[res.Key], ",")))
	}
	return rows
}

func resultRow(rank int, res scoring.Result, owner string) table.Row {
	return table.Row{
		fmt.Sprintf("%d", rank),
		string(res.Key),
		styles.FormatPct(res.ReturnPct),
		fmt.Sprintf("%.2f", res.VolatilityPct),
		fmt.Sprintf("%.2f", res.MaxDrawdownPct),
		fmt.Sprintf("%.2f", res.TrendStability),
		fmt.Sprintf("%.2f", res.Efficiency),
		fmt.Sprintf("%.1f", res.Score),
		owner,
	}
}

// HistoryRows renders finished rounds newest first.
func HistoryRows(records []game.Record) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		var rivals []string
		for j, rp := range rec.RivalPicks {
			rivals = append(rivals, fmt.Sprintf("%s %s #%d", rp.Name, rp.Key, rec.RivalRanks[j]))
		}
		rows = append(rows, table.Row{
			rec.RoundID.String()[:8],
			string(rec.Pick),
			fmt.Sprintf("#%d", rec.PickRank),
			string(rec.Winner.Key),
			styles.FormatPct(rec.Winner.ReturnPct),
			strings.Join(rivals, "; "),
		})
	}
	return rows
}
