package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/stockpick/internal/analysis"
	"github.com/zappabad/stockpick/internal/market"
	marketview "github.com/zappabad/stockpick/internal/market/view"
	"github.com/zappabad/stockpick/tui/styles"
)

// MarketOverviewPanel lists every asset with its price, rolling stats and
// short-window signal.
type MarketOverviewPanel struct {
	keys     *KeyMap
	assets   []market.Asset
	insights map[market.AssetKey]analysis.Insight

	pick   market.AssetKey
	leader market.AssetKey

	selectedIndex int
	focused       bool
	width         int
	height        int
}

// NewMarketOverviewPanel creates a new market overview panel.
func NewMarketOverviewPanel(keys *KeyMap) *MarketOverviewPanel {
	return &MarketOverviewPanel{
		keys:     keys,
		insights: make(map[market.AssetKey]analysis.Insight),
	}
}

// Init initializes the panel.
func (p *MarketOverviewPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *MarketOverviewPanel) Update(msg tea.Msg) (*MarketOverviewPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, p.keys.Up):
			if p.selectedIndex > 0 {
				p.selectedIndex--
			}
		case key.Matches(msg, p.keys.Down):
			if p.selectedIndex < len(p.assets)-1 {
				p.selectedIndex++
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *MarketOverviewPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("  %-4s %-17s %9s %9s %7s %7s %-8s",
		"Key", "Name", "Price", "Return", "Vol", "DD", "Signal")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	for i, a := range p.assets {
		marker := "  "
		switch a.Key {
		case p.pick:
			marker = styles.PickStyle.Render("★ ")
		case p.leader:
			marker = styles.LeaderStyle.Render("▲ ")
		}

		name := a.Name
		if len(name) > 17 {
			name = name[:16] + "…"
		}

		in := p.insights[a.Key]
		row := fmt.Sprintf("%-4s %-17s %9s %s %7.2f %s %s",
			a.Key,
			name,
			styles.FormatPrice(a.Price),
			styles.ChangeStyle(a.ReturnPct).Render(fmt.Sprintf("%9s", styles.FormatPct(a.ReturnPct))),
			a.Volatility,
			styles.StatStyle.Render(fmt.Sprintf("%6.2f%%", a.Drawdown)),
			signalStyle(in.Signal).Render(fmt.Sprintf("%-8s", in.Signal)),
		)

		if i == p.selectedIndex && p.focused {
			row = styles.SelectedRowStyle.Render(row)
		} else {
			row = styles.RowStyle.Render(row)
		}
		content.WriteString(marker + row)
		if i < len(p.assets)-1 {
			content.WriteString("\n")
		}
	}

	if sel, ok := p.Selected(); ok {
		if in, ok := p.insights[sel.Key]; ok {
			content.WriteString("\n\n")
			content.WriteString(styles.StatStyle.Render(fmt.Sprintf(
				"%s  momentum %s  risk %s  volume %.1f",
				sel.Key, styles.FormatPct(in.MomentumPct), in.Risk, in.Volume)))
			content.WriteString("\n")
			content.WriteString(signalStyle(in.Signal).Render(in.Comment))
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📈 Market Overview", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func signalStyle(s analysis.Signal) lipgloss.Style {
	switch s {
	case analysis.Bullish:
		return styles.BullishStyle
	case analysis.Caution:
		return styles.CautionStyle
	default:
		return styles.NeutralStyle
	}
}

// SetFocus sets the focus state of the panel.
func (p *MarketOverviewPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *MarketOverviewPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSnapshot replaces the displayed assets and recomputes their insights.
func (p *MarketOverviewPanel) SetSnapshot(snap marketview.Snapshot) {
	p.assets = snap.Assets
	for _, a := range p.assets {
		p.insights[a.Key] = analysis.Analyze(a)
	}
	if p.selectedIndex >= len(p.assets) {
		p.selectedIndex = 0
	}
}

// SetMarks highlights the player's pick and the current leader.
func (p *MarketOverviewPanel) SetMarks(pick, leader market.AssetKey) {
	p.pick = pick
	p.leader = leader
}

// Select moves the cursor to the asset at index i.
func (p *MarketOverviewPanel) Select(i int) {
	if i >= 0 && i < len(p.assets) {
		p.selectedIndex = i
	}
}

// Selected returns the asset under the cursor.
func (p *MarketOverviewPanel) Selected() (market.Asset, bool) {
	if p.selectedIndex >= 0 && p.selectedIndex < len(p.assets) {
		return p.assets[p.selectedIndex], true
	}
	return market.Asset{}, false
}

// MarketUpdateMsg is sent when the market publishes an event.
type MarketUpdateMsg struct {
	Event marketview.Event
}
