package panels

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/zappabad/stockpick/internal/market"
	"github.com/zappabad/stockpick/internal/news"
	newsview "github.com/zappabad/stockpick/internal/news/view"
	"github.com/zappabad/stockpick/tui/styles"
)

// NewsPanel shows the running event and the recent headlines.
type NewsPanel struct {
	keys *KeyMap

	active    news.HistoryItem
	hasActive bool
	news      []news.HistoryItem // newest first
	now       time.Time

	selectedIndex int
	scrollOffset  int
	focused       bool
	width         int
	height        int
}

// NewNewsPanel creates a new news panel.
func NewNewsPanel(keys *KeyMap) *NewsPanel {
	return &NewsPanel{keys: keys}
}

// Init initializes the panel.
func (p *NewsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *NewsPanel) Update(msg tea.Msg) (*NewsPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, p.keys.Up):
			if p.selectedIndex > 0 {
				p.selectedIndex--
				if p.selectedIndex < p.scrollOffset {
					p.scrollOffset = p.selectedIndex
				}
			}
		case key.Matches(msg, p.keys.Down):
			if p.selectedIndex < len(p.news)-1 {
				p.selectedIndex++
				visible := p.visibleItems()
				if p.selectedIndex >= p.scrollOffset+visible {
					p.scrollOffset = p.selectedIndex - visible + 1
				}
			}
		}
	}
	return p, nil
}

func (p *NewsPanel) visibleItems() int {
	v := p.height - 8
	if v < 1 {
		v = 1
	}
	return v
}

// View renders the panel.
func (p *NewsPanel) View() string {
	var content strings.Builder

	if p.hasActive {
		ev := p.active.Event
		content.WriteString(styles.NewsActiveStyle.Render(truncate("● "+ev.Title, p.width-6)))
		content.WriteString("\n")
		content.WriteString(styles.TimeStyle.Render(fmt.Sprintf("  %s · %s left", ev.Press, ev.Remaining(p.now).Round(time.Second))))
		content.WriteString("\n  ")
		content.WriteString(FormatImpacts(p.active.Applied))
		content.WriteString("\n")
	} else {
		content.WriteString(styles.TimeStyle.Render("No headline is moving the market"))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	if len(p.news) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No news yet"))
	} else {
		visible := p.visibleItems()
		start := p.scrollOffset
		end := start + visible
		if end > len(p.news) {
			end = len(p.news)
		}

		for i := start; i < end; i++ {
			item := p.news[i]
			ago := humanize.RelTime(item.Event.StartTime, p.now, "ago", "from now")
			line := fmt.Sprintf("%s %s",
				styles.TimeStyle.Render(fmt.Sprintf("%-14s", ago)),
				styles.NewsNormalStyle.Render(truncate(item.Event.Title, p.width-22)))

			if i == p.selectedIndex && p.focused {
				line = styles.SelectedRowStyle.Render(line)
			}
			content.WriteString(line)
			if i < end-1 {
				content.WriteString("\n")
			}
		}

		if len(p.news) > visible {
			content.WriteString("\n")
			content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(
				fmt.Sprintf(" (%d/%d)", p.selectedIndex+1, len(p.news))))
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📰 News", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// FormatImpacts renders sampled impacts as "MWS +120% SHG -30%", strongest
// first.
func FormatImpacts(applied map[market.AssetKey]float64) string {
	keys := make([]market.AssetKey, 0, len(applied))
	for k := range applied {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if applied[keys[i]] != applied[keys[j]] {
			return applied[keys[i]] > applied[keys[j]]
		}
		return keys[i] < keys[j]
	})
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := applied[k]
		parts = append(parts, string(k)+" "+styles.ChangeStyle(v).Render(fmt.Sprintf("%+.0f%%", v)))
	}
	return strings.Join(parts, "  ")
}

func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// SetFocus sets the focus state of the panel.
func (p *NewsPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *NewsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetNews sets the running event and the headline history (newest first).
func (p *NewsPanel) SetNews(active news.HistoryItem, hasActive bool, items []news.HistoryItem, now time.Time) {
	p.active = active
	p.hasActive = hasActive
	p.news = items
	p.now = now
	if p.selectedIndex >= len(p.news) {
		p.selectedIndex = len(p.news) - 1
		if p.selectedIndex < 0 {
			p.selectedIndex = 0
		}
	}
}

// NewsUpdateMsg is sent when the news service publishes an event.
type NewsUpdateMsg struct {
	Event newsview.NewsEvent
}
