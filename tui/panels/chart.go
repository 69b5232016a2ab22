package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/stockpick/internal/market"
	"github.com/zappabad/stockpick/tui/styles"
)

// Candle aggregates a run of consecutive ticks.
type Candle struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
	// Index is the history offset of the candle's first tick.
	Index int
}

// BuildCandles groups history into candles of ticksPerCandle prices, oldest
// first. A trailing partial group becomes the last candle.
func BuildCandles(history []float64, ticksPerCandle int) []Candle {
	if ticksPerCandle < 1 {
		ticksPerCandle = 1
	}
	candles := make([]Candle, 0, len(history)/ticksPerCandle+1)
	for i := 0; i < len(history); i += ticksPerCandle {
		end := i + ticksPerCandle
		if end > len(history) {
			end = len(history)
		}
		c := Candle{Open: history[i], High: history[i], Low: history[i], Close: history[end-1], Index: i}
		for _, v := range history[i:end] {
			if v > c.High {
				c.High = v
			}
			if v < c.Low {
				c.Low = v
			}
		}
		candles = append(candles, c)
	}
	return candles
}

// PriceChartPanel draws a candlestick chart of one asset's history.
type PriceChartPanel struct {
	asset    market.Asset
	baseline float64 // price at pick time, 0 when no pick is held

	focused bool
	width   int
	height  int

	ticksPerCandle int
}

// NewPriceChartPanel creates a new chart panel.
func NewPriceChartPanel() *PriceChartPanel {
	return &PriceChartPanel{
		ticksPerCandle: 4,
	}
}

// Init initializes the panel.
func (p *PriceChartPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *PriceChartPanel) Update(msg tea.Msg) (*PriceChartPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *PriceChartPanel) View() string {
	name := "No asset"
	if p.asset.Key != "" {
		name = fmt.Sprintf("%s %s", p.asset.Key, p.asset.Name)
	}

	var content strings.Builder

	chartHeight := p.height - 6
	if chartHeight < 5 {
		chartHeight = 5
	}

	candles := BuildCandles(p.asset.History, p.ticksPerCandle)
	if len(candles) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No price data yet..."))
	} else {
		content.WriteString(p.renderChart(p.width-4, chartHeight, candles))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle(fmt.Sprintf("📉 Chart - %s", name), p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *PriceChartPanel) renderChart(width, height int, candles []Candle) string {
	// 9 chars of price axis plus separator
	chartWidth := width - 10
	if chartWidth < 10 {
		chartWidth = 10
	}

	// each candle is a glyph and a space
	toShow := chartWidth / 2
	if toShow < 1 {
		toShow = 1
	}
	if toShow > len(candles) {
		toShow = len(candles)
	}
	display := candles[len(candles)-toShow:]

	minPrice, maxPrice := display[0].Low, display[0].High
	for _, c := range display {
		if c.Low < minPrice {
			minPrice = c.Low
		}
		if c.High > maxPrice {
			maxPrice = c.High
		}
	}
	if p.baseline > 0 {
		if p.baseline < minPrice {
			minPrice = p.baseline
		}
		if p.baseline > maxPrice {
			maxPrice = p.baseline
		}
	}

	// 10% padding so wicks do not touch the border
	priceRange := maxPrice - minPrice
	if priceRange == 0 {
		priceRange = maxPrice * 0.01
		if priceRange == 0 {
			priceRange = 1
		}
	}
	minPrice -= priceRange * 0.1
	maxPrice += priceRange * 0.1

	rows := height - 2
	if rows < 5 {
		rows = 5
	}
	baseRow := -1
	if p.baseline > 0 {
		baseRow = priceToRow(p.baseline, minPrice, maxPrice, rows)
	}

	var result strings.Builder
	for row := 0; row < rows; row++ {
		price := rowToPrice(row, minPrice, maxPrice, rows)
		result.WriteString(styles.ChartAxisStyle.Render(fmt.Sprintf("%8s │", styles.FormatPrice(price))))

		for _, c := range display {
			ch := candleChar(c, row, minPrice, maxPrice, rows)
			style := styles.CandleUpStyle
			if c.Close < c.Open {
				style = styles.CandleDownStyle
			}
			if ch == ' ' && row == baseRow {
				result.WriteString(styles.PickStyle.Render("┄┄"))
				continue
			}
			result.WriteString(style.Render(string(ch)))
			if row == baseRow {
				result.WriteString(styles.PickStyle.Render("┄"))
			} else {
				result.WriteString(" ")
			}
		}
		result.WriteString("\n")
	}

	result.WriteString(styles.ChartAxisStyle.Render("─────────┴" + strings.Repeat("──", len(display))))
	result.WriteString("\n")
	result.WriteString(styles.ChartLabelStyle.Render(fmt.Sprintf("          %d ticks/candle, last %s",
		p.ticksPerCandle, styles.FormatPrice(p.asset.Price))))

	return result.String()
}

// candleChar returns the glyph for candle c at a given row.
func candleChar(c Candle, row int, minPrice, maxPrice float64, rows int) rune {
	rowPrice := rowToPrice(row, minPrice, maxPrice, rows)

	bodyTop, bodyBottom := c.Open, c.Close
	if c.Close > c.Open {
		bodyTop, bodyBottom = c.Close, c.Open
	}

	// half a row of tolerance when mapping prices to discrete rows
	tol := (maxPrice - minPrice) / float64(rows*2)

	if rowPrice <= bodyTop+tol && rowPrice >= bodyBottom-tol {
		return '┃'
	}
	if rowPrice <= c.High+tol && rowPrice > bodyTop {
		return '│'
	}
	if rowPrice >= c.Low-tol && rowPrice < bodyBottom {
		return '│'
	}
	return ' '
}

func priceToRow(price, minPrice, maxPrice float64, rows int) int {
	if maxPrice == minPrice {
		return rows / 2
	}
	ratio := (maxPrice - price) / (maxPrice - minPrice)
	y := int(ratio*float64(rows-1) + 0.5)
	if y < 0 {
		y = 0
	}
	if y >= rows {
		y = rows - 1
	}
	return y
}

func rowToPrice(row int, minPrice, maxPrice float64, rows int) float64 {
	if rows <= 1 {
		return minPrice
	}
	ratio := float64(row) / float64(rows-1)
	return maxPrice - ratio*(maxPrice-minPrice)
}

// SetFocus sets the focus state of the panel.
func (p *PriceChartPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *PriceChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetAsset sets the asset to chart.
func (p *PriceChartPanel) SetAsset(a market.Asset) {
	p.asset = a
}

// SetBaseline draws a marker line at price; 0 hides it.
func (p *PriceChartPanel) SetBaseline(price float64) {
	p.baseline = price
}

// Asset returns the charted asset.
func (p *PriceChartPanel) Asset() market.Asset {
	return p.asset
}
