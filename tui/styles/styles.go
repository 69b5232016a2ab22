package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Color palette
var (
	// Primary colors
	PrimaryColor   = lipgloss.Color("#7C3AED") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	AccentColor    = lipgloss.Color("#F59E0B") // Amber

	// Status colors
	UpColor      = lipgloss.Color("#10B981") // Green
	DownColor    = lipgloss.Color("#EF4444") // Red
	NeutralColor = lipgloss.Color("#6B7280") // Gray

	// Background colors
	BackgroundColor      = lipgloss.Color("#1F2937")
	PanelBackgroundColor = lipgloss.Color("#111827")
	BorderColor          = lipgloss.Color("#374151")
	FocusBorderColor     = lipgloss.Color("#7C3AED")

	// Text colors
	TextColor          = lipgloss.Color("#F9FAFB")
	TextSecondaryColor = lipgloss.Color("#9CA3AF")
	TextMutedColor     = lipgloss.Color("#6B7280")
)

// Panel styles
var (
	// Base panel style
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	// Focused panel style
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(FocusBorderColor).
				Padding(0, 1)

	// Panel title style
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	// Header row style
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextSecondaryColor)

	// Row styles
	RowStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(lipgloss.Color("#374151"))
)

// Text styles
var (
	UpStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(UpColor)

	DownStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(DownColor)

	// Price styles
	PriceStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	PriceUpStyle = lipgloss.NewStyle().
			Foreground(UpColor)

	PriceDownStyle = lipgloss.NewStyle().
			Foreground(DownColor)

	// Muted figures (volatility, drawdown)
	StatStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)

	// Timestamp style
	TimeStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	// News styles
	NewsNormalStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	NewsActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)

	// Markers for the player's pick and the live leader
	PickStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)

	LeaderStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)
)

// Signal styles
var (
	BullishStyle = lipgloss.NewStyle().Foreground(UpColor)
	NeutralStyle = lipgloss.NewStyle().Foreground(AccentColor)
	CautionStyle = lipgloss.NewStyle().Foreground(DownColor)
)

// Phase banner styles
var (
	PhaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 1)

	CountdownStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)

	WinStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(UpColor)

	LoseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(DownColor)
)

// Chart styles
var (
	CandleUpStyle = lipgloss.NewStyle().
			Foreground(UpColor)

	CandleDownStyle = lipgloss.NewStyle().
			Foreground(DownColor)

	ChartAxisStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	ChartLabelStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(BackgroundColor).
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	StatusBarDescStyle = lipgloss.NewStyle().
				Foreground(TextSecondaryColor)
)

// Helper function to render a title bar for a panel
func RenderTitle(title string, focused bool) string {
	style := TitleStyle
	if focused {
		style = style.Foreground(FocusBorderColor)
	}
	return style.Render(title)
}

// FormatPrice renders a price at fixed two-decimal precision.
func FormatPrice(price float64) string {
	return decimal.NewFromFloat(price).StringFixed(2)
}

// FormatPct renders a signed percentage, e.g. "+1.25%".
func FormatPct(pct float64) string {
	d := decimal.NewFromFloat(pct).Round(2)
	sign := ""
	if d.IsPositive() {
		sign = "+"
	}
	return sign + d.StringFixed(2) + "%"
}

// ChangeStyle picks the up, down or neutral price style for a change.
func ChangeStyle(change float64) lipgloss.Style {
	switch {
	case change > 0:
		return PriceUpStyle
	case change < 0:
		return PriceDownStyle
	default:
		return PriceStyle
	}
}
