package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zappabad/stockpick/internal/game"
)

func newTestModel(t *testing.T) (*Model, *time.Time) {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.MarketConfig.Manual = true
	cfg.DisableNews = true
	cfg.RandSeed = 3
	g, err := game.NewGame(cfg)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(g.Close)

	now := time.Unix(10_000, 0)
	m := NewModel(g)
	m.now = func() time.Time { return now }
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 48})
	return m, &now
}

func press(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestModelPlaysRound(t *testing.T) {
	m, now := newTestModel(t)

	press(m, "s")
	if got := m.game.Round().Phase; got != game.PhaseThinking {
		t.Fatalf("phase after start = %s", got)
	}

	press(m, "2")
	r := m.game.Round()
	if r.Phase != game.PhaseEvaluating {
		t.Fatalf("phase after pick = %s", r.Phase)
	}
	if want := m.game.Market.Keys()[1]; r.Pick != want {
		t.Errorf("picked %s, want %s", r.Pick, want)
	}

	*now = now.Add(m.game.Config().EvalWindow)
	m.Update(tickMsg{})
	if got := m.game.Round().Phase; got != game.PhaseResult {
		t.Fatalf("phase after countdown = %s", got)
	}
	if m.focusedPanel != FocusResults {
		t.Errorf("results panel not focused")
	}
	if m.View() == "" {
		t.Error("empty view")
	}

	press(m, "r")
	if got := m.game.Round().Phase; got != game.PhaseAnalysis {
		t.Errorf("phase after restart = %s", got)
	}
}

func TestModelPickOutsideWindow(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "1")
	if m.game.Round().Phase != game.PhaseAnalysis {
		t.Fatal("pick accepted outside the pick window")
	}
	if m.statusMsg == "" {
		t.Error("expected an error in the status bar")
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
