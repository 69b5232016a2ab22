package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/zappabad/stockpick/internal/market"
	"github.com/zappabad/stockpick/internal/rival"
	"github.com/zappabad/stockpick/internal/scoring"
)

// Phase is the stage of the round flow.
type Phase int

const (
	PhaseAnalysis Phase = iota
	PhaseThinking
	PhaseEvaluating
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseAnalysis:
		return "analysis"
	case PhaseThinking:
		return "thinking"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseResult:
		return "result"
	default:
		return "unknown"
	}
}

// Round is the state of the current round. The zero Round is the analysis
// phase with no round in progress.
type Round struct {
	ID       uuid.UUID
	Phase    Phase
	Started  time.Time
	Deadline time.Time

	Pick       market.AssetKey
	PickedAt   time.Time
	Snapshot   scoring.Snapshot
	RivalPicks []rival.Pick

	Results []scoring.Result
}

// Remaining returns the time left on the current countdown.
func (r Round) Remaining(now time.Time) time.Duration {
	if r.Deadline.IsZero() {
		return 0
	}
	if d := r.Deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Winner returns the top-ranked asset of a finished round.
func (r Round) Winner() (scoring.Result, bool) {
	if len(r.Results) == 0 {
		return scoring.Result{}, false
	}
	return r.Results[0], true
}

// Rank returns the 1-based position of key in the results, or 0.
func (r Round) Rank(key market.AssetKey) int {
	for i, res := range r.Results {
		if res.Key == key {
			return i + 1
		}
	}
	return 0
}

func (r Round) clone() Round {
	out := r
	out.RivalPicks = append([]rival.Pick(nil), r.RivalPicks...)
	out.Results = append([]scoring.Result(nil), r.Results...)
	return out
}
