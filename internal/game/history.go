package game

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zappabad/stockpick/internal/market"
	"github.com/zappabad/stockpick/internal/rival"
	"github.com/zappabad/stockpick/internal/scoring"
)

// Record is a finished round as kept in the history.
type Record struct {
	RoundID    uuid.UUID
	Finished   time.Time
	Pick       market.AssetKey
	PickRank   int
	Winner     scoring.Result
	RivalPicks []rival.Pick
	RivalRanks []int
}

// Won reports whether the player's pick finished first.
func (r Record) Won() bool { return r.PickRank == 1 }

func newRecord(r Round, finished time.Time) Record {
	rec := Record{
		RoundID:    r.ID,
		Finished:   finished,
		Pick:       r.Pick,
		PickRank:   r.Rank(r.Pick),
		RivalPicks: append([]rival.Pick(nil), r.RivalPicks...),
	}
	rec.Winner, _ = r.Winner()
	for _, p := range r.RivalPicks {
		rec.RivalRanks = append(rec.RivalRanks, r.Rank(p.Key))
	}
	return rec
}

// history is a bounded list of finished rounds, oldest evicted first.
type history struct {
	mu       sync.RWMutex
	records  []Record
	capacity int
}

func newHistory(capacity int) *history {
	if capacity <= 0 {
		capacity = 20
	}
	return &history{
		records:  make([]Record, 0, capacity),
		capacity: capacity,
	}
}

func (h *history) add(rec Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.records) >= h.capacity {
		h.records = h.records[1:]
	}
	h.records = append(h.records, rec)
}

// all returns a copy, oldest first.
func (h *history) all() []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

func (h *history) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = h.records[:0]
}

// Tally is the win count over the remembered rounds.
type Tally struct {
	Rounds int
	Wins   int
	// RivalWins counts rounds in which each rival's pick finished first, by
	// rival name.
	RivalWins map[string]int
}

func (h *history) tally() Tally {
	h.mu.RLock()
	defer h.mu.RUnlock()

	t := Tally{Rounds: len(h.records), RivalWins: make(map[string]int)}
	for _, rec := range h.records {
		if rec.Won() {
			t.Wins++
		}
		for i, p := range rec.RivalPicks {
			if rec.RivalRanks[i] == 1 {
				t.RivalWins[p.Name]++
			}
		}
	}
	return t
}
