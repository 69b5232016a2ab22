package scheduler

import (
	"context"
	"time"

	"github.com/zappabad/stockpick/internal/market"
	"github.com/zappabad/stockpick/internal/news"
)

// Mutator executes drift changes against the owner of the asset collection.
type Mutator interface {
	Mutate(ctx context.Context, fn func(*market.Assets) []market.AssetKey) error
	Keys() []market.AssetKey
}

// Transition reports what a Poll did. At most one field is set.
type Transition struct {
	Applied  *news.HistoryItem
	Reverted *news.HistoryItem
}

// Driver is the clock-less scheduling policy: one active event at a time,
// a randomized delay between the end of one event and the start of the next.
// It is not safe for concurrent use.
type Driver struct {
	catalog  news.Catalog
	rng      Rand
	minDelay time.Duration
	maxDelay time.Duration

	active *news.HistoryItem
	nextAt time.Time
}

// NewDriver creates a Driver. The first event is scheduled on the first Poll.
func NewDriver(catalog news.Catalog, rng Rand, minDelay, maxDelay time.Duration) *Driver {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Driver{
		catalog:  catalog,
		rng:      rng,
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

// Active returns the currently applied event.
func (d *Driver) Active() (news.HistoryItem, bool) {
	if d.active == nil {
		return news.HistoryItem{}, false
	}
	return *d.active, true
}

// NextAt returns when the next event will be created. Zero until scheduled.
func (d *Driver) NextAt() time.Time {
	return d.nextAt
}

func (d *Driver) delay() time.Duration {
	secs := Uniform(d.rng, d.minDelay.Seconds(), d.maxDelay.Seconds())
	return time.Duration(secs * float64(time.Second))
}

// Poll advances the policy to now. An expired event is reverted and the next
// one scheduled; with nothing active and the delay elapsed, a new event is
// created and applied.
func (d *Driver) Poll(ctx context.Context, now time.Time, m Mutator) (Transition, error) {
	if d.active != nil {
		if !d.active.Event.Expired(now) {
			return Transition{}, nil
		}
		ev := d.active.Event
		order := m.Keys()
		err := m.Mutate(ctx, func(as *market.Assets) []market.AssetKey {
			return Revert(ev, as, order)
		})
		if err != nil {
			return Transition{}, err
		}
		item := *d.active
		d.active = nil
		d.nextAt = now.Add(d.delay())
		return Transition{Reverted: &item}, nil
	}

	if d.nextAt.IsZero() {
		d.nextAt = now.Add(d.delay())
		return Transition{}, nil
	}
	if now.Before(d.nextAt) {
		return Transition{}, nil
	}

	ev := CreateEvent(d.catalog, now, d.rng)
	order := m.Keys()
	var applied map[market.AssetKey]float64
	err := m.Mutate(ctx, func(as *market.Assets) []market.AssetKey {
		applied = Apply(ev, as, order, d.rng)
		return ev.Keys(order)
	})
	if err != nil {
		return Transition{}, err
	}
	d.active = &news.HistoryItem{Event: ev, Applied: applied}
	item := *d.active
	return Transition{Applied: &item}, nil
}

// Clear reverts the active event, if any, and restarts the schedule from
// scratch on the next Poll.
func (d *Driver) Clear(ctx context.Context, m Mutator) (*news.HistoryItem, error) {
	d.nextAt = time.Time{}
	if d.active == nil {
		return nil, nil
	}
	ev := d.active.Event
	order := m.Keys()
	err := m.Mutate(ctx, func(as *market.Assets) []market.AssetKey {
		return Revert(ev, as, order)
	})
	if err != nil {
		return nil, err
	}
	item := *d.active
	d.active = nil
	return &item, nil
}
