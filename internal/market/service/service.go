package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zappabad/stockpick/internal/logger"
	"github.com/zappabad/stockpick/internal/market"
	"github.com/zappabad/stockpick/internal/market/core"
	marketview "github.com/zappabad/stockpick/internal/market/view"
)

var (
	ErrClosed       = errors.New("market service closed")
	ErrUnknownAsset = errors.New("unknown asset")
)

// command types
type cmdType int

const (
	cmdMutate cmdType = iota
	cmdStep
	cmdReset
)

type command struct {
	typ    cmdType
	mutate func(*market.Assets) []market.AssetKey
	steps  int
	respCh chan<- struct{}
}

// MarketService owns the asset collection. Every write (ticks, drift
// overrides, resets) runs on a single goroutine; reads go through the view.
type MarketService struct {
	cfg   Config
	seeds []market.Seed
	rng   core.Rand

	// owned by the command loop
	assets *market.Assets
	tick   int64

	view *marketview.MarketView

	cmdCh           chan command
	externalEvents  chan marketview.Event
	droppedExternal atomic.Int64

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewMarketService creates a MarketService for the given seeds. A nil rng is
// replaced by a time-seeded source.
func NewMarketService(seeds []market.Seed, cfg Config, rng core.Rand) *MarketService {
	def := DefaultConfig()
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = def.MaxHistory
	}
	if cfg.WarmupHistory <= 0 {
		cfg.WarmupHistory = def.WarmupHistory
	}
	if cfg.WarmupHistory > cfg.MaxHistory {
		cfg.WarmupHistory = cfg.MaxHistory
	}
	if cfg.CommandBuffer <= 0 {
		cfg.CommandBuffer = def.CommandBuffer
	}
	if cfg.ExternalEventBuffer <= 0 {
		cfg.ExternalEventBuffer = def.ExternalEventBuffer
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &MarketService{
		cfg:            cfg,
		seeds:          append([]market.Seed(nil), seeds...),
		rng:            rng,
		assets:         market.NewAssets(seeds, cfg.WarmupHistory),
		view:           marketview.NewMarketView(),
		cmdCh:          make(chan command, cfg.CommandBuffer),
		externalEvents: make(chan marketview.Event, cfg.ExternalEventBuffer),
		closed:         make(chan struct{}),
	}
	s.view.Publish(0, time.Now().UnixNano(), s.assets)

	s.wg.Add(1)
	go s.run()

	return s
}

func (s *MarketService) run() {
	defer s.wg.Done()
	defer close(s.externalEvents)

	var tickC <-chan time.Time
	if !s.cfg.Manual {
		ticker := time.NewTicker(s.cfg.TickInterval)
		defer ticker.Stop()
		tickC = ticker.C
	}

	for {
		select {
		case <-s.closed:
			return
		case <-tickC:
			s.advanceAll()
		case cmd := <-s.cmdCh:
			s.processCommand(cmd)
		}
	}
}

func (s *MarketService) processCommand(cmd command) {
	switch cmd.typ {
	case cmdMutate:
		keys := cmd.mutate(s.assets)
		now := time.Now().UnixNano()
		s.view.Publish(s.tick, now, s.assets)
		s.emitEvent(marketview.DriftEvent{Keys: keys, Time: now})

	case cmdStep:
		for i := 0; i < cmd.steps; i++ {
			s.advanceAll()
		}

	case cmdReset:
		s.assets = market.NewAssets(s.seeds, s.cfg.WarmupHistory)
		s.tick = 0
		now := time.Now().UnixNano()
		s.view.Publish(s.tick, now, s.assets)
		s.emitEvent(marketview.ResetEvent{Time: now})
		logger.Info("market reset to %d seed assets", s.assets.Len())
	}

	if cmd.respCh != nil {
		close(cmd.respCh)
	}
}

func (s *MarketService) advanceAll() {
	s.assets.Each(func(a *market.Asset) {
		core.Advance(a, s.rng, s.cfg.MaxHistory)
	})
	s.tick++
	now := time.Now().UnixNano()
	s.view.Publish(s.tick, now, s.assets)
	s.emitEvent(marketview.TickEvent{Tick: s.tick, Time: now})
}

func (s *MarketService) emitEvent(ev marketview.Event) {
	if s.cfg.BlockExternalEvents {
		select {
		case s.externalEvents <- ev:
		case <-s.closed:
		}
	} else {
		select {
		case s.externalEvents <- ev:
		default:
			s.droppedExternal.Add(1)
		}
	}
}

// send queues cmd and waits until the command loop has executed it. ctx only
// bounds the wait for a queue slot: a queued command always runs, so the
// caller waits for it rather than report a failure for a change that lands.
func (s *MarketService) send(ctx context.Context, cmd command) error {
	respCh := make(chan struct{})
	cmd.respCh = respCh

	select {
	case <-s.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case s.cmdCh <- cmd:
	}

	select {
	case <-s.closed:
		return ErrClosed
	case <-respCh:
		return nil
	}
}

// Mutate runs fn on the command loop with exclusive access to the assets.
// fn returns the keys it touched, reported in the resulting DriftEvent. A nil
// error means fn ran; an error means it never will.
func (s *MarketService) Mutate(ctx context.Context, fn func(*market.Assets) []market.AssetKey) error {
	return s.send(ctx, command{typ: cmdMutate, mutate: fn})
}

// Step advances every asset n ticks immediately, independent of the timer.
func (s *MarketService) Step(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	return s.send(ctx, command{typ: cmdStep, steps: n})
}

// Reset reinitializes every asset to its seed state.
func (s *MarketService) Reset(ctx context.Context) error {
	return s.send(ctx, command{typ: cmdReset})
}

// Snapshot returns the current state of every asset.
func (s *MarketService) Snapshot() marketview.Snapshot {
	return s.view.Snapshot()
}

// Asset returns the current state of one asset.
func (s *MarketService) Asset(key market.AssetKey) (market.Asset, error) {
	a, ok := s.view.Asset(key)
	if !ok {
		return market.Asset{}, ErrUnknownAsset
	}
	return a, nil
}

// Keys returns every asset key in iteration order.
func (s *MarketService) Keys() []market.AssetKey {
	return s.view.Keys()
}

// TickInterval returns the effective tick interval.
func (s *MarketService) TickInterval() time.Duration {
	return s.cfg.TickInterval
}

// Events returns the external events channel for subscribers.
func (s *MarketService) Events() <-chan marketview.Event {
	return s.externalEvents
}

// DroppedEvents returns the count of dropped external events.
func (s *MarketService) DroppedEvents() int64 {
	return s.droppedExternal.Load()
}

// Close stops the tick loop and waits for it to finish.
func (s *MarketService) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	s.wg.Wait()
}
