package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zappabad/stockpick/internal/logger"
	"github.com/zappabad/stockpick/internal/news"
	"github.com/zappabad/stockpick/internal/news/scheduler"
	newsview "github.com/zappabad/stockpick/internal/news/view"
)

var ErrClosed = errors.New("news service closed")

type clearCmd struct {
	respCh chan<- error
}

// NewsService drives the event scheduler on a timer and keeps the display
// history. The scheduling driver is owned by the service goroutine.
type NewsService struct {
	cfg    Config
	driver *scheduler.Driver
	market scheduler.Mutator
	view   *newsview.NewsView

	cmdCh          chan clearCmd
	externalEvents chan newsview.NewsEvent
	droppedEvents  atomic.Int64

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewNewsService creates a NewsService publishing events from catalog into
// the market behind m. A nil rng is replaced by a time-seeded source.
func NewNewsService(catalog news.Catalog, m scheduler.Mutator, cfg Config, rng scheduler.Rand) *NewsService {
	def := DefaultConfig()
	if cfg.MinDelay <= 0 {
		cfg.MinDelay = def.MinDelay
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = def.HistorySize
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

	s := &NewsService{
		cfg:            cfg,
		driver:         scheduler.NewDriver(catalog, rng, cfg.MinDelay, cfg.MaxDelay),
		market:         m,
		view:           newsview.NewNewsView(cfg.HistorySize),
		cmdCh:          make(chan clearCmd, cfg.CommandBuffer),
		externalEvents: make(chan newsview.NewsEvent, cfg.ExternalEventBuffer),
		closed:         make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()

	return s
}

func (s *NewsService) run() {
	defer s.wg.Done()
	defer close(s.externalEvents)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	s.poll(time.Now())

	for {
		select {
		case <-s.closed:
			return
		case now := <-ticker.C:
			s.poll(now)
		case cmd := <-s.cmdCh:
			cmd.respCh <- s.clear()
		}
	}
}

func (s *NewsService) poll(now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PollInterval)
	defer cancel()

	tr, err := s.driver.Poll(ctx, now, s.market)
	if err != nil {
		logger.Warn("news poll failed: %v", err)
		return
	}
	switch {
	case tr.Applied != nil:
		logger.Info("news %s applied for %s: %v", tr.Applied.Event.ID, tr.Applied.Event.Duration.Round(time.Millisecond), tr.Applied.Applied)
		s.publish(newsview.NewsEvent{Type: newsview.EventApplied, Item: *tr.Applied, Time: now.UnixNano()})
	case tr.Reverted != nil:
		logger.Debug("news %s reverted", tr.Reverted.Event.ID)
		s.publish(newsview.NewsEvent{Type: newsview.EventReverted, Item: *tr.Reverted, Time: now.UnixNano()})
	}
}

func (s *NewsService) clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	item, err := s.driver.Clear(ctx, s.market)
	if err != nil {
		return err
	}
	ev := newsview.NewsEvent{Type: newsview.EventCleared, Time: time.Now().UnixNano()}
	if item != nil {
		ev.Item = *item
	}
	s.publish(ev)
	return nil
}

func (s *NewsService) publish(ev newsview.NewsEvent) {
	// Always update view (authoritative)
	s.view.Apply(ev)

	if s.cfg.BlockExternalEvents {
		select {
		case s.externalEvents <- ev:
		case <-s.closed:
		}
	} else {
		select {
		case s.externalEvents <- ev:
		default:
			s.droppedEvents.Add(1)
		}
	}
}

// Clear reverts the active event, empties the history and restarts the
// schedule.
func (s *NewsService) Clear(ctx context.Context) error {
	respCh := make(chan error, 1)

	select {
	case <-s.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case s.cmdCh <- clearCmd{respCh: respCh}:
	}

	// once queued the clear runs; wait for its outcome
	select {
	case <-s.closed:
		return ErrClosed
	case err := <-respCh:
		return err
	}
}

// Active returns the currently applied event, if any.
func (s *NewsService) Active() (news.HistoryItem, bool) {
	return s.view.Active()
}

// Latest returns the last n events, newest first.
func (s *NewsService) Latest(n int) []news.HistoryItem {
	return s.view.Latest(n)
}

// Events returns the external events channel for subscribers.
func (s *NewsService) Events() <-chan newsview.NewsEvent {
	return s.externalEvents
}

// DroppedEvents returns the count of dropped external events.
func (s *NewsService) DroppedEvents() int64 {
	return s.droppedEvents.Load()
}

// Close stops the polling loop. Pending timers are cancelled; the active
// event, if any, is left applied.
func (s *NewsService) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	s.wg.Wait()
}
