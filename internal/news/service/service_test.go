package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/zappabad/stockpick/internal/market"
	marketservice "github.com/zappabad/stockpick/internal/market/service"
	"github.com/zappabad/stockpick/internal/news"
	newsview "github.com/zappabad/stockpick/internal/news/view"
)

func shortCatalog() news.Catalog {
	return news.Catalog{{
		ID:          "flash",
		Press:       "Wire",
		Title:       "Flash headline",
		MinDuration: 150 * time.Millisecond,
		MaxDuration: 200 * time.Millisecond,
		Impacts: map[market.AssetKey]news.ImpactRange{
			market.KeyWTM: {Min: 10, Max: 25},
			market.KeySHG: {Min: -35, Max: -25},
		},
	}}
}

func newTestServices(t *testing.T) (*marketservice.MarketService, *NewsService) {
	t.Helper()
	mcfg := marketservice.DefaultConfig()
	mcfg.Manual = true
	mkt := marketservice.NewMarketService(market.DefaultSeeds(), mcfg, rand.New(rand.NewSource(1)))

	cfg := DefaultConfig()
	cfg.MinDelay = 10 * time.Millisecond
	cfg.MaxDelay = 20 * time.Millisecond
	cfg.PollInterval = 5 * time.Millisecond
	svc := NewNewsService(shortCatalog(), mkt, cfg, rand.New(rand.NewSource(2)))

	t.Cleanup(func() {
		svc.Close()
		mkt.Close()
	})
	return mkt, svc
}

func waitFor(t *testing.T, events <-chan newsview.NewsEvent, typ newsview.EventType) newsview.NewsEvent {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatal("events channel closed")
			}
			if ev.Type == typ {
				return ev
			}
		case <-timeout:
			t.Fatalf("timeout waiting for %s", typ)
		}
	}
}

func TestNewsServiceAppliesAndReverts(t *testing.T) {
	mkt, svc := newTestServices(t)

	applied := waitFor(t, svc.Events(), newsview.EventApplied)
	if applied.Item.Event.TemplateID != "flash" {
		t.Fatalf("unexpected template %q", applied.Item.Event.TemplateID)
	}

	wtm, err := mkt.Asset(market.KeyWTM)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pct := applied.Item.Applied[market.KeyWTM]
	if want := wtm.BaseDrift * (1 + pct/100); wtm.Drift != want {
		t.Errorf("expected drift %v while active, got %v", want, wtm.Drift)
	}

	reverted := waitFor(t, svc.Events(), newsview.EventReverted)
	if reverted.Item.Event.ID != applied.Item.Event.ID {
		t.Fatalf("expected %s reverted, got %s", applied.Item.Event.ID, reverted.Item.Event.ID)
	}

	for _, a := range mkt.Snapshot().Assets {
		if a.Drift != a.BaseDrift {
			t.Errorf("%s: drift %v not restored to %v", a.Key, a.Drift, a.BaseDrift)
		}
	}
	if svc.Latest(10)[0].Event.ID != applied.Item.Event.ID {
		t.Error("expected the event in history")
	}
}

func TestNewsServiceClear(t *testing.T) {
	mkt, svc := newTestServices(t)

	waitFor(t, svc.Events(), newsview.EventApplied)

	if err := svc.Clear(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := svc.Active(); ok {
		t.Error("expected no active event after Clear")
	}
	if n := len(svc.Latest(10)); n != 0 {
		t.Errorf("expected empty history after Clear, got %d", n)
	}
	for _, a := range mkt.Snapshot().Assets {
		if a.Drift != a.BaseDrift {
			t.Errorf("%s: drift not restored after Clear", a.Key)
		}
	}
}
