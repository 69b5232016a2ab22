package scheduler

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/zappabad/stockpick/internal/market"
	"github.com/zappabad/stockpick/internal/news"
)

func TestCreateEventWithinTemplateRange(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	catalog := news.DefaultCatalog()
	now := time.Unix(1700000000, 0)

	byID := make(map[string]news.Template, len(catalog))
	for _, tpl := range catalog {
		byID[tpl.ID] = tpl
	}

	for i := 0; i < 200; i++ {
		ev := CreateEvent(catalog, now, rng)
		tpl, ok := byID[ev.TemplateID]
		if !ok {
			t.Fatalf("event from unknown template %q", ev.TemplateID)
		}
		if ev.Duration < tpl.MinDuration || ev.Duration > tpl.MaxDuration {
			t.Fatalf("%s: duration %v outside %v..%v", tpl.ID, ev.Duration, tpl.MinDuration, tpl.MaxDuration)
		}
		if !ev.EndTime.Equal(ev.StartTime.Add(ev.Duration)) {
			t.Fatalf("%s: end time is not start + duration", tpl.ID)
		}
		if !strings.HasPrefix(ev.ID, tpl.ID+"-") {
			t.Fatalf("unexpected event id %q", ev.ID)
		}
	}
}

func TestApplyOverridesDriftWithinRange(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	assets := market.NewAssets(market.DefaultSeeds(), 1)
	ev := news.Event{
		ID: "x-1",
		Impacts: map[market.AssetKey]news.ImpactRange{
			market.KeyWTM: {Min: 10, Max: 25},
			market.KeySHG: {Min: -35, Max: -25},
		},
	}

	applied := Apply(ev, assets, assets.Keys(), rng)

	if len(applied) != 2 {
		t.Fatalf("expected 2 applied impacts, got %d", len(applied))
	}
	for k, pct := range applied {
		r := ev.Impacts[k]
		if pct < r.Min || pct > r.Max {
			t.Errorf("%s: sampled %v outside [%v, %v]", k, pct, r.Min, r.Max)
		}
		a, _ := assets.Get(k)
		want := a.BaseDrift * (1 + pct/100)
		if a.Drift != want {
			t.Errorf("%s: expected drift %v, got %v", k, want, a.Drift)
		}
	}

	untouched, _ := assets.Get(market.KeyCSI)
	if untouched.Drift != untouched.BaseDrift {
		t.Errorf("expected untouched asset to keep its base drift")
	}
}

func TestApplyRevertRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	assets := market.NewAssets(market.DefaultSeeds(), 1)
	catalog := news.DefaultCatalog()

	for i := 0; i < 50; i++ {
		ev := CreateEvent(catalog, time.Now(), rng)
		Apply(ev, assets, assets.Keys(), rng)
		Revert(ev, assets, assets.Keys())

		assets.Each(func(a *market.Asset) {
			if a.Drift != a.BaseDrift {
				t.Fatalf("%s after %s: drift %v != base %v", a.Key, ev.TemplateID, a.Drift, a.BaseDrift)
			}
		})
	}
}

func TestApplyDoesNotStack(t *testing.T) {
	assets := market.NewAssets(market.DefaultSeeds(), 1)
	fixed := news.Event{Impacts: map[market.AssetKey]news.ImpactRange{market.KeyWTM: {Min: 50, Max: 50}}}
	rng := rand.New(rand.NewSource(1))

	Apply(fixed, assets, assets.Keys(), rng)
	Apply(fixed, assets, assets.Keys(), rng)

	a, _ := assets.Get(market.KeyWTM)
	if want := a.BaseDrift * 1.5; a.Drift != want {
		t.Errorf("expected overwrite to %v, got %v", want, a.Drift)
	}
}

func TestApplySkipsUnknownAssets(t *testing.T) {
	assets := market.NewAssets(market.DefaultSeeds()[:1], 1)
	ev := news.Event{Impacts: map[market.AssetKey]news.ImpactRange{
		market.KeyWTM: {Min: 10, Max: 10},
		"GHOST":       {Min: 10, Max: 10},
	}}

	applied := Apply(ev, assets, []market.AssetKey{market.KeyWTM, "GHOST"}, rand.New(rand.NewSource(1)))
	if _, ok := applied["GHOST"]; ok {
		t.Error("expected unknown asset to be skipped")
	}
	if keys := Revert(ev, assets, []market.AssetKey{market.KeyWTM, "GHOST"}); len(keys) != 1 {
		t.Errorf("expected 1 reverted key, got %v", keys)
	}
}

func TestRevertFollowsOrder(t *testing.T) {
	assets := market.NewAssets(market.DefaultSeeds(), 1)
	ev := news.Event{Impacts: map[market.AssetKey]news.ImpactRange{
		market.KeyMWS: {Min: 10, Max: 10},
		market.KeyWTM: {Min: 10, Max: 10},
		market.KeyCSI: {Min: 10, Max: 10},
		market.KeySHG: {Min: 10, Max: 10},
	}}
	order := []market.AssetKey{market.KeySHG, market.KeyWTM, market.KeyBGE, market.KeyMWS, market.KeyCSI}
	want := []market.AssetKey{market.KeySHG, market.KeyWTM, market.KeyMWS, market.KeyCSI}

	for i := 0; i < 20; i++ {
		Apply(ev, assets, order, rand.New(rand.NewSource(1)))
		got := Revert(ev, assets, order)
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("run %d: expected %v, got %v", i, want, got)
			}
		}
	}
}

func TestDefaultCatalogValid(t *testing.T) {
	keys := market.NewAssets(market.DefaultSeeds(), 1).Keys()
	if err := news.DefaultCatalog().Validate(keys); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
	bad := news.Catalog{{ID: "x", MinDuration: time.Second, MaxDuration: time.Second,
		Impacts: map[market.AssetKey]news.ImpactRange{"ZZZ": {Min: 1, Max: 2}}}}
	if err := bad.Validate(keys); err == nil {
		t.Error("expected unknown asset to fail validation")
	}
}
