package news

import (
	"fmt"
	"time"

	"github.com/zappabad/stockpick/internal/market"
)

// Catalog is the fixed table of news templates.
type Catalog []Template

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// DefaultCatalog returns the built-in news templates.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			ID: "conflict-escalation", Press: "Korea Economic Daily",
			Title:       "Border tensions flare, global markets flip to risk-off",
			MinDuration: seconds(10), MaxDuration: seconds(30),
			Impacts: map[market.AssetKey]ImpactRange{
				market.KeyWTM: {10, 25}, market.KeyBGE: {25, 45}, market.KeyCSI: {5, 15},
				market.KeySHG: {-35, -25}, market.KeyMWS: {-20, -10},
			},
		},
		{
			ID: "ceasefire", Press: "Korea Economic Daily",
			Title:       "Ceasefire news sparks relief rally in risk assets",
			MinDuration: seconds(20), MaxDuration: seconds(60),
			Impacts: map[market.AssetKey]ImpactRange{
				market.KeyWTM: {-10, -5}, market.KeyBGE: {-20, -10}, market.KeyCSI: {-10, -5},
				market.KeySHG: {20, 35}, market.KeyMWS: {10, 25},
			},
		},
		{
			ID: "supply-disruption", Press: "Trend Today",
			Title:       "Supply chain fears spread, manufacturing and chemicals rally",
			MinDuration: seconds(10), MaxDuration: seconds(20),
			Impacts: map[market.AssetKey]ImpactRange{
				market.KeyWTM: {5, 15}, market.KeyBGE: {15, 30},
				market.KeySHG: {-20, -10}, market.KeyMWS: {-15, -5},
			},
		},
		{
			ID: "output-increase", Press: "Trend Today",
			Title:       "Production boost sends oil sliding, inflation fears ease",
			MinDuration: seconds(10), MaxDuration: seconds(10),
			Impacts: map[market.AssetKey]ImpactRange{
				market.KeyWTM: {-20, -10}, market.KeyBGE: {-30, -15},
				market.KeySHG: {10, 20}, market.KeyMWS: {5, 15},
			},
		},
		{
			ID: "cyber-attack", Press: "Money Today Markets",
			Title:       "Global hacking incident: security stocks soar, banks hit",
			MinDuration: seconds(5), MaxDuration: seconds(10),
			Impacts: map[market.AssetKey]ImpactRange{
				market.KeyWTM: {-10, -5}, market.KeyBGE: {-10, -5}, market.KeyCSI: {25, 50},
				market.KeySHG: {-40, -20}, market.KeyMWS: {-25, -10},
			},
		},
		{
			ID: "rate-cut", Press: "Money Today Markets",
			Title:       "Surprise rate cut turns the whole market higher",
			MinDuration: seconds(15), MaxDuration: seconds(25),
			Impacts: map[market.AssetKey]ImpactRange{
				market.KeyWTM: {10, 20}, market.KeyBGE: {5, 10}, market.KeyCSI: {5, 10},
				market.KeySHG: {25, 40}, market.KeyMWS: {10, 20},
			},
		},
		{
			ID: "rate-hike", Press: "Technomy News",
			Title:       "Rate hike delivered, stocks tumble as sentiment freezes",
			MinDuration: seconds(10), MaxDuration: seconds(20),
			Impacts: map[market.AssetKey]ImpactRange{
				market.KeyWTM: {-20, -10}, market.KeyBGE: {-15, -10},
				market.KeySHG: {-50, -30}, market.KeyMWS: {-20, -10},
			},
		},
		{
			ID: "meme-frenzy", Press: "Technomy News",
			Title:       "Meme stock mania as day traders pile in",
			MinDuration: seconds(5), MaxDuration: seconds(10),
			Impacts: map[market.AssetKey]ImpactRange{
				market.KeyWTM: {20, 40}, market.KeyBGE: {10, 25}, market.KeyCSI: {5, 10},
				market.KeySHG: {-25, -10}, market.KeyMWS: {40, 80},
			},
		},
		{
			ID: "influencer-boom", Press: "Economic Daily",
			Title:       "A super-influencer emerges, social media stocks surge",
			MinDuration: seconds(5), MaxDuration: seconds(10),
			Impacts: map[market.AssetKey]ImpactRange{
				market.KeyWTM: {5, 15}, market.KeyBGE: {5, 15}, market.KeyMWS: {30, 70},
			},
		},
		{
			ID: "logistics-halt", Press: "Economic Daily",
			Title:       "Port shutdowns halt shipping, supply chain crisis returns",
			MinDuration: seconds(6), MaxDuration: seconds(10),
			Impacts: map[market.AssetKey]ImpactRange{
				market.KeyWTM: {10, 25}, market.KeyBGE: {10, 25},
				market.KeySHG: {-30, -15}, market.KeyMWS: {-20, -10},
			},
		},
		{
			ID: "ai-boom", Press: "Today's Hot Issue",
			Title:       "AI industry booms, tech stocks rally across the board",
			MinDuration: seconds(10), MaxDuration: seconds(15),
			Impacts: map[market.AssetKey]ImpactRange{
				market.KeyWTM: {15, 30}, market.KeyBGE: {5, 10}, market.KeyCSI: {10, 20},
				market.KeySHG: {10, 20}, market.KeyMWS: {25, 50},
			},
		},
		{
			ID: "ai-backlash", Press: "Today's Hot Issue",
			Title:       "AI regulation talks intensify, tech sector slides",
			MinDuration: seconds(10), MaxDuration: seconds(15),
			Impacts: map[market.AssetKey]ImpactRange{
				market.KeyWTM: {-20, -10}, market.KeyBGE: {-10, -5}, market.KeyCSI: {-15, -10},
				market.KeySHG: {-25, -15}, market.KeyMWS: {-50, -30},
			},
		},
	}
}

// Validate checks every template against the known asset keys.
func (c Catalog) Validate(keys []market.AssetKey) error {
	if len(c) == 0 {
		return fmt.Errorf("news catalog is empty")
	}
	known := make(map[market.AssetKey]bool, len(keys))
	for _, k := range keys {
		known[k] = true
	}
	seen := make(map[string]bool, len(c))
	for _, t := range c {
		if t.ID == "" {
			return fmt.Errorf("news template with empty id")
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate news template %q", t.ID)
		}
		seen[t.ID] = true
		if t.MinDuration <= 0 || t.MaxDuration < t.MinDuration {
			return fmt.Errorf("news template %q: invalid duration range %v..%v", t.ID, t.MinDuration, t.MaxDuration)
		}
		for k, r := range t.Impacts {
			if !known[k] {
				return fmt.Errorf("news template %q: unknown asset %q", t.ID, k)
			}
			if r.Max < r.Min {
				return fmt.Errorf("news template %q: impact range for %s is inverted", t.ID, k)
			}
		}
	}
	return nil
}
