package view

import "github.com/zappabad/stockpick/internal/market"

// Event is published by the market service after every write.
type Event interface {
	isEvent()
}

// TickEvent is emitted after all assets advanced by one tick.
type TickEvent struct {
	Tick int64
	Time int64
}

func (TickEvent) isEvent() {}

// DriftEvent is emitted after a drift override or revert.
type DriftEvent struct {
	Keys []market.AssetKey
	Time int64
}

func (DriftEvent) isEvent() {}

// ResetEvent is emitted after all assets were reinitialized.
type ResetEvent struct {
	Time int64
}

func (ResetEvent) isEvent() {}
