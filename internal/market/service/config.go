package service

import "time"

// Config holds configuration for the market service.
type Config struct {
	// TickInterval is the interval between price advances.
	TickInterval time.Duration
	// Manual disables the tick loop; prices only move on Step.
	Manual bool
	// MaxHistory is the length of each asset's sliding price window.
	MaxHistory int
	// WarmupHistory is the number of seed-price copies each history starts with.
	WarmupHistory int
	// CommandBuffer is the size of the inbound command channel.
	CommandBuffer int
	// ExternalEventBuffer is the size of the external events channel.
	ExternalEventBuffer int
	// BlockExternalEvents makes publishing wait for a reader when the external
	// events channel is full. By default overflowing events are dropped and
	// counted.
	BlockExternalEvents bool
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		TickInterval:        500 * time.Millisecond,
		MaxHistory:          600,
		WarmupHistory:       120,
		CommandBuffer:       64,
		ExternalEventBuffer: 256,
	}
}
