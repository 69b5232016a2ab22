package service

import "time"

// Config holds configuration for the news service.
type Config struct {
	// MinDelay and MaxDelay bound the randomized pause between events.
	MinDelay time.Duration
	MaxDelay time.Duration
	// PollInterval is how often the active event is checked for expiry.
	PollInterval time.Duration
	// HistorySize is the capacity of the news history ring buffer.
	HistorySize int
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
		MinDelay:            5 * time.Second,
		MaxDelay:            35 * time.Second,
		PollInterval:        100 * time.Millisecond,
		HistorySize:         10,
		CommandBuffer:       16,
		ExternalEventBuffer: 64,
	}
}
