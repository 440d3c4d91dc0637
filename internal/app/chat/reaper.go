/*
Package chat contains the core logic of the group-chat backend.

This file defines the Reaper, the recurring background task that scans the
Registry for stale participants, evicts them, and announces each departure
with a "left" status event. It is the only component that writes to both the
Registry and the Log.
*/
package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"batepapo/internal/pkg/clockx"
	"batepapo/internal/pkg/logx"
)

// Default reaper tuning.
const (
	// DefaultReapInterval is how often the reaper sweeps the registry.
	DefaultReapInterval = 15 * time.Second

	// DefaultStaleThreshold is the maximum allowed time since the last
	// heartbeat before a participant is evicted.
	DefaultStaleThreshold = 10 * time.Second
)

// Reaper periodically evicts participants whose last heartbeat is older than
// the staleness threshold.
type Reaper struct {
	registry *Registry

	log *Log

	clock clockx.Clock

	interval  time.Duration
	threshold time.Duration

	// structured logger with Reaper context.
	logger zerolog.Logger
}

// NewReaper constructs a Reaper over the registry and the message log.
// Non-positive interval or threshold fall back to the defaults.
func NewReaper(registry *Registry, log *Log, clock clockx.Clock, interval, threshold time.Duration) *Reaper {
	if interval <= 0 {
		interval = DefaultReapInterval
	}
	if threshold <= 0 {
		threshold = DefaultStaleThreshold
	}

	reaperLogger := logx.Logger().With().Str("component", "Reaper").Logger()

	return &Reaper{
		registry:  registry,
		log:       log,
		clock:     clock,
		interval:  interval,
		threshold: threshold,
		logger:    reaperLogger,
	}
}

// Run sweeps the registry at the configured interval until ctx is canceled.
func (r *Reaper) Run(ctx context.Context) {
	r.logger.Info().
		Dur("interval", r.interval).
		Dur("threshold", r.threshold).
		Msg("Reaper started.")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Sweep(ctx)

		case <-ctx.Done():
			r.logger.Info().Msg("Reaper stopped.")
			return
		}
	}
}

// Sweep performs one eviction pass. A failure while evicting one participant
// is logged and does not abort processing of the remaining participants.
func (r *Reaper) Sweep(ctx context.Context) {
	participants, customErr := r.registry.List(ctx)
	if customErr != nil {
		r.logger.Error().Err(customErr).Msg("Sweep aborted: cannot snapshot participants.")
		return
	}

	seenBefore := r.clock.Now().Add(-r.threshold)

	for _, p := range participants {
		if !p.LastStatus.Before(seenBefore) {
			continue
		}

		// Evict re-checks staleness atomically, so a heartbeat arriving
		// after the snapshot keeps the participant in the room.
		evicted, customErr := r.registry.Evict(ctx, p.Name, seenBefore)
		if customErr != nil {
			r.logger.Error().Err(customErr).Str("name", p.Name).Msg("Eviction failed, continuing sweep.")
			continue
		}
		if !evicted {
			continue
		}

		if _, customErr := r.log.AppendStatus(ctx, p.Name, LeftText); customErr != nil {
			r.logger.Error().Err(customErr).Str("name", p.Name).Msg("Failed to announce departure, continuing sweep.")
		}
	}
}
