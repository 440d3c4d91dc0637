/*
Package chat contains the core logic of the group-chat backend.

This file defines the Registry, which owns the collection of active
participants: who is in the room and when they were last seen.
*/
package chat

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"batepapo/internal/pkg/clockx"
	"batepapo/internal/pkg/errs"
	"batepapo/internal/pkg/logx"
)

// Registry tracks active participants and their last-seen time.
// It is the only component allowed to mutate Participant records; the Reaper
// goes through Evict, every other write goes through Add or Heartbeat.
type Registry struct {
	store ParticipantStore

	clock clockx.Clock

	// structured logger with Registry context.
	logger zerolog.Logger
}

// NewRegistry constructs a Registry over the given participant store.
func NewRegistry(store ParticipantStore, clock clockx.Clock) *Registry {
	registryLogger := logx.Logger().With().Str("component", "Registry").Logger()

	return &Registry{
		store:  store,
		clock:  clock,
		logger: registryLogger,
	}
}

// Add creates a new participant with LastStatus set to now.
// It fails with ErrNameTaken if the name already denotes an active participant.
func (r *Registry) Add(ctx context.Context, name string) (Participant, *errs.CustomError) {
	p := Participant{
		Name:       name,
		LastStatus: r.clock.Now(),
	}

	if err := r.store.Insert(ctx, p); err != nil {
		if errors.Is(err, ErrParticipantExists) {
			r.logger.Warn().Str("name", name).Msg("Join rejected: name already active.")
			return Participant{}, errs.NewError(errs.ErrNameTaken)
		}

		r.logger.Error().Err(err).Str("name", name).Msg("Failed to insert participant.")
		return Participant{}, errs.NewError(errs.ErrStorageFailed)
	}

	r.logger.Info().Str("name", name).Msg("Participant joined.")
	return p, nil
}

// Heartbeat refreshes the participant's LastStatus to now.
// It fails with ErrParticipantNotFound if no active participant has that name.
func (r *Registry) Heartbeat(ctx context.Context, name string) *errs.CustomError {
	if err := r.store.Touch(ctx, name, r.clock.Now()); err != nil {
		if errors.Is(err, ErrParticipantUnknown) {
			return errs.NewError(errs.ErrParticipantNotFound)
		}

		r.logger.Error().Err(err).Str("name", name).Msg("Failed to refresh participant.")
		return errs.NewError(errs.ErrStorageFailed)
	}

	return nil
}

// List returns all active participants.
func (r *Registry) List(ctx context.Context) ([]Participant, *errs.CustomError) {
	participants, err := r.store.List(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to list participants.")
		return nil, errs.NewError(errs.ErrStorageFailed)
	}

	return participants, nil
}

// IsActive reports whether name denotes an active participant.
func (r *Registry) IsActive(ctx context.Context, name string) (bool, *errs.CustomError) {
	_, err := r.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, ErrParticipantUnknown) {
			return false, nil
		}

		r.logger.Error().Err(err).Str("name", name).Msg("Failed to look up participant.")
		return false, errs.NewError(errs.ErrStorageFailed)
	}

	return true, nil
}

// Evict removes the participant iff its LastStatus is still strictly before
// seenBefore, reporting whether the removal happened. A heartbeat that lands
// between the caller's staleness snapshot and this call keeps the participant
// alive: the conditional delete sees the fresh LastStatus and removes nothing.
func (r *Registry) Evict(ctx context.Context, name string, seenBefore time.Time) (bool, *errs.CustomError) {
	removed, err := r.store.Remove(ctx, name, seenBefore)
	if err != nil {
		r.logger.Error().Err(err).Str("name", name).Msg("Failed to evict participant.")
		return false, errs.NewError(errs.ErrStorageFailed)
	}

	if removed {
		r.logger.Info().Str("name", name).Msg("Stale participant evicted.")
	}

	return removed, nil
}
