/*
Package chat contains the core logic of the group-chat backend.

This file defines the Service, the facade request handlers talk to. It wires
the Registry and the Log together for the operations that span both, most
notably join, which creates the participant and announces it in one logical
unit.
*/
package chat

import (
	"context"

	"github.com/rs/zerolog"

	"batepapo/internal/pkg/errs"
	"batepapo/internal/pkg/logx"
)

// Service exposes the chat operations consumed by the HTTP layer.
type Service struct {
	registry *Registry

	log *Log

	feed *Feed

	// structured logger with Service context.
	logger zerolog.Logger
}

// NewService constructs a Service over an already wired registry, log, and feed.
func NewService(registry *Registry, log *Log, feed *Feed) *Service {
	serviceLogger := logx.Logger().With().Str("component", "Service").Logger()

	return &Service{
		registry: registry,
		log:      log,
		feed:     feed,
		logger:   serviceLogger,
	}
}

// Join registers a new participant and announces it with a "joined" status
// event. The announcement is best-effort: if the append fails the join still
// stands, matching the observed semantics of the room.
func (s *Service) Join(ctx context.Context, name string) (Participant, *errs.CustomError) {
	p, customErr := s.registry.Add(ctx, name)
	if customErr != nil {
		return Participant{}, customErr
	}

	if _, customErr := s.log.AppendStatus(ctx, name, JoinedText); customErr != nil {
		s.logger.Error().Err(customErr).Str("name", name).Msg("Join announcement failed; join stands.")
	}

	return p, nil
}

// Participants returns all active participants.
func (s *Service) Participants(ctx context.Context) ([]Participant, *errs.CustomError) {
	return s.registry.List(ctx)
}

// Heartbeat refreshes the named participant's liveness timestamp.
func (s *Service) Heartbeat(ctx context.Context, name string) *errs.CustomError {
	return s.registry.Heartbeat(ctx, name)
}

// IsActive reports whether name denotes an active participant.
func (s *Service) IsActive(ctx context.Context, name string) (bool, *errs.CustomError) {
	return s.registry.IsActive(ctx, name)
}

// Post appends a user-authored message.
func (s *Service) Post(ctx context.Context, from, to, text string, kind Kind) (Message, *errs.CustomError) {
	return s.log.Post(ctx, from, to, text, kind)
}

// Messages returns the messages visible to viewer; limit > 0 bounds the
// result to the most recent limit entries.
func (s *Service) Messages(ctx context.Context, viewer string, limit int) ([]Message, *errs.CustomError) {
	return s.log.VisibleTo(ctx, viewer, limit)
}

// DeleteMessage removes a message on behalf of requester.
func (s *Service) DeleteMessage(ctx context.Context, id, requester string) *errs.CustomError {
	return s.log.Delete(ctx, id, requester)
}

// Subscribe attaches a live feed subscriber viewing the log as viewer.
func (s *Service) Subscribe(viewer string) *Subscriber {
	return s.feed.Subscribe(viewer)
}

// Unsubscribe detaches a live feed subscriber.
func (s *Service) Unsubscribe(sub *Subscriber) {
	s.feed.Unsubscribe(sub)
}
