/*
Package chat contains the core logic of the group-chat backend.

This file defines the Log, the append-only store of chat events with
per-viewer visibility filtering, bounded retrieval, and author-only deletion.
*/
package chat

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"batepapo/internal/pkg/clockx"
	"batepapo/internal/pkg/errs"
	"batepapo/internal/pkg/logx"
)

// Presence is the slice of the Registry the Log needs: the author of every
// user post must be an active participant at the instant of the append.
type Presence interface {
	IsActive(ctx context.Context, name string) (bool, *errs.CustomError)
}

// Log is the append-only message log. Entries keep insertion order, which is
// also the retrieval order.
type Log struct {
	store MessageStore

	presence Presence

	clock clockx.Clock

	// feed receives every appended message for live fan-out. Optional.
	feed *Feed

	// structured logger with Log context.
	logger zerolog.Logger
}

// NewLog constructs a Log over the given message store. presence guards user
// posts; feed may be nil when no live subscribers are wanted.
func NewLog(store MessageStore, presence Presence, clock clockx.Clock, feed *Feed) *Log {
	logLogger := logx.Logger().With().Str("component", "MessageLog").Logger()

	return &Log{
		store:    store,
		presence: presence,
		clock:    clock,
		feed:     feed,
		logger:   logLogger,
	}
}

// Post appends a user-authored message. The kind must be message or
// private_message, the recipient non-empty, and from must name an active
// participant at the time of the append.
func (l *Log) Post(ctx context.Context, from, to, text string, kind Kind) (Message, *errs.CustomError) {
	if kind != KindMessage && kind != KindPrivate {
		return Message{}, errs.NewError(errs.ErrMessageKindInvalid)
	}

	if from == "" || to == "" || text == "" {
		return Message{}, errs.NewError(errs.ErrInvalidParams)
	}

	active, customErr := l.presence.IsActive(ctx, from)
	if customErr != nil {
		return Message{}, customErr
	}
	if !active {
		l.logger.Warn().Str("from", from).Msg("Post rejected: author is not in the room.")
		return Message{}, errs.NewError(errs.ErrAuthorNotActive)
	}

	return l.append(ctx, from, to, text, kind)
}

// AppendStatus appends a system-generated status event authored by name and
// addressed to the whole room. No author-activity check is performed: the
// join announcement precedes the author being observable, and the leave
// announcement follows its eviction.
func (l *Log) AppendStatus(ctx context.Context, name, text string) (Message, *errs.CustomError) {
	return l.append(ctx, name, BroadcastRecipient, text, KindStatus)
}

func (l *Log) append(ctx context.Context, from, to, text string, kind Kind) (Message, *errs.CustomError) {
	m := Message{
		ID:   uuid.NewString(),
		From: from,
		To:   to,
		Text: text,
		Kind: kind,
		Time: l.clock.Now().Format(TimeLayout),
	}

	if err := l.store.Append(ctx, m); err != nil {
		l.logger.Error().Err(err).Str("from", from).Str("kind", string(kind)).Msg("Failed to append message.")
		return Message{}, errs.NewError(errs.ErrStorageFailed)
	}

	if l.feed != nil {
		l.feed.publish(m)
	}

	return m, nil
}

// VisibleTo returns the messages viewer may see, in chronological order.
// When limit > 0 and smaller than the visible count, only the most recent
// limit messages are returned, still in chronological order.
func (l *Log) VisibleTo(ctx context.Context, viewer string, limit int) ([]Message, *errs.CustomError) {
	all, err := l.store.List(ctx)
	if err != nil {
		l.logger.Error().Err(err).Msg("Failed to list messages.")
		return nil, errs.NewError(errs.ErrStorageFailed)
	}

	visible := make([]Message, 0, len(all))
	for _, m := range all {
		if m.VisibleTo(viewer) {
			visible = append(visible, m)
		}
	}

	if limit > 0 && limit < len(visible) {
		visible = visible[len(visible)-limit:]
	}

	return visible, nil
}

// Delete removes the message by id on behalf of requester. It fails with
// ErrMessageNotFound for an unknown id and ErrNotMessageAuthor when the
// requester is not the message's author.
func (l *Log) Delete(ctx context.Context, id, requester string) *errs.CustomError {
	m, err := l.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMessageUnknown) {
			return errs.NewError(errs.ErrMessageNotFound)
		}

		l.logger.Error().Err(err).Str("message_id", id).Msg("Failed to look up message.")
		return errs.NewError(errs.ErrStorageFailed)
	}

	if !authorizeDelete(m, requester) {
		l.logger.Warn().
			Str("message_id", id).
			Str("requester", requester).
			Msg("Deletion rejected: requester is not the author.")
		return errs.NewError(errs.ErrNotMessageAuthor)
	}

	if err := l.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrMessageUnknown) {
			// Deleted concurrently between the lookup and the delete.
			return errs.NewError(errs.ErrMessageNotFound)
		}

		l.logger.Error().Err(err).Str("message_id", id).Msg("Failed to delete message.")
		return errs.NewError(errs.ErrStorageFailed)
	}

	l.logger.Info().Str("message_id", id).Str("requester", requester).Msg("Message deleted.")
	return nil
}
