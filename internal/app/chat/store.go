/*
Package chat contains the core logic of the group-chat backend.

This file declares the persistence contracts the core depends on. The core is
agnostic to the backing technology; implementations live in internal/app/store.
*/
package chat

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors stores use to signal expected lookup outcomes. Anything else
// returned by a store is treated as an internal storage failure.
var (
	// ErrParticipantExists signals an insert with an already-active name.
	ErrParticipantExists = errors.New("participant name already active")

	// ErrParticipantUnknown signals a lookup or update of a name that is not active.
	ErrParticipantUnknown = errors.New("participant not active")

	// ErrMessageUnknown signals a lookup or delete of a message id that does not exist.
	ErrMessageUnknown = errors.New("message not found")
)

// ParticipantStore is the durable collection of active participants.
// Implementations must make each operation atomic with respect to the others.
type ParticipantStore interface {
	// Insert adds a new participant. Returns ErrParticipantExists if the name is taken.
	Insert(ctx context.Context, p Participant) error

	// Get returns the participant by name, or ErrParticipantUnknown.
	Get(ctx context.Context, name string) (Participant, error)

	// Touch sets the participant's LastStatus to at, or returns ErrParticipantUnknown.
	Touch(ctx context.Context, name string, at time.Time) error

	// List returns all active participants in insertion order.
	List(ctx context.Context) ([]Participant, error)

	// Remove deletes the participant iff it exists and its LastStatus is
	// strictly before seenBefore, reporting whether a row was removed.
	// The condition and the delete are a single atomic step, so a concurrent
	// heartbeat can never be silently lost.
	Remove(ctx context.Context, name string, seenBefore time.Time) (bool, error)
}

// MessageStore is the durable, append-only collection of chat messages.
type MessageStore interface {
	// Append stores a new message at the end of the log.
	Append(ctx context.Context, m Message) error

	// Get returns the message by id, or ErrMessageUnknown.
	Get(ctx context.Context, id string) (Message, error)

	// Delete removes the message by id, or returns ErrMessageUnknown.
	Delete(ctx context.Context, id string) error

	// List returns all messages in insertion (chronological) order.
	List(ctx context.Context) ([]Message, error)
}
