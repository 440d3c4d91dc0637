/*
Package store provides the persistence implementations behind the chat core's
ParticipantStore and MessageStore contracts.

This file contains the in-memory implementation: one mutex per collection is
the serialization point that makes every operation, including the conditional
eviction, atomic.
*/
package store

import (
	"context"
	"sync"
	"time"

	"batepapo/internal/app/chat"
)

// MemoryParticipants is the in-memory ParticipantStore.
type MemoryParticipants struct {
	// mu guards byName and order.
	mu sync.Mutex

	byName map[string]chat.Participant

	// order preserves insertion order for List.
	order []string
}

// NewMemoryParticipants constructs an empty in-memory participant store.
func NewMemoryParticipants() *MemoryParticipants {
	return &MemoryParticipants{
		byName: make(map[string]chat.Participant),
	}
}

// Insert adds a new participant, failing with chat.ErrParticipantExists on a
// duplicate name.
func (s *MemoryParticipants) Insert(_ context.Context, p chat.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[p.Name]; ok {
		return chat.ErrParticipantExists
	}

	s.byName[p.Name] = p
	s.order = append(s.order, p.Name)
	return nil
}

// Get returns the participant by name.
func (s *MemoryParticipants) Get(_ context.Context, name string) (chat.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byName[name]
	if !ok {
		return chat.Participant{}, chat.ErrParticipantUnknown
	}
	return p, nil
}

// Touch sets the participant's LastStatus to at.
func (s *MemoryParticipants) Touch(_ context.Context, name string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byName[name]
	if !ok {
		return chat.ErrParticipantUnknown
	}

	p.LastStatus = at
	s.byName[name] = p
	return nil
}

// List returns all participants in insertion order.
func (s *MemoryParticipants) List(_ context.Context) ([]chat.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]chat.Participant, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out, nil
}

// Remove deletes the participant iff its LastStatus is strictly before
// seenBefore. The staleness check and the delete share the collection mutex,
// so a concurrent Touch either lands before the check (and keeps the
// participant) or after a completed removal.
func (s *MemoryParticipants) Remove(_ context.Context, name string, seenBefore time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byName[name]
	if !ok || !p.LastStatus.Before(seenBefore) {
		return false, nil
	}

	delete(s.byName, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// MemoryMessages is the in-memory MessageStore.
type MemoryMessages struct {
	// mu guards entries and index.
	mu sync.Mutex

	// entries holds messages in insertion order.
	entries []chat.Message

	// index maps message id to its presence in entries.
	index map[string]struct{}
}

// NewMemoryMessages constructs an empty in-memory message store.
func NewMemoryMessages() *MemoryMessages {
	return &MemoryMessages{
		index: make(map[string]struct{}),
	}
}

// Append stores m at the end of the log.
func (s *MemoryMessages) Append(_ context.Context, m chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, m)
	s.index[m.ID] = struct{}{}
	return nil
}

// Get returns the message by id.
func (s *MemoryMessages) Get(_ context.Context, id string) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return chat.Message{}, chat.ErrMessageUnknown
	}

	for _, m := range s.entries {
		if m.ID == id {
			return m, nil
		}
	}
	return chat.Message{}, chat.ErrMessageUnknown
}

// Delete removes the message by id.
func (s *MemoryMessages) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return chat.ErrMessageUnknown
	}

	delete(s.index, id)
	for i, m := range s.entries {
		if m.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	return nil
}

// List returns all messages in insertion order.
func (s *MemoryMessages) List(_ context.Context) ([]chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]chat.Message, len(s.entries))
	copy(out, s.entries)
	return out, nil
}
