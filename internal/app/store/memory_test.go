package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"batepapo/internal/app/chat"
	"batepapo/internal/app/store"
)

func TestMemoryParticipants_InsertRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryParticipants()

	err := s.Insert(ctx, chat.Participant{Name: "alice", LastStatus: time.Now()})
	require.NoError(t, err)

	err = s.Insert(ctx, chat.Participant{Name: "alice", LastStatus: time.Now()})
	require.ErrorIs(t, err, chat.ErrParticipantExists)
}

func TestMemoryParticipants_TouchUnknown(t *testing.T) {
	s := store.NewMemoryParticipants()

	err := s.Touch(context.Background(), "ghost", time.Now())
	require.ErrorIs(t, err, chat.ErrParticipantUnknown)
}

func TestMemoryParticipants_TouchUpdatesLastStatus(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryParticipants()

	start := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Insert(ctx, chat.Participant{Name: "alice", LastStatus: start}))

	later := start.Add(30 * time.Second)
	require.NoError(t, s.Touch(ctx, "alice", later))

	p, err := s.Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, later, p.LastStatus)
}

func TestMemoryParticipants_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryParticipants()

	for _, name := range []string{"carol", "alice", "bob"} {
		require.NoError(t, s.Insert(ctx, chat.Participant{Name: name, LastStatus: time.Now()}))
	}

	participants, err := s.List(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(participants))
	for _, p := range participants {
		names = append(names, p.Name)
	}
	require.Equal(t, []string{"carol", "alice", "bob"}, names)
}

func TestMemoryParticipants_RemoveIsConditional(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryParticipants()

	seen := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Insert(ctx, chat.Participant{Name: "alice", LastStatus: seen}))

	// Cutoff at or before the last heartbeat removes nothing.
	removed, err := s.Remove(ctx, "alice", seen)
	require.NoError(t, err)
	require.False(t, removed)

	// A fresh heartbeat moves the participant past a later cutoff.
	require.NoError(t, s.Touch(ctx, "alice", seen.Add(20*time.Second)))
	removed, err = s.Remove(ctx, "alice", seen.Add(10*time.Second))
	require.NoError(t, err)
	require.False(t, removed)

	removed, err = s.Remove(ctx, "alice", seen.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, removed)

	_, err = s.Get(ctx, "alice")
	require.ErrorIs(t, err, chat.ErrParticipantUnknown)

	// Removing an absent participant is not an error, just a no-op.
	removed, err = s.Remove(ctx, "alice", seen.Add(time.Hour))
	require.NoError(t, err)
	require.False(t, removed)
}

func TestMemoryMessages_AppendGetDelete(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryMessages()

	m := chat.Message{ID: "m1", From: "alice", To: "Todos", Text: "hi", Kind: chat.KindMessage, Time: "12:00:00"}
	require.NoError(t, s.Append(ctx, m))

	got, err := s.Get(ctx, "m1")
	require.NoError(t, err)
	require.Equal(t, m, got)

	require.NoError(t, s.Delete(ctx, "m1"))

	_, err = s.Get(ctx, "m1")
	require.ErrorIs(t, err, chat.ErrMessageUnknown)
	require.ErrorIs(t, s.Delete(ctx, "m1"), chat.ErrMessageUnknown)
}

func TestMemoryMessages_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryMessages()

	for _, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, s.Append(ctx, chat.Message{ID: id, From: "alice", To: "Todos", Kind: chat.KindMessage}))
	}
	require.NoError(t, s.Delete(ctx, "m2"))

	msgs, err := s.List(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}
	require.Equal(t, []string{"m1", "m3"}, ids)
}
