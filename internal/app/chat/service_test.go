package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"batepapo/internal/app/chat"
	"batepapo/internal/app/store"
	"batepapo/internal/pkg/clockx"
	"batepapo/internal/pkg/errs"
)

func newService(t *testing.T) (*chat.Service, *chat.Reaper, *clockx.Fake) {
	t.Helper()

	clock := clockx.NewFake(time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC))
	feed := chat.NewFeed()
	registry := chat.NewRegistry(store.NewMemoryParticipants(), clock)
	log := chat.NewLog(store.NewMemoryMessages(), registry, clock, feed)
	service := chat.NewService(registry, log, feed)
	reaper := chat.NewReaper(registry, log, clock, 15*time.Second, 10*time.Second)
	return service, reaper, clock
}

func TestService_JoinAnnouncesArrival(t *testing.T) {
	ctx := context.Background()
	service, _, clock := newService(t)

	p, customErr := service.Join(ctx, "alice")
	require.Nil(t, customErr)
	require.Equal(t, "alice", p.Name)
	require.Equal(t, clock.Now(), p.LastStatus)

	messages, customErr := service.Messages(ctx, "anyone", 0)
	require.Nil(t, customErr)
	require.Len(t, messages, 1)
	require.Equal(t, "alice", messages[0].From)
	require.Equal(t, chat.BroadcastRecipient, messages[0].To)
	require.Equal(t, chat.KindStatus, messages[0].Kind)
	require.Equal(t, chat.JoinedText, messages[0].Text)
}

// Full walkthrough: join, duplicate join, unknown heartbeat, broadcast post,
// visibility, and timeout-driven departure.
func TestService_RoomLifecycle(t *testing.T) {
	ctx := context.Background()
	service, reaper, clock := newService(t)

	_, customErr := service.Join(ctx, "alice")
	require.Nil(t, customErr)

	_, customErr = service.Join(ctx, "alice")
	require.NotNil(t, customErr)
	require.Equal(t, errs.ErrNameTaken, customErr.Code)

	participants, customErr := service.Participants(ctx)
	require.Nil(t, customErr)
	require.Len(t, participants, 1)

	customErr = service.Heartbeat(ctx, "bob")
	require.NotNil(t, customErr)
	require.Equal(t, errs.ErrParticipantNotFound, customErr.Code)

	m, customErr := service.Post(ctx, "alice", chat.BroadcastRecipient, "hi", chat.KindMessage)
	require.Nil(t, customErr)

	messages, customErr := service.Messages(ctx, "carol", 0)
	require.Nil(t, customErr)
	require.Contains(t, messages, m)

	// No heartbeat past the staleness threshold: the next sweep removes
	// alice and appends a departure event visible to all.
	clock.Advance(11 * time.Second)
	reaper.Sweep(ctx)

	participants, customErr = service.Participants(ctx)
	require.Nil(t, customErr)
	require.Empty(t, participants)

	messages, customErr = service.Messages(ctx, "carol", 0)
	require.Nil(t, customErr)
	last := messages[len(messages)-1]
	require.Equal(t, chat.KindStatus, last.Kind)
	require.Equal(t, chat.LeftText, last.Text)
	require.Equal(t, "alice", last.From)
}

func TestService_FeedDeliversVisibleMessages(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService(t)

	_, customErr := service.Join(ctx, "alice")
	require.Nil(t, customErr)
	_, customErr = service.Join(ctx, "bob")
	require.Nil(t, customErr)

	bobSub := service.Subscribe("bob")
	carolSub := service.Subscribe("carol")
	defer service.Unsubscribe(bobSub)
	defer service.Unsubscribe(carolSub)

	private, customErr := service.Post(ctx, "alice", "bob", "psst", chat.KindPrivate)
	require.Nil(t, customErr)
	broadcast, customErr := service.Post(ctx, "alice", chat.BroadcastRecipient, "hello", chat.KindMessage)
	require.Nil(t, customErr)

	// Bob sees both, in order.
	require.Equal(t, private, <-bobSub.C())
	require.Equal(t, broadcast, <-bobSub.C())

	// Carol only sees the broadcast.
	require.Equal(t, broadcast, <-carolSub.C())
	select {
	case m := <-carolSub.C():
		t.Fatalf("carol received unexpected message %q", m.Text)
	default:
	}
}

func TestService_UnsubscribeClosesChannel(t *testing.T) {
	service, _, _ := newService(t)

	sub := service.Subscribe("alice")
	service.Unsubscribe(sub)

	_, ok := <-sub.C()
	require.False(t, ok)
}
