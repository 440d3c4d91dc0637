/*
Package chat contains the core logic of the group-chat backend: the participant
registry, the append-only message log with per-viewer visibility, and the
session reaper that evicts stale participants.

This file defines the Participant and Message records and the closed set of
message kinds.
*/
package chat

import (
	"time"
)

// Kind classifies a message. The set is closed: status events are
// system-generated on join/leave, the other two are user-authored.
type Kind string

const (
	// KindStatus marks a system-generated join/leave announcement.
	KindStatus Kind = "status"

	// KindMessage is a user message broadcast to the whole room.
	KindMessage Kind = "message"

	// KindPrivate is a user message visible only to its author and recipient.
	KindPrivate Kind = "private_message"
)

// BroadcastRecipient is the sentinel recipient name addressing the whole room.
const BroadcastRecipient = "Todos"

// TimeLayout is the display format of message timestamps.
const TimeLayout = "15:04:05"

// Status event texts appended by join and eviction.
const (
	JoinedText = "joined"
	LeftText   = "left"
)

// Participant is an actor with a unique name and a liveness timestamp.
// The name is immutable after creation; LastStatus moves forward on every heartbeat.
type Participant struct {
	Name       string    `json:"name"`
	LastStatus time.Time `json:"lastStatus"`
}

// Message is one entry of the chat log. ID is assigned at creation and stable
// for the message's lifetime; Time is formatted at append and never changes.
type Message struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Kind Kind   `json:"type"`
	Time string `json:"time"`
}

// VisibleTo reports whether the message may be retrieved by viewer.
// Broadcast messages and status events are visible to everyone; private
// messages only to their author and recipient.
func (m Message) VisibleTo(viewer string) bool {
	switch m.Kind {
	case KindMessage, KindStatus:
		return true
	case KindPrivate:
		return m.To == viewer || m.From == viewer
	default:
		return false
	}
}
