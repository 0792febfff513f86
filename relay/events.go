// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package relay

import (
	"context"

	"github.com/meetwire/meetwire/lib/ref"
)

// GroupchatEvent is an event from the presence/groupchat transport.
// The concrete types are Presence and Message.
type GroupchatEvent interface {
	isGroupchatEvent()
}

// Presence is an occupant availability change, with whatever metadata
// the stanza carried.
type Presence struct {
	From      ref.OccupantID
	Available bool

	// Name is the occupant's display name, empty when the stanza did
	// not resolve one.
	Name string

	// HandRaised is the raised-hand flag, nil when the stanza carried
	// no such extension.
	HandRaised *bool

	// RecordingStatus is "on", "off", or empty for no status change.
	RecordingStatus string
}

func (Presence) isGroupchatEvent() {}

// Message is one groupchat message. Exactly one of Body, Payload and
// Transcript is meaningful: plain chat text, a structured application
// payload, or a speech-to-text event.
type Message struct {
	From ref.OccupantID

	Body string

	// Payload is the raw bytes of a structured application payload
	// (poll creation or ballot), nil for plain text.
	Payload []byte

	// Transcript is a speech-to-text event, nil otherwise.
	Transcript *Transcript

	// HistoryReplay marks messages the transport delivered from room
	// history rather than live. They must never re-trigger side
	// effects.
	HistoryReplay bool
}

func (Message) isGroupchatEvent() {}

// Transcript is one speech-to-text segment.
type Transcript struct {
	// Name is the speaker's display name.
	Name string

	Text string

	// Interim marks a provisional segment that will be superseded.
	// Only final segments are forwarded.
	Interim bool
}

// ChannelEvent is an event from the legacy channel transport. The
// concrete types are ChannelJoined and ChannelMessage.
type ChannelEvent interface {
	isChannelEvent()
}

// ChannelJoined reports that the bridge has joined its channel.
type ChannelJoined struct {
	Channel ref.ChannelName
	Nick    string
}

func (ChannelJoined) isChannelEvent() {}

// ChannelMessage is one line of channel chat.
type ChannelMessage struct {
	Channel ref.ChannelName
	Nick    string
	Text    string
}

func (ChannelMessage) isChannelEvent() {}

// GroupchatTransport is the session's connection to the groupchat
// room. The transport closes its event channel when the stream ends.
type GroupchatTransport interface {
	Events() <-chan GroupchatEvent
	SendText(ctx context.Context, text string) error
	SendPayload(ctx context.Context, payload []byte) error
}

// ChannelTransport is the session's connection to the legacy channel.
type ChannelTransport interface {
	Events() <-chan ChannelEvent
	Say(ctx context.Context, text string) error
}

// ChatLogger persists the meeting transcript. Append is fire and
// forget; the session ignores all logger failures.
type ChatLogger interface {
	Append(meetingKey, nick, text string)
	URL(meetingKey string) string
	Archive(meetingKey string) error
}

// Locker releases the per-meeting advisory lock at session end.
type Locker interface {
	Release(meetingKey string)
}
