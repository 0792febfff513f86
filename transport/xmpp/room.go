// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package xmpp

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meetwire/meetwire/lib/ref"
	"github.com/meetwire/meetwire/relay"
)

// Room is one joined multi-user chat room. It satisfies the bridge
// session's groupchat transport interface.
type Room struct {
	client *Client
	id     ref.RoomID
	nick   string
	events chan relay.GroupchatEvent
}

// JoinRoom announces presence in a room under the client's resource
// and the given display nick, and registers the room for event
// routing. The server's occupant list replay arrives as ordinary
// presence events once the join settles.
func (c *Client) JoinRoom(ctx context.Context, id ref.RoomID, nick string) (*Room, error) {
	occupant, err := id.Occupant(c.config.Resource)
	if err != nil {
		return nil, fmt.Errorf("xmpp: joining %s: %w", id, err)
	}

	room := &Room{
		client: c,
		id:     id,
		nick:   nick,
		events: make(chan relay.GroupchatEvent, 64),
	}
	c.roomsMu.Lock()
	if _, exists := c.rooms[id.String()]; exists {
		c.roomsMu.Unlock()
		return nil, fmt.Errorf("xmpp: room %s already joined", id)
	}
	c.rooms[id.String()] = room
	c.roomsMu.Unlock()

	err = c.send(ctx, &outboundPresence{
		ID:   uuid.NewString(),
		To:   occupant.String(),
		Nick: newNickElement(nick),
		MUC:  &mucElement{XMLNS: "http://jabber.org/protocol/muc"},
	})
	if err != nil {
		c.roomsMu.Lock()
		delete(c.rooms, id.String())
		c.roomsMu.Unlock()
		return nil, fmt.Errorf("xmpp: joining %s: %w", id, err)
	}
	c.logger.Info("joined room", "room", id.String(), "nick", nick)
	return room, nil
}

// ID returns the room's bare address.
func (r *Room) ID() ref.RoomID {
	return r.id
}

// Resource returns the client's occupant resource in this room, the
// key the bridge session uses for own-echo suppression.
func (r *Room) Resource() string {
	return r.client.config.Resource
}

// Events delivers the room's decoded stanza stream. Closed when the
// underlying connection dies.
func (r *Room) Events() <-chan relay.GroupchatEvent {
	return r.events
}

// SendText sends a groupchat chat line.
func (r *Room) SendText(ctx context.Context, text string) error {
	return r.client.send(ctx, &outboundMessage{
		ID:   uuid.NewString(),
		To:   r.id.String(),
		Type: "groupchat",
		Nick: newNickElement(r.nick),
		Body: text,
	})
}

// SendPayload sends a structured payload as a json-message, invisible
// as chat text to compliant clients.
func (r *Room) SendPayload(ctx context.Context, payload []byte) error {
	return r.client.send(ctx, &outboundMessage{
		ID:   uuid.NewString(),
		To:   r.id.String(),
		Type: "groupchat",
		JSON: &jsonMessageElement{
			XMLNS: "http://jitsi.org/jitmeet",
			Value: string(payload),
		},
	})
}
