// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package xmpp

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/meetwire/meetwire/lib/ref"
)

// ClientConfig holds configuration for connecting to an XMPP server.
type ClientConfig struct {
	// Address is the server's host:port.
	Address string

	// Domain is the XMPP domain, used as the stream target and the
	// TLS server name.
	Domain string

	Username string
	Password string

	// UseTLS wraps the connection in TLS before the stream opens.
	UseTLS bool

	// Resource is the connection's resource, also used as the MUC
	// occupant resource on joins. Defaults to "meetwire".
	Resource string

	// Logger is optional; nil means slog.Default().
	Logger *slog.Logger
}

// DiscoResult is the outcome of one disco#info probe, delivered on
// DiscoResults.
type DiscoResult struct {
	// Meeting is the probed meeting name.
	Meeting string

	// Conference is true when the room answered with a conference
	// identity.
	Conference bool
}

// Client is a connected, authenticated XMPP client. Create with Dial.
type Client struct {
	config  ClientConfig
	conn    net.Conn
	decoder *xml.Decoder
	logger  *slog.Logger
	jid     string

	writeMu sync.Mutex

	roomsMu sync.Mutex
	rooms   map[string]*Room

	disco chan DiscoResult
}

// Dial connects, authenticates with SASL PLAIN and binds a resource.
// The returned client is ready for JoinRoom and disco probes.
func Dial(ctx context.Context, config ClientConfig) (*Client, error) {
	if config.Address == "" {
		return nil, fmt.Errorf("xmpp: address is required")
	}
	if config.Domain == "" {
		return nil, fmt.Errorf("xmpp: domain is required")
	}
	if config.Resource == "" {
		config.Resource = "meetwire"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", config.Address)
	if err != nil {
		return nil, fmt.Errorf("xmpp: connecting to %s: %w", config.Address, err)
	}
	if config.UseTLS {
		conn = tls.Client(conn, &tls.Config{ServerName: config.Domain})
	}

	client := &Client{
		config:  config,
		conn:    conn,
		decoder: xml.NewDecoder(conn),
		logger:  config.Logger,
		rooms:   make(map[string]*Room),
		disco:   make(chan DiscoResult, 16),
	}
	if err := client.negotiate(); err != nil {
		conn.Close()
		return nil, err
	}

	go client.readLoop()
	return client, nil
}

// JID returns the full JID the server bound for this connection.
func (c *Client) JID() string {
	return c.jid
}

// Close tears the connection down. The read loop notices and closes
// every room's event channel.
func (c *Client) Close() error {
	return c.conn.Close()
}

// negotiate runs stream open, SASL PLAIN and resource binding. The
// decoder is used synchronously here; the read loop takes over after.
func (c *Client) negotiate() error {
	if err := c.openStream(); err != nil {
		return err
	}

	credentials := base64.StdEncoding.EncodeToString(
		[]byte("\x00" + c.config.Username + "\x00" + c.config.Password))
	err := c.sendRaw("<auth xmlns='urn:ietf:params:xml:ns:xmpp-sasl' mechanism='PLAIN'>" +
		credentials + "</auth>")
	if err != nil {
		return err
	}
	element, err := c.nextStartElement()
	if err != nil {
		return fmt.Errorf("xmpp: waiting for auth outcome: %w", err)
	}
	if element.Name.Local != "success" {
		return fmt.Errorf("xmpp: authentication failed for %q", c.config.Username)
	}
	if err := c.decoder.Skip(); err != nil {
		return fmt.Errorf("xmpp: draining auth outcome: %w", err)
	}

	// The stream restarts after SASL.
	if err := c.openStream(); err != nil {
		return err
	}
	return c.bindResource()
}

// openStream sends a stream header and consumes the server's header
// and feature list.
func (c *Client) openStream() error {
	err := c.sendRaw(fmt.Sprintf(
		"<?xml version='1.0'?><stream:stream to='%s' xmlns='jabber:client'"+
			" xmlns:stream='http://etherx.jabber.org/streams' version='1.0'>",
		c.config.Domain))
	if err != nil {
		return err
	}

	element, err := c.nextStartElement()
	if err != nil {
		return fmt.Errorf("xmpp: waiting for stream header: %w", err)
	}
	if element.Name.Local != "stream" {
		return fmt.Errorf("xmpp: unexpected stream response <%s>", element.Name.Local)
	}
	element, err = c.nextStartElement()
	if err != nil {
		return fmt.Errorf("xmpp: waiting for stream features: %w", err)
	}
	if element.Name.Local != "features" {
		return fmt.Errorf("xmpp: unexpected pre-feature element <%s>", element.Name.Local)
	}
	if err := c.decoder.Skip(); err != nil {
		return fmt.Errorf("xmpp: draining stream features: %w", err)
	}
	return nil
}

func (c *Client) bindResource() error {
	requestID := uuid.NewString()
	err := c.sendRaw(fmt.Sprintf(
		"<iq id='%s' type='set'><bind xmlns='urn:ietf:params:xml:ns:xmpp-bind'>"+
			"<resource>%s</resource></bind></iq>",
		requestID, c.config.Resource))
	if err != nil {
		return err
	}

	element, err := c.nextStartElement()
	if err != nil {
		return fmt.Errorf("xmpp: waiting for bind result: %w", err)
	}
	var result struct {
		Type string `xml:"type,attr"`
		JID  string `xml:"bind>jid"`
	}
	if err := c.decoder.DecodeElement(&result, &element); err != nil {
		return fmt.Errorf("xmpp: decoding bind result: %w", err)
	}
	if result.Type != "result" || result.JID == "" {
		return fmt.Errorf("xmpp: resource bind failed")
	}
	c.jid = result.JID
	c.logger.Info("xmpp connected", "jid", c.jid)
	return nil
}

// nextStartElement advances the decoder to the next start element,
// discarding whitespace and other stream noise.
func (c *Client) nextStartElement() (xml.StartElement, error) {
	for {
		token, err := c.decoder.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := token.(xml.StartElement); ok {
			return start, nil
		}
	}
}

func (c *Client) sendRaw(data string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.conn.Write([]byte(data)); err != nil {
		return fmt.Errorf("xmpp: write failed: %w", err)
	}
	return nil
}

// send marshals and writes one outbound stanza.
func (c *Client) send(ctx context.Context, stanza any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := xml.Marshal(stanza)
	if err != nil {
		return fmt.Errorf("xmpp: marshaling stanza: %w", err)
	}
	return c.sendRaw(string(data))
}

// SendDiscoProbe sends a fire-and-forget disco#info query to a room.
// The outcome arrives on DiscoResults.
func (c *Client) SendDiscoProbe(ctx context.Context, room ref.RoomID) error {
	return c.send(ctx, &outboundIQ{
		ID:   uuid.NewString(),
		To:   room.String(),
		Type: "get",
		Query: &discoQueryElement{
			XMLNS: "http://jabber.org/protocol/disco#info",
		},
	})
}

// DiscoResults delivers disco probe outcomes. The channel is closed
// when the stream ends.
func (c *Client) DiscoResults() <-chan DiscoResult {
	return c.disco
}

// readLoop owns the decoder after negotiation: it decodes stanzas and
// routes them to rooms and the disco channel until the stream dies.
func (c *Client) readLoop() {
	defer c.closeEverything()
	for {
		token, err := c.decoder.Token()
		if err != nil {
			c.logger.Error("xmpp stream ended", "error", err)
			return
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "presence":
			var stanza presenceStanza
			if err := c.decoder.DecodeElement(&stanza, &start); err != nil {
				c.logger.Debug("undecodable presence", "error", err)
				continue
			}
			c.routePresence(&stanza)
		case "message":
			var stanza messageStanza
			if err := c.decoder.DecodeElement(&stanza, &start); err != nil {
				c.logger.Debug("undecodable message", "error", err)
				continue
			}
			c.routeMessage(&stanza)
		case "iq":
			var stanza iqStanza
			if err := c.decoder.DecodeElement(&stanza, &start); err != nil {
				c.logger.Debug("undecodable iq", "error", err)
				continue
			}
			c.routeIQ(&stanza)
		default:
			if err := c.decoder.Skip(); err != nil {
				c.logger.Error("xmpp stream ended", "error", err)
				return
			}
		}
	}
}

func (c *Client) routePresence(stanza *presenceStanza) {
	event, ok := stanza.relayEvent()
	if !ok {
		return
	}
	if room := c.roomFor(event.From.Room()); room != nil {
		room.events <- event
	}
}

func (c *Client) routeMessage(stanza *messageStanza) {
	event, ok := stanza.relayEvent()
	if !ok {
		return
	}
	if room := c.roomFor(event.From.Room()); room != nil {
		room.events <- event
	}
}

// routeIQ turns disco#info responses into probe results. An error iq
// from a room address is the room-is-gone signal.
func (c *Client) routeIQ(stanza *iqStanza) {
	roomID, err := ref.ParseRoomID(stanza.From)
	if err != nil {
		return
	}

	var result DiscoResult
	switch {
	case stanza.Type == "result" && stanza.Query != nil:
		for _, identity := range stanza.Query.Identities {
			if identity.Category == "conference" {
				result = DiscoResult{Meeting: identity.Name, Conference: true}
				if result.Meeting == "" {
					result.Meeting = roomID.Local()
				}
				break
			}
		}
		if !result.Conference {
			result = DiscoResult{Meeting: roomID.Local()}
		}
	case stanza.Type == "error":
		result = DiscoResult{Meeting: roomID.Local()}
	default:
		return
	}

	// Never stall the read loop on a slow consumer; a dropped probe
	// result is re-derived on the next tick.
	select {
	case c.disco <- result:
	default:
		c.logger.Debug("dropping disco result", "meeting", result.Meeting)
	}
}

func (c *Client) roomFor(id ref.RoomID) *Room {
	c.roomsMu.Lock()
	defer c.roomsMu.Unlock()
	return c.rooms[id.String()]
}

func (c *Client) closeEverything() {
	c.roomsMu.Lock()
	defer c.roomsMu.Unlock()
	for _, room := range c.rooms {
		close(room.events)
	}
	c.rooms = make(map[string]*Room)
	close(c.disco)
}
