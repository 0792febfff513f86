// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package irc

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/meetwire/meetwire/lib/ref"
	"github.com/meetwire/meetwire/relay"
)

// ClientConfig holds configuration for connecting to an IRC server.
type ClientConfig struct {
	// Address is the server's host:port.
	Address string

	// Nick is the bridge's nick, also sent as the username.
	Nick string

	// RealName is the gecos field; defaults to Nick.
	RealName string

	// Password, if set, is sent as PASS before registration.
	Password string

	// Channel is the channel to join once registered.
	Channel ref.ChannelName

	// ChannelKey, if set, is the channel's join key.
	ChannelKey string

	// UseTLS wraps the connection in TLS.
	UseTLS bool

	// ServerName overrides the TLS server name; defaults to the host
	// part of Address.
	ServerName string

	// Logger is optional; nil means slog.Default().
	Logger *slog.Logger
}

// Client is a connected IRC client bound to one channel. It satisfies
// the bridge session's channel transport interface.
type Client struct {
	config ClientConfig
	conn   net.Conn
	logger *slog.Logger

	events   chan relay.ChannelEvent
	outbound chan string
	done     chan struct{}
}

// Dial connects, registers and joins the configured channel. The join
// completes asynchronously; the session sees it as a ChannelJoined
// event.
func Dial(ctx context.Context, config ClientConfig) (*Client, error) {
	if config.Address == "" {
		return nil, fmt.Errorf("irc: address is required")
	}
	if config.Nick == "" {
		return nil, fmt.Errorf("irc: nick is required")
	}
	if config.Channel.IsZero() {
		return nil, fmt.Errorf("irc: channel is required")
	}
	if config.RealName == "" {
		config.RealName = config.Nick
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", config.Address)
	if err != nil {
		return nil, fmt.Errorf("irc: connecting to %s: %w", config.Address, err)
	}
	if config.UseTLS {
		serverName := config.ServerName
		if serverName == "" {
			serverName, _, _ = net.SplitHostPort(config.Address)
		}
		conn = tls.Client(conn, &tls.Config{ServerName: serverName})
	}

	client := &Client{
		config:   config,
		conn:     conn,
		logger:   config.Logger,
		events:   make(chan relay.ChannelEvent, 64),
		outbound: make(chan string, 256),
		done:     make(chan struct{}),
	}
	go client.writeLoop()
	go client.readLoop()

	if config.Password != "" {
		client.enqueue("PASS " + config.Password)
	}
	client.enqueue("NICK " + config.Nick)
	client.enqueue(fmt.Sprintf("USER %s 0 * :%s", config.Nick, config.RealName))
	return client, nil
}

// Nick returns the bridge's channel nick.
func (c *Client) Nick() string {
	return c.config.Nick
}

// Close tears the connection down; both loops exit and the event
// channel closes.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Events delivers the channel's event stream. Closed when the
// connection dies.
func (c *Client) Events() <-chan relay.ChannelEvent {
	return c.events
}

// Say sends one line of chat to the channel. It queues rather than
// writes: a stalled server costs buffer space, not event-loop time.
func (c *Client) Say(ctx context.Context, text string) error {
	line := "PRIVMSG " + c.config.Channel.String() + " :" + text
	select {
	case c.outbound <- line:
		return nil
	case <-c.done:
		return fmt.Errorf("irc: connection closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueue queues a protocol line, dropping it if the writer is wedged.
func (c *Client) enqueue(line string) {
	select {
	case c.outbound <- line:
	case <-c.done:
	default:
		c.logger.Error("outbound queue full, dropping line")
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case line := <-c.outbound:
			if _, err := c.conn.Write([]byte(line + "\r\n")); err != nil {
				c.logger.Error("irc write failed", "error", err)
				c.conn.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) readLoop() {
	defer func() {
		close(c.done)
		close(c.events)
	}()

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 4096), 64*1024)
	for scanner.Scan() {
		c.handleLine(strings.TrimRight(scanner.Text(), "\r\n"))
	}
	if err := scanner.Err(); err != nil {
		c.logger.Error("irc stream ended", "error", err)
	}
}

// handleLine parses and reacts to one server line.
func (c *Client) handleLine(raw string) {
	if raw == "" {
		return
	}
	prefix, command, params := parseLine(raw)

	switch command {
	case "PING":
		reply := "PONG"
		if len(params) > 0 {
			reply += " :" + params[len(params)-1]
		}
		c.enqueue(reply)

	case "001":
		// Registration complete; join the channel.
		join := "JOIN " + c.config.Channel.String()
		if c.config.ChannelKey != "" {
			join += " " + c.config.ChannelKey
		}
		c.enqueue(join)

	case "JOIN":
		if nickOf(prefix) != c.config.Nick {
			return
		}
		channel := ""
		if len(params) > 0 {
			channel = params[0]
		}
		if !c.isOwnChannel(channel) {
			return
		}
		c.events <- relay.ChannelJoined{
			Channel: c.config.Channel,
			Nick:    c.config.Nick,
		}

	case "PRIVMSG":
		if len(params) < 2 || !c.isOwnChannel(params[0]) {
			return
		}
		nick := nickOf(prefix)
		if nick == "" || nick == c.config.Nick {
			return
		}
		c.events <- relay.ChannelMessage{
			Channel: c.config.Channel,
			Nick:    nick,
			Text:    params[1],
		}
	}
}

func (c *Client) isOwnChannel(channel string) bool {
	return strings.EqualFold(channel, c.config.Channel.String())
}

// parseLine splits an IRC line into prefix, command and params, with
// the trailing parameter unsplit.
func parseLine(raw string) (prefix, command string, params []string) {
	rest := raw
	if strings.HasPrefix(rest, ":") {
		var found bool
		prefix, rest, found = strings.Cut(rest[1:], " ")
		if !found {
			return prefix, "", nil
		}
	}

	var trailing string
	hasTrailing := false
	if before, after, found := strings.Cut(rest, " :"); found {
		rest, trailing, hasTrailing = before, after, true
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return prefix, "", nil
	}
	command = strings.ToUpper(fields[0])
	params = fields[1:]
	if hasTrailing {
		params = append(params, trailing)
	}
	return prefix, command, params
}

// nickOf extracts the nick from a prefix of the form nick!user@host.
func nickOf(prefix string) string {
	nick, _, _ := strings.Cut(prefix, "!")
	return nick
}
