// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package xmpp is a minimal XMPP client covering exactly what the
// bridge needs from its presence transport: SASL PLAIN authentication,
// resource binding, multi-user chat join, groupchat text and
// json-message payload sends, disco#info probes for the lifecycle
// monitor, and decoding of the inbound stanza stream into relay
// events.
//
// It is deliberately not a general XMPP library. Reconnect and backoff
// are the caller's problem: when the stream dies, the client closes
// every room's event channel and the session winds down.
package xmpp
