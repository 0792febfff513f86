// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package irc is a minimal IRC client covering exactly what the bridge
// needs from its legacy channel transport: registration, one channel
// join, PRIVMSG in and out, and PING/PONG keepalive.
//
// Outbound lines go through a dedicated writer goroutine with a
// buffered queue, so a stalled server never blocks the bridge
// session's event loop. When the connection dies the client closes its
// event channel and the session winds down; reconnecting is the
// caller's decision.
package irc
