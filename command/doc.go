// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package command interprets the small command language embedded in
// chat text. Processing is a pure function over the input line and the
// session's mutable state (speaker queue, poll store, participant
// registry); the caller decides where the resulting replies go.
//
// Commands come in two stages. Stage A is ambient: enqueue, dequeue,
// acknowledge and queue-query tokens are recognized on every chat line
// no matter who it is addressed to, matched case-insensitively by
// prefix. The acknowledge rule is independent of the queue rules, but
// enqueue, dequeue and queue-query chain: their spellings overlap (bare
// "q" is a prefix of "q+" and "q-") and only the first match in the
// chain fires. Stage B is
// addressed: the line's leading token must contain one of the bridge's
// call names followed by a colon, and the line must have at least two
// whitespace tokens; otherwise Stage B produces nothing at all.
//
// Both stages are driven by ordered grammar tables rather than ad-hoc
// prefix checks, so overlapping spellings ("polls" before "poll",
// "votes" before "vote") resolve by table position and each rule is
// testable on its own.
package command
