// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package poll implements the meeting poll subsystem: an append-only
// store of polls with per-voter multi-select ballots, and the codec
// for the two structured payloads that carry polls between transports.
//
// Polls are never deleted. Sequence numbers are assigned densely from
// 1 in materialization order and never reused; poll IDs are derived
// from the poll's content with a BLAKE3 keyed hash over a random
// nonce, so they are unique across the process lifetime regardless of
// identical questions. Re-voting overwrites a voter's previous ballot
// — tallies always reflect the latest ballot only.
//
// A Store belongs to one bridge session and is only touched from that
// session's event loop; it carries no locking.
package poll
