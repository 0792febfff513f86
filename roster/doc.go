// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package roster implements the participant registry: the
// authoritative view of who is in the meeting, derived entirely from
// presence events on the groupchat transport.
//
// The registry is deliberately conservative about creating entries.
// Presence protocols commonly deliver a participant's display name in
// a later event than the join itself; an event with no resolvable name
// is treated as "not yet ready" and creates nothing, so a participant
// appears exactly once, when their name is known. A later event for
// the same occupant with a different name is a rename, not a re-join.
//
// Meeting end is an edge, not a level: [Registry.Remove] reports when
// the live count transitions from above one to exactly one (only the
// bridge itself remains), and reports it exactly once per transition.
package roster
