// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package monitor implements the lifecycle monitor: the periodic
// discovery loop that decides when each configured meeting needs a
// bridge session.
//
// Every meeting runs a small state machine, idle to probing to active
// and back. On each tick the monitor sends a fire-and-forget discovery
// probe per meeting; a result reporting a live conference identity for
// an unmanaged meeting spawns exactly one session, guarded by the
// per-meeting advisory lock. Probe errors are treated as signals, not
// proof: transport races can make a live room look missing for one
// probe, so an active meeting is only declared dead after two
// consecutive error results with no healthy result in between.
//
// A session signals its own end by releasing its lock; the monitor
// notices the free lock on the next tick and returns the meeting to
// idle, so a later occupant re-activates it with fresh state.
package monitor
