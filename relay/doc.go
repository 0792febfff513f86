// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package relay implements the bridge session: the single-goroutine
// event loop that reconciles one meeting's groupchat room and legacy
// channel into coherent shared state.
//
// A Session owns the meeting's participant registry, speaker queue and
// poll store outright. All events from both transports funnel through
// one loop and each handler runs to completion before the next event,
// so none of that state needs locking. Sessions for different meetings
// share nothing.
//
// The loop's obligations, in order of how easy they are to get wrong:
// suppressing echoes of the bridge's own messages and replayed history
// before they can re-trigger side effects; fanning chat text out to
// the opposite transport; running the command processor and delivering
// its replies to both sides; translating presence changes into
// join/leave/rename announcements; and detecting the meeting-end edge
// (participant count falling from above one to exactly one) to wind
// the session down exactly once.
//
// Transport faults are logged and survived; a failed send never takes
// the session down, because the other side may be the one still
// reachable. Shutdown is cooperative and idempotent: announcements are
// flushed, the chat log is archived, the meeting lock released.
package relay
