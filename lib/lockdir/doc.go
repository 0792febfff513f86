// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package lockdir provides advisory per-meeting lock files.
//
// The lock is the only cross-process shared resource in Meetwire. It
// exists purely to prevent two bridge sessions from managing the same
// meeting: the lifecycle monitor acquires the lock before spawning a
// session, and the session releases it on shutdown. No data travels
// through the lock file beyond the holder's PID, written for operator
// convenience.
//
// Locks go stale after a configurable window (a bridge session that
// crashed without cleanup must not block the meeting forever). A stale
// lock is broken and re-acquired in one step.
package lockdir
