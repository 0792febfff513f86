// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package chatlog writes the raw meeting transcript: one dated,
// append-only log file per meeting, with tab-separated timestamped
// lines in the format long used by IRC meeting bots.
//
// Appends are fire-and-forget from the relay's point of view: a failed
// write is logged and swallowed, never surfaced to the chat or allowed
// to stall the relay path. [Logger.URL] derives the public transcript
// URL announced at meeting end, and [Logger.Archive] compresses the
// finished log once the meeting is over.
package chatlog
