// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package queue implements the speaker queue: the ordered waiting list
// of participants who want the floor.
//
// The queue is deliberately permissive, matching years of meeting-bot
// muscle memory: duplicates are allowed, removal matches by
// case-insensitive nick prefix and takes the first hit only, and
// entries survive until explicitly acknowledged or removed. One Queue
// belongs to exactly one bridge session and is only touched from that
// session's event loop, so it carries no locking.
package queue
