// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package queue

import "strings"

// Entry is one spot on the speaker queue.
type Entry struct {
	// Nick is the effective speaker name. It may differ from the
	// message author when someone queues on another's behalf.
	Nick string

	// Reminder is an optional note attached at enqueue time, echoed
	// back when the speaker is acknowledged.
	Reminder string
}

// Queue is a FIFO speaker queue. The zero value is ready to use.
type Queue struct {
	entries []Entry
}

// Add appends an entry to the back of the queue. Duplicate nicks are
// allowed.
func (q *Queue) Add(nick, reminder string) {
	q.entries = append(q.entries, Entry{Nick: nick, Reminder: reminder})
}

// Remove removes the first entry whose nick begins with pattern
// (case-insensitive) and returns it. When nothing matches, ok is
// false and the queue is unchanged.
func (q *Queue) Remove(pattern string) (Entry, bool) {
	lowered := strings.ToLower(pattern)
	for i, entry := range q.entries {
		if strings.HasPrefix(strings.ToLower(entry.Nick), lowered) {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return entry, true
		}
	}
	return Entry{}, false
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Nicks returns the queued nicks in floor order.
func (q *Queue) Nicks() []string {
	nicks := make([]string, len(q.entries))
	for i, entry := range q.entries {
		nicks[i] = entry.Nick
	}
	return nicks
}

// String renders the queue for announcements: comma-separated nicks in
// floor order, or a stock phrase when empty.
func (q *Queue) String() string {
	if len(q.entries) == 0 {
		return "no one is left on the queue"
	}
	return strings.Join(q.Nicks(), ", ")
}
