// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package lockdir

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/meetwire/meetwire/lib/clock"
)

// DefaultStaleAfter is how old a lock file may grow before it is
// considered abandoned. 130 minutes comfortably outlasts the longest
// meetings this system bridges.
const DefaultStaleAfter = 130 * time.Minute

// Dir manages advisory lock files for meetings under one directory.
type Dir struct {
	// Path is the directory holding lock files. Required.
	Path string

	// StaleAfter is the age past which a lock is considered abandoned
	// and may be broken. Zero means DefaultStaleAfter.
	StaleAfter time.Duration

	// Clock is used for staleness checks. Nil means the real clock.
	Clock clock.Clock

	// Logger receives lock lifecycle events. Nil means slog.Default().
	Logger *slog.Logger
}

func (d *Dir) clock() clock.Clock {
	if d.Clock != nil {
		return d.Clock
	}
	return clock.Real()
}

func (d *Dir) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func (d *Dir) staleAfter() time.Duration {
	if d.StaleAfter > 0 {
		return d.StaleAfter
	}
	return DefaultStaleAfter
}

// lockPath returns the lock file path for a meeting key.
func (d *Dir) lockPath(meetingKey string) string {
	return filepath.Join(d.Path, "meetwire-"+meetingKey+".lock")
}

// TryAcquire attempts to take the lock for a meeting. Returns true on
// success. A lock older than the stale window is broken and
// re-acquired. The check-then-create window after breaking a stale
// lock is acceptable for an advisory lock: the monitor is the only
// acquirer on a given host.
func (d *Dir) TryAcquire(meetingKey string) bool {
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		d.logger().Error("lock directory unavailable", "path", d.Path, "error", err)
		return false
	}

	path := d.lockPath(meetingKey)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err == nil {
		fmt.Fprintf(file, "%d\n", os.Getpid())
		file.Close()
		return true
	}
	if !os.IsExist(err) {
		d.logger().Error("lock acquire failed", "path", path, "error", err)
		return false
	}

	info, statErr := os.Stat(path)
	if statErr != nil {
		// Raced with a concurrent release; treat as held.
		return false
	}
	if d.clock().Now().Sub(info.ModTime()) < d.staleAfter() {
		return false
	}

	d.logger().Info("breaking stale meeting lock",
		"path", path,
		"age", d.clock().Now().Sub(info.ModTime()),
	)
	if removeErr := os.Remove(path); removeErr != nil {
		d.logger().Error("stale lock removal failed", "path", path, "error", removeErr)
		return false
	}

	file, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return false
	}
	fmt.Fprintf(file, "%d\n", os.Getpid())
	file.Close()
	return true
}

// Release removes the lock file for a meeting. Errors are logged and
// ignored — a failed release is recovered by the stale window.
func (d *Dir) Release(meetingKey string) {
	path := d.lockPath(meetingKey)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		d.logger().Error("lock release failed", "path", path, "error", err)
	}
}

// Held reports whether a live (non-stale) lock exists for the meeting.
// The lifecycle monitor uses this to notice that a session has exited
// and released its lock.
func (d *Dir) Held(meetingKey string) bool {
	info, err := os.Stat(d.lockPath(meetingKey))
	if err != nil {
		return false
	}
	return d.clock().Now().Sub(info.ModTime()) < d.staleAfter()
}
