// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package chatlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/meetwire/meetwire/lib/clock"
)

// Logger appends transcript lines to per-meeting dated log files.
//
// The zero value is not usable; construct with New. A nil *Logger is
// safe to call — every method becomes a no-op, which is how sessions
// run with logging disabled.
type Logger struct {
	dir     string
	baseURL string
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a Logger writing under dir. baseURL, if non-empty, is
// the public URL prefix that mirrors dir; it is only used to derive
// announcement URLs, never dialed.
func New(dir, baseURL string, clk clock.Clock, logger *slog.Logger) (*Logger, error) {
	if dir == "" {
		return nil, fmt.Errorf("chatlog: dir is required")
	}
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("chatlog: creating log directory: %w", err)
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &Logger{dir: dir, baseURL: baseURL, clock: clk, logger: logger}, nil
}

// fileName returns the dated log file name for a meeting. The date is
// the current UTC day, so a meeting spanning midnight rolls over to a
// fresh file — matching the long-standing transcript convention.
func (l *Logger) fileName(meetingKey string) string {
	date := l.clock.Now().UTC().Format("2006-01-02")
	return fmt.Sprintf("%s-%s-irc.log", meetingKey, date)
}

// Append writes one transcript line for the meeting. Errors are logged
// and swallowed: transcript loss must never take down the relay path.
func (l *Logger) Append(meetingKey, nick, text string) {
	if l == nil {
		return
	}
	line := fmt.Sprintf("[%s]\t<%s>\t%s\n",
		l.clock.Now().UTC().Format(time.RFC3339), nick, text)

	path := filepath.Join(l.dir, l.fileName(meetingKey))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Error("chatlog append failed", "path", path, "error", err)
		return
	}
	defer file.Close()
	if _, err := file.WriteString(line); err != nil {
		l.logger.Error("chatlog write failed", "path", path, "error", err)
	}
}

// URL returns the public URL of the meeting's current transcript, or
// the empty string when no base URL is configured.
func (l *Logger) URL(meetingKey string) string {
	if l == nil || l.baseURL == "" {
		return ""
	}
	return l.baseURL + "/" + l.fileName(meetingKey)
}

// Archive compresses the meeting's current log file to <name>.gz next
// to it. Called once at meeting end; the uncompressed file is kept so
// the announced transcript URL stays valid. Returns an error only for
// the caller's log line — the relay ignores it.
func (l *Logger) Archive(meetingKey string) error {
	if l == nil {
		return nil
	}
	path := filepath.Join(l.dir, l.fileName(meetingKey))
	source, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("chatlog: opening log for archive: %w", err)
	}
	defer source.Close()

	destination, err := os.Create(path + ".gz")
	if err != nil {
		return fmt.Errorf("chatlog: creating archive: %w", err)
	}
	defer destination.Close()

	writer := gzip.NewWriter(destination)
	if _, err := io.Copy(writer, source); err != nil {
		writer.Close()
		return fmt.Errorf("chatlog: compressing log: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("chatlog: finishing archive: %w", err)
	}
	return nil
}
