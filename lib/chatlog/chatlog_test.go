// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package chatlog

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/meetwire/meetwire/lib/clock"
)

func fixedClock() *clock.FakeClock {
	return clock.Fake(time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC))
}

func TestAppendWritesDatedFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(dir, "", fixedClock(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Append("weekly", "alice", "hello there")
	logger.Append("weekly", "bob", "hi")

	data, err := os.ReadFile(filepath.Join(dir, "weekly-2026-03-01-irc.log"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
	}
	if want := "[2026-03-01T15:04:05Z]\t<alice>\thello there"; lines[0] != want {
		t.Fatalf("line 0: got %q, want %q", lines[0], want)
	}
}

func TestURL(t *testing.T) {
	logger, err := New(t.TempDir(), "https://logs.example.org/meetings", fixedClock(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := "https://logs.example.org/meetings/weekly-2026-03-01-irc.log"
	if got := logger.URL("weekly"); got != want {
		t.Fatalf("URL: got %q, want %q", got, want)
	}
}

func TestURL_NoBase(t *testing.T) {
	logger, err := New(t.TempDir(), "", fixedClock(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := logger.URL("weekly"); got != "" {
		t.Fatalf("URL without base: got %q, want empty", got)
	}
}

func TestNilLoggerIsNoOp(t *testing.T) {
	var logger *Logger
	logger.Append("weekly", "alice", "hello")
	if got := logger.URL("weekly"); got != "" {
		t.Fatalf("nil URL: got %q", got)
	}
	if err := logger.Archive("weekly"); err != nil {
		t.Fatalf("nil Archive: %v", err)
	}
}

func TestArchive(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(dir, "", fixedClock(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Append("weekly", "alice", "the only line")

	if err := logger.Archive("weekly"); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	archived, err := os.Open(filepath.Join(dir, "weekly-2026-03-01-irc.log.gz"))
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	defer archived.Close()

	reader, err := gzip.NewReader(archived)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	decompressed, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("decompressing: %v", err)
	}
	if !bytes.Contains(decompressed, []byte("<alice>\tthe only line")) {
		t.Fatalf("archive content missing line: %q", decompressed)
	}

	// The original log is kept so the announced URL stays valid.
	if _, err := os.Stat(filepath.Join(dir, "weekly-2026-03-01-irc.log")); err != nil {
		t.Fatalf("original log removed: %v", err)
	}
}

func TestArchive_MissingLog(t *testing.T) {
	logger, err := New(t.TempDir(), "", fixedClock(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := logger.Archive("never-logged"); err == nil {
		t.Fatal("expected error archiving a meeting that never logged")
	}
}
