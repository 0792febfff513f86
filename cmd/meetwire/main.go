// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

// meetwire bridges presence-server meetings into legacy IRC channels.
//
// Two subcommands:
//
//	meetwire manage --config FILE --meeting NAME
//	    runs one bridge session for a configured meeting until the
//	    meeting ends or a shutdown command arrives.
//
//	meetwire monitor --config FILE
//	    probes the configured meeting roster and spawns a manage
//	    process for each meeting that comes alive.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "meetwire: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: meetwire <manage|monitor> [flags]")
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "manage":
		return runManage(ctx, os.Args[2:])
	case "monitor":
		return runMonitor(ctx, os.Args[2:])
	default:
		return fmt.Errorf("unknown subcommand %q (want manage or monitor)", os.Args[1])
	}
}

// newLogger builds the process logger. --verbose lowers the level to
// Debug.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
