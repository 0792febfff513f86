// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/pflag"

	"github.com/meetwire/meetwire/config"
	"github.com/meetwire/meetwire/lib/lockdir"
	"github.com/meetwire/meetwire/monitor"
	"github.com/meetwire/meetwire/transport/xmpp"
)

// runMonitor runs the lifecycle monitor over the configured roster.
func runMonitor(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("meetwire monitor", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to the meetwire config file")
	verbose := flags.Bool("verbose", false, "log at debug level")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return fmt.Errorf("--config is required")
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		return err
	}
	logger := newLogger(*verbose)

	xmppClient, err := xmpp.Dial(ctx, xmpp.ClientConfig{
		Address:  cfg.XMPP.Address,
		Domain:   cfg.XMPP.Domain,
		Username: cfg.XMPP.Username,
		Password: cfg.XMPP.Password,
		UseTLS:   cfg.XMPP.UseTLS,
		Resource: cfg.XMPP.Resource + "-monitor",
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer xmppClient.Close()

	watcher, err := monitor.New(monitor.Config{
		Meetings:      cfg.MeetingNames(),
		ProbeInterval: cfg.ProbeInterval(),
		Prober:        newDiscoProber(xmppClient, cfg),
		Locks: &lockdir.Dir{
			Path:       cfg.Locks.Dir,
			StaleAfter: cfg.LockStaleAfter(),
			Logger:     logger,
		},
		Spawner: &execSpawner{configPath: *configPath, verbose: *verbose, logger: logger},
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// discoProber adapts the XMPP client's discovery probes to the
// monitor's collaborator shape: meeting names in, probe results out.
type discoProber struct {
	client  *xmpp.Client
	cfg     *config.Config
	results chan monitor.ProbeResult
}

func newDiscoProber(client *xmpp.Client, cfg *config.Config) *discoProber {
	p := &discoProber{
		client:  client,
		cfg:     cfg,
		results: make(chan monitor.ProbeResult, 16),
	}
	go p.forward()
	return p
}

// forward copies disco outcomes until the client's stream dies, then
// closes the result channel so the monitor exits.
func (p *discoProber) forward() {
	defer close(p.results)
	for result := range p.client.DiscoResults() {
		p.results <- monitor.ProbeResult{
			Meeting:    result.Meeting,
			Conference: result.Conference,
		}
	}
}

func (p *discoProber) SendProbe(ctx context.Context, meeting string) error {
	room, err := p.cfg.Room(meeting)
	if err != nil {
		return err
	}
	return p.client.SendDiscoProbe(ctx, room)
}

func (p *discoProber) Results() <-chan monitor.ProbeResult {
	return p.results
}

// execSpawner starts bridge sessions by re-executing the running binary
// with the manage subcommand. Sessions outlive the monitor; each one is
// an independent process guarded by its meeting lock.
type execSpawner struct {
	configPath string
	verbose    bool
	logger     *slog.Logger
}

func (s *execSpawner) SpawnSession(ctx context.Context, meeting string) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving own binary: %w", err)
	}

	args := []string{"manage", "--config", s.configPath, "--meeting", meeting}
	if s.verbose {
		args = append(args, "--verbose")
	}
	child := exec.Command(self, args...)
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	if err := child.Start(); err != nil {
		return fmt.Errorf("starting session for %s: %w", meeting, err)
	}

	// Reap the session in the background; its exit is observed through
	// the released lock, not the exit status.
	go func() {
		err := child.Wait()
		s.logger.Info("bridge session process exited",
			"meeting", meeting,
			"pid", child.Process.Pid,
			"error", err,
		)
	}()
	return nil
}
