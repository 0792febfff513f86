// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meetwire/meetwire/lib/clock"
)

// DefaultProbeInterval is how often each configured meeting is probed.
const DefaultProbeInterval = 5 * time.Second

// deadStrikes is how many consecutive probe errors it takes to declare
// an active meeting dead. A single error is a signal, not proof.
const deadStrikes = 2

// ProbeResult is the outcome of one discovery probe.
type ProbeResult struct {
	// Meeting is the meeting name the probe targeted.
	Meeting string

	// Conference is true when the room answered with a live
	// conference identity, false for an error or item-not-found
	// style response.
	Conference bool
}

// Prober sends discovery probes and delivers their results. Probes are
// fire and forget: a missing result is simply the absence of a signal
// until the next tick.
type Prober interface {
	SendProbe(ctx context.Context, meeting string) error
	Results() <-chan ProbeResult
}

// Locker is the per-meeting advisory lock view. A held lock means a
// live session is managing the meeting; the session itself acquires
// and releases it.
type Locker interface {
	Held(meeting string) bool
}

// Spawner starts an independent bridge session for a meeting. The
// monitor does not manage the session's lifetime beyond the spawn.
type Spawner interface {
	SpawnSession(ctx context.Context, meeting string) error
}

type phase int

const (
	phaseIdle phase = iota
	phaseProbing
	phaseActive
)

type meetingState struct {
	phase   phase
	strikes int

	// spawnGrace delays the lock-released check right after a spawn:
	// the child process needs a tick's worth of time to acquire its
	// lock before an unheld lock means the session exited.
	spawnGrace int
}

// Config assembles a Monitor.
type Config struct {
	// Meetings is the roster of meeting names to watch.
	Meetings []string

	// ProbeInterval is the tick period; zero means
	// DefaultProbeInterval.
	ProbeInterval time.Duration

	Prober  Prober
	Locks   Locker
	Spawner Spawner

	// Clock is optional; nil means the real clock.
	Clock clock.Clock

	// Logger is optional; nil means slog.Default().
	Logger *slog.Logger
}

// Monitor watches a roster of meetings and spawns bridge sessions for
// the ones that come alive.
type Monitor struct {
	config Config
	logger *slog.Logger
	states map[string]*meetingState
}

// New validates the configuration and assembles a monitor with every
// meeting idle.
func New(config Config) (*Monitor, error) {
	if len(config.Meetings) == 0 {
		return nil, fmt.Errorf("monitor: at least one meeting is required")
	}
	if config.Prober == nil {
		return nil, fmt.Errorf("monitor: prober is required")
	}
	if config.Locks == nil {
		return nil, fmt.Errorf("monitor: locker is required")
	}
	if config.Spawner == nil {
		return nil, fmt.Errorf("monitor: spawner is required")
	}
	if config.ProbeInterval == 0 {
		config.ProbeInterval = DefaultProbeInterval
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	states := make(map[string]*meetingState, len(config.Meetings))
	for _, meeting := range config.Meetings {
		states[meeting] = &meetingState{}
	}
	return &Monitor{
		config: config,
		logger: config.Logger,
		states: states,
	}, nil
}

// Run probes the roster on every tick until the context is canceled.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("lifecycle monitor starting",
		"meetings", m.config.Meetings,
		"interval", m.config.ProbeInterval,
	)
	ticker := m.config.Clock.NewTicker(m.config.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.tick(ctx)
		case result, ok := <-m.config.Prober.Results():
			if !ok {
				return fmt.Errorf("monitor: prober closed its result channel")
			}
			m.handleResult(ctx, result)
		}
	}
}

// tick notices sessions that have exited (released their lock) and
// sends one probe per meeting.
func (m *Monitor) tick(ctx context.Context) {
	for _, meeting := range m.config.Meetings {
		state := m.states[meeting]
		if state.phase == phaseActive {
			switch {
			case m.config.Locks.Held(meeting):
				state.spawnGrace = 0
			case state.spawnGrace > 0:
				state.spawnGrace--
			default:
				m.logger.Info("session exited, meeting back to idle", "meeting", meeting)
				state.phase = phaseIdle
				state.strikes = 0
			}
		}

		if err := m.config.Prober.SendProbe(ctx, meeting); err != nil {
			m.logger.Error("probe send failed", "meeting", meeting, "error", err)
			continue
		}
		if state.phase == phaseIdle {
			state.phase = phaseProbing
		}
	}
}

func (m *Monitor) handleResult(ctx context.Context, result ProbeResult) {
	state, watched := m.states[result.Meeting]
	if !watched {
		m.logger.Debug("probe result for unwatched meeting", "meeting", result.Meeting)
		return
	}

	if !result.Conference {
		m.handleErrorResult(result.Meeting, state)
		return
	}

	// Healthy result: clear accumulated strikes in any phase.
	state.strikes = 0
	if state.phase == phaseActive {
		return
	}
	if m.config.Locks.Held(result.Meeting) {
		// Someone already manages this meeting (its session holds
		// the lock); just track it as active.
		state.phase = phaseActive
		return
	}

	m.logger.Info("spawning bridge session", "meeting", result.Meeting)
	if err := m.config.Spawner.SpawnSession(ctx, result.Meeting); err != nil {
		m.logger.Error("session spawn failed", "meeting", result.Meeting, "error", err)
		state.phase = phaseIdle
		return
	}
	state.phase = phaseActive
	state.spawnGrace = 1
}

// handleErrorResult debounces the room-is-gone signal for active
// meetings. Idle and probing meetings simply stay idle.
func (m *Monitor) handleErrorResult(meeting string, state *meetingState) {
	if state.phase != phaseActive {
		state.phase = phaseIdle
		return
	}
	state.strikes++
	if state.strikes < deadStrikes {
		m.logger.Debug("probe error for active meeting",
			"meeting", meeting,
			"strikes", state.strikes,
		)
		return
	}
	m.logger.Info("meeting declared dead after consecutive probe errors",
		"meeting", meeting,
	)
	state.phase = phaseIdle
	state.strikes = 0
}
