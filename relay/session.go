// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package relay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/meetwire/meetwire/command"
	"github.com/meetwire/meetwire/poll"
	"github.com/meetwire/meetwire/queue"
	"github.com/meetwire/meetwire/roster"
)

// Config assembles a bridge session.
type Config struct {
	// Meeting is the meeting key: the room's local name, also used
	// for chat log and lock file names.
	Meeting string

	// SelfNick is the display name the bridge presents in the room.
	SelfNick string

	// SelfResource is the bridge's own occupant resource, used to
	// suppress echoes of its own groupchat messages.
	SelfResource string

	Groupchat GroupchatTransport
	Channel   ChannelTransport

	// ChatLog is optional; nil disables transcript logging.
	ChatLog ChatLogger

	// Locks is optional; when set, the session releases its meeting
	// lock on shutdown.
	Locks Locker

	// Commands configures the command processor (call names, help
	// text, dial-in coordinates).
	Commands command.Options

	// OnShutdown, if set, is called exactly once when the session
	// winds down. This is the lifecycle boundary: the process owner
	// decides what termination means.
	OnShutdown func()

	// Logger is optional; nil means slog.Default().
	Logger *slog.Logger
}

// Session is one meeting's bridge: the event loop plus the state it
// owns. Create with New, drive with Run.
type Session struct {
	config Config
	logger *slog.Logger

	roster    *roster.Registry
	queue     *queue.Queue
	polls     *poll.Store
	processor *command.Processor

	announcedLogging bool
	recorded         bool
	ended            bool
	stopping         bool
	done             bool
}

// New validates the configuration and assembles a session with fresh
// state. Queue and polls live exactly as long as the session.
func New(config Config) (*Session, error) {
	if config.Meeting == "" {
		return nil, fmt.Errorf("relay: meeting is required")
	}
	if config.Groupchat == nil {
		return nil, fmt.Errorf("relay: groupchat transport is required")
	}
	if config.Channel == nil {
		return nil, fmt.Errorf("relay: channel transport is required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	session := &Session{
		config: config,
		logger: config.Logger.With("meeting", config.Meeting),
		roster: roster.New(),
		queue:  &queue.Queue{},
		polls:  poll.NewStore(),
	}
	session.processor = &command.Processor{
		Queue:   session.queue,
		Polls:   session.polls,
		Roster:  session.roster,
		Options: config.Commands,
	}
	return session, nil
}

// Run processes events from both transports until the session winds
// down or the context is canceled. Handlers run to completion one at
// a time; this is the only goroutine that touches session state.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("bridge session starting",
		"nick", s.config.SelfNick,
	)
	groupchatEvents := s.config.Groupchat.Events()
	channelEvents := s.config.Channel.Events()

	for {
		select {
		case <-ctx.Done():
			s.windDown()
			return ctx.Err()

		case event, ok := <-groupchatEvents:
			if !ok {
				s.logger.Error("groupchat transport closed")
				s.windDown()
				return fmt.Errorf("relay: groupchat transport closed")
			}
			s.handleGroupchatEvent(ctx, event)

		case event, ok := <-channelEvents:
			if !ok {
				s.logger.Error("channel transport closed")
				s.windDown()
				return fmt.Errorf("relay: channel transport closed")
			}
			s.handleChannelEvent(ctx, event)
		}

		if s.done {
			return nil
		}
	}
}

func (s *Session) handleGroupchatEvent(ctx context.Context, event GroupchatEvent) {
	switch event := event.(type) {
	case Presence:
		s.handlePresence(ctx, event)
	case Message:
		s.handleMessage(ctx, event)
	default:
		s.logger.Debug("unhandled groupchat event", "type", fmt.Sprintf("%T", event))
	}
}

func (s *Session) handlePresence(ctx context.Context, presence Presence) {
	if !presence.Available {
		change, removed, meetingEnded := s.roster.Remove(presence.From)
		if change == roster.Left {
			s.sayChannel(ctx, removed.DisplayName+" left the meeting.")
		}
		if meetingEnded {
			s.endMeeting(ctx)
		}
		return
	}

	change, previousName := s.roster.Upsert(presence.From, presence.Name)
	switch change {
	case roster.Joined:
		s.sayChannel(ctx, presence.Name+" joined the meeting.")
		if presence.Name != s.config.SelfNick {
			nick := chatNick(presence.Name)
			s.sayBoth(ctx, nick+": present+")
			s.logAppend(nick, "present+")
		}
		if !s.announcedLogging {
			if url := s.logURL(); url != "" {
				s.sayBoth(ctx, "Logging to "+url)
			}
			s.announcedLogging = true
		}
	case roster.Renamed:
		s.sayChannel(ctx, previousName+" changed their name to "+presence.Name+".")
	}

	if presence.HandRaised != nil {
		s.bridgeRaisedHand(ctx, presence)
	}

	switch presence.RecordingStatus {
	case "on":
		s.recorded = true
		s.sayChannel(ctx, "This meeting is now being recorded.")
	case "off":
		s.sayChannel(ctx, "The recording for this meeting has ended.")
	}
}

// bridgeRaisedHand translates a raised-hand flag change into a
// synthetic q+/q- on the participant's behalf, echoed to both sides
// like any other command.
func (s *Session) bridgeRaisedHand(ctx context.Context, presence Presence) {
	participant, ok := s.roster.Get(presence.From)
	if !ok {
		return
	}
	raised := *presence.HandRaised
	if raised == participant.HandRaised {
		return
	}

	synthetic := "q+"
	if !raised {
		synthetic = "q-"
	}
	nick := chatNick(participant.DisplayName)
	s.sayBoth(ctx, nick+": "+synthetic)
	result := s.processor.Process(command.Input{
		Nick:     nick,
		SenderID: presence.From.String(),
		Body:     synthetic,
	})
	s.deliver(ctx, result)
	s.roster.SetHandRaised(presence.From, raised)
}

func (s *Session) handleMessage(ctx context.Context, message Message) {
	if message.HistoryReplay {
		s.logger.Debug("discarding history replay", "from", message.From)
		return
	}

	if message.Transcript != nil {
		s.handleTranscript(ctx, message.Transcript)
		return
	}
	// Payloads are handled before own-echo suppression: a poll we
	// created materializes when our own payload round-trips back.
	own := message.From.Resource() == s.config.SelfResource
	if message.Payload != nil {
		s.handlePayload(ctx, message.Payload, own)
		return
	}

	if own {
		return
	}
	participant, ok := s.roster.Get(message.From)
	if !ok {
		s.logger.Debug("message from unknown occupant", "from", message.From)
		return
	}
	nick := chatNick(participant.DisplayName)
	s.logAppend(nick, message.Body)
	s.sayChannel(ctx, nick+": "+message.Body)
	s.deliver(ctx, s.processor.Process(command.Input{
		Nick:     nick,
		SenderID: message.From.String(),
		Body:     message.Body,
	}))
}

// handleTranscript forwards finalized speech-to-text segments to the
// legacy channel. Transcripts are relayed content, never commands.
func (s *Session) handleTranscript(ctx context.Context, transcript *Transcript) {
	if transcript.Interim {
		return
	}
	nick := chatNick(transcript.Name)
	s.logAppend(nick, transcript.Text)
	s.sayChannel(ctx, nick+": "+transcript.Text)
}

// handlePayload materializes structured poll payloads. This is the
// round-trip point: polls created by our own command processor enter
// the store here, when the payload comes back from the room, so both
// sides assign sequence numbers from the same event. Ballots are the
// opposite case: a vote command applies and announces immediately, so
// our own mirrored ballot coming back must be discarded — Vote is
// last-write-wins and would announce the same vote twice.
func (s *Session) handlePayload(ctx context.Context, raw []byte, own bool) {
	decoded, err := poll.DecodePayload(raw)
	if err != nil {
		s.logger.Debug("dropping undecodable payload", "error", err)
		return
	}

	switch payload := decoded.(type) {
	case *poll.NewPollPayload:
		created, err := s.polls.Add(
			payload.PollID, payload.Question, payload.Answers, payload.CreatorName)
		if err != nil {
			// Duplicate delivery of a known poll is a silent discard.
			s.logger.Debug("dropping poll payload", "pollId", payload.PollID, "error", err)
			return
		}
		s.sayBoth(ctx, fmt.Sprintf("%s created poll #%d: %s",
			created.CreatorName, created.Num, created.Question))
		s.sayBoth(ctx, "Options: "+numberedOptions(created.Answers))

	case *poll.AnswerPollPayload:
		if own {
			s.logger.Debug("discarding own ballot echo", "pollId", payload.PollID)
			return
		}
		ballot := poll.Ballot{
			VoterID:   payload.VoterID,
			VoterName: payload.VoterName,
			Answers:   payload.Answers,
		}
		if err := s.polls.Vote(payload.PollID, ballot); err != nil {
			s.logger.Debug("dropping ballot payload", "pollId", payload.PollID, "error", err)
			return
		}
		voted, _ := s.polls.Get(payload.PollID)
		s.sayBoth(ctx, fmt.Sprintf("%s voted on poll #%d.", payload.VoterName, voted.Num))
	}
}

func (s *Session) handleChannelEvent(ctx context.Context, event ChannelEvent) {
	switch event := event.(type) {
	case ChannelJoined:
		s.logger.Info("joined legacy channel",
			"channel", event.Channel,
			"nick", event.Nick,
		)
	case ChannelMessage:
		s.logAppend(event.Nick, event.Text)
		s.sayGroupchat(ctx, event.Nick+": "+event.Text)
		s.deliver(ctx, s.processor.Process(command.Input{
			Nick:     event.Nick,
			SenderID: "channel/" + event.Nick,
			Body:     event.Text,
		}))
	}
}

// deliver sends a command result to the world: replies to both
// transports, payloads to the groupchat room, shutdown to the
// lifecycle boundary.
func (s *Session) deliver(ctx context.Context, result command.Result) {
	for _, reply := range result.Replies {
		s.sayBoth(ctx, reply)
	}
	if result.OutboundPoll != nil {
		s.sendPayload(ctx, result.OutboundPoll)
	}
	if result.OutboundBallot != nil {
		s.sendPayload(ctx, result.OutboundBallot)
	}
	if result.Shutdown {
		s.windDown()
	}
}

func (s *Session) sendPayload(ctx context.Context, payload poll.Payload) {
	encoded, err := poll.EncodePayload(payload)
	if err != nil {
		s.logger.Error("payload encoding failed", "error", err)
		return
	}
	if err := s.config.Groupchat.SendPayload(ctx, encoded); err != nil {
		s.logger.Error("payload send failed", "error", err)
	}
}

// endMeeting runs the meeting-end announcements. The roster fires the
// end edge exactly once, but the guard keeps a shutdown command racing
// a final leave from announcing twice.
func (s *Session) endMeeting(ctx context.Context) {
	if s.ended {
		return
	}
	s.ended = true

	if url := s.logURL(); url != "" {
		s.sayBoth(ctx, "Raw transcript at "+url)
		if s.recorded {
			s.sayBoth(ctx, "Raw audio at "+strings.Replace(url, "-irc.log", ".ogg", 1))
			s.sayBoth(ctx, "Raw video at "+strings.Replace(url, "-irc.log", ".mp4", 1))
		}
	}
	s.sayChannel(ctx, "The meeting has ended.")
	s.windDown()
}

// windDown is the idempotent cooperative shutdown path: archive the
// transcript, release the meeting lock, notify the lifecycle boundary
// and let Run return after the current handler.
func (s *Session) windDown() {
	if s.stopping {
		return
	}
	s.stopping = true
	s.done = true
	s.logger.Info("bridge session winding down")

	if s.config.ChatLog != nil {
		if err := s.config.ChatLog.Archive(s.config.Meeting); err != nil {
			s.logger.Error("transcript archive failed", "error", err)
		}
	}
	if s.config.Locks != nil {
		s.config.Locks.Release(s.config.Meeting)
	}
	if s.config.OnShutdown != nil {
		s.config.OnShutdown()
	}
}

// Transport faults are logged and survived; the other side may still
// be reachable.

func (s *Session) sayChannel(ctx context.Context, text string) {
	if err := s.config.Channel.Say(ctx, text); err != nil {
		s.logger.Error("channel send failed", "error", err)
	}
}

func (s *Session) sayGroupchat(ctx context.Context, text string) {
	if err := s.config.Groupchat.SendText(ctx, text); err != nil {
		s.logger.Error("groupchat send failed", "error", err)
	}
}

func (s *Session) sayBoth(ctx context.Context, text string) {
	s.sayChannel(ctx, text)
	s.sayGroupchat(ctx, text)
}

func (s *Session) logAppend(nick, text string) {
	if s.config.ChatLog != nil {
		s.config.ChatLog.Append(s.config.Meeting, nick, text)
	}
}

func (s *Session) logURL() string {
	if s.config.ChatLog == nil {
		return ""
	}
	return s.config.ChatLog.URL(s.config.Meeting)
}

// chatNick renders a display name as a channel-safe nick.
func chatNick(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// numberedOptions renders poll options as "1) A, 2) B".
func numberedOptions(answers []string) string {
	rendered := make([]string, len(answers))
	for i, answer := range answers {
		rendered[i] = fmt.Sprintf("%d) %s", i+1, answer)
	}
	return strings.Join(rendered, ", ")
}
