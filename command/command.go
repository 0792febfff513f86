// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"

	"github.com/meetwire/meetwire/poll"
	"github.com/meetwire/meetwire/queue"
	"github.com/meetwire/meetwire/roster"
)

// Input is one chat line presented for command processing.
type Input struct {
	// Nick is the sender's display name as seen by other
	// participants.
	Nick string

	// SenderID is the sender's stable identifier, used as the voter
	// key so renames do not duplicate ballots.
	SenderID string

	// Body is the raw message text.
	Body string
}

// Options is the static configuration of the processor.
type Options struct {
	// CallNames are the names the bridge answers to in addressed
	// commands, matched case-insensitively inside the leading token.
	CallNames []string

	// HelpText is the reply to the help command.
	HelpText string

	// SIP and PSTN are the dial-in coordinates for the number
	// command.
	SIP  string
	PSTN string
}

// Roster is the processor's read-only view of the participant
// registry, consulted by the connections command.
type Roster interface {
	List() []roster.Participant
}

// Result is everything a processed line produced. A zero Result means
// the line contained no commands.
type Result struct {
	// Replies are announcement lines for both transports, in order.
	Replies []string

	// OutboundPoll is a freshly created poll to send as a structured
	// payload. The poll is not yet in the store; it is materialized
	// when the payload round-trips back in.
	OutboundPoll *poll.NewPollPayload

	// OutboundBallot is a freshly recorded ballot to mirror to the
	// remote transport as a structured payload.
	OutboundBallot *poll.AnswerPollPayload

	// Shutdown is set when the line requested orderly termination.
	Shutdown bool
}

func (r *Result) say(reply string) {
	r.Replies = append(r.Replies, reply)
}

// Processor evaluates chat lines against the session state. It belongs
// to one bridge session and is only called from that session's event
// loop.
type Processor struct {
	Queue   *queue.Queue
	Polls   *poll.Store
	Roster  Roster
	Options Options
}

// Process runs both command stages over one chat line.
func (p *Processor) Process(in Input) Result {
	var result Result
	tokens := strings.Fields(in.Body)
	if len(tokens) == 0 {
		return result
	}

	p.processAmbient(in, tokens, &result)
	p.processAddressed(in, tokens, &result)
	return result
}

// addressedTo reports whether the leading token addresses the bridge:
// one of the call names, case-insensitively, followed later in the
// token by a colon.
func (p *Processor) addressedTo(leading string) bool {
	lowered := strings.ToLower(leading)
	for _, name := range p.Options.CallNames {
		index := strings.Index(lowered, strings.ToLower(name))
		if index < 0 {
			continue
		}
		if strings.Contains(lowered[index+len(name):], ":") {
			return true
		}
	}
	return false
}
