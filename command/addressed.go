// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meetwire/meetwire/poll"
)

// addressedRule is one Stage B grammar entry. The first matching rule
// wins; a line matching none of them gets the unknown-command echo.
type addressedRule struct {
	name  string
	match func(command string, args []string) bool
	run   func(p *Processor, in Input, args []string, out *Result)
}

func prefixMatch(prefix string, argsOK func(count int) bool) func(string, []string) bool {
	return func(command string, args []string) bool {
		return strings.HasPrefix(command, prefix) && argsOK(len(args))
	}
}

func noArgs(count int) bool    { return count == 0 }
func atMostOne(count int) bool { return count <= 1 }

// addressedRules is ordered: "polls" and "votes" sit above their
// singular spellings so prefix matching does not swallow them.
var addressedRules = []addressedRule{
	{"connections", prefixMatch("connections", noArgs), (*Processor).runConnections},
	{"number", prefixMatch("number", noArgs), (*Processor).runNumber},
	{"help", prefixMatch("help", noArgs), (*Processor).runHelp},
	{"shutdown", prefixMatch("shutdown", noArgs), (*Processor).runShutdown},
	{
		"create-poll",
		func(command string, args []string) bool {
			return strings.HasPrefix(command, "create") &&
				len(args) > 0 && strings.HasPrefix(strings.ToLower(args[0]), "poll")
		},
		(*Processor).runCreatePoll,
	},
	{"polls", prefixMatch("polls", noArgs), (*Processor).runPolls},
	{"votes", prefixMatch("votes", atMostOne), (*Processor).runVotes},
	{"poll", prefixMatch("poll", atMostOne), (*Processor).runShowPoll},
	{"vote", prefixMatch("vote", anyArgs), (*Processor).runVote},
}

func (p *Processor) processAddressed(in Input, tokens []string, out *Result) {
	if !p.addressedTo(tokens[0]) {
		return
	}
	// The address token plus at least a command name.
	if len(tokens) < 2 {
		return
	}
	command := strings.ToLower(tokens[1])
	args := tokens[2:]

	for _, rule := range addressedRules {
		if rule.match(command, args) {
			rule.run(p, in, args, out)
			return
		}
	}
	out.say("Unknown command: " + strings.TrimSpace(tokens[1]+" "+strings.Join(args, " ")))
}

func (p *Processor) runConnections(in Input, args []string, out *Result) {
	participants := p.Roster.List()
	if len(participants) == 0 {
		out.say("No one is in the conference.")
		return
	}
	entries := make([]string, len(participants))
	for i, participant := range participants {
		entries[i] = participant.DisplayName + " (" + participant.ID.Tail(4) + ")"
	}
	out.say("Conference participants are: " + strings.Join(entries, ", ") + ".")
}

func (p *Processor) runNumber(in Input, args []string, out *Result) {
	out.say("You may dial in using the free/preferred option - " + p.Options.SIP +
		" - or the expensive option - " + p.Options.PSTN)
}

// defaultHelpText is the help reply when configuration supplies none.
const defaultHelpText = "Commands: q+ [NICK|REMINDER], q- [NICK], ack NICK, q?, " +
	"connections, number, create poll QUESTION | OPTION | OPTION, " +
	"vote N[,M] [on poll K], poll [K], polls, votes [K], shutdown."

func (p *Processor) runHelp(in Input, args []string, out *Result) {
	if p.Options.HelpText == "" {
		out.say(defaultHelpText)
		return
	}
	out.say(p.Options.HelpText)
}

func (p *Processor) runShutdown(in Input, args []string, out *Result) {
	out.Shutdown = true
}

// runCreatePoll parses "create poll QUESTION | OPT | OPT [| ...]". The
// poll is not materialized here: a new-poll payload with a fresh ID is
// handed back for sending, and the store picks it up when the payload
// round-trips in from the transport.
func (p *Processor) runCreatePoll(in Input, args []string, out *Result) {
	raw := strings.Join(args[1:], " ")
	var segments []string
	for _, segment := range strings.Split(raw, "|") {
		if trimmed := strings.TrimSpace(segment); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	if len(segments) < 3 {
		out.say("A poll needs a question and at least two options. " +
			"Try: create poll QUESTION | OPTION | OPTION")
		return
	}
	question, answers := segments[0], segments[1:]
	out.OutboundPoll = &poll.NewPollPayload{
		PollID:      poll.NewID(question, answers, in.Nick),
		Question:    question,
		Answers:     answers,
		CreatorName: in.Nick,
	}
}

func (p *Processor) runPolls(in Input, args []string, out *Result) {
	listed := p.Polls.List()
	if len(listed) == 0 {
		out.say("There are no polls yet.")
		return
	}
	for _, listedPoll := range listed {
		out.say(fmt.Sprintf("Poll #%d: %s (%d options, %d voters)",
			listedPoll.Num, listedPoll.Question, len(listedPoll.Answers), listedPoll.VoterCount()))
	}
}

func (p *Processor) runShowPoll(in Input, args []string, out *Result) {
	reference := ""
	if len(args) == 1 {
		reference = args[0]
	}
	target, err := p.Polls.Resolve(reference)
	if err != nil {
		p.sayPollNotFound(reference, out)
		return
	}
	out.say(fmt.Sprintf("Poll #%d by %s: %s", target.Num, target.CreatorName, target.Question))
	out.say("Options: " + numberedOptions(target.Answers))
}

func (p *Processor) runVotes(in Input, args []string, out *Result) {
	reference := ""
	if len(args) == 1 {
		reference = args[0]
	}
	target, err := p.Polls.Resolve(reference)
	if err != nil {
		p.sayPollNotFound(reference, out)
		return
	}
	out.say(fmt.Sprintf("Poll #%d: %s (%d voters)", target.Num, target.Question, target.VoterCount()))
	for i, tally := range target.Tally() {
		line := fmt.Sprintf("%d) %s: %d (%d%%)", i+1, tally.Label, tally.Count, tally.Percent)
		if len(tally.Voters) > 0 {
			line += " - " + strings.Join(tally.Voters, ", ")
		}
		out.say(line)
	}
}

const voteUsage = "Try: vote 1 or vote 1,3 on poll 2"

// runVote parses "vote [option(s)] N[,M,...] [on|in [poll] [#]K]" and
// records the ballot. Validation is all-or-nothing: a single bad option
// number rejects the whole command with no partial vote applied.
func (p *Processor) runVote(in Input, args []string, out *Result) {
	rest := args
	if len(rest) > 0 && strings.HasPrefix(strings.ToLower(rest[0]), "option") {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		out.say(voteUsage)
		return
	}

	// Everything before an "on"/"in" separator is option numbers;
	// everything after is the poll reference.
	referenceIndex := -1
	for i, token := range rest {
		lowered := strings.ToLower(token)
		if lowered == "on" || lowered == "in" {
			referenceIndex = i
			break
		}
	}
	numberTokens := rest
	reference := ""
	if referenceIndex >= 0 {
		numberTokens = rest[:referenceIndex]
		referenceTokens := rest[referenceIndex+1:]
		if len(referenceTokens) > 0 && strings.ToLower(referenceTokens[0]) == "poll" {
			referenceTokens = referenceTokens[1:]
		}
		if len(referenceTokens) != 1 {
			out.say(voteUsage)
			return
		}
		reference = referenceTokens[0]
	}

	target, err := p.Polls.Resolve(reference)
	if err != nil {
		p.sayPollNotFound(reference, out)
		return
	}

	selections := make([]bool, len(target.Answers))
	selected := 0
	for _, part := range strings.Split(strings.Join(numberTokens, ""), ",") {
		if part == "" {
			continue
		}
		optionNumber, err := strconv.Atoi(part)
		if err != nil {
			out.say(fmt.Sprintf("%q isn't an option number.", part))
			return
		}
		if optionNumber < 1 || optionNumber > len(target.Answers) {
			out.say(fmt.Sprintf("Poll #%d only has %d options.", target.Num, len(target.Answers)))
			return
		}
		selections[optionNumber-1] = true
		selected++
	}
	if selected == 0 {
		out.say(voteUsage)
		return
	}

	ballot := poll.Ballot{VoterID: in.SenderID, VoterName: in.Nick, Answers: selections}
	if err := p.Polls.Vote(target.ID, ballot); err != nil {
		out.say("That vote couldn't be recorded.")
		return
	}
	out.say(fmt.Sprintf("Recorded %s's vote on poll #%d.", in.Nick, target.Num))
	out.OutboundBallot = &poll.AnswerPollPayload{
		PollID:    target.ID,
		VoterID:   in.SenderID,
		VoterName: in.Nick,
		Answers:   selections,
	}
}

// sayPollNotFound reports a failed poll reference with contextual help.
func (p *Processor) sayPollNotFound(reference string, out *Result) {
	if p.Polls.Len() == 0 {
		out.say("There are no polls yet.")
		return
	}
	numbers := p.Polls.Numbers()
	known := make([]string, len(numbers))
	for i, number := range numbers {
		known[i] = fmt.Sprintf("#%d", number)
	}
	out.say(fmt.Sprintf("There is no poll %q. Known polls: %s.",
		reference, strings.Join(known, ", ")))
}

// numberedOptions renders a poll's options as "1) A, 2) B, 3) C".
func numberedOptions(answers []string) string {
	rendered := make([]string, len(answers))
	for i, answer := range answers {
		rendered[i] = fmt.Sprintf("%d) %s", i+1, answer)
	}
	return strings.Join(rendered, ", ")
}
