// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package command

import "strings"

// ambientRule is one Stage A grammar entry: spellings of the command
// token, an argument-count gate, and the handler.
type ambientRule struct {
	name     string
	prefixes []string
	argsOK   func(count int) bool
	run      func(p *Processor, in Input, args []string, out *Result)
}

func anyArgs(int) bool { return true }

// ambientGroups is evaluated group by group on every chat line. Groups
// are independent of each other, but within a group the first matching
// rule wins: the bare-q query spelling is a prefix of the enqueue and
// dequeue spellings, so a lone "q+" or "q-" fires its own rule and
// never doubles as a queue listing.
var ambientGroups = [][]ambientRule{
	{
		{
			name:     "acknowledge",
			prefixes: []string{"ack"},
			argsOK:   func(count int) bool { return count == 1 },
			run:      (*Processor).runAcknowledge,
		},
	},
	{
		{
			name:     "enqueue",
			prefixes: []string{"q+", "+q"},
			argsOK:   anyArgs,
			run:      (*Processor).runEnqueue,
		},
		{
			name:     "dequeue",
			prefixes: []string{"q-", "-q"},
			argsOK:   anyArgs,
			run:      (*Processor).runDequeue,
		},
		{
			name:     "queue-query",
			prefixes: []string{"q?", "?q", "q"},
			argsOK:   func(count int) bool { return count == 0 },
			run:      (*Processor).runQueueQuery,
		},
	},
}

func (p *Processor) processAmbient(in Input, tokens []string, out *Result) {
	commandToken := strings.ToLower(tokens[0])
	args := tokens[1:]
	for _, group := range ambientGroups {
	rules:
		for _, rule := range group {
			if !rule.argsOK(len(args)) {
				continue
			}
			for _, prefix := range rule.prefixes {
				if strings.HasPrefix(commandToken, prefix) {
					rule.run(p, in, args, out)
					break rules
				}
			}
		}
	}
}

// runEnqueue adds a speaker to the queue. One argument queues that
// person instead of the sender; more than one argument is a reminder
// attached to the sender's own entry.
func (p *Processor) runEnqueue(in Input, args []string, out *Result) {
	effectiveNick := in.Nick
	reminder := ""
	if len(args) == 1 {
		effectiveNick = args[0]
	} else if len(args) > 1 {
		reminder = strings.Join(args, " ")
	}
	p.Queue.Add(effectiveNick, reminder)
	out.say(in.Nick + " has been added to the queue: " + p.Queue.String())
}

// runAcknowledge removes the named speaker and gives them the floor,
// echoing their reminder if they left one.
func (p *Processor) runAcknowledge(in Input, args []string, out *Result) {
	entry, ok := p.Queue.Remove(args[0])
	if !ok {
		out.say(args[0] + " isn't on the speaker queue.")
		return
	}
	reminder := ""
	if entry.Reminder != "" {
		reminder = " (" + entry.Reminder + ")"
	}
	out.say(entry.Nick + " has the floor" + reminder + ".")
}

func (p *Processor) runDequeue(in Input, args []string, out *Result) {
	target := in.Nick
	if len(args) > 0 {
		target = args[0]
	}
	entry, ok := p.Queue.Remove(target)
	if !ok {
		if len(args) > 0 {
			out.say(args[0] + " isn't on the speaker queue.")
		} else {
			out.say("You aren't on the speaker queue.")
		}
		return
	}
	out.say(entry.Nick + " has been removed from the queue: " + p.Queue.String())
}

func (p *Processor) runQueueQuery(in Input, args []string, out *Result) {
	if p.Queue.Len() == 0 {
		out.say("The speaker queue is empty.")
		return
	}
	out.say("The current speaker queue is: " + p.Queue.String())
}
