// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/meetwire/meetwire/command"
	"github.com/meetwire/meetwire/config"
	"github.com/meetwire/meetwire/lib/chatlog"
	"github.com/meetwire/meetwire/lib/lockdir"
	"github.com/meetwire/meetwire/lib/ref"
	"github.com/meetwire/meetwire/relay"
	"github.com/meetwire/meetwire/transport/irc"
	"github.com/meetwire/meetwire/transport/xmpp"
)

// runManage runs one bridge session for one meeting.
func runManage(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("meetwire manage", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to the meetwire config file")
	meetingName := flags.String("meeting", "", "meeting to bridge")
	verbose := flags.Bool("verbose", false, "log at debug level")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return fmt.Errorf("--config is required")
	}
	if *meetingName == "" {
		return fmt.Errorf("--meeting is required")
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		return err
	}
	meeting, err := cfg.Meeting(*meetingName)
	if err != nil {
		return err
	}
	channel, err := ref.ParseChannelName(meeting.Channel)
	if err != nil {
		return fmt.Errorf("meeting %s: %w", meeting.Name, err)
	}
	logger := newLogger(*verbose)

	// The lock marks the meeting as managed; the monitor will not
	// spawn a second session while it is held. The session releases it
	// on wind-down.
	locks := &lockdir.Dir{
		Path:       cfg.Locks.Dir,
		StaleAfter: cfg.LockStaleAfter(),
		Logger:     logger,
	}
	if !locks.TryAcquire(meeting.Name) {
		return fmt.Errorf("meeting %s is already managed (lock held)", meeting.Name)
	}
	released := false
	defer func() {
		if !released {
			locks.Release(meeting.Name)
		}
	}()

	chatLog, err := chatlog.New(cfg.Logs.Dir, cfg.Logs.BaseURL, nil, logger)
	if err != nil {
		return err
	}

	xmppClient, err := xmpp.Dial(ctx, xmpp.ClientConfig{
		Address:  cfg.XMPP.Address,
		Domain:   cfg.XMPP.Domain,
		Username: cfg.XMPP.Username,
		Password: cfg.XMPP.Password,
		UseTLS:   cfg.XMPP.UseTLS,
		Resource: cfg.XMPP.Resource,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer xmppClient.Close()

	room, err := cfg.Room(meeting.Name)
	if err != nil {
		return err
	}
	groupchat, err := xmppClient.JoinRoom(ctx, room, cfg.Bridge.Nick)
	if err != nil {
		return err
	}

	ircClient, err := irc.Dial(ctx, irc.ClientConfig{
		Address:    cfg.IRC.Address,
		Nick:       cfg.IRC.Nick,
		Password:   cfg.IRC.Password,
		Channel:    channel,
		ChannelKey: meeting.ChannelKey,
		UseTLS:     cfg.IRC.UseTLS,
		ServerName: cfg.IRC.ServerName,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer ircClient.Close()

	session, err := relay.New(relay.Config{
		Meeting:      meeting.Name,
		SelfNick:     cfg.Bridge.Nick,
		SelfResource: groupchat.Resource(),
		Groupchat:    groupchat,
		Channel:      ircClient,
		ChatLog:      chatLog,
		Locks:        locks,
		Commands: command.Options{
			CallNames: cfg.Bridge.CallNames,
			HelpText:  cfg.Bridge.HelpText,
			SIP:       cfg.Bridge.SIP,
			PSTN:      cfg.Bridge.PSTN,
		},
		OnShutdown: func() {
			// The session released the lock itself.
			released = true
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}

	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
