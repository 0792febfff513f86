// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meetwire/meetwire/lib/ref"
)

// Config is the master configuration for meetwire.
type Config struct {
	// XMPP configures the presence-server connection shared by every
	// bridge session and the lifecycle monitor.
	XMPP XMPPConfig `yaml:"xmpp"`

	// IRC configures the legacy channel server connection.
	IRC IRCConfig `yaml:"irc"`

	// Bridge configures bridge behavior common to all meetings.
	Bridge BridgeConfig `yaml:"bridge"`

	// Logs configures chat log storage and publication.
	Logs LogsConfig `yaml:"logs"`

	// Locks configures the per-meeting lock directory.
	Locks LocksConfig `yaml:"locks"`

	// Monitor configures the lifecycle monitor.
	Monitor MonitorConfig `yaml:"monitor"`

	// Meetings is the roster of meetings the monitor watches and the
	// manage subcommand may bridge.
	Meetings []MeetingConfig `yaml:"meetings"`
}

// XMPPConfig configures the presence-server connection.
type XMPPConfig struct {
	// Address is the server's host:port.
	Address string `yaml:"address"`

	// Domain is the authentication domain.
	Domain string `yaml:"domain"`

	// ConferenceService is the groupchat service domain; meeting names
	// become rooms under it.
	ConferenceService string `yaml:"conference_service"`

	// Username and Password authenticate the bridge account.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// UseTLS wraps the connection in TLS.
	UseTLS bool `yaml:"use_tls"`

	// Resource is the connection resource. Default: meetwire.
	Resource string `yaml:"resource"`
}

// IRCConfig configures the legacy channel server connection.
type IRCConfig struct {
	// Address is the server's host:port.
	Address string `yaml:"address"`

	// Nick is the bridge's channel nick. Default: meetwire.
	Nick string `yaml:"nick"`

	// Password, if set, is sent before registration.
	Password string `yaml:"password"`

	// UseTLS wraps the connection in TLS.
	UseTLS bool `yaml:"use_tls"`

	// ServerName overrides the TLS server name.
	ServerName string `yaml:"server_name"`
}

// BridgeConfig configures bridge behavior common to all meetings.
type BridgeConfig struct {
	// Nick is the display name announced in the groupchat.
	// Default: Meetwire Bot.
	Nick string `yaml:"nick"`

	// CallNames are the names the bridge answers to in addressed
	// commands. Default: meetwire.
	CallNames []string `yaml:"call_names"`

	// HelpText is the reply to the help command.
	HelpText string `yaml:"help_text"`

	// SIP and PSTN are the dial-in coordinates reported by the number
	// command.
	SIP  string `yaml:"sip"`
	PSTN string `yaml:"pstn"`
}

// LogsConfig configures chat log storage and publication.
type LogsConfig struct {
	// Dir is where log files are written.
	Dir string `yaml:"dir"`

	// BaseURL is the public prefix under which Dir is served.
	BaseURL string `yaml:"base_url"`
}

// LocksConfig configures the per-meeting lock directory.
type LocksConfig struct {
	// Dir is where lock files are created.
	Dir string `yaml:"dir"`

	// StaleAfter is how old a lock may be before it is broken.
	// Default: 130m.
	StaleAfter string `yaml:"stale_after"`
}

// MonitorConfig configures the lifecycle monitor.
type MonitorConfig struct {
	// ProbeInterval is the pause between probe rounds. Default: 5s.
	ProbeInterval string `yaml:"probe_interval"`
}

// MeetingConfig binds one meeting name to one legacy channel.
type MeetingConfig struct {
	// Name is the meeting (room local part, lock key, log key).
	Name string `yaml:"name"`

	// Channel is the legacy channel the meeting bridges to.
	Channel string `yaml:"channel"`

	// ChannelKey, if set, is the channel's join key.
	ChannelKey string `yaml:"channel_key"`
}

// Default returns the default configuration. The defaults give every
// optional field a usable value; required fields stay empty and are
// caught by Validate.
func Default() *Config {
	return &Config{
		XMPP: XMPPConfig{
			Resource: "meetwire",
			UseTLS:   true,
		},
		IRC: IRCConfig{
			Nick: "meetwire",
		},
		Bridge: BridgeConfig{
			Nick:      "Meetwire Bot",
			CallNames: []string{"meetwire"},
		},
		Locks: LocksConfig{
			StaleAfter: "130m",
		},
		Monitor: MonitorConfig{
			ProbeInterval: "5s",
		},
	}
}

// LoadFile loads configuration from a file path. Environment variables
// do not override config values; the only expansion is ${VAR} patterns
// in directory paths.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// expandVariables expands ${VAR} patterns in the directory paths.
func (c *Config) expandVariables() {
	c.Logs.Dir = expandVars(c.Logs.Dir)
	c.Locks.Dir = expandVars(c.Locks.Dir)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns from the
// environment.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}

// Validate checks the configuration for errors, collecting all of them
// rather than stopping at the first.
func (c *Config) Validate() error {
	var errs []error

	if c.XMPP.Address == "" {
		errs = append(errs, fmt.Errorf("xmpp.address is required"))
	}
	if c.XMPP.Domain == "" {
		errs = append(errs, fmt.Errorf("xmpp.domain is required"))
	}
	if c.XMPP.ConferenceService == "" {
		errs = append(errs, fmt.Errorf("xmpp.conference_service is required"))
	}
	if c.XMPP.Username == "" {
		errs = append(errs, fmt.Errorf("xmpp.username is required"))
	}
	if c.XMPP.Password == "" {
		errs = append(errs, fmt.Errorf("xmpp.password is required"))
	}

	if c.IRC.Address == "" {
		errs = append(errs, fmt.Errorf("irc.address is required"))
	}

	if len(c.Bridge.CallNames) == 0 {
		errs = append(errs, fmt.Errorf("bridge.call_names must not be empty"))
	}

	if c.Logs.Dir == "" {
		errs = append(errs, fmt.Errorf("logs.dir is required"))
	}
	if c.Locks.Dir == "" {
		errs = append(errs, fmt.Errorf("locks.dir is required"))
	}
	if _, err := time.ParseDuration(c.Locks.StaleAfter); err != nil {
		errs = append(errs, fmt.Errorf("locks.stale_after: %w", err))
	}
	if _, err := time.ParseDuration(c.Monitor.ProbeInterval); err != nil {
		errs = append(errs, fmt.Errorf("monitor.probe_interval: %w", err))
	}

	if len(c.Meetings) == 0 {
		errs = append(errs, fmt.Errorf("at least one meeting is required"))
	}
	seen := make(map[string]bool, len(c.Meetings))
	for i, meeting := range c.Meetings {
		if meeting.Name == "" {
			errs = append(errs, fmt.Errorf("meetings[%d].name is required", i))
			continue
		}
		if seen[meeting.Name] {
			errs = append(errs, fmt.Errorf("meeting %q is configured twice", meeting.Name))
		}
		seen[meeting.Name] = true
		if _, err := ref.ParseChannelName(meeting.Channel); err != nil {
			errs = append(errs, fmt.Errorf("meetings[%d] (%s): channel: %w", i, meeting.Name, err))
		}
		if c.XMPP.ConferenceService != "" {
			if _, err := ref.NewRoomID(meeting.Name, c.XMPP.ConferenceService); err != nil {
				errs = append(errs, fmt.Errorf("meetings[%d] (%s): %w", i, meeting.Name, err))
			}
		}
	}

	return errors.Join(errs...)
}

// Meeting looks up one meeting by name.
func (c *Config) Meeting(name string) (MeetingConfig, error) {
	for _, meeting := range c.Meetings {
		if meeting.Name == name {
			return meeting, nil
		}
	}
	return MeetingConfig{}, fmt.Errorf("config: meeting %q is not configured", name)
}

// MeetingNames returns the configured meeting names in file order.
func (c *Config) MeetingNames() []string {
	names := make([]string, 0, len(c.Meetings))
	for _, meeting := range c.Meetings {
		names = append(names, meeting.Name)
	}
	return names
}

// Room returns the groupchat room address for a meeting name.
func (c *Config) Room(meeting string) (ref.RoomID, error) {
	return ref.NewRoomID(meeting, c.XMPP.ConferenceService)
}

// ProbeInterval returns the parsed monitor probe interval. Validate
// must have accepted the config first.
func (c *Config) ProbeInterval() time.Duration {
	interval, err := time.ParseDuration(c.Monitor.ProbeInterval)
	if err != nil {
		return 0
	}
	return interval
}

// LockStaleAfter returns the parsed lock staleness window. Validate
// must have accepted the config first.
func (c *Config) LockStaleAfter() time.Duration {
	window, err := time.ParseDuration(c.Locks.StaleAfter)
	if err != nil {
		return 0
	}
	return window
}
