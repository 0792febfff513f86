// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// ChannelName is an IRC channel name. The leading # is normalized at
// construction so configuration may spell the channel either way.
type ChannelName struct {
	name string
}

// ParseChannelName parses and normalizes an IRC channel name.
func ParseChannelName(raw string) (ChannelName, error) {
	name := strings.TrimPrefix(raw, "#")
	if name == "" {
		return ChannelName{}, fmt.Errorf("channel name is empty")
	}
	if strings.ContainsAny(name, " ,\x07") {
		return ChannelName{}, fmt.Errorf("channel name %q contains reserved characters", raw)
	}
	return ChannelName{name: name}, nil
}

// String returns the channel with its leading #.
func (c ChannelName) String() string {
	if c.name == "" {
		return ""
	}
	return "#" + c.name
}

// Local returns the channel name without the leading #. Used as part
// of lock file and log file names.
func (c ChannelName) Local() string {
	return c.name
}

// IsZero reports whether the ChannelName is the zero value.
func (c ChannelName) IsZero() bool {
	return c.name == ""
}

// MarshalText implements encoding.TextMarshaler.
func (c ChannelName) MarshalText() ([]byte, error) {
	if c.IsZero() {
		return nil, fmt.Errorf("cannot marshal zero ChannelName")
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ChannelName) UnmarshalText(data []byte) error {
	parsed, err := ParseChannelName(string(data))
	if err != nil {
		return fmt.Errorf("unmarshal ChannelName: %w", err)
	}
	*c = parsed
	return nil
}
