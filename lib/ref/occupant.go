// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// OccupantID is a full groupchat occupant address of the form
// room@service/resource. It is the stable, unique key for one
// participant within one meeting: the resource part distinguishes
// occupants, the bare room part identifies the meeting.
type OccupantID struct {
	room     RoomID
	resource string
}

// ParseOccupantID parses a full occupant address. The resource part is
// required — a bare room address is not a valid occupant.
func ParseOccupantID(raw string) (OccupantID, error) {
	slash := strings.IndexByte(raw, '/')
	if slash < 0 {
		return OccupantID{}, fmt.Errorf("occupant ID %q has no resource part", raw)
	}
	room, err := ParseRoomID(raw[:slash])
	if err != nil {
		return OccupantID{}, fmt.Errorf("occupant ID %q: %w", raw, err)
	}
	resource := raw[slash+1:]
	if resource == "" {
		return OccupantID{}, fmt.Errorf("occupant ID %q has an empty resource part", raw)
	}
	return OccupantID{room: room, resource: resource}, nil
}

// Room returns the bare room address of the occupant.
func (o OccupantID) Room() RoomID {
	return o.room
}

// Resource returns the occupant's resource part (the per-occupant
// identifier assigned by the room).
func (o OccupantID) Resource() string {
	return o.resource
}

// Tail returns the last n characters of the full address. Used to build
// short disambiguating suffixes in participant listings. If the address
// is shorter than n, the whole address is returned.
func (o OccupantID) Tail(n int) string {
	full := o.String()
	if len(full) <= n {
		return full
	}
	return full[len(full)-n:]
}

// String returns the full room@service/resource form.
func (o OccupantID) String() string {
	if o.IsZero() {
		return ""
	}
	return o.room.String() + "/" + o.resource
}

// IsZero reports whether the OccupantID is the zero value.
func (o OccupantID) IsZero() bool {
	return o.room.IsZero() && o.resource == ""
}

// MarshalText implements encoding.TextMarshaler. Returns an error for
// the zero value, since serializing an empty occupant would produce
// ambiguous output.
func (o OccupantID) MarshalText() ([]byte, error) {
	if o.IsZero() {
		return nil, fmt.Errorf("cannot marshal zero OccupantID")
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *OccupantID) UnmarshalText(data []byte) error {
	parsed, err := ParseOccupantID(string(data))
	if err != nil {
		return fmt.Errorf("unmarshal OccupantID: %w", err)
	}
	*o = parsed
	return nil
}
