// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// RoomID is a bare groupchat room address of the form room@service.
// The local part is the meeting name used in configuration and lock
// files; the service part is the conference subdomain.
type RoomID struct {
	local   string
	service string
}

// NewRoomID builds a RoomID from a meeting name and a conference
// service domain.
func NewRoomID(local, service string) (RoomID, error) {
	if local == "" {
		return RoomID{}, fmt.Errorf("room local part is empty")
	}
	if service == "" {
		return RoomID{}, fmt.Errorf("room service part is empty")
	}
	if strings.ContainsAny(local, "@/") {
		return RoomID{}, fmt.Errorf("room local part %q contains reserved characters", local)
	}
	return RoomID{local: local, service: service}, nil
}

// ParseRoomID parses a bare room@service address. Addresses with a
// resource part are rejected — use ParseOccupantID for those.
func ParseRoomID(raw string) (RoomID, error) {
	if strings.ContainsRune(raw, '/') {
		return RoomID{}, fmt.Errorf("room ID %q contains a resource part", raw)
	}
	at := strings.IndexByte(raw, '@')
	if at <= 0 || at == len(raw)-1 {
		return RoomID{}, fmt.Errorf("room ID %q is not of the form room@service", raw)
	}
	return NewRoomID(raw[:at], raw[at+1:])
}

// Local returns the meeting name (the part before @).
func (r RoomID) Local() string {
	return r.local
}

// Service returns the conference service domain (the part after @).
func (r RoomID) Service() string {
	return r.service
}

// Occupant returns the occupant address for the given resource within
// this room.
func (r RoomID) Occupant(resource string) (OccupantID, error) {
	if resource == "" {
		return OccupantID{}, fmt.Errorf("occupant resource is empty")
	}
	return OccupantID{room: r, resource: resource}, nil
}

// String returns the room@service form.
func (r RoomID) String() string {
	if r.IsZero() {
		return ""
	}
	return r.local + "@" + r.service
}

// IsZero reports whether the RoomID is the zero value.
func (r RoomID) IsZero() bool {
	return r.local == "" && r.service == ""
}

// MarshalText implements encoding.TextMarshaler.
func (r RoomID) MarshalText() ([]byte, error) {
	if r.IsZero() {
		return nil, fmt.Errorf("cannot marshal zero RoomID")
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *RoomID) UnmarshalText(data []byte) error {
	parsed, err := ParseRoomID(string(data))
	if err != nil {
		return fmt.Errorf("unmarshal RoomID: %w", err)
	}
	*r = parsed
	return nil
}
