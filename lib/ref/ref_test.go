// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import "testing"

func TestParseOccupantID(t *testing.T) {
	occupant, err := ParseOccupantID("weekly@conference.example.org/abc123")
	if err != nil {
		t.Fatalf("ParseOccupantID: %v", err)
	}
	if got := occupant.Room().String(); got != "weekly@conference.example.org" {
		t.Fatalf("Room: got %q", got)
	}
	if got := occupant.Resource(); got != "abc123" {
		t.Fatalf("Resource: got %q", got)
	}
	if got := occupant.String(); got != "weekly@conference.example.org/abc123" {
		t.Fatalf("String: got %q", got)
	}
}

func TestParseOccupantID_Invalid(t *testing.T) {
	invalid := []string{
		"",
		"weekly@conference.example.org",  // no resource
		"weekly@conference.example.org/", // empty resource
		"weekly/abc123",                  // no service
		"@conference.example.org/abc",    // empty local
	}
	for _, raw := range invalid {
		if _, err := ParseOccupantID(raw); err == nil {
			t.Errorf("ParseOccupantID(%q): expected error", raw)
		}
	}
}

func TestOccupantTail(t *testing.T) {
	occupant, err := ParseOccupantID("weekly@conference.example.org/abcdef")
	if err != nil {
		t.Fatalf("ParseOccupantID: %v", err)
	}
	if got := occupant.Tail(4); got != "cdef" {
		t.Fatalf("Tail(4): got %q", got)
	}
	if got := occupant.Tail(1000); got != occupant.String() {
		t.Fatalf("Tail beyond length: got %q", got)
	}
}

func TestParseRoomID(t *testing.T) {
	room, err := ParseRoomID("weekly@conference.example.org")
	if err != nil {
		t.Fatalf("ParseRoomID: %v", err)
	}
	if got := room.Local(); got != "weekly" {
		t.Fatalf("Local: got %q", got)
	}
	if got := room.Service(); got != "conference.example.org" {
		t.Fatalf("Service: got %q", got)
	}

	occupant, err := room.Occupant("meetwire")
	if err != nil {
		t.Fatalf("Occupant: %v", err)
	}
	if got := occupant.String(); got != "weekly@conference.example.org/meetwire" {
		t.Fatalf("Occupant.String: got %q", got)
	}
}

func TestParseRoomID_RejectsResource(t *testing.T) {
	if _, err := ParseRoomID("weekly@conference.example.org/abc"); err == nil {
		t.Fatal("expected error for address with resource part")
	}
}

func TestChannelName_Normalization(t *testing.T) {
	withHash, err := ParseChannelName("#meeting")
	if err != nil {
		t.Fatalf("ParseChannelName(#meeting): %v", err)
	}
	withoutHash, err := ParseChannelName("meeting")
	if err != nil {
		t.Fatalf("ParseChannelName(meeting): %v", err)
	}
	if withHash != withoutHash {
		t.Fatalf("expected normalized equality, got %v and %v", withHash, withoutHash)
	}
	if got := withHash.String(); got != "#meeting" {
		t.Fatalf("String: got %q", got)
	}
	if got := withHash.Local(); got != "meeting" {
		t.Fatalf("Local: got %q", got)
	}
}

func TestTextRoundTrip(t *testing.T) {
	occupant, _ := ParseOccupantID("weekly@conference.example.org/abc")
	data, err := occupant.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var decoded OccupantID
	if err := decoded.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if decoded != occupant {
		t.Fatalf("round trip mismatch: %v != %v", decoded, occupant)
	}

	var zero OccupantID
	if _, err := zero.MarshalText(); err == nil {
		t.Fatal("expected error marshaling zero OccupantID")
	}
}
