// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"testing"

	"github.com/meetwire/meetwire/lib/ref"
)

func occupant(t *testing.T, resource string) ref.OccupantID {
	t.Helper()
	id, err := ref.ParseOccupantID("standup@conference.example.org/" + resource)
	if err != nil {
		t.Fatalf("ParseOccupantID: %v", err)
	}
	return id
}

func TestUpsertJoinAndRename(t *testing.T) {
	registry := New()
	alice := occupant(t, "a1b2c3d4")

	change, _ := registry.Upsert(alice, "Alice")
	if change != Joined {
		t.Fatalf("first upsert: got %v, want Joined", change)
	}
	if registry.Count() != 1 {
		t.Fatalf("Count: got %d, want 1", registry.Count())
	}

	// Same name again is not a rename.
	change, _ = registry.Upsert(alice, "Alice")
	if change != Unchanged {
		t.Fatalf("repeat upsert: got %v, want Unchanged", change)
	}

	change, previous := registry.Upsert(alice, "Alice W.")
	if change != Renamed {
		t.Fatalf("rename upsert: got %v, want Renamed", change)
	}
	if previous != "Alice" {
		t.Fatalf("previous name: got %q, want %q", previous, "Alice")
	}
	if registry.Count() != 1 {
		t.Fatal("rename created a duplicate entry")
	}
}

func TestUpsertWithoutNameCreatesNothing(t *testing.T) {
	registry := New()
	ghost := occupant(t, "ghost")

	change, _ := registry.Upsert(ghost, "")
	if change != Unchanged {
		t.Fatalf("nameless upsert: got %v, want Unchanged", change)
	}
	if registry.Count() != 0 {
		t.Fatal("nameless upsert created an entry")
	}

	// The name arrives in a later presence; only then does the
	// participant join.
	change, _ = registry.Upsert(ghost, "Ghost")
	if change != Joined {
		t.Fatalf("named upsert: got %v, want Joined", change)
	}
}

func TestUpsertEmptyNameOnLiveEntry(t *testing.T) {
	registry := New()
	alice := occupant(t, "a1b2c3d4")
	registry.Upsert(alice, "Alice")

	change, _ := registry.Upsert(alice, "")
	if change != Unchanged {
		t.Fatalf("empty-name upsert on live entry: got %v, want Unchanged", change)
	}
	participant, ok := registry.Get(alice)
	if !ok || participant.DisplayName != "Alice" {
		t.Fatalf("Get after empty-name upsert: %+v, ok=%v", participant, ok)
	}
}

func TestRemoveReportsMeetingEndEdge(t *testing.T) {
	registry := New()
	bridge := occupant(t, "bridge")
	alice := occupant(t, "alice")
	bob := occupant(t, "bob")
	registry.Upsert(bridge, "meetwire")
	registry.Upsert(alice, "Alice")
	registry.Upsert(bob, "Bob")

	change, removed, ended := registry.Remove(alice)
	if change != Left {
		t.Fatalf("Remove(alice): got %v, want Left", change)
	}
	if removed.DisplayName != "Alice" {
		t.Fatalf("removed participant: %+v", removed)
	}
	if ended {
		t.Fatal("meeting ended with two participants remaining")
	}

	// Count drops 2 -> 1: only the bridge remains.
	_, _, ended = registry.Remove(bob)
	if !ended {
		t.Fatal("expected meeting-end edge when count reached one")
	}

	// Removing the bridge itself (1 -> 0) is not the edge.
	_, _, ended = registry.Remove(bridge)
	if ended {
		t.Fatal("meeting end reported twice")
	}
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	registry := New()
	registry.Upsert(occupant(t, "alice"), "Alice")

	change, _, ended := registry.Remove(occupant(t, "stranger"))
	if change != Noop || ended {
		t.Fatalf("Remove unknown: change=%v ended=%v", change, ended)
	}
	if registry.Count() != 1 {
		t.Fatal("Noop removal mutated the registry")
	}
}

func TestListInsertionOrder(t *testing.T) {
	registry := New()
	names := []string{"Alice", "Bob", "Carol"}
	for i, name := range names {
		registry.Upsert(occupant(t, string(rune('a'+i))), name)
	}

	listed := registry.List()
	if len(listed) != 3 {
		t.Fatalf("List length: got %d, want 3", len(listed))
	}
	for i, participant := range listed {
		if participant.DisplayName != names[i] {
			t.Fatalf("List[%d]: got %q, want %q", i, participant.DisplayName, names[i])
		}
	}
}

func TestScribeRoleInference(t *testing.T) {
	registry := New()
	scribe := occupant(t, "s1")
	registry.Upsert(scribe, "Scribe - Dana")

	participant, _ := registry.Get(scribe)
	if participant.Role != RoleScribe {
		t.Fatalf("Role: got %v, want RoleScribe", participant.Role)
	}

	// Renaming away from the reserved prefix drops the role.
	registry.Upsert(scribe, "Dana")
	participant, _ = registry.Get(scribe)
	if participant.Role != RoleRegular {
		t.Fatalf("Role after rename: got %v, want RoleRegular", participant.Role)
	}
}

func TestSetHandRaised(t *testing.T) {
	registry := New()
	alice := occupant(t, "alice")
	registry.Upsert(alice, "Alice")

	if !registry.SetHandRaised(alice, true) {
		t.Fatal("SetHandRaised on known occupant returned false")
	}
	participant, _ := registry.Get(alice)
	if !participant.HandRaised {
		t.Fatal("HandRaised flag not stored")
	}
	if registry.SetHandRaised(occupant(t, "stranger"), true) {
		t.Fatal("SetHandRaised on unknown occupant returned true")
	}
}
