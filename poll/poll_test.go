// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package poll

import (
	"errors"
	"reflect"
	"testing"
)

func colorPoll(t *testing.T, store *Store) *Poll {
	t.Helper()
	created, err := store.Create("Pick a color", []string{"Red", "Green", "Blue"}, "Alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

func TestCreateAssignsDenseSequenceNumbers(t *testing.T) {
	store := NewStore()

	first := colorPoll(t, store)
	if first.Num != 1 {
		t.Fatalf("first poll Num: got %d, want 1", first.Num)
	}
	if len(first.Answers) != 3 {
		t.Fatalf("first poll options: got %d, want 3", len(first.Answers))
	}

	second, err := store.Create("Ship it?", []string{"Yes", "No"}, "Bob")
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if second.Num != 2 {
		t.Fatalf("second poll Num: got %d, want 2", second.Num)
	}
	if first.ID == second.ID {
		t.Fatalf("poll IDs collide: %q", first.ID)
	}
}

func TestCreateRequiresTwoOptions(t *testing.T) {
	store := NewStore()
	if _, err := store.Create("Trick question", []string{"Only"}, "Alice"); err == nil {
		t.Fatal("expected error for single-option poll")
	}
	if store.Len() != 0 {
		t.Fatal("failed create mutated the store")
	}
}

func TestAddRejectsDuplicateID(t *testing.T) {
	store := NewStore()
	if _, err := store.Add("fixed-id", "Q", []string{"A", "B"}, "Alice"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := store.Add("fixed-id", "Other", []string{"C", "D"}, "Bob"); err == nil {
		t.Fatal("expected error for duplicate poll ID")
	}
}

func TestNewIDUniqueForIdenticalContent(t *testing.T) {
	answers := []string{"Yes", "No"}
	if NewID("Same?", answers, "Alice") == NewID("Same?", answers, "Alice") {
		t.Fatal("identical content produced identical IDs")
	}
}

func TestResolve(t *testing.T) {
	store := NewStore()
	first := colorPoll(t, store)
	second, _ := store.Create("Ship it?", []string{"Yes", "No"}, "Bob")

	cases := []struct {
		reference string
		want      *Poll
	}{
		{"", second}, // most recent
		{"1", first},
		{"#1", first},
		{"2", second},
	}
	for _, tc := range cases {
		got, err := store.Resolve(tc.reference)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tc.reference, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%q): got poll %d, want %d", tc.reference, got.Num, tc.want.Num)
		}
	}
}

func TestResolveNotFound(t *testing.T) {
	store := NewStore()

	if _, err := store.Resolve(""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve on empty store: got %v, want ErrNotFound", err)
	}

	colorPoll(t, store)
	for _, reference := range []string{"2", "0", "-1", "abc", "#"} {
		if _, err := store.Resolve(reference); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Resolve(%q): got %v, want ErrNotFound", reference, err)
		}
	}
}

func TestVoteOverwrites(t *testing.T) {
	store := NewStore()
	created := colorPoll(t, store)

	err := store.Vote(created.ID, Ballot{
		VoterID:   "carol@example/1",
		VoterName: "Carol",
		Answers:   []bool{true, false, true},
	})
	if err != nil {
		t.Fatalf("Vote: %v", err)
	}

	tallies := created.Tally()
	if tallies[0].Count != 1 || tallies[1].Count != 0 || tallies[2].Count != 1 {
		t.Fatalf("tallies after first ballot: %+v", tallies)
	}

	// Re-vote by the same voter replaces, never appends.
	err = store.Vote(created.ID, Ballot{
		VoterID:   "carol@example/1",
		VoterName: "Carol",
		Answers:   []bool{false, true, false},
	})
	if err != nil {
		t.Fatalf("re-Vote: %v", err)
	}

	tallies = created.Tally()
	if tallies[0].Count != 0 || tallies[1].Count != 1 || tallies[2].Count != 0 {
		t.Fatalf("tallies after re-vote: %+v", tallies)
	}
	if created.VoterCount() != 1 {
		t.Fatalf("VoterCount: got %d, want 1", created.VoterCount())
	}
	if tallies[1].Percent != 100 {
		t.Fatalf("Percent: got %d, want 100", tallies[1].Percent)
	}
	if got, want := tallies[1].Voters, []string{"Carol"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Voters: got %v, want %v", got, want)
	}
}

func TestVoteUnknownPoll(t *testing.T) {
	store := NewStore()
	err := store.Vote("no-such-poll", Ballot{VoterID: "v", Answers: []bool{true}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Vote on unknown poll: got %v, want ErrNotFound", err)
	}
}

func TestVoteRejectsMismatchedBallot(t *testing.T) {
	store := NewStore()
	created := colorPoll(t, store)
	err := store.Vote(created.ID, Ballot{VoterID: "v", Answers: []bool{true}})
	if err == nil {
		t.Fatal("expected error for ballot length mismatch")
	}
	if created.VoterCount() != 0 {
		t.Fatal("failed vote mutated the poll")
	}
}

func TestTallyZeroVoters(t *testing.T) {
	store := NewStore()
	created := colorPoll(t, store)

	for _, tally := range created.Tally() {
		if tally.Percent != 0 || tally.Count != 0 {
			t.Fatalf("zero-voter tally: %+v", tally)
		}
	}
}

func TestTallyPercentRounding(t *testing.T) {
	store := NewStore()
	created := colorPoll(t, store)

	voters := []string{"a", "b", "c"}
	for i, voter := range voters {
		// All three select Red; only the first selects Blue.
		ballot := Ballot{VoterID: voter, VoterName: voter, Answers: []bool{true, false, i == 0}}
		if err := store.Vote(created.ID, ballot); err != nil {
			t.Fatalf("Vote(%s): %v", voter, err)
		}
	}

	tallies := created.Tally()
	if tallies[0].Percent != 100 {
		t.Fatalf("Red percent: got %d, want 100", tallies[0].Percent)
	}
	// 1 of 3 voters is 33.33..., rounded to 33.
	if tallies[2].Percent != 33 {
		t.Fatalf("Blue percent: got %d, want 33", tallies[2].Percent)
	}
}

func TestNumbersAndList(t *testing.T) {
	store := NewStore()
	colorPoll(t, store)
	store.Create("Ship it?", []string{"Yes", "No"}, "Bob")

	if got, want := store.Numbers(), []int{1, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Numbers: got %v, want %v", got, want)
	}
	listed := store.List()
	if len(listed) != 2 || listed[0].Num != 1 || listed[1].Num != 2 {
		t.Fatalf("List: got %v", listed)
	}
}
