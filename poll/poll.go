// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package poll

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// ErrNotFound marks a poll reference that resolves to nothing. Callers
// use errors.Is and then Store.Numbers to build contextual help.
var ErrNotFound = errors.New("poll not found")

// idKey is the BLAKE3 key for poll ID derivation. Domain separation
// keeps poll IDs distinct from any other hash this process might emit
// for the same bytes. ASCII, zero-padded to the required 32 bytes.
var idKey = [32]byte{
	'm', 'e', 'e', 't', 'w', 'i', 'r', 'e', '.', 'p', 'o', 'l', 'l', '.', 'i', 'd',
}

// NewID derives a fresh poll ID from the poll's content plus a random
// nonce. The content hash makes IDs meaningful to debug; the nonce
// guarantees uniqueness when the same question is asked twice.
func NewID(question string, answers []string, creatorName string) string {
	hasher, err := blake3.NewKeyed(idKey[:])
	if err != nil {
		// NewKeyed requires exactly 32 bytes, which idKey guarantees.
		panic("poll: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte(question))
	for _, answer := range answers {
		hasher.Write([]byte{0})
		hasher.Write([]byte(answer))
	}
	hasher.Write([]byte{0})
	hasher.Write([]byte(creatorName))
	hasher.Write([]byte{0})
	hasher.Write([]byte(uuid.NewString()))

	digest := hasher.Sum(nil)
	return hex.EncodeToString(digest[:8])
}

// Ballot is one voter's current selections on a poll. Answers is
// parallel to the poll's option list; true marks a selected option.
// Multi-select is allowed.
type Ballot struct {
	VoterID   string
	VoterName string
	Answers   []bool
}

// Poll is one poll and its live ballots.
type Poll struct {
	// ID is unique across all polls ever created in the process.
	ID string

	// Num is the 1-based sequence number assigned at materialization.
	Num int

	Question    string
	Answers     []string
	CreatorName string

	// votes maps voterID to that voter's latest ballot.
	votes map[string]Ballot

	// voteOrder records voter IDs in first-ballot order so listings
	// are stable.
	voteOrder []string
}

// VoterCount returns the number of distinct voters who have cast any
// ballot on this poll.
func (p *Poll) VoterCount() int {
	return len(p.votes)
}

// OptionTally is the result of tallying one poll option.
type OptionTally struct {
	Label string

	// Count is how many distinct voters selected this option.
	Count int

	// Percent is Count as a percentage of the poll's distinct voters,
	// rounded to the nearest integer. A poll with no voters reports 0
	// for every option.
	Percent int

	// Voters lists the names of voters who selected this option, in
	// first-ballot order.
	Voters []string
}

// Tally computes per-option results from the latest ballots.
func (p *Poll) Tally() []OptionTally {
	tallies := make([]OptionTally, len(p.Answers))
	for i, label := range p.Answers {
		tallies[i] = OptionTally{Label: label}
	}

	for _, voterID := range p.voteOrder {
		ballot := p.votes[voterID]
		for i, selected := range ballot.Answers {
			if selected && i < len(tallies) {
				tallies[i].Count++
				tallies[i].Voters = append(tallies[i].Voters, ballot.VoterName)
			}
		}
	}

	// Guard the zero-voter case: every count is 0, so a denominator
	// of 1 yields the required 0% across the board.
	denominator := len(p.votes)
	if denominator == 0 {
		denominator = 1
	}
	for i := range tallies {
		tallies[i].Percent = (tallies[i].Count*100 + denominator/2) / denominator
	}
	return tallies
}

// Store holds every poll created during the process lifetime.
type Store struct {
	polls map[string]*Poll

	// order holds poll IDs in materialization order; index+1 is the
	// poll's sequence number.
	order []string
}

// NewStore creates an empty poll store.
func NewStore() *Store {
	return &Store{polls: make(map[string]*Poll)}
}

// Create derives a fresh ID and materializes a new poll. At least two
// answer options are required.
func (s *Store) Create(question string, answers []string, creatorName string) (*Poll, error) {
	return s.Add(NewID(question, answers, creatorName), question, answers, creatorName)
}

// Add materializes a poll under a caller-supplied ID — the round-trip
// path, where the ID was minted when the creation payload was sent and
// must be preserved so both sides agree on it. The sequence number is
// assigned here, at materialization.
func (s *Store) Add(id, question string, answers []string, creatorName string) (*Poll, error) {
	if id == "" {
		return nil, fmt.Errorf("poll: ID is required")
	}
	if question == "" {
		return nil, fmt.Errorf("poll: question is required")
	}
	if len(answers) < 2 {
		return nil, fmt.Errorf("poll: at least 2 options are required, got %d", len(answers))
	}
	if _, exists := s.polls[id]; exists {
		return nil, fmt.Errorf("poll: duplicate poll ID %q", id)
	}

	created := &Poll{
		ID:          id,
		Num:         len(s.order) + 1,
		Question:    question,
		Answers:     append([]string(nil), answers...),
		CreatorName: creatorName,
		votes:       make(map[string]Ballot),
	}
	s.polls[id] = created
	s.order = append(s.order, id)
	return created, nil
}

// Resolve turns a poll reference into a poll. The reference is a
// 1-based sequence number with an optional # prefix, or the empty
// string for the most recently created poll. Failures wrap
// ErrNotFound.
func (s *Store) Resolve(reference string) (*Poll, error) {
	if len(s.order) == 0 {
		return nil, fmt.Errorf("no polls have been created: %w", ErrNotFound)
	}
	if reference == "" {
		return s.polls[s.order[len(s.order)-1]], nil
	}

	num, err := strconv.Atoi(strings.TrimPrefix(reference, "#"))
	if err != nil {
		return nil, fmt.Errorf("poll reference %q is not a number: %w", reference, ErrNotFound)
	}
	if num < 1 || num > len(s.order) {
		return nil, fmt.Errorf("no poll number %d: %w", num, ErrNotFound)
	}
	return s.polls[s.order[num-1]], nil
}

// Get returns a poll by ID.
func (s *Store) Get(id string) (*Poll, bool) {
	p, ok := s.polls[id]
	return p, ok
}

// Vote records a ballot on a poll, overwriting any previous ballot by
// the same voter. The ballot's Answers must be parallel to the poll's
// options.
func (s *Store) Vote(pollID string, ballot Ballot) error {
	target, ok := s.polls[pollID]
	if !ok {
		return fmt.Errorf("unknown poll %q: %w", pollID, ErrNotFound)
	}
	if len(ballot.Answers) != len(target.Answers) {
		return fmt.Errorf("poll: ballot has %d selections for a %d-option poll",
			len(ballot.Answers), len(target.Answers))
	}
	if _, voted := target.votes[ballot.VoterID]; !voted {
		target.voteOrder = append(target.voteOrder, ballot.VoterID)
	}
	target.votes[ballot.VoterID] = ballot
	return nil
}

// List returns all polls in sequence order.
func (s *Store) List() []*Poll {
	polls := make([]*Poll, len(s.order))
	for i, id := range s.order {
		polls[i] = s.polls[id]
	}
	return polls
}

// Len returns the number of polls ever created.
func (s *Store) Len() int {
	return len(s.order)
}

// Numbers returns the known sequence numbers, for contextual help in
// not-found replies.
func (s *Store) Numbers() []int {
	numbers := make([]int, len(s.order))
	for i := range s.order {
		numbers[i] = i + 1
	}
	return numbers
}
