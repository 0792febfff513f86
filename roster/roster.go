// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"strings"

	"github.com/meetwire/meetwire/lib/ref"
)

// Role classifies a participant by their reserved display name.
type Role string

const (
	// RoleRegular is every ordinary participant.
	RoleRegular Role = "regular"

	// RoleScribe marks a participant whose display name claims the
	// scribe duty ("scribe", "Scribe - Alice", ...).
	RoleScribe Role = "scribe"
)

// Participant is one live occupant of the meeting.
type Participant struct {
	// ID is the full occupant address — the unique registry key.
	ID ref.OccupantID

	// DisplayName is the human label from presence metadata.
	DisplayName string

	// HandRaised is the last known raised-hand flag.
	HandRaised bool

	// Role is inferred from the display name at upsert.
	Role Role
}

// Change describes what a presence event did to the registry.
type Change int

const (
	// Unchanged: the event carried nothing new (or no resolvable
	// name yet).
	Unchanged Change = iota

	// Joined: a new participant entry was created.
	Joined

	// Renamed: an existing participant's display name changed.
	Renamed

	// Left: a participant entry was removed.
	Left

	// Noop: a removal for an occupant that was never registered.
	Noop
)

// Registry tracks the live participants of one meeting in insertion
// order. It belongs to one bridge session and is only touched from
// that session's event loop; no locking.
type Registry struct {
	byID  map[ref.OccupantID]*Participant
	order []ref.OccupantID
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byID: make(map[ref.OccupantID]*Participant)}
}

// inferRole derives the role from a display name.
func inferRole(displayName string) Role {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(displayName)), "scribe") {
		return RoleScribe
	}
	return RoleRegular
}

// Upsert applies an available-presence event. An empty name means the
// transport has not resolved the participant's name yet: no entry is
// created and Unchanged is returned. A name change on a live entry
// updates it in place and returns Renamed along with the previous
// name, never a duplicate join.
func (r *Registry) Upsert(id ref.OccupantID, name string) (change Change, previousName string) {
	existing, ok := r.byID[id]
	if !ok {
		if name == "" {
			return Unchanged, ""
		}
		r.byID[id] = &Participant{
			ID:          id,
			DisplayName: name,
			Role:        inferRole(name),
		}
		r.order = append(r.order, id)
		return Joined, ""
	}

	if name == "" || name == existing.DisplayName {
		return Unchanged, ""
	}
	previousName = existing.DisplayName
	existing.DisplayName = name
	existing.Role = inferRole(name)
	return Renamed, previousName
}

// Remove applies an unavailable-presence event. meetingEnded is true
// exactly when this removal took the live count from above one to
// exactly one — the edge on which the session winds down.
func (r *Registry) Remove(id ref.OccupantID) (change Change, removed Participant, meetingEnded bool) {
	existing, ok := r.byID[id]
	if !ok {
		return Noop, Participant{}, false
	}

	before := len(r.order)
	delete(r.byID, id)
	for i, orderedID := range r.order {
		if orderedID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return Left, *existing, before > 1 && len(r.order) == 1
}

// Get returns the live participant for an occupant address.
func (r *Registry) Get(id ref.OccupantID) (Participant, bool) {
	p, ok := r.byID[id]
	if !ok {
		return Participant{}, false
	}
	return *p, true
}

// SetHandRaised updates the stored raised-hand flag. Returns false for
// unknown occupants.
func (r *Registry) SetHandRaised(id ref.OccupantID, raised bool) bool {
	p, ok := r.byID[id]
	if !ok {
		return false
	}
	p.HandRaised = raised
	return true
}

// Count returns the number of live participants, the bridge included.
func (r *Registry) Count() int {
	return len(r.order)
}

// List returns the live participants in insertion order.
func (r *Registry) List() []Participant {
	participants := make([]Participant, len(r.order))
	for i, id := range r.order {
		participants[i] = *r.byID[id]
	}
	return participants
}
