// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package queue

import (
	"reflect"
	"testing"
)

func TestAddPreservesOrder(t *testing.T) {
	var q Queue
	q.Add("Alice", "")
	q.Add("Bob", "the budget")
	q.Add("Carol", "")

	if got, want := q.Nicks(), []string{"Alice", "Bob", "Carol"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Nicks: got %v, want %v", got, want)
	}
	if q.Len() != 3 {
		t.Fatalf("Len: got %d", q.Len())
	}
}

func TestRemovePrefixTakesFirstMatchOnly(t *testing.T) {
	var q Queue
	q.Add("Alice", "")
	q.Add("Alicia", "")
	q.Add("Bob", "")

	removed, ok := q.Remove("Ali")
	if !ok {
		t.Fatal("Remove(Ali) found nothing")
	}
	if removed.Nick != "Alice" {
		t.Fatalf("Remove(Ali): got %q, want Alice", removed.Nick)
	}
	if got, want := q.Nicks(), []string{"Alicia", "Bob"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after remove: got %v, want %v", got, want)
	}
}

func TestRemoveIsCaseInsensitive(t *testing.T) {
	var q Queue
	q.Add("Alice", "")

	if _, ok := q.Remove("aLiCe"); !ok {
		t.Fatal("case-insensitive Remove failed")
	}
	if q.Len() != 0 {
		t.Fatalf("queue not empty after remove: %v", q.Nicks())
	}
}

func TestRemoveMissingDoesNotMutate(t *testing.T) {
	var q Queue
	q.Add("Alice", "")
	q.Add("Bob", "")

	if _, ok := q.Remove("Zed"); ok {
		t.Fatal("Remove(Zed) unexpectedly matched")
	}
	if got, want := q.Nicks(), []string{"Alice", "Bob"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("queue mutated on failed remove: got %v, want %v", got, want)
	}
}

func TestDuplicatesAllowed(t *testing.T) {
	var q Queue
	q.Add("Alice", "first")
	q.Add("Alice", "second")

	removed, ok := q.Remove("Alice")
	if !ok || removed.Reminder != "first" {
		t.Fatalf("expected first Alice entry, got %+v ok=%v", removed, ok)
	}
	removed, ok = q.Remove("Alice")
	if !ok || removed.Reminder != "second" {
		t.Fatalf("expected second Alice entry, got %+v ok=%v", removed, ok)
	}
}

func TestString(t *testing.T) {
	var q Queue
	if got := q.String(); got != "no one is left on the queue" {
		t.Fatalf("empty String: got %q", got)
	}
	q.Add("Alice", "")
	q.Add("Bob", "")
	if got := q.String(); got != "Alice, Bob" {
		t.Fatalf("String: got %q", got)
	}
}
