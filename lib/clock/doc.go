// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for the timer-driven parts of Meetwire.
//
// The lifecycle monitor probes rooms on a fixed interval and the relay
// delays briefly before final shutdown; both take a [Clock] instead of
// calling the time package directly. Production code injects [Real]();
// tests inject [Fake]() and advance time deterministically with
// [FakeClock.Advance].
package clock
