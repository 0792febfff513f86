// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides channel-based assertion helpers shared by
// Meetwire's tests. The helpers wrap the select-with-timeout safety
// valve pattern so individual tests never hang on a channel that is
// never written.
package testutil
