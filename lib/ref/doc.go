// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides strongly typed identity references for the two
// chat transports Meetwire bridges.
//
// [OccupantID] is a full groupchat occupant address (room@service/resource)
// — the stable key for one participant in one meeting. [RoomID] is the bare
// room address (room@service) identifying the meeting itself. [ChannelName]
// is an IRC channel name with the leading # normalized.
//
// All three are immutable value types validated at construction. They
// implement encoding.TextMarshaler and TextUnmarshaler so they can appear
// directly in YAML configuration and JSON payloads, with validation at the
// deserialization boundary.
package ref
