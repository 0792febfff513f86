// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package poll

import (
	"encoding/json"
	"fmt"
)

// Payload type tags. These are the only two structured payload kinds
// the bridge serializes.
const (
	TypeNewPoll    = "new-poll"
	TypeAnswerPoll = "answer-poll"
)

// Payload is a structured poll message carried inside a groupchat
// message instead of being displayed as chat text.
type Payload interface {
	// PayloadType returns the payload's type tag.
	PayloadType() string
}

// NewPollPayload announces a freshly created poll. The ID is minted by
// the creating side; the poll is materialized into the store only when
// the payload arrives back from the transport, so both sides assign
// sequence numbers from the same materialization event.
type NewPollPayload struct {
	Type        string   `json:"type"`
	PollID      string   `json:"pollId"`
	Question    string   `json:"question"`
	Answers     []string `json:"answers"`
	CreatorName string   `json:"creatorName"`
}

// PayloadType implements Payload.
func (p *NewPollPayload) PayloadType() string { return TypeNewPoll }

// AnswerPollPayload carries one voter's ballot. Answers is parallel to
// the poll's option list.
type AnswerPollPayload struct {
	Type      string `json:"type"`
	PollID    string `json:"pollId"`
	VoterID   string `json:"voterId"`
	VoterName string `json:"voterName"`
	Answers   []bool `json:"answers"`
}

// PayloadType implements Payload.
func (p *AnswerPollPayload) PayloadType() string { return TypeAnswerPoll }

// EncodePayload serializes a payload, stamping its type tag.
func EncodePayload(payload Payload) ([]byte, error) {
	switch typed := payload.(type) {
	case *NewPollPayload:
		typed.Type = TypeNewPoll
	case *AnswerPollPayload:
		typed.Type = TypeAnswerPoll
	default:
		return nil, fmt.Errorf("poll: unknown payload type %T", payload)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("poll: encoding %s payload: %w", payload.PayloadType(), err)
	}
	return data, nil
}

// DecodePayload deserializes a payload by its type tag. Unknown or
// missing tags are an error — the relay drops such payloads rather
// than guessing.
func DecodePayload(data []byte) (Payload, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("poll: payload is not valid JSON: %w", err)
	}

	switch probe.Type {
	case TypeNewPoll:
		var payload NewPollPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("poll: decoding new-poll payload: %w", err)
		}
		if payload.PollID == "" || payload.Question == "" || len(payload.Answers) < 2 {
			return nil, fmt.Errorf("poll: new-poll payload is incomplete")
		}
		return &payload, nil
	case TypeAnswerPoll:
		var payload AnswerPollPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("poll: decoding answer-poll payload: %w", err)
		}
		if payload.PollID == "" || payload.VoterID == "" {
			return nil, fmt.Errorf("poll: answer-poll payload is incomplete")
		}
		return &payload, nil
	default:
		return nil, fmt.Errorf("poll: unknown payload type %q", probe.Type)
	}
}
