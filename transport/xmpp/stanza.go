// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package xmpp

import (
	"encoding/json"
	"encoding/xml"
	"strings"

	"github.com/meetwire/meetwire/lib/ref"
	"github.com/meetwire/meetwire/relay"
)

// Inbound stanza shapes. Child elements are matched by local name
// only where servers disagree on namespaces (delay markers in
// particular ship under two different ones).

type presenceStanza struct {
	XMLName xml.Name `xml:"presence"`
	From    string   `xml:"from,attr"`
	Type    string   `xml:"type,attr"`

	Nick string `xml:"nick"`

	// RaisedHand is the raised-hand extension. The flag is raised
	// when the element is present with non-empty text, matching the
	// convention of putting a timestamp there.
	RaisedHand *string `xml:"jitsi_participant_raisedHand"`

	Recording *recordingStatus `xml:"jibri-recording-status"`
}

type recordingStatus struct {
	Status string `xml:"status,attr"`
}

type messageStanza struct {
	XMLName xml.Name `xml:"message"`
	From    string   `xml:"from,attr"`
	Type    string   `xml:"type,attr"`

	Body string `xml:"body"`

	// Delay marks history replay on rejoin.
	Delay *struct{} `xml:"delay"`

	// JSONMessage carries structured payloads: transcriptions and
	// poll traffic.
	JSONMessage string `xml:"json-message"`
}

type iqStanza struct {
	XMLName xml.Name    `xml:"iq"`
	From    string      `xml:"from,attr"`
	Type    string      `xml:"type,attr"`
	Query   *discoQuery `xml:"query"`
}

type discoQuery struct {
	Identities []discoIdentity `xml:"identity"`
}

type discoIdentity struct {
	Category string `xml:"category,attr"`
	Name     string `xml:"name,attr"`
}

// transcriptionPayload is the speech-to-text json-message shape.
type transcriptionPayload struct {
	Type        string `json:"type"`
	IsInterim   bool   `json:"is_interim"`
	Participant struct {
		Name string `json:"name"`
	} `json:"participant"`
	Transcript []struct {
		Text string `json:"text"`
	} `json:"transcript"`
}

const transcriptionType = "transcription-result"

// relayEvent converts an inbound presence stanza. Presences without a
// parseable occupant address (bare room presences, server noise) are
// dropped.
func (s *presenceStanza) relayEvent() (relay.Presence, bool) {
	from, err := ref.ParseOccupantID(s.From)
	if err != nil {
		return relay.Presence{}, false
	}

	event := relay.Presence{
		From:      from,
		Available: s.Type != "unavailable",
		Name:      s.Nick,
	}
	if s.RaisedHand != nil {
		raised := strings.TrimSpace(*s.RaisedHand) != ""
		event.HandRaised = &raised
	}
	if s.Recording != nil {
		event.RecordingStatus = s.Recording.Status
	}
	return event, true
}

// relayEvent converts an inbound groupchat message. json-message
// children are split into transcription events and opaque structured
// payloads; everything else is chat text.
func (s *messageStanza) relayEvent() (relay.Message, bool) {
	if s.Type != "groupchat" {
		return relay.Message{}, false
	}
	from, err := ref.ParseOccupantID(s.From)
	if err != nil {
		return relay.Message{}, false
	}

	event := relay.Message{
		From:          from,
		HistoryReplay: s.Delay != nil,
	}

	if s.JSONMessage != "" {
		raw := []byte(s.JSONMessage)
		var transcription transcriptionPayload
		if err := json.Unmarshal(raw, &transcription); err == nil &&
			transcription.Type == transcriptionType {
			text := make([]string, 0, len(transcription.Transcript))
			for _, segment := range transcription.Transcript {
				text = append(text, segment.Text)
			}
			event.Transcript = &relay.Transcript{
				Name:    transcription.Participant.Name,
				Text:    strings.Join(text, " "),
				Interim: transcription.IsInterim,
			}
			return event, true
		}
		event.Payload = raw
		return event, true
	}

	if s.Body == "" {
		return relay.Message{}, false
	}
	event.Body = s.Body
	return event, true
}

// Outbound stanza shapes. Namespaces are written as literal xmlns
// attributes — encoding/xml's namespace handling on marshal is too
// eager to invent prefixes.

type nickElement struct {
	XMLName xml.Name `xml:"nick"`
	XMLNS   string   `xml:"xmlns,attr"`
	Value   string   `xml:",chardata"`
}

func newNickElement(nick string) *nickElement {
	return &nickElement{XMLNS: "http://jabber.org/protocol/nick", Value: nick}
}

type mucElement struct {
	XMLName xml.Name `xml:"x"`
	XMLNS   string   `xml:"xmlns,attr"`
}

type outboundPresence struct {
	XMLName xml.Name `xml:"presence"`
	ID      string   `xml:"id,attr"`
	To      string   `xml:"to,attr"`

	Nick *nickElement
	MUC  *mucElement
}

type jsonMessageElement struct {
	XMLName xml.Name `xml:"json-message"`
	XMLNS   string   `xml:"xmlns,attr"`
	Value   string   `xml:",chardata"`
}

type outboundMessage struct {
	XMLName xml.Name `xml:"message"`
	ID      string   `xml:"id,attr"`
	To      string   `xml:"to,attr"`
	Type    string   `xml:"type,attr"`

	Nick *nickElement
	Body string `xml:"body,omitempty"`
	JSON *jsonMessageElement
}

type discoQueryElement struct {
	XMLName xml.Name `xml:"query"`
	XMLNS   string   `xml:"xmlns,attr"`
}

type outboundIQ struct {
	XMLName xml.Name `xml:"iq"`
	ID      string   `xml:"id,attr"`
	To      string   `xml:"to,attr"`
	Type    string   `xml:"type,attr"`

	Query *discoQueryElement
}
