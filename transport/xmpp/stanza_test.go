// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

package xmpp

import (
	"encoding/xml"
	"strings"
	"testing"
)

func decodePresence(t *testing.T, raw string) *presenceStanza {
	t.Helper()
	var stanza presenceStanza
	if err := xml.Unmarshal([]byte(raw), &stanza); err != nil {
		t.Fatalf("unmarshal presence: %v", err)
	}
	return &stanza
}

func decodeMessage(t *testing.T, raw string) *messageStanza {
	t.Helper()
	var stanza messageStanza
	if err := xml.Unmarshal([]byte(raw), &stanza); err != nil {
		t.Fatalf("unmarshal message: %v", err)
	}
	return &stanza
}

func TestPresenceWithNick(t *testing.T) {
	stanza := decodePresence(t, `<presence from='standup@conference.example.org/a1b2'>
		<nick xmlns='http://jabber.org/protocol/nick'>Alice Smith</nick>
	</presence>`)

	event, ok := stanza.relayEvent()
	if !ok {
		t.Fatal("presence not converted")
	}
	if !event.Available {
		t.Fatal("presence decoded as unavailable")
	}
	if event.Name != "Alice Smith" {
		t.Fatalf("name: %q", event.Name)
	}
	if event.From.Resource() != "a1b2" {
		t.Fatalf("resource: %q", event.From.Resource())
	}
	if event.HandRaised != nil || event.RecordingStatus != "" {
		t.Fatalf("unexpected extensions: %+v", event)
	}
}

func TestPresenceUnavailable(t *testing.T) {
	stanza := decodePresence(t,
		`<presence from='standup@conference.example.org/a1b2' type='unavailable'/>`)
	event, ok := stanza.relayEvent()
	if !ok || event.Available {
		t.Fatalf("unavailable presence: ok=%v event=%+v", ok, event)
	}
}

func TestPresenceRaisedHand(t *testing.T) {
	stanza := decodePresence(t, `<presence from='standup@conference.example.org/a1b2'>
		<jitsi_participant_raisedHand>1700000000000</jitsi_participant_raisedHand>
	</presence>`)
	event, _ := stanza.relayEvent()
	if event.HandRaised == nil || !*event.HandRaised {
		t.Fatalf("raised hand not detected: %+v", event)
	}

	// An empty element means the hand went down.
	stanza = decodePresence(t, `<presence from='standup@conference.example.org/a1b2'>
		<jitsi_participant_raisedHand></jitsi_participant_raisedHand>
	</presence>`)
	event, _ = stanza.relayEvent()
	if event.HandRaised == nil || *event.HandRaised {
		t.Fatalf("lowered hand not detected: %+v", event)
	}
}

func TestPresenceRecordingStatus(t *testing.T) {
	stanza := decodePresence(t, `<presence from='standup@conference.example.org/focus'>
		<jibri-recording-status status='on'/>
	</presence>`)
	event, _ := stanza.relayEvent()
	if event.RecordingStatus != "on" {
		t.Fatalf("recording status: %q", event.RecordingStatus)
	}
}

func TestPresenceWithoutOccupantDropped(t *testing.T) {
	stanza := decodePresence(t, `<presence from='standup@conference.example.org'/>`)
	if _, ok := stanza.relayEvent(); ok {
		t.Fatal("bare room presence was converted")
	}
}

func TestMessageChatText(t *testing.T) {
	stanza := decodeMessage(t, `<message from='standup@conference.example.org/a1b2'
		type='groupchat'><body>q+ to talk about tests</body></message>`)
	event, ok := stanza.relayEvent()
	if !ok {
		t.Fatal("message not converted")
	}
	if event.Body != "q+ to talk about tests" {
		t.Fatalf("body: %q", event.Body)
	}
	if event.HistoryReplay {
		t.Fatal("live message marked as replay")
	}
}

func TestMessageDelayMarksReplay(t *testing.T) {
	stanza := decodeMessage(t, `<message from='standup@conference.example.org/a1b2'
		type='groupchat'><body>old line</body>
		<delay xmlns='urn:xmpp:delay' stamp='2026-03-01T14:00:00Z'/></message>`)
	event, ok := stanza.relayEvent()
	if !ok || !event.HistoryReplay {
		t.Fatalf("delay marker missed: ok=%v event=%+v", ok, event)
	}
}

func TestMessageNonGroupchatDropped(t *testing.T) {
	stanza := decodeMessage(t,
		`<message from='standup@conference.example.org/a1b2' type='chat'><body>psst</body></message>`)
	if _, ok := stanza.relayEvent(); ok {
		t.Fatal("direct chat message was converted")
	}
}

func TestMessageTranscription(t *testing.T) {
	stanza := decodeMessage(t, `<message from='standup@conference.example.org/transcriber'
		type='groupchat'><json-message xmlns='http://jitsi.org/jitmeet'>
		{"type":"transcription-result","is_interim":false,
		"participant":{"name":"Alice Smith"},
		"transcript":[{"text":"ship"},{"text":"it"}]}</json-message></message>`)
	event, ok := stanza.relayEvent()
	if !ok || event.Transcript == nil {
		t.Fatalf("transcription missed: ok=%v event=%+v", ok, event)
	}
	if event.Transcript.Name != "Alice Smith" || event.Transcript.Text != "ship it" {
		t.Fatalf("transcript: %+v", event.Transcript)
	}
	if event.Transcript.Interim {
		t.Fatal("final transcript marked interim")
	}
}

func TestMessageStructuredPayloadPassedThrough(t *testing.T) {
	stanza := decodeMessage(t, `<message from='standup@conference.example.org/meetwire'
		type='groupchat'><json-message xmlns='http://jitsi.org/jitmeet'>
		{"type":"new-poll","pollId":"abc","question":"Q","answers":["A","B"],"creatorName":"Alice"}
		</json-message></message>`)
	event, ok := stanza.relayEvent()
	if !ok || event.Payload == nil {
		t.Fatalf("payload missed: ok=%v event=%+v", ok, event)
	}
	if event.Transcript != nil {
		t.Fatal("poll payload decoded as transcript")
	}
	if !strings.Contains(string(event.Payload), `"type":"new-poll"`) {
		t.Fatalf("payload bytes: %s", event.Payload)
	}
}

func TestOutboundMessageMarshal(t *testing.T) {
	data, err := xml.Marshal(&outboundMessage{
		ID:   "id-1",
		To:   "standup@conference.example.org",
		Type: "groupchat",
		Nick: newNickElement("Meetwire Bot"),
		Body: `say <this> & "that"`,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	encoded := string(data)
	for _, want := range []string{
		`type="groupchat"`,
		`<nick xmlns="http://jabber.org/protocol/nick">Meetwire Bot</nick>`,
		`<body>say &lt;this&gt; &amp; &#34;that&#34;</body>`,
	} {
		if !strings.Contains(encoded, want) {
			t.Fatalf("marshaled message missing %q: %s", want, encoded)
		}
	}
}

func TestDiscoIQRouting(t *testing.T) {
	var stanza iqStanza
	raw := `<iq from='standup@conference.example.org' type='result'>
		<query xmlns='http://jabber.org/protocol/disco#info'>
		<identity category='conference' name='standup' type='text'/>
		</query></iq>`
	if err := xml.Unmarshal([]byte(raw), &stanza); err != nil {
		t.Fatalf("unmarshal iq: %v", err)
	}
	if stanza.Query == nil || len(stanza.Query.Identities) != 1 {
		t.Fatalf("query: %+v", stanza.Query)
	}
	identity := stanza.Query.Identities[0]
	if identity.Category != "conference" || identity.Name != "standup" {
		t.Fatalf("identity: %+v", identity)
	}
}
