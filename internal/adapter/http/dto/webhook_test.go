package dto

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/debtledger/internal/domain"
)

func decodeEvent(t *testing.T, payload string) *domain.InboundEvent {
	t.Helper()

	var ev WebhookEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &ev))
	return ev.ToDomain()
}

func TestWebhookEvent_TextMessage(t *testing.T) {
	ev := decodeEvent(t, `{
		"event": "onmessage",
		"id": "true_5511999990000@c.us_ABC",
		"from": "5511999990000@c.us",
		"chatId": "5511999990000@c.us",
		"type": "chat",
		"body": "  /saldo  "
	}`)

	require.NotNil(t, ev)
	assert.Equal(t, domain.EventMessage, ev.Kind)
	assert.Equal(t, "onmessage:true_5511999990000@c.us_ABC", ev.ID)
	assert.Equal(t, "5511999990000", ev.Channel)
	assert.Equal(t, "5511999990000", ev.Sender)
	assert.Equal(t, "/saldo", ev.Body)
	assert.Nil(t, ev.Media)
	assert.False(t, ev.IsGroup)
}

func TestWebhookEvent_ChatFallsBackToSender(t *testing.T) {
	ev := decodeEvent(t, `{"event": "onselfmessage", "from": "5561988887777@c.us", "body": "/listar"}`)

	require.NotNil(t, ev)
	assert.Equal(t, "5561988887777", ev.Channel)
	assert.Empty(t, ev.ID)
}

func TestWebhookEvent_Group(t *testing.T) {
	ev := decodeEvent(t, `{"event": "onmessage", "from": "5511999990000@c.us", "chatId": "120363@g.us", "body": "hi"}`)

	require.NotNil(t, ev)
	assert.True(t, ev.IsGroup)
}

func TestWebhookEvent_ImageMedia(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff, 0xe0}
	encoded := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name string
		body string
		want []byte
	}{
		{name: "plain base64", body: encoded, want: raw},
		{name: "data uri", body: "data:image/jpeg;base64," + encoded, want: raw},
		{name: "garbage", body: "%%%", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, _ := json.Marshal(map[string]any{
				"event":    "onmessage",
				"from":     "5511999990000@c.us",
				"type":     "image",
				"mimetype": "image/jpeg",
				"body":     tt.body,
			})

			ev := decodeEvent(t, string(payload))
			require.NotNil(t, ev)
			require.NotNil(t, ev.Media)
			assert.Equal(t, domain.MediaImage, ev.Media.Kind)
			assert.Equal(t, tt.want, ev.Media.Data)
			assert.Empty(t, ev.Body, "media payload must not be read as a command")
		})
	}
}

func TestWebhookEvent_PollResponse(t *testing.T) {
	tests := []struct {
		name    string
		options string
		want    string
	}{
		{name: "objects", options: `[{"name": "Confirm ✅", "localId": 0}]`, want: domain.ConfirmLabel},
		{name: "strings", options: `["Cancel ❌"]`, want: domain.CancelLabel},
		{name: "empty", options: `[]`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := decodeEvent(t, `{
				"event": "onpollresponse",
				"msgId": {"_serialized": "true_5561988887777@c.us_POLL"},
				"sender": "5561988887777@c.us",
				"chatId": "5561988887777@c.us",
				"selectedOptions": `+tt.options+`
			}`)

			require.NotNil(t, ev)
			assert.Equal(t, domain.EventPollResponse, ev.Kind)
			assert.Equal(t, "onpollresponse:true_5561988887777@c.us_POLL", ev.ID)
			assert.Equal(t, "5561988887777", ev.Sender)
			assert.Equal(t, tt.want, ev.SelectedOption)
		})
	}
}

func TestWebhookEvent_UnknownEventIgnored(t *testing.T) {
	assert.Nil(t, decodeEvent(t, `{"event": "onack", "from": "5511999990000@c.us"}`))
}

func TestFlexibleID(t *testing.T) {
	var v struct {
		A FlexibleID `json:"a"`
		B FlexibleID `json:"b"`
		C FlexibleID `json:"c"`
		D FlexibleID `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "x@c.us", "b": {"_serialized": "y@c.us"}, "c": {"user": "5511"}, "d": null}`), &v))

	assert.Equal(t, FlexibleID("x@c.us"), v.A)
	assert.Equal(t, FlexibleID("y@c.us"), v.B)
	assert.Equal(t, FlexibleID("5511"), v.C)
	assert.Equal(t, FlexibleID(""), v.D)
}
