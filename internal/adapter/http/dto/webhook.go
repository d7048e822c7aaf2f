package dto

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/iho/debtledger/internal/domain"
)

// Gateway event names.
const (
	EventOnMessage      = "onmessage"
	EventOnSelfMessage  = "onselfmessage"
	EventOnPollResponse = "onpollresponse"
)

const groupSuffix = "@g.us"

// WebhookEvent is the subset of a WPPConnect webhook payload the bot reads.
type WebhookEvent struct {
	Event           string       `json:"event"`
	ID              FlexibleID   `json:"id"`
	From            FlexibleID   `json:"from"`
	Sender          FlexibleID   `json:"sender"`
	ChatID          FlexibleID   `json:"chatId"`
	Body            string       `json:"body"`
	Type            string       `json:"type"`
	MIMEType        string       `json:"mimetype"`
	IsGroupMsg      bool         `json:"isGroupMsg"`
	SelectedOptions []PollOption `json:"selectedOptions"`
	MsgID           FlexibleID   `json:"msgId"`
}

// FlexibleID accepts a plain string or a WhatsApp id object ({"_serialized": "..."}).
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}

	var obj struct {
		Serialized string `json:"_serialized"`
		User       string `json:"user"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	if obj.Serialized != "" {
		*f = FlexibleID(obj.Serialized)
	} else {
		*f = FlexibleID(obj.User)
	}
	return nil
}

// PollOption accepts either "label" or {"name": "label"}.
type PollOption struct {
	Name string
}

func (p *PollOption) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &p.Name)
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	p.Name = obj.Name
	return nil
}

// ToDomain normalizes the payload. It returns nil for events the bot does not handle.
func (e *WebhookEvent) ToDomain() *domain.InboundEvent {
	var kind domain.EventKind
	switch e.Event {
	case EventOnMessage, EventOnSelfMessage:
		kind = domain.EventMessage
	case EventOnPollResponse:
		kind = domain.EventPollResponse
	default:
		return nil
	}

	sender := string(e.From)
	if sender == "" {
		sender = string(e.Sender)
	}

	chat := string(e.ChatID)
	if chat == "" {
		chat = sender
	}

	id := string(e.ID)
	if id == "" {
		id = string(e.MsgID)
	}
	if id != "" {
		id = e.Event + ":" + id
	}

	ev := &domain.InboundEvent{
		ID:      id,
		Kind:    kind,
		Channel: domain.NormalizeAccountID(chat),
		Sender:  domain.NormalizeAccountID(sender),
		IsGroup: e.IsGroupMsg || strings.HasSuffix(chat, groupSuffix),
	}

	if kind == domain.EventPollResponse {
		if len(e.SelectedOptions) > 0 {
			ev.SelectedOption = e.SelectedOptions[0].Name
		}
		return ev
	}

	switch domain.MediaKind(e.Type) {
	case domain.MediaImage, domain.MediaDocument:
		ev.Media = &domain.Media{
			Kind:     domain.MediaKind(e.Type),
			MIMEType: e.MIMEType,
			Data:     decodeMedia(e.Body),
		}
	default:
		ev.Body = strings.TrimSpace(e.Body)
	}

	return ev
}

// decodeMedia reads base64 media, with or without a data URI prefix. Undecodable input yields nil.
func decodeMedia(body string) []byte {
	body = strings.TrimSpace(body)
	if i := strings.Index(body, ";base64,"); i >= 0 && strings.HasPrefix(body, "data:") {
		body = body[i+len(";base64,"):]
	}
	if body == "" {
		return nil
	}

	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil
	}
	return data
}
