package domain

import "strings"

// EventKind distinguishes chat messages from poll answers.
type EventKind string

const (
	EventMessage      EventKind = "message"
	EventPollResponse EventKind = "poll_response"
)

// MediaKind is the declared type of an attachment.
type MediaKind string

const (
	MediaImage    MediaKind = "image"
	MediaDocument MediaKind = "document"
)

// Poll option labels sent with every confirmation request.
const (
	ConfirmLabel = "Confirm ✅"
	CancelLabel  = "Cancel ❌"
)

// Media is a binary attachment of an inbound message.
type Media struct {
	Kind     MediaKind
	MIMEType string
	Data     []byte
}

// IsPDF reports whether the attachment is a PDF document.
func (m *Media) IsPDF() bool {
	return m.Kind == MediaDocument && strings.Contains(strings.ToLower(m.MIMEType), "pdf")
}

// InboundEvent is a gateway event normalized for the use cases.
type InboundEvent struct {
	Media          *Media
	ID             string
	Kind           EventKind
	Channel        string // conversation the event belongs to, digits only
	Sender         string // author, digits only
	Body           string
	SelectedOption string
	IsGroup        bool
}

// Accepted reports whether a poll answer confirms the pending proposal.
func (e *InboundEvent) Accepted() bool {
	return IsConfirmation(e.SelectedOption)
}

// IsConfirmation reports whether a selected poll label means "confirm".
func IsConfirmation(label string) bool {
	return strings.Contains(strings.ToLower(label), "confirm")
}
