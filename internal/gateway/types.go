package gateway

import (
	"time"

	"github.com/google/uuid"
)

// ClientType identifies the client surface a message originated from.
type ClientType string

const (
	ClientTelegram ClientType = "telegram"
	ClientWeb      ClientType = "web"
	ClientCLI      ClientType = "cli"
)

// ClientTypes lists every recognized client type, in a stable order.
// Stats and health reporting iterate this so every counter is always
// present, even at zero.
var ClientTypes = []ClientType{ClientTelegram, ClientWeb, ClientCLI}

// Valid reports whether the client type is one of the recognized values.
func (c ClientType) Valid() bool {
	switch c {
	case ClientTelegram, ClientWeb, ClientCLI:
		return true
	}
	return false
}

// MessageType classifies the payload of a canonical message.
type MessageType string

const (
	MessageText    MessageType = "text"
	MessageCommand MessageType = "command"
	MessageFile    MessageType = "file"
	MessageImage   MessageType = "image"
	MessageAudio   MessageType = "audio"
	MessageVideo   MessageType = "video"
)

// Valid reports whether the message type is one of the recognized values.
func (m MessageType) Valid() bool {
	switch m {
	case MessageText, MessageCommand, MessageFile, MessageImage, MessageAudio, MessageVideo:
		return true
	}
	return false
}

// Message is the canonical, client-type-agnostic representation every
// inbound payload is normalized into. Treat it as immutable once built.
type Message struct {
	ID          string         `json:"id"`
	ClientType  ClientType     `json:"client_type"`
	MessageType MessageType    `json:"message_type"`
	Content     string         `json:"content"`
	UserID      string         `json:"user_id"`
	UserName    string         `json:"user_name,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewMessage builds a canonical message with a fresh UUID and the current
// timestamp. It returns a *ValidationError if a required field is missing
// or an enumeration value is unrecognized.
func NewMessage(client ClientType, msgType MessageType, content, userID string, metadata map[string]any) (*Message, error) {
	m := &Message{
		ID:          uuid.NewString(),
		ClientType:  client,
		MessageType: msgType,
		Content:     content,
		UserID:      userID,
		Timestamp:   time.Now(),
		Metadata:    metadata,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks field presence and enumeration membership.
func (m *Message) Validate() error {
	if m.ID == "" {
		return &ValidationError{Field: "id", Reason: "required"}
	}
	if !m.ClientType.Valid() {
		return &ValidationError{Field: "client_type", Reason: "unrecognized value " + string(m.ClientType)}
	}
	if !m.MessageType.Valid() {
		return &ValidationError{Field: "message_type", Reason: "unrecognized value " + string(m.MessageType)}
	}
	if m.Content == "" {
		return &ValidationError{Field: "content", Reason: "required"}
	}
	if m.UserID == "" {
		return &ValidationError{Field: "user_id", Reason: "required"}
	}
	if m.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Reason: "required"}
	}
	return nil
}

// Response is the canonical reply produced for exactly one Message.
// MessageID always equals the originating message's ID.
type Response struct {
	MessageID    string         `json:"message_id"`
	ClientType   ClientType     `json:"client_type"`
	Content      string         `json:"content"`
	ResponseType MessageType    `json:"response_type"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}
