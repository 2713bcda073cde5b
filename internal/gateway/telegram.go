package gateway

import (
	"context"
	"encoding/json"
	"log"
)

// TelegramAdapter handles messages arriving from the Telegram bridge. The
// bridge already normalizes updates into the canonical envelope, so this
// adapter only validates the envelope and forwards it. The protocol reply
// is the plain response text the bridge sends back to the chat.
type TelegramAdapter struct {
	processor *Processor
	status    adapterStatus
}

// NewTelegramAdapter creates a telegram adapter bound to the processor.
func NewTelegramAdapter(processor *Processor) *TelegramAdapter {
	return &TelegramAdapter{processor: processor}
}

func (a *TelegramAdapter) Name() string { return "telegram" }

// Initialize marks the adapter ready to accept messages.
func (a *TelegramAdapter) Initialize(ctx context.Context) error {
	a.status.setHealthy(true)
	log.Printf("telegram adapter initialized")
	return nil
}

// Shutdown is a no-op beyond logging; the adapter keeps no ephemeral state.
func (a *TelegramAdapter) Shutdown(ctx context.Context) error {
	log.Printf("telegram adapter stopped")
	return nil
}

// Dispatch validates the canonical envelope and forwards it to the
// processor. The reply is the response content as plain text.
func (a *TelegramAdapter) Dispatch(ctx context.Context, payload json.RawMessage) any {
	if !a.status.isHealthy() {
		err := &NotReadyError{Adapter: a.Name()}
		log.Printf("telegram adapter: %v", err)
		return err.Error()
	}

	msg, err := a.normalize(payload)
	if err != nil {
		a.status.recordError()
		a.processor.RecordError()
		log.Printf("telegram adapter: rejected payload: %v", err)
		return "Failed to process message: " + err.Error()
	}

	resp := a.processor.Process(ctx, msg)
	a.status.recordMessage()
	return resp.Content
}

// normalize decodes the bridge envelope into a canonical message.
func (a *TelegramAdapter) normalize(payload json.RawMessage) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, &ValidationError{Field: "payload", Reason: err.Error()}
	}
	msg.ClientType = ClientTelegram
	if msg.MessageType == "" {
		msg.MessageType = MessageText
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Health reports the adapter counters.
func (a *TelegramAdapter) Health() Health {
	return a.status.health()
}
