// Package generator provides ResponseGenerator implementations for the
// gateway: a stub echo for development and an OpenAI-backed generator.
package generator

import (
	"context"

	"github.com/RawsTourix/bot-farm/internal/gateway"
)

// Stub is a development generator that echoes the message content back.
type Stub struct{}

// NewStub creates the stub generator.
func NewStub() *Stub { return &Stub{} }

// Generate returns a demo reply containing the original content.
func (s *Stub) Generate(_ context.Context, msg *gateway.Message) (string, error) {
	return "Received message: " + msg.Content + "\n\nThis is a demo reply from the gateway.", nil
}
