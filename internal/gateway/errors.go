package gateway

import (
	"errors"
	"fmt"
)

// ErrUnsupportedClientType is returned by the Router when a message
// carries a client type tag no adapter handles. It is the only error the
// gateway core lets escape to the transport layer.
var ErrUnsupportedClientType = errors.New("unsupported client type")

// ValidationError reports a malformed inbound payload: a missing required
// field or an unrecognized enumeration value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// NotReadyError reports a dispatch attempted against an adapter whose
// health flag is still false.
type NotReadyError struct {
	Adapter string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("%s adapter is not ready", e.Adapter)
}
