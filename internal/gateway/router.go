package gateway

import (
	"context"
	"encoding/json"
	"fmt"
)

// Router maps a message's client type tag to the owning adapter. The
// closed ClientType enumeration is matched exhaustively, so adding a
// client surface means adding a field and a case here.
type Router struct {
	Telegram *TelegramAdapter
	Web      *WebAdapter
	CLI      *CLIAdapter
}

// NewRouter wires the three adapters into a dispatch table.
func NewRouter(telegram *TelegramAdapter, web *WebAdapter, cli *CLIAdapter) *Router {
	return &Router{Telegram: telegram, Web: web, CLI: cli}
}

// Dispatch routes the payload to the adapter owning the client type. An
// unrecognized tag returns ErrUnsupportedClientType; this is the one
// failure that reaches the transport layer instead of becoming a canned
// reply.
func (r *Router) Dispatch(ctx context.Context, client ClientType, payload json.RawMessage) (any, error) {
	switch client {
	case ClientTelegram:
		return r.Telegram.Dispatch(ctx, payload), nil
	case ClientWeb:
		return r.Web.Dispatch(ctx, payload), nil
	case ClientCLI:
		return r.CLI.Dispatch(ctx, payload), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedClientType, string(client))
	}
}

// Adapters returns the adapters in a stable order for group operations
// like fan-out initialization and health reporting.
func (r *Router) Adapters() []Adapter {
	return []Adapter{r.Telegram, r.Web, r.CLI}
}
