package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	p := NewProcessor(&echoGenerator{}, nil)
	telegram := NewTelegramAdapter(p)
	web := NewWebAdapter(p)
	cli := NewCLIAdapter(p)
	p.SetSessionCounter(web.SessionCount)

	for _, a := range []Adapter{telegram, web, cli} {
		if err := a.Initialize(context.Background()); err != nil {
			t.Fatalf("Initialize %s: %v", a.Name(), err)
		}
	}
	return NewRouter(telegram, web, cli)
}

func TestRouterDispatchByClientType(t *testing.T) {
	r := newTestRouter(t)

	reply, err := r.Dispatch(context.Background(), ClientWeb, webPayload("hi", "u1", ""))
	if err != nil {
		t.Fatalf("Dispatch web: %v", err)
	}
	if _, ok := reply.(*WebReply); !ok {
		t.Errorf("expected *WebReply, got %T", reply)
	}

	reply, err = r.Dispatch(context.Background(), ClientCLI, commandPayload("help", nil, "u1"))
	if err != nil {
		t.Fatalf("Dispatch cli: %v", err)
	}
	if _, ok := reply.(*CommandReply); !ok {
		t.Errorf("expected *CommandReply, got %T", reply)
	}
}

func TestRouterUnsupportedClientType(t *testing.T) {
	r := newTestRouter(t)

	_, err := r.Dispatch(context.Background(), ClientType("sms"), json.RawMessage(`{}`))
	if !errors.Is(err, ErrUnsupportedClientType) {
		t.Fatalf("expected ErrUnsupportedClientType, got %v", err)
	}
}

func TestRouterAdaptersOrder(t *testing.T) {
	r := newTestRouter(t)

	adapters := r.Adapters()
	if len(adapters) != 3 {
		t.Fatalf("expected 3 adapters, got %d", len(adapters))
	}
	want := []string{"telegram", "web", "cli"}
	for i, a := range adapters {
		if a.Name() != want[i] {
			t.Errorf("adapter %d: expected %s, got %s", i, want[i], a.Name())
		}
	}
}
