package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func newTestWebAdapter(t *testing.T) (*WebAdapter, *Processor) {
	t.Helper()
	p := NewProcessor(&echoGenerator{}, nil)
	a := NewWebAdapter(p)
	p.SetSessionCounter(a.SessionCount)
	if err := a.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return a, p
}

func webPayload(content, userID, sessionID string) json.RawMessage {
	m := map[string]any{"content": content, "user_id": userID}
	if sessionID != "" {
		m["session_id"] = sessionID
	}
	raw, _ := json.Marshal(m)
	return raw
}

func TestWebDispatchSuccess(t *testing.T) {
	a, _ := newTestWebAdapter(t)

	reply, ok := a.Dispatch(context.Background(), webPayload("hello", "u1", "")).(*WebReply)
	if !ok {
		t.Fatal("expected *WebReply")
	}
	if !reply.Success {
		t.Fatalf("expected success, got error %q", reply.Error)
	}
	if !strings.Contains(reply.Response.Content, "hello") {
		t.Errorf("expected echoed content, got %q", reply.Response.Content)
	}
	if reply.Response.Type != MessageText {
		t.Errorf("expected text type, got %q", reply.Response.Type)
	}

	if h := a.Health(); h.MessageCount != 1 || h.LastActivity == nil {
		t.Errorf("expected messageCount 1 and activity stamp, got %+v", h)
	}
}

func TestWebDispatchBeforeInitialize(t *testing.T) {
	p := NewProcessor(&echoGenerator{}, nil)
	a := NewWebAdapter(p)

	reply := a.Dispatch(context.Background(), webPayload("hello", "u1", "")).(*WebReply)
	if reply.Success {
		t.Fatal("expected not-ready failure")
	}
	if !strings.Contains(reply.Error, "not ready") {
		t.Errorf("expected not-ready error, got %q", reply.Error)
	}
	if a.Health().MessageCount != 0 {
		t.Error("not-ready dispatch must not count a message")
	}
	if p.Stats().TotalMessages != 0 {
		t.Error("not-ready dispatch must not reach the processor")
	}
}

func TestWebDispatchValidation(t *testing.T) {
	a, p := newTestWebAdapter(t)

	reply := a.Dispatch(context.Background(), webPayload("", "u1", "")).(*WebReply)
	if reply.Success {
		t.Fatal("expected validation failure")
	}
	if a.Health().ErrorCount != 1 {
		t.Error("expected adapter error counter bump")
	}
	if p.Stats().Errors != 1 {
		t.Error("expected gateway error counter bump")
	}
	if a.Health().MessageCount != 0 {
		t.Error("rejected payload must not count a message")
	}
}

func TestWebSessionLastWriteWins(t *testing.T) {
	a, _ := newTestWebAdapter(t)

	a.Dispatch(context.Background(), webPayload("hi", "alice", "s1"))
	a.Dispatch(context.Background(), webPayload("hi again", "bob", "s1"))

	if a.SessionCount() != 1 {
		t.Fatalf("expected one session, got %d", a.SessionCount())
	}
	s, ok := a.SessionFor("s1")
	if !ok {
		t.Fatal("expected session s1")
	}
	if s.UserID != "bob" {
		t.Errorf("expected last writer bob, got %q", s.UserID)
	}
}

func TestWebNoSessionIDSkipsBookkeeping(t *testing.T) {
	a, _ := newTestWebAdapter(t)

	a.Dispatch(context.Background(), webPayload("hi", "u1", ""))
	if a.SessionCount() != 0 {
		t.Errorf("expected no sessions, got %d", a.SessionCount())
	}
}

func TestWebSessionEviction(t *testing.T) {
	a, _ := newTestWebAdapter(t)
	a.maxSessions = 3

	for i := 0; i < 5; i++ {
		a.Dispatch(context.Background(), webPayload("hi", "u1", fmt.Sprintf("s%d", i)))
	}

	if a.SessionCount() != 3 {
		t.Fatalf("expected table capped at 3, got %d", a.SessionCount())
	}
	// The most recent session must survive.
	if _, ok := a.SessionFor("s4"); !ok {
		t.Error("expected most recent session to be retained")
	}
}

func TestWebShutdownClearsSessionsNotCounters(t *testing.T) {
	a, _ := newTestWebAdapter(t)

	a.Dispatch(context.Background(), webPayload("hi", "u1", "s1"))
	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	if a.SessionCount() != 0 {
		t.Error("shutdown must clear the session table")
	}
	if a.Health().MessageCount != 1 {
		t.Error("shutdown must not reset counters")
	}
}

func TestWebHealthReportsSessions(t *testing.T) {
	a, _ := newTestWebAdapter(t)
	a.Dispatch(context.Background(), webPayload("hi", "u1", "s1"))

	h := a.Health()
	if h.ActiveSessions == nil || *h.ActiveSessions != 1 {
		t.Errorf("expected active_sessions 1, got %+v", h.ActiveSessions)
	}
}
