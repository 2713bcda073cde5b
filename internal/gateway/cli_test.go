package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func newTestCLIAdapter(t *testing.T) (*CLIAdapter, *Processor) {
	t.Helper()
	p := NewProcessor(&echoGenerator{}, nil)
	a := NewCLIAdapter(p)
	if err := a.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return a, p
}

func commandPayload(command string, args []string, userID string) json.RawMessage {
	raw, _ := json.Marshal(map[string]any{
		"command": command,
		"args":    args,
		"user_id": userID,
		"options": map[string]any{},
	})
	return raw
}

func TestCLISendForwardsJoinedArgs(t *testing.T) {
	a, p := newTestCLIAdapter(t)

	reply := a.Dispatch(context.Background(), commandPayload("send", []string{"hello", "world"}, "u1")).(*CommandReply)
	if !reply.Success {
		t.Fatalf("expected success, got %q", reply.Error)
	}
	if !strings.Contains(reply.Output, "hello world") {
		t.Errorf("expected echoed 'hello world', got %q", reply.Output)
	}
	if a.Health().MessageCount != 1 {
		t.Errorf("expected messageCount 1, got %d", a.Health().MessageCount)
	}
	if p.Stats().MessagesByClient[ClientCLI] != 1 {
		t.Error("expected the forwarded message in cli stats")
	}
}

func TestCLISendWithoutArgs(t *testing.T) {
	a, _ := newTestCLIAdapter(t)

	reply := a.Dispatch(context.Background(), commandPayload("send", nil, "u1")).(*CommandReply)
	if reply.Success {
		t.Fatal("expected usage failure")
	}
	if !strings.Contains(reply.Error, "usage") {
		t.Errorf("expected usage text, got %q", reply.Error)
	}
}

func TestCLIBuiltinsAnsweredLocally(t *testing.T) {
	a, p := newTestCLIAdapter(t)

	for _, cmd := range []string{"help", "status", "stats", "history"} {
		reply := a.Dispatch(context.Background(), commandPayload(cmd, nil, "u1")).(*CommandReply)
		if !reply.Success {
			t.Errorf("%s: expected success, got %q", cmd, reply.Error)
		}
	}

	// Local built-ins never reach the central processor.
	if p.Stats().TotalMessages != 0 {
		t.Errorf("expected no processed messages, got %d", p.Stats().TotalMessages)
	}
	if a.Health().MessageCount != 0 {
		t.Errorf("expected messageCount 0, got %d", a.Health().MessageCount)
	}
}

func TestCLIUnrecognizedCommandForwarded(t *testing.T) {
	a, p := newTestCLIAdapter(t)

	reply := a.Dispatch(context.Background(), commandPayload("deploy", []string{"prod"}, "u1")).(*CommandReply)
	if !reply.Success {
		t.Fatalf("expected success, got %q", reply.Error)
	}
	if reply.Command != "deploy" {
		t.Errorf("expected echoed command name, got %q", reply.Command)
	}
	if reply.Timestamp == "" {
		t.Error("expected a timestamp on forwarded replies")
	}
	if p.Stats().MessagesByClient[ClientCLI] != 1 {
		t.Error("expected the forwarded command in cli stats")
	}
}

func TestCLIClearEmptiesHistory(t *testing.T) {
	a, _ := newTestCLIAdapter(t)

	for i := 0; i < 5; i++ {
		a.Dispatch(context.Background(), commandPayload("help", nil, "u1"))
	}
	if a.HistorySize() == 0 {
		t.Fatal("expected history entries")
	}

	reply := a.Dispatch(context.Background(), commandPayload("clear", nil, "u1")).(*CommandReply)
	if !reply.Success {
		t.Fatalf("clear failed: %q", reply.Error)
	}
	if a.HistorySize() != 0 {
		t.Errorf("expected empty history, got %d", a.HistorySize())
	}
}

func TestCLIHistoryRingIsBounded(t *testing.T) {
	a, _ := newTestCLIAdapter(t)
	a.history.capacity = 10

	for i := 0; i < 25; i++ {
		a.Dispatch(context.Background(), commandPayload("help", []string{fmt.Sprintf("n%d", i)}, "u1"))
	}

	if a.HistorySize() != 10 {
		t.Fatalf("expected history capped at 10, got %d", a.HistorySize())
	}
	recent := a.history.last(10)
	if got := recent[len(recent)-1].Args[0]; got != "n24" {
		t.Errorf("expected newest entry n24 last, got %q", got)
	}
	if got := recent[0].Args[0]; got != "n15" {
		t.Errorf("expected oldest retained entry n15 first, got %q", got)
	}
}

func TestCLIHistoryRendersLastTen(t *testing.T) {
	a, _ := newTestCLIAdapter(t)

	for i := 0; i < 15; i++ {
		a.Dispatch(context.Background(), commandPayload("help", []string{fmt.Sprintf("n%d", i)}, "u1"))
	}

	reply := a.Dispatch(context.Background(), commandPayload("history", nil, "u1")).(*CommandReply)
	if strings.Contains(reply.Output, "n4 ") || strings.Contains(reply.Output, "n4\n") {
		t.Errorf("expected only the last 10 entries rendered, got:\n%s", reply.Output)
	}
	if !strings.Contains(reply.Output, "n14") {
		t.Errorf("expected recent entry rendered, got:\n%s", reply.Output)
	}
}

func TestCLIDispatchBeforeInitialize(t *testing.T) {
	p := NewProcessor(&echoGenerator{}, nil)
	a := NewCLIAdapter(p)

	reply := a.Dispatch(context.Background(), commandPayload("send", []string{"hi"}, "u1")).(*CommandReply)
	if reply.Success {
		t.Fatal("expected not-ready failure")
	}
	if !strings.Contains(reply.Error, "not ready") {
		t.Errorf("expected not-ready error, got %q", reply.Error)
	}
	if a.Health().MessageCount != 0 {
		t.Error("not-ready dispatch must not count a message")
	}
}

func TestCLIValidation(t *testing.T) {
	a, _ := newTestCLIAdapter(t)

	reply := a.Dispatch(context.Background(), json.RawMessage(`{"args":["x"],"user_id":"u1"}`)).(*CommandReply)
	if reply.Success {
		t.Fatal("expected validation failure")
	}
	if a.Health().ErrorCount != 1 {
		t.Error("expected adapter error counter bump")
	}
}

func TestCLIShutdownClearsHistoryNotCounters(t *testing.T) {
	a, _ := newTestCLIAdapter(t)

	a.Dispatch(context.Background(), commandPayload("send", []string{"hi"}, "u1"))
	a.Dispatch(context.Background(), commandPayload("help", nil, "u1"))

	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if a.HistorySize() != 0 {
		t.Error("shutdown must clear command history")
	}
	if a.Health().MessageCount != 1 {
		t.Error("shutdown must not reset counters")
	}
}
