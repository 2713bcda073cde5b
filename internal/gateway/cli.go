package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
)

// defaultHistoryCapacity bounds the retained command history. Only the
// most recent 10 entries are ever rendered.
const defaultHistoryCapacity = 100

// commandRequest is the inbound CLI protocol payload.
type commandRequest struct {
	Command string         `json:"command"`
	Args    []string       `json:"args,omitempty"`
	UserID  string         `json:"user_id"`
	Options map[string]any `json:"options,omitempty"`
}

// CommandReply is the CLI protocol reply shape.
type CommandReply struct {
	Success   bool   `json:"success"`
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
	Command   string `json:"command,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// CommandHistoryEntry records one executed CLI command.
type CommandHistoryEntry struct {
	Command   string    `json:"command"`
	Args      []string  `json:"args,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
}

// builtinCommands lists the commands the CLI adapter answers locally,
// in help-listing order.
var builtinCommands = []struct {
	Name string
	Desc string
}{
	{"help", "Show command help"},
	{"status", "Show system status"},
	{"stats", "Show gateway statistics"},
	{"send", "Send a message for processing"},
	{"history", "Show command history"},
	{"clear", "Clear command history"},
}

func isBuiltin(cmd string) bool {
	for _, b := range builtinCommands {
		if b.Name == cmd {
			return true
		}
	}
	return false
}

// CLIAdapter handles command requests from the command-line surface.
// Built-in commands are answered locally; send and unrecognized commands
// are forwarded through the central processor.
type CLIAdapter struct {
	processor *Processor
	status    adapterStatus
	history   historyRing
}

// NewCLIAdapter creates a CLI adapter bound to the processor.
func NewCLIAdapter(processor *Processor) *CLIAdapter {
	return &CLIAdapter{
		processor: processor,
		history:   historyRing{capacity: defaultHistoryCapacity},
	}
}

func (a *CLIAdapter) Name() string { return "cli" }

// Initialize marks the adapter ready to accept commands.
func (a *CLIAdapter) Initialize(ctx context.Context) error {
	a.status.setHealthy(true)
	log.Printf("cli adapter initialized")
	return nil
}

// Shutdown drops the command history. Counters survive until restart.
func (a *CLIAdapter) Shutdown(ctx context.Context) error {
	a.history.clear()
	log.Printf("cli adapter stopped")
	return nil
}

// Dispatch validates the command payload and either answers it locally or
// forwards it through the processor.
func (a *CLIAdapter) Dispatch(ctx context.Context, payload json.RawMessage) any {
	if !a.status.isHealthy() {
		err := &NotReadyError{Adapter: a.Name()}
		log.Printf("cli adapter: %v", err)
		return &CommandReply{Success: false, Error: err.Error()}
	}

	req, err := a.normalize(payload)
	if err != nil {
		a.status.recordError()
		a.processor.RecordError()
		log.Printf("cli adapter: rejected payload: %v", err)
		return &CommandReply{Success: false, Error: err.Error()}
	}

	a.history.append(CommandHistoryEntry{
		Command:   req.Command,
		Args:      req.Args,
		Timestamp: time.Now(),
		UserID:    req.UserID,
	})

	if isBuiltin(req.Command) {
		return a.handleBuiltin(ctx, req)
	}
	return a.forwardCommand(ctx, req)
}

func (a *CLIAdapter) normalize(payload json.RawMessage) (*commandRequest, error) {
	var req commandRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, &ValidationError{Field: "payload", Reason: err.Error()}
	}
	if req.Command == "" {
		return nil, &ValidationError{Field: "command", Reason: "required"}
	}
	if req.UserID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "required"}
	}
	return &req, nil
}

func (a *CLIAdapter) handleBuiltin(ctx context.Context, req *commandRequest) *CommandReply {
	switch req.Command {
	case "help":
		a.status.touch()
		return &CommandReply{Success: true, Output: a.formatHelp()}
	case "status":
		a.status.touch()
		return &CommandReply{Success: true, Output: formatStatus(a.processor.Stats())}
	case "stats":
		a.status.touch()
		return &CommandReply{Success: true, Output: formatStats(a.processor.Stats())}
	case "history":
		a.status.touch()
		return &CommandReply{Success: true, Output: a.formatHistory()}
	case "clear":
		a.history.clear()
		a.status.touch()
		return &CommandReply{Success: true, Output: "Command history cleared"}
	case "send":
		return a.sendMessage(ctx, req)
	}
	return &CommandReply{Success: false, Error: fmt.Sprintf("Unknown command: %s", req.Command)}
}

// sendMessage forwards the joined arguments as a plain text message.
func (a *CLIAdapter) sendMessage(ctx context.Context, req *commandRequest) *CommandReply {
	if len(req.Args) == 0 {
		a.status.recordError()
		return &CommandReply{Success: false, Error: "usage: send <message>"}
	}

	msg, err := NewMessage(ClientCLI, MessageText, strings.Join(req.Args, " "), req.UserID, map[string]any{
		"via_cli": true,
	})
	if err != nil {
		a.status.recordError()
		a.processor.RecordError()
		return &CommandReply{Success: false, Error: err.Error()}
	}

	resp := a.processor.Process(ctx, msg)
	a.status.recordMessage()
	return &CommandReply{Success: true, Output: resp.Content}
}

// forwardCommand sends an unrecognized command through the processor as a
// command-typed message with the raw tokens preserved in metadata.
func (a *CLIAdapter) forwardCommand(ctx context.Context, req *commandRequest) *CommandReply {
	content := strings.TrimSpace(req.Command + " " + strings.Join(req.Args, " "))
	msg, err := NewMessage(ClientCLI, MessageCommand, content, req.UserID, map[string]any{
		"command": req.Command,
		"args":    req.Args,
		"options": req.Options,
	})
	if err != nil {
		a.status.recordError()
		a.processor.RecordError()
		return &CommandReply{Success: false, Error: err.Error()}
	}

	resp := a.processor.Process(ctx, msg)
	a.status.recordMessage()
	return &CommandReply{
		Success:   true,
		Output:    resp.Content,
		Command:   req.Command,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func (a *CLIAdapter) formatHelp() string {
	var b strings.Builder
	b.WriteString("Available commands:\n\n")
	for _, c := range builtinCommands {
		fmt.Fprintf(&b, "  %-10s - %s\n", c.Name, c.Desc)
	}
	b.WriteString("\nExamples:\n")
	b.WriteString("  send hello there\n")
	b.WriteString("  status\n")
	b.WriteString("  history\n")
	return b.String()
}

func formatStatus(stats Stats) string {
	return fmt.Sprintf(`Gateway status:
  Uptime: %.1f hours
  Total messages: %d
  Active sessions: %d
  Errors: %d`,
		stats.UptimeSeconds/3600, stats.TotalMessages, stats.ActiveSessions, stats.Errors)
}

func formatStats(stats Stats) string {
	return fmt.Sprintf(`Gateway statistics:
  Total messages: %d

  By client type:
    telegram: %d
    web: %d
    cli: %d

  Active sessions: %d
  Errors: %d
  Uptime: %.1f seconds`,
		stats.TotalMessages,
		stats.MessagesByClient[ClientTelegram],
		stats.MessagesByClient[ClientWeb],
		stats.MessagesByClient[ClientCLI],
		stats.ActiveSessions, stats.Errors, stats.UptimeSeconds)
}

func (a *CLIAdapter) formatHistory() string {
	recent := a.history.last(10)
	if len(recent) == 0 {
		return "Command history is empty"
	}

	var b strings.Builder
	b.WriteString("Command history:\n\n")
	for i, e := range recent {
		line := e.Command
		if len(e.Args) > 0 {
			line += " " + strings.Join(e.Args, " ")
		}
		fmt.Fprintf(&b, "  %2d. [%s] %s\n", i+1, e.Timestamp.Format("15:04:05"), line)
	}
	return b.String()
}

// HistorySize reports the number of retained history entries.
func (a *CLIAdapter) HistorySize() int {
	return a.history.len()
}

// Health reports the adapter counters plus the history size.
func (a *CLIAdapter) Health() Health {
	h := a.status.health()
	n := a.history.len()
	h.HistorySize = &n
	return h
}
