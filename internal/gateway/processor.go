package gateway

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// Generator produces reply content for messages the processor does not
// handle itself. Implementations may fail; the processor absorbs those
// failures.
type Generator interface {
	Generate(ctx context.Context, msg *Message) (string, error)
}

// SessionCounter reports the number of live sessions. The web adapter owns
// the session table; the processor only queries it for stats reporting.
type SessionCounter func() int

// Stats is an immutable snapshot of gateway-wide counters.
type Stats struct {
	TotalMessages    uint64                `json:"total_messages"`
	MessagesByClient map[ClientType]uint64 `json:"messages_by_client"`
	Errors           uint64                `json:"errors"`
	StartTime        time.Time             `json:"start_time"`
	UptimeSeconds    float64               `json:"uptime_seconds"`
	ActiveSessions   int                   `json:"active_sessions"`
}

// Processor is the single point every canonical message flows through.
// It maintains aggregate statistics, answers built-in commands, delegates
// everything else to the Generator, and converts internal failures into
// ordinary error-text responses. Process never fails visibly.
type Processor struct {
	generator Generator
	sessions  SessionCounter

	mu        sync.Mutex
	total     uint64
	byClient  map[ClientType]uint64
	errors    uint64
	startTime time.Time
}

// NewProcessor creates a processor backed by the given generator. The
// session counter may be nil when no adapter tracks sessions.
func NewProcessor(generator Generator, sessions SessionCounter) *Processor {
	byClient := make(map[ClientType]uint64, len(ClientTypes))
	for _, c := range ClientTypes {
		byClient[c] = 0
	}
	return &Processor{
		generator: generator,
		sessions:  sessions,
		byClient:  byClient,
		startTime: time.Now(),
	}
}

// SetSessionCounter installs the session counter after construction. The
// web adapter owns the session table but needs the processor first, so
// wiring happens in two steps.
func (p *Processor) SetSessionCounter(fn SessionCounter) {
	p.mu.Lock()
	p.sessions = fn
	p.mu.Unlock()
}

// Process handles one canonical message and always returns exactly one
// response. Counters are bumped before any work so stats reflect attempted
// messages, not only successful ones.
func (p *Processor) Process(ctx context.Context, msg *Message) *Response {
	p.mu.Lock()
	p.total++
	p.byClient[msg.ClientType]++
	p.mu.Unlock()

	log.Printf("gateway: processing %s message %s from %s", msg.ClientType, msg.ID, msg.UserID)

	content, err := p.generate(ctx, msg)
	if err != nil {
		p.mu.Lock()
		p.errors++
		p.mu.Unlock()
		log.Printf("gateway: message %s failed: %v", msg.ID, err)
		content = fmt.Sprintf("An error occurred while processing your message: %v", err)
	}

	return &Response{
		MessageID:    msg.ID,
		ClientType:   msg.ClientType,
		Content:      content,
		ResponseType: MessageText,
	}
}

func (p *Processor) generate(ctx context.Context, msg *Message) (string, error) {
	lower := strings.ToLower(msg.Content)

	switch {
	case msg.MessageType == MessageCommand:
		return p.handleCommand(msg), nil
	case strings.HasPrefix(lower, "/help"):
		return helpText, nil
	case strings.HasPrefix(lower, "/status"):
		return p.statusText(), nil
	default:
		if p.generator == nil {
			return "", fmt.Errorf("response generator not configured")
		}
		return p.generator.Generate(ctx, msg)
	}
}

// handleCommand answers the built-in commands without touching the
// generator.
func (p *Processor) handleCommand(msg *Message) string {
	switch strings.TrimSpace(msg.Content) {
	case "/start":
		name := msg.UserName
		if name == "" {
			name = msg.UserID
		}
		return fmt.Sprintf("Hi, %s! I am the gateway bot that unifies the CLI, web and Telegram surfaces.", name)
	case "/stats":
		return p.statusText()
	default:
		return fmt.Sprintf("Unknown command: %s", strings.TrimSpace(msg.Content))
	}
}

const helpText = `Available commands:
/help - show this help
/start - greeting
/status - system status
/stats - gateway statistics

Any other text message is forwarded for processing.`

func (p *Processor) statusText() string {
	stats := p.Stats()
	var b strings.Builder
	b.WriteString("Gateway status:\n")
	fmt.Fprintf(&b, "  Uptime: %.0fs\n", stats.UptimeSeconds)
	fmt.Fprintf(&b, "  Total messages: %d\n", stats.TotalMessages)
	fmt.Fprintf(&b, "  Errors: %d\n", stats.Errors)
	b.WriteString("  Messages by client:\n")
	for _, c := range ClientTypes {
		fmt.Fprintf(&b, "    %s: %d\n", c, stats.MessagesByClient[c])
	}
	return strings.TrimRight(b.String(), "\n")
}

// RecordError bumps the gateway-wide error counter. Adapters call this for
// failures the processor never sees, such as payload validation errors.
func (p *Processor) RecordError() {
	p.mu.Lock()
	p.errors++
	p.mu.Unlock()
}

// Stats returns a snapshot of the aggregate counters. The per-client map
// is a copy; mutating it does not affect the processor.
func (p *Processor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	byClient := make(map[ClientType]uint64, len(p.byClient))
	for c, n := range p.byClient {
		byClient[c] = n
	}

	active := 0
	if p.sessions != nil {
		active = p.sessions()
	}

	return Stats{
		TotalMessages:    p.total,
		MessagesByClient: byClient,
		Errors:           p.errors,
		StartTime:        p.startTime,
		UptimeSeconds:    time.Since(p.startTime).Seconds(),
		ActiveSessions:   active,
	}
}
