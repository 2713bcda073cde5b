package gateway

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// defaultMaxSessions bounds the web session table. When full, the least
// recently active session is evicted to make room.
const defaultMaxSessions = 1024

// Session correlates a client-supplied session identifier with the last
// user and activity seen for it.
type Session struct {
	UserID       string    `json:"user_id"`
	LastActivity time.Time `json:"last_activity"`
}

// webMessage is the inbound web protocol payload.
type webMessage struct {
	Content     string      `json:"content"`
	UserID      string      `json:"user_id"`
	SessionID   string      `json:"session_id,omitempty"`
	MessageType MessageType `json:"message_type,omitempty"`
}

// WebReply is the web protocol reply shape.
type WebReply struct {
	Success  bool        `json:"success"`
	Response *WebContent `json:"response,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// WebContent is the payload of a successful web reply.
type WebContent struct {
	Content   string      `json:"content"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

// WebAdapter handles messages from web clients and owns the session
// table. A payload without a session id is legal and simply skips session
// bookkeeping.
type WebAdapter struct {
	processor   *Processor
	status      adapterStatus
	maxSessions int

	sessionMu sync.Mutex
	sessions  map[string]*Session
}

// NewWebAdapter creates a web adapter bound to the processor.
func NewWebAdapter(processor *Processor) *WebAdapter {
	return &WebAdapter{
		processor:   processor,
		maxSessions: defaultMaxSessions,
		sessions:    make(map[string]*Session),
	}
}

func (a *WebAdapter) Name() string { return "web" }

// Initialize marks the adapter ready to accept messages.
func (a *WebAdapter) Initialize(ctx context.Context) error {
	a.status.setHealthy(true)
	log.Printf("web adapter initialized")
	return nil
}

// Shutdown drops all sessions. Counters survive until process restart.
func (a *WebAdapter) Shutdown(ctx context.Context) error {
	a.sessionMu.Lock()
	a.sessions = make(map[string]*Session)
	a.sessionMu.Unlock()
	log.Printf("web adapter stopped")
	return nil
}

// Dispatch validates the web payload, forwards it through the processor
// and updates the session table.
func (a *WebAdapter) Dispatch(ctx context.Context, payload json.RawMessage) any {
	if !a.status.isHealthy() {
		err := &NotReadyError{Adapter: a.Name()}
		log.Printf("web adapter: %v", err)
		return &WebReply{Success: false, Error: err.Error()}
	}

	msg, web, err := a.normalize(payload)
	if err != nil {
		a.status.recordError()
		a.processor.RecordError()
		log.Printf("web adapter: rejected payload: %v", err)
		return &WebReply{Success: false, Error: err.Error()}
	}

	resp := a.processor.Process(ctx, msg)
	a.status.recordMessage()

	if web.SessionID != "" {
		a.touchSession(web.SessionID, web.UserID)
	}

	return &WebReply{
		Success: true,
		Response: &WebContent{
			Content:   resp.Content,
			Type:      resp.ResponseType,
			Timestamp: time.Now(),
		},
	}
}

// normalize validates the web payload and builds the canonical message.
func (a *WebAdapter) normalize(payload json.RawMessage) (*Message, *webMessage, error) {
	var web webMessage
	if err := json.Unmarshal(payload, &web); err != nil {
		return nil, nil, &ValidationError{Field: "payload", Reason: err.Error()}
	}
	if web.MessageType == "" {
		web.MessageType = MessageText
	}

	msg, err := NewMessage(ClientWeb, web.MessageType, web.Content, web.UserID, map[string]any{
		"session_id": web.SessionID,
		"user_agent": "web_client",
	})
	if err != nil {
		return nil, nil, err
	}
	return msg, &web, nil
}

// touchSession creates or updates the session entry. Last write wins on
// the user id. When the table is at capacity, the least recently active
// session is evicted first.
func (a *WebAdapter) touchSession(sessionID, userID string) {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()

	if s, ok := a.sessions[sessionID]; ok {
		s.UserID = userID
		s.LastActivity = time.Now()
		return
	}

	if len(a.sessions) >= a.maxSessions {
		a.evictOldestLocked()
	}
	a.sessions[sessionID] = &Session{UserID: userID, LastActivity: time.Now()}
}

func (a *WebAdapter) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, s := range a.sessions {
		if oldestID == "" || s.LastActivity.Before(oldest) {
			oldestID = id
			oldest = s.LastActivity
		}
	}
	if oldestID != "" {
		delete(a.sessions, oldestID)
	}
}

// SessionCount reports the number of live sessions. The processor uses
// this for the active_sessions stat.
func (a *WebAdapter) SessionCount() int {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	return len(a.sessions)
}

// SessionFor returns a copy of the session for the given id, if present.
func (a *WebAdapter) SessionFor(sessionID string) (Session, bool) {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	s, ok := a.sessions[sessionID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Health reports the adapter counters plus the live session count.
func (a *WebAdapter) Health() Health {
	h := a.status.health()
	n := a.SessionCount()
	h.ActiveSessions = &n
	return h
}
