package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/RawsTourix/bot-farm/internal/gateway"
)

// messageEnvelope is the part of the inbound body the transport inspects;
// the rest is passed through to the owning adapter untouched.
type messageEnvelope struct {
	ClientType gateway.ClientType `json:"client_type"`
}

// handleMessage is the unified endpoint for all client surfaces.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
		return
	}
	defer r.Body.Close()

	var envelope messageEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	reply, err := s.router.Dispatch(r.Context(), envelope.ClientType, body)
	if err != nil {
		if errors.Is(err, gateway.ErrUnsupportedClientType) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"response": reply,
	})
}

// handleHealth reports per-adapter health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	adapters := make(map[string]gateway.Health)
	for _, a := range s.router.Adapters() {
		adapters[a.Name()] = a.Health()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"adapters":  adapters,
	})
}

// handleStats reports the processor's aggregate snapshot.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.processor.Stats())
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "bot-farm gateway",
		"status":  "running",
	})
}
