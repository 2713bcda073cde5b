package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket serves a persistent web-chat connection. Each JSON frame
// is a web protocol payload ({content, user_id, session_id?}) dispatched
// through the web adapter; the reply frame is the web protocol reply.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		reply := s.router.Web.Dispatch(r.Context(), json.RawMessage(frame))
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("server: websocket write: %v", err)
			return
		}
	}
}
