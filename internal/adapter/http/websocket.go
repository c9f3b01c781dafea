package http

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/couchcryptid/crash-map-dashboard/internal/view"
)

const (
	maxChangeBytes = 4096
	writeWait      = 10 * time.Second
)

type sessionError struct {
	Error string `json:"error"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 16 * 1024,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin accepts same-origin requests and any origin listed in the CORS
// configuration; "*" accepts everything.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(s.origins, "*") || slices.Contains(s.origins, origin) {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// handleSession runs one reactive session. The client sends view.Change
// messages; every change is answered with a view.Update holding only the
// panels that depend on the changed control, or a sessionError.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	session := s.binding.NewSession()
	defer session.Close()

	logger := s.logger.With("session_id", session.ID())
	logger.Info("session opened", "remote_addr", r.RemoteAddr)

	conn.SetReadLimit(maxChangeBytes)
	// The server's ReadTimeout deadline survives the hijack; a session lives as long as its tab.
	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		logger.Warn("clear read deadline failed", "error", err)
		return
	}

	if err := s.send(conn, session.Initial()); err != nil {
		logger.Warn("initial render write failed", "error", err)
		return
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("session read failed", "error", err)
			}
			logger.Info("session closed")
			return
		}

		var reply any
		var change view.Change
		if err := json.Unmarshal(msg, &change); err != nil {
			reply = sessionError{Error: "malformed change: " + err.Error()}
		} else if update, err := session.Apply(change); err != nil {
			logger.Debug("control change rejected", "control", change.Control, "error", err)
			reply = sessionError{Error: err.Error()}
		} else {
			reply = update
		}

		if err := s.send(conn, reply); err != nil {
			logger.Warn("session write failed", "error", err)
			return
		}
	}
}

func (s *Server) send(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}
