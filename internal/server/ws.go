package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/abhisek/scholar/internal/quiz"
)

// socketAction is a client message on the quiz socket.
type socketAction struct {
	Action string `json:"action"` // "select" or "advance"
	Option int    `json:"option"`
}

// handleQuizSocket runs one quiz session over a WebSocket. The server
// sends a snapshot after loading and after every action, and closes the
// connection once the session is finished or failed.
func (s *Server) handleQuizSocket(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	if topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	sess := s.newSession(topic)
	if err := wsjson.Write(ctx, conn, snapshot(sess)); err != nil {
		return
	}

	if err := s.startSession(ctx, sess, queryInt(r, "count")); err != nil {
		s.log.Warn("quiz socket: generation failed", "topic", topic, "error", err)
		_ = wsjson.Write(ctx, conn, snapshot(sess))
		conn.Close(websocket.StatusNormalClosure, "quiz unavailable")
		return
	}
	defer s.deps.Registry.Delete(sess.ID())

	if err := wsjson.Write(ctx, conn, snapshot(sess)); err != nil {
		return
	}

	for {
		var act socketAction
		if err := wsjson.Read(ctx, conn, &act); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
				s.log.Debug("quiz socket read", "session", sess.ID(), "error", err)
			}
			return
		}

		snap := s.apply(sess, act)
		if err := wsjson.Write(ctx, conn, snap); err != nil {
			return
		}
		if sess.State().Terminal() {
			conn.Close(websocket.StatusNormalClosure, "quiz finished")
			return
		}
	}
}

func (s *Server) apply(sess *quiz.Session, act socketAction) Snapshot {
	var err error
	switch act.Action {
	case "select":
		err = sess.Select(act.Option)
	case "advance":
		_, err = sess.Advance()
	default:
		err = errors.New("unknown action " + act.Action)
	}
	snap := snapshot(sess)
	if err != nil {
		snap.Error = err.Error()
	}
	return snap
}
