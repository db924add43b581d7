package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/truthempowered/tercoach/internal/observe"
)

// wsReplyTimeout bounds how long one companion turn may take over the
// stream.
const wsReplyTimeout = 60 * time.Second

// handleVoiceChatStream upgrades to a WebSocket and carries the companion
// turn protocol: the client sends {"messages":[...]} frames, the server
// answers each with a {"reply","intent","gameId"} frame. The connection
// stays open until the client closes it or a frame fails to parse.
func (s *Server) handleVoiceChatStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.wsOrigins,
	})
	if err != nil {
		observe.Logger(r.Context()).Warn("websocket accept failed", "error", err.Error())
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream aborted")

	ctx := r.Context()
	for {
		var req voiceChatRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway ||
				errors.Is(err, context.Canceled) {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			observe.Logger(ctx).Warn("voice-chat stream read failed", "error", err.Error())
			conn.Close(websocket.StatusInvalidFramePayloadData, "malformed turn frame")
			return
		}

		replyCtx, cancel := context.WithTimeout(ctx, wsReplyTimeout)
		reply := s.assistant.Respond(replyCtx, req.Messages)
		err := wsjson.Write(replyCtx, conn, reply)
		cancel()
		if err != nil {
			observe.Logger(ctx).Warn("voice-chat stream write failed", "error", err.Error())
			return
		}
	}
}
