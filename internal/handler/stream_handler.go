/*
Package handler provides the HTTP handler for the live message stream.

This file contains HandleStream, which upgrades the connection to WebSocket,
subscribes the viewer to the message feed, and forwards every newly appended
message the viewer may see. Pong replies double as heartbeats, so a connected
viewer is never reaped while the socket stays healthy.
*/
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"batepapo/internal/app/chat"
	"batepapo/internal/pkg/errs"
	"batepapo/internal/pkg/logx"
	"batepapo/internal/pkg/resp"
	"batepapo/internal/pkg/sanitize"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10
)

// HandleStream creates an HTTP HandlerFunc that streams visible messages to
// the viewer named in the user query parameter.
func HandleStream(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := sanitize.Strip(r.URL.Query().Get("user"))
		if viewer == "" {
			logx.Warn("Stream request rejected: missing user query parameter")
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		active, customErr := deps.Service.IsActive(r.Context(), viewer)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if !active {
			logx.Info("Stream request rejected: viewer is not in the room.", "viewer", viewer)
			resp.RespondError(w, r, errs.NewError(errs.ErrParticipantNotFound))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		sub := deps.Service.Subscribe(viewer)
		logx.Info("Stream established.", "viewer", viewer)

		go writePump(conn, viewer, sub)

		// readPump blocks until the client goes away, keeping the request
		// context alive for heartbeat refreshes.
		readPump(r.Context(), conn, deps, viewer, sub)
	}
}

// readPump consumes the connection until the client goes away. Each pong
// refreshes both the read deadline and the viewer's liveness timestamp.
func readPump(ctx context.Context, conn *websocket.Conn, deps *AppDeps, viewer string, sub *chat.Subscriber) {
	defer func() {
		deps.Service.Unsubscribe(sub)

		if err := conn.Close(); err != nil {
			logx.Error(err, "Stream connection close error", "viewer", viewer)
		}
	}()

	conn.SetReadLimit(512)

	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logx.Error(err, "Failed to set read deadline", "viewer", viewer)
		return
	}

	conn.SetPongHandler(func(string) error {
		if customErr := deps.Service.Heartbeat(ctx, viewer); customErr != nil {
			logx.Warn("Stream pong heartbeat failed.", "viewer", viewer)
		}
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logx.Info("Stream read ended.", "viewer", viewer)
			}
			return
		}
	}
}

// writePump forwards feed messages to the connection and keeps it alive with
// periodic pings.
func writePump(conn *websocket.Conn, viewer string, sub *chat.Subscriber) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := conn.Close(); err != nil {
			logx.Error(err, "Stream connection close error in write pump", "viewer", viewer)
		}
	}()

	for {
		select {
		case m, ok := <-sub.C():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeWait))
				return
			}

			payload, err := json.Marshal(m)
			if err != nil {
				logx.Error(err, "Failed to marshal stream message", "viewer", viewer, "message_id", m.ID)
				continue
			}

			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
