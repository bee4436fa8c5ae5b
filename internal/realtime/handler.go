// AngelaMos | 2026
// handler.go

package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"

	"github.com/pulsecrm/pulse-crm/internal/core"
	"github.com/pulsecrm/pulse-crm/internal/middleware"
)

const (
	EventReady   = "ready"
	writeTimeout = 5 * time.Second
)

type Handler struct {
	hub            *Hub
	originPatterns []string
	logger         *slog.Logger
}

func NewHandler(hub *Hub, originPatterns []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub:            hub,
		originPatterns: originPatterns,
		logger:         logger,
	}
}

// RegisterRoutes mounts the socket. Browsers cannot set headers on a
// WebSocket handshake, so authenticator should accept ?token= as well.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.With(authenticator).Get("/realtime", h.Stream)
}

func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", "error", err)
		return
	}

	client := h.hub.Connect(userID)
	defer h.hub.Disconnect(client)

	ctx := conn.CloseRead(r.Context())

	if err := h.write(ctx, conn, Event{
		Type:      EventReady,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		_ = conn.Close(websocket.StatusInternalError, "write_failed") //nolint:errcheck
		return
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "closed") //nolint:errcheck
			return
		case event, ok := <-client.Events():
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "server shutting down") //nolint:errcheck
				return
			}
			if err := h.write(ctx, conn, event); err != nil {
				_ = conn.Close(websocket.StatusInternalError, "write_failed") //nolint:errcheck
				return
			}
		}
	}
}

func (h *Handler) write(ctx context.Context, conn *websocket.Conn, event Event) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, conn, event)
}

// OriginPatterns turns CORS origins like "https://app.example.com" into
// the host patterns the WebSocket handshake checks against.
func OriginPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			return []string{"*"}
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			patterns = append(patterns, origin)
			continue
		}
		patterns = append(patterns, u.Host)
	}
	return patterns
}
