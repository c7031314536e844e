package handler

import (
	"net/http"
	"net/url"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "greia/internal/infrastructure/websocket"
	"greia/pkg/errors"
	"greia/pkg/logger"
	"greia/pkg/response"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader gorillaws.Upgrader
}

var webSocketHandler *WebSocketHandler

func NewWebSocketHandler(hub *ws.Hub, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func SetupWebSocketHandler(hub *ws.Hub, allowedOrigins []string) {
	webSocketHandler = NewWebSocketHandler(hub, allowedOrigins)
}

func GetWebSocketHandler() *WebSocketHandler {
	return webSocketHandler
}

// originChecker accepts requests without an Origin header (non-browser
// clients) and browser origins listed in allowed. "*" allows any origin.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return set[u.Scheme+"://"+u.Host]
	}
}

// HandleWebSocket expects the auth middleware to have resolved ?token= into uid.
// It blocks until the connection closes.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID := callerID(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		logger.Warn("WebSocket: upgrade failed for %s: %v", userID, err)
		return nil
	}

	h.hub.Serve(c.Request().Context(), conn, userID)
	return nil
}
