package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
	"github.com/msto63/mAF/internal/frege/service"
	"github.com/msto63/mAF/pkg/core/logging"
)

const (
	readTimeout  = 120 * time.Second
	writeTimeout = 10 * time.Second
)

// WebSocket upgrader with permissive settings for local development
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WSMessage represents a request frame
type WSMessage struct {
	Type  string `json:"type"` // "tokenize", "parse", "ping"
	ID    string `json:"id,omitempty"`
	Input string `json:"input"`
}

// WSResponse represents a response frame; ID echoes the request
type WSResponse struct {
	Type    string      `json:"type"`
	ID      string      `json:"id,omitempty"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *WSError    `json:"error,omitempty"`
}

// WSError represents an error payload
type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WebSocketHandler serves tokenize and parse requests over one connection
type WebSocketHandler struct {
	service *service.Service
	logger  *logging.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(svc *service.Service, logger *logging.Logger) *WebSocketHandler {
	if logger == nil {
		logger = logging.New("frege-websocket")
	}
	return &WebSocketHandler{
		service: svc,
		logger:  logger,
	}
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

// handleConnection answers frames in order until the client goes away.
// Each connection is its own history session.
func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	sessionID := service.NewSessionID()
	ctx = service.WithSession(ctx, sessionID)

	h.logger.Info("WebSocket connection established",
		"remote", conn.RemoteAddr().String(),
		"session", sessionID,
	)

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", "session", sessionID, "error", err)
			} else {
				h.logger.Info("WebSocket connection closed", "session", sessionID)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		if err := h.send(conn, h.dispatch(ctx, msg)); err != nil {
			h.logger.Warn("WebSocket write error", "session", sessionID, "error", err)
			return
		}
	}
}

func (h *WebSocketHandler) dispatch(ctx context.Context, msg WSMessage) WSResponse {
	resp := WSResponse{Type: msg.Type, ID: msg.ID}

	var (
		data interface{}
		err  error
	)

	switch msg.Type {
	case "ping":
		resp.Type = "pong"
		resp.Success = true
		return resp
	case "tokenize":
		data, err = h.service.Tokenize(ctx, msg.Input)
	case "parse":
		data, err = h.service.Parse(ctx, msg.Input)
	default:
		resp.Type = "error"
		resp.Error = &WSError{Code: "unknown_type", Message: "Unknown message type: " + msg.Type}
		return resp
	}

	if err != nil {
		h.logger.LogError(err)
		resp.Error = &WSError{Code: string(mdwerror.GetCode(err)), Message: err.Error()}
		return resp
	}

	resp.Success = true
	resp.Data = data
	return resp
}

func (h *WebSocketHandler) send(conn *websocket.Conn, resp WSResponse) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(resp)
}
