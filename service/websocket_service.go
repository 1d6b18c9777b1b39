package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tieubaoca/unibot/types"
	"go.uber.org/zap"
)

const (
	wsReadLimit    = 64 * 1024
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// WebSocketService serves the chat exchange over a websocket. Every chat
// frame is handled like an independent POST /chat.
type WebSocketService struct {
	chat     *ChatService
	upgrader websocket.Upgrader
	logger   *zap.Logger

	readTimeout time.Duration
	pingPeriod  time.Duration
}

func NewWebSocketService(chat *ChatService, logger *zap.Logger) *WebSocketService {
	return &WebSocketService{
		chat:   chat,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		readTimeout: wsReadTimeout,
		pingPeriod:  wsReadTimeout * 9 / 10,
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(conn, done)

	ctx := r.Context()
	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read", zap.Error(err))
			}
			return
		}

		if err := conn.WriteJSON(s.handleFrame(ctx, p)); err != nil {
			s.logger.Warn("websocket write", zap.Error(err))
			return
		}
		// The provider call may outlast the read deadline; the idle window
		// starts again once the reply is out.
		conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		if ctx.Err() != nil {
			return
		}
	}
}

// pingLoop keeps idle clients alive; their pongs extend the read deadline.
func (s *WebSocketService) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(s.pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				s.logger.Debug("websocket ping", zap.Error(err))
				return
			}
		}
	}
}

func (s *WebSocketService) handleFrame(ctx context.Context, p []byte) types.WebSocketResponse {
	var req types.WebsocketRequest
	if err := json.Unmarshal(p, &req); err != nil {
		s.logger.Debug("websocket unmarshal", zap.Error(err))
		return errorFrame("Invalid request body")
	}

	switch req.Type {
	case types.TypeWebsocketPing:
		return types.WebSocketResponse{Type: types.TypeWebsocketPong}
	case types.TypeWebsocketChat:
		var payload types.ChatRequest
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			s.logger.Debug("websocket chat payload", zap.Error(err))
			return errorFrame("Invalid request body")
		}
		reply, err := s.chat.Chat(ctx, payload.Message)
		if err != nil {
			var svcErr *ServiceError
			if errors.As(err, &svcErr) {
				return errorFrame(svcErr.SafeMessage)
			}
			return errorFrame(ServiceErrorMessage)
		}
		return types.WebSocketResponse{
			Type:    types.TypeWebsocketChat,
			Payload: types.ChatResponse{Reply: reply.Text},
		}
	default:
		return errorFrame("Invalid message type")
	}
}

func errorFrame(message string) types.WebSocketResponse {
	return types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.ErrorResponse{Error: message},
	}
}
