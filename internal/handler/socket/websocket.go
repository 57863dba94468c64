package socket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/attention-ai/doubtbuddy/backend/internal/logger"
	buddyService "github.com/attention-ai/doubtbuddy/backend/internal/service/buddy"
	chatService "github.com/attention-ai/doubtbuddy/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// WebSocketHandler WebSocket 会话处理器，每个连接绑定一个会话
type WebSocketHandler struct {
	buddySvc    *buddyService.Service
	logger      *zap.Logger
	upgrader    websocket.Upgrader
	readTimeout time.Duration
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(buddySvc *buddyService.Service, log *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		buddySvc:    buddySvc,
		logger:      logger.OrNop(log),
		readTimeout: readTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{conversationID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type           string          `json:"type"`
	ConversationID string          `json:"conversationId"`
	Data           json.RawMessage `json:"data"`
	Timestamp      int64           `json:"timestamp"`
}

// TextMessage 文本消息
type TextMessage struct {
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type           string      `json:"type"`
	ConversationID string      `json:"conversationId,omitempty"`
	Data           interface{} `json:"data,omitempty"`
	Timestamp      int64       `json:"timestamp"`
}

// handleWebSocket 处理WebSocket连接；同一连接上的消息按顺序逐条处理
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	transcript, err := h.buddySvc.Transcript(r.Context(), conversationID)
	if err != nil {
		if errors.Is(err, chatService.ErrConversationNotFound) {
			http.Error(w, "conversation not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := h.logger.With(zap.String("conversation", conversationID))
	log.Info("websocket connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
		return nil
	})

	go h.pingLoop(ctx, conn)

	h.send(conn, outgoingMessage{
		Type:           "connected",
		ConversationID: conversationID,
		Data:           map[string]any{"turns": transcript},
	})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(h.readTimeout))

		if msg.ConversationID != "" && msg.ConversationID != conversationID {
			h.sendError(conn, conversationID, "conversation mismatch")
			continue
		}

		h.handleMessage(ctx, conn, conversationID, &msg)

		// 处理回合期间不会读取 pong，回合结束后重新计算读超时
		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, conn *websocket.Conn, conversationID string, msg *inboundMessage) {
	switch msg.Type {
	case "text":
		h.handleTextMessage(ctx, conn, conversationID, msg.Data)
	case "ping":
		h.send(conn, outgoingMessage{Type: "pong", ConversationID: conversationID})
	default:
		h.sendError(conn, conversationID, "unsupported message type")
	}
}

func (h *WebSocketHandler) handleTextMessage(ctx context.Context, conn *websocket.Conn, conversationID string, raw json.RawMessage) {
	var text TextMessage
	if err := json.Unmarshal(raw, &text); err != nil {
		h.sendError(conn, conversationID, "invalid text payload")
		return
	}

	exchange, err := h.buddySvc.Ask(ctx, conversationID, text.Text)
	if err != nil {
		h.sendError(conn, conversationID, err.Error())
		return
	}

	h.send(conn, outgoingMessage{
		Type:           "reply",
		ConversationID: conversationID,
		Data: map[string]any{
			"user":      exchange.User,
			"assistant": exchange.Assistant,
		},
	})
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg outgoingMessage) {
	msg.Timestamp = time.Now().Unix()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Warn("websocket write failed", zap.String("type", msg.Type), zap.Error(err))
	}
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, conversationID, message string) {
	h.send(conn, outgoingMessage{
		Type:           "error",
		ConversationID: conversationID,
		Data:           map[string]string{"message": message},
	})
}

// pingLoop 定期发送ping消息；WriteControl 可与其他写操作并发调用
func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
