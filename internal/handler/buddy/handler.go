package buddy

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	buddyService "github.com/attention-ai/doubtbuddy/backend/internal/service/buddy"
	chatService "github.com/attention-ai/doubtbuddy/backend/internal/service/chat"
	"github.com/attention-ai/doubtbuddy/backend/pkg/utils"
)

// Handler Doubt Buddy 会话的 HTTP 处理器
type Handler struct {
	buddySvc *buddyService.Service
}

// New 创建会话处理器
func New(buddySvc *buddyService.Service) *Handler {
	return &Handler{buddySvc: buddySvc}
}

// RegisterRoutes 注册会话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/buddy", h.handleProfile)
	r.Post("/conversations", h.handleCreateConversation)
	r.Get("/conversations/{conversationID}", h.handleTranscript)
	r.Post("/conversations/{conversationID}/turns", h.handleSendTurn)
}

// handleProfile 返回助手信息
func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.buddySvc.Profile())
}

// handleCreateConversation 创建会话，返回开场白
func (h *Handler) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	conversation, transcript, err := h.buddySvc.Start(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"conversation": conversation,
		"turns":        transcript,
	})
}

// handleTranscript 返回会话记录
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	transcript, err := h.buddySvc.Transcript(r.Context(), conversationID)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"conversationId": conversationID,
		"turns":          transcript,
	})
}

// handleSendTurn 发送一条消息并返回助手回复；助手失败时回复为兜底文案，状态码仍为 200
func (h *Handler) handleSendTurn(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conversationID := chi.URLParam(r, "conversationID")
	exchange, err := h.buddySvc.Ask(r.Context(), conversationID, payload.Text)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"user":      exchange.User,
		"assistant": exchange.Assistant,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, chatService.ErrConversationNotFound):
		return http.StatusNotFound
	case errors.Is(err, buddyService.ErrEmptyMessage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
