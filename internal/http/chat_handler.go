package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ai-chatbot/internal/service"
)

// ChatHandler mantiene dependencias para los endpoints de chat.
type ChatHandler struct {
	logger *zap.Logger
	chat   *service.ChatService
}

// NewChatHandler crea una instancia de ChatHandler con sus dependencias.
func NewChatHandler(logger *zap.Logger, chat *service.ChatService) *ChatHandler {
	return &ChatHandler{
		logger: logger,
		chat:   chat,
	}
}

// PostChat maneja POST /api/chat.
func (h *ChatHandler) PostChat(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
		Session string `json:"session"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply, session, err := h.chat.Send(c.Request.Context(), req.Message, req.Session)
	if err != nil {
		h.logger.Error("chat send failed", zap.Error(err), zap.String("session", session))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch AI response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply, "session": session})
}

// GetHistory maneja GET /api/chat/history/:sessionId.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	sessionID := c.Param("sessionId")

	messages, err := h.chat.History(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Error("fetch history failed", zap.Error(err), zap.String("session", sessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch session history"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// GetSessions maneja GET /api/chat/sessions.
func (h *ChatHandler) GetSessions(c *gin.Context) {
	sessions, err := h.chat.Sessions(c.Request.Context())
	if err != nil {
		h.logger.Error("fetch sessions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch session list"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// ClearSession maneja DELETE /api/chat/clear/:sessionId.
func (h *ChatHandler) ClearSession(c *gin.Context) {
	sessionID := c.Param("sessionId")

	count, err := h.chat.ClearSession(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Error("clear session failed", zap.Error(err), zap.String("session", sessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear session messages"})
		return
	}

	h.logger.Info("session cleared", zap.String("session", sessionID), zap.Int64("deleted", count))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearAll maneja DELETE /api/chat/clear-all.
func (h *ChatHandler) ClearAll(c *gin.Context) {
	if err := h.chat.ClearAll(c.Request.Context()); err != nil {
		h.logger.Error("clear all failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear all messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
