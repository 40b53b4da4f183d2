package api

import (
	"net/http"

	"apostila-ai/backend/internal/models"
	"apostila-ai/backend/internal/service"
	"apostila-ai/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves the simple and the parameterized chat routes
type ChatHandler struct {
	service *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(service *service.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// RegisterRoutes registers the chat routes
func (h *ChatHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/chat", h.Chat)
	r.POST("/chatvolt-proxy", h.Proxy)
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err, service.MsgChatFieldsRequired))
		return
	}

	logger.FromContext(c).Debug("chat request", "user_id", req.UserID, "message_length", len(req.Message))

	resp, err := h.service.Chat(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Proxy handles POST /api/chatvolt-proxy
func (h *ChatHandler) Proxy(c *gin.Context) {
	var req models.ProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err, service.MsgChatFieldsRequired))
		return
	}

	resp, err := h.service.Proxy(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
