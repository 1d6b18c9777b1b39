package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/unibot/service"
	"github.com/tieubaoca/unibot/types"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
		return
	}

	reply, err := h.chatService.Chat(c.Request.Context(), req.Message)
	if err != nil {
		message := service.ServiceErrorMessage
		var svcErr *service.ServiceError
		if errors.As(err, &svcErr) {
			message = svcErr.SafeMessage
		}
		h.logger.Error("chat failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: message})
		return
	}

	h.logger.Info("chat answered", zap.String("source", string(reply.Source)))
	c.JSON(http.StatusOK, types.ChatResponse{Reply: reply.Text})
}
