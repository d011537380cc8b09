package handler

import (
	"Parley/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type TypingHandler interface {
	SetTyping(c *gin.Context)
	GetTypingIndicator(c *gin.Context)
}

type typingHandler struct {
	typing service.TypingService
	users  service.UserService
}

func NewTypingHandler(typing service.TypingService, users service.UserService) TypingHandler {
	return &typingHandler{
		typing: typing,
		users:  users,
	}
}

func (h *typingHandler) SetTyping(c *gin.Context) {
	conversationID, err := parseObjectID(c.Param("conversationId"), "conversationId")
	if err != nil {
		writeError(c, err)
		return
	}

	user, err := currentUser(c, h.users)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.typing.SetTyping(c.Request.Context(), user, conversationID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *typingHandler) GetTypingIndicator(c *gin.Context) {
	conversationID, err := parseObjectID(c.Param("conversationId"), "conversationId")
	if err != nil {
		writeError(c, err)
		return
	}

	user, err := currentUser(c, h.users)
	if err != nil {
		writeError(c, err)
		return
	}

	indicator, err := h.typing.Indicator(c.Request.Context(), user, conversationID)
	if err != nil {
		writeError(c, err)
		return
	}

	// Nobody typing surfaces as an explicit null.
	if indicator == "" {
		c.JSON(http.StatusOK, gin.H{"typing": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"typing": indicator})
}
