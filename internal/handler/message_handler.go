package handler

import (
	"Parley/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type MessageHandler interface {
	SendMessage(c *gin.Context)
	GetMessages(c *gin.Context)
	DeleteMessage(c *gin.Context)
}

type messageHandler struct {
	messages service.MessageService
	users    service.UserService
}

func NewMessageHandler(messages service.MessageService, users service.UserService) MessageHandler {
	return &messageHandler{
		messages: messages,
		users:    users,
	}
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *messageHandler) SendMessage(c *gin.Context) {
	conversationID, err := parseObjectID(c.Param("conversationId"), "conversationId")
	if err != nil {
		writeError(c, err)
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := currentUser(c, h.users)
	if err != nil {
		writeError(c, err)
		return
	}

	messageID, err := h.messages.Send(c.Request.Context(), user, conversationID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messageId": messageID.Hex()})
}

func (h *messageHandler) GetMessages(c *gin.Context) {
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

	messages, err := h.messages.List(c.Request.Context(), user, conversationID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *messageHandler) DeleteMessage(c *gin.Context) {
	messageID, err := parseObjectID(c.Param("messageId"), "messageId")
	if err != nil {
		writeError(c, err)
		return
	}

	user, err := currentUser(c, h.users)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.messages.SoftDelete(c.Request.Context(), user, messageID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
