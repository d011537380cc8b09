package handler

import (
	"Parley/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ReactionHandler interface {
	ToggleReaction(c *gin.Context)
	GetReactionsByMessage(c *gin.Context)
}

type reactionHandler struct {
	reactions service.ReactionService
	users     service.UserService
}

func NewReactionHandler(reactions service.ReactionService, users service.UserService) ReactionHandler {
	return &reactionHandler{
		reactions: reactions,
		users:     users,
	}
}

type toggleReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

func (h *reactionHandler) ToggleReaction(c *gin.Context) {
	messageID, err := parseObjectID(c.Param("messageId"), "messageId")
	if err != nil {
		writeError(c, err)
		return
	}

	var req toggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := currentUser(c, h.users)
	if err != nil {
		writeError(c, err)
		return
	}

	added, err := h.reactions.Toggle(c.Request.Context(), user, messageID, req.Emoji)
	if err != nil {
		writeError(c, err)
		return
	}

	if added {
		c.JSON(http.StatusOK, gin.H{"added": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

func (h *reactionHandler) GetReactionsByMessage(c *gin.Context) {
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

	reactions, err := h.reactions.ListByMessage(c.Request.Context(), user, messageID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reactions": reactions})
}
