package handler

import (
	"Parley/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UnreadHandler interface {
	ResetUnreadCount(c *gin.Context)
	GetUnreadCounts(c *gin.Context)
}

type unreadHandler struct {
	unread service.UnreadService
	users  service.UserService
}

func NewUnreadHandler(unread service.UnreadService, users service.UserService) UnreadHandler {
	return &unreadHandler{
		unread: unread,
		users:  users,
	}
}

func (h *unreadHandler) ResetUnreadCount(c *gin.Context) {
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

	if err := h.unread.Reset(c.Request.Context(), user, conversationID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *unreadHandler) GetUnreadCounts(c *gin.Context) {
	user, err := currentUser(c, h.users)
	if err != nil {
		writeError(c, err)
		return
	}

	counters, err := h.unread.ListForUser(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": counters})
}
