package handler

import (
	"Parley/internal/auth"
	"Parley/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	SyncUser(c *gin.Context)
	UpdateStatus(c *gin.Context)
	GetAllUsers(c *gin.Context)
	GetMe(c *gin.Context)
}

type userHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) UserHandler {
	return &userHandler{users: users}
}

type syncUserRequest struct {
	ClerkID  string `json:"clerkId" binding:"required"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl"`
}

// SyncUser upserts the caller's record on login. This is the one endpoint
// that does not require an existing user.
func (h *userHandler) SyncUser(c *gin.Context) {
	var req syncUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.Sync(c.Request.Context(), req.ClerkID, req.Name, req.Email, req.ImageURL)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"userId": user.ID.Hex()})
}

type updateStatusRequest struct {
	Online *bool `json:"online" binding:"required"`
}

func (h *userHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := currentUser(c, h.users)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.users.UpdateStatus(c.Request.Context(), user, *req.Online); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *userHandler) GetAllUsers(c *gin.Context) {
	user, err := currentUser(c, h.users)
	if err != nil {
		writeError(c, err)
		return
	}

	users, err := h.users.ListOthers(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetMe returns the caller's record, or null when the subject has never
// synced.
func (h *userHandler) GetMe(c *gin.Context) {
	subject, _ := auth.Subject(c)
	user, err := h.users.Me(c.Request.Context(), subject)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
