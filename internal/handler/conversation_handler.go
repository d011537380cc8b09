package handler

import (
	"Parley/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConversationHandler interface {
	CreateOrGet(c *gin.Context)
	CreateGroup(c *gin.Context)
	GetConversations(c *gin.Context)
	GetConversationByID(c *gin.Context)
}

type conversationHandler struct {
	conversations service.ConversationService
	users         service.UserService
}

func NewConversationHandler(conversations service.ConversationService, users service.UserService) ConversationHandler {
	return &conversationHandler{
		conversations: conversations,
		users:         users,
	}
}

type createOrGetConversationRequest struct {
	OtherUserID    string   `json:"otherUserId"`
	ParticipantIDs []string `json:"participantIds"`
	IsGroup        bool     `json:"isGroup"`
	Name           string   `json:"name"`
}

// CreateOrGet is the dual-mode conversation endpoint: {otherUserId}
// resolves (or creates) the direct conversation for the pair,
// {participantIds, isGroup, name} creates a fresh group.
func (h *conversationHandler) CreateOrGet(c *gin.Context) {
	var req createOrGetConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := currentUser(c, h.users)
	if err != nil {
		writeError(c, err)
		return
	}

	if req.IsGroup || len(req.ParticipantIDs) > 0 {
		participants, err := parseObjectIDs(req.ParticipantIDs)
		if err != nil {
			writeError(c, err)
			return
		}

		conversation, err := h.conversations.CreateGroup(c.Request.Context(), user, participants, req.Name)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"conversation": conversation})
		return
	}

	otherID, err := parseObjectID(req.OtherUserID, "otherUserId")
	if err != nil {
		writeError(c, err)
		return
	}

	conversation, err := h.conversations.ResolveDirect(c.Request.Context(), user, otherID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversationId": conversation.ID.Hex()})
}

type createGroupRequest struct {
	ParticipantIDs []string `json:"participantIds"`
	Name           string   `json:"name"`
}

func (h *conversationHandler) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := currentUser(c, h.users)
	if err != nil {
		writeError(c, err)
		return
	}

	participants, err := parseObjectIDs(req.ParticipantIDs)
	if err != nil {
		writeError(c, err)
		return
	}

	conversation, err := h.conversations.CreateGroup(c.Request.Context(), user, participants, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conversation})
}

func (h *conversationHandler) GetConversations(c *gin.Context) {
	user, err := currentUser(c, h.users)
	if err != nil {
		writeError(c, err)
		return
	}

	conversations, err := h.conversations.List(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

func (h *conversationHandler) GetConversationByID(c *gin.Context) {
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

	conversation, err := h.conversations.GetByID(c.Request.Context(), user, conversationID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conversation})
}

func parseObjectIDs(values []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		id, err := parseObjectID(v, "participantIds")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
