package approuters

import (
	"Parley/internal/auth"
	"Parley/internal/configuration"

	"github.com/gin-gonic/gin"
)

func ConversationRouters(router *gin.Engine, container *configuration.Container) {
	conversationRoute := router.Group("/api/conversations", auth.Middleware(container.Verifier))
	{
		conversationRoute.POST("", container.ConversationHandler.CreateOrGet)
		conversationRoute.POST("/group", container.ConversationHandler.CreateGroup)
		conversationRoute.GET("", container.ConversationHandler.GetConversations)
		conversationRoute.GET("/:conversationId", container.ConversationHandler.GetConversationByID)

		conversationRoute.POST("/:conversationId/messages", container.MessageHandler.SendMessage)
		conversationRoute.GET("/:conversationId/messages", container.MessageHandler.GetMessages)

		conversationRoute.POST("/:conversationId/typing", container.TypingHandler.SetTyping)
		conversationRoute.GET("/:conversationId/typing", container.TypingHandler.GetTypingIndicator)

		conversationRoute.POST("/:conversationId/read", container.UnreadHandler.ResetUnreadCount)
	}

	unreadRoute := router.Group("/api/unread", auth.Middleware(container.Verifier))
	{
		unreadRoute.GET("", container.UnreadHandler.GetUnreadCounts)
	}
}
