package approuters

import (
	"Parley/internal/auth"
	"Parley/internal/configuration"

	"github.com/gin-gonic/gin"
)

func MessageRouters(router *gin.Engine, container *configuration.Container) {
	messageRoute := router.Group("/api/messages", auth.Middleware(container.Verifier))
	{
		messageRoute.DELETE("/:messageId", container.MessageHandler.DeleteMessage)

		messageRoute.POST("/:messageId/reactions", container.ReactionHandler.ToggleReaction)
		messageRoute.GET("/:messageId/reactions", container.ReactionHandler.GetReactionsByMessage)
	}
}
