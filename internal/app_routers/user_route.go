package approuters

import (
	"Parley/internal/auth"
	"Parley/internal/configuration"

	"github.com/gin-gonic/gin"
)

func UserRouters(router *gin.Engine, container *configuration.Container) {
	userRoute := router.Group("/api/users")

	// First-login sync is the one endpoint without an auth requirement.
	userRoute.POST("/sync", container.UserHandler.SyncUser)

	authed := userRoute.Group("", auth.Middleware(container.Verifier))
	{
		authed.GET("", container.UserHandler.GetAllUsers)
		authed.GET("/me", container.UserHandler.GetMe)
		authed.POST("/status", container.UserHandler.UpdateStatus)
	}
}
