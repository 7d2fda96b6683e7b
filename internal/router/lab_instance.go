package router

import (
	"certlab/internal/middleware"

	"github.com/gin-gonic/gin"
)

func InitLabInstanceRouter(
	deps RouterDeps,
	r *gin.RouterGroup,
) {
	// The console WebSocket is same-origin and browsers cannot attach an
	// Authorization header to the upgrade request, so it authenticates with
	// the short-lived ws_token issued by POST /instances/:id/console instead
	// of going through StrictAuth.
	r.Group("/labs").GET("/console/ws", deps.LabInstanceHandler.ConsoleWS)

	// Strict permission routing group
	strictAuthRouter := r.Group("/labs/instances").Use(middleware.StrictAuth(deps.JWT, deps.Logger))
	{
		strictAuthRouter.GET("", deps.LabInstanceHandler.ListInstances)
		strictAuthRouter.POST("", deps.LabInstanceHandler.ProvisionInstance)
		strictAuthRouter.GET("/:id", deps.LabInstanceHandler.GetInstance)
		strictAuthRouter.POST("/:id/action", deps.LabInstanceHandler.ApplyInstanceAction)
		strictAuthRouter.POST("/:id/console", deps.LabInstanceHandler.GetConsole)
	}
}
