package router

import (
	"certlab/internal/middleware"

	"github.com/gin-gonic/gin"
)

func InitLabProviderRouter(
	deps RouterDeps,
	r *gin.RouterGroup,
) {
	// catalog reads are open to any authenticated learner
	providerRouter := r.Group("/labs/providers").Use(middleware.StrictAuth(deps.JWT, deps.Logger))
	{
		providerRouter.GET("", deps.LabProviderHandler.ListProviders)
		providerRouter.GET("/:id", deps.LabProviderHandler.GetProvider)
	}

	adminRouter := r.Group("/labs/providers").Use(
		middleware.StrictAuth(deps.JWT, deps.Logger),
		middleware.AdminOnly(deps.Logger),
	)
	{
		adminRouter.PUT("/:id", deps.LabProviderHandler.SetProviderEnabled)
		adminRouter.PUT("/:id/instance-types/:type_id", deps.LabProviderHandler.PutInstanceType)
		adminRouter.DELETE("/:id/instance-types/:type_id", deps.LabProviderHandler.DeleteInstanceType)
	}
}
