package router

import (
	"certlab/internal/middleware"

	"github.com/gin-gonic/gin"
)

func InitUserQuotaRouter(
	deps RouterDeps,
	r *gin.RouterGroup,
) {
	// learners may read a quota (the handler scopes them to their own)
	quotaRouter := r.Group("/labs/quotas").Use(middleware.StrictAuth(deps.JWT, deps.Logger))
	{
		quotaRouter.GET("/:user_id", deps.UserQuotaHandler.GetQuota)
	}

	adminRouter := r.Group("/labs/quotas").Use(
		middleware.StrictAuth(deps.JWT, deps.Logger),
		middleware.AdminOnly(deps.Logger),
	)
	{
		adminRouter.GET("", deps.UserQuotaHandler.ListQuotas)
		adminRouter.PUT("/:user_id", deps.UserQuotaHandler.SetQuota)
		adminRouter.DELETE("/:user_id", deps.UserQuotaHandler.DeleteQuota)
	}
}
