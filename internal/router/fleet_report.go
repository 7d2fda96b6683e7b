package router

import (
	"certlab/internal/middleware"

	"github.com/gin-gonic/gin"
)

// InitFleetReportRouter wires the fleet dashboard routes used by the admin UI.
func InitFleetReportRouter(
	deps RouterDeps,
	r *gin.RouterGroup,
) {
	fleetRouter := r.Group("/labs/fleet").Use(
		middleware.StrictAuth(deps.JWT, deps.Logger),
		middleware.AdminOnly(deps.Logger),
	)
	{
		fleetRouter.GET("/dashboard", deps.FleetReportHandler.GetDashboard)
		fleetRouter.GET("/metrics", deps.FleetReportHandler.GetMetrics)
	}
}
