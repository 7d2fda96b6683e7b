package handler

import (
	"net/http"

	v1 "certlab/api/v1"
	"certlab/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FleetReportHandler struct {
	*Handler
	fleetService service.FleetReportService
}

func NewFleetReportHandler(handler *Handler, fleetService service.FleetReportService) *FleetReportHandler {
	return &FleetReportHandler{
		Handler:      handler,
		fleetService: fleetService,
	}
}

// GetDashboard godoc
// @Summary Fleet dashboard
// @Description Instance counts, resource totals, estimated daily cost and recent failures
// @Tags Fleet
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} v1.FleetDashboardResponse
// @Router /api/v1/labs/fleet/dashboard [get]
func (h *FleetReportHandler) GetDashboard(ctx *gin.Context) {
	data, err := h.fleetService.Dashboard(ctx)
	if err != nil {
		h.logger.WithContext(ctx).Error("fleetService.Dashboard error", zap.Error(err))
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// GetMetrics godoc
// @Summary Fleet metrics for a period
// @Tags Fleet
// @Accept json
// @Produce json
// @Security Bearer
// @Param period query string false "1h, 24h, 7d or 30d" default(24h)
// @Success 200 {object} v1.FleetMetricsResponse
// @Router /api/v1/labs/fleet/metrics [get]
func (h *FleetReportHandler) GetMetrics(ctx *gin.Context) {
	req := new(v1.FleetMetricsRequest)
	if err := ctx.ShouldBindQuery(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	data, err := h.fleetService.Metrics(ctx, req.Period)
	if err != nil {
		h.logger.WithContext(ctx).Error("fleetService.Metrics error", zap.Error(err))
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, data)
}
