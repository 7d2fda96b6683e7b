package handler

import (
	"net/http"

	v1 "certlab/api/v1"
	"certlab/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserQuotaHandler struct {
	*Handler
	quotaService service.UserQuotaService
}

func NewUserQuotaHandler(handler *Handler, quotaService service.UserQuotaService) *UserQuotaHandler {
	return &UserQuotaHandler{
		Handler:      handler,
		quotaService: quotaService,
	}
}

// ListQuotas godoc
// @Summary List user quotas
// @Tags Quotas
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} v1.ListQuotaResponse
// @Router /api/v1/labs/quotas [get]
func (h *UserQuotaHandler) ListQuotas(ctx *gin.Context) {
	data, err := h.quotaService.List(ctx)
	if err != nil {
		h.logger.WithContext(ctx).Error("quotaService.List error", zap.Error(err))
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// GetQuota godoc
// @Summary Get a user's quota
// @Description Materializes the platform defaults if the user has no row yet
// @Tags Quotas
// @Accept json
// @Produce json
// @Security Bearer
// @Param user_id path string true "user id"
// @Success 200 {object} v1.QuotaResponse
// @Router /api/v1/labs/quotas/{user_id} [get]
func (h *UserQuotaHandler) GetQuota(ctx *gin.Context) {
	userID := ctx.Param("user_id")
	// learners can only read their own quota
	if GetRoleFromCtx(ctx) != "admin" {
		userID = GetUserIdFromCtx(ctx)
	}
	detail, err := h.quotaService.Get(ctx, userID)
	if err != nil {
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, detail)
}

// SetQuota godoc
// @Summary Set a quota override
// @Description Replaces the user's limits; accrued counters are kept
// @Tags Quotas
// @Accept json
// @Produce json
// @Security Bearer
// @Param user_id path string true "user id"
// @Param request body v1.QuotaLimits true "params"
// @Success 200 {object} v1.QuotaResponse
// @Router /api/v1/labs/quotas/{user_id} [put]
func (h *UserQuotaHandler) SetQuota(ctx *gin.Context) {
	req := new(v1.QuotaLimits)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	detail, err := h.quotaService.SetOverride(ctx, ctx.Param("user_id"), req)
	if err != nil {
		h.logger.WithContext(ctx).Error("quotaService.SetOverride error", zap.Error(err))
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, detail)
}

// DeleteQuota godoc
// @Summary Clear a quota override
// @Description Resets limits to platform defaults without discarding counters
// @Tags Quotas
// @Accept json
// @Produce json
// @Security Bearer
// @Param user_id path string true "user id"
// @Success 200 {object} v1.QuotaResponse
// @Router /api/v1/labs/quotas/{user_id} [delete]
func (h *UserQuotaHandler) DeleteQuota(ctx *gin.Context) {
	detail, err := h.quotaService.ClearOverride(ctx, ctx.Param("user_id"))
	if err != nil {
		h.logger.WithContext(ctx).Error("quotaService.ClearOverride error", zap.Error(err))
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, detail)
}
