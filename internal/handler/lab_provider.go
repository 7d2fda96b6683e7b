package handler

import (
	"net/http"

	v1 "certlab/api/v1"
	"certlab/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LabProviderHandler struct {
	*Handler
	providerService service.LabProviderService
}

func NewLabProviderHandler(handler *Handler, providerService service.LabProviderService) *LabProviderHandler {
	return &LabProviderHandler{
		Handler:         handler,
		providerService: providerService,
	}
}

// ListProviders godoc
// @Summary List providers
// @Tags Providers
// @Accept json
// @Produce json
// @Security Bearer
// @Param enabled_only query bool false "only enabled providers"
// @Success 200 {object} v1.ListProviderResponse
// @Router /api/v1/labs/providers [get]
func (h *LabProviderHandler) ListProviders(ctx *gin.Context) {
	req := new(v1.ListProviderRequest)
	if err := ctx.ShouldBindQuery(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	data, err := h.providerService.List(ctx, req.EnabledOnly)
	if err != nil {
		h.logger.WithContext(ctx).Error("providerService.List error", zap.Error(err))
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// GetProvider godoc
// @Summary Get one provider
// @Tags Providers
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "provider id"
// @Success 200 {object} v1.ProviderResponse
// @Router /api/v1/labs/providers/{id} [get]
func (h *LabProviderHandler) GetProvider(ctx *gin.Context) {
	detail, err := h.providerService.Get(ctx, ctx.Param("id"))
	if err != nil {
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, detail)
}

// SetProviderEnabled godoc
// @Summary Enable or disable a provider
// @Description Disabling only gates new provisioning, running instances are untouched
// @Tags Providers
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "provider id"
// @Param is_enabled query bool true "enabled flag"
// @Success 200 {object} v1.ProviderResponse
// @Router /api/v1/labs/providers/{id} [put]
func (h *LabProviderHandler) SetProviderEnabled(ctx *gin.Context) {
	req := new(v1.SetProviderEnabledRequest)
	if err := ctx.ShouldBindQuery(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	detail, err := h.providerService.SetEnabled(ctx, ctx.Param("id"), *req.IsEnabled)
	if err != nil {
		h.logger.WithContext(ctx).Error("providerService.SetEnabled error", zap.Error(err))
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, detail)
}

// PutInstanceType godoc
// @Summary Create or update an instance type
// @Tags Providers
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "provider id"
// @Param type_id path string true "instance type id"
// @Param request body v1.InstanceTypeSpec true "params"
// @Success 200 {object} v1.ProviderResponse
// @Router /api/v1/labs/providers/{id}/instance-types/{type_id} [put]
func (h *LabProviderHandler) PutInstanceType(ctx *gin.Context) {
	req := new(v1.InstanceTypeSpec)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrInvalidCatalogEntry, nil)
		return
	}

	detail, err := h.providerService.PutInstanceType(ctx, ctx.Param("id"), ctx.Param("type_id"), req)
	if err != nil {
		h.logger.WithContext(ctx).Error("providerService.PutInstanceType error", zap.Error(err))
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, detail)
}

// DeleteInstanceType godoc
// @Summary Delete an instance type
// @Description Existing instances keep their resource snapshot
// @Tags Providers
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "provider id"
// @Param type_id path string true "instance type id"
// @Success 200 {object} v1.ProviderResponse
// @Router /api/v1/labs/providers/{id}/instance-types/{type_id} [delete]
func (h *LabProviderHandler) DeleteInstanceType(ctx *gin.Context) {
	detail, err := h.providerService.DeleteInstanceType(ctx, ctx.Param("id"), ctx.Param("type_id"))
	if err != nil {
		h.logger.WithContext(ctx).Error("providerService.DeleteInstanceType error", zap.Error(err))
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, detail)
}
