package handler

import (
	"net/http"

	v1 "certlab/api/v1"
	"certlab/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type LabInstanceHandler struct {
	*Handler
	instanceService service.LabInstanceService
	consoleService  service.LabConsoleService
}

func NewLabInstanceHandler(
	handler *Handler,
	instanceService service.LabInstanceService,
	consoleService service.LabConsoleService,
) *LabInstanceHandler {
	return &LabInstanceHandler{
		Handler:         handler,
		instanceService: instanceService,
		consoleService:  consoleService,
	}
}

// ProvisionInstance godoc
// @Summary Provision a lab instance
// @Description Validates provider catalog and quota, creates the instance and starts it
// @Tags Lab instances
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body v1.ProvisionInstanceRequest true "params"
// @Success 200 {object} v1.InstanceResponse
// @Router /api/v1/labs/instances [post]
func (h *LabInstanceHandler) ProvisionInstance(ctx *gin.Context) {
	req := new(v1.ProvisionInstanceRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	// learners provision for themselves; admins may pass another user id
	if GetRoleFromCtx(ctx) != "admin" {
		req.UserID = GetUserIdFromCtx(ctx)
	}

	detail, err := h.instanceService.Provision(ctx, req)
	if err != nil {
		h.logger.WithContext(ctx).Error("instanceService.Provision error", zap.Error(err))
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, detail)
}

// authorizeInstance lets admins touch any instance and learners only their own.
func (h *LabInstanceHandler) authorizeInstance(ctx *gin.Context, instanceID string) error {
	if GetRoleFromCtx(ctx) == "admin" {
		return nil
	}
	detail, err := h.instanceService.Get(ctx, instanceID)
	if err != nil {
		return err
	}
	if detail.UserID != GetUserIdFromCtx(ctx) {
		return v1.ErrForbidden
	}
	return nil
}

// ApplyInstanceAction godoc
// @Summary Apply a lifecycle action
// @Description suspend, resume, extend or terminate an instance
// @Tags Lab instances
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "instance id"
// @Param request body v1.InstanceActionRequest true "params"
// @Success 200 {object} v1.InstanceResponse
// @Router /api/v1/labs/instances/{id}/action [post]
func (h *LabInstanceHandler) ApplyInstanceAction(ctx *gin.Context) {
	req := new(v1.InstanceActionRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.authorizeInstance(ctx, ctx.Param("id")); err != nil {
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}

	detail, err := h.instanceService.ApplyAction(ctx, ctx.Param("id"), req.Action)
	if err != nil {
		h.logger.WithContext(ctx).Error("instanceService.ApplyAction error",
			zap.String("action", req.Action), zap.Error(err))
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, detail)
}

// GetInstance godoc
// @Summary Get one lab instance
// @Tags Lab instances
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "instance id"
// @Success 200 {object} v1.InstanceResponse
// @Router /api/v1/labs/instances/{id} [get]
func (h *LabInstanceHandler) GetInstance(ctx *gin.Context) {
	if err := h.authorizeInstance(ctx, ctx.Param("id")); err != nil {
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	detail, err := h.instanceService.Get(ctx, ctx.Param("id"))
	if err != nil {
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, detail)
}

// ListInstances godoc
// @Summary List lab instances
// @Description Filterable by status, provider and user, consumed by the admin console
// @Tags Lab instances
// @Accept json
// @Produce json
// @Security Bearer
// @Param status query string false "instance status"
// @Param provider query string false "provider id"
// @Param user_id query string false "user id"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} v1.ListInstanceResponse
// @Router /api/v1/labs/instances [get]
func (h *LabInstanceHandler) ListInstances(ctx *gin.Context) {
	req := new(v1.ListInstanceRequest)
	if err := ctx.ShouldBindQuery(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	// non-admin callers only see their own instances
	if GetRoleFromCtx(ctx) != "admin" {
		req.UserID = GetUserIdFromCtx(ctx)
	}

	data, err := h.instanceService.List(ctx, req)
	if err != nil {
		h.logger.WithContext(ctx).Error("instanceService.List error", zap.Error(err))
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// GetConsole godoc
// @Summary Mint a console websocket token
// @Tags Lab instances
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "instance id"
// @Success 200 {object} v1.ConsoleTokenResponse
// @Router /api/v1/labs/instances/{id}/console [post]
func (h *LabInstanceHandler) GetConsole(ctx *gin.Context) {
	if err := h.authorizeInstance(ctx, ctx.Param("id")); err != nil {
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	data, err := h.consoleService.IssueToken(ctx, ctx.Param("id"))
	if err != nil {
		v1.HandleError(ctx, httpStatus(err), err, nil)
		return
	}
	v1.HandleSuccess(ctx, data)
}

var consoleUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ConsoleWS upgrades to the simulated lab shell. Authenticated by the
// short-lived ws_token query parameter, not by StrictAuth.
func (h *LabInstanceHandler) ConsoleWS(ctx *gin.Context) {
	wsToken := ctx.Query("ws_token")
	if wsToken == "" {
		v1.HandleError(ctx, http.StatusUnauthorized, v1.ErrUnauthorized, nil)
		return
	}
	conn, err := consoleUpgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.logger.WithContext(ctx).Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	if err := h.consoleService.StreamConsole(ctx, conn, wsToken); err != nil {
		h.logger.WithContext(ctx).Warn("console stream closed", zap.Error(err))
	}
}
