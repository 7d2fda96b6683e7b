package handler

import (
	"net/http"

	v1 "certlab/api/v1"
	"certlab/pkg/jwt"
	"certlab/pkg/log"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	logger *log.Logger
}

func NewHandler(
	logger *log.Logger,
) *Handler {
	return &Handler{
		logger: logger,
	}
}

func GetUserIdFromCtx(ctx *gin.Context) string {
	v, exists := ctx.Get("claims")
	if !exists {
		return ""
	}
	return v.(*jwt.MyCustomClaims).UserId
}

func GetRoleFromCtx(ctx *gin.Context) string {
	v, exists := ctx.Get("claims")
	if !exists {
		return ""
	}
	return v.(*jwt.MyCustomClaims).Role
}

// httpStatus maps the service-level error kinds to response codes so the UI
// can distinguish "not found" from "denied" from "retry".
func httpStatus(err error) int {
	switch err {
	case v1.ErrNotFound, v1.ErrProviderNotFound, v1.ErrInstanceNotFound, v1.ErrInstanceTypeNotFound:
		return http.StatusNotFound
	case v1.ErrQuotaExceeded, v1.ErrProviderNotAllowed, v1.ErrInstanceTypeNotAllowed, v1.ErrProviderDisabled:
		return http.StatusForbidden
	case v1.ErrInvalidTransition, v1.ErrConflictingUpdate, v1.ErrExtendLimit:
		return http.StatusConflict
	case v1.ErrBadRequest, v1.ErrInvalidCatalogEntry, v1.ErrRegionNotSupported:
		return http.StatusBadRequest
	case v1.ErrUnauthorized:
		return http.StatusUnauthorized
	case v1.ErrForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
