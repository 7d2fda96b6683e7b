package middleware

import (
	"net/http"

	v1 "certlab/api/v1"
	"certlab/pkg/jwt"
	"certlab/pkg/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminOnly must run after StrictAuth; it rejects callers whose token does
// not carry the admin role.
func AdminOnly(logger *log.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		v, exists := ctx.Get("claims")
		claims, _ := v.(*jwt.MyCustomClaims)
		if !exists || claims == nil || claims.Role != "admin" {
			logger.WithContext(ctx).Warn("admin route denied", zap.String("url", ctx.Request.URL.String()))
			v1.HandleError(ctx, http.StatusForbidden, v1.ErrForbidden, nil)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
