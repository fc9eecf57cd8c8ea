package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/epetitpas/aischool/internal/app/service/user"
	"github.com/epetitpas/aischool/internal/models"
	"github.com/epetitpas/aischool/internal/platform/auth"
	"github.com/epetitpas/aischool/pkg/response"
	"github.com/epetitpas/aischool/pkg/types"
)

const ctxUserKey = "current_user"

func extractBearer(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// AuthMiddleware verifies the bearer token with the identity provider and
// attaches the local user row to the request. Accounts that are not ACTIVE
// are rejected even with a valid token.
func AuthMiddleware(verifier auth.Verifier, users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorMsg(response.APIResponseCodeUnauthorized, "access token required"))
			return
		}

		ident, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorMsg(response.APIResponseCodeUnauthorized, "invalid or expired token"))
			return
		}

		u, err := users.GetOrCreateFromIdentity(c.Request.Context(), ident)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				response.ErrorT[any](response.APIResponseCodeError, nil))
			return
		}
		if !u.Active() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.ErrorMsg(response.APIResponseCodeForbidden, "account is not active"))
			return
		}

		c.Set(ctxUserKey, u)
		// propagate user_id for logctx enrichment
		ctx := context.WithValue(c.Request.Context(), "user_id", u.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAdmin gates admin routes; must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || u.Role != types.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.ErrorMsg(response.APIResponseCodeForbidden, "admin access required"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by AuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
