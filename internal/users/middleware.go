package users

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
	httperr "github.com/pulso-lab/pulso/internal/core/errors"
)

// claimsKey is where the auth middleware stores the validated claims.
const claimsKey = "auth.claims"

// RequireAuth validates the Bearer token and stores the claims in the
// request context for downstream handlers.
func (s *Service) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.ErrorResponse{
				ErrorType: httperr.HttpUnauthorizedError,
				Message:   "Missing bearer token",
			})
			return
		}
		claims, err := s.jwt.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.ErrorResponse{
				ErrorType: httperr.HttpUnauthorizedError,
				Message:   "Invalid or expired token",
			})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin rejects authenticated callers without the admin role.
func (s *Service) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CallerClaims(c)
		if claims == nil || claims.Role != v1.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, httperr.ErrorResponse{
				ErrorType: httperr.HttpForbiddenError,
				Message:   "Admin role required",
			})
			return
		}
		c.Next()
	}
}

// CallerClaims returns the claims stored by RequireAuth, or nil.
func CallerClaims(c *gin.Context) *Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
