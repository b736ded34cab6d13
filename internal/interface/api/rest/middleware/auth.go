package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"design-market-api/internal/infrastructure/jwt"
)

const (
	CtxUserRole = "userRole"
	CtxUserID   = "userID"
)

func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, jwtService)
		if !ok {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid or missing token", "reason": "authentication_required"},
			)
			return
		}

		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxUserID, claims.UserID)

		c.Next()
	}
}

// OptionalAuthMiddleware sets identity when a valid token is present and
// lets the request through either way; the entitlement gate downstream
// decides what an anonymous caller may do.
func OptionalAuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, jwtService); ok {
			c.Set(CtxUserRole, claims.Role)
			c.Set(CtxUserID, claims.UserID)
		}
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRole) != "admin" {
			c.AbortWithStatusJSON(
				http.StatusForbidden,
				gin.H{"error": "admin role required"},
			)
			return
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context, jwtService *jwt.Service) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenStr == authHeader {
		return nil, false
	}

	claims, err := jwtService.ValidateToken(tokenStr)
	if err != nil {
		return nil, false
	}
	return claims, true
}
