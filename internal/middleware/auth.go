package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caddystats/content-backend/internal/authz"
	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/service"
	"github.com/caddystats/content-backend/pkg/jwt"
)

const viewerKey = "viewer"

// JWTAuth verifies the bearer token and rebuilds the viewer from the
// user's current role assignments. Requests without a valid token are
// rejected.
func JWTAuth(jwtManager *jwt.Manager, authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, err := viewerFromRequest(c, jwtManager, authService)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, 401, "Token expired", err)
			} else {
				common.ErrorResponse(c, 401, "Invalid token", err)
			}
			c.Abort()
			return
		}

		c.Set(viewerKey, viewer)
		c.Next()
	}
}

// OptionalAuth attaches a viewer when a valid token is present and
// continues anonymously otherwise. Published-content reads use this.
func OptionalAuth(jwtManager *jwt.Manager, authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if viewer, err := viewerFromRequest(c, jwtManager, authService); err == nil {
				c.Set(viewerKey, viewer)
			}
		}
		c.Next()
	}
}

func viewerFromRequest(c *gin.Context, jwtManager *jwt.Manager, authService service.AuthService) (*authz.Viewer, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, common.ErrUnauthorized
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, common.ErrInvalidToken
	}

	claims, err := jwtManager.VerifyAccessToken(parts[1])
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	return authService.BuildViewer(userID)
}

// GetViewer extracts the viewer from context; nil means anonymous
func GetViewer(c *gin.Context) *authz.Viewer {
	v, exists := c.Get(viewerKey)
	if !exists {
		return nil
	}
	if viewer, ok := v.(*authz.Viewer); ok {
		return viewer
	}
	return nil
}

// GetUserID extracts the authenticated user's ID from context
func GetUserID(c *gin.Context) string {
	if viewer := GetViewer(c); viewer != nil {
		return viewer.UserID.String()
	}
	return ""
}
