package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
	"github.com/yigit/semesterhub/internal/pkg/auth"
)

// principalKey is the gin context key the authenticated principal is stored under
const principalKey = "principal"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// tokenFromRequest reads the token from the Authorization header, falling
// back to the ?token= query parameter used by websocket clients.
func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return header
	}
	return c.Query("token")
}

func (m *AuthMiddleware) authenticate(raw string) (*models.Principal, *dto.ErrorDetail) {
	tokenString, err := auth.ExtractBearerToken(strings.Trim(raw, "\"'"))
	if err != nil {
		return nil, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
			WithDetails("Invalid token format")
	}

	claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
	if err != nil {
		errorCode := dto.ErrorCodeInvalidToken
		errorDetails := "Invalid token"
		if errors.Is(err, apperrors.ErrTokenExpired) {
			errorCode = dto.ErrorCodeExpiredToken
			errorDetails = "Token has expired"
		}
		return nil, dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(errorDetails)
	}
	return claims.Principal(), nil
}

// JWTAuth rejects requests without a valid access token
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		principal, errorDetail := m.authenticate(raw)
		if errorDetail != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// OptionalAuth attaches a principal when a valid token is present and lets
// anonymous requests through otherwise.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := tokenFromRequest(c); raw != "" {
			if principal, errorDetail := m.authenticate(raw); errorDetail == nil {
				c.Set(principalKey, principal)
			}
		}
		c.Next()
	}
}

// RoleRequired middleware to check if user has required role
func (m *AuthMiddleware) RoleRequired(requiredRole models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("User role not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if principal.Role != requiredRole {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// GetPrincipal returns the principal set by JWTAuth or OptionalAuth, or nil
// for anonymous requests.
func GetPrincipal(c *gin.Context) *models.Principal {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	principal, _ := value.(*models.Principal)
	return principal
}
