package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/middleware"
	"github.com/yigit/semesterhub/internal/pkg/auth"
)

// Admin routes are rejected by middleware before any controller runs, so the
// router can be mounted without controllers.
func TestAdminRoutesRequireSuperAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "semesterhub-test"})
	router := gin.New()
	SetupRouter(router, Controllers{}, middleware.NewAuthMiddleware(jwtService))

	studentToken, _, err := jwtService.GenerateAccessToken(&models.User{ID: 2, Role: models.RoleUser})
	require.NoError(t, err)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/admin/dashboard"},
		{http.MethodPost, "/api/v1/syllabi"},
		{http.MethodPut, "/api/v1/syllabi/1"},
		{http.MethodDelete, "/api/v1/syllabi/1"},
		{http.MethodPost, "/api/v1/question-papers"},
		{http.MethodPut, "/api/v1/question-papers/1"},
		{http.MethodDelete, "/api/v1/question-papers/1"},
		{http.MethodPost, "/api/v1/resources"},
		{http.MethodPut, "/api/v1/resources/1"},
		{http.MethodDelete, "/api/v1/resources/1"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodPost, "/api/v1/users"},
		{http.MethodGet, "/api/v1/users/1"},
		{http.MethodPut, "/api/v1/users/1"},
		{http.MethodDelete, "/api/v1/users/1"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(r.method, r.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code, "anonymous")

			req := httptest.NewRequest(r.method, r.path, nil)
			req.Header.Set("Authorization", "Bearer "+studentToken)
			w = httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusForbidden, w.Code, "student")
		})
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
