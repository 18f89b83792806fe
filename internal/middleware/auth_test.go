package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"inkpress/internal/authz"
	"inkpress/internal/middleware"
	"inkpress/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionRouter(auth *services.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := append([]gin.HandlerFunc{middleware.RequireSession(auth)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetInt("user_id"),
			"role":   c.GetString("role"),
		})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestRequireSession_NoCookie(t *testing.T) {
	auth := services.NewAuthService("test-secret")
	router := sessionRouter(auth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authenticated")
}

func TestRequireSession_ValidCookieSetsIdentity(t *testing.T) {
	auth := services.NewAuthService("test-secret")
	router := sessionRouter(auth)

	token, err := auth.SignSession(42, authz.RoleAdmin)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: services.SessionCookie, Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":42`)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestRequireSession_BadToken(t *testing.T) {
	auth := services.NewAuthService("test-secret")
	router := sessionRouter(auth)

	for _, value := range []string{"garbage", "a.b.c"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: services.SessionCookie, Value: value})
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "cookie %q", value)
	}
}

func TestRequireSession_ForeignSignature(t *testing.T) {
	auth := services.NewAuthService("test-secret")
	router := sessionRouter(auth)

	foreign, err := services.NewAuthService("other-secret").SignSession(42, authz.RoleAdmin)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: services.SessionCookie, Value: foreign})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	auth := services.NewAuthService("test-secret")
	router := sessionRouter(auth, middleware.RequireAdmin())

	adminToken, err := auth.SignSession(1, authz.RoleAdmin)
	require.NoError(t, err)
	userToken, err := auth.SignSession(2, authz.RoleUser)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: services.SessionCookie, Value: adminToken})
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: services.SessionCookie, Value: userToken})
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
