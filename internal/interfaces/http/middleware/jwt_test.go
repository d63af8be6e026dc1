package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francisjavinico/backend-tintado/internal/domain/identity"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/auth"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/config"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-middleware",
		AccessTokenExpiration: time.Hour,
		Issuer:                "tintado-test",
	})
}

func newProtectedRouter(jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(jwtService))
	r.GET("/api/v1/clientes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": GetJWTUserID(c), "role": GetJWTRole(c)})
	})
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func issueToken(t *testing.T, jwtService *auth.JWTService, role identity.Role) string {
	t.Helper()
	user, err := identity.NewUser("Ana Pérez", "ana@tintado.example", "$2a$10$hash", role)
	require.NoError(t, err)
	issued, err := jwtService.GenerateToken(user)
	require.NoError(t, err)
	return issued.Token
}

func TestJWTAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	router := newProtectedRouter(newTestJWTService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clientes", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
}

func TestJWTAuthMiddlewareRejectsMalformedToken(t *testing.T) {
	router := newProtectedRouter(newTestJWTService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clientes", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareAcceptsValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	router := newProtectedRouter(jwtService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clientes", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtService, identity.RoleEmployee))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "empleado")
}

func TestJWTAuthMiddlewareSkipsPublicPaths(t *testing.T) {
	router := newProtectedRouter(newTestJWTService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleBlocksEmployees(t *testing.T) {
	jwtService := newTestJWTService()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(jwtService))
	admin := r.Group("/api/v1/usuarios", RequireRole(identity.RoleAdmin))
	admin.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/usuarios", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtService, identity.RoleEmployee))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/usuarios", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtService, identity.RoleAdmin))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
