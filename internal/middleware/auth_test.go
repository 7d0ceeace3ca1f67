package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()
	claims := JWTClaims{
		UserID: uuid.NewString(),
		Email:  "test@example.com",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func protectedRouter(roles ...model.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", JWTAuth(testSecret))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	handler := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	group.GET("/resource", handler)
	group.POST("/resource", handler)
	group.DELETE("/resource", handler)
	return r
}

func request(r *gin.Engine, method, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/resource", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	r := protectedRouter()
	w := request(r, http.MethodGet, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	r := protectedRouter()
	w := request(r, http.MethodGet, signToken(t, "ADMIN", -time.Minute))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthRejectsUnknownRole(t *testing.T) {
	r := protectedRouter()
	w := request(r, http.MethodGet, signToken(t, "SUPERUSER", time.Hour))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthNormalizesRoleCase(t *testing.T) {
	r := protectedRouter(model.RoleAdmin)
	w := request(r, http.MethodGet, signToken(t, "admin", time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}

// The 403 body is identical for every denied role and method.
func TestRequireRoleFixedForbiddenBody(t *testing.T) {
	r := protectedRouter(model.RoleMotoboy)
	token := signToken(t, "USER", time.Hour)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		w := request(r, method, token)
		assert.Equal(t, http.StatusForbidden, w.Code, method)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, map[string]string{"detail": "Permissoes insuficientes"}, body, method)
	}
}

func TestRequireRoleAllowsAnyListedRole(t *testing.T) {
	r := protectedRouter(model.RoleAdmin, model.RoleVendedor)

	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, signToken(t, "VENDEDOR", time.Hour)).Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, signToken(t, "ADMIN", time.Hour)).Code)
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodGet, signToken(t, "USER", time.Hour)).Code)
}

func TestRequireRoleWithoutPrincipalIsForbidden(t *testing.T) {
	// RequireRole mounted without JWTAuth must deny, not panic.
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/naked", RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/naked", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Permissoes insuficientes", body["detail"])
}
