package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func testConfig() config.Config {
	return config.Config{JWTSecret: testSecret}
}

func mustMakeJWT(t *testing.T, secret string, sub int64, role string, method jwt.SigningMethod) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(15 * time.Minute).Unix(),
	}

	tok := jwt.NewWithClaims(method, claims)
	signed, err := tok.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

// MW通過後にcontextの値を返すだけのハンドラ
func passThroughHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id": c.Get(CtxUserIDKey),
		"role":    c.Get(CtxUserRoleKey),
	})
}

func doRequest(authzHeader string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authzHeader != "" {
		req.Header.Set("Authorization", authzHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := AuthJWT(testConfig())(passThroughHandler)
	_ = h(c)
	return rec
}

func TestAuthJWT_ValidToken(t *testing.T) {
	token := mustMakeJWT(t, testSecret, 7, "USER", jwt.SigningMethodHS256)

	rec := doRequest("Bearer " + token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
	assert.Contains(t, rec.Body.String(), `"role":"USER"`)
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	rec := doRequest("")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	rec := doRequest("Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	token := mustMakeJWT(t, "other-secret", 7, "USER", jwt.SigningMethodHS256)

	rec := doRequest("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  int64(7),
		"role": "USER",
		"iat":  time.Now().Add(-time.Hour).Unix(),
		"exp":  time.Now().Add(-30 * time.Minute).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(testSecret))
	assert.NoError(t, err)

	rec := doRequest("Bearer " + signed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoleGuard_AllowsAdmin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(CtxUserRoleKey, "ADMIN")

	h := AdminRoleGuard()(passThroughHandler)
	_ = h(c)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoleGuard_RejectsUser(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(CtxUserRoleKey, "USER")

	h := AdminRoleGuard()(passThroughHandler)
	_ = h(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoleGuard_MissingRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := AdminRoleGuard()(passThroughHandler)
	_ = h(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
