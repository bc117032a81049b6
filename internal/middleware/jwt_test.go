package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/auth-service/internal/utils"
)

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, uint64) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUID uint64
	next := func(c echo.Context) error {
		gotUID, _ = c.Get("user_id").(uint64)
		return c.NoContent(http.StatusOK)
	}
	err := JWTAuth("secret")(next)(c)
	require.NoError(t, err)
	return rec, gotUID
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", 42, 60)
	require.NoError(t, err)

	rec, uid := runJWT(t, "Bearer "+tok.Token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), uid)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _ := runJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthenticated")
}

func TestJWTAuthBadToken(t *testing.T) {
	rec, _ := runJWT(t, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other", 42, 60)
	require.NoError(t, err)

	rec, _ := runJWT(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
