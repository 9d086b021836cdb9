package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/healthtrack/backend/internal/utils"
)

func protectedEcho(codec *utils.TokenCodec, mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	chain := append([]echo.MiddlewareFunc{JWTAuth(codec)}, mw...)
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"login": c.Get(CtxLogin),
			"role":  c.Get(CtxRole),
		})
	}, chain...)
	return e
}

func get(e *echo.Echo, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAcceptsValidAccessToken(t *testing.T) {
	codec := utils.NewTokenCodec("test-secret", 15, 7)
	e := protectedEcho(codec)

	access, _, err := codec.Issue("alice@example.com", "USER", utils.KindAccess)
	require.NoError(t, err)

	rec := get(e, "Bearer "+access)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "alice@example.com")
	require.Contains(t, rec.Body.String(), "USER")
}

func TestJWTAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	codec := utils.NewTokenCodec("test-secret", 15, 7)
	e := protectedEcho(codec)

	for _, header := range []string{"", "Basic abc123", "Bearer not-a-token"} {
		rec := get(e, header)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestJWTAuthRejectsRefreshToken(t *testing.T) {
	codec := utils.NewTokenCodec("test-secret", 15, 7)
	e := protectedEcho(codec)

	// A refresh token must never grant access to protected routes.
	refresh, _, err := codec.Issue("alice@example.com", "USER", utils.KindRefresh)
	require.NoError(t, err)

	rec := get(e, "Bearer "+refresh)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsForeignSignature(t *testing.T) {
	codec := utils.NewTokenCodec("test-secret", 15, 7)
	other := utils.NewTokenCodec("other-secret", 15, 7)
	e := protectedEcho(codec)

	forged, _, err := other.Issue("alice@example.com", "USER", utils.KindAccess)
	require.NoError(t, err)

	rec := get(e, "Bearer "+forged)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	codec := utils.NewTokenCodec("test-secret", 15, 7)
	e := protectedEcho(codec, RequireRole("ADMIN"))

	userToken, _, err := codec.Issue("alice@example.com", "USER", utils.KindAccess)
	require.NoError(t, err)
	adminToken, _, err := codec.Issue("admin@example.com", "ADMIN", utils.KindAccess)
	require.NoError(t, err)

	rec := get(e, "Bearer "+userToken)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = get(e, "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	e := echo.New()
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RequireRole("ADMIN"))

	// No JWTAuth ran, so no role claim is present.
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
