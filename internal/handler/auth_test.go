package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthtrack/backend/internal/middleware"
	"github.com/healthtrack/backend/internal/model"
	"github.com/healthtrack/backend/internal/repository"
	"github.com/healthtrack/backend/internal/service"
	"github.com/healthtrack/backend/internal/utils"
)

// memUsers is a minimal in-memory service.UserStore for handler tests.
type memUsers struct {
	nextID uint64
	rows   map[uint64]*model.User
}

func (s *memUsers) Create(_ context.Context, u model.User) (uint64, error) {
	s.nextID++
	u.ID = s.nextID
	s.rows[u.ID] = &u
	return u.ID, nil
}

func (s *memUsers) FindByEmail(_ context.Context, email string) (model.Principal, error) {
	for _, u := range s.rows {
		if u.Email == email {
			return u.Principal(), nil
		}
	}
	return model.Principal{}, repository.ErrNotFound
}

func (s *memUsers) FindByContact(_ context.Context, contact string) (model.Principal, error) {
	for _, u := range s.rows {
		if u.Contact == contact {
			return u.Principal(), nil
		}
	}
	return model.Principal{}, repository.ErrNotFound
}

func (s *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	return err == nil, nil
}

func (s *memUsers) ExistsByContact(ctx context.Context, contact string) (bool, error) {
	_, err := s.FindByContact(ctx, contact)
	return err == nil, nil
}

func (s *memUsers) UpdateRefreshToken(_ context.Context, id uint64, token sql.NullString) error {
	u, ok := s.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

// memAdmins mirrors memUsers for admins; handler tests only exercise the
// user flow so creation is enough.
type memAdmins struct {
	nextID uint64
	rows   map[uint64]*model.Admin
}

func (s *memAdmins) Create(_ context.Context, a model.Admin) (uint64, error) {
	s.nextID++
	a.ID = s.nextID
	s.rows[a.ID] = &a
	return a.ID, nil
}

func (s *memAdmins) FindByEmail(_ context.Context, email string) (model.Principal, error) {
	for _, a := range s.rows {
		if a.Email == email {
			return a.Principal(), nil
		}
	}
	return model.Principal{}, repository.ErrNotFound
}

func (s *memAdmins) FindByContact(_ context.Context, contact string) (model.Principal, error) {
	for _, a := range s.rows {
		if a.Contact == contact {
			return a.Principal(), nil
		}
	}
	return model.Principal{}, repository.ErrNotFound
}

func (s *memAdmins) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	return err == nil, nil
}

func (s *memAdmins) ExistsByContact(ctx context.Context, contact string) (bool, error) {
	_, err := s.FindByContact(ctx, contact)
	return err == nil, nil
}

func (s *memAdmins) UpdateRefreshToken(_ context.Context, id uint64, token sql.NullString) error {
	a, ok := s.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.RefreshToken = token
	return nil
}

// newAuthTestServer wires the auth endpoints exactly as the router does,
// over in-memory stores.
func newAuthTestServer() *echo.Echo {
	users := &memUsers{rows: map[uint64]*model.User{}}
	admins := &memAdmins{rows: map[uint64]*model.Admin{}}
	codec := utils.NewTokenCodec("test-secret", 15, 7)
	h := NewAuthHandler(service.NewAuthService(users, admins, codec, bcrypt.MinCost))

	e := echo.New()
	e.POST("/api/auth/register", h.Register)
	e.POST("/api/auth/login", h.Login)
	e.POST("/api/auth/refresh-token", h.Refresh)
	e.PUT("/api/auth/logout", h.Logout, middleware.JWTAuth(codec))
	return e
}

func doJSON(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthFlow(t *testing.T) {
	e := newAuthTestServer()

	// Register.
	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","contact":"0711111111","password":"password1","age":30,"weight":70,"height":175}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	// Login returns a bearer token pair.
	rec = doJSON(e, http.MethodPost, "/api/auth/login",
		`{"login":"alice@example.com","password":"password1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		TokenType    string `json:"tokenType"`
		Role         string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))
	require.Equal(t, "Bearer", tokens.TokenType)
	require.Equal(t, "USER", tokens.Role)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	// Refresh exchanges the refresh token for a new access token.
	rec = doJSON(e, http.MethodPost, "/api/auth/refresh-token",
		`{"refreshToken":"`+tokens.RefreshToken+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var refreshed struct {
		ActiveToken string `json:"activeToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshed))
	require.NotEmpty(t, refreshed.ActiveToken)

	// Logout with the access token.
	rec = doJSON(e, http.MethodPut, "/api/auth/logout", "", tokens.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	// The refresh token is revoked after logout.
	rec = doJSON(e, http.MethodPost, "/api/auth/refresh-token",
		`{"refreshToken":"`+tokens.RefreshToken+`"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginFailureResponsesMatch(t *testing.T) {
	e := newAuthTestServer()

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","contact":"0711111111","password":"password1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	unknown := doJSON(e, http.MethodPost, "/api/auth/login",
		`{"login":"nobody@example.com","password":"password1"}`, "")
	wrongPass := doJSON(e, http.MethodPost, "/api/auth/login",
		`{"login":"alice@example.com","password":"wrong"}`, "")

	// An attacker cannot tell a bad identifier from a bad password.
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	require.Equal(t, unknown.Body.String(), wrongPass.Body.String())
}

func TestRegisterValidation(t *testing.T) {
	e := newAuthTestServer()

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"email":"alice@example.com","password":"123"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "validation failed", body.Error)
	require.Contains(t, body.Fields, "name is required")
	require.Contains(t, body.Fields, "contact is required")
	require.Contains(t, body.Fields, "password must be at least 6 characters")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := newAuthTestServer()

	first := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","contact":"0711111111","password":"password1"}`, "")
	require.Equal(t, http.StatusCreated, first.Code)

	dup := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Clone","email":"alice@example.com","contact":"0722222222","password":"password1"}`, "")
	require.Equal(t, http.StatusBadRequest, dup.Code)
	require.Contains(t, dup.Body.String(), "email already exists")
}

func TestRefreshRejectsGarbage(t *testing.T) {
	e := newAuthTestServer()

	rec := doJSON(e, http.MethodPost, "/api/auth/refresh-token",
		`{"refreshToken":"not-a-token"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRequiresToken(t *testing.T) {
	e := newAuthTestServer()

	rec := doJSON(e, http.MethodPut, "/api/auth/logout", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
