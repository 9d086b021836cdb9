package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/healthtrack/backend/internal/middleware"
	"github.com/healthtrack/backend/internal/model"
	"github.com/healthtrack/backend/internal/repository"
	"github.com/healthtrack/backend/internal/service"
	"github.com/healthtrack/backend/internal/utils"
)

// AuthHandler exposes the auth core over HTTP.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Contact  string  `json:"contact"`
	Password string  `json:"password"`
	Age      int     `json:"age"`
	Weight   float64 `json:"weight"`
	Height   float64 `json:"height"`
}

type registerAdminReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
	Password string `json:"password"`
	Address  string `json:"address"`
	NIC      string `json:"nic"`
}

type loginReq struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type registerResp struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

type tokenResp struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	UserID       uint64 `json:"userId"`
	Role         string `json:"role"`
}

// Register creates a user account. Validation failures return the missing
// fields so the client can show field-specific messages.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Contact = strings.TrimSpace(req.Contact)

	var fields []string
	if strings.TrimSpace(req.Name) == "" {
		fields = append(fields, "name is required")
	}
	if req.Email == "" {
		fields = append(fields, "email is required")
	}
	if req.Contact == "" {
		fields = append(fields, "contact is required")
	}
	if req.Password == "" {
		fields = append(fields, "password is required")
	} else if len(req.Password) < 6 {
		fields = append(fields, "password must be at least 6 characters")
	}
	if len(fields) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	summary, err := h.Auth.RegisterUser(ctx, model.User{
		Name:    strings.TrimSpace(req.Name),
		Email:   req.Email,
		Contact: req.Contact,
		Age:     req.Age,
		Weight:  req.Weight,
		Height:  req.Height,
	}, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
		case errors.Is(err, repository.ErrContactExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "register failed"})
	}

	return c.JSON(http.StatusCreated, registerResp{
		ID: summary.ID, Name: summary.Name, Email: summary.Email, Contact: summary.Contact,
	})
}

// RegisterAdmin creates an admin account. The route is ADMIN-gated by the
// router; the handler only validates the admin-specific fields.
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req registerAdminReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Contact = strings.TrimSpace(req.Contact)

	var fields []string
	if strings.TrimSpace(req.Name) == "" {
		fields = append(fields, "name is required")
	}
	if req.Contact == "" {
		fields = append(fields, "contact is required")
	}
	if strings.TrimSpace(req.Address) == "" {
		fields = append(fields, "address is required")
	}
	if strings.TrimSpace(req.NIC) == "" {
		fields = append(fields, "nic is required")
	}
	if req.Password == "" {
		fields = append(fields, "password is required")
	} else if len(req.Password) < 6 {
		fields = append(fields, "password must be at least 6 characters")
	}
	if len(fields) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	summary, err := h.Auth.RegisterAdmin(ctx, model.Admin{
		Name:    strings.TrimSpace(req.Name),
		Email:   req.Email,
		Contact: req.Contact,
		Address: strings.TrimSpace(req.Address),
		NIC:     strings.TrimSpace(req.NIC),
	}, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
		case errors.Is(err, repository.ErrContactExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "register failed"})
	}

	return c.JSON(http.StatusCreated, registerResp{
		ID: summary.ID, Name: summary.Name, Email: summary.Email, Contact: summary.Contact,
	})
}

// Login verifies credentials and returns a fresh token pair. Unknown
// identifier and wrong password are indistinguishable in the response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Login) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.Login(ctx, req.Login, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	return c.JSON(http.StatusOK, tokenResp{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		TokenType:    "Bearer",
		UserID:       res.UserID,
		Role:         string(res.Role),
	})
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token is not rotated.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refreshToken required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	access, err := h.Auth.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		if errors.Is(err, utils.ErrInvalidToken) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"activeToken": access})
}

// Logout clears the caller's stored refresh token. The caller identity
// comes from the verified access token injected by the JWT middleware.
func (h *AuthHandler) Logout(c echo.Context) error {
	login, _ := c.Get(middleware.CtxLogin).(string)
	role, _ := c.Get(middleware.CtxRole).(string)
	if login == "" || role == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Auth.Logout(ctx, login, model.Role(role)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "principal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"msg": "user " + login + " successfully logged out"})
}
