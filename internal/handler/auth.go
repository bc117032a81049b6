package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/service"
)

// AuthService is the service surface the handlers call into.
type AuthService interface {
	IssueCode(ctx context.Context, email string) error
	Register(ctx context.Context, in service.RegisterInput) (model.UserResponse, error)
	Login(ctx context.Context, in service.LoginInput) (string, model.UserResponse, error)
	UpdateStatus(ctx context.Context, userID uint64, status model.UserStatus) (model.UserResponse, error)
	Me(ctx context.Context, userID uint64) (model.UserResponse, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler { return &AuthHandler{Auth: svc} }

// ----- DTOs -----

type statusReq struct {
	Status string `json:"status"`
}

type loginData struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

// GetCode issues and mails a verification code. The code never appears in
// the response body.
func (h *AuthHandler) GetCode(c echo.Context) error {
	var req service.EmailInput
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request body", nil)
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	if err := h.Auth.IssueCode(ctx, req.Email); err != nil {
		return h.fail(c, err, "Error sending verification code")
	}
	return respond(c, http.StatusOK, "Verification code sent", nil)
}

// Register creates a user after the emailed code checks out.
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request body", nil)
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	user, err := h.Auth.Register(ctx, req)
	if err != nil {
		return h.fail(c, err, "Error creating user")
	}
	return respond(c, http.StatusCreated, "User created", user)
}

// Login verifies credentials and returns a bearer token with the user
// projection.
func (h *AuthHandler) Login(c echo.Context) error {
	var req service.LoginInput
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request body", nil)
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	token, user, err := h.Auth.Login(ctx, req)
	if err != nil {
		return h.fail(c, err, "Error logging in")
	}
	return respond(c, http.StatusOK, "Login successful", loginData{Token: token, User: user})
}

// UpdateStatus sets the presence flag of the authenticated user.
func (h *AuthHandler) UpdateStatus(c echo.Context) error {
	uid, ok := c.Get("user_id").(uint64)
	if !ok {
		return respond(c, http.StatusUnauthorized, "Unauthenticated", nil)
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request body", nil)
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	user, err := h.Auth.UpdateStatus(ctx, uid, model.UserStatus(req.Status))
	if err != nil {
		return h.fail(c, err, "Error updating status")
	}
	return respond(c, http.StatusOK, "Status updated", user)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := c.Get("user_id").(uint64)
	if !ok {
		return respond(c, http.StatusUnauthorized, "Unauthenticated", nil)
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	user, err := h.Auth.Me(ctx, uid)
	if err != nil {
		return h.fail(c, err, "Error loading user")
	}
	return respond(c, http.StatusOK, "OK", user)
}

// fail maps service errors onto the response envelope. Anything not in the
// taxonomy is logged and surfaced as a generic 500 without internal detail.
func (h *AuthHandler) fail(c echo.Context, err error, fallback string) error {
	var verr validation.Errors
	switch {
	case errors.As(err, &verr):
		return respond(c, http.StatusBadRequest, "Validation error", verr)
	case errors.Is(err, repository.ErrEmailExists):
		return respond(c, http.StatusBadRequest, "Email is already in use", nil)
	case errors.Is(err, service.ErrInvalidCode):
		return respond(c, http.StatusBadRequest, "Invalid or expired verification code", nil)
	case errors.Is(err, service.ErrInvalidStatus):
		return respond(c, http.StatusBadRequest, "Invalid status", nil)
	case errors.Is(err, repository.ErrUserNotFound):
		return respond(c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return respond(c, http.StatusUnauthorized, "Invalid credentials", nil)
	}
	log.Printf("%s %s: %v", c.Request().Method, c.Path(), err)
	return respond(c, http.StatusInternalServerError, fallback, nil)
}

// opCtx bounds each operation the way the rest of the service does DB work.
func opCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 10*time.Second)
}
