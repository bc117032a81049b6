package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/service"
)

// fakeAuth scripts the service layer so handler tests only exercise
// binding, context propagation and error mapping.
type fakeAuth struct {
	issueErr  error
	regUser   model.UserResponse
	regErr    error
	token     string
	loginUser model.UserResponse
	loginErr  error
	statUser  model.UserResponse
	statErr   error
	meUser    model.UserResponse
	meErr     error

	gotStatus model.UserStatus
	gotUserID uint64
}

func (f *fakeAuth) IssueCode(_ context.Context, _ string) error { return f.issueErr }
func (f *fakeAuth) Register(_ context.Context, _ service.RegisterInput) (model.UserResponse, error) {
	return f.regUser, f.regErr
}
func (f *fakeAuth) Login(_ context.Context, _ service.LoginInput) (string, model.UserResponse, error) {
	return f.token, f.loginUser, f.loginErr
}
func (f *fakeAuth) UpdateStatus(_ context.Context, userID uint64, status model.UserStatus) (model.UserResponse, error) {
	f.gotUserID = userID
	f.gotStatus = status
	return f.statUser, f.statErr
}
func (f *fakeAuth) Me(_ context.Context, userID uint64) (model.UserResponse, error) {
	f.gotUserID = userID
	return f.meUser, f.meErr
}

func newRequest(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (string, json.RawMessage) {
	t.Helper()
	var env struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Message, env.Data
}

func TestRegisterHandlerCreated(t *testing.T) {
	fake := &fakeAuth{regUser: model.UserResponse{ID: 1, Email: "a@x.com", Status: model.StatusOffline, IsVerified: true}}
	c, rec := newRequest(t, http.MethodPost, "/register",
		`{"email":"a@x.com","password":"secret123","confirm_password":"secret123","full_name":"Ada","verification_code":"1234"}`)

	require.NoError(t, NewAuthHandler(fake).Register(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	msg, data := decodeEnvelope(t, rec)
	assert.Equal(t, "User created", msg)
	assert.NotContains(t, string(data), "password")
}

func TestRegisterHandlerInvalidBody(t *testing.T) {
	c, rec := newRequest(t, http.MethodPost, "/register", `{not json`)

	require.NoError(t, NewAuthHandler(&fakeAuth{}).Register(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterHandlerValidationError(t *testing.T) {
	fake := &fakeAuth{regErr: validation.Errors{"confirm_password": errors.New("passwords do not match")}}
	c, rec := newRequest(t, http.MethodPost, "/register", `{"email":"a@x.com"}`)

	require.NoError(t, NewAuthHandler(fake).Register(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	msg, data := decodeEnvelope(t, rec)
	assert.Equal(t, "Validation error", msg)
	assert.Contains(t, string(data), "confirm_password")
}

func TestRegisterHandlerDuplicateEmail(t *testing.T) {
	fake := &fakeAuth{regErr: repository.ErrEmailExists}
	c, rec := newRequest(t, http.MethodPost, "/register", `{"email":"a@x.com"}`)

	require.NoError(t, NewAuthHandler(fake).Register(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	msg, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "Email is already in use", msg)
}

func TestRegisterHandlerBadCode(t *testing.T) {
	fake := &fakeAuth{regErr: service.ErrInvalidCode}
	c, rec := newRequest(t, http.MethodPost, "/register", `{"email":"a@x.com"}`)

	require.NoError(t, NewAuthHandler(fake).Register(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	msg, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "Invalid or expired verification code", msg)
}

func TestRegisterHandlerUnexpectedError(t *testing.T) {
	fake := &fakeAuth{regErr: errors.New("db broke")}
	c, rec := newRequest(t, http.MethodPost, "/register", `{"email":"a@x.com"}`)

	require.NoError(t, NewAuthHandler(fake).Register(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	msg, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "Error creating user", msg)
	assert.NotContains(t, rec.Body.String(), "db broke", "internal detail never leaks")
}

func TestLoginHandlerSuccess(t *testing.T) {
	fake := &fakeAuth{token: "tok123", loginUser: model.UserResponse{ID: 1, Email: "a@x.com"}}
	c, rec := newRequest(t, http.MethodPost, "/login", `{"email":"a@x.com","password":"secret123"}`)

	require.NoError(t, NewAuthHandler(fake).Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	msg, data := decodeEnvelope(t, rec)
	assert.Equal(t, "Login successful", msg)

	var payload struct {
		Token string             `json:"token"`
		User  model.UserResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "tok123", payload.Token)
	assert.Equal(t, "a@x.com", payload.User.Email)
}

func TestLoginHandlerUnknownUser(t *testing.T) {
	fake := &fakeAuth{loginErr: repository.ErrUserNotFound}
	c, rec := newRequest(t, http.MethodPost, "/login", `{"email":"ghost@x.com","password":"secret123"}`)

	require.NoError(t, NewAuthHandler(fake).Login(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	msg, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "User not found", msg)
}

func TestLoginHandlerBadPassword(t *testing.T) {
	fake := &fakeAuth{loginErr: service.ErrInvalidCredentials}
	c, rec := newRequest(t, http.MethodPost, "/login", `{"email":"a@x.com","password":"wrongpass"}`)

	require.NoError(t, NewAuthHandler(fake).Login(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	msg, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "Invalid credentials", msg)
}

func TestGetCodeHandlerSuccess(t *testing.T) {
	c, rec := newRequest(t, http.MethodPost, "/get-code", `{"email":"a@x.com"}`)

	require.NoError(t, NewAuthHandler(&fakeAuth{}).GetCode(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	msg, data := decodeEnvelope(t, rec)
	assert.Equal(t, "Verification code sent", msg)
	assert.Equal(t, "null", string(data), "the code never appears in the response")
}

func TestGetCodeHandlerEmailInUse(t *testing.T) {
	fake := &fakeAuth{issueErr: repository.ErrEmailExists}
	c, rec := newRequest(t, http.MethodPost, "/get-code", `{"email":"a@x.com"}`)

	require.NoError(t, NewAuthHandler(fake).GetCode(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCodeHandlerMailFailure(t *testing.T) {
	fake := &fakeAuth{issueErr: errors.New("smtp down")}
	c, rec := newRequest(t, http.MethodPost, "/get-code", `{"email":"a@x.com"}`)

	require.NoError(t, NewAuthHandler(fake).GetCode(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	msg, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "Error sending verification code", msg)
}

func TestUpdateStatusHandlerSuccess(t *testing.T) {
	fake := &fakeAuth{statUser: model.UserResponse{ID: 5, Status: model.StatusAway}}
	c, rec := newRequest(t, http.MethodPatch, "/status", `{"status":"away"}`)
	c.Set("user_id", uint64(5))

	require.NoError(t, NewAuthHandler(fake).UpdateStatus(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(5), fake.gotUserID)
	assert.Equal(t, model.StatusAway, fake.gotStatus)
	msg, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "Status updated", msg)
}

func TestUpdateStatusHandlerInvalidStatus(t *testing.T) {
	fake := &fakeAuth{statErr: service.ErrInvalidStatus}
	c, rec := newRequest(t, http.MethodPatch, "/status", `{"status":"sleeping"}`)
	c.Set("user_id", uint64(5))

	require.NoError(t, NewAuthHandler(fake).UpdateStatus(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	msg, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "Invalid status", msg)
}

func TestUpdateStatusHandlerMissingIdentity(t *testing.T) {
	c, rec := newRequest(t, http.MethodPatch, "/status", `{"status":"away"}`)

	require.NoError(t, NewAuthHandler(&fakeAuth{}).UpdateStatus(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeHandler(t *testing.T) {
	fake := &fakeAuth{meUser: model.UserResponse{ID: 5, Email: "a@x.com"}}
	c, rec := newRequest(t, http.MethodGet, "/me", "")
	c.Set("user_id", uint64(5))

	require.NoError(t, NewAuthHandler(fake).Me(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(5), fake.gotUserID)
}
