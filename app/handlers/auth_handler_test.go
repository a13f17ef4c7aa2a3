package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/designdekhoo/catalog-api/app/helpers"
	"github.com/designdekhoo/catalog-api/app/models"
	"github.com/designdekhoo/catalog-api/app/services"
	"github.com/designdekhoo/catalog-api/app/utils/renderer"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthHandler(owners *memOwners) (*AuthHandler, *services.TokenService, *memSessionStore) {
	tokens := services.NewTokenService("test-secret")
	sessionStore := &memSessionStore{}
	// Port 1 refuses connections, so mail sends fail fast and get swallowed.
	mailer := services.NewMailer(services.MailConfig{Host: "127.0.0.1", Port: "1", From: "noreply@test.local"})
	handler := NewAuthHandler(renderer.New(), owners, tokens, mailer, sessionStore, newTestValidator(), "http://localhost:9000")
	return handler, tokens, sessionStore
}

func postJSON(t *testing.T, body interface{}, target string) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func signupBody() SignupRequest {
	return SignupRequest{
		Name:         "Asha",
		Email:        "asha@example.com",
		Password:     "secret",
		ShopName:     "Asha Furnishings",
		City:         "Pune",
		MobileNumber: "9876543210",
	}
}

func TestSignupThenLogin(t *testing.T) {
	owners := newMemOwners()
	handler, tokens, _ := newTestAuthHandler(owners)

	rec := httptest.NewRecorder()
	handler.Signup(rec, postJSON(t, signupBody(), "/api/auth/signup"))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Shop owner registered successfully", decodeBody(t, rec)["msg"])

	rec = httptest.NewRecorder()
	handler.Login(rec, postJSON(t, LoginRequest{Email: "asha@example.com", Password: "secret"}, "/api/auth/login"))
	require.Equal(t, http.StatusOK, rec.Code)

	token, _ := decodeBody(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	owner, err := owners.FindByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	require.NotNil(t, owner)

	ownerID, err := tokens.VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, ownerID)

	// The hash stored is never the raw password.
	assert.NotEqual(t, "secret", owner.Password)
	assert.True(t, helpers.PasswordCompare(owner.Password, "secret"))
}

func TestLoginSetsBothCookieAndSession(t *testing.T) {
	owners := newMemOwners()
	handler, _, sessionStore := newTestAuthHandler(owners)

	rec := httptest.NewRecorder()
	handler.Signup(rec, postJSON(t, signupBody(), "/api/auth/signup"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.Login(rec, postJSON(t, LoginRequest{Email: "asha@example.com", Password: "secret"}, "/api/auth/login"))
	require.Equal(t, http.StatusOK, rec.Code)

	var tokenCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == helpers.TokenCookieName {
			tokenCookie = cookie
		}
	}
	require.NotNil(t, tokenCookie)
	assert.True(t, tokenCookie.HttpOnly)
	assert.Equal(t, tokenCookie.Value, sessionStore.token)
}

func TestLoginWrongPassword(t *testing.T) {
	owners := newMemOwners()
	handler, _, _ := newTestAuthHandler(owners)

	rec := httptest.NewRecorder()
	handler.Signup(rec, postJSON(t, signupBody(), "/api/auth/signup"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.Login(rec, postJSON(t, LoginRequest{Email: "asha@example.com", Password: "nope"}, "/api/auth/login"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, rec)["msg"])
}

func TestLoginUnknownEmail(t *testing.T) {
	handler, _, _ := newTestAuthHandler(newMemOwners())

	rec := httptest.NewRecorder()
	handler.Login(rec, postJSON(t, LoginRequest{Email: "nobody@example.com", Password: "secret"}, "/api/auth/login"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, rec)["msg"])
}

func TestSignupDuplicateEmail(t *testing.T) {
	handler, _, _ := newTestAuthHandler(newMemOwners())

	rec := httptest.NewRecorder()
	handler.Signup(rec, postJSON(t, signupBody(), "/api/auth/signup"))
	require.Equal(t, http.StatusCreated, rec.Code)

	second := signupBody()
	second.MobileNumber = "9876543299"
	rec = httptest.NewRecorder()
	handler.Signup(rec, postJSON(t, second, "/api/auth/signup"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", decodeBody(t, rec)["msg"])
}

func TestSignupValidationErrors(t *testing.T) {
	handler, _, _ := newTestAuthHandler(newMemOwners())

	bad := signupBody()
	bad.Email = "not-an-email"
	bad.MobileNumber = "12345"

	rec := httptest.NewRecorder()
	handler.Signup(rec, postJSON(t, bad, "/api/auth/signup"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Validation failed", body["msg"])
	fields, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "mobilenumber")
}

func TestForgotPasswordDoesNotRevealRegistration(t *testing.T) {
	owners := newMemOwners()
	handler, _, _ := newTestAuthHandler(owners)

	rec := httptest.NewRecorder()
	handler.Signup(rec, postJSON(t, signupBody(), "/api/auth/signup"))
	require.Equal(t, http.StatusCreated, rec.Code)

	known := httptest.NewRecorder()
	handler.ForgotPassword(known, postJSON(t, ForgotPasswordRequest{Email: "asha@example.com"}, "/api/auth/forgot-password"))

	unknown := httptest.NewRecorder()
	handler.ForgotPassword(unknown, postJSON(t, ForgotPasswordRequest{Email: "stranger@example.com"}, "/api/auth/forgot-password"))

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.JSONEq(t, known.Body.String(), unknown.Body.String())

	// The token was still minted for the registered owner.
	owner, err := owners.FindByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	require.NotNil(t, owner.PasswordResetToken)
	require.NotNil(t, owner.PasswordResetExpires)
}

func resetRequest(t *testing.T, token string) *http.Request {
	t.Helper()
	req := postJSON(t, ResetPasswordRequest{Password: "newpass"}, "/api/auth/reset-password/"+token)
	return mux.SetURLVars(req, map[string]string{"token": token})
}

func TestResetPasswordTokenIsSingleUse(t *testing.T) {
	owners := newMemOwners()
	handler, _, _ := newTestAuthHandler(owners)

	rec := httptest.NewRecorder()
	handler.Signup(rec, postJSON(t, signupBody(), "/api/auth/signup"))
	require.Equal(t, http.StatusCreated, rec.Code)

	owner, err := owners.FindByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)

	token := "a3f1c2d4e5061728394a5b6c7d8e9f00a3f1c2d4e5061728394a5b6c7d8e9f00"
	expiresAt := time.Now().Add(5 * time.Minute)
	require.NoError(t, owners.SavePasswordResetToken(context.Background(), owner.ID, &token, &expiresAt))

	rec = httptest.NewRecorder()
	handler.ResetPassword(rec, resetRequest(t, token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password has been reset successfully", decodeBody(t, rec)["msg"])

	updated, err := owners.FindByID(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.True(t, helpers.PasswordCompare(updated.Password, "newpass"))
	assert.Nil(t, updated.PasswordResetToken)
	assert.Nil(t, updated.PasswordResetExpires)

	// Replaying the consumed token fails.
	rec = httptest.NewRecorder()
	handler.ResetPassword(rec, resetRequest(t, token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Reset token is invalid or has expired", decodeBody(t, rec)["msg"])
}

func TestResetPasswordExpiredToken(t *testing.T) {
	owners := newMemOwners()
	handler, _, _ := newTestAuthHandler(owners)

	rec := httptest.NewRecorder()
	handler.Signup(rec, postJSON(t, signupBody(), "/api/auth/signup"))
	require.Equal(t, http.StatusCreated, rec.Code)

	owner, err := owners.FindByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)

	token := "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"
	expiresAt := time.Now().Add(-time.Minute)
	require.NoError(t, owners.SavePasswordResetToken(context.Background(), owner.ID, &token, &expiresAt))

	rec = httptest.NewRecorder()
	handler.ResetPassword(rec, resetRequest(t, token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Reset token is invalid or has expired", decodeBody(t, rec)["msg"])
}

func TestUpdateProfilePartialFields(t *testing.T) {
	owners := newMemOwners()
	handler, _, _ := newTestAuthHandler(owners)

	rec := httptest.NewRecorder()
	handler.Signup(rec, postJSON(t, signupBody(), "/api/auth/signup"))
	require.Equal(t, http.StatusCreated, rec.Code)

	owner, err := owners.FindByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)

	req := postJSON(t, ProfileUpdateRequest{City: "Mumbai"}, "/api/auth/me")
	rec = httptest.NewRecorder()
	handler.UpdateProfile(rec, authedRequest(req, owner))
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := owners.FindByID(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", updated.City)
	assert.Equal(t, "Asha Furnishings", updated.ShopName)
	assert.Equal(t, "9876543210", updated.MobileNumber)
}

func TestUpdateProfileMobileConflict(t *testing.T) {
	owners := newMemOwners()
	handler, _, _ := newTestAuthHandler(owners)

	rec := httptest.NewRecorder()
	handler.Signup(rec, postJSON(t, signupBody(), "/api/auth/signup"))
	require.Equal(t, http.StatusCreated, rec.Code)

	other := signupBody()
	other.Email = "ravi@example.com"
	other.MobileNumber = "9000000000"
	rec = httptest.NewRecorder()
	handler.Signup(rec, postJSON(t, other, "/api/auth/signup"))
	require.Equal(t, http.StatusCreated, rec.Code)

	owner, err := owners.FindByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)

	req := postJSON(t, ProfileUpdateRequest{MobileNumber: "9000000000"}, "/api/auth/me")
	rec = httptest.NewRecorder()
	handler.UpdateProfile(rec, authedRequest(req, owner))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Mobile number already in use", decodeBody(t, rec)["msg"])
}

func TestMeReturnsOwnerWithoutPassword(t *testing.T) {
	owners := newMemOwners()
	handler, _, _ := newTestAuthHandler(owners)

	owner := &models.ShopOwner{ID: "owner-1", Name: "Asha", Email: "asha@example.com", ShopName: "Asha Furnishings"}

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	handler.Me(rec, authedRequest(req, owner))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "asha@example.com", body["email"])
	assert.NotContains(t, body, "password")
}

func TestLogoutClearsSession(t *testing.T) {
	handler, _, sessionStore := newTestAuthHandler(newMemOwners())
	sessionStore.token = "some-token"

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sessionStore.token)

	var tokenCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == helpers.TokenCookieName {
			tokenCookie = cookie
		}
	}
	require.NotNil(t, tokenCookie)
	assert.Less(t, tokenCookie.MaxAge, 0)
}
