package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/designdekhoo/catalog-api/app/apperrors"
	"github.com/designdekhoo/catalog-api/app/helpers"
	"github.com/designdekhoo/catalog-api/app/middlewares"
	"github.com/designdekhoo/catalog-api/app/models"
	"github.com/designdekhoo/catalog-api/app/repositories"
	"github.com/designdekhoo/catalog-api/app/services"
	"github.com/designdekhoo/catalog-api/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

const resetTokenExpiryMinutes = 5

type AuthHandler struct {
	render       *render.Render
	owners       repositories.ShopOwnerRepositoryImpl
	tokens       *services.TokenService
	mailer       *services.Mailer
	sessionStore sessions.SessionStore
	validator    *validator.Validate
	appURL       string
}

func NewAuthHandler(r *render.Render, owners repositories.ShopOwnerRepositoryImpl, tokens *services.TokenService, mailer *services.Mailer, sessionStore sessions.SessionStore, validator *validator.Validate, appURL string) *AuthHandler {
	return &AuthHandler{
		render:       r,
		owners:       owners,
		tokens:       tokens,
		mailer:       mailer,
		sessionStore: sessionStore,
		validator:    validator,
		appURL:       appURL,
	}
}

type SignupRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=4"`
	ShopName     string `json:"shopName" validate:"required,max=150"`
	City         string `json:"city" validate:"required,max=100"`
	MobileNumber string `json:"mobileNumber" validate:"required,len=10,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfileUpdateRequest struct {
	Name           string `json:"name" validate:"omitempty,max=100"`
	ShopName       string `json:"shopName" validate:"omitempty,max=150"`
	City           string `json:"city" validate:"omitempty,max=100"`
	MobileNumber   string `json:"mobileNumber" validate:"omitempty,len=10,numeric"`
	Phone          string `json:"phone" validate:"omitempty,max=20"`
	Address        string `json:"address" validate:"omitempty,max=255"`
	GoogleMapsLink string `json:"googleMapsLink" validate:"omitempty,max=512"`
	ProfileImage   string `json:"profileImage" validate:"omitempty,max=512"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=4"`
}

func (h *AuthHandler) decodeAndValidate(r *http.Request, dst interface{}) *apperrors.Error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	if err := h.validator.Struct(dst); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		return apperrors.ValidationFields("Validation failed", helpers.FormatValidationErrors(validationErrors))
	}
	return nil
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if appErr := h.decodeAndValidate(r, &req); appErr != nil {
		respondError(h.render, w, appErr)
		return
	}

	existing, err := h.owners.FindByEmail(r.Context(), req.Email)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if existing == nil {
		existing, err = h.owners.FindByMobile(r.Context(), req.MobileNumber)
		if err != nil {
			respondError(h.render, w, err)
			return
		}
	}
	if existing != nil {
		respondError(h.render, w, apperrors.Conflict("User already exists"))
		return
	}

	hash, err := helpers.HashPassword(req.Password)
	if err != nil {
		respondError(h.render, w, err)
		return
	}

	owner := &models.ShopOwner{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Password:     hash,
		ShopName:     strings.TrimSpace(req.ShopName),
		City:         strings.TrimSpace(req.City),
		MobileNumber: req.MobileNumber,
	}

	if err := h.owners.Create(r.Context(), owner); err != nil {
		// The unique indexes settle check-then-insert races.
		if apperrors.IsDuplicateEntry(err) {
			respondError(h.render, w, apperrors.Conflict("User already exists"))
			return
		}
		respondError(h.render, w, err)
		return
	}

	log.Printf("Signup: shop owner %s (%s) registered", owner.Email, owner.ID)
	_ = h.render.JSON(w, http.StatusCreated, map[string]interface{}{"msg": "Shop owner registered successfully"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if appErr := h.decodeAndValidate(r, &req); appErr != nil {
		respondError(h.render, w, appErr)
		return
	}

	owner, err := h.owners.FindByEmail(r.Context(), req.Email)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if owner == nil || !helpers.PasswordCompare(owner.Password, req.Password) {
		respondError(h.render, w, apperrors.Validation("Invalid credentials"))
		return
	}

	token, err := h.tokens.IssueSessionToken(owner.ID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}

	helpers.SetCookie(w, helpers.TokenCookieName, token, time.Hour)
	if err := h.sessionStore.SetToken(w, r, token); err != nil {
		log.Printf("Login: error saving page session for owner %s: %v", owner.ID, err)
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"token": token})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	helpers.ClearCookie(w, helpers.TokenCookieName)
	if err := h.sessionStore.ClearToken(w, r); err != nil {
		log.Printf("Logout: error clearing page session: %v", err)
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"msg": "Logged out successfully"})
}

// Me returns the authenticated owner's profile, password hash excluded.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	owner := middlewares.OwnerFromContext(r.Context())
	if owner == nil {
		respondError(h.render, w, apperrors.Auth("No token, authorization denied"))
		return
	}
	_ = h.render.JSON(w, http.StatusOK, owner)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	current := middlewares.OwnerFromContext(r.Context())
	if current == nil {
		respondError(h.render, w, apperrors.Auth("No token, authorization denied"))
		return
	}

	var req ProfileUpdateRequest
	if appErr := h.decodeAndValidate(r, &req); appErr != nil {
		respondError(h.render, w, appErr)
		return
	}

	owner, err := h.owners.FindByID(r.Context(), current.ID)
	if err != nil || owner == nil {
		respondError(h.render, w, apperrors.Unhandled("Server Error", err))
		return
	}

	if req.MobileNumber != "" && req.MobileNumber != owner.MobileNumber {
		other, err := h.owners.FindByMobile(r.Context(), req.MobileNumber)
		if err != nil {
			respondError(h.render, w, err)
			return
		}
		if other != nil && other.ID != owner.ID {
			respondError(h.render, w, apperrors.Conflict("Mobile number already in use"))
			return
		}
		owner.MobileNumber = req.MobileNumber
	}

	if req.Name != "" {
		owner.Name = strings.TrimSpace(req.Name)
	}
	if req.ShopName != "" {
		owner.ShopName = strings.TrimSpace(req.ShopName)
	}
	if req.City != "" {
		owner.City = strings.TrimSpace(req.City)
	}
	if req.Phone != "" {
		owner.Phone = req.Phone
	}
	if req.Address != "" {
		owner.Address = req.Address
	}
	if req.GoogleMapsLink != "" {
		owner.GoogleMapsLink = req.GoogleMapsLink
	}
	if req.ProfileImage != "" {
		owner.ProfileImage = req.ProfileImage
	}

	if err := h.owners.Update(r.Context(), owner); err != nil {
		if apperrors.IsDuplicateEntry(err) {
			respondError(h.render, w, apperrors.Conflict("Mobile number already in use"))
			return
		}
		respondError(h.render, w, err)
		return
	}

	owner.Password = ""
	_ = h.render.JSON(w, http.StatusOK, owner)
}

// ForgotPassword always answers with the same generic 200 so the response
// never reveals whether an email is registered.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	genericResponse := func() {
		_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"msg": "If your email is registered, a reset link has been sent"})
	}

	var req ForgotPasswordRequest
	if appErr := h.decodeAndValidate(r, &req); appErr != nil {
		respondError(h.render, w, appErr)
		return
	}

	owner, err := h.owners.FindByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("ForgotPassword: error finding owner by email: %v", err)
		genericResponse()
		return
	}
	if owner == nil {
		genericResponse()
		return
	}

	token, expiresAt, err := h.tokens.IssueResetToken()
	if err != nil {
		log.Printf("ForgotPassword: failed to issue reset token for owner %s: %v", owner.ID, err)
		genericResponse()
		return
	}

	if err := h.owners.SavePasswordResetToken(r.Context(), owner.ID, &token, &expiresAt); err != nil {
		log.Printf("ForgotPassword: failed to save reset token for owner %s: %v", owner.ID, err)
		genericResponse()
		return
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s", h.appURL, token)
	body := services.BuildResetEmailBody(resetLink, resetTokenExpiryMinutes)
	if err := h.mailer.SendHTMLEmail(owner.Email, "Reset your password", body); err != nil {
		// Swallowed: a mail failure must not change the visible response.
		log.Printf("ForgotPassword: failed to send reset email to %s: %v", owner.Email, err)
	}

	genericResponse()
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	if token == "" {
		respondError(h.render, w, apperrors.Validation("Reset token is required"))
		return
	}

	var req ResetPasswordRequest
	if appErr := h.decodeAndValidate(r, &req); appErr != nil {
		respondError(h.render, w, appErr)
		return
	}

	owner, err := h.owners.FindByPasswordResetToken(r.Context(), token)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if owner == nil {
		respondError(h.render, w, apperrors.Validation("Reset token is invalid or has expired"))
		return
	}

	hash, err := helpers.HashPassword(req.Password)
	if err != nil {
		respondError(h.render, w, err)
		return
	}

	if err := h.owners.ResetPassword(r.Context(), owner.ID, hash); err != nil {
		respondError(h.render, w, err)
		return
	}

	log.Printf("ResetPassword: password reset for owner %s", owner.ID)
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"msg": "Password has been reset successfully"})
}
