package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"semecity/internal/delivery/http/helpers"
	"semecity/internal/delivery/http/middleware"
	"semecity/internal/domain"
)

// emailRegex matches a simple email format (local@domain with at least one dot in domain).
var emailRegex = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

type AuthController struct {
	Logger        *slog.Logger
	Service       domain.AuthService
	SessionExpiry time.Duration
	SecureCookies bool
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService, sessionExpiry time.Duration, secureCookies bool) *AuthController {
	return &AuthController{
		Logger:        logger,
		Service:       svc,
		SessionExpiry: sessionExpiry,
		SecureCookies: secureCookies,
	}
}

// LoginRequest is the request body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if l.Email == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the data payload for POST /api/auth/login (200).
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// LoginSuccessResponse is the success response envelope for POST /api/auth/login (200).
type LoginSuccessResponse struct {
	Data  LoginResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Login godoc
// @Summary Authenticate with email and password
// @Description Verifies credentials and returns a session token. The token is also set as an HttpOnly cookie for browser clients. Unverified email addresses are rejected.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Email and password"
// @Success 200 {object} controllers.LoginSuccessResponse "data contains the token and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized (bad credentials or unverified email)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid email or password")
			return
		}
		if errors.Is(err, domain.ErrEmailNotVerified) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "email not verified")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.SessionExpiry.Seconds()),
		HttpOnly: true,
		Secure:   c.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	helpers.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, User: user})
}

// Logout godoc
// @Summary End the current session
// @Description Clears the session cookie. Token-based clients simply discard their token.
// @Tags auth
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// RegisterRequest is the request body for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (reg RegisterRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(reg.Name) == "" {
		errs = append(errs, "name is required")
	}
	if reg.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegex.MatchString(strings.TrimSpace(reg.Email)) {
		errs = append(errs, "email must be a valid email address")
	}
	if len(reg.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	return errs
}

// RegisterSuccessResponse is the success response envelope for POST /api/auth/register (201).
type RegisterSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Register godoc
// @Summary Create a participant account
// @Description Creates a PARTICIPANT account and sends a verification email. The account cannot authenticate until the email is verified.
// @Tags auth
// @Accept json
// @Produce json
// @Param account body RegisterRequest true "Name, email and password"
// @Success 201 {object} controllers.RegisterSuccessResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email already registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/auth/register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "email already registered")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, user)
}

// VerifyEmailRequest is the request body for POST /api/auth/verify-email.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// Validate implements Validator.
func (v VerifyEmailRequest) Validate() []string {
	if v.Token == "" {
		return []string{"token is required"}
	}
	return nil
}

// VerifyEmailResponse is the data payload for POST /api/auth/verify-email (200).
type VerifyEmailResponse struct {
	Status string `json:"status"`
}

// VerifyEmailSuccessResponse is the success response envelope for POST /api/auth/verify-email (200).
type VerifyEmailSuccessResponse struct {
	Data  VerifyEmailResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// VerifyEmail godoc
// @Summary Verify an email address
// @Description Consumes a verification token and marks the account's email as verified. Tokens are single-use and expire after 24 hours.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body VerifyEmailRequest true "Verification token"
// @Success 200 {object} controllers.VerifyEmailSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid or expired token)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/auth/verify-email [post]
func (c *AuthController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.VerifyEmail(r.Context(), req.Token); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid token")
			return
		}
		if errors.Is(err, domain.ErrTokenExpired) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "token expired")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, VerifyEmailResponse{Status: "verified"})
}
