package handler

import (
	"encoding/json"
	"net/http"
	"regexp"

	"prephub/internal/api/middleware"
	"prephub/internal/app/service"
	"prephub/internal/common"
	"prephub/internal/domain/model"
	"prephub/internal/ratelimit"

	"github.com/go-chi/chi/v5"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 6

type AuthHandler struct {
	authService *service.AuthService
	limiter     *ratelimit.FixedWindowLimiter
}

func NewAuthHandler(authService *service.AuthService, limiter *ratelimit.FixedWindowLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	// Credential endpoints are the only rate limited surface.
	r.With(middleware.RateLimit(h.limiter)).Post("/signup", h.signup)
	r.With(middleware.RateLimit(h.limiter)).Post("/login", h.login)
	r.Post("/refresh", h.refresh)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Get("/me", h.me)
		authed.Put("/profile", h.updateProfile)
		authed.Put("/change-password", h.changePassword)
		authed.Post("/logout", h.logout)
		authed.Post("/create-admin", h.createAdmin)
	})
}

type authResponse struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message,omitempty"`
	AccessToken  string      `json:"accessToken,omitempty"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	User         *model.User `json:"user,omitempty"`
}

func validateCredentials(email, password, name string, requireName bool) string {
	if email == "" || password == "" || (requireName && name == "") {
		return "All fields are required"
	}
	if !emailRegex.MatchString(email) {
		return "Invalid email format"
	}
	if len(password) < minPasswordLength {
		return "Password must be at least 6 characters"
	}
	return ""
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if msg := validateCredentials(req.Email, req.Password, req.Name, true); msg != "" {
		common.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	result, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, authResponse{
		Success:      true,
		Message:      "User created successfully",
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         result.User,
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, authResponse{
		Success:      true,
		Message:      "Login successful",
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         result.User,
	})
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	tokens, err := h.authService.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, authResponse{
		Success:      true,
		Message:      "Tokens refreshed successfully",
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	user, err := h.authService.GetUser(r.Context(), email)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, authResponse{Success: true, User: user})
}

func (h *AuthHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), email, req.Name)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    user,
	})
}

func (h *AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Current and new password are required")
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		common.RespondWithError(w, http.StatusBadRequest, "New password must be at least 6 characters")
		return
	}

	if err := h.authService.ChangePassword(r.Context(), email, req.CurrentPassword, req.NewPassword); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: "Password changed successfully",
	})
}

// logout is a server-side no-op: the stored refresh token is invalidated by
// the next login's rotation, and access tokens expire on their own.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

func (h *AuthHandler) createAdmin(w http.ResponseWriter, r *http.Request) {
	role, ok := middleware.GetUserRoleFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if msg := validateCredentials(req.Email, req.Password, req.Name, true); msg != "" {
		common.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	result, err := h.authService.CreateAdmin(r.Context(), req, role)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, authResponse{
		Success:      true,
		Message:      "Admin user created successfully",
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         result.User,
	})
}
