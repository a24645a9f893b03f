package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sadman95/bike-island-server/domain"
	"github.com/Sadman95/bike-island-server/internal/http/middleware"
)

// RefreshCookieName is the cookie carrying the encoded refresh token
const RefreshCookieName = "refresh_token"

// CookieConfig controls the refresh cookie
type CookieConfig struct {
	MaxAge time.Duration
	Secure bool
}

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
	cookie  CookieConfig
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, cookie CookieConfig) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc, cookie: cookie}
}

// SignUpRequest represents sign up request
type SignUpRequest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=5"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	ContactNo       string `json:"contactNo"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=5"`
	RememberMe bool   `json:"rememberMe"`
}

// GoogleLoginRequest carries the authorization code from the Google consent screen
type GoogleLoginRequest struct {
	Code       string `json:"code" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// ChangePasswordRequest represents change password request
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required,min=5"`
	NewPassword string `json:"newPassword" binding:"required,min=5"`
}

// EmailRequest is used by forgot-password and get-otp
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents reset password request
type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required,hexadecimal"`
	Password        string `json:"password" binding:"required,min=5"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// UserView is the public representation of an account
type UserView struct {
	ID           uint      `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	ContactNo    string    `json:"contactNo,omitempty"`
	Avatar       string    `json:"avatar"`
	Role         string    `json:"role"`
	IsVerified   bool      `json:"isVerified"`
	IsTeamMember bool      `json:"isTeamMember"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newUserView(u *domain.User) UserView {
	return UserView{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		ContactNo:    u.ContactNo,
		Avatar:       u.Avatar,
		Role:         u.Role,
		IsVerified:   u.IsVerified,
		IsTeamMember: u.IsTeamMember,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

var loginLinks = gin.H{"home": "/", "dashboard": "/dashboard"}

// SignUp creates an account and mails the first OTP
func (h *AuthHandlers) SignUp(c *gin.Context) {
	var req SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.SignUp(c.Request.Context(), domain.SignUpInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		ContactNo: req.ContactNo,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusCreated, "User created successfully!", result.OTP, gin.H{"login": "/auth/verify"})
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if req.RememberMe {
		h.setRefreshCookie(c, result.RefreshCookie)
	}
	respond(c, http.StatusOK, "Login successful", gin.H{"token": result.AccessToken}, loginLinks)
}

// GoogleLogin exchanges a Google authorization code for local tokens
func (h *AuthHandlers) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.GoogleLogin(c.Request.Context(), req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			err = &middleware.APIError{
				Status:  http.StatusNotFound,
				Message: "No user found. Please try again after registration",
				Err:     err,
			}
		}
		_ = c.Error(err)
		return
	}

	if req.RememberMe {
		h.setRefreshCookie(c, result.RefreshCookie)
	}
	respond(c, http.StatusOK, "Login successful", gin.H{"token": result.AccessToken}, loginLinks)
}

// Refresh issues a new access token from the refresh cookie
func (h *AuthHandlers) Refresh(c *gin.Context) {
	cookie, _ := c.Cookie(RefreshCookieName)

	result, err := h.authSvc.Refresh(c.Request.Context(), cookie)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			err = &middleware.APIError{Status: http.StatusNotFound, Message: "User does not exist", Err: err}
		}
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Token updated successfully", gin.H{"token": result.AccessToken}, nil)
}

// Logout clears the refresh cookie and blanks the bearer header in the response
func (h *AuthHandlers) Logout(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), claims.UserID); err != nil {
		_ = c.Error(err)
		return
	}

	if c.GetHeader("Authorization") != "" {
		c.Header("Authorization", "Bearer ")
	}
	if _, err := c.Cookie(RefreshCookieName); err == nil {
		c.SetCookie(RefreshCookieName, "", -1, "/", "", h.cookie.Secure, true)
	}

	respond(c, http.StatusOK, "Logout successfully", nil, gin.H{"login": "/auth/login"})
}

// ChangePassword updates the caller's password after checking the old one
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	err := h.authSvc.ChangePassword(c.Request.Context(), claims.UserID, req.OldPassword, req.NewPassword)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrPasswordMismatch):
		_ = c.Error(&middleware.APIError{Status: http.StatusConflict, Message: "Old password doesn't match", Err: err})
		return
	case errors.Is(err, domain.ErrUserNotFound):
		_ = c.Error(&middleware.APIError{Status: http.StatusNotFound, Message: "User doesn't exist", Err: err})
		return
	default:
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Password changed successfully", nil, nil)
}

// ForgotPassword mails a reset link
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authSvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Check your email to reset your password!", nil, nil)
}

// ResetPassword consumes a reset token
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Password updated successfully", nil, gin.H{"login": "/auth/login"})
}

// Me returns the caller's profile
func (h *AuthHandlers) Me(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Profile fetched successfully", newUserView(user), nil)
}

// callerClaims returns the authenticated caller or records ErrUnauthorized
func callerClaims(c *gin.Context) (*domain.TokenClaims, bool) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		_ = c.Error(domain.ErrUnauthorized)
	}
	return claims, ok
}

func (h *AuthHandlers) setRefreshCookie(c *gin.Context, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookieName, value, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)
}
