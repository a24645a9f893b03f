package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sadman95/bike-island-server/domain"
	"github.com/Sadman95/bike-island-server/internal/http/middleware"
)

// OTPHandlers serves email verification codes
type OTPHandlers struct {
	otpSvc   domain.OTPService
	userRepo domain.UserRepository
}

// NewOTPHandlers creates new OTP handlers
func NewOTPHandlers(otpSvc domain.OTPService, userRepo domain.UserRepository) *OTPHandlers {
	return &OTPHandlers{otpSvc: otpSvc, userRepo: userRepo}
}

// VerifyOTPRequest carries the code; email identifies anonymous callers
type VerifyOTPRequest struct {
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
	Email string `json:"email" binding:"omitempty,email"`
}

// GetOTP mails a new code to the account's address. The code itself is not returned.
func (h *OTPHandlers) GetOTP(c *gin.Context) {
	var req EmailRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userRepo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	issue, err := h.otpSvc.Issue(c.Request.Context(), user.ID, user.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "OTP is sent to email", issue, nil)
}

// OwnOTP returns the caller's live code
func (h *OTPHandlers) OwnOTP(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	issue, err := h.otpSvc.FetchOwn(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrOTPNotFound) {
			err = &middleware.APIError{Status: http.StatusNotFound, Message: "Please request for a new OTP", Err: err}
		}
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "", issue, nil)
}

// VerifyOTP marks the account verified. The token's identity wins over the body's email.
func (h *OTPHandlers) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	var userID uint
	if claims, ok := middleware.ClaimsFrom(c); ok {
		userID = claims.UserID
	} else {
		if req.Email == "" {
			_ = c.Error(&domain.ValidationError{Fields: []domain.FieldError{{Path: "email", Message: "Email is required"}}})
			return
		}
		user, err := h.userRepo.FindByEmail(c.Request.Context(), req.Email)
		if err != nil {
			_ = c.Error(err)
			return
		}
		userID = user.ID
	}

	if err := h.otpSvc.Verify(c.Request.Context(), userID, req.OTP); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Verification successful", gin.H{"isVerified": true}, gin.H{"login": "/auth/login"})
}
