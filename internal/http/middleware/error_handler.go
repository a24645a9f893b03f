package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sadman95/bike-island-server/domain"
)

const (
	internalErrorMessage   = "Internal Server Error!"
	validationErrorMessage = "Something went wrong! Try again later."
)

// APIError overrides the status and message derived from the wrapped error
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

// ErrorBody is the failed response envelope
type ErrorBody struct {
	CorrelationID string              `json:"correlationId,omitempty"`
	Success       bool                `json:"success"`
	StatusCode    int                 `json:"statusCode"`
	Message       string              `json:"message"`
	ErrorMessages []domain.FieldError `json:"errorMessages"`
	Status        string              `json:"status"`
	Stack         string              `json:"stack,omitempty"`
}

type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{domain.ErrUserAlreadyExists, http.StatusConflict, "User already exists"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrPasswordMismatch, http.StatusConflict, "Password doesn't match"},
	{domain.ErrUserNotVerified, http.StatusBadRequest, "User isn't verified!"},
	{domain.ErrOTPNotFound, http.StatusNotFound, "OTP doesn't exist"},
	{domain.ErrOTPExpired, http.StatusExpectationFailed, "OTP is expired"},
	{domain.ErrOTPMismatch, http.StatusConflict, "Invalid OTP"},
	{domain.ErrResetAlreadyPending, http.StatusBadRequest, "A password token is already in use. Check your email."},
	{domain.ErrResetTokenInvalid, http.StatusBadRequest, "Token is invalid or has expired"},
	{domain.ErrForbidden, http.StatusForbidden, "Invalid refresh token"},
	{domain.ErrTokenExpired, http.StatusForbidden, "Token has expired"},
	{domain.ErrTokenInvalid, http.StatusUnauthorized, "Token is invalidated!"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized access!"},
	{domain.ErrInsufficientRole, http.StatusForbidden, "Access denied!"},
	{domain.ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests, please try again later."},
	{domain.ErrMailDelivery, http.StatusBadGateway, "Failed to send email. Try again later."},
	{domain.ErrIdentityProvider, http.StatusBadGateway, "Google login failed"},
}

// Classify maps err to an HTTP status, a client message and per-field details.
// Unknown errors become 500 with a generic message.
func Classify(err error) (int, string, []domain.FieldError) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr.Message, []domain.FieldError{{Message: apiErr.Message}}
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, validationErrorMessage, verr.Fields
	}

	var tooSoon *domain.TooSoonError
	if errors.As(err, &tooSoon) {
		return http.StatusNotAcceptable, tooSoon.Error(), []domain.FieldError{{Message: tooSoon.Error()}}
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.message, []domain.FieldError{{Message: m.message}}
		}
	}

	return http.StatusInternalServerError, internalErrorMessage, []domain.FieldError{{Message: internalErrorMessage}}
}

// ErrorHandler renders the last error pushed with c.Error as the failed envelope.
// Error details are only exposed outside production.
func ErrorHandler(logger *slog.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		writeError(c, logger, production, err)
	}
}

// NotFound answers unmatched routes
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(&APIError{Status: http.StatusNotFound, Message: "Resource not found"})
	}
}

// Recovery converts panics into the failed envelope
func Recovery(logger *slog.Logger, production bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		writeError(c, logger, production, fmt.Errorf("panic: %v", recovered))
		c.Abort()
	})
}

func writeError(c *gin.Context, logger *slog.Logger, production bool, err error) {
	status, message, fields := Classify(err)

	body := ErrorBody{
		CorrelationID: CorrelationIDFrom(c),
		Success:       false,
		StatusCode:    status,
		Message:       message,
		ErrorMessages: fields,
		Status:        "failed",
	}
	if !production {
		body.Stack = err.Error()
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(c.Request.Context(), level, "request failed",
		"correlation_id", body.CorrelationID,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", status,
		"error", err.Error(),
	)

	c.JSON(status, body)
}
