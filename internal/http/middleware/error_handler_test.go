package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Sadman95/bike-island-server/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{"duplicate account", domain.ErrUserAlreadyExists, http.StatusConflict, "User already exists"},
		{"wrapped not found", fmt.Errorf("load user: %w", domain.ErrUserNotFound), http.StatusNotFound, "User not found"},
		{"expired otp", domain.ErrOTPExpired, http.StatusExpectationFailed, "OTP is expired"},
		{"otp mismatch", domain.ErrOTPMismatch, http.StatusConflict, "Invalid OTP"},
		{"too soon", &domain.TooSoonError{Remaining: 42 * time.Minute}, http.StatusNotAcceptable, "Please request for new OTP after 42 minutes"},
		{"reset pending", domain.ErrResetAlreadyPending, http.StatusBadRequest, "A password token is already in use. Check your email."},
		{"forbidden refresh", domain.ErrForbidden, http.StatusForbidden, "Invalid refresh token"},
		{"rate limited", domain.ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests, please try again later."},
		{"mail down", fmt.Errorf("send: %w", domain.ErrMailDelivery), http.StatusBadGateway, "Failed to send email. Try again later."},
		{"override", &APIError{Status: http.StatusNotFound, Message: "User does not exist", Err: domain.ErrUserNotFound}, http.StatusNotFound, "User does not exist"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message, fields := Classify(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedMessage, message)
			assert.Len(t, fields, 1)
		})
	}
}

func TestClassify_ValidationFields(t *testing.T) {
	verr := &domain.ValidationError{Fields: []domain.FieldError{
		{Path: "email", Message: "Provide a valid email"},
		{Path: "password", Message: "Password is required"},
	}}

	status, message, fields := Classify(verr)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Something went wrong! Try again later.", message)
	assert.Equal(t, verr.Fields, fields)
}

func TestErrorHandler_Envelope(t *testing.T) {
	fail := func(c *gin.Context) {
		_ = c.Error(domain.ErrUserNotVerified)
		c.Abort()
	}

	t.Run("development includes stack", func(t *testing.T) {
		r := newEngine(false, fail)
		w := serve(r, http.MethodPost, "/auth/login", map[string]string{CorrelationHeader: "req-1"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.False(t, body.Success)
		assert.Equal(t, "failed", body.Status)
		assert.Equal(t, http.StatusBadRequest, body.StatusCode)
		assert.Equal(t, "User isn't verified!", body.Message)
		assert.Equal(t, "req-1", body.CorrelationID)
		assert.NotEmpty(t, body.Stack)
	})

	t.Run("production hides stack", func(t *testing.T) {
		r := newEngine(true, fail)
		w := serve(r, http.MethodPost, "/auth/login", nil)

		body := decodeError(t, w)
		assert.Empty(t, body.Stack)
		assert.NotEmpty(t, body.CorrelationID)
	})

	t.Run("written responses are left alone", func(t *testing.T) {
		r := newEngine(false, func(c *gin.Context) {
			_ = c.Error(errors.New("logged only"))
			c.JSON(http.StatusAccepted, gin.H{"queued": true})
			c.Abort()
		})
		w := serve(r, http.MethodGet, "/jobs", nil)
		assert.Equal(t, http.StatusAccepted, w.Code)
	})
}

func TestNotFoundAndRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := discardLogger()
	r := gin.New()
	r.Use(CorrelationID(), Recovery(logger, false), ErrorHandler(logger, false))
	r.NoRoute(NotFound())
	r.GET("/panic", func(c *gin.Context) { panic("wheel came off") })

	w := serve(r, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Resource not found", decodeError(t, w).Message)

	w = serve(r, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "Internal Server Error!", body.Message)
	assert.Contains(t, body.Stack, "wheel came off")
}
