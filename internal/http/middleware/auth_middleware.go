package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Sadman95/bike-island-server/domain"
)

// ClaimsKey is the gin context key holding *domain.TokenClaims
const ClaimsKey = "claims"

// AuthMiddleware requires a valid Bearer access token
func AuthMiddleware(tokenSvc domain.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, domain.ErrUnauthorized)
			return
		}
		if !authenticate(c, tokenSvc, authHeader) {
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware sets claims when a Bearer token is present and
// lets anonymous requests through. A token that is sent but invalid is rejected.
func OptionalAuthMiddleware(tokenSvc domain.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		if !authenticate(c, tokenSvc, authHeader) {
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the authenticated caller, if any
func ClaimsFrom(c *gin.Context) (*domain.TokenClaims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*domain.TokenClaims)
	return claims, ok && claims != nil
}

func authenticate(c *gin.Context, tokenSvc domain.TokenService, authHeader string) bool {
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		abort(c, &APIError{Status: http.StatusForbidden, Message: "Invalid token format", Err: domain.ErrTokenInvalid})
		return false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		abort(c, domain.ErrUnauthorized)
		return false
	}

	claims, err := tokenSvc.Verify(token, domain.AccessToken)
	if err != nil {
		if !errors.Is(err, domain.ErrTokenExpired) {
			err = domain.ErrTokenInvalid
		}
		abort(c, err)
		return false
	}

	c.Set(ClaimsKey, claims)
	return true
}

// abort records err for ErrorHandler and stops the chain
func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
