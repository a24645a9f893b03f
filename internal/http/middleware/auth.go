package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Sadman95/bike-island-server/domain"
)

// AuthMW wraps the token service for middleware
type AuthMW struct {
	tokenSvc domain.TokenService
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService) *AuthMW {
	return &AuthMW{tokenSvc: tokenSvc}
}

// WithJWT returns the JWT middleware function
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return AuthMiddleware(mw.tokenSvc)
}

// Optional returns middleware that authenticates only when a token is sent
func (mw *AuthMW) Optional() gin.HandlerFunc {
	return OptionalAuthMiddleware(mw.tokenSvc)
}
