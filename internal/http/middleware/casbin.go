package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Sadman95/bike-island-server/domain"
)

// CasbinMW authorizes authenticated callers by role, path and method
type CasbinMW struct {
	enforcer domain.CasbinEnforcer
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(enforcer domain.CasbinEnforcer) *CasbinMW {
	return &CasbinMW{enforcer: enforcer}
}

// Enforce returns the casbin authorization middleware. It must run after AuthMiddleware.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abort(c, domain.ErrUnauthorized)
			return
		}

		allowed, err := mw.enforcer.Enforce(domain.PolicySubject(claims.Role), c.Request.URL.Path, c.Request.Method)
		if err != nil {
			abort(c, fmt.Errorf("authorization check failed: %w", err))
			return
		}
		if !allowed {
			abort(c, domain.ErrInsufficientRole)
			return
		}

		c.Next()
	}
}
