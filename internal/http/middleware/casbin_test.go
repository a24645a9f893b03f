package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sadman95/bike-island-server/domain"
	"github.com/Sadman95/bike-island-server/internal/mocks"
)

// createTestEnforcer creates a Casbin enforcer with the production matcher
func createTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()
	modelText := `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`
	m, err := model.NewModelFromString(modelText)
	require.NoError(t, err)
	e, err := casbin.NewEnforcer(m)
	require.NoError(t, err)

	_, err = e.AddPolicy("role_admin", "/api/v2/admin/*", "(GET|POST|PATCH|DELETE)")
	require.NoError(t, err)
	_, err = e.AddPolicy("role_manager", "/api/v2/admin/policies", "GET")
	require.NoError(t, err)
	return e
}

// withClaims stands in for the JWT middleware
func withClaims(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if role != "" {
			c.Set(ClaimsKey, &domain.TokenClaims{UserID: 1, Role: role})
		}
		c.Next()
	}
}

func TestCasbinMW_Enforce(t *testing.T) {
	mw := NewCasbinMW(createTestEnforcer(t))

	tests := []struct {
		name           string
		role           string
		method         string
		path           string
		expectedStatus int
	}{
		{name: "admin manages roles", role: domain.RoleAdmin, method: http.MethodPatch, path: "/api/v2/admin/users/3/role", expectedStatus: http.StatusOK},
		{name: "admin lists policies", role: domain.RoleAdmin, method: http.MethodGet, path: "/api/v2/admin/policies", expectedStatus: http.StatusOK},
		{name: "manager reads policies", role: domain.RoleManager, method: http.MethodGet, path: "/api/v2/admin/policies", expectedStatus: http.StatusOK},
		{name: "manager cannot add policies", role: domain.RoleManager, method: http.MethodPost, path: "/api/v2/admin/policies", expectedStatus: http.StatusForbidden},
		{name: "user denied", role: domain.RoleUser, method: http.MethodGet, path: "/api/v2/admin/policies", expectedStatus: http.StatusForbidden},
		{name: "no claims", method: http.MethodGet, path: "/api/v2/admin/policies", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(false, withClaims(tt.role), mw.Enforce())
			w := serve(r, tt.method, tt.path, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusForbidden {
				assert.Equal(t, "Access denied!", decodeError(t, w).Message)
			}
		})
	}
}

func TestCasbinMW_EnforcerFailure(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	enforcer.EnforceFunc = func(rvals ...interface{}) (bool, error) {
		return false, errors.New("adapter offline")
	}
	r := newEngine(true, withClaims(domain.RoleAdmin), NewCasbinMW(enforcer).Enforce())

	w := serve(r, http.MethodGet, "/api/v2/admin/policies", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "Internal Server Error!", body.Message)
	assert.Empty(t, body.Stack, "production responses must not leak error details")
}
