package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sadman95/bike-island-server/domain"
	"github.com/Sadman95/bike-island-server/internal/mocks"
)

// createPolicyServiceForTest creates a PolicyService with mock Casbin enforcer
func createPolicyServiceForTest(t *testing.T) (domain.PolicyService, *mocks.MockCasbinEnforcer) {
	t.Helper()

	enforcer := mocks.NewMockCasbinEnforcer()
	return NewPolicyServiceWithEnforcer(enforcer), enforcer
}

func TestPolicyServiceImpl_AddPolicy(t *testing.T) {
	tests := []struct {
		name          string
		role          string
		resource      string
		action        string
		setupMock     func(*mocks.MockCasbinEnforcer)
		expectedError error
		expectedRule  []string
		expectSave    bool
	}{
		{
			name:         "role name is stored as subject",
			role:         "manager",
			resource:     "/api/v2/admin/users/:id/role",
			action:       "PATCH",
			expectedRule: []string{"role_manager", "/api/v2/admin/users/:id/role", "PATCH"},
			expectSave:   true,
		},
		{
			name:         "prefixed subject is accepted",
			role:         "role_admin",
			resource:     "/api/v2/admin/reports",
			action:       "(GET|POST)",
			expectedRule: []string{"role_admin", "/api/v2/admin/reports", "(GET|POST)"},
			expectSave:   true,
		},
		{
			name:          "enforcer fails",
			role:          "admin",
			resource:      "/api/v2/admin/reports",
			action:        "GET",
			expectedError: domain.ErrUnauthorized,
			setupMock: func(e *mocks.MockCasbinEnforcer) {
				e.AddPolicyFunc = func(params ...interface{}) (bool, error) {
					return false, domain.ErrUnauthorized
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, enforcer := createPolicyServiceForTest(t)
			if tt.setupMock != nil {
				tt.setupMock(enforcer)
			}
			saved := false
			enforcer.SavePolicyFunc = func() error {
				saved = true
				return nil
			}

			err := svc.AddPolicy(tt.role, tt.resource, tt.action)
			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				assert.False(t, saved, "SavePolicy should not run after a failed add")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectSave, saved)
			assert.Contains(t, svc.GetPolicies(), tt.expectedRule)
		})
	}
}

func TestPolicyServiceImpl_RejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		resource string
		action   string
		path     string
	}{
		{name: "unknown role", role: "owner", resource: "/api/v2/admin/x", action: "GET", path: "sub"},
		{name: "resource outside api", role: "admin", resource: "/metrics", action: "GET", path: "obj"},
		{name: "lowercase action", role: "admin", resource: "/api/v2/admin/x", action: "get", path: "act"},
		{name: "empty action", role: "admin", resource: "/api/v2/admin/x", action: "", path: "act"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, enforcer := createPolicyServiceForTest(t)
			enforcer.AddPolicyFunc = func(params ...interface{}) (bool, error) {
				t.Error("invalid rule reached the enforcer")
				return false, nil
			}

			for _, err := range []error{
				svc.AddPolicy(tt.role, tt.resource, tt.action),
				svc.RemovePolicy(tt.role, tt.resource, tt.action),
			} {
				var verr *domain.ValidationError
				require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
				assert.Equal(t, tt.path, verr.Fields[0].Path)
			}
		})
	}
}

func TestPolicyServiceImpl_RemovePolicy(t *testing.T) {
	svc, _ := createPolicyServiceForTest(t)

	require.NoError(t, svc.RemovePolicy("manager", "/api/v2/admin/policies", "GET"))
	assert.NotContains(t, svc.GetPolicies(), []string{"role_manager", "/api/v2/admin/policies", "GET"})
	assert.Contains(t, svc.GetPolicies(), []string{"role_admin", "/api/v2/admin/*", "(GET|POST|PATCH|DELETE)"})
}

func TestPolicyServiceImpl_CheckPermission(t *testing.T) {
	svc, _ := createPolicyServiceForTest(t)

	tests := []struct {
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{"admin", "/api/v2/admin/users/7/role", "PATCH", true},
		{"admin", "/api/v2/admin/policies", "DELETE", true},
		{"manager", "/api/v2/admin/policies", "GET", true},
		{"manager", "/api/v2/admin/policies", "POST", false},
		{"user", "/api/v2/admin/policies", "GET", false},
	}
	for _, tt := range tests {
		ok, err := svc.CheckPermission(tt.role, tt.resource, tt.action)
		require.NoError(t, err)
		assert.Equal(t, tt.allowed, ok, "%s %s %s", tt.role, tt.action, tt.resource)
	}
}

func TestPolicyServiceImpl_CompleteFlow(t *testing.T) {
	svc, _ := createPolicyServiceForTest(t)

	ok, err := svc.CheckPermission("user", "/api/v2/admin/reports", "GET")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.AddPolicy("user", "/api/v2/admin/reports", "GET"))
	ok, err = svc.CheckPermission("user", "/api/v2/admin/reports", "GET")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.RemovePolicy("user", "/api/v2/admin/reports", "GET"))
	ok, err = svc.CheckPermission("user", "/api/v2/admin/reports", "GET")
	require.NoError(t, err)
	assert.False(t, ok)
}
