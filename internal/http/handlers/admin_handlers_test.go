package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Sadman95/bike-island-server/domain"
	"github.com/Sadman95/bike-island-server/internal/mocks"
)

func TestAdminHandlers_ChangeRole(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		body           gin.H
		expectedStatus int
		expectedPath   string
	}{
		{name: "role updated", path: "/admin/users/12/role", body: gin.H{"role": "manager"}, expectedStatus: http.StatusOK},
		{name: "unknown role", path: "/admin/users/12/role", body: gin.H{"role": "owner"}, expectedStatus: http.StatusBadRequest, expectedPath: "role"},
		{name: "bad id", path: "/admin/users/abc/role", body: gin.H{"role": "manager"}, expectedStatus: http.StatusBadRequest, expectedPath: "id"},
		{name: "missing user", path: "/admin/users/99/role", body: gin.H{"role": "manager"}, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			authSvc.ChangeRoleFunc = func(ctx context.Context, userID uint, role string) (*domain.User, error) {
				if userID != 12 {
					return nil, domain.ErrUserNotFound
				}
				return &domain.User{ID: userID, Role: role}, nil
			}
			r, _ := newTestEngine(t)
			r.PATCH("/admin/users/:id/role", NewAdminHandlers(authSvc).ChangeRole)

			w := perform(t, r, request{method: http.MethodPatch, path: tt.path, body: tt.body})
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			env := decode(t, w)
			if tt.expectedPath != "" && (len(env.ErrorMessages) == 0 || env.ErrorMessages[0].Path != tt.expectedPath) {
				t.Errorf("expected error on %q, got %+v", tt.expectedPath, env.ErrorMessages)
			}
			if w.Code == http.StatusOK && env.Data["role"] != "manager" {
				t.Errorf("unexpected data %v", env.Data)
			}
		})
	}
}

func TestPolicyHandlers(t *testing.T) {
	svc := mocks.NewMockPolicyService()
	var added []string
	svc.AddPolicyFunc = func(role, resource, action string) error {
		if role == "ghost" {
			return &domain.ValidationError{Fields: []domain.FieldError{{Path: "sub", Message: "unknown role"}}}
		}
		added = append(added, role, resource, action)
		return nil
	}
	svc.RemovePolicyFunc = func(role, resource, action string) error {
		return errors.New("adapter offline")
	}

	r, _ := newTestEngine(t)
	h := NewPolicyHandlers(svc)
	r.GET("/policies", h.List)
	r.POST("/policies", h.Add)
	r.DELETE("/policies", h.Remove)

	t.Run("list", func(t *testing.T) {
		w := perform(t, r, request{method: http.MethodGet, path: "/policies"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("add", func(t *testing.T) {
		w := perform(t, r, request{method: http.MethodPost, path: "/policies", body: gin.H{
			"sub": "manager", "obj": "/api/v2/admin/users/*", "act": "PATCH",
		}})
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
		}
		if len(added) != 3 || added[0] != "manager" {
			t.Errorf("unexpected rule %v", added)
		}
	})

	t.Run("add rejects unknown role", func(t *testing.T) {
		w := perform(t, r, request{method: http.MethodPost, path: "/policies", body: gin.H{
			"sub": "ghost", "obj": "/api/v2/admin/users/*", "act": "PATCH",
		}})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("add requires every field", func(t *testing.T) {
		w := perform(t, r, request{method: http.MethodPost, path: "/policies", body: gin.H{"sub": "manager"}})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if n := len(decode(t, w).ErrorMessages); n != 2 {
			t.Errorf("expected 2 field errors, got %d", n)
		}
	})

	t.Run("remove failure is internal", func(t *testing.T) {
		w := perform(t, r, request{method: http.MethodDelete, path: "/policies", body: gin.H{
			"sub": "manager", "obj": "/api/v2/admin/policies", "act": "GET",
		}})
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if msg := decode(t, w).Message; msg != "Internal Server Error!" {
			t.Errorf("unexpected message %q", msg)
		}
	})
}

func TestHealthHandlers(t *testing.T) {
	tests := []struct {
		name            string
		checks          map[string]HealthCheck
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "all dependencies up",
			checks: map[string]HealthCheck{
				"database": func(ctx context.Context) error { return nil },
				"redis":    func(ctx context.Context) error { return nil },
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "OK",
		},
		{
			name: "redis down",
			checks: map[string]HealthCheck{
				"database": func(ctx context.Context) error { return nil },
				"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
			},
			expectedStatus:  http.StatusServiceUnavailable,
			expectedMessage: "DEGRADED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestEngine(t)
			r.GET("/health", NewHealthHandlers(tt.checks).Health)

			w := perform(t, r, request{method: http.MethodGet, path: "/health"})
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if msg := decode(t, w).Message; msg != tt.expectedMessage {
				t.Errorf("expected message %q, got %q", tt.expectedMessage, msg)
			}
		})
	}
}
