package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/casbin/casbin/v2"

	"github.com/Sadman95/bike-island-server/domain"
)

var actionPattern = regexp.MustCompile(`^\(?[A-Z]+(\|[A-Z]+)*\)?$`)

// CasbinEnforcerWrapper wraps the real Casbin enforcer to implement our interface
type CasbinEnforcerWrapper struct {
	enforcer *casbin.Enforcer
}

// NewCasbinEnforcerWrapper creates a wrapper for the real Casbin enforcer
func NewCasbinEnforcerWrapper(enforcer *casbin.Enforcer) domain.CasbinEnforcer {
	return &CasbinEnforcerWrapper{enforcer: enforcer}
}

func (w *CasbinEnforcerWrapper) AddPolicy(params ...interface{}) (bool, error) {
	return w.enforcer.AddPolicy(params...)
}

func (w *CasbinEnforcerWrapper) RemovePolicy(params ...interface{}) (bool, error) {
	return w.enforcer.RemovePolicy(params...)
}

func (w *CasbinEnforcerWrapper) Enforce(rvals ...interface{}) (bool, error) {
	return w.enforcer.Enforce(rvals...)
}

func (w *CasbinEnforcerWrapper) GetPolicy() ([][]string, error) {
	return w.enforcer.GetPolicy()
}

func (w *CasbinEnforcerWrapper) SavePolicy() error {
	return w.enforcer.SavePolicy()
}

// PolicyServiceImpl administers the role policies guarding the admin API.
// Roles are given by name ("admin") and stored as subjects ("role_admin").
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: NewCasbinEnforcerWrapper(enforcer),
	}
}

// NewPolicyServiceWithEnforcer creates a new policy service with a CasbinEnforcer interface (for testing)
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: enforcer,
	}
}

// AddPolicy grants role the action on resource and persists the rule
func (p *PolicyServiceImpl) AddPolicy(role, resource, action string) error {
	if err := validatePolicy(role, resource, action); err != nil {
		return err
	}
	if _, err := p.enforcer.AddPolicy(domain.PolicySubject(role), resource, action); err != nil {
		return fmt.Errorf("add policy: %w", err)
	}
	return p.enforcer.SavePolicy()
}

// RemovePolicy revokes a rule and persists the change
func (p *PolicyServiceImpl) RemovePolicy(role, resource, action string) error {
	if err := validatePolicy(role, resource, action); err != nil {
		return err
	}
	if _, err := p.enforcer.RemovePolicy(domain.PolicySubject(role), resource, action); err != nil {
		return fmt.Errorf("remove policy: %w", err)
	}
	return p.enforcer.SavePolicy()
}

// CheckPermission reports whether role may perform action on resource
func (p *PolicyServiceImpl) CheckPermission(role, resource, action string) (bool, error) {
	return p.enforcer.Enforce(domain.PolicySubject(role), resource, action)
}

// GetPolicies lists the stored rules
func (p *PolicyServiceImpl) GetPolicies() [][]string {
	policies, _ := p.enforcer.GetPolicy()
	return policies
}

func validatePolicy(role, resource, action string) error {
	var fields []domain.FieldError
	if !domain.ValidRole(strings.TrimPrefix(role, "role_")) {
		fields = append(fields, domain.FieldError{Path: "sub", Message: "unknown role"})
	}
	if !strings.HasPrefix(resource, "/api/v2/") {
		fields = append(fields, domain.FieldError{Path: "obj", Message: "must be a path under /api/v2/"})
	}
	if !actionPattern.MatchString(action) {
		fields = append(fields, domain.FieldError{Path: "act", Message: "must be an HTTP method or (GET|POST) group"})
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
