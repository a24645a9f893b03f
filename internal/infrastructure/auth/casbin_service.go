package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/Sadman95/bike-island-server/domain"
)

// DefaultModel is the RBAC model used when no model file is configured.
// Objects are matched with keyMatch2 so "/api/v2/admin/*" covers the whole admin tree,
// actions are regular expressions such as "(GET|POST)".
const DefaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// Subject returns the casbin subject for a user role
func Subject(role string) string {
	return domain.PolicySubject(role)
}

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService builds an enforcer persisted through the gorm adapter.
// An empty modelPath selects DefaultModel.
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("casbin adapter: %w", err)
	}

	var m model.Model
	if modelPath == "" {
		m, err = model.NewModelFromString(DefaultModel)
	} else {
		m, err = model.NewModelFromFile(modelPath)
	}
	if err != nil {
		return nil, fmt.Errorf("casbin model: %w", err)
	}

	E, err := casbin.NewEnforcer(m, adp)
	if err != nil {
		return nil, err
	}
	if err := E.LoadPolicy(); err != nil {
		return nil, err
	}
	return &CasbinService{E}, nil
}

// SeedDefaults installs the default admin policies when the policy table is empty.
// It reports whether anything was written. Rules are persisted by the adapter's auto-save.
func (s *CasbinService) SeedDefaults() (bool, error) {
	policies, err := s.E.GetPolicy()
	if err != nil {
		return false, err
	}
	if len(policies) > 0 {
		return false, nil
	}

	rules := [][]string{
		{Subject(domain.RoleAdmin), "/api/v2/admin/*", "(GET|POST|PATCH|DELETE)"},
		{Subject(domain.RoleManager), "/api/v2/admin/policies", "GET"},
	}
	for _, r := range rules {
		if _, err := s.E.AddPolicy(r[0], r[1], r[2]); err != nil {
			return false, err
		}
	}
	if _, err := s.E.AddGroupingPolicy(Subject(domain.RoleSuperAdmin), Subject(domain.RoleAdmin)); err != nil {
		return false, err
	}
	return true, nil
}
