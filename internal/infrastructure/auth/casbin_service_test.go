package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Sadman95/bike-island-server/domain"
)

func setupCasbin(t *testing.T) *CasbinService {
	t.Helper()
	svc, err := NewCasbinService(openPolicyDB(t), "")
	require.NoError(t, err)
	return svc
}

// openPolicyDB returns a single-connection in-memory database
func openPolicyDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestCasbinService_SeedDefaults(t *testing.T) {
	svc := setupCasbin(t)

	seeded, err := svc.SeedDefaults()
	require.NoError(t, err)
	assert.True(t, seeded)

	again, err := svc.SeedDefaults()
	require.NoError(t, err)
	assert.False(t, again, "second seed should be a no-op")

	tests := []struct {
		role    string
		path    string
		method  string
		allowed bool
	}{
		{domain.RoleAdmin, "/api/v2/admin/policies", "GET", true},
		{domain.RoleAdmin, "/api/v2/admin/users/3/role", "PATCH", true},
		{domain.RoleSuperAdmin, "/api/v2/admin/users/3/role", "PATCH", true},
		{domain.RoleManager, "/api/v2/admin/policies", "GET", true},
		{domain.RoleManager, "/api/v2/admin/policies", "POST", false},
		{domain.RoleUser, "/api/v2/admin/policies", "GET", false},
		{domain.RoleAdmin, "/api/v2/auth/me", "PUT", false},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.method+" "+tt.path, func(t *testing.T) {
			ok, err := svc.E.Enforce(Subject(tt.role), tt.path, tt.method)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, ok)
		})
	}
}

func TestCasbinService_SeedDefaultsPersists(t *testing.T) {
	db := openPolicyDB(t)
	svc, err := NewCasbinService(db, "")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.SeedDefaults()
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("seeding did not finish on a single-connection pool")
	}

	reloaded, err := NewCasbinService(db, "")
	require.NoError(t, err)
	policies, err := reloaded.E.GetPolicy()
	require.NoError(t, err)
	assert.Len(t, policies, 2)

	ok, err := reloaded.E.Enforce(Subject(domain.RoleSuperAdmin), "/api/v2/admin/policies", "DELETE")
	require.NoError(t, err)
	assert.True(t, ok, "grouping rule is stored too")
}

func TestCasbinService_BadModelPath(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	_, err = NewCasbinService(db, "/does/not/exist.conf")
	assert.Error(t, err)
}
