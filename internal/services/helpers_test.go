package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Sadman95/bike-island-server/domain"
	"github.com/Sadman95/bike-island-server/internal/infrastructure/codec"
	"github.com/Sadman95/bike-island-server/internal/infrastructure/repositories"
	"github.com/Sadman95/bike-island-server/internal/mocks"
)

const testClientURL = "http://localhost:3000"

// testClock is a settable clock shared by the services under test
type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// lifecycle bundles real sqlite-backed stores with mocked mail and audit
type lifecycle struct {
	db        *gorm.DB
	users     domain.UserRepository
	otps      domain.OTPRepository
	resets    domain.PasswordResetRepository
	codec     domain.SecretCodec
	mail      *mocks.MockMailService
	audit     *mocks.MockAuditLogger
	clock     *testClock
	otpSvc    *OTPServiceImpl
	resetSvc  *PasswordResetServiceImpl
	passwords *mocks.MockPasswordService
}

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(repositories.Models()...); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func newLifecycle(t *testing.T) *lifecycle {
	t.Helper()

	db := setupTestDB(t)
	passwords := mocks.NewMockPasswordService()
	lc := &lifecycle{
		db:        db,
		users:     repositories.NewUserRepository(db, passwords),
		otps:      repositories.NewOTPRepository(db),
		resets:    repositories.NewPasswordResetRepository(db),
		codec:     codec.NewXORCodec("12"),
		mail:      mocks.NewMockMailService(),
		audit:     mocks.NewMockAuditLogger(),
		clock:     newTestClock(),
		passwords: passwords,
	}

	lc.otpSvc = NewOTPService(lc.otps, lc.users, lc.mail, lc.codec, lc.audit, OTPConfig{TTL: time.Hour}).(*OTPServiceImpl)
	lc.otpSvc.now = lc.clock.Now
	lc.resetSvc = NewPasswordResetService(lc.resets, lc.users, lc.mail, lc.codec, lc.audit, PasswordResetConfig{
		TTL:       24 * time.Hour,
		ClientURL: testClientURL,
	}).(*PasswordResetServiceImpl)
	lc.resetSvc.now = lc.clock.Now
	return lc
}

// createUser inserts an account with password "secret1"
func (lc *lifecycle) createUser(t *testing.T, email string) *domain.User {
	t.Helper()

	user := &domain.User{FirstName: "Test", LastName: "Rider", Email: email, Role: domain.RoleUser}
	if err := lc.users.Create(context.Background(), user, "secret1"); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// createValidUser creates a verified user entity for mock-based tests
func createValidUser(t *testing.T) *domain.User {
	t.Helper()

	return &domain.User{
		ID:           1,
		FirstName:    "Test",
		LastName:     "Rider",
		Email:        "test@example.com",
		PasswordHash: "hashed_password123",
		Role:         domain.RoleUser,
		IsVerified:   true,
		CreatedAt:    time.Now().Add(-24 * time.Hour),
		UpdatedAt:    time.Now().Add(-1 * time.Hour),
	}
}

// createUnverifiedUser creates a user that has not confirmed its email
func createUnverifiedUser(t *testing.T) *domain.User {
	t.Helper()

	user := createValidUser(t)
	user.IsVerified = false
	return user
}

// authDeps holds the mocked collaborators of AuthServiceImpl
type authDeps struct {
	users     *mocks.MockUserRepository
	passwords *mocks.MockPasswordService
	tokens    *mocks.MockTokenService
	otp       *mocks.MockOTPService
	resets    *mocks.MockPasswordResetService
	identity  *mocks.MockIdentityProvider
	audit     *mocks.MockAuditLogger
	codec     domain.SecretCodec
}

func newAuthDeps() *authDeps {
	return &authDeps{
		users:     mocks.NewMockUserRepository(),
		passwords: mocks.NewMockPasswordService(),
		tokens:    mocks.NewMockTokenService(),
		otp:       mocks.NewMockOTPService(),
		resets:    mocks.NewMockPasswordResetService(),
		identity:  &mocks.MockIdentityProvider{},
		audit:     mocks.NewMockAuditLogger(),
		codec:     codec.NewXORCodec("12"),
	}
}

// createAuthServiceForTest creates an AuthService over the mocked collaborators
func createAuthServiceForTest(t *testing.T, d *authDeps) domain.AuthService {
	t.Helper()

	return NewAuthService(d.users, d.passwords, d.tokens, d.codec, d.otp, d.resets, d.identity, d.audit)
}

func strPtr(s string) *string { return &s }
