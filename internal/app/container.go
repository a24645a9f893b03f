package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Sadman95/bike-island-server/domain"
	"github.com/Sadman95/bike-island-server/internal/config"
	httpx "github.com/Sadman95/bike-island-server/internal/http"
	"github.com/Sadman95/bike-island-server/internal/http/handlers"
	"github.com/Sadman95/bike-island-server/internal/http/middleware"
	"github.com/Sadman95/bike-island-server/internal/infrastructure/auth"
	"github.com/Sadman95/bike-island-server/internal/infrastructure/codec"
	"github.com/Sadman95/bike-island-server/internal/infrastructure/database"
	"github.com/Sadman95/bike-island-server/internal/infrastructure/identity"
	"github.com/Sadman95/bike-island-server/internal/infrastructure/notifications"
	"github.com/Sadman95/bike-island-server/internal/infrastructure/repositories"
	"github.com/Sadman95/bike-island-server/internal/logging"
	"github.com/Sadman95/bike-island-server/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	DB     *gorm.DB
	Redis  *database.RedisClient
	Casbin *auth.CasbinService

	// Repositories
	UserRepo  domain.UserRepository
	OTPRepo   domain.OTPRepository
	ResetRepo domain.PasswordResetRepository

	// Services
	PasswordSvc domain.PasswordService
	TokenSvc    domain.TokenService
	Codec       domain.SecretCodec
	MailSvc     domain.MailService
	Identity    domain.IdentityProvider
	Audit       domain.AuditLogger
	OTPSvc      domain.OTPService
	ResetSvc    domain.PasswordResetService
	AuthSvc     domain.AuthService
	PolicySvc   domain.PolicyService
	Sweeper     *services.ExpirySweeper
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	container := &Container{Config: cfg, Logger: logger}

	// Initialize infrastructure
	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	container.initRedis()
	if err := container.initAuthorization(); err != nil {
		return nil, err
	}

	container.initServices()

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN, !c.Config.IsProduction())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() {
	c.Redis = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
}

func (c *Container) initAuthorization() error {
	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	seeded, err := cas.SeedDefaults()
	if err != nil {
		return fmt.Errorf("seed policies: %w", err)
	}
	if seeded {
		c.Logger.Info("casbin: seeded default policies")
	}
	c.Casbin = cas
	c.PolicySvc = services.NewPolicyService(cas.E)
	return nil
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService(c.Config.BcryptCost)
	c.TokenSvc = auth.NewJWTService(
		c.Config.AccessSecret,
		c.Config.RefreshSecret,
		c.Config.JWTIssuer,
		c.Config.AccessTTL,
		c.Config.RefreshTTL,
	)
	c.Codec = codec.NewXORCodec(c.Config.CodecSalt)
	c.MailSvc = notifications.NewMailService(notifications.SMTPConfig{
		Host:     c.Config.MailHost,
		Port:     c.Config.MailPort,
		Username: c.Config.MailUsername,
		Password: c.Config.MailPassword,
		From:     c.Config.MailFrom,
	}, c.Logger)
	if c.Config.GoogleClientID != "" {
		c.Identity = identity.NewGoogleProvider(c.Config.GoogleClientID, c.Config.GoogleSecret, c.Config.GoogleRedirectURL)
	}
	c.Audit = logging.NewSlogAuditLogger(c.Logger)

	c.UserRepo = repositories.NewUserRepository(c.DB, c.PasswordSvc)
	c.OTPRepo = repositories.NewOTPRepository(c.DB)
	c.ResetRepo = repositories.NewPasswordResetRepository(c.DB)

	c.OTPSvc = services.NewOTPService(c.OTPRepo, c.UserRepo, c.MailSvc, c.Codec, c.Audit,
		services.OTPConfig{TTL: c.Config.OTPTTL})
	c.ResetSvc = services.NewPasswordResetService(c.ResetRepo, c.UserRepo, c.MailSvc, c.Codec, c.Audit,
		services.PasswordResetConfig{TTL: c.Config.ResetTTL, ClientURL: c.Config.ClientURL})
	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.Codec,
		c.OTPSvc,
		c.ResetSvc,
		c.Identity,
		c.Audit,
	)
	c.Sweeper = services.NewExpirySweeper(c.OTPSvc, c.ResetSvc, c.Redis, c.Config.SweepInterval, c.Logger)
}

// Router builds the HTTP engine over the container's services
func (c *Container) Router() *gin.Engine {
	h := httpx.Handlers{
		Auth: handlers.NewAuthHandlers(c.AuthSvc, handlers.CookieConfig{
			MaxAge: c.TokenSvc.RefreshTTL(),
			Secure: c.Config.IsProduction(),
		}),
		OTP:    handlers.NewOTPHandlers(c.OTPSvc, c.UserRepo),
		Admin:  handlers.NewAdminHandlers(c.AuthSvc),
		Policy: handlers.NewPolicyHandlers(c.PolicySvc),
		Health: handlers.NewHealthHandlers(map[string]handlers.HealthCheck{
			"database": c.pingDatabase,
			"redis":    c.Redis.Ping,
		}),
	}

	return httpx.BuildRouter(h,
		middleware.NewAuthMW(c.TokenSvc),
		middleware.NewCasbinMW(services.NewCasbinEnforcerWrapper(c.Casbin.E)),
		httpx.RouterOptions{
			Logger:     c.Logger,
			Production: c.Config.IsProduction(),
			Limiter:    database.NewFixedWindowLimiter(c.Redis, c.Config.RateLimitRequests, c.Config.RateLimitWindow),
		},
	)
}

func (c *Container) pingDatabase(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Ping checks that the backing stores answer within timeout
func (c *Container) Ping(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := c.pingDatabase(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Redis.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
