package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/config.yml"

type AppConfig struct {
	Env       string `yaml:"env"`
	Port      int    `yaml:"port"`
	GinMode   string `yaml:"gin_mode"`
	ClientURL string `yaml:"client_url"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	AccessSecret  string `yaml:"access_secret"`
	RefreshSecret string `yaml:"refresh_secret"`
	Issuer        string `yaml:"issuer"`
	AccessTTL     string `yaml:"access_ttl"`
	RefreshTTL    string `yaml:"refresh_ttl"`
}

type SecurityConfig struct {
	BcryptCost int    `yaml:"bcrypt_cost"`
	CodecSalt  string `yaml:"codec_salt"`
}

type OTPConfig struct {
	TTL string `yaml:"ttl"`
}

type ResetConfig struct {
	TTL string `yaml:"ttl"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

type RateLimitConfig struct {
	Requests int    `yaml:"requests"`
	Window   string `yaml:"window"`
}

type SweepConfig struct {
	Interval string `yaml:"interval"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Security  SecurityConfig  `yaml:"security"`
	OTP       OTPConfig       `yaml:"otp"`
	Reset     ResetConfig     `yaml:"password_reset"`
	Mail      MailConfig      `yaml:"mail"`
	Google    GoogleConfig    `yaml:"google"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Sweep     SweepConfig     `yaml:"sweep"`
	Casbin    CasbinConfig    `yaml:"casbin"`
}

type Config struct {
	Env               string
	Port              string
	GinMode           string
	ClientURL         string
	DSN               string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	AccessSecret      string
	RefreshSecret     string
	JWTIssuer         string
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	OTPTTL            time.Duration
	ResetTTL          time.Duration
	BcryptCost        int
	CodecSalt         string
	MailHost          string
	MailPort          int
	MailUsername      string
	MailPassword      string
	MailFrom          string
	GoogleClientID    string
	GoogleSecret      string
	GoogleRedirectURL string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	SweepInterval     time.Duration
	CasbinModelPath   string
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// Load reads .env (if present), the YAML file at CONFIG_PATH and environment overrides
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(env("CONFIG_PATH", defaultConfigPath))
}

// LoadFrom builds a Config from the YAML file at path plus environment overrides
func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	applyDefaults(configFile)

	accTTL, err := parseDuration("JWT_ACCESS_TTL", configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}
	refTTL, err := parseDuration("JWT_REFRESH_TTL", configFile.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}
	otpTTL, err := parseDuration("OTP_TTL", configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}
	resetTTL, err := parseDuration("PASSWORD_RESET_TTL", configFile.Reset.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid password reset TTL: %w", err)
	}
	window, err := parseDuration("RATE_LIMIT_WINDOW", configFile.RateLimit.Window)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit window: %w", err)
	}
	sweep, err := parseDuration("SWEEP_INTERVAL", configFile.Sweep.Interval)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	cfg := &Config{
		Env:               env("APP_ENV", configFile.App.Env),
		Port:              env("PORT", strconv.Itoa(configFile.App.Port)),
		GinMode:           env("GIN_MODE", configFile.App.GinMode),
		ClientURL:         env("CLIENT_URL", configFile.App.ClientURL),
		DSN:               env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:         env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:     env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:           envInt("REDIS_DB", configFile.Redis.DB),
		AccessSecret:      env("JWT_SECRET", configFile.JWT.AccessSecret),
		RefreshSecret:     env("JWT_REFRESH_SECRET", configFile.JWT.RefreshSecret),
		JWTIssuer:         env("JWT_ISSUER", configFile.JWT.Issuer),
		AccessTTL:         accTTL,
		RefreshTTL:        refTTL,
		OTPTTL:            otpTTL,
		ResetTTL:          resetTTL,
		BcryptCost:        envInt("BCRYPT_SALT_ROUNDS", configFile.Security.BcryptCost),
		CodecSalt:         env("CODEC_SALT", configFile.Security.CodecSalt),
		MailHost:          env("EMAIL_HOST", configFile.Mail.Host),
		MailPort:          envInt("EMAIL_PORT", configFile.Mail.Port),
		MailUsername:      env("EMAIL_USER", configFile.Mail.Username),
		MailPassword:      env("EMAIL_PASS", configFile.Mail.Password),
		MailFrom:          env("EMAIL_FROM", configFile.Mail.From),
		GoogleClientID:    env("GOOGLE_CLIENT_ID", configFile.Google.ClientID),
		GoogleSecret:      env("GOOGLE_CLIENT_SECRET", configFile.Google.ClientSecret),
		GoogleRedirectURL: env("GOOGLE_REDIRECT_URL", configFile.Google.RedirectURL),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", configFile.RateLimit.Requests),
		RateLimitWindow:   window,
		SweepInterval:     sweep,
		CasbinModelPath:   env("CASBIN_MODEL_PATH", configFile.Casbin.ModelPath),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with
func (c *Config) Validate() error {
	var errs []error
	if c.AccessSecret == "" {
		errs = append(errs, errors.New("jwt access secret is required"))
	}
	if c.RefreshSecret == "" {
		errs = append(errs, errors.New("jwt refresh secret is required"))
	}
	if c.AccessSecret != "" && c.AccessSecret == c.RefreshSecret {
		errs = append(errs, errors.New("jwt access and refresh secrets must differ"))
	}
	if c.CodecSalt == "" {
		errs = append(errs, errors.New("codec salt is required"))
	}
	if c.IsProduction() && c.MailHost == "" {
		errs = append(errs, errors.New("mail host is required in production"))
	}
	for name, d := range map[string]time.Duration{
		"access ttl":         c.AccessTTL,
		"refresh ttl":        c.RefreshTTL,
		"otp ttl":            c.OTPTTL,
		"password reset ttl": c.ResetTTL,
		"rate limit window":  c.RateLimitWindow,
		"sweep interval":     c.SweepInterval,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("bcrypt cost %d out of range", c.BcryptCost))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func applyDefaults(f *ConfigFile) {
	if f.App.Env == "" {
		f.App.Env = "development"
	}
	if f.App.Port == 0 {
		f.App.Port = 5000
	}
	if f.App.GinMode == "" {
		f.App.GinMode = "release"
	}
	if f.JWT.Issuer == "" {
		f.JWT.Issuer = "bike-island"
	}
	if f.JWT.AccessTTL == "" {
		f.JWT.AccessTTL = "1h"
	}
	if f.JWT.RefreshTTL == "" {
		f.JWT.RefreshTTL = "168h"
	}
	if f.OTP.TTL == "" {
		f.OTP.TTL = "1h"
	}
	if f.Reset.TTL == "" {
		f.Reset.TTL = "24h"
	}
	if f.Security.BcryptCost == 0 {
		f.Security.BcryptCost = 12
	}
	if f.Security.CodecSalt == "" {
		f.Security.CodecSalt = "12"
	}
	if f.Mail.Port == 0 {
		f.Mail.Port = 587
	}
	if f.RateLimit.Requests == 0 {
		f.RateLimit.Requests = 100
	}
	if f.RateLimit.Window == "" {
		f.RateLimit.Window = "15m"
	}
	if f.Sweep.Interval == "" {
		f.Sweep.Interval = "15m"
	}
}

func parseDuration(envKey, value string) (time.Duration, error) {
	return time.ParseDuration(env(envKey, value))
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
