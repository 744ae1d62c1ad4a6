package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// legacyOperatorHash is the bcrypt hash of the operator password shipped with
// the first release ("clave123"). Override it with OPERATOR_PASSWORD_HASH.
const legacyOperatorHash = "$2a$12$ySnu7TMYP8IKn/OFUBOCC.LUV/4IciZZf/ZsZBsewEUHZ5eNSug3K"

// Config is built once at startup and passed by pointer to every component.
// Nothing mutates it afterwards.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Token    TokenConfig
	Operator OperatorConfig
	Log      LogConfig
	HTTP     HTTPConfig
}

type AppConfig struct {
	Env  string
	Port string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
	AutoMigrate     bool
}

// TokenConfig configures the bearer tokens issued at login.
// A zero TTL means tokens carry no exp claim.
type TokenConfig struct {
	Secret    string
	Algorithm string
	TTL       time.Duration
}

type OperatorConfig struct {
	Username     string
	PasswordHash string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

type HTTPConfig struct {
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrMissingSecret      = errors.New("SECRET_KEY is required")
)

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("ALGORITHM", "HS256")
	v.SetDefault("TOKEN_TTL", "0s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_SLOW_THRESHOLD", "200ms")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("OPERATOR_USERNAME", "admin")
	v.SetDefault("OPERATOR_PASSWORD_HASH", legacyOperatorHash)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
}

func fromViper(v *viper.Viper) (*Config, error) {
	env := v.GetString("APP_ENV")

	format := v.GetString("LOG_FORMAT")
	if format == "" {
		format = "console"
		if env == "production" {
			format = "json"
		}
	}

	cfg := &Config{
		App: AppConfig{
			Env:  env,
			Port: v.GetString("PORT"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			SlowThreshold:   v.GetDuration("DB_SLOW_THRESHOLD"),
			AutoMigrate:     v.GetBool("AUTO_MIGRATE"),
		},
		Token: TokenConfig{
			Secret:    v.GetString("SECRET_KEY"),
			Algorithm: strings.ToUpper(v.GetString("ALGORITHM")),
			TTL:       v.GetDuration("TOKEN_TTL"),
		},
		Operator: OperatorConfig{
			Username:     v.GetString("OPERATOR_USERNAME"),
			PasswordHash: v.GetString("OPERATOR_PASSWORD_HASH"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: format,
		},
		HTTP: HTTPConfig{
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return ErrMissingDatabaseURL
	}
	if c.Token.Secret == "" {
		return ErrMissingSecret
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
