package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Plans     PlanConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// AuthConfig carries password-verification settings beyond the JWT layer.
// LegacySecret is the HMAC key used by the interim keyed-digest scheme; when
// empty that verification step is skipped.
type AuthConfig struct {
	LegacySecret string
}

// PlanConfig holds the monthly price per membership tier. Prices feed the
// membership revenue estimate and are never read from the database.
type PlanConfig struct {
	BronzePrice float64
	SilverPrice float64
	GoldPrice   float64
}

type MailConfig struct {
	APIKey     string
	APISecret  string
	Sender     string
	SenderName string
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (j *JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpiryHours) * time.Hour
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

// Prices returns the tier price table keyed by canonical plan id. Alias plan
// ids (basic/premium/professional) are resolved before lookup, so the map
// only carries the canonical three.
func (p *PlanConfig) Prices() map[string]float64 {
	return map[string]float64{
		"bronze": p.BronzePrice,
		"silver": p.SilverPrice,
		"gold":   p.GoldPrice,
	}
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "escapehouses")
	v.SetDefault("DATABASE_PASSWORD", "escapehouses_secret")
	v.SetDefault("DATABASE_NAME", "escapehouses")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("AUTH_LEGACY_SECRET", "")
	v.SetDefault("PLAN_PRICE_BRONZE", 450.0)
	v.SetDefault("PLAN_PRICE_SILVER", 650.0)
	v.SetDefault("PLAN_PRICE_GOLD", 850.0)
	v.SetDefault("MAILJET_API_KEY", "")
	v.SetDefault("MAILJET_API_SECRET", "")
	v.SetDefault("MAILJET_SENDER", "bookings@groupescapehouses.co.uk")
	v.SetDefault("MAILJET_SENDER_NAME", "Group Escape Houses")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DATABASE_HOST"),
			Port:     v.GetInt("DATABASE_PORT"),
			User:     v.GetString("DATABASE_USER"),
			Password: v.GetString("DATABASE_PASSWORD"),
			Name:     v.GetString("DATABASE_NAME"),
			SSLMode:  v.GetString("DATABASE_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Auth: AuthConfig{
			LegacySecret: v.GetString("AUTH_LEGACY_SECRET"),
		},
		Plans: PlanConfig{
			BronzePrice: v.GetFloat64("PLAN_PRICE_BRONZE"),
			SilverPrice: v.GetFloat64("PLAN_PRICE_SILVER"),
			GoldPrice:   v.GetFloat64("PLAN_PRICE_GOLD"),
		},
		Mail: MailConfig{
			APIKey:     v.GetString("MAILJET_API_KEY"),
			APISecret:  v.GetString("MAILJET_API_SECRET"),
			Sender:     v.GetString("MAILJET_SENDER"),
			SenderName: v.GetString("MAILJET_SENDER_NAME"),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	return cfg, nil
}
