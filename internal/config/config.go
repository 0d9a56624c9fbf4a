package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all runtime settings, read from the environment once at boot.
type Config struct {
	Port string

	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	Env      string // development / production
	LogLevel string

	AdminEmail    string
	AdminPassword string
}

// Load reads settings from the environment. DATABASE_URL wins over the
// individual DB_* variables when both are set.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      os.Getenv("DB_HOST"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),
		DBPort:      getEnv("DB_PORT", "5432"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTIssuer: getEnv("JWT_ISSUER", "gudang-hoda-plafon"),
		JWTTTL:    24 * time.Hour,

		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DatabaseURL == "" && (cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "") {
		return nil, fmt.Errorf("DATABASE_URL or DB_HOST/DB_USER/DB_NAME are required")
	}

	return cfg, nil
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Jakarta",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
