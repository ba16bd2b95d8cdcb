package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// DATABASE_URL takes precedence over the discrete DB_* variables
	// when set (hosted Postgres / pooler DSNs).
	DatabaseURL string

	DB DBConfig

	Auth AuthConfig

	// AllowedOrigins is a comma-separated allowlist of origins allowed to
	// call the API from a browser frontend. Example:
	//   https://app.yourgarage.com,http://localhost:5173
	AllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type AuthConfig struct {
	// JWTSecret signs login tokens (HS256). Must be set outside dev.
	JWTSecret string

	// SessionTTLMinutes bounds how long a login token stays valid.
	SessionTTLMinutes int

	// BootstrapAdminEmail/Password provision the first ADMIN login on
	// startup when both are set. Registration only creates customers and
	// mechanics are admin-created, so a fresh database needs this seed.
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8080"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "carservice"),
			User:     env("DB_USER", "carservice"),
			Password: env("DB_PASSWORD", "carservice"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:              env("JWT_SECRET", "dev-secret"),
			SessionTTLMinutes:      envInt("SESSION_TTL_MINUTES", 12*60),
			BootstrapAdminEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
			BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		},
		AllowedOrigins: envList("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n := 0
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return fallback
		}
		n = n*10 + int(v[i]-'0')
	}
	return n
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			s := v[start:i]
			start = i + 1
			for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
				s = s[1:]
			}
			for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
				s = s[:len(s)-1]
			}
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
