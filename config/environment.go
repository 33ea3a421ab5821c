package config

import (
	"os"
	"strings"
)

type Environment struct {
	IsDevelopment bool
	Port          string
	DatabaseURL   string

	AllowedOrigins []string

	// Identity resolver settings. When Auth0Domain is set the server
	// verifies bearer tokens against the provider's JWKS; otherwise it
	// falls back to local HS256 verification with TokenSecret.
	Auth0Domain   string
	Auth0Audience string
	TokenSecret   string

	// Names of public collections seeded into a new user's library.
	DefaultCollections []string
}

var Env Environment

// Load reads the environment once at process start, after any .env file
// has been applied.
func Load() {
	isDev := os.Getenv("APP_ENV") != "production"

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // fallback port for local development
	}

	origins := []string{"http://localhost:3000"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = splitList(raw)
	}

	defaults := []string{"AI Prompt Engineering", "Programming Tips"}
	if raw := os.Getenv("DEFAULT_COLLECTIONS"); raw != "" {
		defaults = splitList(raw)
	}

	Env = Environment{
		IsDevelopment:      isDev,
		Port:               port,
		DatabaseURL:        os.Getenv("DB_URL"),
		AllowedOrigins:     origins,
		Auth0Domain:        os.Getenv("AUTH0_DOMAIN"),
		Auth0Audience:      os.Getenv("AUTH0_AUDIENCE"),
		TokenSecret:        os.Getenv("JWT_SECRET_KEY"),
		DefaultCollections: defaults,
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
