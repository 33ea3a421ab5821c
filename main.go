package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cardfolio/cardfolio-api/auth"
	"github.com/cardfolio/cardfolio-api/config"
	"github.com/cardfolio/cardfolio-api/handlers"
	"github.com/cardfolio/cardfolio-api/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file if not in production environment
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			slog.Warn(".env file not found, environment variables might not be loaded", "error", err.Error())
		}
	}
	config.Load()

	setupLogger()

	// Initialize database connection
	config.Connect()

	resolver, err := newResolver()
	if err != nil {
		slog.Error("failed to set up identity resolver", "error", err.Error())
		os.Exit(1)
	}

	DBHandler := &handlers.DBHandler{DB: config.Database}
	mux := DBHandler.Routes()

	var handler http.Handler = mux
	handler = middleware.SyncUser(config.Database)(handler)
	handler = middleware.RequireIdentity(resolver)(handler)
	handler = middleware.RequestLogger(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.SecureHeaders(handler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   config.Env.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(handler)

	serverAddr := "0.0.0.0:" + config.Env.Port
	slog.Info("server listening", "addr", serverAddr)
	if err := http.ListenAndServe(serverAddr, corsHandler); err != nil {
		slog.Error("server stopped", "error", err.Error())
		os.Exit(1)
	}
}

func setupLogger() {
	var logHandler slog.Handler
	if config.Env.IsDevelopment {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(logHandler))
}

// newResolver picks the identity resolver: the external provider when
// configured, otherwise local HS256 verification for development.
func newResolver() (auth.Resolver, error) {
	if config.Env.Auth0Domain != "" {
		slog.Info("using external identity resolver", "domain", config.Env.Auth0Domain)
		return auth.NewAuth0Resolver(config.Env.Auth0Domain, config.Env.Auth0Audience)
	}

	slog.Info("using local identity resolver")
	return auth.NewLocalResolver([]byte(config.Env.TokenSecret)), nil
}
