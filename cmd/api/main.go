//	@title			Media Proxy API
//	@version		1.0
//	@description	Authenticated gateway for uploading, fetching, and deleting media files in object storage.
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/gennyproject/media-proxy/docs/swagger"
	"github.com/gennyproject/media-proxy/internal/config"
	"github.com/gennyproject/media-proxy/internal/media"
	appMiddleware "github.com/gennyproject/media-proxy/internal/middleware"
	"github.com/gennyproject/media-proxy/internal/storage"
	"github.com/gennyproject/media-proxy/internal/token"
)

func main() {
	cfg := config.Load()

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("object storage init failed")
	}

	verifier, err := newVerifier(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("token verifier init failed")
	}

	// Wire dependencies: store → service → handler
	mediaSvc := media.NewService(store)
	mediaHandler := media.NewHandler(mediaSvc)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(appMiddleware.MaxBytes(cfg.BodyLimitBytes))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type", "X-Requested-With",
			"X-PINGARUNER", "X-Total-Count", "Access-Control-Allow-Origin",
		},
		ExposedHeaders: []string{"Content-Range"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Authorized endpoints: private uploads and fetches plus public uploads
	// all require the configured role.
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.RequireRole(verifier, cfg.RequiredRole))
		r.Post("/media", mediaHandler.UploadUserFiles)
		r.Get("/media/{fileuuid}", mediaHandler.FetchUserFile)
		r.Post("/public", mediaHandler.UploadPublicFiles)
	})

	// Anonymous public endpoints.
	r.Get("/public/{fileuuid}", mediaHandler.FetchPublicFile)
	r.Delete("/public/{fileuuid}", mediaHandler.DeletePublicFile)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-quit
	log.Info().Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}

// newStore builds the object store selected by STORAGE_DRIVER.
func newStore(cfg *config.Config) (storage.ObjectStore, error) {
	switch cfg.StorageDriver {
	case "memory":
		log.Warn().Msg("using in-memory storage, objects will not survive a restart")
		return storage.NewMemoryStore(), nil
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return storage.NewMinioStore(
			ctx,
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageBucket,
			cfg.StorageUseSSL,
		)
	}
}

// newVerifier builds the token verifier selected by AUTH_MODE.
func newVerifier(cfg *config.Config) (token.Verifier, error) {
	switch cfg.AuthMode {
	case "introspect":
		return token.NewIntrospectionVerifier(cfg.IntrospectURL, cfg.IntrospectClient, cfg.IntrospectSecret)
	default:
		log.Warn().Msg("using local JWT verification, set AUTH_MODE=introspect for production")
		return token.NewJWTVerifier(cfg.JWTSecret), nil
	}
}
