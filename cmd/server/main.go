package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"

	"github.com/tendant/media-catalog/pkg/mediacatalog"
	"github.com/tendant/media-catalog/pkg/mediacatalog/api"
	"github.com/tendant/media-catalog/pkg/mediacatalog/config"
)

func main() {
	serverConfig, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	runtime, err := serverConfig.Build(ctx)
	if err != nil {
		slog.Error("Failed to build runtime", "err", err)
		os.Exit(1)
	}
	defer runtime.Close()

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: routes(runtime),
	}

	go func() {
		slog.Info("Media catalog server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"database", serverConfig.Database.Type,
			"storage", serverConfig.Storage.Type)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

func routes(runtime *config.Runtime) http.Handler {
	r := chi.NewRouter()

	logger := httplog.NewLogger("media-catalog", httplog.Options{
		LogLevel: slog.LevelInfo,
		Concise:  true,
	})

	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	})

	certificates := api.NewCatalogHandler(runtime.Service, mediacatalog.ClassCertificate)
	gallery := api.NewCatalogHandler(runtime.Service, mediacatalog.ClassGallery)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/certificates", certificates.Routes())
		r.Mount("/gallery", gallery.Routes())
	})

	// When the filesystem backend is active, serve its directory at the same
	// prefix the store builds URLs from.
	if runtime.StaticDir != "" {
		fileServer := http.StripPrefix(runtime.StaticPrefix+"/", http.FileServer(http.Dir(runtime.StaticDir)))
		r.Get(runtime.StaticPrefix+"/*", func(w http.ResponseWriter, r *http.Request) {
			fileServer.ServeHTTP(w, r)
		})
	}

	return r
}
