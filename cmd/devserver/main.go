// Package main runs the in-memory development server. It serves the
// same REST surface as the production backend with seeded demo data,
// so the client can be exercised without any external dependency.
package main

import (
	"cmp"
	"fmt"
	"log"
	"net/http"

	"go.uber.org/zap"

	"qoralist/internal/config"
	"qoralist/internal/devserver"
	"qoralist/internal/logger"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	cfg := config.MustLoad()

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	zl := logger.New()
	defer func() { _ = zl.Log.Sync() }()
	if err := zl.Init(cfg.Client.LogLevel); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	zapLogger := zl.Log

	store := devserver.NewStore()
	store.SeedDemo()

	maker := devserver.NewTokenMaker(cfg.Server.JWTSecret, cfg.Server.TokenTTL)
	handler := devserver.NewHandler(store, maker, zapLogger)
	router := devserver.NewRouter(handler, maker, zapLogger)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	zapLogger.Info("starting development server", zap.String("addr", cfg.Server.Address))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
