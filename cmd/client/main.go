// Package main starts the interactive qoralist client. It wires the
// session store, the API client, the query cache and the route guard
// together and hands control to the shell loop.
package main

import (
	"bufio"
	"cmp"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"qoralist/internal/client/api"
	"qoralist/internal/client/app"
	"qoralist/internal/client/cache"
	"qoralist/internal/client/guard"
	"qoralist/internal/client/session"
	"qoralist/internal/config"
	"qoralist/internal/logger"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	var (
		configPath string
		showVer    bool
	)
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to config file")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Qoralist Client\nVersion: %s\nBuild Date: %s\n",
			cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl := logger.New()
	defer func() { _ = zl.Log.Sync() }()
	if err := zl.Init(cfg.Client.LogLevel); err != nil {
		zl.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := zl.Log

	// Restore any persisted session before the first prompt.
	sess := session.NewStore(session.NewFileStorage(cfg.Client.TokenFile), zapLogger)
	sess.Init()

	client := api.New(cfg.Client.BaseURL, cfg.Client.Timeout, sess, zapLogger)
	// A rejected token ends the session everywhere at once.
	client.OnAuthReject = sess.Logout

	queries := cache.New(zapLogger)
	routes := guard.New(sess)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(sess, routes, client, queries, bufio.NewReader(os.Stdin), os.Stdout, zapLogger)
	a.Run(ctx)
}
