// Package main is the entry point for the snipshare HTTP API.
//
// The main package is kept minimal. Its job is to:
// 1. Read configuration (.env, config file, SNIPSHARE_* env vars)
// 2. Create dependencies (logger, storage, services)
// 3. Start the server
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/sakif/snipshare/internal/app"
	"github.com/sakif/snipshare/internal/config"
	"github.com/sakif/snipshare/internal/server"
)

func main() {
	configPath := flag.String("config", os.Getenv(config.EnvPrefix+"_CONFIG"), "path to a TOML config file")
	flag.Parse()

	// A missing .env is normal outside development.
	envErr := godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := cfg.Log.NewLogger(os.Stdout)
	if envErr != nil {
		logger.Debug(".env not loaded", slog.String("error", envErr.Error()))
	}

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialise", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.New(cfg.Server, server.Deps{
		Sessions: a.Sessions,
		Snippets: a.Snippets,
		Social:   a.Social,
		Tokens:   a.Tokens,
		Closer:   a,
	}, logger)
	if err != nil {
		a.Close()
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
