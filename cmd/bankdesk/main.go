package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charlesk/bankdesk/internal/auth"
	"github.com/charlesk/bankdesk/internal/ledger"
	"github.com/charlesk/bankdesk/internal/storage/sqlite"
	"github.com/charlesk/bankdesk/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/bank.db")

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	ctx := context.Background()

	authenticator := auth.NewPasswordAuthenticator(store)
	created, err := authenticator.EnsureBootstrap(ctx)
	if err != nil {
		slog.Error("Failed to create bootstrap admin", "error", err)
		os.Exit(1)
	}
	if created {
		// Shown exactly once, on first initialization.
		fmt.Printf("Created default administrator %q with password %q. Change it after first login.\n",
			auth.BootstrapUsername, auth.BootstrapPassword)
	}

	svc := ledger.NewService(store, slog.Default())

	sh := newShell(svc, authenticator, os.Stdin, os.Stdout)
	if err := sh.run(ctx); err != nil {
		slog.Error("Console session failed", "error", err)
		os.Exit(1)
	}
}
