// Command migrate applies the database schema with goose. Migrations are
// embedded so the binary is self-contained.
package main

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/nyvo/advisor/internal/config"
	"github.com/nyvo/advisor/internal/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger.InitLogger(cfg.AppEnv)
	appLogger := logger.L().With("component", "migrate")

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		appLogger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		appLogger.Error("Failed to set goose dialect", slog.Any("error", err))
		os.Exit(1)
	}

	switch command {
	case "up":
		err = goose.Up(db, "migrations")
	case "down":
		err = goose.Down(db, "migrations")
	case "status":
		err = goose.Status(db, "migrations")
	default:
		appLogger.Error("Unknown command", "command", command)
		os.Exit(1)
	}
	if err != nil {
		appLogger.Error("Migration failed", "command", command, slog.Any("error", err))
		os.Exit(1)
	}

	appLogger.Info("Migration finished", "command", command)
}
