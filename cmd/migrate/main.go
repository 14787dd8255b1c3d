// Command migrate applies the embedded schema migrations to the configured Postgres database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"accounts/config"
	"accounts/internal/errors"
	logs "accounts/internal/infra/log"
	"accounts/internal/infra/persistence/migrations"
	"accounts/internal/infra/persistence/postgres"

	"github.com/joho/godotenv"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [up|down|status]\n", os.Args[0])
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	if err := run(context.Background(), command); err != nil {
		slog.Error("Migration failed", slog.String("command", command), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, command string) error {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return err
	}

	db, err := postgres.Open(cfg, logger)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}
	defer sqlDB.Close()

	switch command {
	case "up":
		err = migrations.Up(ctx, sqlDB, migrations.DialectPostgres)
	case "down":
		err = migrations.Down(ctx, sqlDB, migrations.DialectPostgres)
	case "status":
	default:
		flag.Usage()

		return errors.Errorf("unknown command %q", command)
	}
	if err != nil {
		return err
	}

	version, err := migrations.Version(ctx, sqlDB, migrations.DialectPostgres)
	if err != nil {
		return err
	}
	logger.Info("Schema version", slog.Int64("version", version))

	return nil
}
