package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"trainhub/internal/config"
	"trainhub/internal/database"
	"trainhub/internal/logger"

	"go.uber.org/zap"
)

const usage = `usage: migrate <command>

commands:
  up              apply every pending migration
  down [--all]    revert the latest migration, or all of them
  version         print the current schema version
  force <version> mark <version> as applied and clean`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}
	command, args := os.Args[1], os.Args[2:]

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db.DB)
	if err != nil {
		log.Fatal("Failed to load migrations", zap.Error(err))
	}
	defer migrator.Close()

	if err := run(context.Background(), migrator, command, args); err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func run(ctx context.Context, m *database.Migrator, command string, args []string) error {
	log := logger.Get()
	switch command {
	case "up":
		n, err := m.Up(ctx)
		if err != nil {
			return err
		}
		log.Info("Migrations applied", zap.Int("count", n))
	case "down":
		fs := flag.NewFlagSet("down", flag.ContinueOnError)
		all := fs.Bool("all", false, "revert every migration")
		if err := fs.Parse(args); err != nil {
			return err
		}
		steps := 1
		if *all {
			steps = 0
		}
		n, err := m.Down(ctx, steps)
		if err != nil {
			return err
		}
		log.Info("Migrations reverted", zap.Int("count", n))
	case "version":
		v, dirty, err := m.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
	case "force":
		if len(args) != 1 {
			return fmt.Errorf("force requires a version")
		}
		v, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		if err := m.Force(ctx, uint(v)); err != nil {
			return err
		}
		log.Info("Schema version forced", zap.Uint64("version", v))
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
	return nil
}
