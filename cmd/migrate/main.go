package main

import (
	"context"
	"flag"
	"log"
	"os"

	"demo-storefront/internal/config"
	"demo-storefront/internal/db"
	"demo-storefront/internal/migrate"

	"github.com/joho/godotenv"
)

func main() {
	var (
		down  bool
		steps int
	)
	flag.BoolVar(&down, "down", false, "Roll migrations back instead of applying them")
	flag.IntVar(&steps, "steps", 1, "Migrations to roll back with -down; 0 rolls back all")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if down {
		if err := migrate.Rollback(ctx, pool, steps); err != nil {
			logger.Fatalf("rollback migrations: %v", err)
		}
	} else if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	version, dirty, ok, err := migrate.Version(ctx, pool)
	switch {
	case err != nil:
		logger.Fatalf("read schema version: %v", err)
	case !ok:
		logger.Println("schema empty")
	default:
		logger.Printf("schema version=%d dirty=%t", version, dirty)
	}
}
