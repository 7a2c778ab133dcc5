package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"demo-storefront/internal/config"
	"demo-storefront/internal/db"
	"demo-storefront/internal/importer"
	productrepo "demo-storefront/internal/repository/product"

	"github.com/joho/godotenv"
)

func main() {
	var (
		filePath string
		start    int
	)
	flag.StringVar(&filePath, "file", "", "Path to product CSV file")
	flag.IntVar(&start, "start", 0, "Catalog position of the first imported row")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, productrepo.NewPostgres(pool, nil)).StartAt(start)

	began := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(began).Truncate(time.Millisecond))
}
