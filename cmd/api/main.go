package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"demo-storefront/internal/checkout"
	"demo-storefront/internal/config"
	"demo-storefront/internal/db"
	"demo-storefront/internal/httpserver"
	"demo-storefront/internal/kv"
	productrepo "demo-storefront/internal/repository/product"
	productsvc "demo-storefront/internal/service/product"
	"demo-storefront/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	var dbpool *pgxpool.Pool
	if cfg.NeedsDB() {
		var err error
		dbpool, err = db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer dbpool.Close()
	}

	productRepo, err := buildCatalog(cfg, dbpool, logger)
	if err != nil {
		logger.Fatalf("init catalog: %v", err)
	}
	store, closeStore, err := buildStore(ctx, cfg, dbpool)
	if err != nil {
		logger.Fatalf("init store: %v", err)
	}
	defer closeStore()

	productService := productsvc.New(productRepo)
	sessions := session.NewManager(store, productService, cfg.SessionIdle, logger)
	checkoutService := checkout.New(cfg.OrderIDPrefix, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc:    productService,
		Sessions:      sessions,
		CheckoutSvc:   checkoutService,
		Store:         store,
		PageSize:      cfg.PageSize,
		CORSOrigins:   cfg.CORSOrigins,
		CheckoutRate:  rate.Limit(cfg.CheckoutRatePerSecond),
		CheckoutBurst: cfg.CheckoutRateBurst,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s catalog=%s store=%s", cfg.HTTPAddr, cfg.CatalogSource, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

func buildCatalog(cfg config.Config, pool *pgxpool.Pool, logger *log.Logger) (productrepo.Repository, error) {
	switch cfg.CatalogSource {
	case config.CatalogStatic:
		return productrepo.NewStatic()
	case config.CatalogPostgres:
		return productrepo.NewPostgres(pool, logger), nil
	}
	return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
}

// buildStore returns the cart and order store plus a func releasing it.
func buildStore(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) (kv.Store, func(), error) {
	noop := func() {}
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return kv.NewMemory(kv.WithTTL(cfg.StoreTTL)), noop, nil
	case config.StorePostgres:
		return kv.NewPostgres(pool), noop, nil
	case config.StoreRedis:
		r, err := kv.DialRedis(ctx, cfg.RedisURL, cfg.StoreTTL)
		if err != nil {
			return nil, noop, err
		}
		return r, func() { _ = r.Close() }, nil
	}
	return nil, noop, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
