package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "CATALOG_SOURCE", "STORE_BACKEND", "PAGE_SIZE", "SESSION_IDLE_TTL_SECONDS", "CORS_ORIGINS", "CHECKOUT_RATE_PER_SECOND", "ORDER_ID_PREFIX"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" || cfg.CatalogSource != CatalogStatic || cfg.StoreBackend != StoreMemory {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.PageSize != 8 || cfg.SessionIdle != 30*time.Minute || cfg.CheckoutRatePerSecond != 2 || cfg.OrderIDPrefix != "MAISON" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("expected wildcard origin, got %v", cfg.CORSOrigins)
	}
	if cfg.NeedsDB() {
		t.Fatalf("static catalog with memory store needs no db")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "Postgres")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("PAGE_SIZE", "12")
	t.Setenv("SESSION_IDLE_TTL_SECONDS", "60")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("CHECKOUT_RATE_PER_SECOND", "0.5")
	t.Setenv("STORE_TTL_SECONDS", "3600")

	cfg := FromEnv()
	if cfg.CatalogSource != CatalogPostgres || cfg.StoreBackend != StoreRedis || !cfg.NeedsDB() {
		t.Fatalf("unexpected sources %+v", cfg)
	}
	if cfg.PageSize != 12 || cfg.SessionIdle != time.Minute || cfg.CheckoutRatePerSecond != 0.5 || cfg.StoreTTL != time.Hour {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestFromEnv_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("PAGE_SIZE", "-3")
	t.Setenv("CHECKOUT_RATE_BURST", "many")
	cfg := FromEnv()
	if cfg.PageSize != 8 || cfg.CheckoutRateBurst != 5 {
		t.Fatalf("expected defaults, got page=%d burst=%d", cfg.PageSize, cfg.CheckoutRateBurst)
	}
}
