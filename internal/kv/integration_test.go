package kv

import (
	"context"
	"os"
	"testing"
	"time"

	"demo-storefront/internal/db"
	"demo-storefront/internal/migrate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_Upsert(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if version, dirty, ok, err := migrate.Version(ctx, pool); err != nil || !ok || dirty || version < 1 {
		t.Fatalf("unexpected schema version=%d dirty=%t ok=%t err=%v", version, dirty, ok, err)
	}

	store := Scoped(NewPostgres(pool), uuid.NewString())
	if _, ok, err := store.Get(ctx, CartKey); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	for _, v := range []string{"first", "second"} {
		if err := store.Set(ctx, CartKey, v); err != nil {
			t.Fatalf("Set(%s): %v", v, err)
		}
	}
	v, ok, err := store.Get(ctx, CartKey)
	if err != nil || !ok || v != "second" {
		t.Fatalf("expected second, got %q ok=%v err=%v", v, ok, err)
	}
}

func TestRedis_SetGetWithTTL(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	r, err := DialRedis(ctx, url, time.Minute)
	if err != nil {
		t.Fatalf("dial redis: %v", err)
	}
	defer r.Close()

	store := Scoped(r, uuid.NewString())
	if _, ok, err := store.Get(ctx, LastOrderKey); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, LastOrderKey, "MAISON-ABC"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := store.Get(ctx, LastOrderKey)
	if err != nil || !ok || v != "MAISON-ABC" {
		t.Fatalf("expected MAISON-ABC, got %q ok=%v err=%v", v, ok, err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := db.Connect(ctx, dsn, 2)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}
