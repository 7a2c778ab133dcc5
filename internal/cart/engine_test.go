package cart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"reflect"
	"strings"
	"testing"

	"demo-storefront/internal/domain"
	"demo-storefront/internal/kv"
)

func product(id string, stock int, price float64) *domain.Product {
	return &domain.Product{ID: id, Slug: id, Title: strings.ToUpper(id), Price: price, Stock: stock, Category: domain.CategoryDesign}
}

func lines(items []domain.CartItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s:%d", it.Product.ID, it.Quantity))
	}
	return strings.Join(parts, ",")
}

func newEngine(t *testing.T) (*Engine, *kv.Memory) {
	t.Helper()
	store := kv.NewMemory()
	return New(context.Background(), store), store
}

func TestAddItem_ClampsToStock(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)
	a := product("A", 2, 10)

	e.AddItem(ctx, a, 5)
	if got := e.Quantity("A"); got != 2 {
		t.Fatalf("expected quantity 2, got %d", got)
	}
	if got := e.Subtotal(); got != 20 {
		t.Fatalf("expected subtotal 20, got %v", got)
	}

	e.AddItem(ctx, a, 3)
	if got := e.Quantity("A"); got != 2 {
		t.Fatalf("cumulative add should stay at 2, got %d", got)
	}
}

func TestAddItem_ClampsToCurrentStockAfterReload(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	first := New(ctx, store)
	first.AddItem(ctx, product("A", 2, 10), 2)

	restocked := New(ctx, store)
	restocked.AddItem(ctx, product("A", 5, 10), 3)
	if got := restocked.Quantity("A"); got != 5 {
		t.Fatalf("expected quantity 5 after restock, got %d", got)
	}

	reduced := New(ctx, store)
	reduced.AddItem(ctx, product("A", 3, 10), 1)
	if got := reduced.Quantity("A"); got != 3 {
		t.Fatalf("expected quantity capped at current stock 3, got %d", got)
	}
	if got := lines(reduced.Items()); got != "A:3" {
		t.Fatalf("expected a single line, got %s", got)
	}
}

func TestAddItem_NonPositiveQuantityIsNoop(t *testing.T) {
	ctx := context.Background()
	e, store := newEngine(t)
	a := product("A", 5, 10)
	e.AddItem(ctx, a, 2)
	before := lines(e.Items())
	writes := store.Writes()

	e.AddItem(ctx, a, 0)
	e.AddItem(ctx, a, -4)
	e.AddItem(ctx, product("B", 5, 1), 0)

	if got := lines(e.Items()); got != before {
		t.Fatalf("expected %s, got %s", before, got)
	}
	if store.Writes() != writes {
		t.Fatalf("no-op adds should not persist")
	}
}

func TestAddItem_OutOfStockIsNoop(t *testing.T) {
	e, _ := newEngine(t)
	e.AddItem(context.Background(), product("A", 0, 10), 1)
	e.AddItem(context.Background(), nil, 1)
	if n := len(e.Items()); n != 0 {
		t.Fatalf("expected empty cart, got %d lines", n)
	}
}

func TestAddItem_DoesNotOpenCart(t *testing.T) {
	e, _ := newEngine(t)
	e.AddItem(context.Background(), product("A", 3, 1), 1)
	if e.IsOpen() {
		t.Fatalf("adding must not change visibility")
	}
}

func TestStockCeilingAndUniqueness(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)
	products := []*domain.Product{product("A", 1, 5), product("B", 4, 7), product("C", 9, 2)}

	for i := 0; i < 60; i++ {
		p := products[i%len(products)]
		e.AddItem(ctx, p, i%5)
	}

	seen := map[string]bool{}
	for _, it := range e.Items() {
		if seen[it.Product.ID] {
			t.Fatalf("duplicate line for %s", it.Product.ID)
		}
		seen[it.Product.ID] = true
		if it.Quantity < 1 || it.Quantity > it.Product.Stock {
			t.Fatalf("line %s quantity %d outside [1,%d]", it.Product.ID, it.Quantity, it.Product.Stock)
		}
	}
	if got := lines(e.Items()); got != "B:4,C:9,A:1" {
		t.Fatalf("expected insertion order with clamped quantities, got %s", got)
	}
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)
	e.AddItem(ctx, product("A", 3, 10), 1)
	e.AddItem(ctx, product("B", 10, 1), 1)

	e.UpdateQuantity(ctx, "A", 99)
	if got := e.Quantity("A"); got != 3 {
		t.Fatalf("expected clamp to 3, got %d", got)
	}
	e.UpdateQuantity(ctx, "B", 4)
	if got := lines(e.Items()); got != "A:3,B:4" {
		t.Fatalf("unexpected lines %s", got)
	}
}

func TestUpdateQuantity_MissingIDIsNoop(t *testing.T) {
	ctx := context.Background()
	e, store := newEngine(t)
	e.AddItem(ctx, product("A", 3, 10), 2)
	writes := store.Writes()

	e.UpdateQuantity(ctx, "missing-id", 5)
	e.RemoveItem(ctx, "missing-id")

	if got := lines(e.Items()); got != "A:2" {
		t.Fatalf("expected A:2, got %s", got)
	}
	if store.Writes() != writes {
		t.Fatalf("no-op updates should not persist")
	}
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	ctx := context.Background()
	build := func() (*Engine, *kv.Memory) {
		e, store := newEngine(t)
		e.AddItem(ctx, product("A", 3, 10), 2)
		e.AddItem(ctx, product("B", 3, 4), 1)
		e.AddItem(ctx, product("C", 3, 1), 3)
		return e, store
	}

	for _, q := range []int{0, -1} {
		updated, updatedStore := build()
		removed, removedStore := build()
		updated.UpdateQuantity(ctx, "B", q)
		removed.RemoveItem(ctx, "B")

		if lines(updated.Items()) != lines(removed.Items()) {
			t.Fatalf("quantity %d: expected %s, got %s", q, lines(removed.Items()), lines(updated.Items()))
		}
		a, _, _ := updatedStore.Get(ctx, kv.CartKey)
		b, _, _ := removedStore.Get(ctx, kv.CartKey)
		if a != b {
			t.Fatalf("quantity %d: persisted states differ", q)
		}
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	e, store := newEngine(t)
	e.AddItem(ctx, product("A", 3, 10), 2)
	e.Clear(ctx)

	if e.ItemCount() != 0 || e.Total() != 0 || len(e.Items()) != 0 {
		t.Fatalf("expected empty cart, got %s", lines(e.Items()))
	}
	raw, _, _ := store.Get(ctx, kv.CartKey)
	if raw != `{"items":[]}` {
		t.Fatalf("expected empty persisted cart, got %s", raw)
	}
}

func TestDrain(t *testing.T) {
	ctx := context.Background()
	e, store := newEngine(t)
	e.AddItem(ctx, product("A", 3, 10), 2)
	e.AddItem(ctx, product("B", 1, 4), 1)
	e.Open()

	snap := e.Drain(ctx)
	if lines(snap.Items) != "A:2,B:1" || snap.ItemCount != 3 || snap.Total != 24 || !snap.IsOpen {
		t.Fatalf("unexpected drained snapshot %+v", snap)
	}
	if n := len(e.Items()); n != 0 {
		t.Fatalf("expected empty cart after drain, got %d lines", n)
	}
	if n := len(New(ctx, store).Items()); n != 0 {
		t.Fatalf("expected the drained cart to be persisted empty, got %d lines", n)
	}

	writes := store.Writes()
	if snap := e.Drain(ctx); len(snap.Items) != 0 {
		t.Fatalf("expected nothing to drain, got %+v", snap)
	}
	if store.Writes() != writes {
		t.Fatalf("draining an empty cart should not write")
	}
}

func TestTotalsConsistency(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)
	e.AddItem(ctx, product("A", 10, 19.99), 3)
	e.AddItem(ctx, product("B", 10, 0.1), 7)
	e.AddItem(ctx, product("C", 10, 1250), 1)

	want := 19.99*3 + 0.1*7 + 1250*1
	s := e.Snapshot()
	if math.Abs(s.Subtotal-want) > 1e-9 {
		t.Fatalf("expected subtotal %v, got %v", want, s.Subtotal)
	}
	if s.Total != s.Subtotal+s.Shipping || s.Shipping != 0 {
		t.Fatalf("expected total = subtotal + shipping, got %+v", s)
	}
	if s.ItemCount != 11 || e.ItemCount() != 11 {
		t.Fatalf("expected 11 items, got %d", s.ItemCount)
	}
	if e.Total() != s.Total || e.Subtotal() != s.Subtotal {
		t.Fatalf("snapshot disagrees with direct reads")
	}
}

func TestItems_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)
	e.AddItem(ctx, product("A", 10, 1), 1)

	items := e.Items()
	items[0].Quantity = 9
	if got := e.Quantity("A"); got != 1 {
		t.Fatalf("caller mutation leaked into cart: %d", got)
	}
}

func TestVisibility(t *testing.T) {
	e, store := newEngine(t)
	if e.IsOpen() {
		t.Fatalf("cart must start closed")
	}
	e.Open()
	e.Open()
	if !e.IsOpen() {
		t.Fatalf("expected open")
	}
	e.Toggle()
	if e.IsOpen() {
		t.Fatalf("expected closed after toggle")
	}
	e.Toggle()
	e.Close()
	if e.IsOpen() {
		t.Fatalf("expected closed")
	}
	if store.Writes() != 0 {
		t.Fatalf("visibility must not persist")
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	e := New(ctx, store)
	e.AddItem(ctx, product("C", 5, 3), 2)
	e.AddItem(ctx, product("A", 2, 10), 5)
	e.AddItem(ctx, product("B", 8, 1.5), 4)
	e.UpdateQuantity(ctx, "B", 6)
	e.AddItem(ctx, product("D", 1, 7), 1)
	e.RemoveItem(ctx, "D")
	e.Open()

	reloaded := New(ctx, store)
	if got, want := lines(reloaded.Items()), lines(e.Items()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if !reflect.DeepEqual(*reloaded.Items()[1].Product, *e.Items()[1].Product) {
		t.Fatalf("product fields did not survive the round trip")
	}
	if reloaded.IsOpen() {
		t.Fatalf("visibility must not be rehydrated")
	}
}

func TestPersistence_WriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	store := kv.NewMemory()
	store.FailSets(errors.New("quota exceeded"))

	e := New(ctx, store, WithLogger(log.New(&buf, "", 0)), WithLabel("s1"))
	e.AddItem(ctx, product("A", 5, 10), 2)
	e.UpdateQuantity(ctx, "A", 3)

	if got := e.Quantity("A"); got != 3 {
		t.Fatalf("memory should stay authoritative, got %d", got)
	}
	if store.Len() != 0 {
		t.Fatalf("nothing should have been stored")
	}
	if !strings.Contains(buf.String(), "cart: persist session=s1 error=quota exceeded") {
		t.Fatalf("expected logged failure, got %q", buf.String())
	}
}

func TestLoad_ReadFailureStartsEmpty(t *testing.T) {
	store := kv.NewMemory()
	store.FailGets(errors.New("disabled"))
	e := New(context.Background(), store)
	if n := len(e.Items()); n != 0 {
		t.Fatalf("expected empty cart, got %d", n)
	}
}

func TestLoad_MissingProductYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	_ = store.Set(ctx, kv.CartKey, `{"items":[{"quantity":3}]}`)

	e := New(ctx, store)
	if n := len(e.Items()); n != 0 {
		t.Fatalf("expected empty cart, got %d", n)
	}
}

func TestNilStoreKeepsMemoryOnly(t *testing.T) {
	ctx := context.Background()
	e := New(ctx, nil)
	e.AddItem(ctx, product("A", 2, 1), 1)
	if e.Quantity("A") != 1 {
		t.Fatalf("expected in-memory cart to work without a store")
	}
}

func TestNilEnginePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for nil engine")
		}
	}()
	var e *Engine
	e.AddItem(context.Background(), product("A", 1, 1), 1)
}
