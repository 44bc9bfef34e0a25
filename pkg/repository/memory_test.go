package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/preorder/pkg/models"
)

func TestMemoryStoreCatalog(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	cat := &models.Category{Name: "Drinks"}
	if err := store.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if cat.ID == 0 {
		t.Fatal("expected assigned category id")
	}

	item := &models.MenuItem{Name: "Latte", Price: 4.5, CategoryID: &cat.ID}
	if err := store.CreateMenuItem(ctx, item); err != nil {
		t.Fatalf("create menu item: %v", err)
	}

	got, err := store.GetMenuItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("get menu item: %v", err)
	}
	if got.Name != "Latte" || got.Price != 4.5 {
		t.Fatalf("unexpected item: %+v", got)
	}

	got.Price = 5.0
	if err := store.UpdateMenuItem(ctx, got); err != nil {
		t.Fatalf("update menu item: %v", err)
	}
	updated, _ := store.GetMenuItem(ctx, item.ID)
	if updated.Price != 5.0 {
		t.Fatalf("price not updated: %v", updated.Price)
	}

	if err := store.DeleteMenuItem(ctx, item.ID); err != nil {
		t.Fatalf("delete menu item: %v", err)
	}
	if _, err := store.GetMenuItem(ctx, item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteMenuItem(ctx, item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func testOrder(status models.OrderStatus) *models.Order {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &models.Order{
		CustomerName: "Aidar",
		Phone:        "+77010000000",
		PickupTime:   now.Add(40 * time.Minute),
		SendTime:     now.Add(20 * time.Minute),
		PrepMinutes:  20,
		Status:       status,
		TotalAmount:  30,
		CreatedAt:    now,
		Items: []models.OrderItem{
			{ItemID: 1, Quantity: 3, UnitPrice: 10, Subtotal: 30},
		},
	}
}

func TestMemoryStoreOrders(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	o := testOrder(models.StatusPending)
	if err := store.CreateOrder(ctx, o); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if o.ID == 0 {
		t.Fatal("expected assigned order id")
	}
	if o.Items[0].OrderID != o.ID || o.Items[0].ID == 0 {
		t.Fatalf("line not linked to order: %+v", o.Items[0])
	}

	got, err := store.GetOrder(ctx, o.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if len(got.Items) != 1 || got.TotalAmount != 30 {
		t.Fatalf("unexpected order: %+v", got)
	}

	// The returned order is a copy; mutating it must not touch the store.
	got.Items[0].Subtotal = 999
	again, _ := store.GetOrder(ctx, o.ID)
	if again.Items[0].Subtotal != 30 {
		t.Fatal("stored order aliased by returned copy")
	}
}

func TestMemoryStoreListOrdersFilter(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	pending := testOrder(models.StatusPending)
	ready := testOrder(models.StatusReady)
	if err := store.CreateOrder(ctx, pending); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.CreateOrder(ctx, ready); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := store.ListOrders(ctx, OrderFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}

	readyOnly, err := store.ListOrders(ctx, OrderFilter{Status: models.StatusReady})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(readyOnly) != 1 || readyOnly[0].ID != ready.ID {
		t.Fatalf("unexpected filtered result: %+v", readyOnly)
	}
}

func TestMemoryStoreUpdateOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	o := testOrder(models.StatusPending)
	if err := store.CreateOrder(ctx, o); err != nil {
		t.Fatalf("create order: %v", err)
	}

	updated, err := store.UpdateOrder(ctx, o.ID, func(order *models.Order) error {
		order.Status = models.StatusPreparing
		return nil
	})
	if err != nil {
		t.Fatalf("update order: %v", err)
	}
	if updated.Status != models.StatusPreparing {
		t.Fatalf("status = %v", updated.Status)
	}

	// A failed mutation leaves the stored order untouched.
	boom := errors.New("nope")
	if _, err := store.UpdateOrder(ctx, o.ID, func(order *models.Order) error {
		order.Status = models.StatusCancelled
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected mutation error, got %v", err)
	}
	got, _ := store.GetOrder(ctx, o.ID)
	if got.Status != models.StatusPreparing {
		t.Fatalf("failed mutation persisted: %v", got.Status)
	}

	if _, err := store.UpdateOrder(ctx, 9999, func(*models.Order) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
