package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nextbloom/nextbloom-api/app/models"
)

func newCartFixture() (*CartService, *fakeProductRepo, *fakeCartBackend) {
	products := newFakeProductRepo(
		&models.Product{ID: "p1", Name: "Snake Plant", Price: decimal.RequireFromString("3.99"), Stock: 5, IsActive: true},
		&models.Product{ID: "p2", Name: "Clay Pot", Price: decimal.RequireFromString("5.99"), Stock: 2, IsActive: true},
		&models.Product{ID: "p3", Name: "Retired Pot", Price: decimal.RequireFromString("9.99"), Stock: 9, IsActive: false},
	)
	cart := newFakeCartBackend(products)
	return NewCartService(cart, cart, products), products, cart
}

func TestAddItemMergesExistingLine(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "p1", 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err := svc.AddItem(ctx, "u1", "p1", 1)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(cart.CartItems) != 1 {
		t.Fatalf("cart has %d lines, want 1 merged line", len(cart.CartItems))
	}
	if cart.CartItems[0].Qty != 3 {
		t.Errorf("qty = %d, want 3", cart.CartItems[0].Qty)
	}
	if got, want := cart.TotalPrice().String(), "11.97"; got != want {
		t.Errorf("total = %s, want %s", got, want)
	}
}

func TestAddItemStockCeiling(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "p2", 3); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// The merged quantity counts against stock too.
	if _, err := svc.AddItem(ctx, "u1", "p2", 2); err != nil {
		t.Fatalf("add within stock: %v", err)
	}
	if _, err := svc.AddItem(ctx, "u1", "p2", 1); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("merge past stock: err = %v, want ErrInsufficientStock", err)
	}
}

func TestAddItemUnknownOrInactiveProduct(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "nope", 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("unknown product: err = %v, want ErrProductNotFound", err)
	}
	if _, err := svc.AddItem(ctx, "u1", "p3", 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("inactive product: err = %v, want ErrProductNotFound", err)
	}
}

func TestUpdateItemZeroQtyRemovesLine(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "u1", "p1", 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	itemID := cart.CartItems[0].ID

	cart, err = svc.UpdateItem(ctx, "u1", itemID, 0)
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if len(cart.CartItems) != 0 {
		t.Errorf("cart has %d lines, want 0", len(cart.CartItems))
	}
}

func TestUpdateItemOwnership(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "u1", "p1", 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	itemID := cart.CartItems[0].ID

	if _, err := svc.UpdateItem(ctx, "u2", itemID, 2); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("err = %v, want ErrCartItemNotFound for another user's line", err)
	}
	if _, err := svc.RemoveItem(ctx, "u2", itemID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("err = %v, want ErrCartItemNotFound for another user's line", err)
	}
}

func TestClearCart(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "p1", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddItem(ctx, "u1", "p2", 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := svc.Clear(ctx, "u1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(cart.CartItems) != 0 {
		t.Errorf("cart has %d lines after clear, want 0", len(cart.CartItems))
	}
}
