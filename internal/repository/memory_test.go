package repository

import (
	"context"
	"errors"
	"testing"

	"stockledger/internal/model"

	"github.com/google/uuid"
)

func TestMemoryProducts_CRUDAndOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	products := NewMemoryProducts(store)

	first := &model.Product{SKU: "A", Name: "First", Department: "Store", Unit: model.UnitPieces}
	second := &model.Product{SKU: "B", Name: "Second", Department: "Store", Unit: model.UnitPieces}
	if err := products.Create(ctx, first); err != nil {
		t.Fatalf("create err: %v", err)
	}
	if err := products.Create(ctx, second); err != nil {
		t.Fatalf("create err: %v", err)
	}
	if first.ID == uuid.Nil {
		t.Fatalf("id not assigned")
	}

	all, _ := products.FindAll(ctx)
	if len(all) != 2 || all[0].SKU != "A" || all[1].SKU != "B" {
		t.Fatalf("insertion order not preserved: %+v", all)
	}

	bySKU, err := products.FindBySKU(ctx, "B")
	if err != nil || bySKU.Name != "Second" {
		t.Fatalf("FindBySKU failed: %v", err)
	}

	if err := products.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete err: %v", err)
	}
	if _, err := products.FindByID(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryTransactions_NewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	transactions := NewMemoryTransactions(store)

	productID := uuid.New()
	transactions.Create(ctx, &model.Transaction{ProductID: productID, Type: model.MovementIn, Quantity: 1, Reference: "first"})
	transactions.Create(ctx, &model.Transaction{ProductID: productID, Type: model.MovementIn, Quantity: 1, Reference: "second"})

	all, _ := transactions.FindAll(ctx)
	if all[0].Reference != "second" {
		t.Fatalf("expected newest first, got %q", all[0].Reference)
	}

	// per-product history stays oldest first
	history, _ := transactions.FindByProduct(ctx, productID)
	if history[0].Reference != "first" {
		t.Fatalf("expected oldest first history, got %q", history[0].Reference)
	}
}

func TestMemoryTx_NoDeadlockInsideTransaction(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	products := NewMemoryProducts(store)
	tx := NewMemoryTx(store)

	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := products.Create(ctx, &model.Product{SKU: "A", Name: "X", Unit: model.UnitPieces}); err != nil {
			return err
		}
		_, err := products.FindBySKU(ctx, "A")
		return err
	})
	if err != nil {
		t.Fatalf("transaction err: %v", err)
	}

	all, _ := products.FindAll(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 product, got %d", len(all))
	}
}
