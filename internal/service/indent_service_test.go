package service

import (
	"context"
	"errors"
	"testing"

	"stockledger/internal/model"
	"stockledger/internal/repository"
)

type indentFixture struct {
	store   *repository.MemoryStore
	ledger  LedgerService
	indents IndentService
}

func setupIndents(t *testing.T) *indentFixture {
	t.Helper()
	store := repository.NewMemoryStore()
	products := repository.NewMemoryProducts(store)
	ledger := NewLedgerService(
		products,
		repository.NewMemoryTransactions(store),
		repository.NewMemoryIndents(store),
		repository.NewMemoryTx(store),
		nil,
	)
	indents := NewIndentService(repository.NewMemoryIndents(store), products, nil)
	return &indentFixture{store: store, ledger: ledger, indents: indents}
}

func TestIndent_Create_SnapshotsProduct(t *testing.T) {
	ctx := context.Background()
	f := setupIndents(t)
	p, _ := f.ledger.Register(ctx, registerInput("SKU-1", 10), testActor())

	indent, err := f.indents.Create(ctx, &CreateIndentInput{
		ProductID:  p.ID,
		Department: "Boiler",
		Quantity:   4,
		Priority:   model.PriorityHigh,
	}, testActor())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if indent.Status != model.IndentPending {
		t.Fatalf("expected pending, got %s", indent.Status)
	}
	if indent.ProductName != p.Name || indent.Unit != p.Unit {
		t.Fatalf("product snapshot missing: %+v", indent)
	}
	if indent.RequestedBy != testActor().Name {
		t.Fatalf("requester not recorded: %q", indent.RequestedBy)
	}
}

func TestIndent_Create_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	f := setupIndents(t)

	_, err := f.indents.Create(ctx, &CreateIndentInput{
		ProductID:  newUUID(t),
		Department: "Boiler",
		Quantity:   1,
		Priority:   model.PriorityLow,
	}, testActor())
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestIndent_StatusLifecycle(t *testing.T) {
	ctx := context.Background()
	f := setupIndents(t)
	p, _ := f.ledger.Register(ctx, registerInput("SKU-1", 10), testActor())
	indent, _ := f.indents.Create(ctx, &CreateIndentInput{
		ProductID:  p.ID,
		Department: "Boiler",
		Quantity:   4,
		Priority:   model.PriorityMedium,
	}, testActor())

	// skipping approval is not allowed
	if _, err := f.indents.UpdateStatus(ctx, indent.ID, model.IndentFulfilled, testActor()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if _, err := f.indents.UpdateStatus(ctx, indent.ID, model.IndentApproved, testActor()); err != nil {
		t.Fatalf("approve err: %v", err)
	}
	// approved indents can no longer be cancelled
	if _, err := f.indents.UpdateStatus(ctx, indent.ID, model.IndentCancelled, testActor()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	updated, err := f.indents.UpdateStatus(ctx, indent.ID, model.IndentFulfilled, testActor())
	if err != nil {
		t.Fatalf("fulfil err: %v", err)
	}
	// fulfilled is terminal
	if _, err := f.indents.UpdateStatus(ctx, updated.ID, model.IndentPending, testActor()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestIndent_Cancel(t *testing.T) {
	ctx := context.Background()
	f := setupIndents(t)
	p, _ := f.ledger.Register(ctx, registerInput("SKU-1", 10), testActor())
	indent, _ := f.indents.Create(ctx, &CreateIndentInput{
		ProductID:  p.ID,
		Department: "Boiler",
		Quantity:   4,
		Priority:   model.PriorityMedium,
	}, testActor())

	cancelled, err := f.indents.UpdateStatus(ctx, indent.ID, model.IndentCancelled, testActor())
	if err != nil {
		t.Fatalf("cancel err: %v", err)
	}
	if _, err := f.indents.UpdateStatus(ctx, cancelled.ID, model.IndentApproved, testActor()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestIndent_FulfilNeverMovesStock(t *testing.T) {
	ctx := context.Background()
	f := setupIndents(t)
	p, _ := f.ledger.Register(ctx, registerInput("SKU-1", 10), testActor())
	indent, _ := f.indents.Create(ctx, &CreateIndentInput{
		ProductID:  p.ID,
		Department: "Boiler",
		Quantity:   4,
		Priority:   model.PriorityHigh,
	}, testActor())

	f.indents.UpdateStatus(ctx, indent.ID, model.IndentApproved, testActor())
	f.indents.UpdateStatus(ctx, indent.ID, model.IndentFulfilled, testActor())

	products, _ := f.ledger.Products(ctx)
	got := products[0]
	if got.Quantity != 10 || got.TotalIssued != 0 {
		t.Fatalf("fulfilment moved stock: %+v", got)
	}
	history, _ := f.ledger.ProductHistory(ctx, p.ID)
	if len(history) != 1 {
		t.Fatalf("fulfilment appended a transaction")
	}
}

func TestIndent_ReservedDepartment(t *testing.T) {
	ctx := context.Background()
	f := setupIndents(t)
	p, _ := f.ledger.Register(ctx, registerInput("SKU-1", 10), testActor())

	_, err := f.indents.Create(ctx, &CreateIndentInput{
		ProductID:  p.ID,
		Department: model.DepartmentAll,
		Quantity:   1,
		Priority:   model.PriorityLow,
	}, testActor())
	if !errors.Is(err, ErrReservedDept) {
		t.Fatalf("expected ErrReservedDept, got %v", err)
	}
}
