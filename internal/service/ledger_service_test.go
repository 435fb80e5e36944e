package service

import (
	"context"
	"errors"
	"testing"

	"stockledger/internal/model"
	"stockledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ledgerFixture struct {
	store  *repository.MemoryStore
	ledger LedgerService
}

func setupLedger(t *testing.T) *ledgerFixture {
	t.Helper()
	store := repository.NewMemoryStore()
	ledger := NewLedgerService(
		repository.NewMemoryProducts(store),
		repository.NewMemoryTransactions(store),
		repository.NewMemoryIndents(store),
		repository.NewMemoryTx(store),
		nil,
	)
	return &ledgerFixture{store: store, ledger: ledger}
}

func testActor() Actor {
	return Actor{ID: "u-1", Name: "Storekeeper"}
}

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func registerInput(sku string, qty float64) *RegisterProductInput {
	return &RegisterProductInput{
		Name:       "Bearing 6204",
		SKU:        sku,
		Category:   "Spares",
		Department: "Mechanical",
		Unit:       model.UnitPieces,
		Price:      decimal.NewFromInt(120),
		Quantity:   qty,
		MinStock:   5,
	}
}

func TestLedger_Register_OpeningStock(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)

	p, err := f.ledger.Register(ctx, registerInput("SKU-1", 10), testActor())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.Quantity != 10 || p.TotalReceived != 10 || p.TotalIssued != 0 {
		t.Fatalf("counters wrong: q=%v tr=%v ti=%v", p.Quantity, p.TotalReceived, p.TotalIssued)
	}

	history, err := f.ledger.ProductHistory(ctx, p.ID)
	if err != nil {
		t.Fatalf("history err: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 opening transaction, got %d", len(history))
	}
	opening := history[0]
	if opening.Type != model.MovementIn || opening.Quantity != 10 {
		t.Fatalf("opening transaction wrong: %+v", opening)
	}
	if opening.Reference != "Opening Stock" {
		t.Fatalf("expected opening reference, got %q", opening.Reference)
	}
}

func TestLedger_Register_ZeroQuantityHasNoTransaction(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)

	p, err := f.ledger.Register(ctx, registerInput("SKU-1", 0), testActor())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	history, _ := f.ledger.ProductHistory(ctx, p.ID)
	if len(history) != 0 {
		t.Fatalf("expected no transactions, got %d", len(history))
	}
}

func TestLedger_Register_Rejections(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)

	if _, err := f.ledger.Register(ctx, registerInput("SKU-1", 5), testActor()); err != nil {
		t.Fatalf("seed register failed: %v", err)
	}
	if _, err := f.ledger.Register(ctx, registerInput("SKU-1", 5), testActor()); !errors.Is(err, ErrSKUExists) {
		t.Fatalf("expected ErrSKUExists, got %v", err)
	}

	bad := registerInput("SKU-2", 5)
	bad.Department = model.DepartmentAll
	if _, err := f.ledger.Register(ctx, bad, testActor()); !errors.Is(err, ErrReservedDept) {
		t.Fatalf("expected ErrReservedDept, got %v", err)
	}

	badUnit := registerInput("SKU-3", 5)
	badUnit.Unit = model.Unit("Bucket")
	if _, err := f.ledger.Register(ctx, badUnit, testActor()); !errors.Is(err, ErrInvalidUnit) {
		t.Fatalf("expected ErrInvalidUnit, got %v", err)
	}

	badPrice := registerInput("SKU-4", 5)
	badPrice.Price = decimal.NewFromInt(-1)
	if _, err := f.ledger.Register(ctx, badPrice, testActor()); err == nil {
		t.Fatalf("expected negative price rejection")
	}
}

func TestLedger_Movement_InUpdatesCounters(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)
	p, _ := f.ledger.Register(ctx, registerInput("SKU-1", 10), testActor())

	newPrice := decimal.NewFromInt(150)
	updated, err := f.ledger.ApplyMovement(ctx, p.ID, &MovementInput{
		Type:      model.MovementIn,
		Quantity:  4,
		Reference: "PO-42",
		NewPrice:  &newPrice,
	}, testActor())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if updated.Quantity != 14 || updated.TotalReceived != 14 || updated.TotalIssued != 0 {
		t.Fatalf("counters wrong: q=%v tr=%v ti=%v", updated.Quantity, updated.TotalReceived, updated.TotalIssued)
	}
	if !updated.Price.Equal(newPrice) {
		t.Fatalf("expected price 150, got %s", updated.Price)
	}
}

func TestLedger_Movement_OutRejectsOverIssue(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)
	p, _ := f.ledger.Register(ctx, registerInput("SKU-1", 5), testActor())

	_, err := f.ledger.ApplyMovement(ctx, p.ID, &MovementInput{
		Type:     model.MovementOut,
		Quantity: 8,
	}, testActor())
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// nothing may have been written
	products, _ := f.ledger.Products(ctx)
	if products[0].Quantity != 5 || products[0].TotalIssued != 0 {
		t.Fatalf("state changed after rejected movement: %+v", products[0])
	}
	history, _ := f.ledger.ProductHistory(ctx, p.ID)
	if len(history) != 1 {
		t.Fatalf("rejected movement appended a transaction")
	}
}

func TestLedger_Movement_OverIssueClampsBalance(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)
	p, _ := f.ledger.Register(ctx, registerInput("SKU-1", 5), testActor())

	updated, err := f.ledger.ApplyMovement(ctx, p.ID, &MovementInput{
		Type:           model.MovementOut,
		Quantity:       8,
		AllowOverIssue: true,
	}, testActor())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// balance clamps to zero but the lifetime counter and the record
	// keep the full requested quantity
	if updated.Quantity != 0 {
		t.Fatalf("expected clamped balance 0, got %v", updated.Quantity)
	}
	if updated.TotalIssued != 8 {
		t.Fatalf("expected TotalIssued 8, got %v", updated.TotalIssued)
	}

	history, _ := f.ledger.ProductHistory(ctx, p.ID)
	last := history[len(history)-1]
	if last.Quantity != 8 {
		t.Fatalf("expected recorded quantity 8, got %v", last.Quantity)
	}
}

func TestLedger_InvariantHoldsAcrossMovements(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)
	p, _ := f.ledger.Register(ctx, registerInput("SKU-1", 20), testActor())

	moves := []MovementInput{
		{Type: model.MovementIn, Quantity: 7},
		{Type: model.MovementOut, Quantity: 12},
		{Type: model.MovementIn, Quantity: 3.5},
		{Type: model.MovementOut, Quantity: 6.5},
	}
	for i := range moves {
		if _, err := f.ledger.ApplyMovement(ctx, p.ID, &moves[i], testActor()); err != nil {
			t.Fatalf("movement %d failed: %v", i, err)
		}
	}

	products, _ := f.ledger.Products(ctx)
	got := products[0]
	if got.Quantity != got.TotalReceived-got.TotalIssued {
		t.Fatalf("invariant broken: q=%v tr=%v ti=%v", got.Quantity, got.TotalReceived, got.TotalIssued)
	}
	if got.Quantity != 12 {
		t.Fatalf("expected balance 12, got %v", got.Quantity)
	}
}

func TestLedger_Movement_TargetDepartmentOverride(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)
	p, _ := f.ledger.Register(ctx, registerInput("SKU-1", 10), testActor())

	_, err := f.ledger.ApplyMovement(ctx, p.ID, &MovementInput{
		Type:             model.MovementOut,
		Quantity:         2,
		TargetDepartment: "Boiler",
	}, testActor())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	history, _ := f.ledger.ProductHistory(ctx, p.ID)
	issue := history[len(history)-1]
	if issue.Department != "Boiler" {
		t.Fatalf("expected issue booked to Boiler, got %q", issue.Department)
	}
	// the product itself stays in its home department
	products, _ := f.ledger.Products(ctx)
	if products[0].Department != "Mechanical" {
		t.Fatalf("product department changed: %q", products[0].Department)
	}
}

func TestLedger_Edit_NeverTouchesBalance(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)
	p, _ := f.ledger.Register(ctx, registerInput("SKU-1", 10), testActor())

	name := "Bearing 6204-ZZ"
	price := decimal.NewFromInt(99)
	updated, err := f.ledger.Edit(ctx, p.ID, &EditProductInput{Name: &name, Price: &price}, testActor())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if updated.Name != name || !updated.Price.Equal(price) {
		t.Fatalf("edit not applied: %+v", updated)
	}
	if updated.Quantity != 10 || updated.TotalReceived != 10 || updated.TotalIssued != 0 {
		t.Fatalf("edit touched counters: %+v", updated)
	}
	history, _ := f.ledger.ProductHistory(ctx, p.ID)
	if len(history) != 1 {
		t.Fatalf("edit appended a transaction")
	}
}

func TestLedger_Edit_DuplicateSKU(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)
	f.ledger.Register(ctx, registerInput("SKU-1", 1), testActor())
	other := registerInput("SKU-2", 1)
	p2, _ := f.ledger.Register(ctx, other, testActor())

	sku := "SKU-1"
	if _, err := f.ledger.Edit(ctx, p2.ID, &EditProductInput{SKU: &sku}, testActor()); !errors.Is(err, ErrSKUExists) {
		t.Fatalf("expected ErrSKUExists, got %v", err)
	}
}

func TestLedger_Delete_RemovesHistory(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)
	p, _ := f.ledger.Register(ctx, registerInput("SKU-1", 10), testActor())
	f.ledger.ApplyMovement(ctx, p.ID, &MovementInput{Type: model.MovementOut, Quantity: 3}, testActor())

	if err := f.ledger.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete err: %v", err)
	}

	products, _ := f.ledger.Products(ctx)
	if len(products) != 0 {
		t.Fatalf("product survived delete")
	}
	transactions, _ := f.ledger.Transactions(ctx)
	if len(transactions) != 0 {
		t.Fatalf("orphan transactions left behind: %d", len(transactions))
	}
}

func TestLedger_PurgeAll(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)
	p, _ := f.ledger.Register(ctx, registerInput("SKU-1", 10), testActor())
	f.ledger.ApplyMovement(ctx, p.ID, &MovementInput{Type: model.MovementOut, Quantity: 2}, testActor())

	indents := NewIndentService(repository.NewMemoryIndents(f.store), repository.NewMemoryProducts(f.store), nil)
	if _, err := indents.Create(ctx, &CreateIndentInput{
		ProductID:  p.ID,
		Department: "Mechanical",
		Quantity:   2,
		Priority:   model.PriorityHigh,
	}, testActor()); err != nil {
		t.Fatalf("indent create err: %v", err)
	}

	if err := f.ledger.PurgeAll(ctx); err != nil {
		t.Fatalf("purge err: %v", err)
	}

	products, _ := f.ledger.Products(ctx)
	transactions, _ := f.ledger.Transactions(ctx)
	remaining, _ := indents.Indents(ctx)
	if len(products) != 0 || len(transactions) != 0 || len(remaining) != 0 {
		t.Fatalf("purge left data: p=%d t=%d i=%d", len(products), len(transactions), len(remaining))
	}
}

func TestLedger_RegisterIssueOverIssueScenario(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)

	input := registerInput("BOLT-M6", 100)
	input.Name = "Bolt M6"
	input.Price = decimal.NewFromInt(2)
	p, err := f.ledger.Register(ctx, input, testActor())
	if err != nil {
		t.Fatalf("register err: %v", err)
	}
	if p.Quantity != 100 || p.TotalReceived != 100 || p.TotalIssued != 0 {
		t.Fatalf("after register: %+v", p)
	}

	p, err = f.ledger.ApplyMovement(ctx, p.ID, &MovementInput{
		Type:             model.MovementOut,
		Quantity:         30,
		TargetDepartment: "HR",
	}, testActor())
	if err != nil {
		t.Fatalf("issue err: %v", err)
	}
	if p.Quantity != 70 || p.TotalIssued != 30 {
		t.Fatalf("after issue: q=%v ti=%v", p.Quantity, p.TotalIssued)
	}

	p, err = f.ledger.ApplyMovement(ctx, p.ID, &MovementInput{
		Type:           model.MovementOut,
		Quantity:       1000,
		AllowOverIssue: true,
	}, testActor())
	if err != nil {
		t.Fatalf("over-issue err: %v", err)
	}
	if p.Quantity != 0 || p.TotalIssued != 1030 {
		t.Fatalf("after over-issue: q=%v ti=%v", p.Quantity, p.TotalIssued)
	}

	history, _ := f.ledger.ProductHistory(ctx, p.ID)
	if len(history) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(history))
	}
	if history[1].Department != "HR" || history[1].Quantity != 30 {
		t.Fatalf("issue record wrong: %+v", history[1])
	}
	if history[2].Quantity != 1000 {
		t.Fatalf("over-issue record wrong: %+v", history[2])
	}
}

func TestLedger_Movement_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	f := setupLedger(t)

	_, err := f.ledger.ApplyMovement(ctx, newUUID(t), &MovementInput{Type: model.MovementIn, Quantity: 1}, testActor())
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
