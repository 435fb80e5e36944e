package service

import (
	"testing"

	"stockledger/internal/model"

	"github.com/shopspring/decimal"
)

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.TotalQuantity != 0 || stats.LowStockCount != 0 || stats.CategoryCount != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
	if !stats.TotalValue.Equal(decimal.Zero) {
		t.Fatalf("expected zero value, got %s", stats.TotalValue)
	}
}

func TestComputeStats_Aggregates(t *testing.T) {
	products := []model.Product{
		{Quantity: 10, TotalReceived: 15, TotalIssued: 5, MinStock: 3, Category: "Spares", Price: decimal.NewFromInt(100)},
		{Quantity: 2, TotalReceived: 8, TotalIssued: 6, MinStock: 5, Category: "Spares", Price: decimal.NewFromInt(50)},
		{Quantity: 0, TotalReceived: 4, TotalIssued: 4, MinStock: 1, Category: "Consumables", Price: decimal.NewFromInt(10)},
	}

	stats := ComputeStats(products)
	if stats.TotalQuantity != 12 {
		t.Fatalf("expected quantity 12, got %v", stats.TotalQuantity)
	}
	if stats.TotalReceived != 27 || stats.TotalIssued != 15 {
		t.Fatalf("lifetime totals wrong: %+v", stats)
	}
	// two at-or-below threshold: 2<=5 and 0<=1
	if stats.LowStockCount != 2 {
		t.Fatalf("expected 2 low stock, got %d", stats.LowStockCount)
	}
	if stats.CategoryCount != 2 {
		t.Fatalf("expected 2 categories, got %d", stats.CategoryCount)
	}
	// 10*100 + 2*50 + 0*10
	if !stats.TotalValue.Equal(decimal.NewFromInt(1100)) {
		t.Fatalf("expected value 1100, got %s", stats.TotalValue)
	}
}

func TestLowStockList_SortedMostDepletedFirst(t *testing.T) {
	products := []model.Product{
		{SKU: "A", Quantity: 4, MinStock: 5},
		{SKU: "B", Quantity: 9, MinStock: 3},
		{SKU: "C", Quantity: 0, MinStock: 2},
		{SKU: "D", Quantity: 2, MinStock: 2},
	}

	low := LowStockList(products)
	if len(low) != 3 {
		t.Fatalf("expected 3 low items, got %d", len(low))
	}
	if low[0].SKU != "C" || low[1].SKU != "D" || low[2].SKU != "A" {
		t.Fatalf("wrong order: %s %s %s", low[0].SKU, low[1].SKU, low[2].SKU)
	}
}
