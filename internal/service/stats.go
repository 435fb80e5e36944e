package service

import (
	"sort"

	"stockledger/internal/model"

	"github.com/shopspring/decimal"
)

// Stats are derived aggregates over a visible product set. They are
// recomputed from current state on demand and never persisted, so they
// cannot drift from the stores they derive from.
type Stats struct {
	TotalQuantity float64         `json:"total_quantity"`
	LowStockCount int             `json:"low_stock_count"`
	TotalValue    decimal.Decimal `json:"total_value"`
	CategoryCount int             `json:"category_count"`
	TotalReceived float64         `json:"total_received"`
	TotalIssued   float64         `json:"total_issued"`
}

// ComputeStats aggregates the visible product subset. An empty subset
// yields zero values.
func ComputeStats(products []model.Product) Stats {
	stats := Stats{TotalValue: decimal.Zero}
	categories := make(map[string]bool)
	for _, p := range products {
		stats.TotalQuantity += p.Quantity
		stats.TotalReceived += p.TotalReceived
		stats.TotalIssued += p.TotalIssued
		stats.TotalValue = stats.TotalValue.Add(p.Value())
		if p.IsLowStock() {
			stats.LowStockCount++
		}
		if p.Category != "" {
			categories[p.Category] = true
		}
	}
	stats.CategoryCount = len(categories)
	return stats
}

// LowStockList returns products at or below their minimum threshold,
// most depleted first.
func LowStockList(products []model.Product) []model.Product {
	out := make([]model.Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	return out
}
