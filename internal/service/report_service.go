package service

import (
	"context"
	"sort"
	"time"

	"stockledger/internal/model"
	"stockledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostSummary totals movement values (quantity x price-at-time) over a
// transaction subset.
type CostSummary struct {
	TotalInValue  decimal.Decimal `json:"total_in_value"`
	TotalOutValue decimal.Decimal `json:"total_out_value"`
}

// ItemConsumption ranks a product by issued value.
type ItemConsumption struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  float64         `json:"quantity"`
	Value     decimal.Decimal `json:"value"`
}

// CategoryCost is the issued value attributed to one category.
type CategoryCost struct {
	Category string          `json:"category"`
	Value    decimal.Decimal `json:"value"`
}

// CostAnalysis is the department-scoped cost breakdown.
type CostAnalysis struct {
	Summary        CostSummary       `json:"summary"`
	TopConsumption []ItemConsumption `json:"top_consumption"`
	CategoryCosts  []CategoryCost    `json:"category_costs"`
}

// ReportService serves the dashboard chart and cost analysis views.
type ReportService interface {
	StockMovement(ctx context.Context, days int) ([]repository.StockMovementPoint, error)
	CostAnalysis(ctx context.Context, effectiveDept string) (*CostAnalysis, error)
}

type reportService struct {
	txRepo      repository.TransactionRepository
	productRepo repository.ProductRepository
}

func NewReportService(txRepo repository.TransactionRepository, productRepo repository.ProductRepository) ReportService {
	return &reportService{txRepo: txRepo, productRepo: productRepo}
}

func (s *reportService) StockMovement(ctx context.Context, days int) ([]repository.StockMovementPoint, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	return s.txRepo.StockMovement(ctx, startDate, endDate)
}

func (s *reportService) CostAnalysis(ctx context.Context, effectiveDept string) (*CostAnalysis, error) {
	transactions, err := s.txRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	scoped := FilterTransactions(transactions, effectiveDept)

	categoryByProduct := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		categoryByProduct[p.ID] = p.Category
	}

	analysis := &CostAnalysis{
		Summary: CostSummary{TotalInValue: decimal.Zero, TotalOutValue: decimal.Zero},
	}

	consumption := make(map[uuid.UUID]*ItemConsumption)
	categoryTotals := make(map[string]decimal.Decimal)

	for _, tx := range scoped {
		value := tx.PriceAtTime.Mul(decimal.NewFromFloat(tx.Quantity))
		switch tx.Type {
		case model.MovementIn:
			analysis.Summary.TotalInValue = analysis.Summary.TotalInValue.Add(value)
		case model.MovementOut:
			analysis.Summary.TotalOutValue = analysis.Summary.TotalOutValue.Add(value)

			item, ok := consumption[tx.ProductID]
			if !ok {
				item = &ItemConsumption{ProductID: tx.ProductID, Name: tx.ProductName, Value: decimal.Zero}
				consumption[tx.ProductID] = item
			}
			item.Quantity += tx.Quantity
			item.Value = item.Value.Add(value)

			category := categoryByProduct[tx.ProductID]
			if category == "" {
				category = "Uncategorized"
			}
			total, ok := categoryTotals[category]
			if !ok {
				total = decimal.Zero
			}
			categoryTotals[category] = total.Add(value)
		}
	}

	for _, item := range consumption {
		analysis.TopConsumption = append(analysis.TopConsumption, *item)
	}
	sort.Slice(analysis.TopConsumption, func(i, j int) bool {
		return analysis.TopConsumption[i].Value.GreaterThan(analysis.TopConsumption[j].Value)
	})

	for category, value := range categoryTotals {
		analysis.CategoryCosts = append(analysis.CategoryCosts, CategoryCost{Category: category, Value: value})
	}
	sort.Slice(analysis.CategoryCosts, func(i, j int) bool {
		return analysis.CategoryCosts[i].Value.GreaterThan(analysis.CategoryCosts[j].Value)
	})

	return analysis, nil
}
