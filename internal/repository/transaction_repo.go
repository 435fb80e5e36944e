package repository

import (
	"context"
	"time"

	"stockledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementPoint is one day of aggregated inbound/outbound quantity,
// used by the dashboard chart.
type StockMovementPoint struct {
	Date     string  `json:"date"`
	Inbound  float64 `json:"inbound"`
	Outbound float64 `json:"outbound"`
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	FindAll(ctx context.Context) ([]model.Transaction, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Transaction, error)
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
	DeleteAll(ctx context.Context) error
	StockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementPoint, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	return dbFrom(ctx, r.db).Create(tx).Error
}

func (r *transactionRepo) FindAll(ctx context.Context) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := dbFrom(ctx, r.db).Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := dbFrom(ctx, r.db).Where("product_id = ?", productID).Order("created_at ASC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return dbFrom(ctx, r.db).Where("product_id = ?", productID).Delete(&model.Transaction{}).Error
}

func (r *transactionRepo) DeleteAll(ctx context.Context) error {
	return dbFrom(ctx, r.db).Where("1 = 1").Delete(&model.Transaction{}).Error
}

func (r *transactionRepo) StockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementPoint, error) {
	var results []StockMovementPoint

	rows, err := dbFrom(ctx, r.db).Model(&model.Transaction{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var point StockMovementPoint
		if err := rows.Scan(&point.Date, &point.Inbound, &point.Outbound); err != nil {
			return nil, err
		}
		results = append(results, point)
	}
	return results, rows.Err()
}
