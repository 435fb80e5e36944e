package repository

import (
	"context"

	"stockledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IndentRepository interface {
	Create(ctx context.Context, indent *model.Indent) error
	FindAll(ctx context.Context) ([]model.Indent, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Indent, error)
	Update(ctx context.Context, indent *model.Indent) error
	DeleteAll(ctx context.Context) error
}

type indentRepo struct {
	db *gorm.DB
}

func NewIndentRepo(db *gorm.DB) IndentRepository {
	return &indentRepo{db}
}

func (r *indentRepo) Create(ctx context.Context, indent *model.Indent) error {
	return dbFrom(ctx, r.db).Create(indent).Error
}

func (r *indentRepo) FindAll(ctx context.Context) ([]model.Indent, error) {
	var indents []model.Indent
	err := dbFrom(ctx, r.db).Order("created_at DESC").Find(&indents).Error
	return indents, err
}

func (r *indentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Indent, error) {
	var indent model.Indent
	if err := dbFrom(ctx, r.db).First(&indent, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &indent, nil
}

func (r *indentRepo) Update(ctx context.Context, indent *model.Indent) error {
	return dbFrom(ctx, r.db).Save(indent).Error
}

func (r *indentRepo) DeleteAll(ctx context.Context) error {
	return dbFrom(ctx, r.db).Where("1 = 1").Delete(&model.Indent{}).Error
}
