package repository

import (
	"context"
	"errors"

	"stockledger/internal/model"

	"gorm.io/gorm"
)

type DepartmentRepository interface {
	FindAll(ctx context.Context) ([]model.Department, error)
	FindByName(ctx context.Context, name string) (*model.Department, error)
	Create(ctx context.Context, dept *model.Department) error
	Delete(ctx context.Context, name string) error
	SeedDefaults(ctx context.Context) error
}

type departmentRepo struct {
	db *gorm.DB
}

func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db}
}

func (r *departmentRepo) FindAll(ctx context.Context) ([]model.Department, error) {
	var departments []model.Department
	err := dbFrom(ctx, r.db).Order("id ASC").Find(&departments).Error
	return departments, err
}

func (r *departmentRepo) FindByName(ctx context.Context, name string) (*model.Department, error) {
	var dept model.Department
	if err := dbFrom(ctx, r.db).Where("name = ?", name).First(&dept).Error; err != nil {
		return nil, translateErr(err)
	}
	return &dept, nil
}

func (r *departmentRepo) Create(ctx context.Context, dept *model.Department) error {
	return dbFrom(ctx, r.db).Create(dept).Error
}

// Delete removes the department row only. Products and users tagged with
// the name keep it; membership is by value, not by reference.
func (r *departmentRepo) Delete(ctx context.Context, name string) error {
	return dbFrom(ctx, r.db).Where("name = ?", name).Delete(&model.Department{}).Error
}

func (r *departmentRepo) SeedDefaults(ctx context.Context) error {
	db := dbFrom(ctx, r.db)
	for _, name := range model.DefaultDepartments {
		var existing model.Department
		err := db.Where("name = ?", name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&model.Department{Name: name}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
