package repository

import (
	"context"
	"errors"

	"stockledger/internal/model"

	"gorm.io/gorm"
)

type PermissionRepository interface {
	FindAll(ctx context.Context) ([]model.Permission, error)
	FindByCodes(ctx context.Context, codes []string) ([]model.Permission, error)
	SeedDefaults(ctx context.Context) error
}

type permissionRepo struct {
	db *gorm.DB
}

func NewPermissionRepo(db *gorm.DB) PermissionRepository {
	return &permissionRepo{db}
}

func (r *permissionRepo) FindAll(ctx context.Context) ([]model.Permission, error) {
	var permissions []model.Permission
	err := dbFrom(ctx, r.db).Order("id ASC").Find(&permissions).Error
	return permissions, err
}

func (r *permissionRepo) FindByCodes(ctx context.Context, codes []string) ([]model.Permission, error) {
	var permissions []model.Permission
	err := dbFrom(ctx, r.db).Where("code IN ?", codes).Find(&permissions).Error
	return permissions, err
}

// SeedDefaults creates the capability catalog rows that don't exist yet
func (r *permissionRepo) SeedDefaults(ctx context.Context) error {
	db := dbFrom(ctx, r.db)
	for _, p := range model.DefaultPermissions {
		var existing model.Permission
		err := db.Where("code = ?", p.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&p).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
