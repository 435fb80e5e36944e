package repository

import (
	"context"
	"errors"

	"stockledger/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	FormFields(ctx context.Context) ([]model.FormFieldSetting, error)
	UpdateFormField(ctx context.Context, field *model.FormFieldSetting) error
	AppConfig(ctx context.Context) (*model.AppConfig, error)
	UpdateAppConfig(ctx context.Context, cfg *model.AppConfig) error
	SeedDefaults(ctx context.Context) error
}

type settingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db}
}

func (r *settingsRepo) FormFields(ctx context.Context) ([]model.FormFieldSetting, error) {
	var fields []model.FormFieldSetting
	err := dbFrom(ctx, r.db).Order("position ASC").Find(&fields).Error
	return fields, err
}

func (r *settingsRepo) UpdateFormField(ctx context.Context, field *model.FormFieldSetting) error {
	return dbFrom(ctx, r.db).Model(&model.FormFieldSetting{}).
		Where("field_id = ?", field.FieldID).
		Updates(map[string]interface{}{
			"enabled":  field.Enabled,
			"required": field.Required,
		}).Error
}

func (r *settingsRepo) AppConfig(ctx context.Context) (*model.AppConfig, error) {
	var cfg model.AppConfig
	if err := dbFrom(ctx, r.db).First(&cfg).Error; err != nil {
		return nil, translateErr(err)
	}
	return &cfg, nil
}

func (r *settingsRepo) UpdateAppConfig(ctx context.Context, cfg *model.AppConfig) error {
	return dbFrom(ctx, r.db).Save(cfg).Error
}

func (r *settingsRepo) SeedDefaults(ctx context.Context) error {
	db := dbFrom(ctx, r.db)
	for _, f := range model.DefaultFormFields {
		var existing model.FormFieldSetting
		err := db.Where("field_id = ?", f.FieldID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&f).Error; err != nil {
				return err
			}
		}
	}

	var cfg model.AppConfig
	err := db.First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seed := model.DefaultAppConfig
		return db.Create(&seed).Error
	}
	return err
}
