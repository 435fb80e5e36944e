package service

import (
	"context"
	"errors"
	"fmt"

	"stockledger/internal/model"
	"stockledger/internal/repository"
)

var (
	ErrMandatoryField   = errors.New("field cannot be disabled")
	ErrUnknownFormField = errors.New("unknown form field")
	ErrDeptExists       = errors.New("department already exists")
	ErrDeptNotFound     = errors.New("department not found")
)

type UpdateFormFieldRequest struct {
	FieldID  string `json:"id" validate:"required"`
	Enabled  bool   `json:"is_enabled"`
	Required bool   `json:"is_required"`
}

// SettingsService manages the registration-form configuration, app
// branding and the department list.
type SettingsService interface {
	FormFields(ctx context.Context) ([]model.FormFieldSetting, error)
	UpdateFormField(ctx context.Context, req *UpdateFormFieldRequest) error
	AppConfig(ctx context.Context) (*model.AppConfig, error)
	UpdateAppConfig(ctx context.Context, appName, logoURL string) (*model.AppConfig, error)
	Departments(ctx context.Context) ([]model.Department, error)
	AddDepartment(ctx context.Context, name string) (*model.Department, error)
	DeleteDepartment(ctx context.Context, name string) error
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
	deptRepo     repository.DepartmentRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository, deptRepo repository.DepartmentRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo, deptRepo: deptRepo}
}

func (s *settingsService) FormFields(ctx context.Context) ([]model.FormFieldSetting, error) {
	return s.settingsRepo.FormFields(ctx)
}

func (s *settingsService) UpdateFormField(ctx context.Context, req *UpdateFormFieldRequest) error {
	if model.MandatoryFormFields[req.FieldID] && !req.Enabled {
		return fmt.Errorf("%w: %s", ErrMandatoryField, req.FieldID)
	}

	fields, err := s.settingsRepo.FormFields(ctx)
	if err != nil {
		return err
	}
	known := false
	for _, f := range fields {
		if f.FieldID == req.FieldID {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownFormField, req.FieldID)
	}

	return s.settingsRepo.UpdateFormField(ctx, &model.FormFieldSetting{
		FieldID:  req.FieldID,
		Enabled:  req.Enabled,
		Required: req.Required,
	})
}

func (s *settingsService) AppConfig(ctx context.Context) (*model.AppConfig, error) {
	return s.settingsRepo.AppConfig(ctx)
}

func (s *settingsService) UpdateAppConfig(ctx context.Context, appName, logoURL string) (*model.AppConfig, error) {
	if appName == "" {
		return nil, errors.New("app name is required")
	}
	cfg, err := s.settingsRepo.AppConfig(ctx)
	if err != nil {
		return nil, err
	}
	cfg.AppName = appName
	cfg.LogoURL = logoURL
	if err := s.settingsRepo.UpdateAppConfig(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *settingsService) Departments(ctx context.Context) ([]model.Department, error) {
	return s.deptRepo.FindAll(ctx)
}

func (s *settingsService) AddDepartment(ctx context.Context, name string) (*model.Department, error) {
	if name == "" {
		return nil, errors.New("department name is required")
	}
	if name == model.DepartmentAll {
		return nil, ErrReservedDept
	}

	existing, err := s.deptRepo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDeptExists
	}

	dept := &model.Department{Name: name}
	if err := s.deptRepo.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// DeleteDepartment removes the name from the list only; products and
// users tagged with it keep the value.
func (s *settingsService) DeleteDepartment(ctx context.Context, name string) error {
	if _, err := s.deptRepo.FindByName(ctx, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDeptNotFound
		}
		return err
	}
	return s.deptRepo.Delete(ctx, name)
}
