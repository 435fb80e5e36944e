package service

import (
	"context"
	"errors"
	"testing"

	"stockledger/internal/model"
	"stockledger/internal/repository"
)

func setupSettings(t *testing.T) SettingsService {
	t.Helper()
	store := repository.NewMemoryStore()
	settings := repository.NewMemorySettings(store)
	departments := repository.NewMemoryDepartments(store)
	ctx := context.Background()
	if err := settings.SeedDefaults(ctx); err != nil {
		t.Fatalf("seed settings: %v", err)
	}
	if err := departments.SeedDefaults(ctx); err != nil {
		t.Fatalf("seed departments: %v", err)
	}
	return NewSettingsService(settings, departments)
}

func TestSettings_MandatoryFieldCannotBeDisabled(t *testing.T) {
	ctx := context.Background()
	svc := setupSettings(t)

	for _, fieldID := range []string{"name", "quantity", "unit"} {
		err := svc.UpdateFormField(ctx, &UpdateFormFieldRequest{FieldID: fieldID, Enabled: false, Required: true})
		if !errors.Is(err, ErrMandatoryField) {
			t.Fatalf("field %q: expected ErrMandatoryField, got %v", fieldID, err)
		}
	}
}

func TestSettings_ToggleOptionalField(t *testing.T) {
	ctx := context.Background()
	svc := setupSettings(t)

	if err := svc.UpdateFormField(ctx, &UpdateFormFieldRequest{FieldID: "supplier", Enabled: false}); err != nil {
		t.Fatalf("toggle err: %v", err)
	}

	fields, _ := svc.FormFields(ctx)
	for _, f := range fields {
		if f.FieldID == "supplier" && f.Enabled {
			t.Fatalf("supplier still enabled")
		}
	}

	if err := svc.UpdateFormField(ctx, &UpdateFormFieldRequest{FieldID: "no-such-field", Enabled: true}); !errors.Is(err, ErrUnknownFormField) {
		t.Fatalf("expected ErrUnknownFormField, got %v", err)
	}
}

func TestSettings_AppConfig(t *testing.T) {
	ctx := context.Background()
	svc := setupSettings(t)

	cfg, err := svc.AppConfig(ctx)
	if err != nil {
		t.Fatalf("config err: %v", err)
	}
	if cfg.AppName != model.DefaultAppConfig.AppName {
		t.Fatalf("unexpected default name %q", cfg.AppName)
	}

	if _, err := svc.UpdateAppConfig(ctx, "", ""); err == nil {
		t.Fatalf("expected empty app name rejection")
	}

	updated, err := svc.UpdateAppConfig(ctx, "Mill Stores", "/logo.svg")
	if err != nil {
		t.Fatalf("update err: %v", err)
	}
	if updated.AppName != "Mill Stores" || updated.LogoURL != "/logo.svg" {
		t.Fatalf("config not updated: %+v", updated)
	}
}

func TestSettings_Departments(t *testing.T) {
	ctx := context.Background()
	svc := setupSettings(t)

	if _, err := svc.AddDepartment(ctx, model.DepartmentAll); !errors.Is(err, ErrReservedDept) {
		t.Fatalf("expected ErrReservedDept, got %v", err)
	}
	if _, err := svc.AddDepartment(ctx, "Boiler"); !errors.Is(err, ErrDeptExists) {
		t.Fatalf("expected ErrDeptExists, got %v", err)
	}

	dept, err := svc.AddDepartment(ctx, "Utilities")
	if err != nil {
		t.Fatalf("add err: %v", err)
	}
	if dept.Name != "Utilities" {
		t.Fatalf("wrong name %q", dept.Name)
	}

	if err := svc.DeleteDepartment(ctx, "Utilities"); err != nil {
		t.Fatalf("delete err: %v", err)
	}
	if err := svc.DeleteDepartment(ctx, "Utilities"); !errors.Is(err, ErrDeptNotFound) {
		t.Fatalf("expected ErrDeptNotFound, got %v", err)
	}
}
