package service

import (
	"context"
	"errors"

	"stockledger/internal/model"
	"stockledger/internal/repository"
	"stockledger/pkg/validator"

	"github.com/google/uuid"
)

var ErrUsernameExists = errors.New("username already exists")

type CreateUserRequest struct {
	Username   string     `json:"username" validate:"required,min=3"`
	Password   string     `json:"password" validate:"required,min=6"`
	Name       string     `json:"name" validate:"required"`
	Department string     `json:"department" validate:"required"`
	Role       model.Role `json:"role" validate:"required,oneof=admin user"`
	// Ignored for admins, who always hold the full catalog
	Permissions []string `json:"permissions"`
}

type UpdateUserRequest struct {
	Name       string     `json:"name" validate:"required"`
	Department string     `json:"department" validate:"required"`
	Role       model.Role `json:"role" validate:"required,oneof=admin user"`
	Password   *string    `json:"password,omitempty" validate:"omitempty,min=6"`
	IsActive   *bool      `json:"is_active"`
}

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest, creatorID string) (*model.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	UpdateUserPermissions(ctx context.Context, userID uuid.UUID, codes []string, updaterID string) (*model.User, error)
	ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	SeedAdmin(ctx context.Context, password string) error
}

type userService struct {
	userRepo       repository.UserRepository
	permissionRepo repository.PermissionRepository
}

func NewUserService(userRepo repository.UserRepository, permissionRepo repository.PermissionRepository) UserService {
	return &userService{userRepo: userRepo, permissionRepo: permissionRepo}
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest, creatorID string) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if req.Department == model.DepartmentAll {
		return nil, ErrReservedDept
	}

	existing, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	codes := req.Permissions
	if req.Role == model.RoleAdmin {
		codes = model.AdminPermissionCodes()
	}
	permissions, err := s.permissionRepo.FindByCodes(ctx, codes)
	if err != nil {
		return nil, errors.New("failed to resolve permissions")
	}

	user := &model.User{
		Username:    req.Username,
		Name:        req.Name,
		Department:  req.Department,
		Role:        req.Role,
		IsActive:    true,
		Permissions: permissions,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if req.Department == model.DepartmentAll {
		return nil, ErrReservedDept
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user.Name = req.Name
	user.Department = req.Department
	user.Role = req.Role
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updaterID

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if user.Role == model.RoleAdmin {
		permissions, err := s.permissionRepo.FindByCodes(ctx, model.AdminPermissionCodes())
		if err != nil {
			return nil, errors.New("failed to resolve permissions")
		}
		user.Permissions = permissions
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, userID)
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.Delete(ctx, userID)
}

func (s *userService) UpdateUserPermissions(ctx context.Context, userID uuid.UUID, codes []string, updaterID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// Admin grants are fixed to the full catalog
	if user.Role == model.RoleAdmin {
		codes = model.AdminPermissionCodes()
	}

	permissions, err := s.permissionRepo.FindByCodes(ctx, codes)
	if err != nil {
		return nil, errors.New("failed to resolve permissions")
	}

	if err := s.userRepo.UpdatePermissions(ctx, userID, permissions); err != nil {
		return nil, err
	}

	user.Permissions = permissions
	user.UpdatedBy = updaterID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, userID)
}

func (s *userService) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}
	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash password")
	}
	return s.userRepo.UpdatePassword(ctx, userID, user.Password)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	response := user.ToResponse()
	return &response, nil
}

// SeedAdmin creates the built-in administrator when no accounts exist.
// The admin holds every capability by construction.
func (s *userService) SeedAdmin(ctx context.Context, password string) error {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	permissions, err := s.permissionRepo.FindByCodes(ctx, model.AdminPermissionCodes())
	if err != nil {
		return err
	}

	admin := &model.User{
		Username:    "admin",
		Name:        "System Admin",
		Department:  "Admin",
		Role:        model.RoleAdmin,
		IsActive:    true,
		Permissions: permissions,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	return s.userRepo.Create(ctx, admin)
}
