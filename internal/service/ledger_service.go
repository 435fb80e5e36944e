package service

import (
	"context"
	"errors"
	"fmt"

	"stockledger/internal/model"
	"stockledger/internal/repository"
	"stockledger/internal/ws"
	"stockledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrSKUExists         = errors.New("SKU already exists")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
	ErrInvalidUnit       = errors.New("unknown unit of measure")
	ErrReservedDept      = errors.New("\"All\" is a view scope, not an assignable department")
)

// Actor identifies the user performing a mutation, for audit columns and
// transaction snapshots.
type Actor struct {
	ID   string
	Name string
}

// RegisterProductInput carries the registration form.
type RegisterProductInput struct {
	Name        string          `json:"name" validate:"required"`
	SKU         string          `json:"sku" validate:"required"`
	Category    string          `json:"category"`
	Department  string          `json:"department" validate:"required"`
	Unit        model.Unit      `json:"unit" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Quantity    float64         `json:"quantity" validate:"gte=0"`
	MinStock    float64         `json:"min_stock" validate:"gte=0"`
	Description string          `json:"description"`
	BatchNumber string          `json:"batch_number"`
	Supplier    string          `json:"supplier"`
	Location    string          `json:"location"`
	ExpiryDate  string          `json:"expiry_date"`
}

// MovementInput describes one stock movement.
//
// AllowOverIssue selects the over-issue policy for OUT movements: when
// unset the movement is rejected if quantity exceeds the balance (the
// issue-voucher path); when set the balance clamps at zero while
// TotalIssued and the transaction still record the full requested
// quantity (the quick-issue path). Both surfaces go through here so the
// policy lives in exactly one place.
type MovementInput struct {
	Type             model.MovementType `json:"type" validate:"required,oneof=IN OUT"`
	Quantity         float64            `json:"quantity" validate:"required,gt=0"`
	Reference        string             `json:"reference"`
	Remarks          string             `json:"remarks"`
	TargetDepartment string             `json:"target_department"`
	NewPrice         *decimal.Decimal   `json:"new_price"`
	AllowOverIssue   bool               `json:"allow_over_issue"`
}

// EditProductInput replaces non-key fields. The balance and lifetime
// counters are never editable here; only movements touch them.
type EditProductInput struct {
	Name        *string          `json:"name"`
	SKU         *string          `json:"sku"`
	Category    *string          `json:"category"`
	Department  *string          `json:"department"`
	Unit        *model.Unit      `json:"unit"`
	Price       *decimal.Decimal `json:"price"`
	MinStock    *float64         `json:"min_stock"`
	Description *string          `json:"description"`
	BatchNumber *string          `json:"batch_number"`
	Supplier    *string          `json:"supplier"`
	Location    *string          `json:"location"`
	ExpiryDate  *string          `json:"expiry_date"`
}

// LedgerService is the one component with cross-entity invariants: every
// balance change and its transaction record are applied as a single
// atomic unit, so no reader ever observes one without the other.
type LedgerService interface {
	Register(ctx context.Context, input *RegisterProductInput, actor Actor) (*model.Product, error)
	ApplyMovement(ctx context.Context, productID uuid.UUID, input *MovementInput, actor Actor) (*model.Product, error)
	Edit(ctx context.Context, productID uuid.UUID, input *EditProductInput, actor Actor) (*model.Product, error)
	Delete(ctx context.Context, productID uuid.UUID) error
	PurgeAll(ctx context.Context) error
	Products(ctx context.Context) ([]model.Product, error)
	Transactions(ctx context.Context) ([]model.Transaction, error)
	ProductHistory(ctx context.Context, productID uuid.UUID) ([]model.Transaction, error)
}

type ledgerService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	indentRepo  repository.IndentRepository
	txManager   repository.TxManager
	events      ws.Broadcaster
}

func NewLedgerService(
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
	indentRepo repository.IndentRepository,
	txManager repository.TxManager,
	events ws.Broadcaster,
) LedgerService {
	return &ledgerService{
		productRepo: productRepo,
		txRepo:      txRepo,
		indentRepo:  indentRepo,
		txManager:   txManager,
		events:      events,
	}
}

func validationError(errs []*validator.ErrorResponse) error {
	first := errs[0]
	return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
}

func (s *ledgerService) publish(event ws.Event) {
	if s.events != nil {
		s.events.Publish(event)
	}
}

// Register inserts a product. A positive initial quantity is an implicit
// receipt: it seeds TotalReceived and appends one synthetic IN
// transaction referenced "Opening Stock".
func (s *ledgerService) Register(ctx context.Context, input *RegisterProductInput, actor Actor) (*model.Product, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if !model.ValidUnit(input.Unit) {
		return nil, ErrInvalidUnit
	}
	if input.Department == model.DepartmentAll {
		return nil, ErrReservedDept
	}
	if input.Price.IsNegative() {
		return nil, errors.New("price must not be negative")
	}

	existing, err := s.productRepo.FindBySKU(ctx, input.SKU)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSKUExists
	}

	product := &model.Product{
		SKU:           input.SKU,
		Name:          input.Name,
		Category:      input.Category,
		Department:    input.Department,
		Unit:          input.Unit,
		Price:         input.Price,
		Quantity:      input.Quantity,
		TotalReceived: input.Quantity,
		TotalIssued:   0,
		MinStock:      input.MinStock,
		Description:   input.Description,
		BatchNumber:   input.BatchNumber,
		Supplier:      input.Supplier,
		Location:      input.Location,
		ExpiryDate:    input.ExpiryDate,
	}
	product.CreatedBy = actor.ID
	product.UpdatedBy = actor.ID

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.productRepo.Create(ctx, product); err != nil {
			return err
		}
		if input.Quantity > 0 {
			opening := &model.Transaction{
				ProductID:   product.ID,
				ProductName: product.Name,
				Type:        model.MovementIn,
				Quantity:    input.Quantity,
				Department:  product.Department,
				UserName:    actor.Name,
				Reference:   "Opening Stock",
				Remarks:     "Initial Entry",
				PriceAtTime: product.Price,
			}
			opening.CreatedBy = actor.ID
			opening.UpdatedBy = actor.ID
			if err := s.txRepo.Create(ctx, opening); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ws.Event{
		Type:    "stock_update",
		Action:  "product_registered",
		Payload: product,
		Message: fmt.Sprintf("%s registered '%s'", actor.Name, product.Name),
	})
	return product, nil
}

// ApplyMovement posts an IN or OUT movement against a product. The
// product counters and the appended transaction commit together.
func (s *ledgerService) ApplyMovement(ctx context.Context, productID uuid.UUID, input *MovementInput, actor Actor) (*model.Product, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, validationError(errs)
	}

	var updated *model.Product
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		department := product.Department
		switch input.Type {
		case model.MovementIn:
			product.Quantity += input.Quantity
			product.TotalReceived += input.Quantity
			if input.NewPrice != nil && input.NewPrice.IsPositive() {
				product.Price = *input.NewPrice
			}
		case model.MovementOut:
			if input.Quantity > product.Quantity && !input.AllowOverIssue {
				return ErrInsufficientStock
			}
			product.Quantity -= input.Quantity
			if product.Quantity < 0 {
				product.Quantity = 0
			}
			// Lifetime counter and the record keep the requested
			// quantity even when the balance clamped.
			product.TotalIssued += input.Quantity
			if input.TargetDepartment != "" {
				department = input.TargetDepartment
			}
		}
		product.UpdatedBy = actor.ID

		record := &model.Transaction{
			ProductID:   product.ID,
			ProductName: product.Name,
			Type:        input.Type,
			Quantity:    input.Quantity,
			Department:  department,
			UserName:    actor.Name,
			Reference:   input.Reference,
			Remarks:     input.Remarks,
			PriceAtTime: product.Price,
		}
		record.CreatedBy = actor.ID
		record.UpdatedBy = actor.ID

		if err := s.productRepo.Update(ctx, product); err != nil {
			return err
		}
		if err := s.txRepo.Create(ctx, record); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ws.Event{
		Type:    "stock_update",
		Action:  "movement_applied",
		Payload: updated,
		Message: fmt.Sprintf("%s posted %s of %.2f on '%s'", actor.Name, input.Type, input.Quantity, updated.Name),
	})
	return updated, nil
}

// Edit replaces non-key fields without touching the balance, the counters
// or the transaction log.
func (s *ledgerService) Edit(ctx context.Context, productID uuid.UUID, input *EditProductInput, actor Actor) (*model.Product, error) {
	if input.Unit != nil && !model.ValidUnit(*input.Unit) {
		return nil, ErrInvalidUnit
	}
	if input.Department != nil && *input.Department == model.DepartmentAll {
		return nil, ErrReservedDept
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, errors.New("price must not be negative")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if input.SKU != nil && *input.SKU != product.SKU {
		existing, err := s.productRepo.FindBySKU(ctx, *input.SKU)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrSKUExists
		}
		product.SKU = *input.SKU
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Department != nil {
		product.Department = *input.Department
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.MinStock != nil {
		product.MinStock = *input.MinStock
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.BatchNumber != nil {
		product.BatchNumber = *input.BatchNumber
	}
	if input.Supplier != nil {
		product.Supplier = *input.Supplier
	}
	if input.Location != nil {
		product.Location = *input.Location
	}
	if input.ExpiryDate != nil {
		product.ExpiryDate = *input.ExpiryDate
	}
	product.UpdatedBy = actor.ID

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ws.Event{
		Type:    "stock_update",
		Action:  "product_updated",
		Payload: product,
		Message: fmt.Sprintf("%s updated '%s'", actor.Name, product.Name),
	})
	return product, nil
}

// Delete removes the product and every transaction referencing it in one
// atomic unit. Irreversible.
func (s *ledgerService) Delete(ctx context.Context, productID uuid.UUID) error {
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if err := s.txRepo.DeleteByProduct(ctx, productID); err != nil {
			return err
		}
		return s.productRepo.Delete(ctx, productID)
	})
	if err != nil {
		return err
	}

	s.publish(ws.Event{
		Type:   "stock_update",
		Action: "product_deleted",
	})
	return nil
}

// PurgeAll clears products, transactions and indents together.
// Irreversible; the handler gates it behind PURGE_DATA and an explicit
// confirmation flag.
func (s *ledgerService) PurgeAll(ctx context.Context) error {
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.txRepo.DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.indentRepo.DeleteAll(ctx); err != nil {
			return err
		}
		return s.productRepo.DeleteAll(ctx)
	})
	if err != nil {
		return err
	}

	s.publish(ws.Event{
		Type:   "stock_update",
		Action: "data_purged",
	})
	return nil
}

func (s *ledgerService) Products(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *ledgerService) Transactions(ctx context.Context) ([]model.Transaction, error) {
	return s.txRepo.FindAll(ctx)
}

func (s *ledgerService) ProductHistory(ctx context.Context, productID uuid.UUID) ([]model.Transaction, error) {
	return s.txRepo.FindByProduct(ctx, productID)
}
