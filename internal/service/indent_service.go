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
)

var (
	ErrIndentNotFound    = errors.New("indent not found")
	ErrInvalidTransition = errors.New("indent status transition not allowed")
)

type CreateIndentInput struct {
	ProductID  uuid.UUID            `json:"product_id" validate:"uuid_required"`
	Department string               `json:"department" validate:"required"`
	Quantity   float64              `json:"quantity" validate:"required,gt=0"`
	Priority   model.IndentPriority `json:"priority" validate:"required,oneof=low medium high"`
}

// IndentService manages material requisitions. Transitions are
// one-directional and never move stock: fulfilling an indent is a
// bookkeeping action, the operator posts the matching issue separately.
type IndentService interface {
	Create(ctx context.Context, input *CreateIndentInput, actor Actor) (*model.Indent, error)
	UpdateStatus(ctx context.Context, indentID uuid.UUID, status model.IndentStatus, actor Actor) (*model.Indent, error)
	Indents(ctx context.Context) ([]model.Indent, error)
}

type indentService struct {
	indentRepo  repository.IndentRepository
	productRepo repository.ProductRepository
	events      ws.Broadcaster
}

func NewIndentService(indentRepo repository.IndentRepository, productRepo repository.ProductRepository, events ws.Broadcaster) IndentService {
	return &indentService{indentRepo: indentRepo, productRepo: productRepo, events: events}
}

func (s *indentService) publish(event ws.Event) {
	if s.events != nil {
		s.events.Publish(event)
	}
}

func (s *indentService) Create(ctx context.Context, input *CreateIndentInput, actor Actor) (*model.Indent, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if input.Department == model.DepartmentAll {
		return nil, ErrReservedDept
	}

	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	indent := &model.Indent{
		ProductID:   product.ID,
		ProductName: product.Name,
		Department:  input.Department,
		Quantity:    input.Quantity,
		Unit:        product.Unit,
		Priority:    input.Priority,
		Status:      model.IndentPending,
		RequestedBy: actor.Name,
	}
	indent.CreatedBy = actor.ID
	indent.UpdatedBy = actor.ID

	if err := s.indentRepo.Create(ctx, indent); err != nil {
		return nil, err
	}

	s.publish(ws.Event{
		Type:    "indent_update",
		Action:  "indent_created",
		Payload: indent,
		Message: fmt.Sprintf("%s raised an indent for '%s'", actor.Name, product.Name),
	})
	return indent, nil
}

func (s *indentService) UpdateStatus(ctx context.Context, indentID uuid.UUID, status model.IndentStatus, actor Actor) (*model.Indent, error) {
	indent, err := s.indentRepo.FindByID(ctx, indentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIndentNotFound
		}
		return nil, err
	}

	if !model.CanTransition(indent.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, indent.Status, status)
	}

	indent.Status = status
	indent.UpdatedBy = actor.ID
	if err := s.indentRepo.Update(ctx, indent); err != nil {
		return nil, err
	}

	s.publish(ws.Event{
		Type:    "indent_update",
		Action:  "indent_" + string(status),
		Payload: indent,
	})
	return indent, nil
}

func (s *indentService) Indents(ctx context.Context) ([]model.Indent, error) {
	return s.indentRepo.FindAll(ctx)
}
