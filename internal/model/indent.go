package model

import "github.com/google/uuid"

type IndentStatus string

const (
	IndentPending   IndentStatus = "pending"
	IndentApproved  IndentStatus = "approved"
	IndentFulfilled IndentStatus = "fulfilled"
	IndentCancelled IndentStatus = "cancelled"
)

type IndentPriority string

const (
	PriorityLow    IndentPriority = "low"
	PriorityMedium IndentPriority = "medium"
	PriorityHigh   IndentPriority = "high"
)

// Indent is a material requisition. Status is a one-directional state
// machine: pending -> approved -> fulfilled, or pending -> cancelled.
// Fulfilling an indent is deliberately decoupled from stock movement;
// the ledger is never touched by a status transition.
type Indent struct {
	BaseModel
	ProductID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	ProductName string         `gorm:"type:varchar(255);not null" json:"product_name"`
	Department  string         `gorm:"type:varchar(100);not null;index" json:"department" validate:"required"`
	Quantity    float64        `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Unit        Unit           `gorm:"type:varchar(20);not null" json:"unit"`
	Priority    IndentPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority" validate:"required,oneof=low medium high"`
	Status      IndentStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	RequestedBy string         `gorm:"type:varchar(255);not null" json:"requested_by"`
}

// CanTransition reports whether moving an indent from one status to
// another is allowed. No transition leaves fulfilled or cancelled.
func CanTransition(from, to IndentStatus) bool {
	switch from {
	case IndentPending:
		return to == IndentApproved || to == IndentCancelled
	case IndentApproved:
		return to == IndentFulfilled
	default:
		return false
	}
}
