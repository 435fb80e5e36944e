package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// Transaction is an immutable record of one stock movement. It is created
// only as a byproduct of a ledger mutation, never updated, and deleted
// only when its product is deleted or the data is purged.
type Transaction struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	// Name snapshot so history survives renames and deletions elsewhere
	ProductName string       `gorm:"type:varchar(255);not null" json:"product_name"`
	Type        MovementType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`
	Quantity    float64      `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	// Department context: the product's department unless an OUT movement
	// targeted another one
	Department string `gorm:"type:varchar(100);not null;index" json:"department"`
	// Acting user's display name
	UserName  string `gorm:"type:varchar(255)" json:"user"`
	Reference string `gorm:"type:varchar(255)" json:"reference,omitempty"`
	Remarks   string `gorm:"type:text" json:"remarks,omitempty"`
	// Unit price at the moment of the movement, decoupled from the
	// product's live price
	PriceAtTime decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"price_at_time"`
}
