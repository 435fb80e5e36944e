package model

import (
	"github.com/shopspring/decimal"
)

// Unit is the unit of measure for a stocked material.
type Unit string

const (
	UnitPieces Unit = "Pieces"
	UnitKG     Unit = "KG"
	UnitGram   Unit = "Gram"
	UnitPacket Unit = "Packet"
	UnitMeter  Unit = "Meter"
	UnitLitre  Unit = "Litre"
	UnitSet    Unit = "Set"
	UnitRoll   Unit = "Roll"
)

var Units = []Unit{UnitPieces, UnitKG, UnitGram, UnitPacket, UnitMeter, UnitLitre, UnitSet, UnitRoll}

// ValidUnit reports whether u is one of the known units of measure.
func ValidUnit(u Unit) bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

// Product is a stocked material. Quantity is the current available
// balance; TotalReceived and TotalIssued are lifetime counters maintained
// exclusively by the ledger service, so that
// quantity == totalReceived - totalIssued after every movement
// (an over-issue clamp pins quantity at zero, see ledger service).
type Product struct {
	BaseModel
	SKU        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name       string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category   string          `gorm:"type:varchar(100)" json:"category"`
	Department string          `gorm:"type:varchar(100);not null;index" json:"department" validate:"required"`
	Unit       Unit            `gorm:"type:varchar(20);not null" json:"unit" validate:"required"`
	Price      decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"price"`

	Quantity      float64 `gorm:"default:0" json:"quantity"`
	TotalReceived float64 `gorm:"default:0" json:"total_received"`
	TotalIssued   float64 `gorm:"default:0" json:"total_issued"`
	MinStock      float64 `gorm:"default:0" json:"min_stock"`

	Description string `gorm:"type:text" json:"description"`

	// Optional registration-form fields
	BatchNumber string `gorm:"type:varchar(100)" json:"batch_number,omitempty"`
	Supplier    string `gorm:"type:varchar(255)" json:"supplier,omitempty"`
	Location    string `gorm:"type:varchar(255)" json:"location,omitempty"`
	ExpiryDate  string `gorm:"type:varchar(20)" json:"expiry_date,omitempty"`
}

// IsLowStock reports whether the balance has fallen to or below the
// minimum-stock threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}

// Value is the balance valuation, price * quantity.
func (p *Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromFloat(p.Quantity))
}
