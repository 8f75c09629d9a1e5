package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxSale   TransactionType = "sale"
	TxAdd    TransactionType = "add"
	TxRemove TransactionType = "remove"
)

// Valid reports whether t is one of the ledger types.
func (t TransactionType) Valid() bool {
	switch t {
	case TxSale, TxAdd, TxRemove:
		return true
	}
	return false
}

// IsAdjustment is true for manual stock corrections.
func (t TransactionType) IsAdjustment() bool {
	return t == TxAdd || t == TxRemove
}

// Label is the human-readable name used in stock history.
func (t TransactionType) Label() string {
	switch t {
	case TxSale:
		return "Sale"
	case TxAdd:
		return "Add Stock"
	case TxRemove:
		return "Deduct Stock"
	}
	return string(t)
}

// Transaction is one append-only ledger row. ProductID is a plain reference:
// the product may have been deleted since.
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `gorm:"not null;index" json:"productId"`
	Type      TransactionType `gorm:"type:varchar(10);not null" json:"type"`
	Quantity  int             `gorm:"not null" json:"quantity"`

	// Sale only. UnitPrice is the product price at the time of sale.
	UnitPrice   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"unitPrice,omitempty"`
	TotalAmount *decimal.Decimal `gorm:"type:decimal(12,2)" json:"totalAmount,omitempty"`
	Reference   *uuid.UUID       `gorm:"type:uuid;index" json:"reference,omitempty"`

	Date time.Time `gorm:"not null;index" json:"date"`
}

// NewSale snapshots the product price into a sale row.
func NewSale(p *Product, quantity int, reference uuid.UUID, at time.Time) Transaction {
	unitPrice := p.Price
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return Transaction{
		ProductID:   p.ID,
		Type:        TxSale,
		Quantity:    quantity,
		UnitPrice:   &unitPrice,
		TotalAmount: &total,
		Reference:   &reference,
		Date:        at,
	}
}

// NewAdjustment records a manual add/remove of the requested amount.
func NewAdjustment(productID uint, typ TransactionType, quantity int, at time.Time) Transaction {
	return Transaction{
		ProductID: productID,
		Type:      typ,
		Quantity:  quantity,
		Date:      at,
	}
}
