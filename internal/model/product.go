package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultLowStockThreshold applies when a product is saved without a threshold.
const DefaultLowStockThreshold = 5

// PricePlaces is the scale of the price column; prices are rounded to it
// before they are stored.
const PricePlaces = 2

type Product struct {
	BaseModel
	Name              string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description       string          `gorm:"type:text" json:"description"`
	Category          string          `gorm:"type:varchar(100);index" json:"category" validate:"required"`
	Price             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price" validate:"gte=0"`
	Quantity          int             `gorm:"not null;default:0" json:"quantity" validate:"gte=0"`
	LowStockThreshold int             `gorm:"not null;default:5" json:"lowStockThreshold" validate:"gte=1"`

	// Derived from Quantity and LowStockThreshold, never stored.
	LowStockAlert bool `gorm:"-" json:"lowStockAlert"`
}

// IsLowStock reports whether stock on hand is at or below the alert threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

// RefreshStockAlert recomputes LowStockAlert from the current quantity.
func (p *Product) RefreshStockAlert() {
	p.LowStockAlert = p.IsLowStock()
}

// StockValue is quantity * price.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// AfterFind keeps the alert flag consistent on every read path.
func (p *Product) AfterFind(tx *gorm.DB) error {
	p.RefreshStockAlert()
	return nil
}

// AfterSave covers Create and Save.
func (p *Product) AfterSave(tx *gorm.DB) error {
	p.RefreshStockAlert()
	return nil
}

// DefaultProducts is the demo catalogue used by SeedDefaults.
var DefaultProducts = []Product{
	{Name: "Coffee", Description: "Freshly brewed filter coffee", Category: "Beverages", Price: decimal.RequireFromString("15.00"), Quantity: 50, LowStockThreshold: 10},
	{Name: "Sandwich", Description: "Chicken and mayo sandwich", Category: "Food", Price: decimal.RequireFromString("35.00"), Quantity: 20, LowStockThreshold: 5},
	{Name: "Nik Naks", Description: "Cheese flavoured maize snack", Category: "Snacks", Price: decimal.RequireFromString("8.50"), Quantity: 100, LowStockThreshold: 15},
	{Name: "Toast", Description: "Buttered toast, two slices", Category: "Food", Price: decimal.RequireFromString("12.00"), Quantity: 4, LowStockThreshold: 5},
}
