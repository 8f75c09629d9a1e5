package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNothingToSell is returned when a sale has no line with a positive quantity.
var ErrNothingToSell = &ValidationError{Field: "items", Message: "Please enter quantity for at least one product."}

type SaleLine struct {
	Product     model.Product     `json:"product"`
	Transaction model.Transaction `json:"transaction"`
}

// SaleReceipt describes one committed Sell call.
type SaleReceipt struct {
	Reference uuid.UUID       `json:"reference"`
	Date      time.Time       `json:"date"`
	Lines     []SaleLine      `json:"lines"`
	Units     int             `json:"units"`
	Total     decimal.Decimal `json:"total"`
}

type StockAdjustment struct {
	Product     model.Product     `json:"product"`
	Transaction model.Transaction `json:"transaction"`
	// Applied is the actual change in stock; it differs from the requested
	// quantity when a removal is clamped at zero.
	Applied int `json:"applied"`
}

// TransactionInput is a single ledger append requested over the API.
type TransactionInput struct {
	ProductID uint                  `json:"productId"`
	Type      model.TransactionType `json:"type"`
	Quantity  int                   `json:"quantity"`
}

type saleItem struct {
	productID uint
	quantity  int
}

// Sell decrements every listed product and appends one sale row per product.
// The whole batch is one store transaction: if any line is oversold or
// missing, nothing is written.
func (s *inventoryService) Sell(ctx context.Context, items map[uint]int) (*SaleReceipt, error) {
	lines := make([]saleItem, 0, len(items))
	for id, qty := range items {
		if qty > 0 {
			lines = append(lines, saleItem{productID: id, quantity: qty})
		}
	}
	if len(lines) == 0 {
		return nil, ErrNothingToSell
	}
	// lock in id order
	sort.Slice(lines, func(i, j int) bool { return lines[i].productID < lines[j].productID })

	receipt := &SaleReceipt{Reference: uuid.New(), Date: s.now()}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := make([]*model.Product, len(lines))
		for i, line := range lines {
			p, err := s.productRepo.FindForUpdate(tx, line.productID)
			if err != nil {
				return err
			}
			if line.quantity > p.Quantity {
				return &ValidationError{
					Field:     "items",
					ProductID: p.ID,
					Message:   fmt.Sprintf("Only %d units of %s are available.", p.Quantity, p.Name),
				}
			}
			products[i] = p
		}

		receipt.Lines = make([]SaleLine, 0, len(lines))
		for i, line := range lines {
			p := products[i]
			p.Quantity -= line.quantity
			if err := s.productRepo.UpdateQuantity(tx, p.ID, p.Quantity); err != nil {
				return err
			}
			entry := model.NewSale(p, line.quantity, receipt.Reference, receipt.Date)
			if err := s.transactionRepo.Create(tx, &entry); err != nil {
				return err
			}
			p.RefreshStockAlert()

			receipt.Lines = append(receipt.Lines, SaleLine{Product: *p, Transaction: entry})
			receipt.Units += line.quantity
			receipt.Total = receipt.Total.Add(*entry.TotalAmount)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("sell", err)
	}

	s.metrics.ObserveSale(receipt.Units, receipt.Total)
	s.log.WithFields(logrus.Fields{
		"reference": receipt.Reference,
		"lines":     len(receipt.Lines),
		"units":     receipt.Units,
		"total":     receipt.Total.StringFixed(2),
	}).Info("sale recorded")
	s.publish(ws.Event{
		Type:    ws.EventStockUpdate,
		Action:  "sale_recorded",
		Message: fmt.Sprintf("Sold %d units across %d products", receipt.Units, len(receipt.Lines)),
		Data:    receipt,
	})
	return receipt, nil
}

// AdjustStock adds to or removes from stock. Removal is floored at zero
// rather than rejected; the ledger row records the requested amount.
func (s *inventoryService) AdjustStock(ctx context.Context, id uint, direction model.TransactionType, amount int) (*StockAdjustment, error) {
	if !direction.IsAdjustment() {
		return nil, &ValidationError{Field: "type", Message: fmt.Sprintf("must be %q or %q", model.TxAdd, model.TxRemove)}
	}
	if amount <= 0 {
		return nil, &ValidationError{Field: "quantity", ProductID: id, Message: "Please enter a valid quantity."}
	}

	var result StockAdjustment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.productRepo.FindForUpdate(tx, id)
		if err != nil {
			return err
		}

		before := p.Quantity
		if direction == model.TxAdd {
			if amount > math.MaxInt-p.Quantity {
				return &ValidationError{
					Field:     "quantity",
					ProductID: p.ID,
					Message:   fmt.Sprintf("Cannot add %d units to %s: stock would exceed the maximum.", amount, p.Name),
				}
			}
			p.Quantity += amount
		} else {
			p.Quantity = max(0, p.Quantity-amount)
		}
		if err := s.productRepo.UpdateQuantity(tx, p.ID, p.Quantity); err != nil {
			return err
		}

		entry := model.NewAdjustment(p.ID, direction, amount, s.now())
		if err := s.transactionRepo.Create(tx, &entry); err != nil {
			return err
		}
		p.RefreshStockAlert()

		result = StockAdjustment{Product: *p, Transaction: entry, Applied: p.Quantity - before}
		return nil
	})
	if err != nil {
		return nil, storeErr("adjust stock", err)
	}

	s.metrics.ObserveAdjustment(string(direction), amount)
	fields := logrus.Fields{"product_id": id, "type": direction, "requested": amount, "applied": result.Applied}
	if direction == model.TxRemove && -result.Applied < amount {
		s.log.WithFields(fields).Warn("stock removal clamped at zero")
	} else {
		s.log.WithFields(fields).Info("stock adjusted")
	}
	s.publish(ws.Event{
		Type:    ws.EventStockUpdate,
		Action:  "stock_adjusted",
		Message: fmt.Sprintf("%s: %d units of '%s'", direction.Label(), amount, result.Product.Name),
		Data:    result,
	})
	return &result, nil
}

// RecordTransaction appends one ledger row and applies its stock effect
// through the matching workflow, so the ledger and stock never diverge.
func (s *inventoryService) RecordTransaction(ctx context.Context, in TransactionInput) (*model.Transaction, error) {
	if !in.Type.Valid() {
		return nil, &ValidationError{Field: "type", Message: fmt.Sprintf("must be one of %q, %q, %q", model.TxSale, model.TxAdd, model.TxRemove)}
	}
	if in.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", ProductID: in.ProductID, Message: "must be a positive integer"}
	}

	if in.Type == model.TxSale {
		receipt, err := s.Sell(ctx, map[uint]int{in.ProductID: in.Quantity})
		if err != nil {
			return nil, err
		}
		return &receipt.Lines[0].Transaction, nil
	}

	adj, err := s.AdjustStock(ctx, in.ProductID, in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}
	return &adj.Transaction, nil
}
