package service

import (
	"context"
	"fmt"
	"time"

	"go-inventory-pos/internal/metrics"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/ws"
	"go-inventory-pos/pkg/validator"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Notifier receives stock events after a workflow commits.
type Notifier interface {
	Publish(event ws.Event)
}

type InventoryService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, in ProductInput) (*model.Product, error)
	PatchProduct(ctx context.Context, id uint, patch ProductPatch) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error

	Sell(ctx context.Context, items map[uint]int) (*SaleReceipt, error)
	AdjustStock(ctx context.Context, id uint, direction model.TransactionType, amount int) (*StockAdjustment, error)
	RecordTransaction(ctx context.Context, in TransactionInput) (*model.Transaction, error)

	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	GetTransaction(ctx context.Context, id uint) (*model.Transaction, error)
}

// ProductInput is the caller-settable part of a product for create and full
// replace. LowStockThreshold defaults when nil; lowStockAlert is not accepted.
type ProductInput struct {
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold *int            `json:"lowStockThreshold"`
}

func (in ProductInput) applyTo(p *model.Product) {
	p.Name = in.Name
	p.Description = in.Description
	p.Category = in.Category
	p.Price = in.Price.Round(model.PricePlaces)
	p.Quantity = in.Quantity
	p.LowStockThreshold = model.DefaultLowStockThreshold
	if in.LowStockThreshold != nil {
		p.LowStockThreshold = *in.LowStockThreshold
	}
}

// ProductPatch updates only the fields that are set.
type ProductPatch struct {
	Name              *string          `json:"name"`
	Description       *string          `json:"description"`
	Category          *string          `json:"category"`
	Price             *decimal.Decimal `json:"price"`
	Quantity          *int             `json:"quantity"`
	LowStockThreshold *int             `json:"lowStockThreshold"`
}

func (in ProductPatch) applyTo(p *model.Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Price != nil {
		p.Price = in.Price.Round(model.PricePlaces)
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.LowStockThreshold != nil {
		p.LowStockThreshold = *in.LowStockThreshold
	}
}

type inventoryService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	db              *gorm.DB
	notifier        Notifier
	metrics         *metrics.Metrics
	log             *logrus.Logger
	now             func() time.Time
}

// NewInventoryService wires the workflows. notifier and m may be nil.
func NewInventoryService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, db *gorm.DB, notifier Notifier, m *metrics.Metrics, log *logrus.Logger) InventoryService {
	return &inventoryService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		db:              db,
		notifier:        notifier,
		metrics:         m,
		log:             log,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (s *inventoryService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	return products, storeErr("list products", err)
}

func (s *inventoryService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	return p, storeErr("get product", err)
}

func (s *inventoryService) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	var product model.Product
	in.applyTo(&product)
	if err := validationError(validator.ValidateStruct(&product)); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, &product); err != nil {
		return nil, storeErr("create product", err)
	}

	s.log.WithFields(logrus.Fields{"product_id": product.ID, "name": product.Name}).Info("product created")
	s.publish(ws.Event{
		Type:    ws.EventStockUpdate,
		Action:  "product_created",
		Message: fmt.Sprintf("Product '%s' created", product.Name),
		Data:    product,
	})
	return &product, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*model.Product, error) {
	return s.modifyProduct(ctx, id, "update product", in.applyTo)
}

func (s *inventoryService) PatchProduct(ctx context.Context, id uint, patch ProductPatch) (*model.Product, error) {
	return s.modifyProduct(ctx, id, "patch product", patch.applyTo)
}

// modifyProduct locks the product, applies the change, validates the result
// and saves it, all in one store transaction.
func (s *inventoryService) modifyProduct(ctx context.Context, id uint, op string, apply func(*model.Product)) (*model.Product, error) {
	var updated *model.Product
	var oldQuantity int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.FindForUpdate(tx, id)
		if err != nil {
			return err
		}
		oldQuantity = existing.Quantity

		apply(existing)
		if err := validationError(validator.ValidateStruct(existing)); err != nil {
			return err
		}
		if err := s.productRepo.Update(tx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, storeErr(op, err)
	}

	s.log.WithFields(logrus.Fields{"product_id": id, "old_quantity": oldQuantity, "new_quantity": updated.Quantity}).Info("product updated")
	s.publish(ws.Event{
		Type:    ws.EventStockUpdate,
		Action:  "product_updated",
		Message: fmt.Sprintf("Product '%s' updated", updated.Name),
		Data: map[string]interface{}{
			"product":   updated,
			"old_stock": oldQuantity,
		},
	})
	return updated, nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return storeErr("delete product", err)
	}

	s.log.WithField("product_id", id).Info("product deleted")
	s.publish(ws.Event{
		Type:    ws.EventStockUpdate,
		Action:  "product_deleted",
		Message: fmt.Sprintf("Product %d deleted", id),
		Data:    map[string]interface{}{"id": id},
	})
	return nil
}

func (s *inventoryService) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	transactions, err := s.transactionRepo.FindAll(ctx)
	return transactions, storeErr("list transactions", err)
}

func (s *inventoryService) GetTransaction(ctx context.Context, id uint) (*model.Transaction, error) {
	t, err := s.transactionRepo.FindByID(ctx, id)
	return t, storeErr("get transaction", err)
}

func (s *inventoryService) publish(event ws.Event) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(event)
}
