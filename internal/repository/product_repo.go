package repository

import (
	"context"

	"go-inventory-pos/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("record not found")

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	SeedDefaults(ctx context.Context) (int, error)

	// Workflow steps, run inside a caller-owned transaction.
	FindForUpdate(tx *gorm.DB, id uint) (*model.Product, error)
	Update(tx *gorm.DB, product *model.Product) error
	UpdateQuantity(tx *gorm.DB, id uint, quantity int) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(product).Error, "create product")
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error
	return products, errors.Wrap(err, "list products")
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, notFound(err, "product %d", id)
	}
	return &product, nil
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete product %d", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "product %d", id)
	}
	return nil
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, errors.Wrap(err, "count products")
}

// SeedDefaults inserts model.DefaultProducts into an empty catalogue and
// returns how many rows were created.
func (r *productRepo) SeedDefaults(ctx context.Context) (int, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	products := make([]model.Product, len(model.DefaultProducts))
	copy(products, model.DefaultProducts)
	if err := r.db.WithContext(ctx).Create(&products).Error; err != nil {
		return 0, errors.Wrap(err, "seed products")
	}
	return len(products), nil
}

// FindForUpdate loads and row-locks the product (a no-op lock on SQLite).
func (r *productRepo) FindForUpdate(tx *gorm.DB, id uint) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).First(&product, id).Error
	if err != nil {
		return nil, notFound(err, "product %d", id)
	}
	return &product, nil
}

func (r *productRepo) Update(tx *gorm.DB, product *model.Product) error {
	return errors.Wrapf(tx.Save(product).Error, "update product %d", product.ID)
}

// UpdateQuantity writes only the stock column.
func (r *productRepo) UpdateQuantity(tx *gorm.DB, id uint, quantity int) error {
	err := tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
	return errors.Wrapf(err, "update quantity of product %d", id)
}

func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrapf(ErrNotFound, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}
