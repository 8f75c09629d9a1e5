package service

import (
	"testing"

	"go-inventory-pos/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct(t *testing.T) {
	f := setup(t)

	p, err := f.svc.CreateProduct(f.ctx, ProductInput{
		Name:     "Coffee",
		Category: "Beverages",
		Price:    decimal.RequireFromString("25.00"),
		Quantity: 30,
	})
	require.NoError(t, err)

	assert.NotZero(t, p.ID)
	assert.Equal(t, model.DefaultLowStockThreshold, p.LowStockThreshold)
	assert.False(t, p.LowStockAlert)

	got := f.reload(t, p.ID)
	assert.Equal(t, "Coffee", got.Name)
	assertDecimal(t, "25", got.Price)
	assert.Equal(t, 5, got.LowStockThreshold)
	assert.Equal(t, []string{"product_created"}, f.notifier.actions())
}

func TestProductPriceRoundedToColumnScale(t *testing.T) {
	f := setup(t)

	created, err := f.svc.CreateProduct(f.ctx, ProductInput{
		Name:     "Coffee",
		Category: "Beverages",
		Price:    decimal.RequireFromString("10.555"),
		Quantity: 1,
	})
	require.NoError(t, err)
	assertDecimal(t, "10.56", created.Price)
	assertDecimal(t, "10.56", f.reload(t, created.ID).Price)

	updated, err := f.svc.UpdateProduct(f.ctx, created.ID, ProductInput{
		Name:     "Coffee",
		Category: "Beverages",
		Price:    decimal.RequireFromString("7.004"),
		Quantity: 1,
	})
	require.NoError(t, err)
	assertDecimal(t, "7", updated.Price)

	price := decimal.RequireFromString("3.125")
	patched, err := f.svc.PatchProduct(f.ctx, created.ID, ProductPatch{Price: &price})
	require.NoError(t, err)
	assertDecimal(t, "3.13", patched.Price)
	assertDecimal(t, "3.13", f.reload(t, created.ID).Price)
}

func TestCreateProduct_StartsLow(t *testing.T) {
	f := setup(t)
	p := f.addProduct(t, "Toast", "12", 5, 5)
	assert.True(t, p.LowStockAlert)
}

func TestCreateProduct_Validation(t *testing.T) {
	valid := func() ProductInput {
		return ProductInput{Name: "Coffee", Category: "Beverages", Price: decimal.NewFromInt(10), Quantity: 1}
	}

	tests := []struct {
		name  string
		edit  func(*ProductInput)
		field string
	}{
		{"missing name", func(in *ProductInput) { in.Name = "" }, "name"},
		{"missing category", func(in *ProductInput) { in.Category = "" }, "category"},
		{"negative price", func(in *ProductInput) { in.Price = decimal.NewFromInt(-1) }, "price"},
		{"negative quantity", func(in *ProductInput) { in.Quantity = -1 }, "quantity"},
		{"zero threshold", func(in *ProductInput) { in.LowStockThreshold = intPtr(0) }, "lowStockThreshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			in := valid()
			tt.edit(&in)

			_, err := f.svc.CreateProduct(f.ctx, in)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)

			products, err := f.svc.ListProducts(f.ctx)
			require.NoError(t, err)
			assert.Empty(t, products)
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	f := setup(t)
	p := f.addProduct(t, "Coffee", "10", 20, 8)

	updated, err := f.svc.UpdateProduct(f.ctx, p.ID, ProductInput{
		Name:        "Flat White",
		Description: "double shot",
		Category:    "Beverages",
		Price:       decimal.RequireFromString("32.50"),
		Quantity:    3,
	})
	require.NoError(t, err)

	assert.Equal(t, p.ID, updated.ID)
	// a full replace without a threshold falls back to the default
	assert.Equal(t, 5, updated.LowStockThreshold)
	assert.True(t, updated.LowStockAlert)

	got := f.reload(t, p.ID)
	assert.Equal(t, "Flat White", got.Name)
	assert.Equal(t, "double shot", got.Description)
	assertDecimal(t, "32.5", got.Price)
	assert.Equal(t, 3, got.Quantity)
	assert.True(t, got.LowStockAlert)
}

func TestUpdateProduct_Errors(t *testing.T) {
	f := setup(t)
	p := f.addProduct(t, "Coffee", "10", 20, 5)

	_, err := f.svc.UpdateProduct(f.ctx, 999, ProductInput{Name: "x", Category: "y"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.UpdateProduct(f.ctx, p.ID, ProductInput{Name: "Coffee", Category: "Food", Quantity: -4})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)
	assert.Equal(t, 20, f.reload(t, p.ID).Quantity)
}

func TestPatchProduct(t *testing.T) {
	f := setup(t)
	p := f.addProduct(t, "Coffee", "10", 20, 5)

	qty := 2
	patched, err := f.svc.PatchProduct(f.ctx, p.ID, ProductPatch{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 2, patched.Quantity)
	assert.True(t, patched.LowStockAlert)

	got := f.reload(t, p.ID)
	assert.Equal(t, "Coffee", got.Name)
	assert.Equal(t, "Food", got.Category)
	assertDecimal(t, "10", got.Price)
	assert.Equal(t, 5, got.LowStockThreshold)
	assert.True(t, got.LowStockAlert)

	threshold := 1
	patched, err = f.svc.PatchProduct(f.ctx, p.ID, ProductPatch{LowStockThreshold: &threshold})
	require.NoError(t, err)
	assert.False(t, patched.LowStockAlert)

	assert.Equal(t, []string{"product_created", "product_updated", "product_updated"}, f.notifier.actions())
}

func TestPatchProduct_Errors(t *testing.T) {
	f := setup(t)
	p := f.addProduct(t, "Coffee", "10", 20, 5)

	empty := ""
	_, err := f.svc.PatchProduct(f.ctx, p.ID, ProductPatch{Name: &empty})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
	assert.Equal(t, "Coffee", f.reload(t, p.ID).Name)

	price := decimal.NewFromInt(-5)
	_, err = f.svc.PatchProduct(f.ctx, p.ID, ProductPatch{Price: &price})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "price", verr.Field)

	_, err = f.svc.PatchProduct(f.ctx, 404, ProductPatch{Name: &empty})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	f := setup(t)
	p := f.addProduct(t, "Coffee", "10", 20, 5)
	_, err := f.svc.Sell(f.ctx, map[uint]int{p.ID: 1})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteProduct(f.ctx, p.ID))

	_, err = f.svc.GetProduct(f.ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteProduct(f.ctx, p.ID), ErrNotFound)

	// no cascade into the ledger
	assert.Len(t, f.ledger(t), 1)
}

func TestGetTransaction(t *testing.T) {
	f := setup(t)
	p := f.addProduct(t, "Coffee", "10", 20, 5)
	adj, err := f.svc.AdjustStock(f.ctx, p.ID, model.TxAdd, 3)
	require.NoError(t, err)

	got, err := f.svc.GetTransaction(f.ctx, adj.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxAdd, got.Type)
	assert.Equal(t, 3, got.Quantity)

	_, err = f.svc.GetTransaction(f.ctx, 77)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreFailureIsStoreError(t *testing.T) {
	f := setup(t)
	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = f.svc.ListProducts(f.ctx)
	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "list products", serr.Op)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = f.reports.Summary(f.ctx)
	assert.ErrorAs(t, err, &serr)
}

func TestStoreErrClassification(t *testing.T) {
	assert.NoError(t, storeErr("op", nil))
	assert.Same(t, ErrNothingToSell, storeErr("op", ErrNothingToSell))
	assert.ErrorIs(t, storeErr("op", ErrNotFound), ErrNotFound)

	inner := &StoreError{Op: "inner", Err: assert.AnError}
	assert.Same(t, inner, storeErr("outer", inner))

	var serr *StoreError
	require.ErrorAs(t, storeErr("save", assert.AnError), &serr)
	assert.Equal(t, "save: "+assert.AnError.Error(), serr.Error())
}
