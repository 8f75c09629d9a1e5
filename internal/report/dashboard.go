package report

import (
	"go-inventory-pos/internal/model"

	"github.com/shopspring/decimal"
)

type LowStockItem struct {
	ProductID         uint   `json:"productId"`
	Name              string `json:"name"`
	Quantity          int    `json:"quantity"`
	LowStockThreshold int    `json:"lowStockThreshold"`
}

type Dashboard struct {
	TotalProducts  int             `json:"totalProducts"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
	LowStockCount  int             `json:"lowStockCount"`
	LowStock       []LowStockItem  `json:"lowStock"`
	Featured       []model.Product `json:"featured"`
}

// FeaturedCount is how many products the dashboard gallery shows.
const FeaturedCount = 4

func BuildDashboard(products []model.Product) Dashboard {
	d := Dashboard{
		TotalProducts: len(products),
		LowStock:      LowStock(products),
	}
	for i := range products {
		d.InventoryValue = d.InventoryValue.Add(products[i].StockValue())
	}
	d.LowStockCount = len(d.LowStock)

	n := min(FeaturedCount, len(products))
	d.Featured = append([]model.Product(nil), products[:n]...)
	return d
}

// LowStock lists products at or below their threshold, in input order.
func LowStock(products []model.Product) []LowStockItem {
	items := []LowStockItem{}
	for i := range products {
		p := &products[i]
		if !p.IsLowStock() {
			continue
		}
		items = append(items, LowStockItem{
			ProductID:         p.ID,
			Name:              p.Name,
			Quantity:          p.Quantity,
			LowStockThreshold: p.LowStockThreshold,
		})
	}
	return items
}

type CategoryGroup struct {
	Category string          `json:"category"`
	Products []model.Product `json:"products"`
}

// GroupByCategory keeps categories in order of first appearance.
func GroupByCategory(products []model.Product) []CategoryGroup {
	groups := []CategoryGroup{}
	index := make(map[string]int)
	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			i = len(groups)
			index[p.Category] = i
			groups = append(groups, CategoryGroup{Category: p.Category})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}
