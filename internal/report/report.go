// Package report holds the pure projections over a (products, transactions)
// snapshot: the performance report, dashboard, category overview, stock
// history and daily movement. Nothing here does I/O or keeps state.
package report

import (
	"sort"

	"go-inventory-pos/internal/model"

	"github.com/shopspring/decimal"
)

// ProfitMargin is the flat margin applied to revenue; the data model has no cost field.
var ProfitMargin = decimal.RequireFromString("0.30")

type ProductPerformance struct {
	ProductID         uint            `json:"productId"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	UnitsSold         int             `json:"unitsSold"`
	Revenue           decimal.Decimal `json:"revenue"`
	Profit            decimal.Decimal `json:"profit"`
	StockLeft         int             `json:"stockLeft"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	LowStock          bool            `json:"lowStock"`
}

type Totals struct {
	UnitsSold      int             `json:"totalUnitsSold"`
	Revenue        decimal.Decimal `json:"totalRevenue"`
	Profit         decimal.Decimal `json:"totalProfit"`
	StockLeft      int             `json:"totalStockLeft"`
	InventoryValue decimal.Decimal `json:"totalInventoryValue"`
	LowStockItems  int             `json:"lowStockItems"`
}

type Report struct {
	Products []ProductPerformance `json:"products"`
	Totals   Totals               `json:"totals"`
}

// Build computes per-product sales performance and business totals.
//
// Revenue uses each product's current price rather than the unit price
// recorded on the sale rows. Sales of deleted products match no row and are
// not counted. Rows are ordered by units sold, descending; ties keep the
// input order.
func Build(products []model.Product, transactions []model.Transaction) Report {
	sold := UnitsSoldByProduct(transactions)

	rows := make([]ProductPerformance, 0, len(products))
	var totals Totals
	for i := range products {
		p := &products[i]
		units := sold[p.ID]
		revenue := p.Price.Mul(decimal.NewFromInt(int64(units)))
		profit := revenue.Mul(ProfitMargin)

		rows = append(rows, ProductPerformance{
			ProductID:         p.ID,
			Name:              displayName(p.Name),
			Category:          p.Category,
			Price:             p.Price,
			UnitsSold:         units,
			Revenue:           revenue,
			Profit:            profit,
			StockLeft:         p.Quantity,
			LowStockThreshold: p.LowStockThreshold,
			LowStock:          p.IsLowStock(),
		})

		totals.UnitsSold += units
		totals.Revenue = totals.Revenue.Add(revenue)
		totals.Profit = totals.Profit.Add(profit)
		totals.StockLeft += p.Quantity
		totals.InventoryValue = totals.InventoryValue.Add(p.StockValue())
		if p.IsLowStock() {
			totals.LowStockItems++
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].UnitsSold > rows[j].UnitsSold
	})

	return Report{Products: rows, Totals: totals}
}

// UnitsSoldByProduct sums sale quantities per product id.
func UnitsSoldByProduct(transactions []model.Transaction) map[uint]int {
	sold := make(map[uint]int)
	for _, t := range transactions {
		if t.Type == model.TxSale {
			sold[t.ProductID] += t.Quantity
		}
	}
	return sold
}

func displayName(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}
