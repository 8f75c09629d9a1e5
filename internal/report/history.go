package report

import (
	"sort"
	"time"

	"go-inventory-pos/internal/model"

	"github.com/shopspring/decimal"
)

// UnknownProduct labels ledger rows whose product has been deleted.
const UnknownProduct = "Unknown Product"

type HistoryEntry struct {
	TransactionID uint                  `json:"transactionId"`
	Date          time.Time             `json:"date"`
	ProductID     uint                  `json:"productId"`
	ProductName   string                `json:"productName"`
	Type          model.TransactionType `json:"type"`
	TypeLabel     string                `json:"typeLabel"`
	Quantity      int                   `json:"quantity"`
	TotalAmount   *decimal.Decimal      `json:"totalAmount,omitempty"`
}

// History joins ledger rows to product names, in ledger order.
func History(products []model.Product, transactions []model.Transaction) []HistoryEntry {
	names := make(map[uint]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	entries := make([]HistoryEntry, 0, len(transactions))
	for _, t := range transactions {
		name, ok := names[t.ProductID]
		if !ok {
			name = UnknownProduct
		}
		entries = append(entries, HistoryEntry{
			TransactionID: t.ID,
			Date:          t.Date,
			ProductID:     t.ProductID,
			ProductName:   name,
			Type:          t.Type,
			TypeLabel:     t.Type.Label(),
			Quantity:      t.Quantity,
			TotalAmount:   t.TotalAmount,
		})
	}
	return entries
}

// MovementDay is the stock flow for one calendar day (UTC).
type MovementDay struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// Movement buckets ledger rows dated in [from, to] by day. Additions count as
// inbound; sales and removals as outbound. Days without activity are omitted.
func Movement(transactions []model.Transaction, from, to time.Time) []MovementDay {
	byDay := make(map[string]*MovementDay)
	for _, t := range transactions {
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		day := t.Date.UTC().Format(time.DateOnly)
		m, ok := byDay[day]
		if !ok {
			m = &MovementDay{Date: day}
			byDay[day] = m
		}
		if t.Type == model.TxAdd {
			m.Inbound += t.Quantity
		} else {
			m.Outbound += t.Quantity
		}
	}

	days := make([]MovementDay, 0, len(byDay))
	for _, m := range byDay {
		days = append(days, *m)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
