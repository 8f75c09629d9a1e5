package report

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteTable renders the report as an aligned text table. Low-stock rows are
// marked with "!".
func WriteTable(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tPRODUCT\tUNITS SOLD\tREVENUE\tPROFIT\tSTOCK LEFT")
	for _, row := range r.Products {
		flag := ""
		if row.LowStock {
			flag = "!"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%d\n",
			flag, row.Name, row.UnitsSold, row.Revenue.StringFixed(2), row.Profit.StringFixed(2), row.StockLeft)
	}
	t := r.Totals
	fmt.Fprintf(tw, "\tTOTAL\t%d\t%s\t%s\t%d\n", t.UnitsSold, t.Revenue.StringFixed(2), t.Profit.StringFixed(2), t.StockLeft)
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nInventory value: %s\nLow stock items: %d\n", t.InventoryValue.StringFixed(2), t.LowStockItems)
	return err
}

// WriteHistory renders ledger entries one per line.
func WriteHistory(w io.Writer, entries []HistoryEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tPRODUCT\tTYPE\tQUANTITY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", e.TransactionID, e.Date.Format("2006-01-02"), e.ProductName, e.TypeLabel, e.Quantity)
	}
	return tw.Flush()
}
