// Command inventoryctl is the operator CLI: it reads the same store as the
// API and prints reports, or seeds the demo catalogue.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go-inventory-pos/internal/config"
	"go-inventory-pos/internal/report"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/database"
	"go-inventory-pos/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

type env struct {
	db      *gorm.DB
	reports service.ReportService
	log     *logrus.Logger
}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "inventoryctl",
		Usage: "inspect and seed the inventory store",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of tables"},
		},
		Commands: []*cli.Command{
			{
				Name:   "report",
				Usage:  "product performance and business totals",
				Action: withEnv(runReport),
			},
			{
				Name:   "low-stock",
				Usage:  "products at or below their threshold",
				Action: withEnv(runLowStock),
			},
			{
				Name:   "history",
				Usage:  "stock ledger with product names",
				Action: withEnv(runHistory),
			},
			{
				Name:  "movement",
				Usage: "daily inbound and outbound units",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "days", Value: 7, Usage: "look-back window in days"},
				},
				Action: withEnv(runMovement),
			},
			{
				Name:   "seed",
				Usage:  "insert the demo catalogue when the store is empty",
				Action: withEnv(runSeed),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "inventoryctl:", err)
		os.Exit(1)
	}
}

// withEnv opens the store for one command and closes it afterwards.
func withEnv(run func(*cli.Context, *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(cfg.Log.Level, cfg.Log.Format)
		log.SetOutput(os.Stderr)

		db, err := database.Connect(cfg.Database, log)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(db); err != nil {
				return err
			}
		}

		pRepo := repository.NewProductRepo(db)
		tRepo := repository.NewTransactionRepo(db)
		return run(c, &env{db: db, reports: service.NewReportService(pRepo, tRepo), log: log})
	}
}

func runReport(c *cli.Context, e *env) error {
	r, err := e.reports.Summary(c.Context)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, r)
	}
	return report.WriteTable(c.App.Writer, *r)
}

func runLowStock(c *cli.Context, e *env) error {
	items, err := e.reports.LowStock(c.Context)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, items)
	}
	if len(items) == 0 {
		fmt.Fprintln(c.App.Writer, "All products are above their low-stock threshold.")
		return nil
	}
	for _, it := range items {
		fmt.Fprintf(c.App.Writer, "%d\t%s\t%d (threshold %d)\n", it.ProductID, it.Name, it.Quantity, it.LowStockThreshold)
	}
	return nil
}

func runHistory(c *cli.Context, e *env) error {
	entries, err := e.reports.History(c.Context)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, entries)
	}
	return report.WriteHistory(c.App.Writer, entries)
}

func runMovement(c *cli.Context, e *env) error {
	days := c.Int("days")
	if days <= 0 {
		return cli.Exit("--days must be positive", 2)
	}
	data, err := e.reports.StockMovement(c.Context, days)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, data)
	}
	for _, d := range data {
		fmt.Fprintf(c.App.Writer, "%s\tin %d\tout %d\n", d.Date, d.Inbound, d.Outbound)
	}
	return nil
}

func runSeed(c *cli.Context, e *env) error {
	n, err := repository.NewProductRepo(e.db).SeedDefaults(c.Context)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(c.App.Writer, "Store already has products; nothing seeded.")
		return nil
	}
	fmt.Fprintf(c.App.Writer, "Seeded %d demo products.\n", n)
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
