// Package server assembles the fiber application: middleware, REST routes,
// the websocket stream and the operational endpoints.
package server

import (
	"go-inventory-pos/internal/config"
	"go-inventory-pos/internal/handler"
	"go-inventory-pos/internal/metrics"
	"go-inventory-pos/internal/middleware"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the collaborators the routes are wired to. Hub and Metrics are
// optional; their routes are only mounted when set.
type Deps struct {
	Config    config.ServerConfig
	Log       *logrus.Logger
	DB        *gorm.DB
	Inventory service.InventoryService
	Reports   service.ReportService
	Hub       *ws.Hub
	Metrics   *metrics.Metrics
}

func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      d.Config.AppName,
		ErrorHandler: errorHandler(d.Log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(d.Log))
	app.Use(cors.New(cors.Config{AllowOrigins: d.Config.CORSOrigins}))

	invHandler := handler.NewInventoryHandler(d.Inventory, d.Log)
	reportHandler := handler.NewReportHandler(d.Reports, d.Log)

	// Products
	app.Get("/products", invHandler.GetProducts)
	app.Post("/products", invHandler.CreateProduct)
	app.Get("/products/:id", invHandler.GetProduct)
	app.Put("/products/:id", invHandler.UpdateProduct)
	app.Patch("/products/:id", invHandler.PatchProduct)
	app.Delete("/products/:id", invHandler.DeleteProduct)
	app.Post("/products/:id/stock", invHandler.AdjustStock)

	// Ledger
	app.Get("/transactions", invHandler.GetTransactions)
	app.Get("/transactions/:id", invHandler.GetTransaction)
	app.Post("/transactions", invHandler.CreateTransaction)
	app.Post("/sales", invHandler.Sell)

	// Reports
	app.Get("/reports/summary", reportHandler.GetSummary)
	app.Get("/dashboard", reportHandler.GetDashboard)
	app.Get("/inventory", reportHandler.GetInventory)
	app.Get("/stock/history", reportHandler.GetHistory)
	app.Get("/stock/movement", reportHandler.GetStockMovement)
	app.Get("/stock/low", reportHandler.GetLowStock)

	app.Get("/healthz", health(d.DB))
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	}
	if d.Hub != nil {
		mountWebSocket(app, d.Hub)
	}

	return app
}

func mountWebSocket(app *fiber.App, hub *ws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !hub.Join(c) {
			return
		}
		defer hub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}

func health(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.UserContext())
			}
			if err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": "database unreachable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// errorHandler renders errors that escape a handler (unknown routes, body
// limits, panics caught by recover) in the same JSON envelope as the handlers.
func errorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Path()).Error("unhandled error")
		}
		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}
