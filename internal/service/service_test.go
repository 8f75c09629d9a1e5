package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"go-inventory-pos/internal/metrics"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/testutil"
	"go-inventory-pos/internal/ws"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *recordingNotifier) Publish(event ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	svc      *inventoryService
	reports  *reportService
	notifier *recordingNotifier
	metrics  *metrics.Metrics
	ctx      context.Context
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	pRepo := repository.NewProductRepo(db)
	tRepo := repository.NewTransactionRepo(db)
	notifier := &recordingNotifier{}
	m := metrics.New()

	svc := NewInventoryService(pRepo, tRepo, db, notifier, m, quietLogger()).(*inventoryService)
	svc.now = func() time.Time { return fixedNow }
	reports := NewReportService(pRepo, tRepo).(*reportService)
	reports.now = func() time.Time { return fixedNow }

	return &fixture{db: db, svc: svc, reports: reports, notifier: notifier, metrics: m, ctx: context.Background()}
}

func intPtr(v int) *int { return &v }

func (f *fixture) addProduct(t *testing.T, name, price string, quantity, threshold int) *model.Product {
	t.Helper()
	p, err := f.svc.CreateProduct(f.ctx, ProductInput{
		Name:              name,
		Category:          "Food",
		Price:             decimal.RequireFromString(price),
		Quantity:          quantity,
		LowStockThreshold: intPtr(threshold),
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) reload(t *testing.T, id uint) *model.Product {
	t.Helper()
	p, err := f.svc.GetProduct(f.ctx, id)
	require.NoError(t, err)
	return p
}

func (f *fixture) ledger(t *testing.T) []model.Transaction {
	t.Helper()
	txs, err := f.svc.ListTransactions(f.ctx)
	require.NoError(t, err)
	return txs
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
