// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go-inventory-pos/internal/metrics"
	"go-inventory-pos/internal/report"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/internal/ws"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// LowStockSource lists products at or below their threshold.
type LowStockSource interface {
	LowStock(ctx context.Context) ([]report.LowStockItem, error)
}

// LowStockWatcher scans stock on a cron schedule, keeps the low-stock gauge
// current and announces a low_stock event whenever the set of low products
// changes.
type LowStockWatcher struct {
	source   LowStockSource
	notifier service.Notifier
	metrics  *metrics.Metrics
	log      *logrus.Logger
	cron     *cron.Cron

	mu      sync.Mutex
	lastKey string
}

func NewLowStockWatcher(source LowStockSource, notifier service.Notifier, m *metrics.Metrics, log *logrus.Logger) *LowStockWatcher {
	return &LowStockWatcher{
		source:   source,
		notifier: notifier,
		metrics:  m,
		log:      log,
		cron:     cron.New(),
	}
}

// Start schedules Scan with spec (standard cron or "@every 5m") and starts
// the scheduler.
func (w *LowStockWatcher) Start(spec string) error {
	_, err := w.cron.AddFunc(spec, func() {
		if _, err := w.Scan(context.Background()); err != nil {
			w.log.WithError(err).Error("low-stock scan failed")
		}
	})
	if err != nil {
		return errors.Wrapf(err, "schedule low-stock scan %q", spec)
	}
	w.cron.Start()
	w.log.WithField("spec", spec).Info("low-stock watcher started")
	return nil
}

// Stop waits for a running scan to finish.
func (w *LowStockWatcher) Stop() {
	<-w.cron.Stop().Done()
}

// Scan runs one pass and returns the low-stock items found.
func (w *LowStockWatcher) Scan(ctx context.Context) ([]report.LowStockItem, error) {
	items, err := w.source.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	w.metrics.SetLowStock(len(items))

	key := itemsKey(items)
	w.mu.Lock()
	changed := key != w.lastKey
	w.lastKey = key
	w.mu.Unlock()

	if !changed || len(items) == 0 {
		return items, nil
	}

	w.log.WithField("count", len(items)).Warn("products at or below low-stock threshold")
	if w.notifier != nil {
		w.notifier.Publish(ws.Event{
			Type:    ws.EventLowStock,
			Action:  "low_stock_scan",
			Message: fmt.Sprintf("%d products are low on stock", len(items)),
			Data:    items,
		})
	}
	return items, nil
}

// itemsKey identifies a low-stock set by its product ids and quantities.
func itemsKey(items []report.LowStockItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%d:%d", it.ProductID, it.Quantity)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
