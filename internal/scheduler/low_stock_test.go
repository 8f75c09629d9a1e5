package scheduler

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"go-inventory-pos/internal/metrics"
	"go-inventory-pos/internal/report"
	"go-inventory-pos/internal/ws"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	items []report.LowStockItem
	err   error
}

func (f *fakeSource) LowStock(context.Context) ([]report.LowStockItem, error) {
	return f.items, f.err
}

type recorder struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *recorder) Publish(e ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func newWatcher(src LowStockSource) (*LowStockWatcher, *recorder, *metrics.Metrics) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	rec := &recorder{}
	m := metrics.New()
	return NewLowStockWatcher(src, rec, m, log), rec, m
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	return rr.Body.String()
}

func TestScan_PublishesOnChange(t *testing.T) {
	src := &fakeSource{items: []report.LowStockItem{
		{ProductID: 1, Name: "Toast", Quantity: 3, LowStockThreshold: 5},
		{ProductID: 4, Name: "Nik Naks", Quantity: 0, LowStockThreshold: 5},
	}}
	w, rec, m := newWatcher(src)
	ctx := context.Background()

	items, err := w.Scan(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	require.Len(t, rec.events, 1)
	assert.Equal(t, ws.EventLowStock, rec.events[0].Type)
	assert.Contains(t, scrape(t, m), "inventory_low_stock_products 2")

	// unchanged set is not announced again
	_, err = w.Scan(ctx)
	require.NoError(t, err)
	assert.Len(t, rec.events, 1)

	src.items[0].Quantity = 2
	_, err = w.Scan(ctx)
	require.NoError(t, err)
	assert.Len(t, rec.events, 2)

	src.items = nil
	_, err = w.Scan(ctx)
	require.NoError(t, err)
	assert.Len(t, rec.events, 2)
	assert.Contains(t, scrape(t, m), "inventory_low_stock_products 0")
}

func TestScan_SourceError(t *testing.T) {
	w, rec, _ := newWatcher(&fakeSource{err: errors.New("db down")})

	_, err := w.Scan(context.Background())
	assert.EqualError(t, err, "db down")
	assert.Empty(t, rec.events)
}

func TestStart_RejectsBadSpec(t *testing.T) {
	w, _, _ := newWatcher(&fakeSource{})
	assert.Error(t, w.Start("every now and then"))

	require.NoError(t, w.Start("@every 1h"))
	w.Stop()
}
