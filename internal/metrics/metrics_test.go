package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	m := New()

	m.ObserveSale(3, decimal.NewFromInt(30))
	m.ObserveSale(2, decimal.RequireFromString("7.5"))
	m.ObserveAdjustment("add", 10)
	m.ObserveAdjustment("remove", 50)
	m.SetLowStock(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sales))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.unitsSold))
	assert.Equal(t, 37.5, testutil.ToFloat64(m.revenue))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.adjustments.WithLabelValues("remove")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.lowStock))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSale(1, decimal.NewFromInt(1))
		m.ObserveAdjustment("add", 1)
		m.SetLowStock(1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveSale(1, decimal.NewFromInt(5))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "inventory_units_sold_total 1")
}
