// Package metrics exposes inventory counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Metrics owns a private registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	sales       prometheus.Counter
	unitsSold   prometheus.Counter
	revenue     prometheus.Counter
	adjustments *prometheus.CounterVec
	lowStock    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sales: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "sales_total",
			Help:      "Completed sale batches.",
		}),
		unitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "units_sold_total",
			Help:      "Units sold across all products.",
		}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "sales_amount_total",
			Help:      "Sum of sale totals at the recorded unit price.",
		}),
		adjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "stock_adjustment_units_total",
			Help:      "Units requested by manual stock adjustments.",
		}, []string{"direction"}),
		lowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "inventory",
			Name:      "low_stock_products",
			Help:      "Products at or below their low-stock threshold at the last scan.",
		}),
	}
	m.registry.MustRegister(
		m.sales, m.unitsSold, m.revenue, m.adjustments, m.lowStock,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveSale(units int, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.sales.Inc()
	m.unitsSold.Add(float64(units))
	f, _ := amount.Float64()
	m.revenue.Add(f)
}

func (m *Metrics) ObserveAdjustment(direction string, units int) {
	if m == nil {
		return
	}
	m.adjustments.WithLabelValues(direction).Add(float64(units))
}

func (m *Metrics) SetLowStock(n int) {
	if m == nil {
		return
	}
	m.lowStock.Set(float64(n))
}
