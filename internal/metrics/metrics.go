// Package metrics holds the Prometheus collectors for settlement and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

type Metrics struct {
	registry *prometheus.Registry

	SettlementsTotal  *prometheus.CounterVec
	SettlementPot     prometheus.Histogram
	FloorAppliedTotal prometheus.Counter
	SweepRunsTotal    *prometheus.CounterVec
	HTTPRequestsTotal *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SettlementsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fantasy_settlements_total",
				Help: "Settlement attempts by duration class and outcome",
			},
			[]string{"class", "outcome"},
		),
		SettlementPot: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fantasy_settlement_pot",
			Help:    "Pot size of settled matches",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		FloorAppliedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fantasy_loser_floor_applied_total",
			Help: "Settlements where the loser floor was binding",
		}),
		SweepRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fantasy_sweep_matches_total",
				Help: "Matches visited by the settlement sweeper by result",
			},
			[]string{"result"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fantasy_http_requests_total",
				Help: "HTTP requests by route pattern and status code",
			},
			[]string{"route", "status"},
		),
	}
	m.registry.MustRegister(
		m.SettlementsTotal,
		m.SettlementPot,
		m.FloorAppliedTotal,
		m.SweepRunsTotal,
		m.HTTPRequestsTotal,
	)
	return m
}

// ObserveSettlement records one settlement attempt. outcome is "settled" or
// an error code.
func (m *Metrics) ObserveSettlement(class, outcome string, pot decimal.Decimal, floorApplied bool) {
	if m == nil {
		return
	}
	m.SettlementsTotal.WithLabelValues(class, outcome).Inc()
	if outcome != "settled" {
		return
	}
	f, _ := pot.Float64()
	m.SettlementPot.Observe(f)
	if floorApplied {
		m.FloorAppliedTotal.Inc()
	}
}

func (m *Metrics) ObserveSweep(result string) {
	if m == nil {
		return
	}
	m.SweepRunsTotal.WithLabelValues(result).Inc()
}

// ObserveHTTP counts a served request under its chi route pattern.
func (m *Metrics) ObserveHTTP(route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
