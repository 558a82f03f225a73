package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rustyeddy/banca/ledger"
)

// Recorder mirrors the latest KPI snapshot as Prometheus gauges.
type Recorder struct {
	registry *prometheus.Registry

	Balance         prometheus.Gauge
	MonthProfit     prometheus.Gauge
	MonthVariation  prometheus.Gauge
	HitRate         prometheus.Gauge
	MonthOperations *prometheus.GaugeVec
	CurrentStreak   *prometheus.GaugeVec
	MaxWinStreak    prometheus.Gauge
	RecordedTotal   *prometheus.CounterVec
	RejectedTotal   prometheus.Counter
}

// NewRecorder creates the gauges on a private registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		Balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "banca_balance",
			Help: "Current balance in account currency",
		}),
		MonthProfit: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "banca_month_profit",
			Help: "Profit of operations recorded this month",
		}),
		MonthVariation: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "banca_month_variation_percent",
			Help: "Month profit relative to the balance at month start (0-100 scale)",
		}),
		HitRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "banca_hit_rate_percent",
			Help: "Share of winning operations this month (0-100)",
		}),
		MonthOperations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "banca_month_operations",
			Help: "Operations recorded this month by result",
		}, []string{"result"}),
		CurrentStreak: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "banca_current_streak",
			Help: "Length of the trailing run of equal results",
		}, []string{"result"}),
		MaxWinStreak: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "banca_max_win_streak",
			Help: "Longest run of consecutive wins",
		}),
		RecordedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "banca_operations_recorded_total",
			Help: "Operations recorded since process start by result",
		}, []string{"result"}),
		RejectedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "banca_operations_rejected_total",
			Help: "Operation submissions rejected by validation",
		}),
	}

	r.registry.MustRegister(
		r.Balance, r.MonthProfit, r.MonthVariation, r.HitRate,
		r.MonthOperations, r.CurrentStreak, r.MaxWinStreak,
		r.RecordedTotal, r.RejectedTotal,
	)
	return r
}

// Observe publishes snap.
func (r *Recorder) Observe(snap ledger.KPISnapshot) {
	r.Balance.Set(snap.CurrentBalance.InexactFloat64())
	r.MonthProfit.Set(snap.MonthProfit.InexactFloat64())
	r.MonthVariation.Set(snap.MonthVariationPct)
	r.HitRate.Set(snap.HitRate)
	r.MonthOperations.WithLabelValues(ledger.Win.String()).Set(float64(snap.MonthWins))
	r.MonthOperations.WithLabelValues(ledger.Loss.String()).Set(float64(snap.MonthLosses))
	r.MaxWinStreak.Set(float64(snap.MaxWinStreak))

	r.CurrentStreak.Reset()
	if snap.CurrentStreakResult != "" {
		r.CurrentStreak.WithLabelValues(snap.CurrentStreakResult.String()).Set(float64(snap.CurrentStreak))
	}
}

// Recorded counts a newly appended operation.
func (r *Recorder) Recorded(op ledger.Operation) {
	r.RecordedTotal.WithLabelValues(op.Result.String()).Inc()
}

// Rejected counts a submission that failed validation.
func (r *Recorder) Rejected() {
	r.RejectedTotal.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
