package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes de un claim (label "outcome").
const (
	OutcomeClaimed          = "claimed"
	OutcomeAlreadyClaimed   = "already_claimed"
	OutcomePartial          = "partial"
	OutcomeRetried          = "retried"
	OutcomeRejected         = "rejected"
	OutcomeStoreUnavailable = "store_unavailable"
)

// Metrics agrupa los contadores del servicio.
// Todos los métodos son nil-safe para que los tests puedan pasar nil.
type Metrics struct {
	reg prometheus.Gatherer

	Claims            *prometheus.CounterVec
	AnimalsCreated    prometheus.Counter
	IntakeRejected    prometheus.Counter
	DirectoryRebuilds prometheus.Counter
	DirectorySize     prometheus.Gauge
}

// New registra las métricas en reg. Si reg es nil se usa un registry propio
// (evita panics por doble registro en tests).
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		Claims: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pets_claims_total",
			Help: "Claim attempts by outcome",
		}, []string{"outcome", "purpose"}),
		AnimalsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "pets_animals_created_total",
			Help: "Animal records created through intake",
		}),
		IntakeRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "pets_intake_rejected_total",
			Help: "Intake submissions rejected as incomplete",
		}),
		DirectoryRebuilds: f.NewCounter(prometheus.CounterOpts{
			Name: "pets_directory_rebuilds_total",
			Help: "Full rebuilds of the doctors directory index",
		}),
		DirectorySize: f.NewGauge(prometheus.GaugeOpts{
			Name: "pets_directory_entries",
			Help: "Entries published in the doctors directory after the last rebuild",
		}),
	}
}

func (m *Metrics) ClaimOutcome(outcome, purpose string) {
	if m == nil {
		return
	}
	m.Claims.WithLabelValues(outcome, purpose).Inc()
}

func (m *Metrics) AnimalCreated() {
	if m == nil {
		return
	}
	m.AnimalsCreated.Inc()
}

func (m *Metrics) IntakeRejectedInc() {
	if m == nil {
		return
	}
	m.IntakeRejected.Inc()
}

func (m *Metrics) DirectoryRebuilt(entries int) {
	if m == nil {
		return
	}
	m.DirectoryRebuilds.Inc()
	m.DirectorySize.Set(float64(entries))
}

// Handler expone el registry para /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
