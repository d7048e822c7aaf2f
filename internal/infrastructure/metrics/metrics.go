package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/debtledger/internal/domain"
)

// Metrics holds the domain Prometheus metrics and implements usecase.MetricsRecorder.
type Metrics struct {
	// Extraction metrics
	ExtractionOutcomes *prometheus.CounterVec
	ExtractionDuration prometheus.Histogram

	// Proposal metrics
	ProposalsRaised      *prometheus.CounterVec
	ProposalsOverwritten prometheus.Counter
	ProposalsResolved    *prometheus.CounterVec
	ProposalsPending     prometheus.Gauge

	// Ledger metrics
	Commits          *prometheus.CounterVec
	CommitErrors     *prometheus.CounterVec
	DuplicateReceipt prometheus.Counter

	// Reminder metrics
	RemindersSent *prometheus.CounterVec
}

// New creates and registers all domain metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ExtractionOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_extractions_total",
				Help: "Receipt extractions by outcome",
			},
			[]string{"status"},
		),
		ExtractionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "debtledger_extraction_duration_seconds",
			Help:    "Duration of AI receipt extraction",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		}),

		ProposalsRaised: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_proposals_raised_total",
				Help: "Proposals raised by category",
			},
			[]string{"category"},
		),
		ProposalsOverwritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "debtledger_proposals_overwritten_total",
			Help: "Pending proposals replaced by a newer proposal on the same channel",
		}),
		ProposalsResolved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_proposals_resolved_total",
				Help: "Proposals resolved by approver decision",
			},
			[]string{"accepted"},
		),
		ProposalsPending: factory.NewGauge(prometheus.GaugeOpts{
			Name: "debtledger_proposals_pending",
			Help: "Proposals awaiting a response",
		}),

		Commits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_commits_total",
				Help: "Ledger commits by category",
			},
			[]string{"category"},
		),
		CommitErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_commit_errors_total",
				Help: "Failed ledger commits by reason",
			},
			[]string{"reason"},
		),
		DuplicateReceipt: factory.NewCounter(prometheus.CounterOpts{
			Name: "debtledger_duplicate_receipts_total",
			Help: "Receipts rejected as duplicates",
		}),

		RemindersSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtledger_reminders_sent_total",
				Help: "Due date reminders sent by kind",
			},
			[]string{"kind"},
		),
	}
}

func (m *Metrics) ExtractionFinished(status domain.ExtractionStatus, elapsed time.Duration) {
	m.ExtractionOutcomes.WithLabelValues(status.String()).Inc()
	m.ExtractionDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ProposalRaised(category domain.Category) {
	m.ProposalsRaised.WithLabelValues(string(category)).Inc()
}

func (m *Metrics) ProposalOverwritten() {
	m.ProposalsOverwritten.Inc()
}

func (m *Metrics) ProposalResolved(accepted bool) {
	m.ProposalsResolved.WithLabelValues(strconv.FormatBool(accepted)).Inc()
}

func (m *Metrics) PendingProposals(n int) {
	m.ProposalsPending.Set(float64(n))
}

func (m *Metrics) CommitSucceeded(category domain.Category) {
	m.Commits.WithLabelValues(string(category)).Inc()
}

func (m *Metrics) CommitFailed(reason string) {
	m.CommitErrors.WithLabelValues(reason).Inc()
}

func (m *Metrics) DuplicateDetected() {
	m.DuplicateReceipt.Inc()
}

func (m *Metrics) ReminderSent(kind string) {
	m.RemindersSent.WithLabelValues(kind).Inc()
}
