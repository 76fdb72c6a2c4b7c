package prometheusadapter

import (
	"confhub/contexts/conference-program/program-engine/ports"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultNamespace = "confhub"

// Metrics records engine activity as Prometheus collectors.
type Metrics struct {
	allocations       *prometheus.CounterVec
	allocatedItems    *prometheus.CounterVec
	activeReviewers   *prometheus.GaugeVec
	programs          *prometheus.CounterVec
	programSessions   *prometheus.GaugeVec
	unscheduled       *prometheus.GaugeVec
	manualAssignments *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg, or the default registerer when
// reg is nil.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	m := &Metrics{
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "program_engine",
			Name:      "allocations_total",
			Help:      "Completed equitable reviewer allocation runs.",
		}, []string{"event_id"}),
		allocatedItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "program_engine",
			Name:      "allocated_submissions_total",
			Help:      "Submissions handed out by reviewer allocation runs.",
		}, []string{"event_id"}),
		activeReviewers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "program_engine",
			Name:      "allocation_reviewers",
			Help:      "Active reviewers seen by the latest allocation run.",
		}, []string{"event_id"}),
		programs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "program_engine",
			Name:      "program_generations_total",
			Help:      "Completed program generation runs.",
		}, []string{"event_id"}),
		programSessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "program_engine",
			Name:      "program_sessions",
			Help:      "Sessions produced by the latest program generation.",
		}, []string{"event_id"}),
		unscheduled: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "program_engine",
			Name:      "unscheduled_submissions",
			Help:      "Approved submissions left without a session by the latest program generation.",
		}, []string{"event_id"}),
		manualAssignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "program_engine",
			Name:      "manual_assignment_operations_total",
			Help:      "Manual assignment operations by action.",
		}, []string{"action"}),
	}
	for _, collector := range []prometheus.Collector{
		m.allocations,
		m.allocatedItems,
		m.activeReviewers,
		m.programs,
		m.programSessions,
		m.unscheduled,
		m.manualAssignments,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveAllocation(eventID string, reviewers int, submissions int) {
	m.allocations.WithLabelValues(eventID).Inc()
	m.allocatedItems.WithLabelValues(eventID).Add(float64(submissions))
	m.activeReviewers.WithLabelValues(eventID).Set(float64(reviewers))
}

func (m *Metrics) ObserveProgram(eventID string, sessions int, _ int, unscheduled int) {
	m.programs.WithLabelValues(eventID).Inc()
	m.programSessions.WithLabelValues(eventID).Set(float64(sessions))
	m.unscheduled.WithLabelValues(eventID).Set(float64(unscheduled))
}

func (m *Metrics) ObserveManualAssignment(action string) {
	m.manualAssignments.WithLabelValues(action).Inc()
}

var _ ports.Metrics = (*Metrics)(nil)
