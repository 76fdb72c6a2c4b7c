package prometheusadapter

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordAllocationAndProgram(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics(registry, "test")
	require.NoError(t, err)

	metrics.ObserveAllocation("evt_1", 3, 10)
	metrics.ObserveAllocation("evt_1", 3, 10)
	metrics.ObserveProgram("evt_1", 5, 14, 2)
	metrics.ObserveManualAssignment("create")
	metrics.ObserveManualAssignment("reassign")
	metrics.ObserveManualAssignment("create")

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.allocations.WithLabelValues("evt_1")))
	assert.Equal(t, 20.0, testutil.ToFloat64(metrics.allocatedItems.WithLabelValues("evt_1")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.activeReviewers.WithLabelValues("evt_1")))
	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.programSessions.WithLabelValues("evt_1")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.unscheduled.WithLabelValues("evt_1")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.manualAssignments.WithLabelValues("create")))

	count, err := testutil.GatherAndCount(registry, "test_program_engine_allocations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetricsRejectDuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewMetrics(registry, "")
	require.NoError(t, err)
	_, err = NewMetrics(registry, "")
	require.Error(t, err)
}
