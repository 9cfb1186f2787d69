package camunda

import (
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rehab-workers/internal/common/metrics"
)

func TestInstrument_TracksActiveGaugeAndDuration(t *testing.T) {
	taskType := "instrument-gauge-test"

	var activeDuringJob float64
	handler := instrument(taskType, func(client worker.JobClient, job entities.Job) {
		activeDuringJob = testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType))
	})

	handler(nil, entities.Job{})

	assert.Equal(t, 1.0, activeDuringJob, "gauge counts the job while it runs")
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)),
		"gauge returns to zero after the job")
	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.WorkerJobDuration, "worker_job_duration_seconds"), 1,
		"duration histogram records a sample")
}

func TestInstrument_GaugeRecoversAfterPanickingHandler(t *testing.T) {
	taskType := "instrument-panic-test"

	handler := instrument(taskType, func(client worker.JobClient, job entities.Job) {
		panic("handler blew up")
	})

	require.Panics(t, func() { handler(nil, entities.Job{}) })
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)),
		"deferred decrement runs even when the handler panics")
}
