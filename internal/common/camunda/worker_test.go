// internal/common/camunda/worker_test.go
package camunda

import (
	"testing"

	"rentcheck-workers/internal/common/camunda/camundatest"
	"rentcheck-workers/internal/common/logger"
	"rentcheck-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument_RunsHandler(t *testing.T) {
	const taskType = "instrument-test"
	called := 0

	handler := Instrument(taskType, func(client worker.JobClient, job entities.Job) {
		called++
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
	}, nil, logger.NewTestLogger(t))

	client := camundatest.NewJobClient()
	handler(client, camundatest.NewJob(t, taskType, map[string]interface{}{}))

	assert.Equal(t, 1, called)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
	assert.Empty(t, client.Thrown())
}

func TestInstrument_RecoversPanic(t *testing.T) {
	const taskType = "instrument-panic-test"

	handler := Instrument(taskType, func(client worker.JobClient, job entities.Job) {
		panic("nil listing")
	}, nil, logger.NewTestLogger(t))

	client := camundatest.NewJobClient()
	require.NotPanics(t, func() {
		handler(client, camundatest.NewJob(t, taskType, map[string]interface{}{}))
	})

	thrown := client.Thrown()
	require.Len(t, thrown, 1)
	assert.Equal(t, "INTERNAL_ERROR", thrown[0].ErrorCode)
	assert.Contains(t, thrown[0].Variables, "nil listing")
	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues(taskType, "INTERNAL_ERROR")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
}
