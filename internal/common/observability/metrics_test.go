// internal/common/observability/metrics_test.go
package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	"rentcheck-workers/internal/common/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_RecordsJobs(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := New("rentcheck-test", logger.NewTestLogger(t), WithRegisterer(reg), WithoutGlobalProvider())
	defer obs.Shutdown()

	ctx := context.Background()
	obs.RecordJobProcessed(ctx, "suggest-budget", "completed")
	obs.RecordJobProcessed(ctx, "suggest-budget", "completed")
	obs.RecordJobDuration(ctx, "suggest-budget", 120*time.Millisecond, "completed")

	families, err := reg.Gather()
	require.NoError(t, err)

	var counterValue float64
	var histogramCount uint64
	for _, mf := range families {
		switch {
		case strings.HasPrefix(mf.GetName(), "jobs_processed"):
			for _, m := range mf.GetMetric() {
				counterValue += m.GetCounter().GetValue()
			}
		case strings.HasPrefix(mf.GetName(), "jobs_duration"):
			for _, m := range mf.GetMetric() {
				histogramCount += m.GetHistogram().GetSampleCount()
			}
		}
	}

	assert.Equal(t, float64(2), counterValue)
	assert.Equal(t, uint64(1), histogramCount)
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability
	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(context.Background(), "notify-renter", "completed")
		obs.RecordJobDuration(context.Background(), "notify-renter", time.Second, "completed")
		obs.Shutdown()
	})

	empty := &Observability{}
	assert.NotPanics(t, func() {
		empty.RecordJobProcessed(context.Background(), "notify-renter", "completed")
		empty.Shutdown()
	})
}
