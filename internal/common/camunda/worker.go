// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"rentcheck-workers/internal/common/config"
	"rentcheck-workers/internal/common/errors"
	"rentcheck-workers/internal/common/logger"
	"rentcheck-workers/internal/common/metrics"
	"rentcheck-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// CamundaWorker is an open job worker for one task type.
type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType with the limits from wcfg. The
// handler is wrapped by Instrument.
func NewWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handler worker.JobHandler,
	obs *observability.Observability,
	log logger.Logger,
) *CamundaWorker {
	log = log.WithFields(map[string]interface{}{"taskType": taskType})

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, obs, log)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(wcfg.TimeoutDuration()).
		Open()

	log.Info("worker started", map[string]interface{}{
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})

	return &CamundaWorker{
		worker:   jobWorker,
		logger:   log,
		taskType: taskType,
	}
}

// Instrument tracks active jobs and duration for handler. A panicking handler
// fails the job with INTERNAL_ERROR instead of taking the worker down.
func Instrument(taskType string, handler worker.JobHandler, obs *observability.Observability, log logger.Logger) worker.JobHandler {
	errHandler := errors.NewErrorHandler(log)

	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		status := "handled"

		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()

		defer func() {
			if r := recover(); r != nil {
				status = "panic"
				log.Error("handler panicked", map[string]interface{}{
					"jobKey": job.Key,
					"panic":  fmt.Sprint(r),
				})
				metrics.WorkerJobsFailed.WithLabelValues(taskType, string(errors.ErrCodeInternal)).Inc()
				errHandler.HandleJobError(context.Background(), client, job,
					errors.New(errors.ErrCodeInternal, fmt.Sprintf("panic: %v", r)))
			}

			elapsed := time.Since(start)
			active.Dec()
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
			obs.RecordJobProcessed(context.Background(), taskType, status)
			obs.RecordJobDuration(context.Background(), taskType, elapsed, status)
		}()

		handler(client, job)
	}
}

// Stop closes the job worker and waits for in-flight jobs. The shared Zeebe
// client is closed by its owner.
func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}
