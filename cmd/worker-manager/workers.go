// cmd/worker-manager/workers.go
package main

import (
	"database/sql"
	"fmt"

	"rentcheck-workers/internal/common/aws"
	"rentcheck-workers/internal/common/camunda"
	"rentcheck-workers/internal/common/config"
	"rentcheck-workers/internal/common/logger"
	"rentcheck-workers/internal/common/observability"
	"rentcheck-workers/internal/common/validation"

	cdr "rentcheck-workers/internal/workers/rental/check-document-readiness"
	era "rentcheck-workers/internal/workers/rental/evaluate-rental-application"
	ie "rentcheck-workers/internal/workers/rental/index-evaluation"
	nr "rentcheck-workers/internal/workers/rental/notify-renter"
	re "rentcheck-workers/internal/workers/rental/record-evaluation"
	sb "rentcheck-workers/internal/workers/rental/suggest-budget"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
)

// dependencies are the shared clients handed to worker handlers.
type dependencies struct {
	cfg       *config.Config
	db        *sql.DB
	redis     *redis.Client
	es        *elasticsearch.Client
	aws       *aws.Clients
	validator *validation.Validator
	obs       *observability.Observability
	log       logger.Logger
}

type validatable interface {
	Validate() error
}

// workerSpec builds the handler for one task type.
type workerSpec struct {
	taskType string
	build    func(d *dependencies) (worker.JobHandler, validatable)
}

var workerSpecs = []workerSpec{
	{
		taskType: era.TaskType,
		build: func(d *dependencies) (worker.JobHandler, validatable) {
			cfg := era.LoadConfig(d.cfg)
			return era.NewHandler(cfg, d.db, d.redis, d.validator, d.log).Handle, cfg
		},
	},
	{
		taskType: sb.TaskType,
		build: func(d *dependencies) (worker.JobHandler, validatable) {
			cfg := sb.LoadConfig(d.cfg)
			return sb.NewHandler(cfg, d.validator, d.log).Handle, cfg
		},
	},
	{
		taskType: cdr.TaskType,
		build: func(d *dependencies) (worker.JobHandler, validatable) {
			cfg := cdr.LoadConfig(d.cfg)
			return cdr.NewHandler(cfg, d.validator, d.log).Handle, cfg
		},
	},
	{
		taskType: re.TaskType,
		build: func(d *dependencies) (worker.JobHandler, validatable) {
			cfg := re.LoadConfig(d.cfg)
			return re.NewHandler(cfg, d.db, d.validator, d.log).Handle, cfg
		},
	},
	{
		taskType: ie.TaskType,
		build: func(d *dependencies) (worker.JobHandler, validatable) {
			cfg := ie.LoadConfig(d.cfg)
			return ie.NewHandler(cfg, d.es, d.validator, d.log).Handle, cfg
		},
	},
	{
		taskType: nr.TaskType,
		build: func(d *dependencies) (worker.JobHandler, validatable) {
			cfg := nr.LoadConfig(d.cfg)
			// Typed nil clients must not reach the handler as non-nil interfaces.
			var sesClient nr.SESService
			var snsClient nr.SNSService
			if d.aws != nil {
				sesClient = d.aws.SES
				snsClient = d.aws.SNS
			}
			return nr.NewHandler(cfg, sesClient, snsClient, d.validator, d.log).Handle, cfg
		},
	},
}

// buildHandlers validates and builds the handler of every enabled worker.
func buildHandlers(d *dependencies) (map[string]worker.JobHandler, error) {
	handlers := make(map[string]worker.JobHandler, len(workerSpecs))
	for _, spec := range workerSpecs {
		if !config.IsWorkerEnabled(d.cfg, spec.taskType) {
			d.log.Info("worker disabled", map[string]interface{}{"taskType": spec.taskType})
			continue
		}
		if !d.validator.HasSchema(spec.taskType) {
			d.log.Warn("no input schema registered", map[string]interface{}{"taskType": spec.taskType})
		}
		handler, cfg := spec.build(d)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s config: %w", spec.taskType, err)
		}
		handlers[spec.taskType] = handler
	}
	return handlers, nil
}

func registerWorkers(client zbc.Client, d *dependencies) ([]*camunda.CamundaWorker, error) {
	handlers, err := buildHandlers(d)
	if err != nil {
		return nil, err
	}

	workers := make([]*camunda.CamundaWorker, 0, len(handlers))
	for _, spec := range workerSpecs {
		handler, ok := handlers[spec.taskType]
		if !ok {
			continue
		}
		wcfg := config.GetWorkerConfig(d.cfg, spec.taskType)
		workers = append(workers, camunda.NewWorker(client, spec.taskType, wcfg, handler, d.obs, d.log))
	}
	return workers, nil
}
