// cmd/tools/worker-generator/templates.go
package main

const configTemplate = `package {{ .PackageName }}

import (
	"fmt"
	"time"

	"rentcheck-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func DefaultConfig() *Config {
	timeout, _ := time.ParseDuration("{{ .Timeout }}")
	return &Config{
		Timeout: timeout,
	}
}

func LoadConfig(appConfig *config.Config) *Config {
	cfg := DefaultConfig()
	if appConfig != nil {
		if timeout := config.GetWorkerConfig(appConfig, TaskType).TimeoutDuration(); timeout > 0 {
			cfg.Timeout = timeout
		}
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
`

const modelsTemplate = `package {{ .PackageName }}

type Input struct {
{{ .InputFields }}
}

type Output struct {
{{ .OutputFields }}
}
`

const handlerTemplate = `package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "rentcheck-workers/internal/common/errors"
	"rentcheck-workers/internal/common/logger"
	"rentcheck-workers/internal/common/metrics"
	"rentcheck-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "{{ .TaskType }}"
)

var (
{{- range .ErrorCodes }}
	{{ .Var }} = errors.New("{{ .Code }}")
{{- end }}
)

// Handler implements {{ .Name }}: {{ .Description }}
type Handler struct {
	config       *Config
	validator    *validation.Validator
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		validator:    validator,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	raw := []byte(job.Variables)
	if h.validator != nil {
		result, err := h.validator.Validate(TaskType, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if !result.Valid {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(result.GetErrorMessages(), "; "))
		}
	}

	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, fmt.Errorf("%w: parse input: %v", ErrInvalidInput, err)
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	return nil, fmt.Errorf("%s is not implemented", TaskType)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := convertToStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

func convertToStandardError(err error) *apperrors.StandardError {
	switch {
{{- range .ErrorCodes }}
	case errors.Is(err, {{ .Var }}):
		return apperrors.New(apperrors.ErrorCode("{{ .Code }}"), err.Error())
{{- end }}
	default:
		return apperrors.NormalizeError(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"testing"

	"rentcheck-workers/internal/common/camunda/camundatest"
	"rentcheck-workers/internal/common/logger"
	"rentcheck-workers/internal/common/validation"
	"rentcheck-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	reg, err := registry.Default()
	require.NoError(t, err)
	validator, err := validation.NewValidator(reg)
	require.NoError(t, err)
	return NewHandler(DefaultConfig(), validator, logger.NewTestLogger(t))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestHandler_Handle_MalformedVariablesThrowInvalidInput(t *testing.T) {
	handler := createTestHandler(t)
	client := camundatest.NewJobClient()

	handler.Handle(client, camundatest.NewJob(t, TaskType, "{not json"))

	thrown := client.Thrown()
	require.Len(t, thrown, 1)
	assert.Equal(t, "INVALID_INPUT", thrown[0].ErrorCode)
}
`
