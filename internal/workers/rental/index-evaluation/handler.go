// internal/workers/rental/index-evaluation/handler.go
package indexevaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "rentcheck-workers/internal/common/errors"
	"rentcheck-workers/internal/common/logger"
	"rentcheck-workers/internal/common/metrics"
	"rentcheck-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	TaskType = "index-evaluation"
)

var (
	ErrInvalidInput     = errors.New("INVALID_INPUT")
	ErrIndexWriteFailed = errors.New("INDEX_WRITE_FAILED")
)

type Handler struct {
	config       *Config
	client       *elasticsearch.Client
	validator    *validation.Validator
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		client:       client,
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
	if strings.TrimSpace(input.EvaluationID) == "" {
		return nil, fmt.Errorf("%w: evaluationId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.UserID) == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	doc := Document{
		EvaluationID: input.EvaluationID,
		UserID:       input.UserID,
		ListingName:  input.ListingName,
		Score:        input.Score,
		Verdict:      input.Verdict,
		Confidence:   input.Confidence,
		Reasons:      input.Reasons,
		CreatedAt:    input.CreatedAt,
		IndexedAt:    now,
	}
	if doc.Reasons == nil {
		doc.Reasons = []string{}
	}
	if doc.CreatedAt == "" {
		doc.CreatedAt = now
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal document: %v", ErrIndexWriteFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      h.config.IndexName,
		DocumentID: input.EvaluationID,
		Body:       bytes.NewReader(body),
		Refresh:    h.config.Refresh,
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexWriteFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrIndexWriteFailed, res.String())
	}

	var indexResult struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&indexResult); err != nil {
		h.logger.Warn("failed to decode index response", map[string]interface{}{
			"error": err,
		})
	}

	h.logger.Info("evaluation indexed", map[string]interface{}{
		"evaluationId": input.EvaluationID,
		"index":        h.config.IndexName,
		"result":       indexResult.Result,
	})

	return &Output{
		Indexed:    true,
		Index:      h.config.IndexName,
		DocumentID: input.EvaluationID,
		Result:     indexResult.Result,
	}, nil
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
	stdErr := convertToStandardError(err, h.config.IndexName)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

func convertToStandardError(err error, indexName string) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidInputError(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("elasticsearch", err)
	case errors.Is(err, ErrIndexWriteFailed):
		return apperrors.NewIndexWriteFailedError(indexName, err)
	default:
		return apperrors.NormalizeError(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
