// internal/workers/rental/evaluate-rental-application/handler.go
package evaluaterentalapplication

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "rentcheck-workers/internal/common/errors"
	"rentcheck-workers/internal/common/logger"
	"rentcheck-workers/internal/common/metrics"
	"rentcheck-workers/internal/common/validation"
	"rentcheck-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "evaluate-rental-application"
)

var (
	ErrInvalidInput        = errors.New("INVALID_INPUT")
	ErrProfileNotFound     = errors.New("PROFILE_NOT_FOUND")
	ErrProfileLookupFailed = errors.New("PROFILE_LOOKUP_FAILED")
)

type Handler struct {
	config       *Config
	db           *sql.DB
	redis        *redis.Client
	validator    *validation.Validator
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the handler. redis may be nil to disable profile caching
// and validator may be nil to skip schema checks.
func NewHandler(config *Config, db *sql.DB, redis *redis.Client, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		redis:        redis,
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
	renter, source, err := h.resolveRenter(ctx, input)
	if err != nil {
		return nil, err
	}

	result, bands := scoring.Evaluate(*renter, input.Listing.ListingProfile)
	metrics.ObserveEvaluation(string(result.Verdict), result.Score)

	h.logger.Info("rental application evaluated", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"profileId":     input.ProfileID,
		"renterSource":  source,
		"score":         result.Score,
		"verdict":       result.Verdict,
		"confidence":    result.Confidence,
	})

	return &Output{
		ApplicationID: input.ApplicationID,
		ProfileID:     input.ProfileID,
		ListingName:   input.Listing.Name,
		Score:         result.Score,
		Verdict:       result.Verdict,
		Confidence:    result.Confidence,
		Reasons:       result.Reasons,
		Actions:       result.Actions,
		Breakdown:     result.Breakdown,
		BudgetBands:   bands,
		RenterSource:  source,
		EvaluatedAt:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// resolveRenter prefers an inline renter over a stored profile.
func (h *Handler) resolveRenter(ctx context.Context, input *Input) (*scoring.RenterProfile, string, error) {
	if input.Renter != nil {
		return input.Renter, RenterSourceInline, nil
	}
	if strings.TrimSpace(input.ProfileID) == "" {
		return nil, "", fmt.Errorf("%w: either renter or profileId is required", ErrInvalidInput)
	}
	if h.db == nil {
		return nil, "", fmt.Errorf("%w: no profile store configured", ErrProfileLookupFailed)
	}
	return h.loadProfile(ctx, input.ProfileID)
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
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidInputError(err.Error())
	case errors.Is(err, ErrProfileNotFound):
		return apperrors.New(apperrors.ErrCodeProfileNotFound, err.Error())
	case errors.Is(err, ErrProfileLookupFailed):
		return apperrors.Wrap(apperrors.ErrCodeProfileLookupFailed, err)
	default:
		return apperrors.NormalizeError(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
