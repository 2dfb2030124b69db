// internal/workers/rental/notify-renter/handler.go
package notifyrenter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentcheck-workers/internal/common/aws"
	apperrors "rentcheck-workers/internal/common/errors"
	"rentcheck-workers/internal/common/logger"
	"rentcheck-workers/internal/common/metrics"
	"rentcheck-workers/internal/common/validation"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "notify-renter"
)

var (
	ErrInvalidInput           = errors.New("INVALID_INPUT")
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config       *Config
	sesClient    SESService
	snsClient    SNSService
	validator    *validation.Validator
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the handler. A nil client disables its channel.
func NewHandler(config *Config, sesClient SESService, snsClient SNSService, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		sesClient:    sesClient,
		snsClient:    snsClient,
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
	channels, err := h.validateInput(input)
	if err != nil {
		return nil, err
	}

	output := &Output{
		Sent:   []string{},
		Failed: []string{},
		SentAt: time.Now().UTC().Format(time.RFC3339),
	}
	var sendErrs []string

	for _, channel := range channels {
		if !h.channelEnabled(channel) {
			h.logger.Info("notification channel disabled", map[string]interface{}{
				"channel": channel,
			})
			metrics.NotificationsSent.WithLabelValues(channel, StatusDisabled).Inc()
			output.Skipped = append(output.Skipped, channel)
			continue
		}

		if err := h.send(ctx, channel, input); err != nil {
			h.logger.Error("notification send failed", map[string]interface{}{
				"channel": channel,
				"error":   err,
			})
			metrics.NotificationsSent.WithLabelValues(channel, StatusFailed).Inc()
			output.Failed = append(output.Failed, channel)
			sendErrs = append(sendErrs, fmt.Sprintf("%s: %v", channel, err))
			continue
		}

		metrics.NotificationsSent.WithLabelValues(channel, StatusSent).Inc()
		output.Sent = append(output.Sent, channel)
	}

	if len(output.Failed) > 0 && len(output.Sent) == 0 && len(output.Skipped) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotificationSendFailed, strings.Join(sendErrs, "; "))
	}

	h.logger.Info("renter notified", map[string]interface{}{
		"verdict": input.Verdict,
		"sent":    output.Sent,
		"failed":  output.Failed,
		"skipped": output.Skipped,
	})
	return output, nil
}

// validateInput returns the requested channels without duplicates.
func (h *Handler) validateInput(input *Input) ([]string, error) {
	if strings.TrimSpace(input.Verdict) == "" {
		return nil, fmt.Errorf("%w: verdict is required", ErrInvalidInput)
	}
	if len(input.Channels) == 0 {
		return nil, fmt.Errorf("%w: at least one channel is required", ErrInvalidInput)
	}

	seen := make(map[string]bool, len(input.Channels))
	channels := make([]string, 0, len(input.Channels))
	for _, channel := range input.Channels {
		channel = strings.ToLower(strings.TrimSpace(channel))
		if seen[channel] {
			continue
		}
		seen[channel] = true

		switch channel {
		case ChannelEmail:
			if !validation.ValidateEmail(input.Email) {
				return nil, fmt.Errorf("%w: invalid email %q", ErrInvalidInput, input.Email)
			}
		case ChannelSMS:
			if !validation.ValidatePhone(input.Phone) {
				return nil, fmt.Errorf("%w: phone %q is not in E.164 format", ErrInvalidInput, input.Phone)
			}
		default:
			return nil, fmt.Errorf("%w: unknown channel %q", ErrInvalidInput, channel)
		}
		channels = append(channels, channel)
	}
	return channels, nil
}

func (h *Handler) channelEnabled(channel string) bool {
	switch channel {
	case ChannelEmail:
		return h.config.EmailEnabled && h.sesClient != nil
	case ChannelSMS:
		return h.config.SMSEnabled && h.snsClient != nil
	}
	return false
}

func (h *Handler) send(ctx context.Context, channel string, input *Input) error {
	switch channel {
	case ChannelEmail:
		_, err := h.sesClient.SendEmail(ctx, aws.NewTextEmail(h.config.FromEmail, input.Email, emailSubject(input), emailBody(input)))
		return err
	case ChannelSMS:
		_, err := h.snsClient.Publish(ctx, aws.NewTransactionalSMS(input.Phone, smsBody(input), h.config.SenderID))
		return err
	}
	return fmt.Errorf("unknown channel %q", channel)
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
	case errors.Is(err, ErrNotificationSendFailed):
		return apperrors.Wrap(apperrors.ErrCodeNotificationSendFailed, err)
	default:
		return apperrors.NormalizeError(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
