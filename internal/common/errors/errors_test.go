// internal/common/errors/errors_test.go
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RetryabilityFollowsCode(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
		retries   int
		category  string
	}{
		{ErrCodeInvalidInput, false, 0, "VALIDATION"},
		{ErrCodeProfileNotFound, false, 0, "PROFILE"},
		{ErrCodeProfileLookupFailed, true, 3, "PROFILE"},
		{ErrCodeDatabaseInsertFailed, true, 3, "DATABASE"},
		{ErrCodeIndexWriteFailed, true, 3, "SEARCH"},
		{ErrCodeElasticsearchConnectionFailed, true, 3, "SEARCH"},
		{ErrCodeNotificationSendFailed, true, 3, "NOTIFICATION"},
		{ErrCodeTimeout, true, 2, "TIMEOUT"},
		{ErrCodeInternal, false, 0, "OTHER"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "details")
			assert.Equal(t, tt.retryable, err.Retryable)
			assert.Equal(t, tt.retries, GetRetryCount(tt.code))
			assert.Equal(t, tt.category, GetErrorCategory(tt.code))
			assert.NotEmpty(t, err.Message)
			assert.False(t, err.Timestamp.IsZero())
		})
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewProfileLookupFailedError("profile-1", cause)

	assert.Equal(t, ErrCodeProfileLookupFailed, err.Code)
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, "profile-1", err.Metadata["profileId"])
	assert.Contains(t, err.Error(), "connection refused")

	// Wrapping an error that already carries a StandardError keeps the original code.
	outer := fmt.Errorf("lookup: %w", err)
	assert.Same(t, err, Wrap(ErrCodeInternal, outer))
	assert.Equal(t, ErrCodeProfileLookupFailed, CodeOf(outer))
	assert.Equal(t, ErrCodeInternal, CodeOf(stderrors.New("plain")))
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewIndexWriteFailedError("rental-evaluations", stderrors.New("status 503"))
	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "INDEX_WRITE_FAILED", bpmnErr.Code)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 3, bpmnErr.Retries)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "INDEX_WRITE_FAILED", vars["errorCode"])
	assert.Equal(t, "SEARCH", vars["errorCategory"])
	assert.Equal(t, "rental-evaluations", vars["indexName"])
	assert.Equal(t, "status 503", vars["errorDetails"])

	business := ConvertToBPMNError(NewInvalidInputError("listing.rent is required"))
	assert.Equal(t, "INVALID_INPUT", business.Code)
	assert.Equal(t, 0, business.Retries)
}

func TestNormalizeError(t *testing.T) {
	stdErr := NewProfileNotFoundError("p-9")
	assert.Same(t, stdErr, NormalizeError(fmt.Errorf("wrapped: %w", stdErr)))

	timeout := NormalizeError(fmt.Errorf("query: %w", context.DeadlineExceeded))
	assert.Equal(t, ErrCodeTimeout, timeout.Code)
	assert.True(t, timeout.Retryable)

	unknown := NormalizeError(stderrors.New("boom"))
	require.NotNil(t, unknown)
	assert.Equal(t, ErrCodeInternal, unknown.Code)
	assert.False(t, unknown.Retryable)
}

func TestRemainingRetries(t *testing.T) {
	retryable := NewDatabaseInsertFailedError(stderrors.New("deadlock"))
	business := NewInvalidInputError("bad")

	assert.Equal(t, 2, RemainingRetries(retryable, 3))
	assert.Equal(t, 3, RemainingRetries(retryable, 10))
	assert.Equal(t, 0, RemainingRetries(retryable, 1))
	assert.Equal(t, 0, RemainingRetries(retryable, 0))
	assert.Equal(t, 0, RemainingRetries(business, 5))
}
