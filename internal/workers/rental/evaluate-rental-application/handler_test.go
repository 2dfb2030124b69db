// internal/workers/rental/evaluate-rental-application/handler_test.go
package evaluaterentalapplication

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"rentcheck-workers/internal/common/camunda/camundatest"
	"rentcheck-workers/internal/common/logger"
	"rentcheck-workers/internal/common/metrics"
	"rentcheck-workers/internal/common/validation"
	"rentcheck-workers/internal/scoring"
	"rentcheck-workers/pkg/registry"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const testProfileID = "profile-001"

func createTestConfig() *Config {
	return &Config{
		Timeout:            5 * time.Second,
		ProfileCacheTTL:    15 * time.Minute,
		ProfileCachePrefix: "renter:profile:",
	}
}

func createTestHandler(t *testing.T, db *sql.DB, redisClient *redis.Client) *Handler {
	t.Helper()
	reg, err := registry.Default()
	require.NoError(t, err)
	validator, err := validation.NewValidator(reg)
	require.NoError(t, err)
	return NewHandler(createTestConfig(), db, redisClient, validator, logger.NewTestLogger(t))
}

func createTestProfile() scoring.RenterProfile {
	return scoring.RenterProfile{
		RenterType:    "worker",
		MonthlyIncome: 20000,
		Documents:     []string{"bank_statement", "payslip"},
	}
}

func createTestListing(rent int, demand string, required ...string) ListingInput {
	return ListingInput{
		Name: "2-bed flat, Observatory",
		ListingProfile: scoring.ListingProfile{
			Rent:              rent,
			Deposit:           rent,
			RequiredDocuments: required,
			AreaDemand:        demand,
		},
	}
}

func profileRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"renter_type", "monthly_income", "documents_json",
		"is_bursary_student", "guarantor_monthly_income", "stated_budget",
	})
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_InlineRenter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := createTestHandler(t, db, nil)
	profile := createTestProfile()

	before := testutil.ToFloat64(metrics.RentalEvaluations.WithLabelValues("WORTH_APPLYING"))

	output, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-001",
		Renter:        &profile,
		Listing:       createTestListing(6000, "LOW"),
	})
	require.NoError(t, err)

	assert.Equal(t, 100, output.Score)
	assert.Equal(t, scoring.VerdictWorthApplying, output.Verdict)
	assert.Equal(t, scoring.ConfidenceHigh, output.Confidence)
	assert.Equal(t, RenterSourceInline, output.RenterSource)
	assert.Equal(t, "app-001", output.ApplicationID)
	assert.Equal(t, "2-bed flat, Observatory", output.ListingName)
	assert.Equal(t, scoring.BudgetBands{Conservative: 5000, Recommended: 6000, UpperLimit: 7000}, output.BudgetBands)
	assert.NotEmpty(t, output.Breakdown)
	assert.NotEmpty(t, output.EvaluatedAt)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RentalEvaluations.WithLabelValues("WORTH_APPLYING")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_MatchesCore(t *testing.T) {
	handler := createTestHandler(t, nil, nil)
	profile := createTestProfile()
	listing := createTestListing(9000, "LOW", "bank_statement")

	output, err := handler.Execute(context.Background(), &Input{Renter: &profile, Listing: listing})
	require.NoError(t, err)

	expected, bands := scoring.Evaluate(profile, listing.ListingProfile)
	assert.Equal(t, 35, output.Score)
	assert.Equal(t, expected.Score, output.Score)
	assert.Equal(t, expected.Verdict, output.Verdict)
	assert.Equal(t, expected.Reasons, output.Reasons)
	assert.Equal(t, expected.Actions, output.Actions)
	assert.Equal(t, bands, output.BudgetBands)
}

func TestHandler_Execute_ProfileFromCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	cached, _ := json.Marshal(createTestProfile())
	redisMock.ExpectGet("renter:profile:" + testProfileID).SetVal(string(cached))

	handler := createTestHandler(t, db, redisClient)
	output, err := handler.Execute(context.Background(), &Input{
		ProfileID: testProfileID,
		Listing:   createTestListing(6000, "LOW"),
	})
	require.NoError(t, err)

	assert.Equal(t, RenterSourceCache, output.RenterSource)
	assert.Equal(t, 100, output.Score)
	assert.NoError(t, redisMock.ExpectationsWereMet())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ProfileFromDatabase(t *testing.T) {
	tests := []struct {
		name       string
		setupRedis func(mock redismock.ClientMock)
	}{
		{
			name: "cache miss",
			setupRedis: func(mock redismock.ClientMock) {
				mock.ExpectGet("renter:profile:" + testProfileID).RedisNil()
			},
		},
		{
			name: "cache unavailable",
			setupRedis: func(mock redismock.ClientMock) {
				mock.ExpectGet("renter:profile:" + testProfileID).SetErr(errors.New("connection refused"))
			},
		},
		{
			name: "cache holds garbage",
			setupRedis: func(mock redismock.ClientMock) {
				mock.ExpectGet("renter:profile:" + testProfileID).SetVal("{not json")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			redisClient, redisMock := redismock.NewClientMock()
			tt.setupRedis(redisMock)

			mock.ExpectQuery(`SELECT renter_type, monthly_income, documents_json`).
				WithArgs(testProfileID).
				WillReturnRows(profileRows().AddRow("worker", 20000, []byte(`["bank_statement","payslip"]`), false, 0, 0))

			expectedCache, _ := json.Marshal(createTestProfile())
			redisMock.ExpectSet("renter:profile:"+testProfileID, expectedCache, 15*time.Minute).SetVal("OK")

			handler := createTestHandler(t, db, redisClient)
			output, err := handler.Execute(context.Background(), &Input{
				ProfileID: testProfileID,
				Listing:   createTestListing(6000, "LOW"),
			})
			require.NoError(t, err)

			assert.Equal(t, RenterSourceDatabase, output.RenterSource)
			assert.Equal(t, 100, output.Score)
			assert.NoError(t, mock.ExpectationsWereMet())
			assert.NoError(t, redisMock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_ProfileWithoutCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT renter_type`).
		WithArgs(testProfileID).
		WillReturnRows(profileRows().AddRow("student", 5000, []byte(`["proof_of_registration"]`), true, 0, 0))

	listing := createTestListing(7000, "MEDIUM")
	listing.Deposit = 0

	handler := createTestHandler(t, db, nil)
	output, err := handler.Execute(context.Background(), &Input{
		ProfileID: testProfileID,
		Listing:   listing,
	})
	require.NoError(t, err)

	assert.Equal(t, 30, output.Score)
	assert.Equal(t, scoring.VerdictNotWorthIt, output.Verdict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name          string
		input         *Input
		setupMock     func(mock sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name:          "neither renter nor profile",
			input:         &Input{Listing: createTestListing(6000, "LOW")},
			setupMock:     func(mock sqlmock.Sqlmock) {},
			expectedError: ErrInvalidInput,
		},
		{
			name:  "profile not found",
			input: &Input{ProfileID: testProfileID, Listing: createTestListing(6000, "LOW")},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT renter_type`).WithArgs(testProfileID).WillReturnError(sql.ErrNoRows)
			},
			expectedError: ErrProfileNotFound,
		},
		{
			name:  "database failure",
			input: &Input{ProfileID: testProfileID, Listing: createTestListing(6000, "LOW")},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT renter_type`).WithArgs(testProfileID).WillReturnError(errors.New("connection reset"))
			},
			expectedError: ErrProfileLookupFailed,
		},
		{
			name:  "corrupt documents column",
			input: &Input{ProfileID: testProfileID, Listing: createTestListing(6000, "LOW")},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT renter_type`).WithArgs(testProfileID).
					WillReturnRows(profileRows().AddRow("worker", 20000, []byte(`{"payslip"`), false, 0, 0))
			},
			expectedError: ErrProfileLookupFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			handler := createTestHandler(t, db, nil)
			output, err := handler.Execute(context.Background(), tt.input)

			assert.Nil(t, output)
			assert.ErrorIs(t, err, tt.expectedError)
			assert.NotEqual(t, "INTERNAL_ERROR", string(convertToStandardError(err).Code))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestConvertToStandardError(t *testing.T) {
	tests := []struct {
		err       error
		code      string
		retryable bool
	}{
		{ErrInvalidInput, "INVALID_INPUT", false},
		{ErrProfileNotFound, "PROFILE_NOT_FOUND", false},
		{ErrProfileLookupFailed, "PROFILE_LOOKUP_FAILED", true},
		{context.DeadlineExceeded, "TIMEOUT_ERROR", true},
		{errors.New("boom"), "INTERNAL_ERROR", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			stdErr := convertToStandardError(tt.err)
			assert.Equal(t, tt.code, string(stdErr.Code))
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

// ==========================
// Job Handling Tests
// ==========================

func TestHandler_Handle_CompletesJob(t *testing.T) {
	handler := createTestHandler(t, nil, nil)
	client := camundatest.NewJobClient()

	handler.Handle(client, camundatest.NewJob(t, TaskType, map[string]interface{}{
		"applicationId": "app-001",
		"renter": map[string]interface{}{
			"renterType":    "worker",
			"monthlyIncome": 20000,
			"documents":     []string{"bank_statement", "payslip"},
		},
		"listing": map[string]interface{}{
			"name":       "2-bed flat",
			"rent":       6000,
			"deposit":    6000,
			"areaDemand": "LOW",
		},
	}))

	var output Output
	client.CompletedVariables(t, &output)
	assert.Equal(t, 100, output.Score)
	assert.Equal(t, scoring.VerdictWorthApplying, output.Verdict)
	assert.Equal(t, "2-bed flat", output.ListingName)
	assert.Empty(t, client.Thrown())
	assert.Empty(t, client.Failed())
}

func TestHandler_Handle_SchemaViolationThrowsInvalidInput(t *testing.T) {
	handler := createTestHandler(t, nil, nil)
	client := camundatest.NewJobClient()

	handler.Handle(client, camundatest.NewJob(t, TaskType, map[string]interface{}{
		"profileId": testProfileID,
		"listing":   map[string]interface{}{"rent": "six thousand"},
	}))

	thrown := client.Thrown()
	require.Len(t, thrown, 1)
	assert.Equal(t, "INVALID_INPUT", thrown[0].ErrorCode)
	assert.Empty(t, client.Completed())
}

func TestHandler_Handle_LookupFailureIsRetried(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT renter_type`).WithArgs(testProfileID).WillReturnError(errors.New("connection reset"))

	handler := createTestHandler(t, db, nil)
	client := camundatest.NewJobClient()

	handler.Handle(client, camundatest.NewJob(t, TaskType, map[string]interface{}{
		"profileId": testProfileID,
		"listing":   map[string]interface{}{"rent": 6000},
	}))

	failed := client.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, int32(2), failed[0].Retries)
	assert.Empty(t, client.Thrown())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Handle_ProfileNotFoundThrows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT renter_type`).WithArgs(testProfileID).WillReturnError(sql.ErrNoRows)

	handler := createTestHandler(t, db, nil)
	client := camundatest.NewJobClient()

	handler.Handle(client, camundatest.NewJob(t, TaskType, map[string]interface{}{
		"profileId": testProfileID,
		"listing":   map[string]interface{}{"rent": 6000},
	}))

	thrown := client.Thrown()
	require.Len(t, thrown, 1)
	assert.Equal(t, "PROFILE_NOT_FOUND", thrown[0].ErrorCode)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, LoadConfig(nil).Validate())

	cfg := DefaultConfig()
	cfg.ProfileCachePrefix = ""
	assert.Error(t, cfg.Validate())
}
