// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentcheck-workers/internal/common/config"
	"rentcheck-workers/internal/common/database"
	"rentcheck-workers/internal/common/logger"
	"rentcheck-workers/internal/common/validation"
	"rentcheck-workers/internal/scoring"
	"rentcheck-workers/pkg/registry"

	checkdocumentreadiness "rentcheck-workers/internal/workers/rental/check-document-readiness"
	evaluaterentalapplication "rentcheck-workers/internal/workers/rental/evaluate-rental-application"
	indexevaluation "rentcheck-workers/internal/workers/rental/index-evaluation"
	notifyrenter "rentcheck-workers/internal/workers/rental/notify-renter"
	recordevaluation "rentcheck-workers/internal/workers/rental/record-evaluation"
	suggestbudget "rentcheck-workers/internal/workers/rental/suggest-budget"
)

// The suite talks to real Zeebe, Postgres, Redis and Elasticsearch instances.
// It only runs when RENTCHECK_E2E=1, e.g. against the docker compose stack.
const enableEnv = "RENTCHECK_E2E"

type services struct {
	cfg       *config.Config
	pg        *database.PostgresClient
	redis     *database.RedisClient
	es        *database.ElasticsearchClient
	validator *validation.Validator
	log       logger.Logger
}

func setupServices(t *testing.T) *services {
	t.Helper()
	if os.Getenv(enableEnv) != "1" {
		t.Skipf("set %s=1 to run end-to-end tests", enableEnv)
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "postgres client")
	require.NoError(t, pg.Ping(ctx), "postgres ping")
	require.NoError(t, pg.EnsureSchema(ctx))
	t.Cleanup(func() { pg.Close() })

	rdb := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, rdb.Ping(ctx), "redis ping")
	t.Cleanup(func() { rdb.Close() })

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err, "elasticsearch client")
	require.NoError(t, es.Ping(ctx), "elasticsearch ping")
	_, err = es.EnsureIndex(ctx, cfg.Scoring.IndexName, indexevaluation.IndexMapping)
	require.NoError(t, err)

	reg, err := registry.Default()
	require.NoError(t, err)
	validator, err := validation.NewValidator(reg)
	require.NoError(t, err)

	return &services{
		cfg:       cfg,
		pg:        pg,
		redis:     rdb,
		es:        es,
		validator: validator,
		log:       logger.NewTestLogger(t),
	}
}

func TestZeebeTopology(t *testing.T) {
	s := setupServices(t)

	client, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         s.cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: s.cfg.Camunda.Plaintext,
	})
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	topology, err := client.NewTopologyCommand().Send(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, topology.Brokers)
}

// TestRentalCheckFlow runs the workers in process order against real stores:
// evaluate from a stored profile, evaluate again from cache, record, index
// and notify with every channel disabled.
func TestRentalCheckFlow(t *testing.T) {
	s := setupServices(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	profileID := "e2e-" + uuid.NewString()
	userID := "e2e-user-" + uuid.NewString()
	_, err := s.pg.DB.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, renter_type, monthly_income, documents_json)
		 VALUES ($1, $2, 'worker', 20000, '["bank_statement","payslip","id_document"]')`,
		profileID, userID)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.pg.DB.Exec(`DELETE FROM profiles WHERE id = $1`, profileID)
		_, _ = s.redis.InvalidateProfiles(context.Background(), s.cfg.Scoring.ProfileCachePrefix, profileID)
	})

	evaluate := evaluaterentalapplication.NewHandler(
		evaluaterentalapplication.LoadConfig(s.cfg), s.pg.DB, s.redis.Client, s.validator, s.log)

	listing := evaluaterentalapplication.ListingInput{
		Name: "E2E Flat",
		ListingProfile: scoring.ListingProfile{
			Rent:              6000,
			Deposit:           6000,
			RequiredDocuments: []string{"bank_statement"},
			AreaDemand:        "HIGH",
		},
	}

	first, err := evaluate.Execute(ctx, &evaluaterentalapplication.Input{ProfileID: profileID, Listing: listing})
	require.NoError(t, err)
	assert.Equal(t, evaluaterentalapplication.RenterSourceDatabase, first.RenterSource)

	second, err := evaluate.Execute(ctx, &evaluaterentalapplication.Input{ProfileID: profileID, Listing: listing})
	require.NoError(t, err)
	assert.Equal(t, evaluaterentalapplication.RenterSourceCache, second.RenterSource)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Verdict, second.Verdict)

	record := recordevaluation.NewHandler(recordevaluation.LoadConfig(s.cfg), s.pg.DB, s.validator, s.log)
	recorded, err := record.Execute(ctx, &recordevaluation.Input{
		UserID:    userID,
		ProfileID: profileID,
		Listing: recordevaluation.ListingInput{
			Name:           listing.Name,
			ListingProfile: listing.ListingProfile,
		},
		Result: scoring.ScoreResult{
			Score:      first.Score,
			Verdict:    first.Verdict,
			Confidence: first.Confidence,
			Reasons:    first.Reasons,
			Actions:    first.Actions,
			Breakdown:  first.Breakdown,
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		s.pg.DB.Exec(`DELETE FROM evaluations WHERE id = $1`, recorded.EvaluationID)
	})

	var storedScore int
	require.NoError(t, s.pg.DB.QueryRowContext(ctx,
		`SELECT score FROM evaluations WHERE id = $1`, recorded.EvaluationID).Scan(&storedScore))
	assert.Equal(t, first.Score, storedScore)

	index := indexevaluation.NewHandler(indexevaluation.LoadConfig(s.cfg), s.es.Client, s.validator, s.log)
	indexed, err := index.Execute(ctx, &indexevaluation.Input{
		EvaluationID: recorded.EvaluationID,
		UserID:       userID,
		ListingName:  listing.Name,
		Score:        first.Score,
		Verdict:      string(first.Verdict),
		Confidence:   string(first.Confidence),
		Reasons:      first.Reasons,
		CreatedAt:    recorded.CreatedAt,
	})
	require.NoError(t, err)
	assert.True(t, indexed.Indexed)
	assert.Equal(t, recorded.EvaluationID, indexed.DocumentID)

	notify := notifyrenter.NewHandler(notifyrenter.LoadConfig(s.cfg), nil, nil, s.validator, s.log)
	notified, err := notify.Execute(ctx, &notifyrenter.Input{
		Email:       "renter@example.com",
		ListingName: listing.Name,
		Score:       first.Score,
		Verdict:     string(first.Verdict),
		Confidence:  string(first.Confidence),
		Actions:     first.Actions,
		Channels:    []string{notifyrenter.ChannelEmail},
	})
	require.NoError(t, err)
	assert.Empty(t, notified.Sent)
	assert.Equal(t, []string{notifyrenter.ChannelEmail}, notified.Skipped)
}

func TestStatelessWorkers(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	budget := suggestbudget.NewHandler(suggestbudget.LoadConfig(s.cfg), s.validator, s.log)
	bands, err := budget.Execute(ctx, &suggestbudget.Input{MonthlyIncome: 20000})
	require.NoError(t, err)
	assert.Equal(t, scoring.BudgetBands{Conservative: 5000, Recommended: 6000, UpperLimit: 7000}, bands.BudgetBands)

	docs := checkdocumentreadiness.NewHandler(checkdocumentreadiness.LoadConfig(s.cfg), s.validator, s.log)
	readiness, err := docs.Execute(ctx, &checkdocumentreadiness.Input{
		RenterType:        "student",
		Documents:         []string{"proof_of_registration"},
		RequiredDocuments: []string{"bank_statement"},
	})
	require.NoError(t, err)
	assert.False(t, readiness.Ready)
	assert.Contains(t, readiness.MissingRequired, "bank_statement")
}

func BenchmarkEvaluateInline(b *testing.B) {
	handler := evaluaterentalapplication.NewHandler(
		evaluaterentalapplication.DefaultConfig(), nil, nil, nil, logger.NewNoOpLogger())
	input := &evaluaterentalapplication.Input{
		Renter: &scoring.RenterProfile{
			RenterType:    "worker",
			MonthlyIncome: 20000,
			Documents:     []string{"bank_statement", "payslip"},
		},
		Listing: evaluaterentalapplication.ListingInput{
			ListingProfile: scoring.ListingProfile{Rent: 6000, Deposit: 6000, AreaDemand: "HIGH"},
		},
	}

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := handler.Execute(ctx, input); err != nil {
			b.Fatal(fmt.Errorf("evaluate: %w", err))
		}
	}
}
