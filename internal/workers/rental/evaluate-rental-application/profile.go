// internal/workers/rental/evaluate-rental-application/profile.go
package evaluaterentalapplication

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"rentcheck-workers/internal/common/metrics"
	"rentcheck-workers/internal/scoring"

	"github.com/redis/go-redis/v9"
)

const profileQuery = `SELECT renter_type, monthly_income, documents_json, is_bursary_student,
		guarantor_monthly_income, stated_budget
	FROM profiles WHERE id = $1`

// loadProfile resolves a stored renter profile, reading through the Redis cache.
// Cache failures are logged and fall back to Postgres.
func (h *Handler) loadProfile(ctx context.Context, profileID string) (*scoring.RenterProfile, string, error) {
	cacheKey := h.config.ProfileCachePrefix + profileID

	if h.redis != nil {
		val, err := h.redis.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			var profile scoring.RenterProfile
			if jsonErr := json.Unmarshal([]byte(val), &profile); jsonErr == nil {
				metrics.ProfileCacheLookups.WithLabelValues("hit").Inc()
				return &profile, RenterSourceCache, nil
			}
			h.logger.Warn("discarding undecodable cached profile", map[string]interface{}{
				"profileId": profileID,
			})
			metrics.ProfileCacheLookups.WithLabelValues("error").Inc()
		case errors.Is(err, redis.Nil):
			metrics.ProfileCacheLookups.WithLabelValues("miss").Inc()
		default:
			h.logger.Warn("profile cache read failed", map[string]interface{}{
				"profileId": profileID,
				"error":     err.Error(),
			})
			metrics.ProfileCacheLookups.WithLabelValues("error").Inc()
		}
	}

	var profile scoring.RenterProfile
	var documentsJSON []byte
	err := h.db.QueryRowContext(ctx, profileQuery, profileID).Scan(
		&profile.RenterType,
		&profile.MonthlyIncome,
		&documentsJSON,
		&profile.IsBursaryStudent,
		&profile.GuarantorMonthlyIncome,
		&profile.StatedBudget,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", fmt.Errorf("%w: %s", ErrProfileNotFound, profileID)
		}
		return nil, "", fmt.Errorf("%w: %v", ErrProfileLookupFailed, err)
	}

	if len(documentsJSON) > 0 {
		if err := json.Unmarshal(documentsJSON, &profile.Documents); err != nil {
			return nil, "", fmt.Errorf("%w: decode documents for profile %s: %w", ErrProfileLookupFailed, profileID, err)
		}
	}

	if h.redis != nil && h.config.ProfileCacheTTL > 0 {
		h.cacheProfile(ctx, cacheKey, profileID, &profile)
	}

	return &profile, RenterSourceDatabase, nil
}

// cacheProfile stores profile under key. Failures only cost a later cache miss.
func (h *Handler) cacheProfile(ctx context.Context, key, profileID string, profile *scoring.RenterProfile) {
	data, err := json.Marshal(profile)
	if err != nil {
		h.logger.Warn("profile cache encode failed", map[string]interface{}{
			"profileId": profileID,
			"error":     err.Error(),
		})
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.ProfileCacheTTL).Err(); err != nil {
		h.logger.Warn("profile cache write failed", map[string]interface{}{
			"profileId": profileID,
			"error":     err.Error(),
		})
	}
}
