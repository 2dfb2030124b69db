// internal/workers/rental/record-evaluation/models.go
package recordevaluation

import "rentcheck-workers/internal/scoring"

type Input struct {
	UserID      string              `json:"userId"`
	ProfileID   string              `json:"profileId,omitempty"`
	ListingName string              `json:"listingName,omitempty"`
	Listing     ListingInput        `json:"listing"`
	Result      scoring.ScoreResult `json:"result"`
}

type ListingInput struct {
	Name string `json:"name,omitempty"`
	scoring.ListingProfile
}

type Output struct {
	EvaluationID string `json:"evaluationId"`
	CreatedAt    string `json:"createdAt"` // ISO 8601
}
