// internal/workers/rental/evaluate-rental-application/models.go
package evaluaterentalapplication

import "rentcheck-workers/internal/scoring"

type Input struct {
	ApplicationID string                 `json:"applicationId,omitempty"`
	ProfileID     string                 `json:"profileId,omitempty"`
	Renter        *scoring.RenterProfile `json:"renter,omitempty"`
	Listing       ListingInput           `json:"listing"`
}

// ListingInput is the listing snapshot plus a display name.
type ListingInput struct {
	Name string `json:"name,omitempty"`
	scoring.ListingProfile
}

type Output struct {
	ApplicationID string                    `json:"applicationId,omitempty"`
	ProfileID     string                    `json:"profileId,omitempty"`
	ListingName   string                    `json:"listingName,omitempty"`
	Score         int                       `json:"score"`
	Verdict       scoring.Verdict           `json:"verdict"`
	Confidence    scoring.Confidence        `json:"confidence"`
	Reasons       []string                  `json:"reasons"`
	Actions       []string                  `json:"actions"`
	Breakdown     []scoring.RuleApplication `json:"breakdown"`
	BudgetBands   scoring.BudgetBands       `json:"budgetBands"`
	RenterSource  string                    `json:"renterSource"`
	EvaluatedAt   string                    `json:"evaluatedAt"` // ISO 8601
}

// Where the renter profile came from.
const (
	RenterSourceInline   = "inline"
	RenterSourceCache    = "cache"
	RenterSourceDatabase = "database"
)
