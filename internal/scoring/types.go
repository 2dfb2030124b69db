// internal/scoring/types.go
package scoring

import "strings"

// RenterType is the applicant category that selects document rules.
type RenterType string

const (
	RenterWorker          RenterType = "worker"
	RenterNewProfessional RenterType = "new_professional"
	RenterStudent         RenterType = "student"
)

// DemandLevel is the competitiveness of the listing's area.
type DemandLevel string

const (
	DemandLow    DemandLevel = "LOW"
	DemandMedium DemandLevel = "MEDIUM"
	DemandHigh   DemandLevel = "HIGH"
)

type Verdict string

const (
	VerdictWorthApplying Verdict = "WORTH_APPLYING"
	VerdictBorderline    Verdict = "BORDERLINE"
	VerdictNotWorthIt    Verdict = "NOT_WORTH_IT"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// RenterTypes lists the accepted renter types in display order.
func RenterTypes() []RenterType {
	return []RenterType{RenterWorker, RenterNewProfessional, RenterStudent}
}

// DemandLevels lists the accepted demand levels in display order.
func DemandLevels() []DemandLevel {
	return []DemandLevel{DemandLow, DemandMedium, DemandHigh}
}

// ParseRenterType normalizes free-form input. Unknown values fall back to worker.
func ParseRenterType(raw string) RenterType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "new_professional", "recent_grad":
		return RenterNewProfessional
	case "student":
		return RenterStudent
	default:
		return RenterWorker
	}
}

// ParseDemandLevel normalizes free-form input. Unknown values fall back to MEDIUM.
func ParseDemandLevel(raw string) DemandLevel {
	switch DemandLevel(strings.ToUpper(strings.TrimSpace(raw))) {
	case DemandLow:
		return DemandLow
	case DemandHigh:
		return DemandHigh
	default:
		return DemandMedium
	}
}

// RenterProfile is the applicant snapshot for a single evaluation.
type RenterProfile struct {
	RenterType             string   `json:"renterType"`
	MonthlyIncome          int      `json:"monthlyIncome"`
	Documents              []string `json:"documents"`
	IsBursaryStudent       bool     `json:"isBursaryStudent"`
	GuarantorMonthlyIncome int      `json:"guarantorMonthlyIncome"`
	StatedBudget           int      `json:"statedBudget,omitempty"`
}

// ListingProfile is the target listing snapshot for a single evaluation.
type ListingProfile struct {
	Rent              int      `json:"rent"`
	Deposit           int      `json:"deposit"`
	ApplicationFee    int      `json:"applicationFee"`
	RequiredDocuments []string `json:"requiredDocuments"`
	AreaDemand        string   `json:"areaDemand"`
}

// BudgetBands are rent thresholds derived from a single income value.
type BudgetBands struct {
	Conservative int `json:"conservative"`
	Recommended  int `json:"recommended"`
	UpperLimit   int `json:"upperLimit"`
}

// RuleApplication records one scoring rule that fired.
type RuleApplication struct {
	Title       string `json:"title"`
	Delta       int    `json:"delta"`
	ScoreBefore int    `json:"scoreBefore"`
	ScoreAfter  int    `json:"scoreAfter"`
	Details     string `json:"details,omitempty"`
}

type ScoreResult struct {
	Score      int               `json:"score"`
	Verdict    Verdict           `json:"verdict"`
	Confidence Confidence        `json:"confidence"`
	Reasons    []string          `json:"reasons"`
	Actions    []string          `json:"actions"`
	Breakdown  []RuleApplication `json:"breakdown"`
}

// DocumentReadiness compares a renter's documents against a listing and the
// renter type's document cluster.
type DocumentReadiness struct {
	RenterType          RenterType `json:"renterType"`
	ClusterDocuments    []string   `json:"clusterDocuments"`
	MissingRequired     []string   `json:"missingRequired"`
	MissingCluster      []string   `json:"missingCluster"`
	HasAlternativeProof bool       `json:"hasAlternativeProof"`
}
