// internal/workers/rental/check-document-readiness/models.go
package checkdocumentreadiness

import "rentcheck-workers/internal/scoring"

type Input struct {
	RenterType        string   `json:"renterType"`
	Documents         []string `json:"documents"`
	RequiredDocuments []string `json:"requiredDocuments"`
}

type Output struct {
	scoring.DocumentReadiness
	Ready bool `json:"ready"`
}
