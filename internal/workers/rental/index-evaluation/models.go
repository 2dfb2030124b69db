// internal/workers/rental/index-evaluation/models.go
package indexevaluation

type Input struct {
	EvaluationID string   `json:"evaluationId"`
	UserID       string   `json:"userId"`
	ListingName  string   `json:"listingName,omitempty"`
	Score        int      `json:"score"`
	Verdict      string   `json:"verdict"`
	Confidence   string   `json:"confidence,omitempty"`
	Reasons      []string `json:"reasons,omitempty"`
	CreatedAt    string   `json:"createdAt,omitempty"`
}

// Document is the indexed form of an evaluation.
type Document struct {
	EvaluationID string   `json:"evaluationId"`
	UserID       string   `json:"userId"`
	ListingName  string   `json:"listingName"`
	Score        int      `json:"score"`
	Verdict      string   `json:"verdict"`
	Confidence   string   `json:"confidence"`
	Reasons      []string `json:"reasons"`
	CreatedAt    string   `json:"createdAt"`
	IndexedAt    string   `json:"indexedAt"`
}

type Output struct {
	Indexed    bool   `json:"indexed"`
	Index      string `json:"index"`
	DocumentID string `json:"documentId"`
	Result     string `json:"result,omitempty"`
}

// IndexMapping is the mapping applied when the evaluation index is created.
const IndexMapping = `{
  "mappings": {
    "properties": {
      "evaluationId": {"type": "keyword"},
      "userId":       {"type": "keyword"},
      "listingName":  {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "score":        {"type": "integer"},
      "verdict":      {"type": "keyword"},
      "confidence":   {"type": "keyword"},
      "reasons":      {"type": "text"},
      "createdAt":    {"type": "date"},
      "indexedAt":    {"type": "date"}
    }
  }
}`
