// internal/workers/rental/notify-renter/models.go
package notifyrenter

type Input struct {
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	ListingName string   `json:"listingName,omitempty"`
	Score       int      `json:"score"`
	Verdict     string   `json:"verdict"`
	Confidence  string   `json:"confidence,omitempty"`
	Actions     []string `json:"actions,omitempty"`
	Channels    []string `json:"channels"`
}

type Output struct {
	Sent    []string `json:"sent"`
	Failed  []string `json:"failed"`
	Skipped []string `json:"skipped,omitempty"`
	SentAt  string   `json:"sentAt"` // ISO 8601
}

// Channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Delivery statuses, used as metric labels.
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
