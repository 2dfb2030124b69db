// internal/workers/rental/notify-renter/message.go
package notifyrenter

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const smsLimit = 160

var verdictLabels = map[string]string{
	"WORTH_APPLYING": "Worth applying",
	"BORDERLINE":     "Borderline",
	"NOT_WORTH_IT":   "Not worth it",
}

func verdictLabel(verdict string) string {
	if label, ok := verdictLabels[verdict]; ok {
		return label
	}
	return verdict
}

func listingLabel(name string) string {
	if strings.TrimSpace(name) == "" {
		return "your listing"
	}
	return name
}

func emailSubject(input *Input) string {
	return fmt.Sprintf("Rental check: %s for %s", verdictLabel(input.Verdict), listingLabel(input.ListingName))
}

func emailBody(input *Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "We checked your application for %s.\n\n", listingLabel(input.ListingName))
	fmt.Fprintf(&b, "Score: %d/100\n", input.Score)
	fmt.Fprintf(&b, "Verdict: %s\n", verdictLabel(input.Verdict))
	if input.Confidence != "" {
		fmt.Fprintf(&b, "Confidence: %s\n", strings.ToLower(input.Confidence))
	}
	if len(input.Actions) > 0 {
		b.WriteString("\nNext steps:\n")
		for _, action := range input.Actions {
			fmt.Fprintf(&b, "- %s\n", action)
		}
	}
	return b.String()
}

// smsBody fits the summary and the first action into a single SMS segment.
func smsBody(input *Input) string {
	msg := fmt.Sprintf("RentCheck: %s scored %d/100 (%s).",
		listingLabel(input.ListingName), input.Score, verdictLabel(input.Verdict))
	if len(input.Actions) > 0 {
		msg += " " + input.Actions[0]
	}
	if utf8.RuneCountInString(msg) > smsLimit {
		msg = string([]rune(msg)[:smsLimit-3]) + "..."
	}
	return msg
}
