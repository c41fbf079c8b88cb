package composer

import (
	"fmt"
	"strings"
)

// MaxReviewKeywords caps how many answer keywords feed one review.
const MaxReviewKeywords = 10

// QAResponse is one answered question. It lives only for the duration of a
// product session.
type QAResponse struct {
	QuestionNumber int
	Question       string
	Answer         string
	Weight         float64
	Keywords       []string
}

// FormatTranscript renders the conversation the way review requests quote it.
func FormatTranscript(transcript []QAResponse) string {
	var b strings.Builder
	for i, r := range transcript {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Q%d (weight: %.1f): %s\nA: %s", r.QuestionNumber, r.Weight, r.Question, r.Answer)
	}
	return b.String()
}

// AggregateKeywords collects keywords across answers in order and keeps the
// first limit of them.
func AggregateKeywords(transcript []QAResponse, limit int) []string {
	out := make([]string, 0, limit)
	for _, r := range transcript {
		for _, kw := range r.Keywords {
			if len(out) == limit {
				return out
			}
			out = append(out, kw)
		}
	}
	return out
}
