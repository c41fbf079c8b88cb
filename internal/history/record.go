package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/RevCBH/nibbl/internal/scalar"
)

// DefaultPath is where the history log lives when no path is configured.
const DefaultPath = "review_history.json"

// Epoch is the time assumed for records whose timestamp is missing or
// unreadable. It is far enough in the past to never block a new review.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.Local)

// naiveLayout matches timestamps written without a zone offset.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// ReviewRecord is one completed review. Records are created once and never
// mutated after they are appended to the log.
type ReviewRecord struct {
	ReviewText   string   `json:"review_text" validate:"required"`
	ToneID       string   `json:"tone_id"`
	ToneStyle    string   `json:"tone_style"`
	KeywordsUsed []string `json:"keywords_used"`
	Category     string   `json:"category"`
	Rating       int      `json:"rating" validate:"gte=1,lte=5"`
	ProductName  string   `json:"product_name" validate:"required"`
	Brand        string   `json:"brand" validate:"required"`
	SKU          string   `json:"sku"`
	Timestamp    string   `json:"timestamp"`
	IntroStyle   string   `json:"intro_style"`
	NumQuestions int      `json:"num_questions"`
}

// UnmarshalJSON accepts scalar fields of any JSON scalar type, so older
// files that stored a SKU or rating as a number or string still load.
func (r *ReviewRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var rec ReviewRecord
	text := map[string]*string{
		"review_text":  &rec.ReviewText,
		"tone_id":      &rec.ToneID,
		"tone_style":   &rec.ToneStyle,
		"category":     &rec.Category,
		"product_name": &rec.ProductName,
		"brand":        &rec.Brand,
		"sku":          &rec.SKU,
		"timestamp":    &rec.Timestamp,
		"intro_style":  &rec.IntroStyle,
	}
	for key, dst := range text {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		v, err := scalar.String(msg)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		*dst = v
	}

	whole := map[string]*int{
		"rating":        &rec.Rating,
		"num_questions": &rec.NumQuestions,
	}
	for key, dst := range whole {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		v, err := scalar.Int(msg)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		*dst = v
	}

	if msg, ok := raw["keywords_used"]; ok {
		kw, err := scalar.Strings(msg)
		if err != nil {
			return fmt.Errorf("field %q: %w", "keywords_used", err)
		}
		rec.KeywordsUsed = kw
	}

	*r = rec
	return nil
}

// Time parses the record timestamp. Missing or unparseable values yield Epoch.
func (r ReviewRecord) Time() time.Time {
	if r.Timestamp == "" {
		return Epoch
	}
	if t, err := time.Parse(time.RFC3339Nano, r.Timestamp); err == nil {
		return t
	}
	if t, err := time.ParseInLocation(naiveLayout, r.Timestamp, time.Local); err == nil {
		return t
	}
	if t, err := time.ParseInLocation(time.DateOnly, r.Timestamp, time.Local); err == nil {
		return t
	}
	return Epoch
}

// FormatTime renders t the way record timestamps are stored.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// Log is the on-disk history document.
type Log struct {
	Reviews []ReviewRecord `json:"reviews"`
}
