package composer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/RevCBH/nibbl/internal/history"
	"github.com/RevCBH/nibbl/internal/llm"
	"github.com/RevCBH/nibbl/internal/receipt"
)

// ErrEmptyReview is returned when the service answers with blank text.
var ErrEmptyReview = errors.New("generated review is empty")

// Composer builds generation requests for a product conversation and maps
// the raw responses back into structured values. It keeps no state between
// calls.
type Composer struct {
	client llm.Client
}

// New creates a Composer on top of a generation client.
func New(client llm.Client) *Composer {
	return &Composer{client: client}
}

// GenerateQuestions asks for n questions in the given style and returns at
// most n of them. A shortfall is not an error.
func (c *Composer) GenerateQuestions(ctx context.Context, p receipt.Product, n int, style string) ([]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", n)
	}

	req, err := BuildQuestionRequest(p, n, style)
	if err != nil {
		return nil, err
	}
	text, err := c.client.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	questions := ParseQuestions(text)
	if len(questions) > n {
		questions = questions[:n]
	}
	if len(questions) < n {
		log.WithFields(log.Fields{
			"product":   p.ProductName,
			"requested": n,
			"parsed":    len(questions),
		}).Warn("Generation returned fewer questions than requested")
	}
	return questions, nil
}

// Review is the generated portion of a review record.
type Review struct {
	Text         string
	Rating       int
	Style        StyleParams
	Keywords     []string
	Category     string
	NumQuestions int
}

// ComposeReview sends one request carrying the product, the transcript, the
// rating and the chosen style, and returns the response text verbatim.
func (c *Composer) ComposeReview(ctx context.Context, p receipt.Product, transcript []QAResponse, rating int, style StyleParams) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}

	req, err := BuildReviewRequest(p, transcript, rating, style)
	if err != nil {
		return nil, err
	}
	text, err := c.client.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate review: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyReview
	}

	return &Review{
		Text:         text,
		Rating:       rating,
		Style:        style,
		Keywords:     AggregateKeywords(transcript, MaxReviewKeywords),
		Category:     p.NormalizedCategory(),
		NumQuestions: len(transcript),
	}, nil
}

// Record assembles the persisted record for p, stamped with at.
func (r *Review) Record(p receipt.Product, at time.Time) history.ReviewRecord {
	return history.ReviewRecord{
		ReviewText:   r.Text,
		ToneID:       r.Style.Tone.ID,
		ToneStyle:    r.Style.Tone.Key,
		KeywordsUsed: r.Keywords,
		Category:     r.Category,
		Rating:       r.Rating,
		ProductName:  p.ProductName,
		Brand:        p.Brand,
		SKU:          p.SKU,
		Timestamp:    history.FormatTime(at),
		IntroStyle:   r.Style.IntroStyle,
		NumQuestions: r.NumQuestions,
	}
}
