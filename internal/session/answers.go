package session

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/RevCBH/nibbl/internal/composer"
)

// MaxAnswerKeywords caps the keywords taken from one answer.
const MaxAnswerKeywords = 5

const minKeywordLength = 4

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "is": true, "was": true, "it": true, "this": true, "that": true,
	"my": true,
}

// Weight scores an answer by its word count.
func Weight(answer string) float64 {
	switch n := len(strings.Fields(answer)); {
	case n > 15:
		return 1.8
	case n >= 9:
		return 1.5
	default:
		return 1.0
	}
}

// ExtractKeywords returns up to MaxAnswerKeywords lowercase tokens from
// answer, in order. Edge punctuation is stripped before short tokens and
// stop words are dropped.
func ExtractKeywords(answer string) []string {
	keywords := make([]string, 0, MaxAnswerKeywords)
	for _, tok := range strings.Fields(strings.ToLower(answer)) {
		tok = strings.Trim(tok, ".,!?")
		if utf8.RuneCountInString(tok) < minKeywordLength || stopWords[tok] {
			continue
		}
		keywords = append(keywords, tok)
		if len(keywords) == MaxAnswerKeywords {
			break
		}
	}
	return keywords
}

// NewQAResponse scores one answered question.
func NewQAResponse(number int, question, answer string) composer.QAResponse {
	answer = strings.TrimSpace(answer)
	return composer.QAResponse{
		QuestionNumber: number,
		Question:       question,
		Answer:         answer,
		Weight:         Weight(answer),
		Keywords:       ExtractKeywords(answer),
	}
}

// RatingError explains why rating input was rejected.
type RatingError struct {
	Input      string
	OutOfRange bool
}

func (e *RatingError) Error() string {
	if e.OutOfRange {
		return "Please enter a number between 1 and 5."
	}
	return "Please enter a valid number."
}

// ParseRating accepts an integer from 1 to 5, ignoring surrounding space.
func ParseRating(input string) (int, error) {
	s := strings.TrimSpace(input)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &RatingError{Input: input}
	}
	if n < 1 || n > 5 {
		return 0, &RatingError{Input: input, OutOfRange: true}
	}
	return n, nil
}

// IsAffirmative reports whether a continue answer means yes.
func IsAffirmative(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
