package composer

import (
	"math/rand/v2"
	"strings"
)

// Tone is a named register for the generated review.
type Tone struct {
	Key         string
	ID          string
	Description string
}

// Tones is the fixed tone catalog.
var Tones = []Tone{
	{Key: "casual", ID: "tone_casual", Description: "Relaxed, everyday language"},
	{Key: "descriptive", ID: "tone_descriptive", Description: "Rich sensory details"},
	{Key: "storytelling", ID: "tone_storytelling", Description: "Narrative, personal journey"},
	{Key: "enthusiastic", ID: "tone_enthusiastic", Description: "Excited, energetic"},
	{Key: "concise", ID: "tone_concise", Description: "Brief, to-the-point"},
}

// IntroStyles are recorded with each review but not yet used in prompts.
var IntroStyles = []string{"direct", "story", "contextual"}

// ClosingTheme groups closing lines by sentiment. The empty line means
// "no closing thought".
type ClosingTheme struct {
	Name  string
	Lines []string
}

var ClosingThemes = []ClosingTheme{
	{Name: "positive_summary", Lines: []string{"", "Definitely impressed.", "Worth every penny."}},
	{Name: "recommendation", Lines: []string{"", "You should try it!", "Perfect for anyone who loves this."}},
	{Name: "personal_touch", Lines: []string{"", "Can't wait to buy more.", "This is now part of my routine."}},
	{Name: "humor", Lines: []string{"", "My new obsession!", "Where has this been all my life?"}},
	{Name: "intent", Lines: []string{"", "Already added to my shopping list.", "Keeping this stocked."}},
	{Name: "emotion", Lines: []string{"", "Love it!", "Feels like a treat every time."}},
}

// Structure is the target shape of a review for a product category.
type Structure struct {
	Sentences string
	Focus     []string
}

// DefaultCategory is the structure key used for unknown categories.
const DefaultCategory = "default"

var CategoryStructures = map[string]Structure{
	"beverage":      {Sentences: "4-5", Focus: []string{"taste", "refreshment", "occasion"}},
	"snack":         {Sentences: "4-6", Focus: []string{"flavor", "texture", "satisfaction"}},
	"skincare":      {Sentences: "6-8", Focus: []string{"texture", "absorption", "results", "scent"}},
	"supplement":    {Sentences: "5-7", Focus: []string{"effectiveness", "ease of use", "benefits"}},
	"apparel":       {Sentences: "5-7", Focus: []string{"fit", "comfort", "style", "quality"}},
	DefaultCategory: {Sentences: "5-7", Focus: []string{"experience", "quality", "value"}},
}

// StructureFor looks up a category, case-insensitively, falling back to
// the default structure.
func StructureFor(category string) Structure {
	if s, ok := CategoryStructures[strings.ToLower(strings.TrimSpace(category))]; ok {
		return s
	}
	return CategoryStructures[DefaultCategory]
}

// QuestionStyles are the registers questions can be asked in.
var QuestionStyles = []string{"casual", "curious", "story-driven", "feature-focused"}

// QuestionCounts are the allowed numbers of questions per session.
var QuestionCounts = []int{4, 5}

// MarketingWords must not appear in generated reviews.
var MarketingWords = []string{"innovative", "game-changer", "unparalleled", "top-notch", "elevating"}

// FormalConnectors must not appear in generated reviews.
var FormalConnectors = []string{"Moreover,", "Furthermore,", "In conclusion,", "It is worth noting."}

// StyleParams are the randomized stylistic choices for one review.
type StyleParams struct {
	Tone         Tone
	IntroStyle   string
	ClosingTheme string
	ClosingLine  string
}

// PickQuestionCount draws the number of questions for a session.
func PickQuestionCount(r *rand.Rand) int {
	return QuestionCounts[r.IntN(len(QuestionCounts))]
}

// PickQuestionStyle draws the register for a session's questions.
func PickQuestionStyle(r *rand.Rand) string {
	return QuestionStyles[r.IntN(len(QuestionStyles))]
}

// PickStyle draws tone, intro style, closing theme and closing line.
func PickStyle(r *rand.Rand) StyleParams {
	theme := ClosingThemes[r.IntN(len(ClosingThemes))]
	return StyleParams{
		Tone:         Tones[r.IntN(len(Tones))],
		IntroStyle:   IntroStyles[r.IntN(len(IntroStyles))],
		ClosingTheme: theme.Name,
		ClosingLine:  theme.Lines[r.IntN(len(theme.Lines))],
	}
}
