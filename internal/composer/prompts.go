package composer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/RevCBH/nibbl/internal/llm"
	"github.com/RevCBH/nibbl/internal/receipt"
)

const questionSystemPrompt = `You are Nibbl, a friendly assistant running a natural, engaging conversation with a shopper about something they just bought.`

const reviewSystemPrompt = `You are NOT an AI. You are a real customer writing a review on a shopping website.`

func productJSON(p receipt.Product) (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode product: %w", err)
	}
	return string(data), nil
}

// BuildQuestionRequest renders the request asking for n questions in the
// given style.
func BuildQuestionRequest(p receipt.Product, n int, style string) (llm.Request, error) {
	product, err := productJSON(p)
	if err != nil {
		return llm.Request{}, err
	}
	category := p.NormalizedCategory()
	if category == "" {
		category = "general"
	}

	var b strings.Builder
	b.WriteString("PRODUCT CONTEXT:\n")
	b.WriteString(product)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Category: %s\n\n", category)
	b.WriteString("YOUR MISSION:\n")
	fmt.Fprintf(&b, "Generate EXACTLY %d questions that are:\n", n)
	b.WriteString("1. Unique to this specific product.\n")
	fmt.Fprintf(&b, "2. %s in tone.\n", style)
	b.WriteString("3. Aware of the product category.\n\n")
	fmt.Fprintf(&b, "Return ONLY the questions, one per line, numbered 1-%d. NO explanations.\n", n)

	return llm.Request{System: questionSystemPrompt, User: b.String()}, nil
}

// BuildReviewRequest renders the single request that produces the review text.
func BuildReviewRequest(p receipt.Product, transcript []QAResponse, rating int, style StyleParams) (llm.Request, error) {
	product, err := productJSON(p)
	if err != nil {
		return llm.Request{}, err
	}
	structure := StructureFor(p.Category)
	keywords := AggregateKeywords(transcript, MaxReviewKeywords)

	var b strings.Builder
	b.WriteString("PRODUCT DATA:\n")
	b.WriteString(product)
	b.WriteString("\n\n")
	b.WriteString("YOUR PREVIOUS CHAT ABOUT THE PRODUCT:\n")
	b.WriteString(FormatTranscript(transcript))
	b.WriteString("\n\n")

	b.WriteString("TASK REQUIREMENTS:\n")
	step := 1
	req := func(format string, args ...any) {
		fmt.Fprintf(&b, "%d. ", step)
		fmt.Fprintf(&b, format, args...)
		b.WriteString("\n")
		step++
	}
	if len(keywords) > 0 {
		req("Weave in these keywords naturally: %s", strings.Join(keywords, ", "))
	}
	req("Sentiment matches this star rating: %d/5 (BUT DO NOT MENTION THE NUMBER)", rating)
	req("Tone Identity: %s (%s)", strings.ToUpper(style.Tone.Key), style.Tone.Description)
	req("Approximate Length: %s sentences", structure.Sentences)
	req("Touch on what matters for this kind of product: %s", strings.Join(structure.Focus, ", "))
	if style.ClosingLine != "" {
		req("Include this thought near the end: %q", style.ClosingLine)
	}
	b.WriteString("\n")

	b.WriteString("NEGATIVE CONSTRAINTS (CRITICAL):\n")
	fmt.Fprintf(&b, "- DO NOT use marketing words like: %s.\n", strings.Join(MarketingWords, ", "))
	fmt.Fprintf(&b, "- DO NOT use formal connectors like: %s\n", quoteAll(FormalConnectors))
	b.WriteString("- DO NOT sound robotic or overly polished.\n\n")

	b.WriteString("STYLE GUIDE:\n")
	b.WriteString("- Write exactly how people speak (casual, slightly imperfect).\n")
	b.WriteString("- Use contractions (it's, didn't, wasn't) heavily.\n")
	b.WriteString("- Vary sentence length. Some short. Some long.\n")
	b.WriteString("- Focus on the experience described in the chat history.\n\n")

	b.WriteString("OUTPUT:\nJust the review text. Nothing else.\n")

	return llm.Request{System: reviewSystemPrompt, User: b.String()}, nil
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = `"` + s + `"`
	}
	return strings.Join(quoted, " ")
}
