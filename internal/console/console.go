// Package console is the terminal side of a review session.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/RevCBH/nibbl/internal/history"
	"github.com/RevCBH/nibbl/internal/receipt"
)

type lineResult struct {
	text string
	err  error
}

// Console reads answers from in and writes prompts to out. Reads honour
// context cancellation even though the underlying reader blocks.
type Console struct {
	in     io.Reader
	out    io.Writer
	Styles Styles

	// Interactive enables the animated working indicator
	Interactive bool

	mu        sync.Mutex // Protects concurrent writes to out
	startOnce sync.Once
	lines     chan lineResult
}

// New creates a console. The working indicator is animated only when out
// is a terminal.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:          in,
		out:         out,
		Styles:      DefaultStyles(),
		Interactive: isTerminal(out),
		lines:       make(chan lineResult),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// readLoop feeds lines to ReadLine until the reader fails. The channel is
// closed afterwards so later reads see io.EOF.
func (c *Console) readLoop() {
	defer close(c.lines)
	r := bufio.NewReader(c.in)
	for {
		text, err := r.ReadString('\n')
		if err != nil {
			if text != "" {
				c.lines <- lineResult{text: strings.TrimRight(text, "\r\n")}
			}
			c.lines <- lineResult{err: err}
			return
		}
		c.lines <- lineResult{text: strings.TrimRight(text, "\r\n")}
	}
}

// ReadLine blocks for the next line of input without its line ending.
// It returns io.EOF once input is exhausted and ctx.Err() on cancellation.
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	c.startOnce.Do(func() { go c.readLoop() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}

// Printf writes formatted output
func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// Println writes a line of output
func (c *Console) Println(msg string) {
	c.Printf("%s\n", msg)
}

// Success writes a confirmation line
func (c *Console) Success(msg string) {
	c.Printf("%s\n", c.Styles.Success.Render(IconSuccess+" "+msg))
}

// Warn writes a warning line
func (c *Console) Warn(msg string) {
	c.Printf("%s\n", c.Styles.Warning.Render(IconWarning+" "+msg))
}

// Error writes an error line
func (c *Console) Error(msg string) {
	c.Printf("%s\n", c.Styles.Error.Render(IconError+" "+msg))
}

func (c *Console) ask(ctx context.Context, prompt string) (string, error) {
	c.Printf("%s ", c.Styles.Prompt.Render(prompt))
	return c.ReadLine(ctx)
}

// AskPath asks for the receipt location
func (c *Console) AskPath(ctx context.Context) (string, error) {
	return c.ask(ctx, "Enter path to receipt JSON file:")
}

// BeginProduct announces the next product in the run
func (c *Console) BeginProduct(index, total int, p receipt.Product) {
	c.Printf("\n%s\n%s\n",
		c.Styles.Title.Render(fmt.Sprintf("Product %d of %d", index, total)),
		c.Styles.Product.Render(fmt.Sprintf("%s by %s", p.ProductName, p.Brand)))
}

// AskQuestion shows one generated question and reads the answer
func (c *Console) AskQuestion(ctx context.Context, number int, question string) (string, error) {
	c.Printf("\n%s\n", c.Styles.Question.Render(fmt.Sprintf("%d. %s", number, question)))
	return c.ask(ctx, ">")
}

// AskRating reads a star rating
func (c *Console) AskRating(ctx context.Context) (string, error) {
	c.Printf("\n")
	return c.ask(ctx, "How many stars would you give it? (1-5):")
}

// AskContinue asks whether to move on to the next product
func (c *Console) AskContinue(ctx context.Context) (string, error) {
	c.Printf("\n")
	return c.ask(ctx, "Review the next product? (y/n):")
}

// ShowReview prints a saved review
func (c *Console) ShowReview(rec history.ReviewRecord) {
	c.Printf("\n%s %s\n%s\n",
		c.Styles.Title.Render("Your review"),
		c.Styles.Stars.Render(Stars(rec.Rating)),
		c.Styles.Review.Render(rec.ReviewText))
	if len(rec.KeywordsUsed) > 0 {
		c.Printf("%s\n", c.Styles.Muted.Render("  keywords: "+strings.Join(rec.KeywordsUsed, ", ")))
	}
	c.Success("Review saved")
}

// Stars renders a 1-5 rating as filled and empty stars
func Stars(rating int) string {
	rating = max(0, min(rating, 5))
	return strings.Repeat(IconStar, rating) + strings.Repeat(IconNoStar, 5-rating)
}
