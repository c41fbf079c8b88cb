package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/RevCBH/nibbl/internal/composer"
	"github.com/RevCBH/nibbl/internal/history"
	"github.com/RevCBH/nibbl/internal/receipt"
)

// Generator is the generation capability a session needs
type Generator interface {
	GenerateQuestions(ctx context.Context, p receipt.Product, n int, style string) ([]string, error)
	ComposeReview(ctx context.Context, p receipt.Product, transcript []composer.QAResponse, rating int, style composer.StyleParams) (*composer.Review, error)
}

// Recorder durably stores completed reviews. Append must not return until
// the record is on disk.
type Recorder interface {
	Append(rec history.ReviewRecord) error
}

// Prompter is the interactive side of a session. Reads block until the user
// answers or ctx is cancelled.
type Prompter interface {
	BeginProduct(index, total int, p receipt.Product)
	AskQuestion(ctx context.Context, number int, question string) (string, error)
	AskRating(ctx context.Context) (string, error)
	AskContinue(ctx context.Context) (string, error)
	Warn(msg string)
	ShowReview(rec history.ReviewRecord)
	// Working runs fn while showing that a generation call is in flight
	Working(ctx context.Context, label string, fn func(ctx context.Context) error) error
}

// Outcome is how a run ended
type Outcome string

const (
	// OutcomeCompleted means every selected product was visited
	OutcomeCompleted Outcome = "completed"
	// OutcomeStopped means the user declined to continue
	OutcomeStopped Outcome = "stopped"
	// OutcomeInterrupted means the run was cancelled or input closed
	OutcomeInterrupted Outcome = "interrupted"
)

// Summary describes a finished run
type Summary struct {
	Outcome  Outcome
	Reviewed int
	Failed   int
	Records  []history.ReviewRecord
}

// ErrInputClosed is reported when the console reaches end of input
var ErrInputClosed = errors.New("input closed")

// Controller drives review sessions one product at a time
type Controller struct {
	gen      Generator
	store    Recorder
	prompter Prompter
	rng      *rand.Rand
	now      func() time.Time
	logger   *log.Entry
	observe  func(p receipt.Product, from, to State)
}

// Option configures a Controller
type Option func(*Controller)

// WithRand fixes the random source for question count and styles
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) { c.rng = r }
}

// WithClock overrides the clock used to stamp records
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the log entry used for session diagnostics
func WithLogger(entry *log.Entry) Option {
	return func(c *Controller) { c.logger = entry }
}

// WithTransitionObserver registers fn to be called on every state change
func WithTransitionObserver(fn func(p receipt.Product, from, to State)) Option {
	return func(c *Controller) { c.observe = fn }
}

// NewController creates a controller. The store is owned by the controller
// for the duration of Run.
func NewController(gen Generator, store Recorder, prompter Prompter, opts ...Option) *Controller {
	c := &Controller{
		gen:      gen,
		store:    store,
		prompter: prompter,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:      time.Now,
		logger:   log.NewEntry(log.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run reviews products strictly in order. Each completed review is persisted
// before the next product starts. A generation failure skips only the
// current product; a persistence failure ends the run with an error.
// Cancellation of ctx ends the run cleanly with OutcomeInterrupted and
// discards the in-flight product.
func (c *Controller) Run(ctx context.Context, products []receipt.Product) (*Summary, error) {
	summary := &Summary{Outcome: OutcomeCompleted}

	for i, p := range products {
		if ctx.Err() != nil {
			summary.Outcome = OutcomeInterrupted
			return summary, nil
		}

		c.prompter.BeginProduct(i+1, len(products), p)
		run := &productRun{ctrl: c, product: p, state: StateStart}
		rec, err := run.execute(ctx)

		switch {
		case err == nil:
			summary.Reviewed++
			summary.Records = append(summary.Records, *rec)
		case isInterrupt(ctx, err):
			run.abort(err)
			summary.Outcome = OutcomeInterrupted
			return summary, nil
		case run.state == StateFailed:
			summary.Failed++
			c.prompter.Warn(fmt.Sprintf("Couldn't finish the review for %s: %v", p.ProductName, err))
		default:
			return summary, err
		}

		if i == len(products)-1 {
			break
		}

		answer, err := c.prompter.AskContinue(ctx)
		if err != nil {
			err = inputErr(err)
			if isInterrupt(ctx, err) {
				summary.Outcome = OutcomeInterrupted
				return summary, nil
			}
			return summary, fmt.Errorf("read continue answer: %w", err)
		}
		if !IsAffirmative(answer) {
			_ = run.transition(StateStop)
			summary.Outcome = OutcomeStopped
			return summary, nil
		}
		_ = run.transition(StateContinue)
	}

	return summary, nil
}

// productRun is the state of one product's session
type productRun struct {
	ctrl       *Controller
	product    receipt.Product
	state      State
	transcript []composer.QAResponse
}

func (r *productRun) transition(to State) error {
	if !CanTransition(r.state, to) {
		return &TransitionError{From: r.state, To: to}
	}
	from := r.state
	r.state = to
	r.ctrl.logger.WithFields(log.Fields{
		"brand":   r.product.Brand,
		"product": r.product.ProductName,
		"from":    from,
		"to":      to,
	}).Debug("Session transition")
	if r.ctrl.observe != nil {
		r.ctrl.observe(r.product, from, to)
	}
	return nil
}

func (r *productRun) abort(err error) {
	if !r.state.IsTerminal() {
		_ = r.transition(StateAborted)
	}
	r.ctrl.logger.WithFields(log.Fields{
		"brand":   r.product.Brand,
		"product": r.product.ProductName,
	}).WithError(err).Info("Session aborted, in-flight review discarded")
}

func (r *productRun) fail(err error) error {
	_ = r.transition(StateFailed)
	r.ctrl.logger.WithFields(log.Fields{
		"brand":   r.product.Brand,
		"product": r.product.ProductName,
	}).WithError(err).Warn("Generation failed, skipping product")
	return err
}

func (r *productRun) execute(ctx context.Context) (*history.ReviewRecord, error) {
	c := r.ctrl
	p := r.product

	n := composer.PickQuestionCount(c.rng)
	questionStyle := composer.PickQuestionStyle(c.rng)

	var questions []string
	err := c.prompter.Working(ctx, "Thinking up some questions...", func(ctx context.Context) error {
		var err error
		questions, err = c.gen.GenerateQuestions(ctx, p, n, questionStyle)
		return err
	})
	if err != nil {
		if isInterrupt(ctx, err) {
			return nil, err
		}
		return nil, r.fail(err)
	}
	if err := r.transition(StateQuestionsGenerated); err != nil {
		return nil, err
	}

	for i, q := range questions {
		if err := r.transition(StateCollectingAnswers); err != nil {
			return nil, err
		}
		answer, err := c.prompter.AskQuestion(ctx, i+1, q)
		if err != nil {
			return nil, inputErr(err)
		}
		r.transcript = append(r.transcript, NewQAResponse(i+1, q, answer))
	}

	rating, err := r.captureRating(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.transition(StateRatingCaptured); err != nil {
		return nil, err
	}

	style := composer.PickStyle(c.rng)
	var review *composer.Review
	err = c.prompter.Working(ctx, "Generating your review...", func(ctx context.Context) error {
		var err error
		review, err = c.gen.ComposeReview(ctx, p, r.transcript, rating, style)
		return err
	})
	if err != nil {
		if isInterrupt(ctx, err) {
			return nil, err
		}
		return nil, r.fail(err)
	}
	if err := r.transition(StateReviewGenerated); err != nil {
		return nil, err
	}

	rec := review.Record(p, c.now())
	if err := c.store.Append(rec); err != nil {
		return nil, fmt.Errorf("persist review for %s: %w", p.ProductName, err)
	}
	if err := r.transition(StatePersisted); err != nil {
		return nil, err
	}

	c.prompter.ShowReview(rec)
	return &rec, nil
}

// captureRating loops until the user enters an integer from 1 to 5
func (r *productRun) captureRating(ctx context.Context) (int, error) {
	for {
		input, err := r.ctrl.prompter.AskRating(ctx)
		if err != nil {
			return 0, inputErr(err)
		}
		rating, err := ParseRating(input)
		if err == nil {
			return rating, nil
		}
		r.ctrl.prompter.Warn(err.Error())
	}
}

func inputErr(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrInputClosed
	}
	return err
}

// isInterrupt reports whether err ends the run rather than the product.
// Only console input is mapped to ErrInputClosed; an EOF from the generation
// transport is a product failure.
func isInterrupt(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, ErrInputClosed)
}
