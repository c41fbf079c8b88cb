package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/RevCBH/nibbl/internal/composer"
	"github.com/RevCBH/nibbl/internal/console"
	"github.com/RevCBH/nibbl/internal/eligibility"
	"github.com/RevCBH/nibbl/internal/history"
	"github.com/RevCBH/nibbl/internal/receipt"
	"github.com/RevCBH/nibbl/internal/session"
)

// Messages printed when a run ends
const (
	msgNoneEligible = "No products eligible for review."
	msgPaused       = "Review session paused. Progress saved."
	msgCancelled    = "Session cancelled by user."
)

// ReviewOptions holds arguments for the review command
type ReviewOptions struct {
	ReceiptPath string // Receipt JSON; asked for interactively when empty
}

// NewReviewCmd creates the review command
func NewReviewCmd(app *App) *cobra.Command {
	opts := ReviewOptions{}

	cmd := &cobra.Command{
		Use:   "review [receipt]",
		Short: "Review products from a receipt",
		Long: `Review selects up to five products from a receipt JSON file, asks a few
questions about each one, and writes a review from your answers.

Each review is saved to the history file as soon as it is written, so
stopping or pressing Ctrl+C never loses a finished review.

Examples:
  nibbl review receipt.json      # Review products from receipt.json
  nibbl review                   # Ask for the receipt path`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.ReceiptPath = args[0]
			}
			return app.RunReview(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	return cmd
}

// RunReview runs one interactive review session
func (a *App) RunReview(ctx context.Context, in io.Reader, out io.Writer, opts ReviewOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Create cancellable context
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup signal handler
	handler := NewSignalHandler(cancel)
	handler.OnShutdown(func() {
		log.Debug("Interrupt received, discarding in-flight review")
	})
	handler.Start()
	defer handler.Stop()

	rt, err := a.loadRuntime()
	if err != nil {
		return err
	}

	con := console.New(in, out)

	path := opts.ReceiptPath
	if path == "" {
		path, err = con.AskPath(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				con.Println(msgCancelled)
				return nil
			}
			return fmt.Errorf("read receipt path: %w", err)
		}
	}

	rcpt, err := receipt.Load(receipt.CleanPath(path))
	if err != nil {
		return err
	}

	store, err := history.Open(rt.cfg.HistoryPath)
	if err != nil {
		return err
	}

	selected, err := selectProducts(rt, rcpt, store.Log())
	if err != nil {
		return err
	}

	rt.logger.WithFields(log.Fields{
		"receipt":  path,
		"products": len(rcpt.Products),
		"selected": len(selected),
	}).Info("Products selected")

	if len(selected) == 0 {
		con.Println(msgNoneEligible)
		return nil
	}
	con.Printf("Selected %d of %d products for review.\n", len(selected), len(rcpt.Products))

	client, err := a.newClient(rt.cfg)
	if err != nil {
		return err
	}

	ctrl := session.NewController(composer.New(client), store, con,
		session.WithLogger(rt.logger),
	)

	summary, err := ctrl.Run(ctx, selected)
	if err != nil {
		con.Error(fmt.Sprintf("Stopping after %s: %v", plural(summary.Reviewed, "saved review"), err))
		return err
	}

	rt.logger.WithFields(log.Fields{
		"outcome":  summary.Outcome,
		"reviewed": summary.Reviewed,
		"failed":   summary.Failed,
	}).Info("Session finished")

	switch summary.Outcome {
	case session.OutcomeStopped:
		con.Println("\n" + msgPaused)
	case session.OutcomeInterrupted:
		con.Println("\n" + msgCancelled)
	default:
		con.Success(fmt.Sprintf("All done! %s saved.", plural(summary.Reviewed, "review")))
	}

	return nil
}

// selectProducts applies the configured eligibility rules as of now
func selectProducts(rt *runtime, rcpt *receipt.Receipt, hist history.Log) ([]receipt.Product, error) {
	selector, err := newSelector(rt)
	if err != nil {
		return nil, err
	}
	return selector.Select(rcpt.Products, hist, time.Now()), nil
}

func newSelector(rt *runtime) (*eligibility.Selector, error) {
	cooldown, err := rt.cfg.CooldownDuration()
	if err != nil {
		return nil, fmt.Errorf("selection cooldown: %w", err)
	}
	return eligibility.NewSelector(eligibility.Options{
		Cooldown: cooldown,
		Limit:    rt.cfg.Selection.MaxProducts,
	}), nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
