package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/RevCBH/nibbl/internal/history"
	"github.com/RevCBH/nibbl/internal/receipt"
)

// NewEligibleCmd creates the eligible command
func NewEligibleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eligible <receipt>",
		Short: "Show which receipt products would be reviewed",
		Long: `Eligible applies the same selection a review session uses and prints
the result without asking any questions or calling the generation service.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ShowEligible(cmd.OutOrStdout(), args[0])
		},
	}

	return cmd
}

// ShowEligible prints the ranked selection for a receipt
func (a *App) ShowEligible(w io.Writer, path string) error {
	rt, err := a.loadRuntime()
	if err != nil {
		return err
	}

	rcpt, err := receipt.Load(receipt.CleanPath(path))
	if err != nil {
		return err
	}

	store, err := history.Open(rt.cfg.HistoryPath)
	if err != nil {
		return err
	}

	selector, err := newSelector(rt)
	if err != nil {
		return err
	}

	ranked := selector.Rank(rcpt.Products, store.Log(), time.Now())
	limit := min(len(ranked), rt.cfg.Selection.MaxProducts)

	if limit == 0 {
		fmt.Fprintln(w, msgNoneEligible)
		return nil
	}

	fmt.Fprintf(w, "%d of %d products eligible for review:\n", limit, len(rcpt.Products))
	for i, c := range ranked[:limit] {
		fmt.Fprintf(w, "  %d. %s - %s [%s]\n", i+1, c.Product.Brand, c.Product.ProductName, c.Tier)
	}
	if extra := len(ranked) - limit; extra > 0 {
		fmt.Fprintf(w, "(%d more eligible beyond the limit of %d)\n", extra, rt.cfg.Selection.MaxProducts)
	}

	return nil
}
