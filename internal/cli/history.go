package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/RevCBH/nibbl/internal/console"
	"github.com/RevCBH/nibbl/internal/history"
)

// HistoryOptions holds flags for the history command
type HistoryOptions struct {
	Full bool // Print review text under each entry
}

// NewHistoryCmd creates the history command
func NewHistoryCmd(app *App) *cobra.Command {
	opts := HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ShowHistory(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Full, "full", false, "Include the review text")

	return cmd
}

// ShowHistory prints stored reviews, oldest first
func (a *App) ShowHistory(w io.Writer, opts HistoryOptions) error {
	rt, err := a.loadRuntime()
	if err != nil {
		return err
	}

	store, err := history.Open(rt.cfg.HistoryPath)
	if err != nil {
		return err
	}

	reviews := store.Log().Reviews
	if len(reviews) == 0 {
		fmt.Fprintf(w, "No reviews saved in %s yet.\n", store.Path())
		return nil
	}

	for _, rec := range reviews {
		fmt.Fprintf(w, "%s  %s  %s - %s\n",
			rec.Time().Format("2006-01-02 15:04"),
			console.Stars(rec.Rating),
			rec.Brand,
			rec.ProductName)
		if opts.Full {
			fmt.Fprintf(w, "    %s\n\n", rec.ReviewText)
		}
	}
	fmt.Fprintf(w, "%s in %s\n", plural(len(reviews), "review"), store.Path())

	return nil
}
