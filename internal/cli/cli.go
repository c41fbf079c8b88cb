package cli

import (
	"github.com/spf13/cobra"

	"github.com/RevCBH/nibbl/internal/config"
	"github.com/RevCBH/nibbl/internal/llm"
)

// ClientFactory builds the generation client for a run
type ClientFactory func(cfg *config.Config) (llm.Client, error)

// App represents the CLI application with all wired dependencies
type App struct {
	// Root command
	rootCmd *cobra.Command

	// Runtime state
	verbose bool

	// workDir overrides the directory holding .nibbl.yaml and .env.
	// Empty means the process working directory.
	workDir string

	// newClient creates the generation client; replaced in tests
	newClient ClientFactory

	// Version information
	version string
	commit  string
	date    string
}

// New creates a new CLI application
func New() *App {
	app := &App{
		newClient: newOpenAIClient,
	}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// SetVersion sets the version string for the version command
func (a *App) SetVersion(version, commit, date string) {
	a.version = version
	a.commit = commit
	a.date = date
}

// setupRootCmd configures the root Cobra command
func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "nibbl",
		Short: "Turn a shopping receipt into product reviews",
		Long: `Nibbl walks you through a short conversation about products from a
receipt and writes a review for each one from your answers.

Products you reviewed recently are skipped, and new brands come first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags
	a.rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Verbose output")

	a.rootCmd.AddCommand(
		NewReviewCmd(a),
		NewEligibleCmd(a),
		NewHistoryCmd(a),
		NewVersionCmd(a),
	)
}
