package console

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

// workDoneMsg signals the spinner to exit
type workDoneMsg struct{}

// spinnerModel is the bubbletea model shown while a generation call runs
type spinnerModel struct {
	spinner spinner.Model
	label   string
	styles  Styles
	done    bool
}

func newSpinnerModel(label string, styles Styles) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Prompt
	return spinnerModel{spinner: s, label: label, styles: styles}
}

// Init implements tea.Model
func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(workDoneMsg); ok {
		m.done = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.styles.Working.Render(m.label) + "\n"
}

// Working runs fn while a spinner shows label. Without a terminal the label
// is printed once instead.
func (c *Console) Working(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	if !c.Interactive {
		c.Printf("%s\n", c.Styles.Working.Render(label))
		return fn(ctx)
	}

	prog := tea.NewProgram(newSpinnerModel(label, c.Styles),
		tea.WithInput(nil),
		tea.WithOutput(c.out),
		tea.WithoutSignalHandler(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn(ctx)
		prog.Send(workDoneMsg{})
	}()

	if _, err := prog.Run(); err != nil {
		log.WithError(err).Debug("Working indicator stopped early")
	}
	return <-errCh
}
