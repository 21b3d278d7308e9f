package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/services"
)

// entry is one question/answer exchange in the session transcript.
type entry struct {
	question   string
	answer     string
	confidence int
	source     domain.AnswerSource
	sources    []domain.SourceRef
	saved      bool
	err        error
}

// answerReceived carries the result of a local ask.
type answerReceived struct {
	question string
	result   *domain.QueryResult
	err      error
}

// openAnswerReceived carries the result of an open-knowledge ask.
type openAnswerReceived struct {
	question string
	result   *domain.OpenResult
	err      error
}

// App is the interactive Q&A application. It implements tea.Model.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *Styles

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	// history is the session transcript, oldest first.
	history []entry

	// lastQuestion is retained so a low-confidence answer can be
	// escalated to open knowledge with a keypress.
	lastQuestion string

	// offerEscalation is set when the last local answer fell below the
	// confidence threshold.
	offerEscalation bool

	busy   bool
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := DefaultStyles()

	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Muted

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   s,
		input:    input,
		viewport: viewport.New(80, 20),
		spinner:  sp,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("recall"),
		textinput.Blink,
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.input.Width = msg.Width - 6
		// Reserve rows for the header, input box, and help line.
		a.viewport = viewport.New(msg.Width, max(msg.Height-7, 3))
		a.viewport.SetContent(a.transcript())
		a.viewport.GotoBottom()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case answerReceived:
		a.busy = false
		if msg.err != nil {
			a.history = append(a.history, entry{question: msg.question, err: msg.err})
			a.offerEscalation = false
		} else {
			a.history = append(a.history, entry{
				question:   msg.question,
				answer:     msg.result.Answer,
				confidence: msg.result.Confidence,
				source:     msg.result.Source,
				sources:    msg.result.Sources,
			})
			a.lastQuestion = msg.question
			a.offerEscalation = msg.result.OfferInternet
		}
		a.viewport.SetContent(a.transcript())
		a.viewport.GotoBottom()
		return a, nil

	case openAnswerReceived:
		a.busy = false
		a.offerEscalation = false
		if msg.err != nil {
			a.history = append(a.history, entry{question: msg.question, err: msg.err})
		} else {
			a.history = append(a.history, entry{
				question:   msg.question,
				answer:     msg.result.Answer,
				confidence: msg.result.Confidence,
				source:     msg.result.Source,
				saved:      msg.result.SavedToDB,
			})
		}
		a.viewport.SetContent(a.transcript())
		a.viewport.GotoBottom()
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// handleKey processes keyboard input.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return a, tea.Quit

	case "enter":
		if a.busy {
			return a, nil
		}
		question := strings.TrimSpace(a.input.Value())
		if question == "" {
			return a, nil
		}
		a.input.SetValue("")
		a.busy = true
		return a, tea.Batch(a.spinner.Tick, a.ask(question))

	case "ctrl+o":
		// Escalate the last question to open knowledge.
		if a.busy || !a.offerEscalation || a.lastQuestion == "" {
			return a, nil
		}
		a.busy = true
		a.offerEscalation = false
		return a, tea.Batch(a.spinner.Tick, a.askOpen(a.lastQuestion))

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// ask runs the local query path off the Update loop.
func (a *App) ask(question string) tea.Cmd {
	return func() tea.Msg {
		result, err := a.ports.Query.Ask(a.ctx, question, services.DefaultTopK)
		return answerReceived{question: question, result: result, err: err}
	}
}

// askOpen runs the open-knowledge path, saving confident answers.
func (a *App) askOpen(question string) tea.Cmd {
	return func() tea.Msg {
		result, err := a.ports.Query.AskOpenKnowledge(a.ctx, question, true)
		return openAnswerReceived{question: question, result: result, err: err}
	}
}

// transcript renders the session history.
func (a *App) transcript() string {
	if len(a.history) == 0 {
		return a.styles.Muted.Render("Ask anything about your indexed documents.")
	}

	blocks := make([]string, 0, len(a.history))
	for _, e := range a.history {
		lines := []string{a.styles.Question.Render("> " + e.question)}

		if e.err != nil {
			lines = append(lines, a.styles.Error.Render("Error: "+e.err.Error()))
			blocks = append(blocks, strings.Join(lines, "\n"))
			continue
		}

		lines = append(lines, a.styles.Answer.Render(e.answer))

		confStyle := a.styles.Confident
		if e.confidence < 60 {
			confStyle = a.styles.Uncertain
		}
		meta := fmt.Sprintf("confidence %d · %s", e.confidence, e.source)
		if e.saved {
			meta += " · saved"
		}
		lines = append(lines, confStyle.Render(meta))

		if len(e.sources) > 0 {
			refs := make([]string, 0, len(e.sources))
			for _, ref := range e.sources {
				refs = append(refs, fmt.Sprintf("%s#%d", ref.File, ref.ChunkIndex))
			}
			lines = append(lines, a.styles.Muted.Render("sources: "+strings.Join(refs, ", ")))
		}

		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	return strings.Join(blocks, "\n\n")
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	header := a.styles.Title.Render("recall")

	help := "enter ask · esc quit"
	if a.offerEscalation {
		help = "ctrl+o try open knowledge · " + help
	}
	status := a.styles.Muted.Render(help)
	if a.busy {
		status = a.spinner.View() + a.styles.Muted.Render("thinking...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		a.viewport.View(),
		"",
		a.styles.InputField.Width(a.width-4).Render(a.input.View()),
		status,
	)
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// History returns the session transcript (for testing).
func (a *App) History() []entry {
	return a.history
}

// Busy returns whether a request is in flight.
func (a *App) Busy() bool {
	return a.busy
}

// OfferEscalation returns whether open-knowledge escalation is offered.
func (a *App) OfferEscalation() bool {
	return a.offerEscalation
}
