// Package tui provides an interactive terminal search interface
// following the Elm architecture.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/haasp-labs/recall/internal/core/domain"
	"github.com/haasp-labs/recall/internal/core/ports/driving"
)

// searchK is how many results the TUI requests per query.
const searchK = 10

// searchCompleted carries the outcome of an asynchronous search.
type searchCompleted struct {
	results []domain.SearchResult
	err     error
}

// App is the TUI application. It implements tea.Model.
type App struct {
	search driving.SearchService
	ctx    context.Context
	styles *Styles

	input textinput.Model

	query         string
	results       []domain.SearchResult
	selectedIndex int
	searching     bool
	err           error

	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates a TUI application around the search service.
func NewApp(search driving.SearchService) (*App, error) {
	if search == nil {
		return nil, errors.New("creating app: search service is required")
	}

	input := textinput.New()
	input.Placeholder = "type a query and press enter"
	input.Prompt = "> "
	input.Focus()

	return &App{
		search: search,
		ctx:    context.Background(),
		styles: DefaultStyles(),
		input:  input,
	}, nil
}

// WithContext sets the context used for searches.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("recall - semantic search"),
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
		a.input.Width = msg.Width - 4
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return a, tea.Quit

		case "enter":
			query := strings.TrimSpace(a.input.Value())
			if query == "" || a.searching {
				return a, nil
			}
			a.query = query
			a.searching = true
			a.err = nil
			return a, a.searchCmd(query)

		case "up", "ctrl+k":
			if a.selectedIndex > 0 {
				a.selectedIndex--
			}
			return a, nil

		case "down", "ctrl+j":
			if a.selectedIndex < len(a.results)-1 {
				a.selectedIndex++
			}
			return a, nil
		}

		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd

	case searchCompleted:
		a.searching = false
		a.selectedIndex = 0
		if msg.err != nil {
			a.err = msg.err
			a.results = nil
			return a, nil
		}
		a.results = msg.results
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// searchCmd runs a search off the update loop.
func (a *App) searchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.search.Search(a.ctx, query, searchK)
		return searchCompleted{results: results, err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("recall"))
	b.WriteString("\n\n")
	b.WriteString(a.input.View())
	b.WriteString("\n\n")

	switch {
	case a.err != nil:
		b.WriteString(a.styles.Error.Render("error: " + a.err.Error()))
	case a.searching:
		b.WriteString(a.styles.Muted.Render("searching..."))
	case a.query != "" && len(a.results) == 0:
		b.WriteString(a.styles.Muted.Render("no results for " + a.query))
	default:
		b.WriteString(a.viewResults())
	}

	b.WriteString("\n\n")
	b.WriteString(a.styles.Muted.Render("[enter] search  [↑/↓] navigate  [esc] quit"))
	return b.String()
}

// viewResults renders the ranked result list.
func (a *App) viewResults() string {
	var b strings.Builder
	for i, r := range a.results {
		line := fmt.Sprintf("%d. [%s] %s", i+1, r.DocID, truncate(r.ChunkText, 80))
		if i == a.selectedIndex {
			b.WriteString(a.styles.Selected.Render("▸ " + line))
		} else {
			b.WriteString(a.styles.Normal.Render("  " + line))
		}
		b.WriteString("  ")
		b.WriteString(a.styles.Score.Render(fmt.Sprintf("%.4f", r.Score)))
		b.WriteString("\n")
	}
	return b.String()
}

// truncate shortens s to at most n runes, appending an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Query returns the last submitted query.
func (a *App) Query() string { return a.query }

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult { return a.results }

// SelectedIndex returns the currently selected result index.
func (a *App) SelectedIndex() int { return a.selectedIndex }

// Err returns the last search error.
func (a *App) Err() error { return a.err }

// Ready reports whether the app has received its dimensions.
func (a *App) Ready() bool { return a.ready }

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
}
