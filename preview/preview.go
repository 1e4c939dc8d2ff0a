// Package preview is an interactive terminal viewer for laid-out labels.
// Hovering a link shows its URL in the status bar and a left click opens it.
package preview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ByLCY/linklabel/hittest"
	"github.com/ByLCY/linklabel/label"
	"github.com/ByLCY/linklabel/layout"
	"github.com/ByLCY/linklabel/opener"
	termrenderer "github.com/ByLCY/linklabel/renderer/term"
)

// headerRows is the number of rows above the label view.
const headerRows = 1

// Model is the bubbletea model of the preview.
type Model struct {
	result *layout.Result
	term   *termrenderer.Renderer
	labels []*label.Label
	index  int

	width  int
	height int

	hoveredURL string
	status     string

	styles struct {
		title     lipgloss.Style
		statusBar lipgloss.Style
		hover     lipgloss.Style
	}
}

var _ tea.Model = Model{}

// New builds a model over every label in result. Clicks go through o.
func New(result *layout.Result, term *termrenderer.Renderer, o opener.Opener) Model {
	m := Model{result: result, term: term}
	for i := range result.Labels {
		m.labels = append(m.labels, label.FromResult(&result.Labels[i], term.Engine(), o))
	}
	m.styles.title = lipgloss.NewStyle().Bold(true)
	m.styles.statusBar = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	m.styles.hover = lipgloss.NewStyle().Foreground(termrenderer.Color(term.HoverColor))
	return m
}

// Run starts the preview on the alternate screen and blocks until it quits.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init enables motion events for hover tracking.
func (m Model) Init() tea.Cmd {
	return tea.EnableMouseAllMotion
}

// Update handles window, mouse and key events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

// current returns the active label result with the label's latest annotation.
func (m Model) current() *layout.LabelResult {
	lr := m.result.Labels[m.index]
	lr.Annotated = m.labels[m.index].Annotated()
	return &lr
}

func (m Model) hitAt(x, y int) (hittest.Result, layout.Point, layout.Params) {
	lr := m.current()
	pt := termrenderer.CellPoint(x, y-headerRows)
	p := m.term.Params(lr)
	if y < headerRows || y >= headerRows+int(p.Size.H) || x < 0 || x >= int(p.Size.W) {
		return hittest.NoHit, pt, p
	}
	return m.labels[m.index].OnPointerActivated(pt, p), pt, p
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	res, pt, p := m.hitAt(msg.X, msg.Y)
	m.hoveredURL = res.URL

	if res.Hit && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if _, opened := m.labels[m.index].Activate(pt, p); opened {
			m.status = "opened " + res.URL
		} else {
			m.status = "could not open " + res.URL
		}
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.index = (m.index + 1) % len(m.labels)
		m.hoveredURL = ""
		m.status = ""
	case "shift+tab":
		m.index = (m.index + len(m.labels) - 1) % len(m.labels)
		m.hoveredURL = ""
		m.status = ""
	case "u":
		l := m.labels[m.index]
		underline := !l.State().Style.Underline
		l.Apply(label.SetUnderline(underline))
		m.status = fmt.Sprintf("underline %v", underline)
	}
	return m, nil
}

// View renders the header, the label and the status bar.
func (m Model) View() string {
	lr := m.current()
	header := m.styles.title.Render(fmt.Sprintf("%s (%d/%d)", lr.Name, m.index+1, len(m.labels)))

	body, err := m.term.View(lr, m.hoveredURL)
	if err != nil {
		body = err.Error()
	}
	return strings.Join([]string{header, body, m.renderStatusBar()}, "\n")
}

func (m Model) renderStatusBar() string {
	if m.hoveredURL != "" {
		return m.styles.hover.Render("🔗 " + m.hoveredURL)
	}
	if m.status != "" {
		return m.styles.statusBar.Render(m.status)
	}
	return m.styles.statusBar.Render("tab: next label  u: underline  q: quit")
}

// Index returns the index of the label on screen.
func (m Model) Index() int { return m.index }

// HoveredURL returns the URL under the pointer, or "".
func (m Model) HoveredURL() string { return m.hoveredURL }
