package preview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/linklabel/layout"
	"github.com/ByLCY/linklabel/linkify"
	termrenderer "github.com/ByLCY/linklabel/renderer/term"
	"github.com/ByLCY/linklabel/style"
)

type recorder struct{ opened []string }

func (r *recorder) CanOpen(u string) bool { return strings.HasPrefix(u, "https://") }

func (r *recorder) Open(u string) error {
	r.opened = append(r.opened, u)
	return nil
}

func labelResult(name, text string) layout.LabelResult {
	spans := linkify.Find(nil, text)
	cfg := style.DefaultConfig()
	return layout.LabelResult{
		Name:      name,
		Text:      text,
		Mode:      linkify.Relaxed,
		Spans:     spans,
		Style:     cfg,
		Annotated: style.Annotate(text, spans, cfg),
		Params: layout.Params{
			Wrap: layout.WrapWord,
			Size: layout.Size{W: 320, H: 48},
			Font: style.SystemFont(style.DefaultFontSize),
		},
	}
}

func newModel(t *testing.T) (Model, *recorder) {
	t.Helper()
	res := &layout.Result{Labels: []layout.LabelResult{
		labelResult("welcome", "visit example.com today"),
		labelResult("footer", "no links here"),
	}}
	rec := &recorder{}
	return New(res, termrenderer.New(style.Color{R: 0xff, G: 0x88, A: 0xff}), rec), rec
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// 标签视图从第 1 行开始：标签第 1 行（居中行）在屏幕第 2 行，链接占第 14..24 列。
func TestHoverShowsURL(t *testing.T) {
	m, _ := newModel(t)

	m, _ = update(t, m, tea.MouseMsg{X: 15, Y: 2, Action: tea.MouseActionMotion})
	assert.Equal(t, "example.com", m.HoveredURL())
	assert.True(t, strings.HasSuffix(ansi.Strip(m.View()), "\n🔗 example.com"))

	m, _ = update(t, m, tea.MouseMsg{X: 9, Y: 2, Action: tea.MouseActionMotion})
	assert.Empty(t, m.HoveredURL())

	m, _ = update(t, m, tea.MouseMsg{X: 15, Y: 0, Action: tea.MouseActionMotion})
	assert.Empty(t, m.HoveredURL(), "header row is outside the label")
}

func TestClickOpensLink(t *testing.T) {
	m, rec := newModel(t)

	m, _ = update(t, m, tea.MouseMsg{X: 20, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, []string{"https://example.com"}, rec.opened)
	assert.Contains(t, m.View(), "example.com")

	_, _ = update(t, m, tea.MouseMsg{X: 9, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	_, _ = update(t, m, tea.MouseMsg{X: 20, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.Len(t, rec.opened, 1)
}

func TestKeys(t *testing.T) {
	m, _ := newModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.Index())
	assert.Contains(t, ansi.Strip(m.View()), "footer (2/2)")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.Index())

	require.True(t, m.labels[0].State().Style.Underline)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")})
	assert.False(t, m.labels[0].State().Style.Underline)
	assert.Equal(t, style.UnderlineNone, m.labels[0].Annotated().Runs[0].Attrs.Underline)
	assert.Contains(t, ansi.Strip(m.View()), "underline false")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestViewLayout(t *testing.T) {
	m, _ := newModel(t)
	lines := strings.Split(ansi.Strip(m.View()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "welcome (1/2)", lines[0])
	assert.Equal(t, strings.Repeat(" ", 8)+"visit example.com today"+strings.Repeat(" ", 9), lines[2])
	assert.Contains(t, lines[4], "q: quit")
}
