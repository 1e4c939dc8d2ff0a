package label_test

import (
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/linklabel/hittest"
	"github.com/ByLCY/linklabel/label"
	"github.com/ByLCY/linklabel/layout"
	"github.com/ByLCY/linklabel/linkify"
	"github.com/ByLCY/linklabel/style"
)

type monoTypesetter struct{}

func (monoTypesetter) TextWidth(font style.FontDescriptor, s string) (float64, error) {
	return float64(utf8.RuneCountInString(s)) * font.Size, nil
}

func (monoTypesetter) LineMetrics(font style.FontDescriptor) (float64, float64, error) {
	return font.Size * 0.8, font.Size, nil
}

type countingDetector struct {
	calls int
}

func (d *countingDetector) Detect(text string) []linkify.Match {
	d.calls++
	return linkify.Detect(text)
}

type recorder struct {
	opened []string
}

func (r *recorder) CanOpen(u string) bool { return len(u) > 8 && u[:8] == "https://" }

func (r *recorder) Open(u string) error {
	r.opened = append(r.opened, u)
	return nil
}

var font10 = style.FontDescriptor{Name: "mono", Src: "fake", Size: 10}

func TestTransitionRederivesAnnotation(t *testing.T) {
	s0 := label.State{Text: "see x.com and x.com", Style: style.DefaultConfig()}
	s1, a1 := label.Transition(s0, label.SetText(s0.Text))
	require.Len(t, s1.Spans, 2)
	assert.Equal(t, []linkify.Span{{Start: 4, End: 9, Text: "x.com"}, {Start: 14, End: 19, Text: "x.com"}}, s1.Spans)
	assert.Equal(t, style.UnderlineSingle, a1.Runs[1].Attrs.Underline)

	s2, a2 := label.Transition(s1, label.SetUnderline(false))
	assert.Equal(t, s1.Spans, s2.Spans)
	for _, r := range a2.Runs {
		assert.Equal(t, style.UnderlineNone, r.Attrs.Underline)
	}

	_, a3 := label.Transition(s2, label.SetUnderline(true))
	assert.True(t, a1.Equal(a3), "toggling back restores the original annotation")

	red := style.Color{R: 255, A: 255}
	s4, a4 := label.Transition(s1, label.SetColor(red))
	assert.Equal(t, red, a4.Runs[0].Attrs.Foreground)
	assert.Equal(t, red, a4.Runs[0].Attrs.UnderlineColor)
	assert.Equal(t, style.Blue, s1.Style.Color, "prev state untouched")

	big := font10.WithSize(20)
	s5, a5 := label.Transition(s4, label.SetFont(&big))
	big.Size = 99
	assert.Equal(t, 20.0, s5.Style.Font.Size, "font is copied")
	assert.Equal(t, 20.0, a5.Runs[0].Attrs.Font.Size)

	_, a6 := label.Transition(s5, label.SetFont(nil))
	assert.Equal(t, style.SystemFont(style.DefaultFontSize), a6.Runs[0].Attrs.Font)
}

func TestTransitionMode(t *testing.T) {
	s, _ := label.Transition(label.State{}, label.SetText("go to example.com or https://go.dev"))
	assert.Len(t, s.Spans, 2)
	s, a := label.Transition(s, label.SetMode(linkify.Strict))
	require.Len(t, s.Spans, 1)
	assert.Equal(t, "https://go.dev", a.Runs[0].Text)
}

func TestStyleInputsRecomputeEveryTime(t *testing.T) {
	d := &countingDetector{}
	l := label.New(label.Options{Text: "a.com", Style: style.DefaultConfig(), Detector: d})
	assert.Equal(t, 1, d.calls)

	first := l.OnStyleInputsChanged("visit example.com", style.Blue, true, nil)
	second := l.OnStyleInputsChanged("visit example.com", style.Blue, true, nil)
	assert.Equal(t, 3, d.calls)
	assert.True(t, first.Equal(second))
	if diff := cmp.Diff([]linkify.Span{{Start: 6, End: 17, Text: "example.com"}}, second.Spans()); diff != "" {
		t.Fatalf("spans mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "visit example.com", l.Annotated().Text, "text is not modified")

	l.Apply(label.SetColor(style.Black))
	assert.Equal(t, 3, d.calls, "colour change reuses spans")
	assert.Equal(t, style.Black, l.Annotated().Runs[0].Attrs.Foreground)
	assert.Equal(t, style.Black, l.State().Style.Color)
}

func TestActivate(t *testing.T) {
	r := &recorder{}
	engine := layout.TypesetEngine{Typesetter: monoTypesetter{}}
	link := font10
	l := label.New(label.Options{
		Text:   "visit example.com today",
		Style:  style.Config{Underline: true, Color: style.Blue, Font: &link},
		Engine: engine,
		Opener: r,
	})
	p := layout.Params{Size: layout.Size{W: 300, H: 50}, Font: font10}

	res, opened := l.Activate(layout.Point{X: 100, Y: 25}, p)
	assert.True(t, opened)
	assert.Equal(t, "example.com", res.URL)
	assert.Equal(t, []string{"https://example.com"}, r.opened)

	res, opened = l.Activate(layout.Point{X: 40, Y: 25}, p)
	assert.False(t, opened)
	assert.Equal(t, hittest.NoHit, res)
	assert.Len(t, r.opened, 1)

	assert.Equal(t, hittest.NoHit, l.OnPointerActivated(layout.Point{X: 100, Y: 25}, layout.Params{}))
}

func TestFromResult(t *testing.T) {
	lr := &layout.LabelResult{Text: "https://go.dev", Style: style.DefaultConfig(), Mode: linkify.Strict}
	l := label.FromResult(lr, nil, nil)
	require.Len(t, l.Annotated().Runs, 1)
	assert.Equal(t, linkify.Strict, l.State().Mode)
	assert.Equal(t, hittest.NoHit, l.OnPointerActivated(layout.Point{}, layout.Params{Size: layout.Size{W: 10, H: 10}}))
}
