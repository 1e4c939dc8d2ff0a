// Package label ties detection, styling, hit testing and opening together
// for one text container.
package label

import (
	"github.com/ByLCY/linklabel/hittest"
	"github.com/ByLCY/linklabel/layout"
	"github.com/ByLCY/linklabel/linkify"
	"github.com/ByLCY/linklabel/opener"
	"github.com/ByLCY/linklabel/style"
)

// State is everything the annotated text is derived from.
type State struct {
	Text  string
	Style style.Config
	Mode  linkify.Mode
	Spans []linkify.Span
}

// Field names the input a Change replaces.
type Field int

const (
	FieldText Field = iota
	FieldColor
	FieldUnderline
	FieldFont
	FieldMode
)

// Change replaces one input. Only the value matching Field is read.
type Change struct {
	Field     Field
	Text      string
	Color     style.Color
	Underline bool
	Font      *style.FontDescriptor
	Mode      linkify.Mode
}

// SetText replaces the text and re-detects links.
func SetText(s string) Change { return Change{Field: FieldText, Text: s} }
// SetColor replaces the link colour.
func SetColor(c style.Color) Change { return Change{Field: FieldColor, Color: c} }
// SetUnderline switches link underlining.
func SetUnderline(on bool) Change { return Change{Field: FieldUnderline, Underline: on} }
// SetFont replaces the link font; nil means the system default.
func SetFont(f *style.FontDescriptor) Change { return Change{Field: FieldFont, Font: f} }
// SetMode switches between relaxed and strict detection.
func SetMode(m linkify.Mode) Change { return Change{Field: FieldMode, Mode: m} }

// Transition applies change to prev and derives the annotated text from
// scratch. Spans are re-detected only when the text or mode changes.
func Transition(prev State, change Change) (State, style.AnnotatedText) {
	return transition(prev, change, nil)
}

func transition(prev State, change Change, d linkify.Detector) (State, style.AnnotatedText) {
	next := prev
	redetect := false
	switch change.Field {
	case FieldText:
		next.Text = change.Text
		redetect = true
	case FieldColor:
		next.Style.Color = change.Color
	case FieldUnderline:
		next.Style.Underline = change.Underline
	case FieldFont:
		if change.Font != nil {
			f := *change.Font
			next.Style.Font = &f
		} else {
			next.Style.Font = nil
		}
	case FieldMode:
		next.Mode = change.Mode
		redetect = d == nil
	}
	if redetect {
		next.Spans = detect(next, d)
	}
	return next, style.Annotate(next.Text, next.Spans, next.Style)
}

func detect(s State, d linkify.Detector) []linkify.Span {
	if d == nil {
		d = linkify.NewDetector(s.Mode)
	}
	return linkify.Find(d, s.Text)
}

// Options configures a Label. Engine is required for hit testing; Opener
// defaults to opener.System.
type Options struct {
	Text     string
	Style    style.Config
	Mode     linkify.Mode
	Detector linkify.Detector // overrides Mode
	Engine   layout.Engine
	Opener   opener.Opener
}

// Label is a text container whose URLs are styled and clickable.
type Label struct {
	state     State
	annotated style.AnnotatedText
	detector  linkify.Detector
	engine    layout.Engine
	opener    opener.Opener
}

// New builds a label and annotates its initial text.
func New(opts Options) *Label {
	l := &Label{
		state:    State{Text: opts.Text, Style: opts.Style, Mode: opts.Mode},
		detector: opts.Detector,
		engine:   opts.Engine,
		opener:   opts.Opener,
	}
	if l.opener == nil {
		l.opener = opener.System{}
	}
	l.state.Spans = detect(l.state, l.detector)
	l.annotated = style.Annotate(l.state.Text, l.state.Spans, l.state.Style)
	return l
}

// FromResult builds a label for a laid-out DSL label.
func FromResult(lr *layout.LabelResult, engine layout.Engine, o opener.Opener) *Label {
	return New(Options{Text: lr.Text, Style: lr.Style, Mode: lr.Mode, Engine: engine, Opener: o})
}

// State returns a copy of the current inputs.
func (l *Label) State() State { return l.state }

// Annotated returns the current annotated text.
func (l *Label) Annotated() style.AnnotatedText { return l.annotated }

// Apply runs one transition and stores the result.
func (l *Label) Apply(change Change) style.AnnotatedText {
	l.state, l.annotated = transition(l.state, change, l.detector)
	return l.annotated
}

// OnStyleInputsChanged replaces every input at once and recomputes the
// annotated text in full.
func (l *Label) OnStyleInputsChanged(text string, color style.Color, underline bool, font *style.FontDescriptor) style.AnnotatedText {
	l.state.Text = text
	l.state.Style.Color = color
	l.state.Style.Underline = underline
	l.state.Style.Font = nil
	if font != nil {
		f := *font
		l.state.Style.Font = &f
	}
	l.state.Spans = detect(l.state, l.detector)
	l.annotated = style.Annotate(l.state.Text, l.state.Spans, l.state.Style)
	return l.annotated
}

// OnPointerActivated resolves pt to the link under it, if any.
func (l *Label) OnPointerActivated(pt layout.Point, p layout.Params) hittest.Result {
	return hittest.HitTest(l.engine, l.annotated, p, pt)
}

// Activate hit-tests pt and opens the link under it. The bool reports
// whether a link was opened.
func (l *Label) Activate(pt layout.Point, p layout.Params) (hittest.Result, bool) {
	r := l.OnPointerActivated(pt, p)
	if !r.Hit {
		return r, false
	}
	return r, opener.OpenURL(l.opener, r.URL)
}
