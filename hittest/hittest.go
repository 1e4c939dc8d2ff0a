// Package hittest resolves a pointer position on a laid-out label to the
// link under it.
package hittest

import (
	"log/slog"

	"github.com/ByLCY/linklabel/layout"
	"github.com/ByLCY/linklabel/linkify"
	"github.com/ByLCY/linklabel/style"
)

// Result is the outcome of a hit test. The zero value is NoHit.
type Result struct {
	Hit  bool         `json:"hit"`
	Span linkify.Span `json:"span"`
	URL  string       `json:"url,omitempty"`
}

// NoHit is returned when the pointer is not over a link.
var NoHit = Result{}

// HitTest lays text out with engine inside p.Size, centres the used area in
// the container and returns the link whose span contains the character
// nearest to pt. pt is in container coordinates, origin top-left.
//
// Layout is recomputed on every call. A layout failure yields NoHit.
func HitTest(engine layout.Engine, text style.AnnotatedText, p layout.Params, pt layout.Point) Result {
	if engine == nil {
		return NoHit
	}
	m, err := engine.Measure(text, p)
	if err != nil {
		slog.Debug("hittest: layout unavailable", "err", err)
		return NoHit
	}
	offset := layout.CenterOffset(p.Size, m.UsedRect())
	idx := m.CharacterIndex(pt.Sub(offset))
	if run, ok := text.RunAt(idx); ok {
		return Result{Hit: true, Span: run.Span, URL: run.Text}
	}
	return NoHit
}
