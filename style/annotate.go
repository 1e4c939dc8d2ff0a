package style

import (
	"unicode/utf8"

	"github.com/ByLCY/linklabel/linkify"
)

// Run 是一个已经附加样式的链接区间。
type Run struct {
	linkify.Span
	Attrs Attrs `json:"attrs"`
}

// AnnotatedText 是原始文本加上按 Start 排序的链接样式区间，交给渲染端使用。
type AnnotatedText struct {
	Text string `json:"text"`
	Runs []Run  `json:"runs"`
}

// Annotate 为每个 span 生成样式区间。每次都从原始 spans 重新推导，不依赖上一次结果，
// 因此同样的输入总是得到同样的输出。text 本身不会被修改。
func Annotate(text string, spans []linkify.Span, cfg Config) AnnotatedText {
	out := AnnotatedText{Text: text}
	if len(spans) == 0 {
		return out
	}
	underline := UnderlineNone
	if cfg.Underline {
		underline = UnderlineSingle
	}
	attrs := Attrs{
		Foreground:     cfg.Color,
		UnderlineColor: cfg.Color,
		Underline:      underline,
		Font:           cfg.LinkFont(),
	}
	n := utf8.RuneCountInString(text)
	out.Runs = make([]Run, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 || s.End > n || s.Start >= s.End {
			continue
		}
		out.Runs = append(out.Runs, Run{Span: s, Attrs: attrs})
	}
	return out
}

// Len 返回文本的 rune 数。
func (t AnnotatedText) Len() int { return utf8.RuneCountInString(t.Text) }

// Spans 返回全部链接区间。
func (t AnnotatedText) Spans() []linkify.Span {
	if len(t.Runs) == 0 {
		return nil
	}
	out := make([]linkify.Span, len(t.Runs))
	for i, r := range t.Runs {
		out[i] = r.Span
	}
	return out
}

// RunAt 返回覆盖 rune 下标 i 的区间。
func (t AnnotatedText) RunAt(i int) (Run, bool) {
	for _, r := range t.Runs {
		if r.Contains(i) {
			return r, true
		}
	}
	return Run{}, false
}

// Equal 比较文本与全部区间。
func (t AnnotatedText) Equal(o AnnotatedText) bool {
	if t.Text != o.Text || len(t.Runs) != len(o.Runs) {
		return false
	}
	for i := range t.Runs {
		if t.Runs[i].Span != o.Runs[i].Span || !t.Runs[i].Attrs.Equal(o.Runs[i].Attrs) {
			return false
		}
	}
	return true
}
