package layout

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/ByLCY/linklabel/style"
)

const heightEpsilon = 1e-6

// Layout 将带样式的文本排进 p.Size 指定的容器。链接区间使用各自的字体，
// 其余字符使用 p.Font。渲染端与命中测试共用这一实现，保证两边看到的字形位置一致。
//
// 折行为贪心算法：WrapWord 在 UAX #14 断行机会处折行，单个片段比容器还宽时
// 按字素拆开；WrapChar 在字素之间折行；WrapClip 只认显式换行。
// MaxLines > 0 时只保留前 MaxLines 行；超出容器高度的行被丢弃（至少保留一行）。
func Layout(text style.AnnotatedText, p Params, ts Typesetter) (*Frame, error) {
	if ts == nil {
		return nil, fmt.Errorf("%w: 缺少排版后端 Typesetter", ErrLayoutUnavailable)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	t := newTypesetter(text, p.Font, ts)
	if err := t.measure(); err != nil {
		return nil, unavailable(err)
	}
	ranges := t.breakLines(p.Wrap, p.Size.W)
	if p.MaxLines > 0 && len(ranges) > p.MaxLines {
		ranges = ranges[:p.MaxLines]
	}

	f := &Frame{length: len(t.runes)}
	y := 0.0
	for i, r := range ranges {
		ln, err := t.line(r.start, r.end)
		if err != nil {
			return nil, unavailable(err)
		}
		if i > 0 && y+ln.Height > p.Size.H+heightEpsilon {
			break
		}
		ln.Y = y
		y += ln.Height
		f.lines = append(f.lines, ln)
		if ln.Width > f.used.W {
			f.used.W = ln.Width
		}
	}
	f.used.H = y
	return f, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrLayoutUnavailable, err)
}

// unit 是不可再分的折行单位，[start, end) 为 rune 区间；hard 表示其后必须换行。
type unit struct {
	start, end int
	hard       bool
}

type typesetter struct {
	runes    []rune
	fonts    []style.FontDescriptor
	advances []float64 // 字素宽度记在首个 rune 上，其余为 0
	base     style.FontDescriptor
	ts       Typesetter
	metrics  map[style.FontDescriptor][2]float64
}

// clusterKey 缓存同一字体下相同字素的宽度。
type clusterKey struct {
	font    style.FontDescriptor
	cluster string
}

func newTypesetter(text style.AnnotatedText, base style.FontDescriptor, ts Typesetter) *typesetter {
	runes := []rune(text.Text)
	base = base.Resolved()
	fonts := make([]style.FontDescriptor, len(runes))
	for i := range fonts {
		fonts[i] = base
	}
	for _, run := range text.Runs {
		font := run.Attrs.Font.Resolved()
		for i := max(run.Start, 0); i < min(run.End, len(runes)); i++ {
			fonts[i] = font
		}
	}
	return &typesetter{
		runes:    runes,
		fonts:    fonts,
		advances: make([]float64, len(runes)),
		base:     base,
		ts:       ts,
		metrics:  map[style.FontDescriptor][2]float64{},
	}
}

// measure 逐个字素测量一次宽度，之后的折行与字符边缘都由累加得到，
// 排版总开销与文本长度成线性关系。字素不跨越字体边界。
func (t *typesetter) measure() error {
	cache := map[clusterKey]float64{}
	return t.pieces(0, len(t.runes), func(font style.FontDescriptor, ps, pe int) error {
		str, state, pos := string(t.runes[ps:pe]), -1, ps
		for str != "" {
			var cluster string
			cluster, str, _, state = uniseg.FirstGraphemeClusterInString(str, state)
			n := utf8.RuneCountInString(cluster)
			visible := t.text(pos, pos+n)
			if visible != "" {
				key := clusterKey{font: font, cluster: visible}
				w, ok := cache[key]
				if !ok {
					var err error
					if w, err = t.ts.TextWidth(font, visible); err != nil {
						return err
					}
					w = max(w, 0)
					cache[key] = w
				}
				t.advances[pos] = w
			}
			pos += n
		}
		return nil
	})
}

// breaker 累积当前行的起点与宽度。
type breaker struct {
	lines []unit
	start int
	cur   float64
}

func (b *breaker) emit(end int) {
	b.lines = append(b.lines, unit{start: b.start, end: end})
	b.start = end
	b.cur = 0
}

// fit 在放入起点为 at、宽度为 w 的内容之前，按需结束当前行。
func (b *breaker) fit(at int, w, limit float64) {
	if at > b.start && b.cur+w > limit {
		b.emit(at)
	}
}

func (t *typesetter) breakLines(mode WrapMode, limit float64) []unit {
	b := &breaker{}
	for _, u := range t.units(mode) {
		if mode != WrapClip {
			// 行尾空白不参与溢出判断
			contentEnd := t.trimTrailing(u.start, u.end)
			cw := t.width(u.start, contentEnd)
			b.fit(u.start, cw, limit)
			if mode == WrapWord && cw > limit {
				t.splitClusters(b, u.start, contentEnd, limit)
				b.cur += t.width(contentEnd, u.end)
			} else {
				b.cur += t.width(u.start, u.end)
			}
		}
		if u.hard {
			b.emit(u.end)
		}
	}
	// 最后一行总是存在：空文本得到一个空行，以换行结尾时得到额外的空行。
	b.lines = append(b.lines, unit{start: b.start, end: len(t.runes)})
	return b.lines
}

func (t *typesetter) units(mode WrapMode) []unit {
	var out []unit
	switch mode {
	case WrapClip:
		start := 0
		for i, r := range t.runes {
			if !isHardBreak(r) {
				continue
			}
			if r == '\r' && i+1 < len(t.runes) && t.runes[i+1] == '\n' {
				continue
			}
			out = append(out, unit{start: start, end: i + 1, hard: true})
			start = i + 1
		}
		if start < len(t.runes) {
			out = append(out, unit{start: start, end: len(t.runes)})
		}
	case WrapChar:
		str, state, pos := string(t.runes), -1, 0
		for str != "" {
			var cluster string
			cluster, str, _, state = uniseg.FirstGraphemeClusterInString(str, state)
			n := utf8.RuneCountInString(cluster)
			out = append(out, t.unit(pos, pos+n))
			pos += n
		}
	default:
		str, state, pos := string(t.runes), -1, 0
		for str != "" {
			var segment string
			segment, str, _, state = uniseg.FirstLineSegmentInString(str, state)
			n := utf8.RuneCountInString(segment)
			out = append(out, t.unit(pos, pos+n))
			pos += n
		}
	}
	return out
}

func (t *typesetter) unit(start, end int) unit {
	return unit{start: start, end: end, hard: end > start && isHardBreak(t.runes[end-1])}
}

// splitClusters 把一个过宽的片段按字素逐个放入行内。
func (t *typesetter) splitClusters(b *breaker, start, end int, limit float64) {
	str, state, pos := string(t.runes[start:end]), -1, start
	for str != "" {
		var cluster string
		cluster, str, _, state = uniseg.FirstGraphemeClusterInString(str, state)
		n := utf8.RuneCountInString(cluster)
		w := t.width(pos, pos+n)
		b.fit(pos, w, limit)
		b.cur += w
		pos += n
	}
}

func (t *typesetter) line(start, end int) (Line, error) {
	ln := Line{Start: start, End: end, Edges: make([]float64, end-start+1)}
	visible := end
	for visible > start && isHardBreak(t.runes[visible-1]) {
		visible--
	}
	ln.Visible = visible

	if start == end {
		ascent, height, err := t.lineMetrics(t.base)
		if err != nil {
			return ln, err
		}
		ln.Ascent, ln.Height = ascent, height
		return ln, nil
	}

	err := t.pieces(start, end, func(font style.FontDescriptor, ps, pe int) error {
		ascent, height, err := t.lineMetrics(font)
		if err != nil {
			return err
		}
		ln.Ascent = max(ln.Ascent, ascent)
		ln.Height = max(ln.Height, height)
		return nil
	})
	if err != nil {
		return ln, err
	}
	for i := start; i < end; i++ {
		ln.Edges[i-start+1] = ln.Edges[i-start] + t.advances[i]
	}
	ln.Width = ln.Edges[t.trimTrailing(start, end)-start]
	return ln, nil
}

func (t *typesetter) lineMetrics(font style.FontDescriptor) (float64, float64, error) {
	if m, ok := t.metrics[font]; ok {
		return m[0], m[1], nil
	}
	ascent, height, err := t.ts.LineMetrics(font)
	if err != nil {
		return 0, 0, err
	}
	t.metrics[font] = [2]float64{ascent, height}
	return ascent, height, nil
}

// width 返回 [start, end) 的宽度，即各字素宽度之和。
func (t *typesetter) width(start, end int) float64 {
	total := 0.0
	for _, w := range t.advances[start:end] {
		total += w
	}
	return total
}

// pieces 把 [start, end) 切成字体相同的连续片段。
func (t *typesetter) pieces(start, end int, fn func(font style.FontDescriptor, ps, pe int) error) error {
	for ps := start; ps < end; {
		pe := ps + 1
		for pe < end && t.fonts[pe] == t.fonts[ps] {
			pe++
		}
		if err := fn(t.fonts[ps], ps, pe); err != nil {
			return err
		}
		ps = pe
	}
	return nil
}

// text 返回 [start, end) 的文本，换行类字符不占宽度，测量时去掉。
func (t *typesetter) text(start, end int) string {
	seg := t.runes[start:end]
	clean := true
	for _, r := range seg {
		if isHardBreak(r) {
			clean = false
			break
		}
	}
	if clean {
		return string(seg)
	}
	var sb strings.Builder
	for _, r := range seg {
		if !isHardBreak(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (t *typesetter) trimTrailing(start, end int) int {
	for end > start && unicode.IsSpace(t.runes[end-1]) {
		end--
	}
	return end
}

func isHardBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
