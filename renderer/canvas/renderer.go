package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/linklabel/fonts"
	"github.com/ByLCY/linklabel/layout"
	"github.com/ByLCY/linklabel/renderer"
	"github.com/ByLCY/linklabel/style"
)

const debugBoxWidth = 0.2 // mm

// Renderer measures text for the layout engine and draws layout results via
// github.com/tdewolff/canvas. The layout side works in pt, canvas in mm;
// conversion happens at this boundary.
type Renderer struct {
	baseDir    string
	textColor  style.Color
	debugBoxes bool

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir    string
	Fonts      map[string]Resource // built-in fonts accessible via built-in:<name>
	TextColor  *style.Color        // colour of non-link text, default #1e1e1e
	DebugBoxes bool                // stroke each label's used rect
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		textColor:    style.Color{R: 30, G: 30, B: 30, A: 255},
		debugBoxes:   opts.DebugBoxes,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	if opts.TextColor != nil {
		r.textColor = *opts.TextColor
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // a missing file surfaces when the font is used
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// TextWidth implements layout.Typesetter.
func (r *Renderer) TextWidth(font style.FontDescriptor, s string) (float64, error) {
	face, err := r.fontFace(font, r.textColor)
	if err != nil {
		return 0, err
	}
	return toPt(face.TextWidth(s)), nil
}

// LineMetrics implements layout.Typesetter.
func (r *Renderer) LineMetrics(font style.FontDescriptor) (float64, float64, error) {
	face, err := r.fontFace(font, r.textColor)
	if err != nil {
		return 0, 0, err
	}
	m := face.Metrics()
	return toPt(m.Ascent), toPt(m.LineHeight), nil
}

// Render renders every label onto its own PDF page sized to the label.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Labels) == 0 {
		return nil, fmt.Errorf("缺少可渲染的标签")
	}

	var buf bytes.Buffer
	first := result.Labels[0].Params.Size
	writer := pdf.New(&buf, toMm(first.W), toMm(first.H), nil)
	r.applyMeta(writer, result.Meta)
	for i := range result.Labels {
		lr := &result.Labels[i]
		w, h := toMm(lr.Params.Size.W), toMm(lr.Params.Size.H)
		if i > 0 {
			writer.NewPage(w, h)
		}
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.DrawLabel(ctx, lr); err != nil {
			return nil, fmt.Errorf("label %s: %w", lr.Name, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// DrawLabel draws one label at the origin of ctx, centred in its container.
// A label without a frame is laid out with r first.
func (r *Renderer) DrawLabel(ctx *canvas.Context, lr *layout.LabelResult) error {
	frame := lr.Frame
	if frame == nil {
		f, err := layout.Layout(lr.Annotated, lr.Params, r)
		if err != nil {
			return err
		}
		frame = f
	}
	offset := layout.CenterOffset(lr.Params.Size, frame.UsedRect())
	runes := []rune(lr.Annotated.Text)
	base := lr.Params.Font.Resolved()

	for _, ln := range frame.Lines() {
		baseline := offset.Y + ln.Baseline()
		for start := ln.Start; start < ln.Visible; {
			run, isLink := lr.Annotated.RunAt(start)
			end := ln.Visible
			if isLink {
				end = min(end, run.End)
			} else {
				end = nextRunStart(lr.Annotated, start, end)
			}
			x0 := offset.X + ln.Edges[start-ln.Start]
			x1 := offset.X + ln.Edges[end-ln.Start]
			font, col := base, r.textColor
			if isLink {
				font, col = run.Attrs.Font.Resolved(), run.Attrs.Foreground
			}
			face, err := r.fontFace(font, col)
			if err != nil {
				return err
			}
			text := string(runes[start:end])
			ctx.DrawText(toMm(x0), toMm(baseline), canvas.NewTextLine(face, text, canvas.Left))
			if isLink && run.Attrs.Underline == style.UnderlineSingle {
				r.drawUnderline(ctx, x0, x1, baseline, font.Size, run.Attrs.UnderlineColor)
			}
			start = end
		}
	}

	if r.debugBoxes {
		used := frame.UsedRect()
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(canvas.Hex("#ff0000"))
		ctx.SetStrokeWidth(debugBoxWidth)
		ctx.DrawPath(toMm(offset.X+used.X), toMm(offset.Y+used.Y), canvas.Rectangle(toMm(used.W), toMm(used.H)))
	}
	return nil
}

// nextRunStart returns the start of the first link run in (start, limit), or limit.
func nextRunStart(text style.AnnotatedText, start, limit int) int {
	for _, run := range text.Runs {
		if run.Start > start && run.Start < limit {
			limit = run.Start
		}
	}
	return limit
}

// drawUnderline 在基线下方 size/10 处画一条粗 size/16 的线（单位 pt）。
func (r *Renderer) drawUnderline(ctx *canvas.Context, x0, x1, baseline, size float64, col style.Color) {
	if x1 <= x0 {
		return
	}
	ctx.SetStrokeColor(col)
	ctx.SetStrokeWidth(toMm(size / 16))
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(toMm(x1-x0), 0)
	ctx.DrawPath(toMm(x0), toMm(baseline+size/10), p)
}

func (r *Renderer) fontFace(font style.FontDescriptor, col style.Color) (*canvas.FontFace, error) {
	font = font.Resolved()
	family, fontStyle, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(font.Size, col, fontStyle, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font style.FontDescriptor) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := font.Key()
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	fontStyle := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, fontStyle); err != nil {
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: fontStyle}
	r.fontFamilies[key] = entry
	return family, fontStyle, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font style.FontDescriptor, fontStyle canvas.FontStyle) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, fontStyle)
}

func (r *Renderer) loadFontBytes(font style.FontDescriptor) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	src := font.Src
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load(fonts.Default)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("linklabel-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func parseFontStyle(s string) canvas.FontStyle {
	if s == "" {
		return canvas.FontRegular
	}
	lower := strings.ToLower(s)
	result := canvas.FontRegular
	switch {
	case strings.Contains(lower, "black"):
		result = canvas.FontBlack
	case strings.Contains(lower, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(lower, "semibold"), strings.Contains(lower, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(lower, "bold"):
		result = canvas.FontBold
	case strings.Contains(lower, "medium"):
		result = canvas.FontMedium
	case strings.Contains(lower, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(lower, "italic") || strings.Contains(lower, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
