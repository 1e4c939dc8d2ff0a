package layout

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ByLCY/linklabel/binding"
	"github.com/ByLCY/linklabel/dsl"
	"github.com/ByLCY/linklabel/linkify"
	"github.com/ByLCY/linklabel/style"
)

// StandardDefaults 返回没有用户配置时的缺省值：蓝色、下划线、系统字体 17pt、按词折行。
func StandardDefaults() Defaults {
	return Defaults{
		Style: style.DefaultConfig(),
		Font:  style.SystemFont(style.DefaultFontSize),
		Wrap:  WrapWord,
		Mode:  linkify.Relaxed,
	}
}

// Build 根据 DSL AST 生成每个标签的链接区间、样式与排版结果。
// opts.Defaults 为零值时使用 StandardDefaults。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	if opts.Defaults == (Defaults{}) {
		opts.Defaults = StandardDefaults()
	}

	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	meta := collectMeta(doc)

	sections := doc.Labels()
	if len(sections) == 0 {
		return nil, fmt.Errorf("文档中缺少 label 段落")
	}
	seen := map[string]bool{}
	labels := make([]LabelResult, 0, len(sections))
	for _, sec := range sections {
		if seen[sec.Name] {
			return nil, fmt.Errorf("label %s 重复定义", sec.Name)
		}
		seen[sec.Name] = true
		lr, err := buildLabel(sec, res, data, opts)
		if err != nil {
			return nil, fmt.Errorf("label %s: %w", sec.Name, err)
		}
		labels = append(labels, lr)
	}

	return &Result{
		Labels:    labels,
		Resources: res,
		Meta:      meta,
	}, nil
}

// labelProps 是从 label 块中读出的原始属性，键为属性名。
type labelProps map[string]string

func readLabelProps(block *dsl.Block) labelProps {
	props := labelProps{}
	if block == nil {
		return props
	}
	for _, stmt := range block.Statements {
		switch {
		case stmt.Assignment != nil:
			props[strings.ToLower(stmt.Assignment.Key)] = stmt.Assignment.Value.Text()
		case stmt.Command != nil && stmt.Command.Name == "text":
			props["text"] = strings.Join(stmt.Command.Block.TextLines(), "\n")
		case stmt.Text != nil:
			// 裸字符串视为正文，多段之间换行。
			if prev, ok := props["text"]; ok {
				props["text"] = prev + "\n" + string(stmt.Text.Value)
			} else {
				props["text"] = string(stmt.Text.Value)
			}
		}
	}
	return props
}

func buildLabel(sec *dsl.LabelSection, res ResourceSet, data any, opts BuildOptions) (LabelResult, error) {
	d := opts.Defaults
	lr := LabelResult{Name: sec.Name}
	raw := map[string]Length{}

	width, err := headerLength(sec, "width")
	if err != nil {
		return lr, err
	}
	height, err := headerLength(sec, "height")
	if err != nil {
		return lr, err
	}
	raw["width"], raw["height"] = width, height

	props := readLabelProps(sec.Block)
	cfg := d.Style
	font := d.Font.Resolved()
	wrap := d.Wrap
	maxLines := d.MaxLines
	mode := d.Mode

	if name, ok := props["font"]; ok {
		f, warn := resolveFontResource(name, res)
		if f.Size <= 0 {
			f.Size = font.Size
		}
		font = f.Resolved()
		lr.addWarning(warn)
	}
	if v, ok := props["font-size"]; ok {
		l, err := ParseLength(v)
		if err != nil {
			return lr, fmt.Errorf("font-size: %w", err)
		}
		raw["font-size"] = l
		font.Size = l.ToPT()
	}

	linkFont := cfg.Font
	if name, ok := props["link-font"]; ok {
		f, warn := resolveFontResource(name, res)
		if f.Size <= 0 {
			f.Size = font.Size
		}
		f = f.Resolved()
		linkFont = &f
		lr.addWarning(warn)
	}
	if v, ok := props["link-font-size"]; ok {
		l, err := ParseLength(v)
		if err != nil {
			return lr, fmt.Errorf("link-font-size: %w", err)
		}
		raw["link-font-size"] = l
		var f style.FontDescriptor
		if linkFont != nil {
			f = *linkFont
		} else {
			f = cfg.LinkFont()
		}
		f.Size = l.ToPT()
		linkFont = &f
	}
	cfg.Font = linkFont

	if v, ok := props["link-color"]; ok {
		c, err := resolveColor(v, res)
		if err != nil {
			return lr, fmt.Errorf("link-color: %w", err)
		}
		cfg.Color = c
	}
	if v, ok := props["underline"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return lr, fmt.Errorf("underline 只能是 true/false：%q", v)
		}
		cfg.Underline = b
	}
	if v, ok := props["wrap"]; ok {
		if wrap, err = ParseWrapMode(v); err != nil {
			return lr, err
		}
	}
	if v, ok := props["max-lines"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return lr, fmt.Errorf("max-lines 必须是非负整数：%q", v)
		}
		maxLines = n
	}
	if v, ok := props["links"]; ok {
		if mode, err = linkify.ParseMode(v); err != nil {
			return lr, err
		}
	}

	text := binding.Interpolate(props["text"], data)
	for _, p := range binding.Placeholders(text) {
		lr.addWarning(fmt.Sprintf("占位符 ${%s} 没有对应的数据", p))
	}

	spans := linkify.Find(linkify.NewDetector(mode), text)
	annotated := style.Annotate(text, spans, cfg)
	params := Params{
		Wrap:     wrap,
		MaxLines: maxLines,
		Size:     Size{W: width.ToPT(), H: height.ToPT()},
		Font:     font,
	}
	frame, err := Layout(annotated, params, opts.Typesetter)
	if err != nil {
		return lr, err
	}
	if frame.Truncated() {
		lr.addWarning("文本超出容器，部分内容未显示")
	}

	lr.Text = text
	lr.Mode = mode
	lr.Spans = spans
	lr.Style = cfg
	lr.Annotated = annotated
	lr.Params = params
	lr.Frame = frame
	lr.Offset = CenterOffset(params.Size, frame.UsedRect())
	if opts.Debug.RawUnits {
		lr.Debug = &LabelDebug{RawUnits: raw}
	}

	slog.Debug("layout: label built",
		"label", lr.Name,
		"links", len(spans),
		"lines", len(frame.Lines()),
		"warnings", len(lr.Warnings))
	return lr, nil
}

func (lr *LabelResult) addWarning(w string) {
	if w == "" {
		return
	}
	lr.Warnings = append(lr.Warnings, w)
	slog.Warn("layout: "+w, "label", lr.Name)
}

func headerLength(sec *dsl.LabelSection, key string) (Length, error) {
	v, ok := sec.Param(key)
	if !ok {
		return Length{}, fmt.Errorf("缺少 %s", key)
	}
	l, err := ParseLength(v)
	if err != nil {
		return Length{}, fmt.Errorf("%s: %w", key, err)
	}
	if l.Unit == UnitCell {
		return Length{}, fmt.Errorf("%s: label 尺寸不支持 cell 单位", key)
	}
	return l, nil
}

func collectResources(doc *dsl.Document) (ResourceSet, error) {
	res := ResourceSet{
		Fonts:  map[string]style.FontDescriptor{},
		Colors: map[string]style.Color{},
	}

	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil {
				continue
			}
			switch stmt.Command.Name {
			case "font":
				font := parseFontResource(stmt.Command)
				if font.Name != "" {
					res.Fonts[font.Name] = font
				}
			case "color":
				name, value := parseColorResource(stmt.Command)
				if name == "" || value == "" {
					continue
				}
				c, err := style.ParseColor(value)
				if err != nil {
					return res, fmt.Errorf("color %s: %w", name, err)
				}
				res.Colors[name] = c
			default:
				slog.Warn("layout: 忽略未知资源声明", "kind", stmt.Command.Name)
			}
		}
	}

	if _, ok := res.Fonts["Body"]; !ok {
		// 不带字号，由 label 的 font-size 或缺省字体决定。
		res.Fonts["Body"] = style.FontDescriptor{Name: "Body", Src: "embed:goregular"}
	}
	return res, nil
}

func collectMeta(doc *dsl.Document) DocumentMeta {
	meta := DocumentMeta{
		Creator: "linklabel",
	}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			v := stmt.Assignment.Value
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = v.Text()
			case "author":
				meta.Author = v.Text()
			case "subject":
				meta.Subject = v.Text()
			case "creator":
				meta.Creator = v.Text()
			case "keywords":
				meta.Keywords = v.Strings()
			}
		}
	}
	return meta
}

// parseFontResource 解析 `font Name { src: "..." style: "bold" }`。字号由 label 决定。
func parseFontResource(cmd *dsl.Command) style.FontDescriptor {
	if len(cmd.Args) == 0 {
		return style.FontDescriptor{}
	}
	font := style.FontDescriptor{Name: cmd.Args[0].Value}
	if cmd.Block == nil {
		return font
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		switch stmt.Assignment.Key {
		case "src":
			font.Src = stmt.Assignment.Value.Text()
		case "style":
			font.Style = stmt.Assignment.Value.Text()
		case "size":
			if l, err := ParseLength(stmt.Assignment.Value.Text()); err == nil {
				font.Size = l.ToPT()
			}
		}
	}
	return font
}

// parseColorResource 解析 `color Name = #rrggbb`，取最后一个参数作为颜色值。
func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) == 0 {
		return "", ""
	}
	name := cmd.Args[0].Value
	value := ""
	if len(cmd.Args) > 1 {
		value = cmd.Args[len(cmd.Args)-1].Value
	}
	return name, value
}

// resolveFontResource 按名称查找字体资源，找不到时退回 Body 并返回一条警告。
func resolveFontResource(name string, res ResourceSet) (style.FontDescriptor, string) {
	if font, ok := res.Fonts[name]; ok {
		return font, ""
	}
	return res.Fonts["Body"], fmt.Sprintf("字体 %s 未定义，使用 Body", name)
}

// resolveColor 先查颜色资源，再按颜色值或颜色名解析。
func resolveColor(value string, res ResourceSet) (style.Color, error) {
	if c, ok := res.Colors[value]; ok {
		return c, nil
	}
	return style.ParseColor(value)
}
