// Package style 定义链接样式（颜色、下划线、字体）以及带样式的文本产物。
package style

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// DefaultFontSize 是未指定字体时使用的参考字号（pt）。
const DefaultFontSize = 17.0

// ErrUnknownColor 表示颜色既不是十六进制也不是已知的颜色名。
var ErrUnknownColor = errors.New("未知颜色")

// Color 采用 0-255 的 RGBA 数值，实现 color.Color。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// 常用颜色：Blue 是链接缺省色，Black 是正文缺省色。
var (
	Blue  = Color{R: 0, G: 0, B: 255, A: 255}
	Black = Color{R: 0, G: 0, B: 0, A: 255}
)

// RGBA implements color.Color（非预乘的分量按 alpha 预乘后返回）。
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Hex 返回 #rrggbb 形式；alpha 不为 255 时追加两位 alpha。
func (c Color) Hex() string {
	if c.A != 255 {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// FromColor 将任意 color.Color 转为 Color。
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// ParseColor 解析 #rgb、#rrggbb、#rrggbbaa 或 CSS 颜色名（如 "blue"）。
func ParseColor(value string) (Color, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return Color{}, fmt.Errorf("%w: 空字符串", ErrUnknownColor)
	}
	if strings.HasPrefix(v, "#") {
		alpha := uint8(255)
		if len(v) == 9 {
			a, err := strconv.ParseUint(v[7:], 16, 8)
			if err != nil {
				return Color{}, fmt.Errorf("%w: %s", ErrUnknownColor, value)
			}
			alpha = uint8(a)
			v = v[:7]
		}
		c, err := colorful.Hex(v)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %s", ErrUnknownColor, value)
		}
		r, g, b := c.RGB255()
		return Color{R: r, G: g, B: b, A: alpha}, nil
	}
	if named, ok := colornames.Map[strings.ToLower(v)]; ok {
		return FromColor(named), nil
	}
	return Color{}, fmt.Errorf("%w: %s", ErrUnknownColor, value)
}

// FontDescriptor 描述字体资源与字号。Src 可以是文件路径、embed:* 或 built-in:*。
type FontDescriptor struct {
	Name  string  `json:"name" toml:"name"`
	Src   string  `json:"src" toml:"src"`
	Style string  `json:"style,omitempty" toml:"style"`
	Size  float64 `json:"size" toml:"size"` // pt
}

// SystemFont 返回内置的系统默认字体（Go Regular）。
func SystemFont(size float64) FontDescriptor {
	if size <= 0 {
		size = DefaultFontSize
	}
	return FontDescriptor{Name: "system", Src: "embed:goregular", Size: size}
}

// WithSize 返回替换了字号的副本。
func (f FontDescriptor) WithSize(size float64) FontDescriptor {
	f.Size = size
	return f
}

// Resolved 补全缺失字段：没有 Src 时退回系统字体，字号非正时使用默认字号。
func (f FontDescriptor) Resolved() FontDescriptor {
	if f.Src == "" {
		sys := SystemFont(f.Size)
		sys.Style = f.Style
		return sys
	}
	if f.Size <= 0 {
		f.Size = DefaultFontSize
	}
	return f
}

// Key 用于字体缓存，字号不参与。
func (f FontDescriptor) Key() string {
	return f.Name + "|" + f.Src + "|" + f.Style
}

// Config 是一次渲染使用的链接样式（值类型）。
type Config struct {
	Underline bool            `json:"underline"`
	Color     Color           `json:"color"`
	Font      *FontDescriptor `json:"font,omitempty"`
}

// DefaultConfig: 下划线、蓝色、系统字体 17pt。
func DefaultConfig() Config {
	return Config{Underline: true, Color: Blue}
}

// LinkFont 返回链接使用的字体；未设置时为系统默认字体。
func (c Config) LinkFont() FontDescriptor {
	if c.Font == nil {
		return SystemFont(DefaultFontSize)
	}
	return c.Font.Resolved()
}

// UnderlineStyle 对应下划线样式。
type UnderlineStyle int

const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSingle
)

func (u UnderlineStyle) String() string {
	if u == UnderlineSingle {
		return "single"
	}
	return "none"
}

// MarshalText 让调试 JSON 输出可读的名称。
func (u UnderlineStyle) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// Attrs 是作用在一个区间上的具体样式。
type Attrs struct {
	Foreground     Color          `json:"foreground"`
	UnderlineColor Color          `json:"underlineColor"`
	Underline      UnderlineStyle `json:"underline"`
	Font           FontDescriptor `json:"font"`
}

// Equal reports whether a and b have identical styling.
func (a Attrs) Equal(b Attrs) bool {
	return a.Foreground == b.Foreground &&
		a.UnderlineColor == b.UnderlineColor &&
		a.Underline == b.Underline &&
		a.Font == b.Font
}
