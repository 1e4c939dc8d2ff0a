package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/linklabel/linkify"
	"github.com/ByLCY/linklabel/style"
)

// ErrLayoutUnavailable 表示排版无法得到度量结果（容器尺寸非法、字体不可用等）。
var ErrLayoutUnavailable = errors.New("layout: 无法完成排版")

// BuildOptions 配置布局阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	Typesetter Typesetter
	Defaults   Defaults
	Debug      DebugOptions
}

// Defaults 是 DSL 未指定时使用的缺省值（通常来自用户配置文件）。
type Defaults struct {
	Style    style.Config
	Font     style.FontDescriptor
	Wrap     WrapMode
	MaxLines int
	Mode     linkify.Mode
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	RawUnits bool // 在调试 JSON 中输出原始单位
}

// Typesetter 提供字体度量，所有返回值单位均为 pt。
type Typesetter interface {
	TextWidth(font style.FontDescriptor, s string) (float64, error)
	LineMetrics(font style.FontDescriptor) (ascent, height float64, err error)
}

// Measurement 是一次排版的结果：已用区域与"点 → 最近字符"的反查。
type Measurement interface {
	UsedRect() Rect
	CharacterIndex(pt Point) int
}

// Engine 是排版引擎的抽象，渲染端与命中测试必须使用同一个实现。
type Engine interface {
	Measure(text style.AnnotatedText, p Params) (Measurement, error)
}

// TypesetEngine 用 Typesetter 驱动 Layout，实现 Engine。
type TypesetEngine struct {
	Typesetter Typesetter
}

var _ Engine = TypesetEngine{}

// Measure implements Engine.
func (e TypesetEngine) Measure(text style.AnnotatedText, p Params) (Measurement, error) {
	f, err := Layout(text, p, e.Typesetter)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// WrapMode 折行策略。
type WrapMode int

const (
	WrapWord WrapMode = iota // 在断行机会处折行，超长片段按字素拆分
	WrapChar                 // 任意字素之间都可以折行
	WrapClip                 // 只在显式换行处折行
)

// ParseWrapMode 解析折行策略，兼容 anywhere/break-word/nowrap 旧写法。
func ParseWrapMode(v string) (WrapMode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "word", "anywhere", "normal":
		return WrapWord, nil
	case "char", "break-word", "break-all":
		return WrapChar, nil
	case "clip", "nowrap", "none":
		return WrapClip, nil
	default:
		return WrapWord, fmt.Errorf("未知的折行策略 %q", v)
	}
}

func (w WrapMode) String() string {
	switch w {
	case WrapChar:
		return "char"
	case WrapClip:
		return "clip"
	default:
		return "word"
	}
}

// MarshalText 让调试 JSON 输出可读的名称。
func (w WrapMode) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// Params 是容器的排版约束。Size 单位为 pt（终端渲染时为字符格）。
type Params struct {
	Wrap     WrapMode             `json:"wrap"`
	MaxLines int                  `json:"maxLines"` // 0 表示不限
	Size     Size                 `json:"size"`
	Font     style.FontDescriptor `json:"font"` // 容器基础字体
}

// Validate 检查约束是否可以排版。
func (p Params) Validate() error {
	if !finitePositive(p.Size.W) || !finitePositive(p.Size.H) {
		return fmt.Errorf("%w: 容器尺寸 %gx%g 非法", ErrLayoutUnavailable, p.Size.W, p.Size.H)
	}
	if p.MaxLines < 0 {
		return fmt.Errorf("%w: max-lines 不能为负数", ErrLayoutUnavailable)
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
