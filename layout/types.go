package layout

import (
	"github.com/ByLCY/linklabel/linkify"
	"github.com/ByLCY/linklabel/style"
)

// 该文件定义布局结果与资源描述，供布局计算、渲染、命中测试与调试 JSON 共用。

// Result 保存全部标签的布局结果与资源信息。
type Result struct {
	Labels    []LabelResult `json:"labels"`
	Resources ResourceSet   `json:"resources"`
	Meta      DocumentMeta  `json:"meta"`
}

// Label 按名称查找标签；name 为空时返回第一个。
func (r *Result) Label(name string) (*LabelResult, bool) {
	if r == nil || len(r.Labels) == 0 {
		return nil, false
	}
	if name == "" {
		return &r.Labels[0], true
	}
	for i := range r.Labels {
		if r.Labels[i].Name == name {
			return &r.Labels[i], true
		}
	}
	return nil, false
}

// ResourceSet 记录解析出的字体与颜色定义。
type ResourceSet struct {
	Fonts  map[string]style.FontDescriptor `json:"fonts"`
	Colors map[string]style.Color          `json:"colors"`
}

// LabelResult 是一个标签容器的完整结果：插值后的文本、链接区间、样式与排版。
// Params.Size 与 Frame 中的坐标单位均为 pt。
type LabelResult struct {
	Name      string              `json:"name"`
	Text      string              `json:"text"`
	Mode      linkify.Mode        `json:"mode"`
	Spans     []linkify.Span      `json:"spans"`
	Style     style.Config        `json:"style"`
	Annotated style.AnnotatedText `json:"annotated"`
	Params    Params              `json:"params"`
	Frame     *Frame              `json:"frame"`
	Offset    Point               `json:"offset"` // 居中绘制时的偏移
	Warnings  []string            `json:"warnings,omitempty"`
	Debug     *LabelDebug         `json:"debug,omitempty"`
}

// LabelDebug holds optional debug info displayed only when enabled by BuildOptions.
type LabelDebug struct {
	RawUnits map[string]Length `json:"rawUnits,omitempty"`
}

// DocumentMeta 保存文档元信息，PDF 渲染时写入文档属性。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
