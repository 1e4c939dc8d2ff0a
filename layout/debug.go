package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

type frameJSON struct {
	Used      Rect   `json:"used"`
	Length    int    `json:"length"`
	Truncated bool   `json:"truncated"`
	Lines     []Line `json:"lines"`
}

// MarshalJSON 导出行信息与已用区域。
func (f *Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(frameJSON{
		Used:      f.used,
		Length:    f.length,
		Truncated: f.Truncated(),
		Lines:     f.lines,
	})
}
