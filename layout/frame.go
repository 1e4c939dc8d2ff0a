package layout

import "sort"

// Line 是排版后的一行。Start/End 为原文 rune 区间，Edges[k] 是第 Start+k 个字符
// 左边缘的 x 坐标，最后一个元素是行尾位置，因此 len(Edges) == End-Start+1。
type Line struct {
	Start   int       `json:"start"`
	End     int       `json:"end"`
	Y       float64   `json:"y"`
	Height  float64   `json:"height"`
	Ascent  float64   `json:"ascent"`
	Width   float64   `json:"width"` // 不含行尾空白与换行符
	Edges   []float64 `json:"edges"`
	Visible int       `json:"visible"` // 行内最后一个可见字符之后的位置（rune 下标）
}

// Baseline 返回基线的 y 坐标。
func (l Line) Baseline() float64 { return l.Y + l.Ascent }

// Frame 是一次排版的完整结果，实现 Measurement。
type Frame struct {
	lines  []Line
	length int
	used   Rect
}

var _ Measurement = (*Frame)(nil)

// Lines 返回全部行。
func (f *Frame) Lines() []Line { return f.lines }

// Len 返回原文 rune 数。
func (f *Frame) Len() int { return f.length }

// UsedRect 返回实际使用的区域：原点 (0,0)，宽度为最宽行，高度为各行之和。
func (f *Frame) UsedRect() Rect { return f.used }

// Truncated 报告是否有字符因为行数或高度限制没有排出。
func (f *Frame) Truncated() bool {
	if len(f.lines) == 0 {
		return f.length > 0
	}
	return f.lines[len(f.lines)-1].End < f.length
}

// CharacterIndex 返回离 pt 最近的字符下标（pt 为排版坐标）。
// y 超出范围时夹到首行或末行；x 落在某个字形范围内时返回该字符，
// 在行首之前返回行首字符，在行尾之后返回该行最后一个可见字符。
// 空文本返回 0。
func (f *Frame) CharacterIndex(pt Point) int {
	if len(f.lines) == 0 || f.length == 0 {
		return 0
	}
	li := sort.Search(len(f.lines), func(i int) bool {
		ln := f.lines[i]
		return pt.Y < ln.Y+ln.Height
	})
	if li >= len(f.lines) {
		li = len(f.lines) - 1
	}
	ln := f.lines[li]

	last := ln.Visible - 1
	if last < ln.Start {
		// 空行（或只有空白/换行）：取行首，仍要落在原文范围内。
		return clampIndex(ln.Start, f.length)
	}
	if len(ln.Edges) == 0 || pt.X < ln.Edges[0] {
		return ln.Start
	}
	// Edges 单调不减；找到最后一个左边缘 <= x 的字符。
	k := sort.Search(ln.Visible-ln.Start, func(i int) bool {
		return ln.Edges[i+1] > pt.X
	})
	idx := ln.Start + k
	if idx > last {
		idx = last
	}
	return idx
}

func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
