// Package termrenderer draws labels as terminal text. Layout runs on a cell
// grid: every column is one unit wide and every row one unit high, so the
// same Frame serves both drawing and mouse hit testing.
package termrenderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/ByLCY/linklabel/layout"
	"github.com/ByLCY/linklabel/renderer"
	"github.com/ByLCY/linklabel/style"
)

// DefaultCell is the size of one terminal cell in pt, used to turn a label's
// pt dimensions into columns and rows.
var DefaultCell = layout.Size{W: 8, H: 16}

// Cells measures text in terminal columns. Fonts are ignored.
type Cells struct{}

var _ layout.Typesetter = Cells{}

// TextWidth implements layout.Typesetter.
func (Cells) TextWidth(_ style.FontDescriptor, s string) (float64, error) {
	return float64(runewidth.StringWidth(s)), nil
}

// LineMetrics implements layout.Typesetter.
func (Cells) LineMetrics(style.FontDescriptor) (float64, float64, error) { return 1, 1, nil }

// Renderer renders labels with lipgloss.
type Renderer struct {
	Cell       layout.Size // pt per cell, zero means DefaultCell
	HoverColor style.Color
}

var _ renderer.Renderer = (*Renderer)(nil)

// New returns a renderer that paints the hovered link in hover.
func New(hover style.Color) *Renderer { return &Renderer{HoverColor: hover} }

// Engine returns the cell engine, for hit testing against a View.
func (r *Renderer) Engine() layout.Engine { return layout.TypesetEngine{Typesetter: Cells{}} }

// Params converts the label's container to whole cells.
func (r *Renderer) Params(lr *layout.LabelResult) layout.Params {
	cell := r.Cell
	if cell.W <= 0 || cell.H <= 0 {
		cell = DefaultCell
	}
	p := lr.Params
	p.Size = layout.Size{
		W: max(1, math.Floor(p.Size.W/cell.W)),
		H: max(1, math.Floor(p.Size.H/cell.H)),
	}
	return p
}

// CellPoint returns the container point at the centre of cell (col, row).
func CellPoint(col, row int) layout.Point {
	return layout.Point{X: float64(col) + 0.5, Y: float64(row) + 0.5}
}

// View lays the label out on the cell grid and returns it as a block of
// exactly Params(lr).Size rows. Link runs whose text equals hovered use the
// hover colour.
func (r *Renderer) View(lr *layout.LabelResult, hovered string) (string, error) {
	if lr == nil {
		return "", fmt.Errorf("label 为空")
	}
	p := r.Params(lr)
	frame, err := layout.Layout(lr.Annotated, p, Cells{})
	if err != nil {
		return "", err
	}
	cols, rows := int(p.Size.W), int(p.Size.H)
	offset := layout.CenterOffset(p.Size, frame.UsedRect())
	offX, offY := int(math.Floor(offset.X)), int(math.Floor(offset.Y))

	out := make([]string, rows)
	for i := range out {
		out[i] = strings.Repeat(" ", cols)
	}
	runes := []rune(lr.Annotated.Text)
	for _, ln := range frame.Lines() {
		row := offY + int(ln.Y)
		if row < 0 || row >= rows {
			continue
		}
		// 居中偏移为负（WrapClip 行比容器宽）时，左侧越界的字符不画
		first := ln.Start
		for first < ln.Visible && offX+int(ln.Edges[first-ln.Start]) < 0 {
			first++
		}
		used := offX + int(ln.Edges[first-ln.Start])
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", max(used, 0)))
		for start := first; start < ln.Visible; {
			run, isLink := lr.Annotated.RunAt(start)
			end := ln.Visible
			if isLink {
				end = min(end, run.End)
			}
			for _, other := range lr.Annotated.Runs {
				if !isLink && other.Start > start && other.Start < end {
					end = other.Start
				}
			}
			// 超出容器的部分（WrapClip）不画
			for end > start && offX+int(ln.Edges[end-ln.Start]) > cols {
				end--
			}
			if end == start {
				break
			}
			text := string(runes[start:end])
			if isLink {
				sb.WriteString(r.linkStyle(run, hovered).Render(text))
			} else {
				sb.WriteString(text)
			}
			used = offX + int(ln.Edges[end-ln.Start])
			start = end
		}
		sb.WriteString(strings.Repeat(" ", max(cols-used, 0)))
		out[row] = sb.String()
	}
	return strings.Join(out, "\n"), nil
}

func (r *Renderer) linkStyle(run style.Run, hovered string) lipgloss.Style {
	fg := run.Attrs.Foreground
	if hovered != "" && run.Text == hovered {
		fg = r.HoverColor
	}
	return lipgloss.NewStyle().
		Foreground(Color(fg)).
		Underline(run.Attrs.Underline == style.UnderlineSingle)
}

// Color converts c to a lipgloss colour. Terminals have no alpha, so it is dropped.
func Color(c style.Color) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// Render implements renderer.Renderer: every label's view, separated by a blank line.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	views := make([]string, 0, len(result.Labels))
	for i := range result.Labels {
		v, err := r.View(&result.Labels[i], "")
		if err != nil {
			return nil, fmt.Errorf("label %s: %w", result.Labels[i].Name, err)
		}
		views = append(views, v)
	}
	return []byte(strings.Join(views, "\n\n") + "\n"), nil
}
