package layout

// Point 是容器坐标系中的一个点，原点在左上角，y 向下。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Size 宽高。
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect 由原点与尺寸描述。
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Origin returns the upper left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Contains reports whether pt lies inside r (right and bottom edges excluded).
func (r Rect) Contains(pt Point) bool {
	return pt.X >= r.X && pt.X < r.X+r.W && pt.Y >= r.Y && pt.Y < r.Y+r.H
}

// CenterOffset 计算文本在容器内居中时的偏移：
// offset = (container - used.size) * 0.5 - used.origin，两个轴独立计算。
// 渲染端按该偏移绘制，命中测试用它把指针坐标换算回排版坐标。
func CenterOffset(container Size, used Rect) Point {
	return Point{
		X: (container.W-used.W)*0.5 - used.X,
		Y: (container.H-used.H)*0.5 - used.Y,
	}
}
