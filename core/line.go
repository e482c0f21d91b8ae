package core

import "math"

// Line 线段
type Line struct {
	Start, End Point
}

func NewLine(start, end Point) Line {
	return Line{Start: start, End: end}
}

func (l Line) Length() float64 {
	return l.Start.Distance(l.End)
}

// Direction 起点指向终点的单位向量
func (l Line) Direction() Point {
	return l.End.Sub(l.Start).Normalize()
}

// Theta 线段方向角（弧度）
func (l Line) Theta() float64 {
	return l.End.Sub(l.Start).Angle()
}

// Slope 斜率，竖线返回 ±Inf
func (l Line) Slope() float64 {
	dx, dy := l.End.X-l.Start.X, l.End.Y-l.Start.Y
	if dx == 0 {
		return math.Copysign(math.Inf(1), dy)
	}
	return dy / dx
}

func (l Line) Middle() Point {
	return l.Start.Add(l.End).Mul(0.5)
}

func (l Line) IsVertical(tolerance float64) bool {
	return math.Abs(l.Start.X-l.End.X) <= tolerance
}

func (l Line) IsHorizontal(tolerance float64) bool {
	return math.Abs(l.Start.Y-l.End.Y) <= tolerance
}

// IsParallel 方向夹角（不区分正反）小于 tolerance 弧度即视为平行
func (l Line) IsParallel(o Line, tolerance float64) bool {
	diff := math.Abs(NormalizeAngle(l.Theta() - o.Theta()))
	return diff <= tolerance || math.Pi-diff <= tolerance
}

// Distance 点到线段的最短距离
func (l Line) Distance(p Point) float64 {
	v := l.End.Sub(l.Start)
	lengthSq := v.Dot(v)
	if lengthSq == 0 {
		return p.Distance(l.Start)
	}
	t := math.Max(0, math.Min(1, p.Sub(l.Start).Dot(v)/lengthSq))
	return p.Distance(l.Start.Add(v.Mul(t)))
}

func (l Line) Transform(m Matrix) Line {
	return Line{Start: m.Apply(l.Start), End: m.Apply(l.End)}
}
