package core

import "math"

// BBox 代表包围盒
type BBox struct {
	Min, Max Point
	valid    bool
}

// Rect 以中心点与尺寸描述的矩形
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func NewBBox(points ...Point) BBox {
	var box BBox
	for _, p := range points {
		box.ExpandByPoint(p)
	}
	return box
}

func (b *BBox) ExpandByPoint(p Point) {
	if !b.valid {
		b.Min, b.Max, b.valid = p, p, true
		return
	}
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
}

func (b *BBox) Union(o BBox) {
	if !o.valid {
		return
	}
	b.ExpandByPoint(o.Min)
	b.ExpandByPoint(o.Max)
}

func (b BBox) IsEmpty() bool {
	return !b.valid
}

func (b BBox) Center() Point {
	if !b.valid {
		return Point{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b BBox) Size() Point {
	if !b.valid {
		return Point{}
	}
	return b.Max.Sub(b.Min)
}

// Rect 转换为中心点+尺寸，空盒子返回原点处的零尺寸矩形
func (b BBox) Rect() Rect {
	var (
		center = b.Center()
		size   = b.Size()
	)
	return Rect{X: center.X, Y: center.Y, Width: size.X, Height: size.Y}
}

func (r Rect) Center() Point {
	return Point{X: r.X, Y: r.Y}
}
