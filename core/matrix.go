package core

import "math"

// Matrix 二维仿射变换矩阵（行主序）
//
//	| A  B  C |
//	| D  E  F |
//	| 0  0  1 |
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

func TranslateMatrix(v Point) Matrix {
	return Matrix{A: 1, C: v.X, E: 1, F: v.Y}
}

func ScaleMatrix(sx, sy float64) Matrix {
	return Matrix{A: sx, E: sy}
}

// RotateMatrix 绕 anchor 旋转 angle 弧度（逆时针为正）
func RotateMatrix(angle float64, anchor Point) Matrix {
	sin, cos := math.Sincos(angle)
	rotate := Matrix{A: cos, B: -sin, D: sin, E: cos}
	return aroundAnchor(rotate, anchor)
}

// FlipMatrix 以 anchor 为中心的镜像
func FlipMatrix(vertical, horizontal bool, anchor Point) Matrix {
	sx, sy := 1.0, 1.0
	if horizontal {
		sx = -1
	}
	if vertical {
		sy = -1
	}
	return aroundAnchor(ScaleMatrix(sx, sy), anchor)
}

// aroundAnchor translate(+anchor) * m * translate(-anchor)
func aroundAnchor(m Matrix, anchor Point) Matrix {
	if anchor.IsZero() {
		return m
	}
	return TranslateMatrix(anchor).Multiply(m).Multiply(TranslateMatrix(anchor.Mul(-1)))
}

// Multiply 返回 m * o，即先应用 o 再应用 m
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		A: m.A*o.A + m.B*o.D,
		B: m.A*o.B + m.B*o.E,
		C: m.A*o.C + m.B*o.F + m.C,
		D: m.D*o.A + m.E*o.D,
		E: m.D*o.B + m.E*o.E,
		F: m.D*o.C + m.E*o.F + m.F,
	}
}

func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// ApplyVector 只应用线性部分（不含平移）
func (m Matrix) ApplyVector(v Point) Point {
	return Point{
		X: m.A*v.X + m.B*v.Y,
		Y: m.D*v.X + m.E*v.Y,
	}
}

// Det 行列式，小于 0 表示变换包含镜像
func (m Matrix) Det() float64 {
	return m.A*m.E - m.B*m.D
}

func (m Matrix) IsIdentity() bool {
	const eps = 1e-12
	return math.Abs(m.A-1) < eps && math.Abs(m.B) < eps && math.Abs(m.C) < eps &&
		math.Abs(m.D) < eps && math.Abs(m.E-1) < eps && math.Abs(m.F) < eps
}
