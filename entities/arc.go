package entities

import (
	"math"

	"github.com/zooyer/cad/core"
)

// Arc 圆弧，角度使用角度制
type Arc struct {
	BaseEntity
	Center     core.Point `json:"center"`
	Radius     float64    `json:"radius"`
	StartAngle float64    `json:"start_angle"`
	EndAngle   float64    `json:"end_angle"`
	Clockwise  bool       `json:"clockwise"`
}

func init() {
	Register(TypeArc, func() Entity { return &Arc{} })
}

func NewArc(center core.Point, radius, startAngle, endAngle float64, clockwise bool) *Arc {
	a := CreateEntity(TypeArc).(*Arc)
	a.Center, a.Radius = center, radius
	a.StartAngle, a.EndAngle, a.Clockwise = startAngle, endAngle, clockwise
	return a
}

func (a *Arc) Curve() core.Arc {
	return core.Arc{
		Center:     a.Center,
		Radius:     a.Radius,
		StartAngle: core.DegToRad(a.StartAngle),
		EndAngle:   core.DegToRad(a.EndAngle),
		Clockwise:  a.Clockwise,
	}
}

// Transform 变换圆心与起止点，再由起止点反推角度；镜像会翻转方向
func (a *Arc) Transform(t core.Transformation) {
	var (
		m     = t.Matrix()
		curve = a.Curve()
		start = m.Apply(curve.GetPoint(0))
		end   = m.Apply(curve.GetPoint(1))
	)

	a.Center = m.Apply(a.Center)
	if a.Radius > 0 {
		a.StartAngle = normalizeDeg(core.RadToDeg(start.Sub(a.Center).Angle()))
		a.EndAngle = normalizeDeg(core.RadToDeg(end.Sub(a.Center).Angle()))
	}
	if m.Det() < 0 {
		a.Clockwise = !a.Clockwise
	}
}

func (a *Arc) ExpandBox(box *core.BBox) {
	curve := a.Curve()
	box.ExpandByPoint(curve.GetPoint(0))
	box.ExpandByPoint(curve.GetPoint(1))
}

// normalizeDeg 归一化到 [0, 360)，并消除浮点误差
func normalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if r := math.Round(deg); math.Abs(deg-r) < 1e-9 {
		deg = r
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}
