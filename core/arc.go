package core

import "math"

// Arc 圆弧，角度为弧度
type Arc struct {
	Center     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Clockwise  bool
}

// GetPoint 按参数 t∈[0,1] 在圆弧上取点
func (a Arc) GetPoint(t float64) Point {
	const eps = 1e-12

	delta := a.EndAngle - a.StartAngle
	samePoints := math.Abs(delta) < eps

	for delta < 0 {
		delta += 2 * math.Pi
	}
	for delta > 2*math.Pi {
		delta -= 2 * math.Pi
	}

	if delta < eps {
		if samePoints {
			delta = 0
		} else {
			delta = 2 * math.Pi
		}
	}

	if a.Clockwise && !samePoints {
		if delta == 2*math.Pi {
			delta = -2 * math.Pi
		} else {
			delta -= 2 * math.Pi
		}
	}

	angle := a.StartAngle + t*delta
	sin, cos := math.Sincos(angle)

	return Point{X: a.Center.X + a.Radius*cos, Y: a.Center.Y + a.Radius*sin}
}
