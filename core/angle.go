package core

import "math"

func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeAngle 将弧度归一化到 (-π, π]
func NormalizeAngle(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad <= -math.Pi {
		rad += 2 * math.Pi
	} else if rad > math.Pi {
		rad -= 2 * math.Pi
	}
	return rad
}
