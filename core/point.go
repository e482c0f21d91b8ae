package core

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/zooyer/golib/xmath"
)

// Point 代表二维平面上的一个点，同时也用作向量
type Point struct {
	X, Y float64
}

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) Mul(scalar float64) Point {
	return Point{X: p.X * scalar, Y: p.Y * scalar}
}

func (p Point) Dot(o Point) float64 {
	return p.X*o.X + p.Y*o.Y
}

// Cross 二维叉积（z 分量）
func (p Point) Cross(o Point) float64 {
	return p.X*o.Y - p.Y*o.X
}

func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

func (p Point) Distance(o Point) float64 {
	return p.Sub(o).Length()
}

// Normalize 返回单位向量，零向量保持不变
func (p Point) Normalize() Point {
	length := p.Length()
	if length == 0 {
		return Point{}
	}
	return p.Mul(1 / length)
}

// Perp 逆时针旋转 90° 的垂直向量
func (p Point) Perp() Point {
	return Point{X: -p.Y, Y: p.X}
}

// Angle 向量与 x 轴正方向的夹角（弧度）
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// Rotate 绕 anchor 旋转 angle 弧度
func (p Point) Rotate(angle float64, anchor Point) Point {
	return RotateMatrix(angle, anchor).Apply(p)
}

// Flip 以 anchor 为中心镜像；vertical 翻转 y，horizontal 翻转 x
func (p Point) Flip(vertical, horizontal bool, anchor Point) Point {
	return FlipMatrix(vertical, horizontal, anchor).Apply(p)
}

// Equals 判断两点在容差范围内是否相同
func (p Point) Equals(o Point, tolerance float64) bool {
	return xmath.Equal(p.X, o.X, tolerance) && xmath.Equal(p.Y, o.Y, tolerance)
}

func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

func (p Point) String() string {
	return "(" + strconv.FormatFloat(p.X, 'f', -1, 64) + ", " + strconv.FormatFloat(p.Y, 'f', -1, 64) + ")"
}

// MarshalJSON 输出为 [x, y] 数组
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON 兼容 [x, y, z] 数组与 {x, y} 对象，缺失或非数字的分量按 0 处理
func (p *Point) UnmarshalJSON(data []byte) error {
	*p = Point{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '{' {
		var obj struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.X != nil {
			p.X = *obj.X
		}
		if obj.Y != nil {
			p.Y = *obj.Y
		}
		return nil
	}

	var values []any
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}

	var nums []float64
	for _, v := range values {
		if f, ok := v.(float64); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			nums = append(nums, f)
		}
	}
	if len(nums) > 0 {
		p.X = nums[0]
	}
	if len(nums) > 1 {
		p.Y = nums[1]
	}

	return nil
}
