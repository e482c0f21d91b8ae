package dxf

import (
	"github.com/zooyer/cad/core"
)

// Insert 块引用
type Insert struct {
	Common
	BlockName  string
	Point      core.Point
	Scale      core.Point
	Rotation   float64 // 角度制
	Attributes []*Attrib
}

// Attrib 块引用携带的属性文字，坐标已经是引用所在的坐标系
type Attrib struct {
	Common
	Tag    string
	Value  string
	Insert core.Point
	Height float64
}

func (a *Attrib) Parse(s *core.Scanner) {
	scan(s, func(t core.Tag) {
		switch t.Code {
		case 10:
			a.Insert.X = t.AsFloat()
		case 20:
			a.Insert.Y = t.AsFloat()
		case 40:
			a.Height = t.AsFloat()
		case 1:
			a.Value = t.Value
		case 2:
			a.Tag = t.AsString()
		default:
			a.parse(t)
		}
	})
}

func (i *Insert) Parse(s *core.Scanner) {
	var hasAttributes bool
	scan(s, func(t core.Tag) {
		switch t.Code {
		case 2:
			i.BlockName = t.AsString()
		case 10:
			i.Point.X = t.AsFloat()
		case 20:
			i.Point.Y = t.AsFloat()
		case 41:
			i.Scale.X = t.AsFloat()
		case 42:
			i.Scale.Y = t.AsFloat()
		case 50:
			i.Rotation = t.AsFloat()
		case 66:
			hasAttributes = t.AsInt() == 1
		default:
			i.parse(t)
		}
	})

	if !hasAttributes {
		return
	}

	// 继续在当前流中抓取 ATTRIB 直到 SEQEND
	for s.LastTag.Is("ATTRIB") {
		attr := new(Attrib)
		attr.Base().Color = i.Color
		attr.Parse(s)
		i.Attributes = append(i.Attributes, attr)
	}
	if s.LastTag.Is("SEQEND") {
		scan(s, func(core.Tag) {})
	}
}

// Matrix 块局部坐标到引用所在坐标系：先减去块基点，再缩放 -> 旋转 -> 平移
func (i *Insert) Matrix(base core.Point) core.Matrix {
	return core.TranslateMatrix(i.Point).
		Multiply(core.RotateMatrix(core.DegToRad(i.Rotation), core.Point{})).
		Multiply(core.ScaleMatrix(i.Scale.X, i.Scale.Y)).
		Multiply(core.TranslateMatrix(base.Mul(-1)))
}
