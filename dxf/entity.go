package dxf

import "github.com/zooyer/cad/core"

func init() {
	Register("LINE", func() Object { return new(Line) })
	Register("CIRCLE", func() Object { return new(Circle) })
	Register("ARC", func() Object { return new(Arc) })
	Register("TEXT", func() Object { return new(Text) })
	Register("MTEXT", func() Object { return &Text{Multi: true} })
	Register("DIMENSION", func() Object { return new(Dimension) })
	Register("LWPOLYLINE", func() Object { return new(LWPolyline) })
	Register("INSERT", func() Object { return &Insert{Scale: core.NewPoint(1, 1)} })
}

type Line struct {
	Common
	Start, End core.Point
}

func (l *Line) Parse(s *core.Scanner) {
	scan(s, func(t core.Tag) {
		switch t.Code {
		case 10:
			l.Start.X = t.AsFloat()
		case 20:
			l.Start.Y = t.AsFloat()
		case 11:
			l.End.X = t.AsFloat()
		case 21:
			l.End.Y = t.AsFloat()
		default:
			l.parse(t)
		}
	})
}

type Circle struct {
	Common
	Center core.Point
	Radius float64
}

func (c *Circle) Parse(s *core.Scanner) {
	scan(s, func(t core.Tag) {
		switch t.Code {
		case 10:
			c.Center.X = t.AsFloat()
		case 20:
			c.Center.Y = t.AsFloat()
		case 40:
			c.Radius = t.AsFloat()
		default:
			c.parse(t)
		}
	})
}

// Arc 圆弧，DXF 中总是逆时针，角度为角度制
type Arc struct {
	Circle
	StartAngle float64
	EndAngle   float64
}

func (a *Arc) Parse(s *core.Scanner) {
	scan(s, func(t core.Tag) {
		switch t.Code {
		case 10:
			a.Center.X = t.AsFloat()
		case 20:
			a.Center.Y = t.AsFloat()
		case 40:
			a.Radius = t.AsFloat()
		case 50:
			a.StartAngle = t.AsFloat()
		case 51:
			a.EndAngle = t.AsFloat()
		default:
			a.parse(t)
		}
	})
}

// Text 单行文字 (TEXT) 与多行文字 (MTEXT)
type Text struct {
	Common
	Multi      bool
	Insert     core.Point
	Height     float64
	Value      string
	Attachment int // 71，MTEXT 的附着点 1-9
}

// Anchor 附着点换算为 0-1 的相对锚点，TEXT 固定为左上 [0, 1]
func (x *Text) Anchor() core.Point {
	if !x.Multi || x.Attachment < 1 || x.Attachment > 9 {
		return core.NewPoint(0, 1)
	}
	i := x.Attachment - 1
	return core.NewPoint(float64(i%3)*0.5, float64(i/3)*0.5)
}

func (x *Text) Parse(s *core.Scanner) {
	var extra string
	scan(s, func(t core.Tag) {
		switch t.Code {
		case 10:
			x.Insert.X = t.AsFloat()
		case 20:
			x.Insert.Y = t.AsFloat()
		case 40:
			x.Height = t.AsFloat()
		case 71:
			x.Attachment = t.AsInt()
		case 1:
			x.Value = t.Value
		case 3: // MTEXT 超过 250 字符的部分在 1 之前
			extra += t.Value
		default:
			x.parse(t)
		}
	})
	x.Value = extra + x.Value
}

type Dimension struct {
	Common
	Style     string     // 3
	Value     string     // 1，空或 <> 表示使用测量值
	DefPoint  core.Point // 10，尺寸线位置
	DefPoint2 core.Point // 13，第一条延伸线起点
	DefPoint3 core.Point // 14，第二条延伸线起点
	DimType   int        // 70
}

func (d *Dimension) Parse(s *core.Scanner) {
	scan(s, func(t core.Tag) {
		switch t.Code {
		case 3:
			d.Style = t.AsString()
		case 1:
			d.Value = t.Value
		case 10:
			d.DefPoint.X = t.AsFloat()
		case 20:
			d.DefPoint.Y = t.AsFloat()
		case 13:
			d.DefPoint2.X = t.AsFloat()
		case 23:
			d.DefPoint2.Y = t.AsFloat()
		case 14:
			d.DefPoint3.X = t.AsFloat()
		case 24:
			d.DefPoint3.Y = t.AsFloat()
		case 70:
			d.DimType = t.AsInt()
		default:
			d.parse(t)
		}
	})
}

type LWPolyline struct {
	Common
	Vertices []core.Point
	Closed   bool
}

func (p *LWPolyline) Parse(s *core.Scanner) {
	scan(s, func(t core.Tag) {
		switch t.Code {
		case 10: // 每个 10 开始一个新顶点
			p.Vertices = append(p.Vertices, core.NewPoint(t.AsFloat(), 0))
		case 20:
			if n := len(p.Vertices); n > 0 {
				p.Vertices[n-1].Y = t.AsFloat()
			}
		case 70:
			p.Closed = t.AsInt()&1 == 1
		default:
			p.parse(t)
		}
	})
}

// Segments 拆分为首尾相接的线段，闭合时补上最后一段
func (p *LWPolyline) Segments() []core.Line {
	var lines []core.Line
	for i := 1; i < len(p.Vertices); i++ {
		lines = append(lines, core.NewLine(p.Vertices[i-1], p.Vertices[i]))
	}
	if n := len(p.Vertices); p.Closed && n > 2 {
		lines = append(lines, core.NewLine(p.Vertices[n-1], p.Vertices[0]))
	}
	return lines
}
