package entities

import (
	"github.com/zooyer/cad/core"
)

// Line 直线，mingzi/qujian/gongshi 是下游参数化系统使用的业务标签
type Line struct {
	BaseEntity
	Start   core.Point `json:"start"`
	End     core.Point `json:"end"`
	Mingzi  string     `json:"mingzi"`
	Qujian  string     `json:"qujian"`
	Gongshi string     `json:"gongshi"`
}

func init() {
	Register(TypeLine, func() Entity { return &Line{} })
}

func NewLine(start, end core.Point) *Line {
	l := CreateEntity(TypeLine).(*Line)
	l.Start, l.End = start, end
	return l
}

func (l *Line) Geometry() core.Line {
	return core.NewLine(l.Start, l.End)
}

func (l *Line) Length() float64 {
	return l.Start.Distance(l.End)
}

// Tag 只填充当前为空的标签，已有值不会被覆盖
func (l *Line) Tag(mingzi, qujian, gongshi string) {
	if l.Mingzi == "" {
		l.Mingzi = mingzi
	}
	if l.Qujian == "" {
		l.Qujian = qujian
	}
	if l.Gongshi == "" {
		l.Gongshi = gongshi
	}
}

func (l *Line) Transform(t core.Transformation) {
	m := t.Matrix()
	l.Start = m.Apply(l.Start)
	l.End = m.Apply(l.End)
}

func (l *Line) ExpandBox(box *core.BBox) {
	box.ExpandByPoint(l.Start)
	box.ExpandByPoint(l.End)
}
