package dxf

import (
	"log"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/zooyer/cad"
	"github.com/zooyer/cad/core"
	"github.com/zooyer/cad/entities"
)

const (
	// DefaultTolerance 文字与直线的匹配距离
	DefaultTolerance = 20
	// 块嵌套的最大深度，超过时认为块循环引用
	maxBlockDepth = 16
)

type converter struct {
	doc      *Document
	entities *entities.Entities
	records  []cad.TextRecord
}

// Convert 把文档展开为图纸数据：块引用按 缩放 -> 旋转 -> 平移 展开，多段线拆为直线，
// 文字与尺寸标注另外生成标注记录，tolerance 内有直线的记录进入 LineText，其余进入 GlobalText。
func (d *Document) Convert(name string, tolerance float64) (*cad.Data, *cad.RawImport) {
	var c = &converter{doc: d, entities: entities.New()}
	for _, obj := range d.Objects {
		c.emit(obj, core.Identity(), 0)
	}

	var (
		data = &cad.Data{
			ID:       uuid.NewString(),
			Name:     name,
			Entities: c.entities,
			Layers:   d.Layers,
			Visible:  true,
		}
		raw = &cad.RawImport{
			ID:         data.ID,
			LineText:   []cad.TextRecord{},
			GlobalText: []cad.TextRecord{},
		}
	)

	for _, r := range c.records {
		r.Text.To = c.targets(r, tolerance)
		if len(r.Text.To) > 0 {
			raw.LineText = append(raw.LineText, r)
		} else {
			raw.GlobalText = append(raw.GlobalText, r)
		}
	}

	return data, raw
}

func (c *converter) add(obj Object, e entities.Entity) {
	var (
		src  = obj.Base()
		base = e.Base()
	)
	if src.Layer != "" {
		base.LayerName = src.Layer
	}
	base.SetColor(src.Color)
	c.entities.Add(e)
}

// emit 把对象按 m 变换到世界坐标后加入结果
func (c *converter) emit(obj Object, m core.Matrix, depth int) {
	scale := math.Sqrt(math.Abs(m.Det()))

	switch o := obj.(type) {
	case *Line:
		c.add(o, entities.NewLine(m.Apply(o.Start), m.Apply(o.End)))
	case *Arc:
		var (
			start = core.DegToRad(o.StartAngle)
			end   = core.DegToRad(o.EndAngle)
			p1    = m.Apply(o.Center.Add(core.NewPoint(math.Cos(start), math.Sin(start)).Mul(o.Radius)))
			p2    = m.Apply(o.Center.Add(core.NewPoint(math.Cos(end), math.Sin(end)).Mul(o.Radius)))
		)
		// 镜像后逆时针变为顺时针，交换起止点保持逆时针
		if m.Det() < 0 {
			p1, p2 = p2, p1
		}
		center := m.Apply(o.Center)
		c.add(o, entities.NewArc(center, o.Radius*scale, degrees(p1.Sub(center)), degrees(p2.Sub(center)), false))
	case *Circle:
		c.add(o, entities.NewCircle(m.Apply(o.Center), o.Radius*scale))
	case *LWPolyline:
		for _, seg := range o.Segments() {
			seg = seg.Transform(m)
			c.add(o, entities.NewLine(seg.Start, seg.End))
		}
	case *Text:
		c.text(o, o.Value, m.Apply(o.Insert), o.Height*scale, o.Anchor())
	case *Dimension:
		c.dimension(o, m)
	case *Insert:
		for _, attr := range o.Attributes {
			c.text(attr, attr.Value, m.Apply(attr.Insert), attr.Height*scale, core.NewPoint(0, 1))
		}

		block := c.doc.Blocks[strings.ToUpper(o.BlockName)]
		if block == nil {
			log.Printf("[DXF] insert references unknown block %q", o.BlockName)
			return
		}
		if depth >= maxBlockDepth {
			log.Printf("[DXF] block %q nested too deep", o.BlockName)
			return
		}
		matrix := m.Multiply(o.Matrix(block.Base))
		for _, child := range block.Objects {
			c.emit(child, matrix, depth+1)
		}
	}
}

func (c *converter) text(obj Object, value string, insert core.Point, height float64, anchor core.Point) {
	var (
		text  = cad.ParseAnnotationText(value)
		mtext = entities.NewMText(insert, text.Text, height)
	)
	mtext.Anchor = anchor
	c.add(obj, mtext)

	c.records = append(c.records, cad.TextRecord{
		ID:       mtext.ID(),
		Type:     entities.TypeMText,
		Text:     text,
		Insert:   insert,
		FontSize: mtext.FontSize,
	})
}

func (c *converter) dimension(o *Dimension, m core.Matrix) {
	var record = cad.TextRecord{
		ID:        uuid.NewString(),
		Type:      entities.TypeDimension,
		Text:      cad.ParseAnnotationText(o.Value),
		DimStyle:  o.Style,
		DefPoint:  m.Apply(o.DefPoint),
		DefPoint2: m.Apply(o.DefPoint2),
		DefPoint3: m.Apply(o.DefPoint3),
	}
	if style := c.doc.DimStyle(o.Style); style != nil {
		record.FontSize = style.FontSize()
	}
	c.records = append(c.records, record)
}

// targets 找出记录指向的直线：文字看插入点，尺寸标注看两个延伸线起点
func (c *converter) targets(r cad.TextRecord, tolerance float64) []string {
	var points = []core.Point{r.Insert}
	if r.Type == entities.TypeDimension {
		points = []core.Point{r.DefPoint2, r.DefPoint3}
	}

	var ids []string
	for _, line := range c.entities.Line {
		geometry := line.Geometry()
		if geometry.Length() == 0 {
			continue
		}
		for _, p := range points {
			if geometry.Distance(p) <= tolerance {
				ids = append(ids, line.ID())
				break
			}
		}
	}
	return ids
}

// degrees 向量角度，范围 [0, 360)
func degrees(v core.Point) float64 {
	deg := math.Mod(core.RadToDeg(v.Angle()), 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
