package dxf

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/zooyer/cad"
	"github.com/zooyer/cad/core"
	"github.com/zooyer/cad/entities"
)

type writer struct {
	w   *bufio.Writer
	err error
}

func (w *writer) tag(code int, value string) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteString(strconv.Itoa(code) + "\n" + value + "\n")
}

func (w *writer) tagInt(code, value int) {
	w.tag(code, strconv.Itoa(value))
}

func (w *writer) tagFloat(code int, value float64) {
	w.tag(code, strconv.FormatFloat(value, 'f', -1, 64))
}

func (w *writer) point(code int, p core.Point) {
	w.tagFloat(code, p.X)
	w.tagFloat(code+10, p.Y)
	w.tagFloat(code+20, 0)
}

func (w *writer) entity(typeName string, e entities.Entity) {
	w.tag(0, typeName)
	w.tag(8, e.Layer())
	w.tagInt(62, e.Base().ColorIndex)
}

// collectLayers 收集自身、partner 与 component 的图层，同名只保留第一个
func collectLayers(d *cad.Data, seen map[string]bool, layers entities.Layers) entities.Layers {
	for _, l := range d.Layers {
		if !seen[l.Name] {
			seen[l.Name] = true
			layers = append(layers, l)
		}
	}
	for _, p := range d.Partners {
		layers = collectLayers(p, seen, layers)
	}
	for _, c := range d.Components.Data {
		layers = collectLayers(c, seen, layers)
	}
	return layers
}

// attachment 相对锚点换算为 MTEXT 附着点 1-9
func attachment(anchor core.Point) int {
	col := min(max(int(anchor.X*2+0.5), 0), 2)
	row := min(max(int(anchor.Y*2+0.5), 0), 2)
	return row*3 + col + 1
}

// Write 把图纸（含 partner 与 component）写为 DXF，只输出图层、直线、圆、圆弧和文字
func Write(w io.Writer, d *cad.Data) error {
	var (
		out = &writer{w: bufio.NewWriter(w)}
		all = d.GetAllEntities(cad.ScopeAll, false)
	)

	out.tag(0, "SECTION")
	out.tag(2, "HEADER")
	out.tag(9, "$ACADVER")
	out.tag(1, "AC1015")
	out.tag(0, "ENDSEC")

	layers := collectLayers(d, map[string]bool{}, nil)
	out.tag(0, "SECTION")
	out.tag(2, "TABLES")
	out.tag(0, "TABLE")
	out.tag(2, "LAYER")
	out.tagInt(70, len(layers))
	for _, l := range layers {
		out.tag(0, "LAYER")
		out.tag(2, l.Name)
		out.tagInt(70, 0)
		out.tagInt(62, l.ColorIndex)
		out.tag(6, "CONTINUOUS")
	}
	out.tag(0, "ENDTAB")
	out.tag(0, "ENDSEC")

	out.tag(0, "SECTION")
	out.tag(2, "ENTITIES")
	for _, l := range all.Line {
		out.entity("LINE", l)
		out.point(10, l.Start)
		out.point(11, l.End)
	}
	for _, c := range all.Circle {
		out.entity("CIRCLE", c)
		out.point(10, c.Center)
		out.tagFloat(40, c.Radius)
	}
	for _, a := range all.Arc {
		start, end := a.StartAngle, a.EndAngle
		if a.Clockwise {
			start, end = end, start
		}
		out.entity("ARC", a)
		out.point(10, a.Center)
		out.tagFloat(40, a.Radius)
		out.tagFloat(50, start)
		out.tagFloat(51, end)
	}
	for _, t := range all.MText {
		out.entity("MTEXT", t)
		out.point(10, t.Insert)
		out.tagFloat(40, t.FontSize)
		out.tagInt(71, attachment(t.Anchor))
		out.tag(1, t.Text)
	}
	out.tag(0, "ENDSEC")
	out.tag(0, "EOF")

	if out.err != nil {
		return out.err
	}
	return out.w.Flush()
}

func Save(filename string, d *cad.Data) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return
	}

	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}()

	return Write(file, d)
}
