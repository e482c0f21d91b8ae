package cad

import (
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/zooyer/cad/core"
	"github.com/zooyer/cad/entities"
)

const (
	// 标注定义点与直线端点的匹配精度
	annotationAccuracy = 3
	// 判断标注方向的容差
	annotationAxisTolerance = 0.1
)

// AnnotationText 标注文字及拆分出的标签，To 为标注指向的直线 id
type AnnotationText struct {
	Text    string   `json:"text"`
	RawText string   `json:"rawText"`
	Mingzi  string   `json:"mingzi"`
	Qujian  string   `json:"qujian"`
	Gongshi string   `json:"gongshi"`
	To      []string `json:"to,omitempty"`
}

// TextRecord 导入时得到的文字/尺寸标注
type TextRecord struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Text      AnnotationText `json:"text"`
	Insert    core.Point     `json:"insert"`
	FontSize  float64        `json:"font_size"`
	DimStyle  string         `json:"dimstyle"`
	DefPoint  core.Point     `json:"defpoint"`
	DefPoint2 core.Point     `json:"defpoint2"`
	DefPoint3 core.Point     `json:"defpoint3"`
}

// Report 一次标注解析的统计
type Report struct {
	Lines      int `json:"lines"`
	Dimensions int `json:"dimensions"`
	MTexts     int `json:"mtexts"`
	Discarded  int `json:"discarded"`
}

var formatting = regexp.MustCompile(`^\{|(<>)?\}(<>)?$|\\[^;]*;`)

// ParseAnnotationText 去掉 DXF 格式控制符，再按 ; 拆分为名字、区间与公式
func ParseAnnotationText(raw string) AnnotationText {
	var (
		text   = formatting.ReplaceAllString(raw, "")
		result = AnnotationText{Text: text, RawText: raw}
	)

	for _, part := range strings.Split(text, ";") {
		if part == "" {
			continue
		}
		switch {
		case strings.Contains(part, "="):
			result.Gongshi = part
		case strings.ContainsAny(part, "~-"):
			result.Qujian = part
		case strings.Contains(part, "/"):
			result.Qujian = strings.ReplaceAll(part, "/", ", ")
		default:
			result.Mingzi = part
		}
	}

	return result
}

// ResolveAnnotations 把标注绑定到 d 中的直线：文字标注填充直线标签（已有值不覆盖），
// 尺寸标注生成 Dimension 实体。无法处理的记录记录日志后跳过。
func ResolveAnnotations(d *Data, records []TextRecord) Report {
	var (
		report Report
		used   = make(map[string]bool)
	)

	for i, r := range records {
		arity := len(r.Text.To)
		if arity < 1 || arity > 4 {
			log.Printf("[CAD] discard annotation %s: %d targets", r.ID, arity)
			report.Discarded++
			continue
		}

		key := r.ID
		if key == "" {
			key = "#" + strconv.Itoa(i)
		}

		switch {
		case r.Type == entities.TypeMText || arity == 1:
			resolveText(d, r, key, used, &report)
		case r.Type == entities.TypeDimension:
			resolveDimension(d, r, &report)
		default:
			log.Printf("[CAD] discard annotation %s: unknown type %q", r.ID, r.Type)
			report.Discarded++
		}
	}

	return report
}

func tagLine(line *entities.Line, text AnnotationText) {
	line.Tag(text.Mingzi, text.Qujian, text.Gongshi)
}

func resolveText(d *Data, r TextRecord, key string, used map[string]bool, report *Report) {
	if r.Type == entities.TypeMText && strings.Count(r.Text.Text, "#") > 1 {
		line := d.FindLine(r.Text.To[0])
		if line == nil {
			return
		}
		mtext := entities.NewMText(r.Insert, r.Text.Text, r.FontSize)
		mtext.Line = line.ID()
		mtext.Distance = line.Geometry().Distance(r.Insert)
		d.entities().Add(mtext)
		report.MTexts++
		return
	}

	for _, id := range r.Text.To {
		if used[key] {
			return
		}
		if line := d.FindLine(id); line != nil {
			tagLine(line, r.Text)
			used[key] = true
			report.Lines++
		}
	}
}

// dimensionAxis 根据定义点判断标注方向：x 方向差近似为 0 时为 x 轴，距离取 y 方向差
func dimensionAxis(r TextRecord) (axis string, distance float64, ok bool) {
	for _, p := range []core.Point{r.DefPoint3, r.DefPoint2} {
		sub := r.DefPoint.Sub(p)
		switch {
		case math.Abs(sub.X) < annotationAxisTolerance:
			return "x", sub.Y, true
		case math.Abs(sub.Y) < annotationAxisTolerance:
			return "y", sub.X, true
		}
	}
	return "", 0, false
}

func resolveDimension(d *Data, r TextRecord, report *Report) {
	axis, distance, ok := dimensionAxis(r)
	if !ok {
		log.Printf("[CAD] discard dimension %s: invalid defpoints %v %v %v", r.ID, r.DefPoint, r.DefPoint2, r.DefPoint3)
		report.Discarded++
		return
	}

	p1, p2 := r.DefPoint2, r.DefPoint3

	switch len(r.Text.To) {
	case 2, 4:
		dimension := entities.NewDimension()
		dimension.Axis = axis
		dimension.Distance = distance
		dimension.Mingzi = r.Text.Mingzi
		dimension.Qujian = r.Text.Qujian
		dimension.DimStyle = r.DimStyle
		if r.FontSize > 0 {
			dimension.FontSize = r.FontSize
		}

		for _, id := range r.Text.To {
			line := d.FindLine(id)
			if line == nil {
				continue
			}
			for _, location := range []struct {
				name  string
				point core.Point
			}{
				{entities.LocationStart, line.Start},
				{entities.LocationEnd, line.End},
			} {
				if p1.Equals(location.point, annotationAccuracy) {
					dimension.Entity1 = &entities.DimensionEntity{ID: line.ID(), Location: location.name}
				}
				if p2.Equals(location.point, annotationAccuracy) {
					dimension.Entity2 = &entities.DimensionEntity{ID: line.ID(), Location: location.name}
				}
			}
		}

		if dimension.Entity1 == nil && dimension.Entity2 == nil {
			return
		}
		if dimension.Entity1 != nil {
			dimension.Cad1 = d.FindOwner(dimension.Entity1.ID).ID
		}
		if dimension.Entity2 != nil {
			dimension.Cad2 = d.FindOwner(dimension.Entity2.ID).ID
		}
		d.entities().Add(dimension)
		report.Dimensions++

	case 3:
		for _, id := range r.Text.To {
			line := d.FindLine(id)
			if line == nil {
				continue
			}
			forward := p1.Equals(line.Start, annotationAccuracy) && p2.Equals(line.End, annotationAccuracy)
			backward := p2.Equals(line.Start, annotationAccuracy) && p1.Equals(line.End, annotationAccuracy)
			if forward || backward {
				tagLine(line, r.Text)
				report.Lines++
			}
		}
	}
}
