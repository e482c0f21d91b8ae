package entities

import (
	"github.com/zooyer/cad/core"
)

// 标注引用的端点位置
const (
	LocationStart  = "start"
	LocationEnd    = "end"
	LocationCenter = "center"
)

// DimensionEntity 标注引用的实体及其端点
type DimensionEntity struct {
	ID       string `json:"id"`
	Location string `json:"location"`
}

// Dimension 线性标注：通过 id 引用两条线的端点，axis 指明测量方向
type Dimension struct {
	BaseEntity
	FontSize float64          `json:"font_size"`
	DimStyle string           `json:"dimstyle"`
	Axis     string           `json:"axis"`
	Entity1  *DimensionEntity `json:"entity1"`
	Entity2  *DimensionEntity `json:"entity2"`
	Distance float64          `json:"distance"`
	Cad1     string           `json:"cad1"`
	Cad2     string           `json:"cad2"`
	Mingzi   string           `json:"mingzi"`
	Qujian   string           `json:"qujian"`
}

func init() {
	Register(TypeDimension, func() Entity { return &Dimension{FontSize: defaultFontSize} })
}

func NewDimension() *Dimension {
	d := CreateEntity(TypeDimension).(*Dimension)
	d.defaults()
	return d
}

// defaults 修正非法的端点位置和测量方向，缺省字号由构造时给出
func (d *Dimension) defaults() {
	for _, e := range []*DimensionEntity{d.Entity1, d.Entity2} {
		if e == nil {
			continue
		}
		switch e.Location {
		case LocationStart, LocationEnd, LocationCenter:
		default:
			e.Location = LocationCenter
		}
	}
	if d.Axis != "x" && d.Axis != "y" {
		d.Axis = ""
	}
}

// Transform 标注没有自身几何，跟随引用的实体
func (d *Dimension) Transform(core.Transformation) {}

func (d *Dimension) ExpandBox(*core.BBox) {}
