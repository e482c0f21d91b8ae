package entities

import "github.com/zooyer/cad/core"

type Circle struct {
	BaseEntity
	Center core.Point `json:"center"`
	Radius float64    `json:"radius"`
}

func init() {
	Register(TypeCircle, func() Entity { return &Circle{} })
}

func NewCircle(center core.Point, radius float64) *Circle {
	c := CreateEntity(TypeCircle).(*Circle)
	c.Center, c.Radius = center, radius
	return c
}

func (c *Circle) Transform(t core.Transformation) {
	c.Center = t.Matrix().Apply(c.Center)
}

func (c *Circle) ExpandBox(box *core.BBox) {
	box.ExpandByPoint(c.Center.Add(core.NewPoint(c.Radius, c.Radius)))
	box.ExpandByPoint(c.Center.Sub(core.NewPoint(c.Radius, c.Radius)))
}
