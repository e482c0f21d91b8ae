package entities

import "github.com/zooyer/cad/core"

type HatchEdge struct {
	Start core.Point `json:"start"`
	End   core.Point `json:"end"`
}

// HatchPath 填充边界，由边或顶点组成
type HatchPath struct {
	Edges    []HatchEdge  `json:"edges,omitempty"`
	Vertices []core.Point `json:"vertices,omitempty"`
}

type Hatch struct {
	BaseEntity
	Paths []HatchPath `json:"paths"`
}

func init() {
	Register(TypeHatch, func() Entity { return &Hatch{Paths: []HatchPath{}} })
}

func (h *Hatch) defaults() {
	if h.Paths == nil {
		h.Paths = []HatchPath{}
	}
}

func (h *Hatch) Transform(t core.Transformation) {
	m := t.Matrix()
	for i := range h.Paths {
		path := &h.Paths[i]
		for j := range path.Edges {
			path.Edges[j].Start = m.Apply(path.Edges[j].Start)
			path.Edges[j].End = m.Apply(path.Edges[j].End)
		}
		for j := range path.Vertices {
			path.Vertices[j] = m.Apply(path.Vertices[j])
		}
	}
}

func (h *Hatch) ExpandBox(*core.BBox) {}
