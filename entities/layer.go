package entities

// Layer 图层，颜色同时保存调色板索引和解析后的 RGB
type Layer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ColorIndex int    `json:"color"`
}

func NewLayer(id, name string, color int) *Layer {
	return &Layer{ID: id, Name: name, ColorIndex: color}
}

func (l *Layer) RGB() uint32 {
	return Index2RGB(l.ColorIndex)
}

type Layers []*Layer

// Find 按名称查找图层
func (ls Layers) Find(name string) *Layer {
	for _, l := range ls {
		if l.Name == name {
			return l
		}
	}
	return nil
}
