package utils

import (
	"github.com/zooyer/cad/core"
	"github.com/zooyer/cad/entities"
)

// MergeBoxes 合并间距不超过 gap 的矩形，直到没有可以合并的为止
func MergeBoxes(boxes []core.BBox, gap float64) []core.BBox {
	if len(boxes) < 2 {
		return boxes
	}

	for {
		changed := false
		var merged []core.BBox
		visited := make([]bool, len(boxes))
		for i := 0; i < len(boxes); i++ {
			if visited[i] {
				continue
			}
			curr := boxes[i]
			visited[i] = true
			for j := i + 1; j < len(boxes); j++ {
				if !visited[j] && !IsSeparate(curr, boxes[j], gap) {
					curr.Union(boxes[j])
					visited[j], changed = true, true
				}
			}
			merged = append(merged, curr)
		}
		boxes = merged
		if !changed {
			break
		}
	}

	return boxes
}

// IsSeparate 判断两个 BBox 是否完全分离
func IsSeparate(a, b core.BBox, gap float64) bool {
	return a.Max.X+gap < b.Min.X || a.Min.X-gap > b.Max.X ||
		a.Max.Y+gap < b.Min.Y || a.Min.Y-gap > b.Max.Y
}

func InBox(box core.BBox, point core.Point) bool {
	if point.X >= box.Min.X && point.X <= box.Max.X && point.Y >= box.Min.Y && point.Y <= box.Max.Y {
		return true
	}

	return false
}

// EntityBoxes 每个可见实体各自的包围盒，不占空间的实体（文字、标注）跳过
func EntityBoxes(es *entities.Entities) []core.BBox {
	var boxes []core.BBox
	es.ForEach(func(e entities.Entity) {
		if !e.Base().Visible {
			return
		}
		var box core.BBox
		e.ExpandBox(&box)
		if !box.IsEmpty() {
			boxes = append(boxes, box)
		}
	})
	return boxes
}

// Cluster 一组彼此靠近的实体
type Cluster struct {
	Rect     core.Rect `json:"rect"`
	Entities int       `json:"entities"`
	// Texts 插入点落在分组范围内的文字
	Texts []string `json:"texts"`
}

// Clusters 把实体按间距分组，一组大致对应图纸中的一张独立图形
func Clusters(es *entities.Entities, gap float64) []Cluster {
	var (
		boxes    = EntityBoxes(es)
		clusters []Cluster
	)
	for _, merged := range MergeBoxes(boxes, gap) {
		var c = Cluster{Rect: merged.Rect(), Texts: []string{}}
		for _, box := range boxes {
			if InBox(merged, box.Min) && InBox(merged, box.Max) {
				c.Entities++
			}
		}
		for _, t := range es.MText {
			if InBox(merged, t.Insert) {
				c.Texts = append(c.Texts, t.Text)
			}
		}
		clusters = append(clusters, c)
	}
	return clusters
}
