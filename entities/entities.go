package entities

import (
	"encoding/json"
	"fmt"

	"github.com/zooyer/cad/core"
)

// Entities 按类型分桶存放实体，实体只会出现在与其类型对应的桶中
type Entities struct {
	Line      []*Line
	Circle    []*Circle
	Arc       []*Arc
	MText     []*MText
	Dimension []*Dimension
	Hatch     []*Hatch
}

// RawEntities 导出格式，每个类型以 id 为键
type RawEntities struct {
	Line      core.OrderedMap[json.RawMessage] `json:"line"`
	Circle    core.OrderedMap[json.RawMessage] `json:"circle"`
	Arc       core.OrderedMap[json.RawMessage] `json:"arc"`
	MText     core.OrderedMap[json.RawMessage] `json:"mtext"`
	Dimension core.OrderedMap[json.RawMessage] `json:"dimension"`
	Hatch     core.OrderedMap[json.RawMessage] `json:"hatch"`
}

func New() *Entities {
	return &Entities{}
}

// DecodeEntities 从导出格式构造集合，遇到非法实体立即返回错误
func DecodeEntities(raw *RawEntities) (*Entities, error) {
	var result = New()
	if raw == nil {
		return result, nil
	}

	var buckets = []struct {
		typeName string
		data     *core.OrderedMap[json.RawMessage]
	}{
		{TypeLine, &raw.Line},
		{TypeCircle, &raw.Circle},
		{TypeArc, &raw.Arc},
		{TypeMText, &raw.MText},
		{TypeDimension, &raw.Dimension},
		{TypeHatch, &raw.Hatch},
	}

	for _, bucket := range buckets {
		var err error
		bucket.data.Range(func(id string, data json.RawMessage) bool {
			var e Entity
			if e, err = Decode(data); err != nil {
				err = fmt.Errorf("decode %s %s: %w", bucket.typeName, id, err)
				return false
			}
			if e.Type() != bucket.typeName {
				err = &ValidationError{Field: "type", Value: e.Type(), Reason: "entity in wrong bucket " + bucket.typeName}
				return false
			}
			result.Add(e)
			return true
		})
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Add 按类型放入对应的桶
func (es *Entities) Add(entities ...Entity) *Entities {
	for _, e := range entities {
		switch e := e.(type) {
		case *Line:
			es.Line = append(es.Line, e)
		case *Circle:
			es.Circle = append(es.Circle, e)
		case *Arc:
			es.Arc = append(es.Arc, e)
		case *MText:
			es.MText = append(es.MText, e)
		case *Dimension:
			es.Dimension = append(es.Dimension, e)
		case *Hatch:
			es.Hatch = append(es.Hatch, e)
		}
	}
	return es
}

// Merge 逐桶拼接，允许重复 id
func (es *Entities) Merge(o *Entities) *Entities {
	if o == nil {
		return es
	}
	es.Line = append(es.Line, o.Line...)
	es.Circle = append(es.Circle, o.Circle...)
	es.Arc = append(es.Arc, o.Arc...)
	es.MText = append(es.MText, o.MText...)
	es.Dimension = append(es.Dimension, o.Dimension...)
	es.Hatch = append(es.Hatch, o.Hatch...)
	return es
}

// Separate 移除所有 id 出现在 o 中的实体
func (es *Entities) Separate(o *Entities) *Entities {
	if o == nil {
		return es
	}
	var ids = make(map[string]bool)
	o.ForEach(func(e Entity) {
		ids[e.ID()] = true
	})
	keep := func(e Entity) bool { return !ids[e.ID()] }

	es.Line = filter(es.Line, keep)
	es.Circle = filter(es.Circle, keep)
	es.Arc = filter(es.Arc, keep)
	es.MText = filter(es.MText, keep)
	es.Dimension = filter(es.Dimension, keep)
	es.Hatch = filter(es.Hatch, keep)
	return es
}

// Filter 返回按条件过滤后的新集合，实体本身不复制
func (es *Entities) Filter(fn func(e Entity) bool) *Entities {
	return &Entities{
		Line:      filter(es.Line, fn),
		Circle:    filter(es.Circle, fn),
		Arc:       filter(es.Arc, fn),
		MText:     filter(es.MText, fn),
		Dimension: filter(es.Dimension, fn),
		Hatch:     filter(es.Hatch, fn),
	}
}

func filter[T Entity](list []T, fn func(e Entity) bool) []T {
	var result []T
	for _, e := range list {
		if fn(e) {
			result = append(result, e)
		}
	}
	return result
}

// Find 按 line, circle, arc, mtext, dimension, hatch 的顺序查找第一个匹配的实体
func (es *Entities) Find(id string) Entity {
	var found Entity
	es.ForEachType(func(typeName string, list []Entity) bool {
		for _, e := range list {
			if e.ID() == id {
				found = e
				return false
			}
		}
		return true
	})
	return found
}

// FindLine 查找直线，id 不存在或不是直线时返回 nil
func (es *Entities) FindLine(id string) *Line {
	for _, l := range es.Line {
		if l.ID() == id {
			return l
		}
	}
	return nil
}

// ForEachType 按固定顺序遍历每个桶，fn 返回 false 时停止
func (es *Entities) ForEachType(fn func(typeName string, list []Entity) bool) {
	var buckets = []struct {
		typeName string
		list     []Entity
	}{
		{TypeLine, toEntities(es.Line)},
		{TypeCircle, toEntities(es.Circle)},
		{TypeArc, toEntities(es.Arc)},
		{TypeMText, toEntities(es.MText)},
		{TypeDimension, toEntities(es.Dimension)},
		{TypeHatch, toEntities(es.Hatch)},
	}
	for _, bucket := range buckets {
		if !fn(bucket.typeName, bucket.list) {
			return
		}
	}
}

func toEntities[T Entity](list []T) []Entity {
	var result = make([]Entity, 0, len(list))
	for _, e := range list {
		result = append(result, e)
	}
	return result
}

func (es *Entities) ForEach(fn func(e Entity)) {
	es.ForEachType(func(_ string, list []Entity) bool {
		for _, e := range list {
			fn(e)
		}
		return true
	})
}

func (es *Entities) Len() int {
	return len(es.Line) + len(es.Circle) + len(es.Arc) + len(es.MText) + len(es.Dimension) + len(es.Hatch)
}

func (es *Entities) Transform(t core.Transformation) {
	es.ForEach(func(e Entity) {
		e.Transform(t)
	})
}

// Bounds 只统计可见实体，没有可见实体时返回零值
func (es *Entities) Bounds() core.Rect {
	var box core.BBox
	es.ForEach(func(e Entity) {
		if e.Base().Visible {
			e.ExpandBox(&box)
		}
	})
	return box.Rect()
}

func (es *Entities) Export() (*RawEntities, error) {
	var (
		raw RawEntities
		err error
	)
	buckets := map[string]*core.OrderedMap[json.RawMessage]{
		TypeLine:      &raw.Line,
		TypeCircle:    &raw.Circle,
		TypeArc:       &raw.Arc,
		TypeMText:     &raw.MText,
		TypeDimension: &raw.Dimension,
		TypeHatch:     &raw.Hatch,
	}
	es.ForEachType(func(typeName string, list []Entity) bool {
		for _, e := range list {
			var data json.RawMessage
			// 按桶写 type，与实体的实际种类一致
			if data, err = exportAs(e, typeName); err != nil {
				err = fmt.Errorf("export %s %s: %w", typeName, e.ID(), err)
				return false
			}
			buckets[typeName].Set(e.ID(), data)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return &raw, nil
}

// Clone 通过导出再导入得到深拷贝
func (es *Entities) Clone() (*Entities, error) {
	raw, err := es.Export()
	if err != nil {
		return nil, err
	}
	return DecodeEntities(raw)
}
