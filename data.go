package cad

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/zooyer/cad/core"
	"github.com/zooyer/cad/entities"
)

// DefaultGap AddComponent 时新组件与当前图纸的间距
const DefaultGap = 15

// Scope GetAllEntities 的范围掩码
type Scope uint8

const (
	ScopeComponents Scope = 1 << iota
	ScopePartners
	ScopeSelf

	ScopeAll = ScopeSelf | ScopePartners | ScopeComponents
)

// Data 图纸节点。Partners 只做关联参考，不随本节点变换；
// Components 是刚性装配的子图纸及其装配记录。Parent 仅保存父节点 id。
type Data struct {
	ID          string
	Name        string
	Type        string
	Entities    *entities.Entities
	Layers      entities.Layers
	Conditions  []string
	Options     Options
	BaseLines   []BaseLine
	JointPoints []JointPoint
	Parent      string
	Partners    []*Data
	Components  Components

	// 渲染层使用，不导出
	Visible bool
}

type Components struct {
	Data        []*Data
	Connections []Connection
}

// New 从持久化格式构造图纸
func New(raw *Raw) (*Data, error) {
	if raw == nil {
		return nil, &ValidationError{Field: "data", Reason: "invalid data"}
	}

	var d = &Data{
		ID:          raw.ID,
		Name:        raw.Name,
		Type:        raw.Type,
		Conditions:  append([]string{}, raw.Conditions...),
		Options:     append(Options{}, raw.Options...),
		BaseLines:   cloneBaseLines(raw.BaseLines),
		JointPoints: cloneJointPoints(raw.JointPoints),
		Parent:      raw.Parent,
		Visible:     true,
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	raw.Layers.Range(func(id string, layer *entities.Layer) bool {
		if layer == nil {
			return true
		}
		l := *layer
		if l.ID == "" {
			l.ID = id
		}
		d.Layers = append(d.Layers, &l)
		return true
	})

	var err error
	if d.Entities, err = entities.DecodeEntities(&raw.Entities); err != nil {
		return nil, err
	}

	for i, p := range raw.Partners {
		partner, err := New(p)
		if err != nil {
			return nil, fmt.Errorf("partner %d: %w", i, err)
		}
		d.Partners = append(d.Partners, partner)
	}

	for i, c := range raw.Components.Data {
		component, err := New(c)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		d.Components.Data = append(d.Components.Data, component)
	}
	for _, c := range raw.Components.Connections {
		d.Components.Connections = append(d.Components.Connections, c.clone())
	}

	return d, nil
}

// Decode 从 JSON 构造图纸，只接受 JSON 对象
func Decode(data []byte) (*Data, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, &ValidationError{Field: "data", Reason: "invalid data"}
	}

	var raw Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Field: "data", Reason: "invalid data", Err: err}
	}

	return New(&raw)
}

// Export 导出为持久化格式，切片字段总是非 nil
func (d *Data) Export() (*Raw, error) {
	var raw = &Raw{
		ID:          d.ID,
		Name:        d.Name,
		Type:        d.Type,
		Conditions:  append([]string{}, d.Conditions...),
		Options:     append(Options{}, d.Options...),
		BaseLines:   cloneBaseLines(d.BaseLines),
		JointPoints: cloneJointPoints(d.JointPoints),
		Parent:      d.Parent,
		Partners:    []*Raw{},
		Components: RawComponents{
			Data:        []*Raw{},
			Connections: []Connection{},
		},
	}

	for _, l := range d.Layers {
		layer := *l
		raw.Layers.Set(l.ID, &layer)
	}

	if d.Entities != nil {
		es, err := d.Entities.Export()
		if err != nil {
			return nil, err
		}
		raw.Entities = *es
	}

	for _, p := range d.Partners {
		partner, err := p.Export()
		if err != nil {
			return nil, fmt.Errorf("partner %s: %w", p.ID, err)
		}
		raw.Partners = append(raw.Partners, partner)
	}

	for _, c := range d.Components.Data {
		component, err := c.Export()
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", c.ID, err)
		}
		raw.Components.Data = append(raw.Components.Data, component)
	}
	for _, c := range d.Components.Connections {
		raw.Components.Connections = append(raw.Components.Connections, c.clone())
	}

	return raw, nil
}

func (d *Data) MarshalJSON() ([]byte, error) {
	raw, err := d.Export()
	if err != nil {
		return nil, err
	}
	return json.Marshal(raw)
}

func (d *Data) Clone() (*Data, error) {
	raw, err := d.Export()
	if err != nil {
		return nil, err
	}
	return New(raw)
}

func (d *Data) entities() *entities.Entities {
	if d.Entities == nil {
		d.Entities = entities.New()
	}
	return d.Entities
}

// FindEntity 依次在自身、partners、components 中深度优先查找
func (d *Data) FindEntity(id string) entities.Entity {
	if owner := d.FindOwner(id); owner != nil {
		return owner.entities().Find(id)
	}
	return nil
}

// FindOwner 返回直接持有该实体的节点
func (d *Data) FindOwner(id string) *Data {
	if d.entities().Find(id) != nil {
		return d
	}
	for _, p := range d.Partners {
		if owner := p.FindOwner(id); owner != nil {
			return owner
		}
	}
	for _, c := range d.Components.Data {
		if owner := c.FindOwner(id); owner != nil {
			return owner
		}
	}
	return nil
}

// FindLine 查找直线，不存在或不是直线时返回 nil
func (d *Data) FindLine(id string) *entities.Line {
	line, _ := d.FindEntity(id).(*entities.Line)
	return line
}

// GetAllEntities 按掩码收集实体，visibleOnly 时跳过隐藏的 partner/component
func (d *Data) GetAllEntities(mode Scope, visibleOnly bool) *entities.Entities {
	var result = entities.New()
	if mode&ScopeSelf != 0 {
		result.Merge(d.entities())
	}
	if mode&ScopePartners != 0 {
		for _, p := range d.Partners {
			if !visibleOnly || p.Visible {
				result.Merge(p.entities())
			}
		}
	}
	if mode&ScopeComponents != 0 {
		for _, c := range d.Components.Data {
			if !visibleOnly || c.Visible {
				result.Merge(c.entities())
			}
		}
	}
	return result
}

// Transform 变换实体以及基准线、连接点的坐标
func (d *Data) Transform(t core.Transformation) {
	d.entities().Transform(t)

	m := t.Matrix()
	move := func(x, y *float64) {
		var p core.Point
		if x != nil {
			p.X = *x
		}
		if y != nil {
			p.Y = *y
		}
		p = m.Apply(p)
		if x != nil {
			*x = p.X
		}
		if y != nil {
			*y = p.Y
		}
	}
	for i := range d.BaseLines {
		move(d.BaseLines[i].ValueX, d.BaseLines[i].ValueY)
	}
	for i := range d.JointPoints {
		move(d.JointPoints[i].ValueX, d.JointPoints[i].ValueY)
	}
}

// Merge 合并另一张图纸：图层与实体直接拼接，条件取并集，
// 选项/基准线/连接点按名称覆盖，partners/components 按 id 覆盖
func (d *Data) Merge(o *Data) *Data {
	if o == nil {
		return d
	}

	d.Layers = append(d.Layers, o.Layers...)
	d.entities().Merge(o.Entities)

	for _, c := range o.Conditions {
		if !slices.Contains(d.Conditions, c) {
			d.Conditions = append(d.Conditions, c)
		}
	}

	d.Options = mergeBy(d.Options, o.Options, func(v Option) string { return v.Name })
	d.JointPoints = mergeBy(d.JointPoints, o.JointPoints, func(v JointPoint) string { return v.Name })
	d.BaseLines = mergeBy(d.BaseLines, o.BaseLines, func(v BaseLine) string { return v.Name })
	d.Partners = mergeBy(d.Partners, o.Partners, func(v *Data) string { return v.ID })
	d.Components.Data = mergeBy(d.Components.Data, o.Components.Data, func(v *Data) string { return v.ID })

	for _, c := range o.Components.Connections {
		if !slices.ContainsFunc(d.Components.Connections, c.Equal) {
			d.Components.Connections = append(d.Components.Connections, c.clone())
		}
	}

	return d
}

func mergeBy[T any](dst, src []T, key func(T) string) []T {
	for _, v := range src {
		idx := slices.IndexFunc(dst, func(e T) bool { return key(e) == key(v) })
		if idx < 0 {
			dst = append(dst, v)
		} else {
			dst[idx] = v
		}
	}
	return dst
}

// AddComponent 以默认间距添加组件，见 AddComponentWithGap
func (d *Data) AddComponent(c *Data) *Data {
	return d.AddComponentWithGap(c, DefaultGap)
}

// AddComponentWithGap 把组件摆放到当前图纸右侧并加入 components，同名组件会被替换
func (d *Data) AddComponentWithGap(c *Data, gap float64) *Data {
	var (
		rect1  = d.GetAllEntities(ScopeAll, true).Bounds()
		rect2  = c.entities().Bounds()
		offset = core.NewPoint(rect1.X-rect2.X+(rect1.Width+rect2.Width)/2+gap, rect1.Y-rect2.Y)
	)
	c.Transform(core.Translation(offset))
	c.Parent = d.ID

	idx := slices.IndexFunc(d.Components.Data, func(v *Data) bool { return v.Name == c.Name })
	if idx < 0 {
		d.Components.Data = append(d.Components.Data, c)
	} else {
		d.Components.Data[idx] = c
	}

	return d
}

// UpdateBaseLines 根据 idX/idY 引用的直线重新计算 valueX/valueY
func (d *Data) UpdateBaseLines() {
	for i := range d.BaseLines {
		b := &d.BaseLines[i]
		if line := d.FindLine(b.IDX); line != nil {
			x := line.Start.X
			b.ValueX = &x
		}
		if line := d.FindLine(b.IDY); line != nil {
			y := line.Start.Y
			b.ValueY = &y
		}
	}
}

// FindComponent 先按 id 再按名称查找组件
func (d *Data) FindComponent(key string) *Data {
	for _, c := range d.Components.Data {
		if c.ID == key {
			return c
		}
	}
	for _, c := range d.Components.Data {
		if c.Name == key {
			return c
		}
	}
	return nil
}

// RemoveConnection 按下标删除装配记录
func (d *Data) RemoveConnection(index int) error {
	if index < 0 || index >= len(d.Components.Connections) {
		return assemblyErrorf("remove connection", fmt.Sprintf("index %d out of range", index), nil)
	}
	d.Components.Connections = slices.Delete(d.Components.Connections, index, index+1)
	return nil
}
