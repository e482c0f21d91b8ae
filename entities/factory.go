package entities

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/zooyer/cad/core"
)

// 实体类型，构造后不可变
const (
	TypeLine      = "LINE"
	TypeCircle    = "CIRCLE"
	TypeArc       = "ARC"
	TypeMText     = "MTEXT"
	TypeDimension = "DIMENSION"
	TypeHatch     = "HATCH"
)

// Entity 是一切几何实体的接口，实体种类是封闭集合
type Entity interface {
	ID() string
	Type() string
	Layer() string
	Base() *BaseEntity
	// Transform 直接修改坐标，不保存变换状态
	Transform(t core.Transformation)
	// ExpandBox 把自身对包围盒的贡献合并进 box
	ExpandBox(box *core.BBox)

	sealed()
}

// BaseEntity 存放所有实体通用的属性（如 Layer, Color, Handle）
type BaseEntity struct {
	Handle     string `json:"id"`
	LayerName  string `json:"layer"`
	ColorIndex int    `json:"color"`

	// 渲染层使用的状态，不参与导出
	Visible    bool `json:"-"`
	Selectable bool `json:"-"`
	Selected   bool `json:"-"`

	// 只由 CreateEntity/Decode 设置，导出时写入 type
	typeName string
	rgb      *uint32
}

func (b *BaseEntity) ID() string { return b.Handle }

func (b *BaseEntity) Type() string { return b.typeName }

func (b *BaseEntity) Layer() string { return b.LayerName }

func (b *BaseEntity) Base() *BaseEntity { return b }

func (b *BaseEntity) sealed() {}

// SetColor 修改颜色索引并清除缓存
func (b *BaseEntity) SetColor(index int) {
	b.ColorIndex = index
	b.rgb = nil
}

// RGB 解析实际颜色：索引 256 表示随层，每次都重新读取图层颜色
func (b *BaseEntity) RGB(layers Layers) uint32 {
	if b.ColorIndex == ColorByLayer {
		if layer := layers.Find(b.LayerName); layer != nil {
			return layer.RGB()
		}
		return 0
	}
	if b.rgb == nil {
		rgb := Index2RGB(b.ColorIndex)
		b.rgb = &rgb
	}
	return *b.rgb
}

func (b *BaseEntity) init(typeName string) {
	b.typeName = typeName
	if b.Handle == "" {
		b.Handle = uuid.NewString()
	}
	if b.LayerName == "" {
		b.LayerName = "0"
	}
	b.Visible = true
	b.Selectable = true
	b.rgb = nil
}

// EntityFactory 定义了如何创建一个空实体
type EntityFactory func() Entity

var registry = map[string]EntityFactory{}

// Register 注册实体类型
func Register(typeName string, factory EntityFactory) {
	registry[typeName] = factory
}

// CreateEntity 根据实体名称生产对应的结构体，未知类型返回 nil
func CreateEntity(typeName string) Entity {
	if factory, ok := registry[typeName]; ok {
		e := factory()
		e.Base().init(typeName)
		return e
	}
	return nil
}

// Decode 从无类型的导入数据构造实体，类型不识别时返回 *ValidationError
func Decode(data []byte) (Entity, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, &ValidationError{Field: "entity", Value: string(data), Reason: "invalid data"}
	}

	var head struct {
		ID   any `json:"id"`
		Type any `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, &ValidationError{Field: "entity", Reason: "invalid data", Err: err}
	}
	// 非字符串的 id 按缺失处理，由 init 重新生成
	if _, ok := head.ID.(string); !ok && head.ID != nil {
		var err error
		if data, err = dropID(data); err != nil {
			return nil, &ValidationError{Field: "entity", Reason: "invalid data", Err: err}
		}
	}

	typeName, _ := head.Type.(string)
	factory, ok := registry[typeName]
	if !ok {
		return nil, &ValidationError{Field: "type", Value: head.Type, Reason: "unrecognized cad type"}
	}

	e := factory()
	if err := json.Unmarshal(data, e); err != nil {
		return nil, &ValidationError{Field: typeName, Reason: "invalid data", Err: err}
	}
	e.Base().init(typeName)
	if d, ok := e.(defaulter); ok {
		d.defaults()
	}

	return e, nil
}

func dropID(data []byte) ([]byte, error) {
	var object core.OrderedMap[json.RawMessage]
	if err := json.Unmarshal(data, &object); err != nil {
		return nil, err
	}
	object.Set("id", json.RawMessage(`""`))
	return json.Marshal(object)
}

// Export 导出为 JSON，type 取构造时的实体类型，color 输出调色板索引
func Export(e Entity) (json.RawMessage, error) {
	return exportAs(e, e.Type())
}

func exportAs(e Entity, typeName string) (json.RawMessage, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	head, err := json.Marshal(typeName)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + len(head) + 8)
	buf.WriteString(`{"type":`)
	buf.Write(head)
	if rest := data[1:]; len(rest) > 1 {
		buf.WriteByte(',')
		buf.Write(rest)
	} else {
		buf.Write(rest)
	}
	return buf.Bytes(), nil
}

type defaulter interface {
	defaults()
}
