package cad

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/zooyer/cad/core"
	"github.com/zooyer/cad/entities"
)

// Raw 图纸的持久化格式
type Raw struct {
	ID          string                           `json:"id"`
	Name        string                           `json:"name"`
	Type        string                           `json:"type"`
	Layers      core.OrderedMap[*entities.Layer] `json:"layers"`
	Entities    entities.RawEntities             `json:"entities"`
	Conditions  []string                         `json:"conditions"`
	Options     Options                          `json:"options"`
	BaseLines   []BaseLine                       `json:"baseLines"`
	JointPoints []JointPoint                     `json:"jointPoints"`
	Parent      string                           `json:"parent"`
	Partners    []*Raw                           `json:"partners"`
	Components  RawComponents                    `json:"components"`
}

type RawComponents struct {
	Data        []*Raw       `json:"data"`
	Connections []Connection `json:"connections"`
}

// Option 选项，导出为 {name: value}
type Option struct {
	Name  string
	Value string
}

type Options []Option

// Find 按名称查找选项
func (opts Options) Find(name string) (string, bool) {
	for _, o := range opts {
		if o.Name == name {
			return o.Value, true
		}
	}
	return "", false
}

func (opts Options) MarshalJSON() ([]byte, error) {
	var list = make([]map[string]string, 0, len(opts))
	for _, o := range opts {
		list = append(list, map[string]string{o.Name: o.Value})
	}
	return json.Marshal(list)
}

// UnmarshalJSON 兼容 [{name: value}] 与 {name: value} 两种格式
func (opts *Options) UnmarshalJSON(data []byte) error {
	*opts = Options{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var objects []core.OrderedMap[json.RawMessage]
	if data[0] == '{' {
		var object core.OrderedMap[json.RawMessage]
		if err := json.Unmarshal(data, &object); err != nil {
			return err
		}
		objects = append(objects, object)
	} else if err := json.Unmarshal(data, &objects); err != nil {
		return fmt.Errorf("options: %w", err)
	}

	for _, object := range objects {
		object.Range(func(name string, value json.RawMessage) bool {
			*opts = append(*opts, Option{Name: name, Value: optionValue(value)})
			return true
		})
	}

	return nil
}

func optionValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return ""
	}
	if f, err := strconv.ParseFloat(string(bytes.TrimSpace(raw)), 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return string(raw)
}

// BaseLine 基准线：idX 指向竖线，idY 指向横线
type BaseLine struct {
	Name   string   `json:"name"`
	IDX    string   `json:"idX"`
	IDY    string   `json:"idY"`
	ValueX *float64 `json:"valueX"`
	ValueY *float64 `json:"valueY"`
}

// JointPoint 连接点
type JointPoint struct {
	Name   string   `json:"name"`
	ValueX *float64 `json:"valueX"`
	ValueY *float64 `json:"valueY"`
}

// 装配方式
const (
	PositionAbsolute = "absolute"
	PositionRelative = "relative"
)

type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Connection 一次成功装配的记录，追加后不再修改
type Connection struct {
	IDs      []string `json:"ids"`
	Names    []string `json:"names"`
	Lines    []string `json:"lines"`
	Space    string   `json:"space"`
	Position string   `json:"position"`
	Axis     string   `json:"axis,omitempty"`
	Offset   *Offset  `json:"offset,omitempty"`
}

func (c Connection) clone() Connection {
	result := c
	result.IDs = append([]string{}, c.IDs...)
	result.Names = append([]string{}, c.Names...)
	result.Lines = append([]string{}, c.Lines...)
	if c.Offset != nil {
		offset := *c.Offset
		result.Offset = &offset
	}
	return result
}

func (c Connection) Equal(o Connection) bool {
	if c.Space != o.Space || c.Position != o.Position || c.Axis != o.Axis {
		return false
	}
	if !slices.Equal(c.IDs, o.IDs) || !slices.Equal(c.Names, o.Names) || !slices.Equal(c.Lines, o.Lines) {
		return false
	}
	if c.Offset == nil || o.Offset == nil {
		return c.Offset == o.Offset
	}
	return *c.Offset == *o.Offset
}

func cloneBaseLines(list []BaseLine) []BaseLine {
	var result = make([]BaseLine, len(list))
	for i, v := range list {
		v.ValueX, v.ValueY = cloneFloat(v.ValueX), cloneFloat(v.ValueY)
		result[i] = v
	}
	return result
}

func cloneJointPoints(list []JointPoint) []JointPoint {
	var result = make([]JointPoint, len(list))
	for i, v := range list {
		v.ValueX, v.ValueY = cloneFloat(v.ValueX), cloneFloat(v.ValueY)
		result[i] = v
	}
	return result
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
