package dxf

import (
	"strings"

	"github.com/zooyer/cad/core"
	"github.com/zooyer/cad/entities"
)

// Object DXF 中读取到的原始对象，坐标仍处于所在块的局部坐标系
type Object interface {
	// Parse 从当前的 0 组码开始读取，返回时 LastTag 停在下一个 0 组码
	Parse(s *core.Scanner)
	Base() *Common
}

// Common 所有对象共有的图层与颜色
type Common struct {
	Layer string
	Color int
}

func (c *Common) Base() *Common { return c }

// parse 处理公共组码，返回是否已处理
func (c *Common) parse(t core.Tag) bool {
	switch t.Code {
	case 8:
		c.Layer = t.AsString()
	case 62:
		c.Color = t.AsInt()
	default:
		return false
	}
	return true
}

// ObjectFactory 定义了如何创建一个空对象
type ObjectFactory func() Object

var registry = map[string]ObjectFactory{}

// Register 注册对象类型
func Register(typeName string, factory ObjectFactory) {
	registry[strings.ToUpper(typeName)] = factory
}

func createObject(typeName string) Object {
	if factory, ok := registry[strings.ToUpper(typeName)]; ok {
		obj := factory()
		// 未指定颜色时随层
		obj.Base().Color = entities.ColorByLayer
		return obj
	}
	return nil
}

// scan 依次把组码交给 fn，直到下一个 0 组码
func scan(s *core.Scanner, fn func(t core.Tag)) {
	for {
		t := s.LastTag
		if t.Code != 0 {
			fn(t)
		}
		if !s.Next() || s.LastTag.Code == 0 {
			break
		}
	}
}
