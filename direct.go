package cad

import (
	"errors"
	"fmt"

	"github.com/zooyer/cad/core"
)

// DirectAssemble 不经用户选择，直接根据同名连接点或同名基准线把 child 对齐到当前图纸。
// 连接点优先；没有可用连接点时，基准线的 valueX 决定 x 方向，valueY 决定 y 方向。
func (d *Data) DirectAssemble(child *Data) error {
	if child == nil {
		return assemblyErrorf("direct assemble", "nil component", nil)
	}

	d.UpdateBaseLines()
	child.UpdateBaseLines()

	for _, p := range d.JointPoints {
		if p.ValueX == nil || p.ValueY == nil {
			continue
		}
		for _, c := range child.JointPoints {
			if c.Name != p.Name || c.ValueX == nil || c.ValueY == nil {
				continue
			}
			child.Transform(core.Translation(core.NewPoint(*p.ValueX-*c.ValueX, *p.ValueY-*c.ValueY)))
			return nil
		}
	}

	var (
		offset         core.Point
		matchX, matchY bool
	)
	for _, p := range d.BaseLines {
		for _, c := range child.BaseLines {
			if c.Name != p.Name {
				continue
			}
			if !matchX && p.ValueX != nil && c.ValueX != nil {
				offset.X, matchX = *p.ValueX-*c.ValueX, true
			}
			if !matchY && p.ValueY != nil && c.ValueY != nil {
				offset.Y, matchY = *p.ValueY-*c.ValueY, true
			}
		}
	}
	if !matchX && !matchY {
		return assemblyErrorf("direct assemble", fmt.Sprintf("component %q has no joint point or base line in common", child.Name), nil)
	}

	child.Transform(core.Translation(offset))
	return nil
}

// DirectAssembleAll 逐个装配子图纸，不在 components 中的先添加进去。
// 单个失败不影响其他组件，返回所有失败的合并错误。
func (d *Data) DirectAssembleAll(children ...*Data) error {
	var errs []error
	for _, child := range children {
		if child == nil {
			continue
		}
		if d.FindComponent(child.ID) != child {
			d.AddComponent(child)
		}
		if err := d.DirectAssemble(child); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", child.Name, err))
		}
	}
	return errors.Join(errs...)
}
