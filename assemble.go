package cad

import (
	"fmt"
	"math"

	"github.com/zooyer/cad/core"
	"github.com/zooyer/cad/entities"
)

const (
	// 判断直线水平/竖直的容差
	axisTolerance = 1e-6
	// 判断两条线平行的角度容差（弧度）
	parallelTolerance = 1e-3
)

// candidates 参与装配的组件：所有子组件加上只包含自身实体的本节点
func (d *Data) candidates() []*Data {
	self := &Data{ID: d.ID, Name: d.Name, Entities: d.entities(), Visible: true}
	return append(append([]*Data{}, d.Components.Data...), self)
}

func findCandidate(list []*Data, key string) *Data {
	if key == "" {
		return nil
	}
	for _, c := range list {
		if c.ID == key {
			return c
		}
	}
	for _, c := range list {
		if c.Name == key {
			return c
		}
	}
	return nil
}

// ownerCandidate 直接持有该实体的组件，嵌套的子组件和 partner 不随组件移动，不算在内
func ownerCandidate(list []*Data, lineID string) *Data {
	for _, c := range list {
		if c.entities().Find(lineID) != nil {
			return c
		}
	}
	return nil
}

// resolveComponent 按 ids[i] 查找，找不到时用 names[i]，两者都为空时用直线所属组件
func resolveComponent(list []*Data, conn Connection, i int, lineID string) (*Data, error) {
	var key string
	if i < len(conn.IDs) && conn.IDs[i] != "" {
		if c := findCandidate(list, conn.IDs[i]); c != nil {
			return c, nil
		}
		key = conn.IDs[i]
	}
	if i < len(conn.Names) && conn.Names[i] != "" {
		if c := findCandidate(list, conn.Names[i]); c != nil {
			return c, nil
		}
		key = conn.Names[i]
	}
	if key != "" {
		return nil, assemblyErrorf("assemble", fmt.Sprintf("component %q not found", key), nil)
	}
	if c := ownerCandidate(list, lineID); c != nil {
		return c, nil
	}
	return nil, assemblyErrorf("assemble", fmt.Sprintf("no component owns line %q", lineID), nil)
}

func resolveLine(c *Data, id string) (core.Line, error) {
	e := c.entities().Find(id)
	if e == nil {
		return core.Line{}, assemblyErrorf("assemble", fmt.Sprintf("line %q not owned by component %q", id, c.Name), nil)
	}
	line, ok := e.(*entities.Line)
	if !ok {
		return core.Line{}, assemblyErrorf("assemble", fmt.Sprintf("entity %q is %s, not a line", id, e.Type()), nil)
	}
	if line.Length() == 0 {
		return core.Line{}, assemblyErrorf("assemble", fmt.Sprintf("line %q has zero length", id), nil)
	}
	return line.Geometry(), nil
}

// parallelAngle 使 line 与 direction 平行所需的最小旋转角，结果在 [-π/2, π/2]
func parallelAngle(direction core.Point, line core.Line) float64 {
	angle := core.NormalizeAngle(direction.Angle() - line.Theta())
	if angle > math.Pi/2 {
		angle -= math.Pi
	} else if angle < -math.Pi/2 {
		angle += math.Pi
	}
	return angle
}

func lineAxis(line core.Line) string {
	switch {
	case line.IsVertical(axisTolerance):
		return "x"
	case line.IsHorizontal(axisTolerance):
		return "y"
	}
	return ""
}

// AssembleComponents 按装配记录移动第二个组件并追加记录。
// 所有校验在修改前完成，失败时图纸保持不变。
func (d *Data) AssembleComponents(conn Connection) error {
	var want int
	switch conn.Position {
	case PositionAbsolute:
		want = 2
	case PositionRelative:
		want = 3
	default:
		return assemblyErrorf("assemble", fmt.Sprintf("unknown position %q", conn.Position), nil)
	}
	if len(conn.Lines) != want {
		return assemblyErrorf("assemble", fmt.Sprintf("%s assembly needs %d lines, got %d", conn.Position, want, len(conn.Lines)), nil)
	}

	space, err := ParseSpace(conn.Space)
	if err != nil {
		return assemblyErrorf("assemble", "invalid space", err)
	}
	if conn.Position == PositionRelative && (space < 0 || space > 100) {
		return assemblyErrorf("assemble", fmt.Sprintf("relative space %v out of range [0, 100]", space), nil)
	}

	var (
		list      = d.candidates()
		movingIdx = len(conn.Lines) - 1
	)
	anchor, err := resolveComponent(list, conn, 0, conn.Lines[0])
	if err != nil {
		return err
	}
	moving, err := resolveComponent(list, conn, 1, conn.Lines[movingIdx])
	if err != nil {
		return err
	}
	if anchor == moving {
		return assemblyErrorf("assemble", "lines must belong to different components", nil)
	}

	var lines = make([]core.Line, len(conn.Lines))
	for i, id := range conn.Lines {
		owner := anchor
		if i == movingIdx {
			owner = moving
		}
		if lines[i], err = resolveLine(owner, id); err != nil {
			return err
		}
	}

	var t core.Transformation
	if conn.Position == PositionAbsolute {
		t = absoluteTransformation(anchor, lines[0], lines[1], space)
	} else {
		if !lines[0].IsParallel(lines[1], parallelTolerance) {
			return assemblyErrorf("assemble", "anchor lines are not parallel", nil)
		}
		t = relativeTransformation(lines[0], lines[1], lines[2], space)
	}

	moving.Transform(t)

	record := conn.clone()
	record.IDs = []string{anchor.ID, moving.ID}
	record.Names = []string{anchor.Name, moving.Name}
	record.Axis = lineAxis(lines[0])
	record.Offset = &Offset{X: t.Translate.X, Y: t.Translate.Y}
	d.Components.Connections = append(d.Components.Connections, record)

	return nil
}

// absoluteTransformation 旋转使两线平行，再把对齐的端点移到基准线起点，
// 并沿远离基准组件中心的法线方向偏移 space
func absoluteTransformation(anchor *Data, base, line core.Line, space float64) core.Transformation {
	var (
		direction = base.Direction()
		angle     = parallelAngle(direction, line)
		rotated   = line.Transform(core.RotateMatrix(angle, line.Start))
		aligned   = rotated.Start
	)
	if rotated.Direction().Dot(direction) < 0 {
		aligned = rotated.End
	}

	normal := direction.Perp()
	center := anchor.entities().Bounds().Center()
	if center.Sub(base.Start).Dot(normal) > 0 {
		normal = normal.Mul(-1)
	}

	target := base.Start.Add(normal.Mul(space))

	return core.Transformation{
		Translate: target.Sub(aligned),
		Rotate:    core.Rotate{Angle: angle, Anchor: line.Start},
	}
}

// relativeTransformation 旋转使目标线平行于基准线，再沿法线方向
// 移动到两条基准线之间 space% 的位置，沿线方向的位置不变
func relativeTransformation(first, second, line core.Line, space float64) core.Transformation {
	var (
		direction = first.Direction()
		angle     = parallelAngle(direction, line)
		normal    = direction.Perp()
		from      = first.Start.Dot(normal)
		to        = second.Start.Dot(normal)
		want      = from + (to-from)*space/100
		current   = line.Start.Dot(normal)
	)

	return core.Transformation{
		Translate: normal.Mul(want - current),
		Rotate:    core.Rotate{Angle: angle, Anchor: line.Start},
	}
}
