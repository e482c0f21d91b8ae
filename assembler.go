package cad

import (
	"fmt"
	"slices"

	"github.com/zooyer/cad/entities"
)

type pick struct {
	component *Data
	lines     []string
}

// Assembler 交互式装配：根据用户依次选中的直线完成装配。
//
// absolute 模式每个组件最多保留一条线，选中第二个组件后立即装配；
// relative 模式第一个组件为基准，最多保留两条线（先进先出），
// 第二个组件保留一条线，凑齐三条线后装配。
type Assembler struct {
	Data     *Data
	Position string
	Space    string
	// Notify 每次装配结束后调用（无论成功与否），用于刷新界面
	Notify func()

	assembling bool
	picks      []pick
}

func NewAssembler(data *Data, position, space string) *Assembler {
	return &Assembler{Data: data, Position: position, Space: space}
}

func (a *Assembler) Assembling() bool {
	return a.assembling
}

// IDs 已选组件的 id，按选择顺序
func (a *Assembler) IDs() []string {
	var ids []string
	for _, p := range a.picks {
		ids = append(ids, p.component.ID)
	}
	return ids
}

// Lines 已选直线的 id，按选择顺序
func (a *Assembler) Lines() []string {
	var lines []string
	for _, p := range a.picks {
		lines = append(lines, p.lines...)
	}
	return lines
}

// Toggle 切换装配状态。进入时只有直线可选，退出时恢复所有实体的选择状态
func (a *Assembler) Toggle() bool {
	a.assembling = !a.assembling
	a.picks = nil

	all := a.Data.GetAllEntities(ScopeAll, false)
	all.ForEach(func(e entities.Entity) {
		base := e.Base()
		if a.assembling {
			base.Selectable = e.Type() == entities.TypeLine
		} else {
			base.Selected = false
			base.Selectable = true
		}
	})

	return a.assembling
}

func (a *Assembler) indexOf(component *Data) int {
	return slices.IndexFunc(a.picks, func(p pick) bool { return p.component.ID == component.ID })
}

// Select 处理一次选中或取消选中，凑齐直线时执行装配并返回装配错误
func (a *Assembler) Select(entityID string, selected bool) error {
	if !a.assembling {
		return nil
	}

	var (
		list      = a.Data.candidates()
		component = ownerCandidate(list, entityID)
	)
	if component == nil {
		return assemblyErrorf("select", fmt.Sprintf("entity %q does not belong to any component", entityID), nil)
	}
	e := component.entities().Find(entityID)
	if e.Type() != entities.TypeLine {
		return assemblyErrorf("select", fmt.Sprintf("entity %q is not a line", entityID), nil)
	}
	e.Base().Selected = selected

	if !selected {
		a.deselect(component, entityID)
		return nil
	}

	a.add(component, entityID)
	if !a.complete() {
		return nil
	}

	return a.assemble()
}

func (a *Assembler) add(component *Data, lineID string) {
	idx := a.indexOf(component)

	if a.Position != PositionRelative {
		if idx < 0 {
			a.picks = append(a.picks, pick{component: component, lines: []string{lineID}})
		} else {
			a.picks[idx].lines = []string{lineID}
		}
		return
	}

	switch {
	case idx == 0:
		anchor := &a.picks[0]
		if slices.Contains(anchor.lines, lineID) {
			return
		}
		anchor.lines = append(anchor.lines, lineID)
		if len(anchor.lines) > 2 {
			anchor.lines = anchor.lines[1:]
		}
	case idx > 0:
		a.picks[idx].lines = []string{lineID}
	case len(a.picks) < 2:
		a.picks = append(a.picks, pick{component: component, lines: []string{lineID}})
	default:
		// 第三个组件替换原来的目标
		a.picks[1] = pick{component: component, lines: []string{lineID}}
	}
}

// deselect 移除选中的直线；基准组件清空时原目标组件成为新的基准
func (a *Assembler) deselect(component *Data, lineID string) {
	idx := a.indexOf(component)
	if idx < 0 {
		return
	}

	p := &a.picks[idx]
	p.lines = slices.DeleteFunc(p.lines, func(id string) bool { return id == lineID })
	if len(p.lines) == 0 {
		a.picks = slices.Delete(a.picks, idx, idx+1)
	}
}

func (a *Assembler) complete() bool {
	if a.Position == PositionRelative {
		return len(a.Lines()) == 3
	}
	return len(a.picks) == 2
}

func (a *Assembler) assemble() (err error) {
	var conn = Connection{
		Lines:    a.Lines(),
		Space:    a.Space,
		Position: a.Position,
	}
	for _, p := range a.picks {
		conn.IDs = append(conn.IDs, p.component.ID)
		conn.Names = append(conn.Names, p.component.Name)
	}
	if conn.Position == "" {
		conn.Position = PositionAbsolute
	}

	defer func() {
		a.picks = nil
		a.Data.GetAllEntities(ScopeAll, false).ForEach(func(e entities.Entity) {
			e.Base().Selected = false
		})
		if a.Notify != nil {
			a.Notify()
		}
	}()

	return a.Data.AssembleComponents(conn)
}
