package cad

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/cad/core"
	"github.com/zooyer/cad/entities"
)

func relativeData() *Data {
	d := newData("root", "main")
	d.Components.Data = []*Data{
		newData("A", "a",
			newLine("a1", core.NewPoint(0, 0), core.NewPoint(10, 0)),
			newLine("a2", core.NewPoint(0, 10), core.NewPoint(10, 10)),
			newLine("a3", core.NewPoint(0, 0), core.NewPoint(0, 10)),
		),
		newData("B", "b", newLine("b1", core.NewPoint(3, 40), core.NewPoint(3, 50))),
		newData("C", "c", newLine("c1", core.NewPoint(90, 40), core.NewPoint(90, 50))),
	}
	return d
}

func TestAssemblerToggle(t *testing.T) {
	d := relativeData()
	circle := entities.NewCircle(core.Point{}, 1)
	d.Components.Data[1].Entities.Add(circle)

	a := NewAssembler(d, PositionRelative, "50")
	assert.True(t, a.Toggle())
	assert.True(t, d.FindLine("a1").Selectable)
	assert.False(t, circle.Selectable)

	require.NoError(t, a.Select("a1", true))
	assert.True(t, d.FindLine("a1").Selected)
	assert.Equal(t, []string{"a1"}, a.Lines())

	assert.False(t, a.Toggle())
	assert.False(t, d.FindLine("a1").Selected)
	assert.True(t, circle.Selectable)
	assert.Empty(t, a.Lines())
	assert.Empty(t, a.IDs())

	// 未进入装配状态时忽略选择
	require.NoError(t, a.Select("a1", true))
	assert.Empty(t, a.Lines())
}

func TestAssemblerRelative(t *testing.T) {
	d := relativeData()
	notified := 0

	a := NewAssembler(d, PositionRelative, "50")
	a.Notify = func() { notified++ }
	a.Toggle()

	require.NoError(t, a.Select("a1", true))
	require.NoError(t, a.Select("a2", true))
	assert.Equal(t, []string{"A"}, a.IDs())
	assert.Equal(t, 0, notified)

	require.NoError(t, a.Select("b1", true))
	assert.Equal(t, 1, notified)
	assert.Empty(t, a.Lines())
	assert.Empty(t, a.IDs())
	assert.False(t, d.FindLine("b1").Selected)

	require.Len(t, d.Components.Connections, 1)
	conn := d.Components.Connections[0]
	assert.Equal(t, []string{"a1", "a2", "b1"}, conn.Lines)
	assert.Equal(t, []string{"A", "B"}, conn.IDs)
	assertPoint(t, core.NewPoint(3, 5), d.FindLine("b1").Start)
}

func TestAssemblerRelativeError(t *testing.T) {
	d := relativeData()
	notified := 0

	a := NewAssembler(d, PositionRelative, "50")
	a.Notify = func() { notified++ }
	a.Toggle()

	// a1 与 a3 不平行
	require.NoError(t, a.Select("a1", true))
	require.NoError(t, a.Select("b1", true))
	err := a.Select("a3", true)

	var aerr *AssemblyError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, 1, notified)
	assert.Empty(t, a.Lines())
	assert.Empty(t, d.Components.Connections)
	assertPoint(t, core.NewPoint(3, 40), d.FindLine("b1").Start)
}

func TestAssemblerRelativePicks(t *testing.T) {
	d := relativeData()
	a := NewAssembler(d, PositionRelative, "0")
	a.Toggle()

	// 基准组件最多保留两条，先进先出
	require.NoError(t, a.Select("a1", true))
	require.NoError(t, a.Select("a2", true))
	require.NoError(t, a.Select("a3", true))
	assert.Equal(t, []string{"a2", "a3"}, a.Lines())

	// 取消第一条后只剩第二条
	require.NoError(t, a.Select("a2", false))
	assert.Equal(t, []string{"a3"}, a.Lines())

	// 第三个组件替换目标
	require.NoError(t, a.Select("b1", true))
	require.NoError(t, a.Select("c1", true))
	assert.Equal(t, []string{"A", "C"}, a.IDs())
	assert.Equal(t, []string{"a3", "c1"}, a.Lines())

	// 基准清空后目标成为新的基准
	require.NoError(t, a.Select("a3", false))
	assert.Equal(t, []string{"C"}, a.IDs())
	assert.Equal(t, []string{"c1"}, a.Lines())

	require.NoError(t, a.Select("c1", false))
	assert.Empty(t, a.IDs())
}

func TestAssemblerAbsolute(t *testing.T) {
	d := twoComponents(core.NewPoint(50, 20), core.NewPoint(50, 30))
	d.Components.Data[0].Entities.Add(newLine("la2", core.NewPoint(0, 0), core.NewPoint(0, -10)))

	a := NewAssembler(d, PositionAbsolute, "")
	a.Toggle()

	// 同一组件重复选择会覆盖
	require.NoError(t, a.Select("la2", true))
	require.NoError(t, a.Select("la", true))
	assert.Equal(t, []string{"la"}, a.Lines())

	require.NoError(t, a.Select("lb", true))
	assert.Empty(t, a.Lines())
	require.Len(t, d.Components.Connections, 1)
	assert.Equal(t, []string{"la", "lb"}, d.Components.Connections[0].Lines)
	assertPoint(t, core.NewPoint(10, 0), d.FindLine("lb").End)
}

func TestAssemblerSelectErrors(t *testing.T) {
	d := twoComponents(core.NewPoint(50, 20), core.NewPoint(50, 30))
	a := NewAssembler(d, PositionAbsolute, "")
	a.Toggle()

	var aerr *AssemblyError
	assert.True(t, errors.As(a.Select("missing", true), &aerr))

	circleID := d.Components.Data[1].Entities.Circle[0].ID()
	assert.True(t, errors.As(a.Select(circleID, true), &aerr))
}

func TestAssemblerSelectNestedLine(t *testing.T) {
	d := twoComponents(core.NewPoint(50, 20), core.NewPoint(50, 30))
	d.Components.Data[1].Components.Data = []*Data{
		newData("B1", "b1", newLine("nested", core.NewPoint(80, 0), core.NewPoint(80, 10))),
	}
	a := NewAssembler(d, PositionAbsolute, "")
	a.Toggle()

	var aerr *AssemblyError
	assert.True(t, errors.As(a.Select("nested", true), &aerr))
	assert.Empty(t, a.Lines())
	assert.False(t, d.FindLine("nested").Selected)
}
