package cad

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/cad/core"
	"github.com/zooyer/cad/entities"
)

const tolerance = 1e-6

func assertPoint(t *testing.T, expected, actual core.Point) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, tolerance, "x of %v", actual)
	assert.InDelta(t, expected.Y, actual.Y, tolerance, "y of %v", actual)
}

// twoComponents 组件 A 有一条水平线 la，组件 B 有一条竖线 lb
func twoComponents(movingStart, movingEnd core.Point) *Data {
	d := newData("root", "main")
	d.Components.Data = []*Data{
		newData("A", "a", newLine("la", core.NewPoint(0, 0), core.NewPoint(10, 0))),
		newData("B", "b", newLine("lb", movingStart, movingEnd), entities.NewCircle(movingStart, 1)),
	}
	return d
}

func TestParseSpace(t *testing.T) {
	cases := map[string]float64{
		"":          0,
		"  ":        0,
		"10":        10,
		"-5+2.5":    -2.5,
		"1 - 2 + 3": 2,
		"0.5":       0.5,
		"-10 - 10":  -20,
	}
	for input, expected := range cases {
		value, err := ParseSpace(input)
		require.NoError(t, err, input)
		assert.InDelta(t, expected, value, 1e-9, input)
	}

	for _, input := range []string{"abc", "5+", "--5", "5 5"} {
		_, err := ParseSpace(input)
		assert.Error(t, err, input)
	}
}

func TestAssembleAbsolute(t *testing.T) {
	d := twoComponents(core.NewPoint(50, 20), core.NewPoint(50, 30))

	err := d.AssembleComponents(Connection{
		IDs:      []string{"A", "B"},
		Lines:    []string{"la", "lb"},
		Space:    "0",
		Position: PositionAbsolute,
	})
	require.NoError(t, err)

	anchor, moving := d.FindLine("la"), d.FindLine("lb")
	assertPoint(t, anchor.Start, moving.Start)
	assertPoint(t, anchor.End, moving.End)

	require.Len(t, d.Components.Connections, 1)
	conn := d.Components.Connections[0]
	assert.Equal(t, PositionAbsolute, conn.Position)
	assert.Equal(t, []string{"A", "B"}, conn.IDs)
	assert.Equal(t, []string{"a", "b"}, conn.Names)
	assert.Equal(t, []string{"la", "lb"}, conn.Lines)
	assert.Equal(t, "y", conn.Axis)
	require.NotNil(t, conn.Offset)
	assert.InDelta(t, -50, conn.Offset.X, tolerance)
	assert.InDelta(t, -20, conn.Offset.Y, tolerance)

	// 整个组件一起移动
	assertPoint(t, core.NewPoint(0, 0), d.Components.Data[1].Entities.Circle[0].Center)
}

func TestAssembleAbsoluteReversed(t *testing.T) {
	d := twoComponents(core.NewPoint(60, 20), core.NewPoint(50, 20))

	require.NoError(t, d.AssembleComponents(Connection{
		Names:    []string{"a", "b"},
		Lines:    []string{"la", "lb"},
		Position: PositionAbsolute,
	}))

	moving := d.FindLine("lb")
	assertPoint(t, core.NewPoint(10, 0), moving.Start)
	assertPoint(t, core.NewPoint(0, 0), moving.End)
}

func TestAssembleAbsoluteSpace(t *testing.T) {
	d := twoComponents(core.NewPoint(50, 20), core.NewPoint(60, 20))
	// 基准组件的中心在基准线上方，偏移方向朝下
	d.Components.Data[0].Entities.Add(newLine("top", core.NewPoint(0, 10), core.NewPoint(10, 10)))

	require.NoError(t, d.AssembleComponents(Connection{
		IDs:      []string{"A", "B"},
		Lines:    []string{"la", "lb"},
		Space:    "3+2",
		Position: PositionAbsolute,
	}))

	moving := d.FindLine("lb")
	assertPoint(t, core.NewPoint(0, -5), moving.Start)
	assertPoint(t, core.NewPoint(10, -5), moving.End)
}

func TestAssembleWithSelf(t *testing.T) {
	d := newData("root", "main", newLine("own", core.NewPoint(0, 0), core.NewPoint(0, 10)))
	d.Components.Data = []*Data{
		newData("B", "b", newLine("lb", core.NewPoint(30, 30), core.NewPoint(30, 40))),
	}

	require.NoError(t, d.AssembleComponents(Connection{
		Lines:    []string{"own", "lb"},
		Position: PositionAbsolute,
	}))

	assertPoint(t, core.NewPoint(0, 0), d.FindLine("lb").Start)
	assert.Equal(t, []string{"root", "B"}, d.Components.Connections[0].IDs)
	assert.Equal(t, "x", d.Components.Connections[0].Axis)
}

func TestAssembleRelative(t *testing.T) {
	d := newData("root", "main")
	d.Components.Data = []*Data{
		newData("A", "a",
			newLine("a1", core.NewPoint(0, 0), core.NewPoint(10, 0)),
			newLine("a2", core.NewPoint(10, 10), core.NewPoint(0, 10)),
		),
		newData("B", "b", newLine("lb", core.NewPoint(3, 40), core.NewPoint(3, 50))),
	}

	require.NoError(t, d.AssembleComponents(Connection{
		IDs:      []string{"A", "B"},
		Lines:    []string{"a1", "a2", "lb"},
		Space:    "50",
		Position: PositionRelative,
	}))

	moving := d.FindLine("lb")
	assertPoint(t, core.NewPoint(3, 5), moving.Start)
	assertPoint(t, core.NewPoint(13, 5), moving.End)
	assert.Equal(t, PositionRelative, d.Components.Connections[0].Position)
}

func TestAssembleErrors(t *testing.T) {
	cases := map[string]Connection{
		"same component": {Lines: []string{"la", "la"}, Position: PositionAbsolute},
		"missing line":   {IDs: []string{"A", "B"}, Lines: []string{"la", "nope"}, Position: PositionAbsolute},
		"not a line":     {IDs: []string{"A", "B"}, Lines: []string{"la", "circle"}, Position: PositionAbsolute},
		"zero length":    {IDs: []string{"A", "B"}, Lines: []string{"la", "zero"}, Position: PositionAbsolute},
		"unknown":        {IDs: []string{"A", "X"}, Lines: []string{"la", "lb"}, Position: PositionAbsolute},
		"line count":     {IDs: []string{"A", "B"}, Lines: []string{"la"}, Position: PositionAbsolute},
		"position":       {IDs: []string{"A", "B"}, Lines: []string{"la", "lb"}, Position: "sideways"},
		"space":          {IDs: []string{"A", "B"}, Lines: []string{"la", "lb"}, Space: "x", Position: PositionAbsolute},
		"relative range": {IDs: []string{"A", "B"}, Lines: []string{"la", "la2", "lb"}, Space: "150", Position: PositionRelative},
		"not parallel":   {IDs: []string{"A", "B"}, Lines: []string{"la", "lv", "lb"}, Space: "10", Position: PositionRelative},
	}

	for name, conn := range cases {
		t.Run(name, func(t *testing.T) {
			d := twoComponents(core.NewPoint(50, 20), core.NewPoint(50, 30))
			d.Components.Data[0].Entities.Add(
				newLine("la2", core.NewPoint(0, 5), core.NewPoint(10, 5)),
				newLine("lv", core.NewPoint(0, 0), core.NewPoint(0, 5)),
			)
			circle := entities.NewCircle(core.Point{}, 1)
			circle.Handle = "circle"
			d.Components.Data[1].Entities.Add(circle, newLine("zero", core.NewPoint(1, 1), core.NewPoint(1, 1)))

			err := d.AssembleComponents(conn)

			var aerr *AssemblyError
			require.True(t, errors.As(err, &aerr), "%v", err)
			assert.Empty(t, d.Components.Connections)
			assertPoint(t, core.NewPoint(50, 20), d.FindLine("lb").Start)
		})
	}
}

func TestAssembleNestedLine(t *testing.T) {
	d := newData("root", "main")
	b := newData("B", "b", entities.NewCircle(core.NewPoint(60, 60), 1))
	b.Components.Data = []*Data{newData("B1", "b1", newLine("lb", core.NewPoint(50, 20), core.NewPoint(50, 30)))}
	b.Partners = []*Data{newData("P", "p", newLine("lp", core.NewPoint(70, 20), core.NewPoint(70, 30)))}
	d.Components.Data = []*Data{
		newData("A", "a", newLine("la", core.NewPoint(0, 0), core.NewPoint(10, 0))),
		b,
	}

	for _, line := range []string{"lb", "lp"} {
		err := d.AssembleComponents(Connection{
			IDs:      []string{"A", "B"},
			Lines:    []string{"la", line},
			Position: PositionAbsolute,
		})

		var aerr *AssemblyError
		require.True(t, errors.As(err, &aerr), "%v", err)
		assert.Contains(t, aerr.Message, "not owned")
	}

	// 不指定组件时嵌套直线也不能作为装配线
	err := d.AssembleComponents(Connection{Lines: []string{"la", "lb"}, Position: PositionAbsolute})
	assert.Error(t, err)

	assert.Empty(t, d.Components.Connections)
	assertPoint(t, core.NewPoint(50, 20), d.FindLine("lb").Start)
}
