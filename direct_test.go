package cad

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/cad/core"
)

func float(v float64) *float64 {
	return &v
}

func TestDirectAssembleJointPoint(t *testing.T) {
	d := newData("root", "main")
	d.JointPoints = []JointPoint{{Name: "j", ValueX: float(10), ValueY: float(20)}}

	child := newData("c", "child", newLine("l", core.NewPoint(0, 0), core.NewPoint(1, 0)))
	child.JointPoints = []JointPoint{{Name: "j", ValueX: float(1), ValueY: float(2)}}

	require.NoError(t, d.DirectAssemble(child))
	assert.Equal(t, core.NewPoint(9, 18), child.FindLine("l").Start)
	assert.Equal(t, 10.0, *child.JointPoints[0].ValueX)
}

func TestDirectAssembleBaseLines(t *testing.T) {
	d := newData("root", "main",
		newLine("px", core.NewPoint(100, 0), core.NewPoint(100, 10)),
		newLine("py", core.NewPoint(0, 50), core.NewPoint(10, 50)),
	)
	d.BaseLines = []BaseLine{{Name: "x", IDX: "px"}, {Name: "y", IDY: "py"}}

	child := newData("c", "child",
		newLine("cx", core.NewPoint(5, 0), core.NewPoint(5, 10)),
		newLine("cy", core.NewPoint(0, 8), core.NewPoint(10, 8)),
	)
	child.BaseLines = []BaseLine{{Name: "x", IDX: "cx"}, {Name: "y", IDY: "cy"}}

	require.NoError(t, d.DirectAssemble(child))
	assert.Equal(t, core.NewPoint(100, 42), child.FindLine("cx").Start)
	assert.Equal(t, 50.0, child.FindLine("cy").Start.Y)
}

func TestDirectAssembleAll(t *testing.T) {
	d := newData("root", "main")
	d.JointPoints = []JointPoint{{Name: "j", ValueX: float(0), ValueY: float(0)}}

	good := newData("g", "good", newLine("l", core.NewPoint(0, 0), core.NewPoint(1, 0)))
	good.JointPoints = []JointPoint{{Name: "j", ValueX: float(3), ValueY: float(4)}}
	bad := newData("b", "bad", newLine("m", core.NewPoint(0, 0), core.NewPoint(1, 0)))

	err := d.DirectAssembleAll(bad, good)
	require.Error(t, err)

	var aerr *AssemblyError
	assert.True(t, errors.As(err, &aerr))
	assert.Contains(t, err.Error(), "bad")
	assert.NotContains(t, err.Error(), "good")

	// 失败的组件不影响其他组件
	assert.Len(t, d.Components.Data, 2)
	assert.Equal(t, core.NewPoint(-3, -4), good.FindLine("l").Start)

	assert.NoError(t, d.DirectAssembleAll(good))
	assert.Len(t, d.Components.Data, 2)
}
