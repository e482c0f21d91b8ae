package cad

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/cad/core"
	"github.com/zooyer/cad/entities"
)

const sample = `{
	"id": "root",
	"name": "main",
	"type": "door",
	"layers": {"L1": {"id": "L1", "color": 1, "name": "wall"}},
	"entities": {
		"line": {"l1": {"id": "l1", "type": "LINE", "layer": "wall", "color": 256, "start": [0, 0], "end": [10, 0], "mingzi": "w", "qujian": "", "gongshi": ""}},
		"circle": {"c1": {"id": "c1", "type": "CIRCLE", "layer": "0", "color": 1, "center": [5, 5], "radius": 1}},
		"arc": {}, "mtext": {}, "dimension": {}, "hatch": {}
	},
	"conditions": ["a", "b"],
	"options": [{"size": "10"}, {"color": "red"}],
	"baseLines": [{"name": "b1", "idX": "l1", "idY": "", "valueX": null, "valueY": null}],
	"jointPoints": [{"name": "j1", "valueX": 1, "valueY": 2}],
	"parent": "",
	"partners": [{"id": "p1", "name": "partner", "entities": {"line": {"pl": {"id": "pl", "type": "LINE", "start": [0, 0], "end": [0, 5]}}}}],
	"components": {
		"data": [{"id": "k1", "name": "child", "entities": {"line": {"kl": {"id": "kl", "type": "LINE", "start": [20, 0], "end": [30, 0]}}}}],
		"connections": [{"ids": ["root", "k1"], "names": ["main", "child"], "lines": ["l1", "kl"], "space": "0", "position": "absolute", "axis": "y", "offset": {"x": 1, "y": 2}}]
	}
}`

func newLine(id string, start, end core.Point) *entities.Line {
	l := entities.NewLine(start, end)
	l.Handle = id
	return l
}

func newData(id, name string, es ...entities.Entity) *Data {
	return &Data{ID: id, Name: name, Entities: entities.New().Add(es...), Visible: true}
}

func exportJSON(t *testing.T, d *Data) string {
	t.Helper()
	data, err := json.Marshal(d)
	require.NoError(t, err)
	return string(data)
}

func TestDecodeRoundTrip(t *testing.T) {
	d, err := Decode([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "root", d.ID)
	assert.Equal(t, Options{{"size", "10"}, {"color", "red"}}, d.Options)
	assert.Len(t, d.Partners, 1)
	assert.Len(t, d.Components.Data, 1)
	assert.Equal(t, "wall", d.Layers[0].Name)
	assert.True(t, d.Visible)

	first := exportJSON(t, d)

	clone, err := d.Clone()
	require.NoError(t, err)
	assert.Equal(t, first, exportJSON(t, clone))

	again, err := Decode([]byte(first))
	require.NoError(t, err)
	assert.Equal(t, first, exportJSON(t, again))
}

func TestDecodeInvalid(t *testing.T) {
	var verr *ValidationError

	_, err := Decode([]byte(`[1]`))
	assert.True(t, errors.As(err, &verr))

	_, err = New(nil)
	assert.True(t, errors.As(err, &verr))

	_, err = Decode([]byte(`{"entities": {"line": {"x": {"type": "UNKNOWN"}}}}`))
	assert.True(t, errors.As(err, &verr))

	_, err = Decode([]byte(`{"partners": [{"entities": {"arc": {"x": {"type": "BAD"}}}}]}`))
	assert.True(t, errors.As(err, &verr))
}

func TestDecodeDefaults(t *testing.T) {
	d, err := Decode([]byte(`{"options": {"a": "1", "b": 2}}`))
	require.NoError(t, err)

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, Options{{"a", "1"}, {"b", "2"}}, d.Options)
	assert.Equal(t, 0, d.Entities.Len())

	raw, err := d.Export()
	require.NoError(t, err)
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"options":[{"a":"1"},{"b":"2"}]`)
	assert.Contains(t, string(data), `"partners":[]`)
	assert.Contains(t, string(data), `"line":{}`)
}

func TestFindEntity(t *testing.T) {
	d, err := Decode([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "l1", d.FindEntity("l1").ID())
	assert.Equal(t, "pl", d.FindEntity("pl").ID())
	assert.Equal(t, "kl", d.FindEntity("kl").ID())
	assert.Nil(t, d.FindEntity("missing"))

	assert.Same(t, d, d.FindOwner("l1"))
	assert.Same(t, d.Partners[0], d.FindOwner("pl"))
	assert.Same(t, d.Components.Data[0], d.FindOwner("kl"))

	assert.NotNil(t, d.FindLine("l1"))
	assert.Nil(t, d.FindLine("c1"))
}

func TestGetAllEntities(t *testing.T) {
	d, err := Decode([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, 4, d.GetAllEntities(ScopeAll, true).Len())
	assert.Equal(t, 2, d.GetAllEntities(ScopeSelf, true).Len())
	assert.Equal(t, 1, d.GetAllEntities(ScopePartners, true).Len())
	assert.Equal(t, 3, d.GetAllEntities(ScopeSelf|ScopeComponents, true).Len())

	d.Partners[0].Visible = false
	assert.Equal(t, 3, d.GetAllEntities(ScopeAll, true).Len())
	assert.Equal(t, 4, d.GetAllEntities(ScopeAll, false).Len())
}

func TestTransform(t *testing.T) {
	d, err := Decode([]byte(sample))
	require.NoError(t, err)
	d.UpdateBaseLines()
	require.NotNil(t, d.BaseLines[0].ValueX)
	require.Nil(t, d.BaseLines[0].ValueY)

	d.Transform(core.Translation(core.NewPoint(3, 4)))

	line := d.FindLine("l1")
	assert.Equal(t, core.NewPoint(3, 4), line.Start)
	assert.Equal(t, 3.0, *d.BaseLines[0].ValueX)
	assert.Nil(t, d.BaseLines[0].ValueY)
	assert.Equal(t, 4.0, *d.JointPoints[0].ValueX)
	assert.Equal(t, 6.0, *d.JointPoints[0].ValueY)

	// partners 与 components 不随之变换
	assert.Equal(t, core.Point{}, d.FindLine("pl").Start)
	assert.Equal(t, core.NewPoint(20, 0), d.FindLine("kl").Start)
}

func TestMerge(t *testing.T) {
	a, err := Decode([]byte(sample))
	require.NoError(t, err)
	b, err := Decode([]byte(sample))
	require.NoError(t, err)

	b.Conditions = []string{"b", "c"}
	b.Options = Options{{"size", "20"}, {"new", "x"}}

	a.Merge(b)
	assert.Equal(t, []string{"a", "b", "c"}, a.Conditions)
	assert.Equal(t, Options{{"size", "20"}, {"color", "red"}, {"new", "x"}}, a.Options)
	assert.Len(t, a.Layers, 2)
	assert.Equal(t, 4, a.Entities.Len())
	assert.Len(t, a.Partners, 1)
	assert.Len(t, a.Components.Data, 1)
	assert.Len(t, a.Components.Connections, 1)
	assert.Len(t, a.JointPoints, 1)
}

func TestAddComponent(t *testing.T) {
	d := newData("root", "main", newLine("a", core.NewPoint(0, 0), core.NewPoint(10, 10)))
	c := newData("c", "child", newLine("b", core.NewPoint(100, 100), core.NewPoint(104, 102)))

	d.AddComponent(c)
	require.Len(t, d.Components.Data, 1)
	assert.Equal(t, "root", c.Parent)

	// 新组件位于右侧，间距 15，垂直居中对齐
	rect := c.Entities.Bounds()
	assert.InDelta(t, 10+15+2, rect.X, 1e-9)
	assert.InDelta(t, 5, rect.Y, 1e-9)

	replacement := newData("c2", "child", newLine("x", core.NewPoint(0, 0), core.NewPoint(1, 0)))
	d.AddComponent(replacement)
	require.Len(t, d.Components.Data, 1)
	assert.Same(t, replacement, d.Components.Data[0])
}

func TestRemoveConnection(t *testing.T) {
	d, err := Decode([]byte(sample))
	require.NoError(t, err)

	var aerr *AssemblyError
	assert.True(t, errors.As(d.RemoveConnection(3), &aerr))
	require.NoError(t, d.RemoveConnection(0))
	assert.Empty(t, d.Components.Connections)
}
