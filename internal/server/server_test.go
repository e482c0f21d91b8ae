package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/cad/internal/config"
	"github.com/zooyer/cad/store"
)

const twoParts = `[
  {"id": "a", "name": "A", "entities": {"line": {
    "la": {"id": "la", "type": "LINE", "layer": "0", "color": 7, "start": [0, 0], "end": [10, 0]}
  }}, "components": {"data": [
    {"id": "b", "name": "B", "entities": {"line": {
      "lb": {"id": "lb", "type": "LINE", "layer": "0", "color": 7, "start": [0, 20], "end": [10, 20]}
    }}}
  ]}},
  {"id": "c", "name": "C", "jointPoints": [{"name": "p", "valueX": 5, "valueY": 5}]}
]`

func newApp(t *testing.T) (*fiber.App, store.Store) {
	t.Helper()
	st, err := store.NewFileStore(filepath.Join(t.TempDir(), "cads.json"))
	require.NoError(t, err)
	return New(config.Default(), st), st
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestHealth(t *testing.T) {
	app, _ := newApp(t)
	status, body := do(t, app, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status": "alive"}`, string(body))
}

func TestSaveAndGet(t *testing.T) {
	app, _ := newApp(t)

	status, body := do(t, app, http.MethodPut, "/cads", twoParts)
	require.Equal(t, http.StatusOK, status, string(body))

	var saved []map[string]any
	require.NoError(t, json.Unmarshal(body, &saved))
	require.Len(t, saved, 2)
	assert.Equal(t, "a", saved[0]["id"])
	assert.Equal(t, []any{map[string]any{"name": "p", "valueX": 5.0, "valueY": 5.0}}, saved[1]["jointPoints"])

	status, body = do(t, app, http.MethodGet, "/cads", "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &saved))
	assert.Len(t, saved, 2)

	status, body = do(t, app, http.MethodGet, "/cads/a", "")
	require.Equal(t, http.StatusOK, status)
	var one map[string]any
	require.NoError(t, json.Unmarshal(body, &one))
	assert.Equal(t, "A", one["name"])

	status, _ = do(t, app, http.MethodGet, "/cads/missing", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodPut, "/cads", "{")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPut, "/cads", `[{"entities": {"line": {"x": {"type": "SPLINE"}}}}]`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestAssemble(t *testing.T) {
	app, st := newApp(t)
	status, _ := do(t, app, http.MethodPut, "/cads", twoParts)
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, app, http.MethodPost, "/cads/a/assemble",
		`{"ids": ["a", "b"], "lines": ["la", "lb"], "space": "5", "position": "absolute"}`)
	require.Equal(t, http.StatusOK, status, string(body))

	d, err := st.Get(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, d.Components.Connections, 1)
	lb := d.FindLine("lb")
	require.NotNil(t, lb)
	// 平移到 la 上方 5 处
	assert.InDelta(t, 5, lb.Start.Y, 1e-6)
	assert.InDelta(t, 5, lb.End.Y, 1e-6)
	assert.InDelta(t, 0, lb.Start.X, 1e-6)

	status, body = do(t, app, http.MethodPost, "/cads/a/assemble",
		`{"ids": ["a", "b"], "lines": ["la", "missing"], "position": "absolute"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(body), "error")

	status, _ = do(t, app, http.MethodDelete, "/cads/a/connections/5", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = do(t, app, http.MethodDelete, "/cads/a/connections/x", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodDelete, "/cads/a/connections/0", "")
	assert.Equal(t, http.StatusOK, status)

	d, err = st.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Empty(t, d.Components.Connections)
}

func TestDirectAssemble(t *testing.T) {
	app, st := newApp(t)
	parts := `[
	  {"id": "p", "jointPoints": [{"name": "j", "valueX": 10, "valueY": 10}]},
	  {"id": "q", "jointPoints": [{"name": "j", "valueX": 1, "valueY": 2}]}
	]`
	status, _ := do(t, app, http.MethodPut, "/cads", parts)
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodPost, "/cads/p/direct-assemble", `{"ids": []}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/cads/p/direct-assemble", `{"ids": ["nope"]}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, body := do(t, app, http.MethodPost, "/cads/p/direct-assemble", `{"ids": ["q"]}`)
	require.Equal(t, http.StatusOK, status, string(body))

	d, err := st.Get(context.Background(), "p")
	require.NoError(t, err)
	require.Len(t, d.Components.Data, 1)
	q := d.Components.Data[0]
	require.Len(t, q.JointPoints, 1)
	assert.InDelta(t, 10, *q.JointPoints[0].ValueX, 1e-9)
	assert.InDelta(t, 10, *q.JointPoints[0].ValueY, 1e-9)
}

func TestImport(t *testing.T) {
	app, _ := newApp(t)
	dxfText := strings.Join([]string{
		"0", "SECTION", "2", "ENTITIES",
		"0", "LINE", "10", "0", "20", "0", "11", "100", "21", "0",
		"0", "TEXT", "10", "50", "20", "3", "40", "2", "1", "长",
		"0", "ENDSEC",
		"0", "EOF",
	}, "\n") + "\n"

	status, body := do(t, app, http.MethodPost, "/import?name=part", dxfText)
	require.Equal(t, http.StatusOK, status, string(body))

	var resp struct {
		Data struct {
			Name     string `json:"name"`
			Entities struct {
				Line map[string]struct {
					Mingzi string `json:"mingzi"`
				} `json:"line"`
			} `json:"entities"`
		} `json:"data"`
		Raw struct {
			LineText []any `json:"lineText"`
		} `json:"raw"`
		Report struct {
			Lines int `json:"lines"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "part", resp.Data.Name)
	assert.Len(t, resp.Raw.LineText, 1)
	assert.Equal(t, 1, resp.Report.Lines)
	for _, line := range resp.Data.Entities.Line {
		assert.Equal(t, "长", line.Mingzi)
	}

	status, _ = do(t, app, http.MethodPost, "/import", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/import?tolerance=-1", dxfText)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/import", "abc\nLINE\n")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestConcurrentAssemble(t *testing.T) {
	app, st := newApp(t)
	status, _ := do(t, app, http.MethodPut, "/cads", twoParts)
	require.Equal(t, http.StatusOK, status)

	const n = 8
	var (
		wg       sync.WaitGroup
		statuses = make([]int, n)
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/cads/a/assemble",
				strings.NewReader(`{"ids": ["a", "b"], "lines": ["la", "lb"], "space": "5", "position": "absolute"}`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			if err != nil {
				return
			}
			resp.Body.Close()
			statuses[i] = resp.StatusCode
		}()
	}
	wg.Wait()

	for _, status := range statuses {
		assert.Equal(t, http.StatusOK, status)
	}

	// 同一图纸的并发更新不会互相覆盖
	d, err := st.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, d.Components.Connections, n)
}
