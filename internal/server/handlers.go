package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/zooyer/cad"
	"github.com/zooyer/cad/dxf"
	"github.com/zooyer/cad/internal/config"
	"github.com/zooyer/cad/store"
)

type handler struct {
	store store.Store
	cfg   *config.Config
	locks idLocks
}

// fail 按错误类型选择状态码：校验与装配错误 422，找不到 404，其余 500
func fail(c fiber.Ctx, err error) error {
	var (
		validation *cad.ValidationError
		assembly   *cad.AssemblyError
		status     = http.StatusInternalServerError
		message    = err.Error()
	)
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &assembly):
		status, message = http.StatusUnprocessableEntity, assembly.Message
	case errors.As(err, &validation):
		status = http.StatusUnprocessableEntity
	default:
		log.Printf("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func badRequest(c fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func (h *handler) list(c fiber.Ctx) error {
	list, err := h.store.Load(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *handler) get(c fiber.Ctx) error {
	d, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(d)
}

func (h *handler) save(c fiber.Ctx) error {
	var items []json.RawMessage
	if err := json.Unmarshal(c.Body(), &items); err != nil {
		return badRequest(c, "invalid json")
	}

	var list = make([]*cad.Data, 0, len(items))
	for _, item := range items {
		d, err := cad.Decode(item)
		if err != nil {
			return fail(c, err)
		}
		list = append(list, d)
	}

	var ids = make([]string, len(list))
	for i, d := range list {
		ids[i] = d.ID
	}
	defer h.locks.lock(ids...)()

	saved, err := h.store.Save(c.Context(), list)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(saved)
}

// update 读取图纸，执行 fn 后保存并返回保存后的图纸，同一 id 的更新依次执行
func (h *handler) update(c fiber.Ctx, fn func(d *cad.Data) error) error {
	id := c.Params("id")
	defer h.locks.lock(id)()

	d, err := h.store.Get(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	if err = fn(d); err != nil {
		return fail(c, err)
	}

	saved, err := h.store.Save(c.Context(), []*cad.Data{d})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(saved[0])
}

func (h *handler) assemble(c fiber.Ctx) error {
	var conn cad.Connection
	if err := json.Unmarshal(c.Body(), &conn); err != nil {
		return badRequest(c, "invalid json")
	}
	return h.update(c, func(d *cad.Data) error {
		return d.AssembleComponents(conn)
	})
}

type directAssembleRequest struct {
	IDs []string `json:"ids"`
}

func (h *handler) directAssemble(c fiber.Ctx) error {
	var req directAssembleRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	if len(req.IDs) == 0 {
		return badRequest(c, "ids required")
	}

	return h.update(c, func(d *cad.Data) error {
		var children []*cad.Data
		for _, id := range req.IDs {
			child := d.FindComponent(id)
			if child == nil {
				var err error
				if child, err = h.store.Get(c.Context(), id); err != nil {
					return err
				}
			}
			children = append(children, child)
		}
		return d.DirectAssembleAll(children...)
	})
}

func (h *handler) removeConnection(c fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return badRequest(c, "invalid index")
	}
	return h.update(c, func(d *cad.Data) error {
		return d.RemoveConnection(index)
	})
}

type importResponse struct {
	Data   *cad.Data      `json:"data"`
	Raw    *cad.RawImport `json:"raw"`
	Report cad.Report     `json:"report"`
}

// importDXF 请求体为 DXF 文本，name 与 tolerance 由查询参数指定
func (h *handler) importDXF(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return badRequest(c, "empty body")
	}

	tolerance := h.cfg.Import.Tolerance
	if value := c.Query("tolerance"); value != "" {
		t, err := strconv.ParseFloat(value, 64)
		if err != nil || t <= 0 {
			return badRequest(c, "invalid tolerance")
		}
		tolerance = t
	}

	doc, err := dxf.Load(bytes.NewReader(c.Body()))
	if err != nil {
		return badRequest(c, "invalid dxf: "+err.Error())
	}

	data, raw := doc.Convert(c.Query("name"), tolerance)
	report := cad.ResolveAnnotations(data, raw.LineText)
	log.Printf("[HTTP] imported %d entities, %+v", data.Entities.Len(), report)

	return c.JSON(importResponse{Data: data, Raw: raw, Report: report})
}
