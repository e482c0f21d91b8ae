package server

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/zooyer/cad/internal/config"
	"github.com/zooyer/cad/store"
)

// New 创建 HTTP 服务，所有图纸都通过 st 读写
func New(cfg *config.Config, st store.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		AppName:      "CAD Service",
		BodyLimit:    64 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[HTTP] ${time} ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	h := &handler{store: st, cfg: cfg}

	app.Get("/cads", h.list)
	app.Get("/cads/:id", h.get)
	app.Put("/cads", h.save)
	app.Post("/cads/:id/assemble", h.assemble)
	app.Post("/cads/:id/direct-assemble", h.directAssemble)
	app.Delete("/cads/:id/connections/:index", h.removeConnection)
	app.Post("/import", h.importDXF)

	return app
}
