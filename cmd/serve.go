package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/zooyer/cad/internal/config"
	"github.com/zooyer/cad/internal/server"
	"github.com/zooyer/cad/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动图纸 HTTP 服务",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Storage.Driver == config.DriverSQLite {
		return store.OpenSQLite(context.Background(), cfg.Storage.Path)
	}
	return store.NewFileStore(cfg.Storage.Path)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	app := server.New(cfg, st)

	log.Printf("[CAD] starting on %s (store: %s %s)", cfg.Server.Addr, cfg.Storage.Driver, cfg.Storage.Path)
	return app.Listen(cfg.Server.Addr)
}
