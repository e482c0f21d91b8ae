package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zooyer/cad"
	"github.com/zooyer/cad/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cad",
	Short: "图纸导入、装配与导出工具",
	Long: `cad 读取 DXF 图纸并转换为 JSON 图纸数据，支持组件装配、
标注解析、导出 DXF，以及以 HTTP 服务的方式读写图纸。`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "cad.yaml", "配置文件")
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func readData(filename string) (*cad.Data, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return cad.Decode(data)
}

func writeData(filename string, d *cad.Data) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// replaceExt 替换文件扩展名
func replaceExt(filename, ext string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ext
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
