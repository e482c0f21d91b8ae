package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"
	"github.com/zooyer/golib/xos"

	"github.com/zooyer/cad"
	"github.com/zooyer/cad/dxf"
	"github.com/zooyer/cad/entities"
	"github.com/zooyer/cad/utils"
)

var infoGap float64

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "显示图纸的实体数量、范围、图层和分组",
	Long:  "支持 .dxf 与 .json 图纸。不指定文件时弹出文件选择框，结束后等待按键退出。",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().Float64Var(&infoGap, "gap", 0, "分组间距，默认使用配置中的装配间距")
	rootCmd.AddCommand(infoCmd)
}

func openData(filename string, tolerance float64) (*cad.Data, error) {
	if strings.EqualFold(filepath.Ext(filename), ".dxf") {
		doc, err := dxf.Open(filename)
		if err != nil {
			return nil, err
		}
		data, raw := doc.Convert(filepath.Base(filename), tolerance)
		cad.ResolveAnnotations(data, raw.LineText)
		return data, nil
	}
	return readData(filename)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var filename string
	if len(args) > 0 {
		filename = args[0]
	} else {
		defer xos.PauseExit()
		filename, err = zenity.SelectFile(
			zenity.Title("选择图纸"),
			zenity.FileFilters{{Name: "图纸", Patterns: []string{"*.dxf", "*.json"}}},
		)
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	data, err := openData(filename, cfg.Import.Tolerance)
	if err != nil {
		return err
	}

	var (
		all  = data.GetAllEntities(cad.ScopeAll, false)
		rect = all.Bounds()
		gap  = infoGap
	)
	if gap <= 0 {
		gap = cfg.Assemble.Gap
	}

	fmt.Println("图纸信息")
	fmt.Println("========")
	fmt.Printf("文件: %s\n", filename)
	fmt.Printf("名称: %s (%s)\n\n", data.Name, data.ID)

	fmt.Println("实体:")
	all.ForEachType(func(typeName string, list []entities.Entity) bool {
		fmt.Printf("  %-10s %d\n", typeName, len(list))
		return true
	})
	fmt.Printf("  组件 %d，关联 %d，装配记录 %d\n\n", len(data.Components.Data), len(data.Partners), len(data.Components.Connections))

	fmt.Println("范围:")
	fmt.Printf("  中心: (%.2f, %.2f)\n", rect.X, rect.Y)
	fmt.Printf("  尺寸: %.2f x %.2f\n\n", rect.Width, rect.Height)

	fmt.Println("图层:")
	for _, l := range data.Layers {
		fmt.Printf("  %-20s 颜色 %d\n", l.Name, l.ColorIndex)
	}
	fmt.Println()

	clusters := utils.Clusters(all, gap)
	fmt.Printf("分组 (间距 %.2f): %d\n", gap, len(clusters))
	for i, c := range clusters {
		fmt.Printf("  [%02d] (%.2f, %.2f) %.2f x %.2f 实体 %d %s\n",
			i+1, c.Rect.X, c.Rect.Y, c.Rect.Width, c.Rect.Height, c.Entities, strings.Join(c.Texts, " "))
	}

	return nil
}
