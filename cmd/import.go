package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zooyer/cad"
	"github.com/zooyer/cad/dxf"
)

var (
	importOutput    string
	importTexts     string
	importTolerance float64
)

var importCmd = &cobra.Command{
	Use:   "import <dxf>",
	Short: "把 DXF 转换为 JSON 图纸，并把标注绑定到直线",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "输出文件，默认与输入同名的 .json")
	importCmd.Flags().StringVar(&importTexts, "texts", "", "另存标注记录 (lineText/globalText) 的文件")
	importCmd.Flags().Float64Var(&importTolerance, "tolerance", 0, "标注与直线的匹配距离，默认使用配置")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tolerance := importTolerance
	if tolerance <= 0 {
		tolerance = cfg.Import.Tolerance
	}

	doc, err := dxf.Open(args[0])
	if err != nil {
		return err
	}

	data, raw := doc.Convert(filepath.Base(args[0]), tolerance)
	report := cad.ResolveAnnotations(data, raw.LineText)

	output := importOutput
	if output == "" {
		output = replaceExt(args[0], ".json")
	}
	if err = writeData(output, data); err != nil {
		return err
	}

	if importTexts != "" {
		texts, err := json.MarshalIndent(raw, "", "  ")
		if err != nil {
			return err
		}
		if err = os.WriteFile(importTexts, texts, 0644); err != nil {
			return err
		}
	}

	fmt.Printf("写入文件: %s\n", output)
	fmt.Printf("实体 %d，直线标注 %d，尺寸标注 %d，测量文字 %d，丢弃 %d，全局文字 %d\n",
		data.Entities.Len(), report.Lines, report.Dimensions, report.MTexts, report.Discarded, len(raw.GlobalText))
	return nil
}
