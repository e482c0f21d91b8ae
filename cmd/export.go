package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zooyer/cad/dxf"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <json>",
	Short: "把 JSON 图纸（含组件与关联图纸）导出为 DXF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readData(args[0])
		if err != nil {
			return err
		}

		output := exportOutput
		if output == "" {
			output = replaceExt(args[0], ".dxf")
		}
		if err = dxf.Save(output, data); err != nil {
			return err
		}

		fmt.Println("写入文件:", output)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "输出文件，默认与输入同名的 .dxf")
	rootCmd.AddCommand(exportCmd)
}
