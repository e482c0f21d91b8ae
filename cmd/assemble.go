package main

import (
	"errors"
	"fmt"

	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"

	"github.com/zooyer/cad"
)

var (
	assembleConn   cad.Connection
	assembleOutput string
	assembleGUI    bool
)

var assembleCmd = &cobra.Command{
	Use:   "assemble <json>",
	Short: "按装配方式移动组件，结果追加到装配记录",
	Long: `absolute 需要两条线：基准线与目标线；relative 需要三条线：两条平行的基准线与目标线。
space 支持加减表达式，relative 时为 0-100 的百分比。`,
	Args: cobra.ExactArgs(1),
	RunE: runAssemble,
}

func init() {
	flags := assembleCmd.Flags()
	flags.StringSliceVar(&assembleConn.IDs, "ids", nil, "基准组件与目标组件的 id")
	flags.StringSliceVar(&assembleConn.Names, "names", nil, "基准组件与目标组件的名称")
	flags.StringSliceVar(&assembleConn.Lines, "lines", nil, "参与装配的直线 id")
	flags.StringVar(&assembleConn.Space, "space", "0", "间距")
	flags.StringVar(&assembleConn.Position, "position", cad.PositionAbsolute, "装配方式 absolute|relative")
	flags.StringVarP(&assembleOutput, "output", "o", "", "输出文件，默认覆盖输入")
	flags.BoolVar(&assembleGUI, "gui", false, "失败时弹出错误对话框")
	_ = assembleCmd.MarkFlagRequired("lines")
	rootCmd.AddCommand(assembleCmd)
}

func runAssemble(cmd *cobra.Command, args []string) (err error) {
	if assembleGUI {
		defer func() {
			if err == nil {
				return
			}
			message := err.Error()
			var assembly *cad.AssemblyError
			if errors.As(err, &assembly) {
				message = assembly.Message
			}
			_ = zenity.Error(message, zenity.Title("装配失败"))
		}()
	}

	data, err := readData(args[0])
	if err != nil {
		return err
	}
	if err = data.AssembleComponents(assembleConn); err != nil {
		return err
	}

	output := assembleOutput
	if output == "" {
		output = args[0]
	}
	if err = writeData(output, data); err != nil {
		return err
	}

	conn := data.Components.Connections[len(data.Components.Connections)-1]
	fmt.Printf("装配完成: %s -> %s，偏移 (%.2f, %.2f)\n", conn.Names[1], conn.Names[0], conn.Offset.X, conn.Offset.Y)
	return nil
}
