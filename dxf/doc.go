package dxf

import (
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/zooyer/cad/core"
	"github.com/zooyer/cad/entities"
)

// 图层未指定颜色时为 7（白）
const defaultLayerColor = 7

type DimStyle struct {
	Name       string
	Precision  int     // 对应组码 271 DIMDEC，显示的小数位数
	ExLimit    float64 // 对应组码 44 DIMEXE，标注线超出延伸线的长度
	Scale      float64 // 对应组码 40 DIMSCALE，全局比例，影响所有标注特征)
	TextHeight float64 // 对应组码 140 DIMTXT，标注文字高度
}

// FontSize 标注文字的实际高度
func (s *DimStyle) FontSize() float64 {
	return s.TextHeight * s.Scale
}

type Block struct {
	Name    string
	Base    core.Point
	Objects []Object
}

type Document struct {
	Layers    entities.Layers
	Blocks    map[string]*Block
	Objects   []Object
	DimStyles map[string]*DimStyle
}

// parseObjects 读取对象直到 end（ENDSEC 或 ENDBLK），未注册的类型直接跳过
func parseObjects(scanner *core.Scanner, end string) (objects []Object) {
	for {
		tag := scanner.LastTag
		if tag.Is(end) || tag.Is("ENDSEC") {
			break
		}
		if tag.Code == 0 {
			if obj := createObject(tag.AsString()); obj != nil {
				obj.Parse(scanner)
				objects = append(objects, obj)
				continue
			}
		}
		if !scanner.Next() {
			break
		}
	}
	return
}

func (d *Document) parseBlocks(scanner *core.Scanner) {
	for scanner.Next() {
		tag := scanner.LastTag
		if tag.Is("ENDSEC") {
			break
		}
		if !tag.Is("BLOCK") {
			continue
		}

		var block = new(Block)
		for scanner.Next() && scanner.LastTag.Code != 0 {
			switch t := scanner.LastTag; t.Code {
			case 2:
				block.Name = strings.ToUpper(t.AsString())
			case 10:
				block.Base.X = t.AsFloat()
			case 20:
				block.Base.Y = t.AsFloat()
			}
		}
		block.Objects = parseObjects(scanner, "ENDBLK")
		d.Blocks[block.Name] = block
		if scanner.LastTag.Is("ENDSEC") {
			break
		}
	}
}

func (d *Document) parseEntities(scanner *core.Scanner) {
	d.Objects = append(d.Objects, parseObjects(scanner, "ENDSEC")...)
}

func (d *Document) parseTables(scanner *core.Scanner) {
	for scanner.Next() {
		tag := scanner.LastTag
		if tag.Is("ENDSEC") {
			break
		}
		if tag.Is("TABLE") {
			scanner.Next()
			switch strings.ToUpper(scanner.LastTag.AsString()) {
			case "LAYER":
				d.parseLayers(scanner)
			case "DIMSTYLE":
				d.parseDimStyles(scanner)
			}
		}
	}
}

// parseTable 遍历表中名为 entry 的每一项，newEntry 为每一项返回处理组码的函数
func parseTable(scanner *core.Scanner, entry string, newEntry func() func(core.Tag)) {
	for {
		tag := scanner.LastTag
		if tag.Is("ENDTAB") {
			break
		}

		if tag.Is(entry) {
			var (
				ok    bool
				field = newEntry()
			)
			for {
				if ok = scanner.Next(); !ok || scanner.LastTag.Code == 0 {
					break
				}
				field(scanner.LastTag)
			}
			if !ok {
				return
			}
			continue
		}

		if !scanner.Next() {
			break
		}
	}
}

func (d *Document) parseLayers(scanner *core.Scanner) {
	parseTable(scanner, "LAYER", func() func(core.Tag) {
		layer := entities.NewLayer(uuid.NewString(), "", defaultLayerColor)
		d.Layers = append(d.Layers, layer)
		return func(t core.Tag) {
			switch t.Code {
			case 2:
				layer.Name = t.AsString()
			case 62: // 负数表示图层关闭
				layer.ColorIndex = max(t.AsInt(), -t.AsInt())
			}
		}
	})
}

func (d *Document) parseDimStyles(scanner *core.Scanner) {
	parseTable(scanner, "DIMSTYLE", func() func(core.Tag) {
		style := &DimStyle{
			Scale:      1.0, // 默认为 1.0，防止乘法归零
			TextHeight: 2.5,
		}
		return func(t core.Tag) {
			switch t.Code {
			case 2: // 样式名称
				style.Name = strings.ToUpper(t.AsString())
				d.DimStyles[style.Name] = style
			case 271: // 精度
				style.Precision = t.AsInt()
			case 44: // 标注线超出延伸线长度 (DIMEXE)
				style.ExLimit = t.AsFloat()
			case 40: // 全局标注比例 (DIMSCALE)
				if scale := t.AsFloat(); scale > 0 {
					style.Scale = scale
				}
			case 140: // 文字高度 (DIMTXT)
				style.TextHeight = t.AsFloat()
			}
		}
	})
}

// DimStyle 按名称查找标注样式（忽略大小写）
func (d *Document) DimStyle(name string) *DimStyle {
	return d.DimStyles[strings.ToUpper(name)]
}

func Open(filename string) (doc *Document, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return
	}

	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}()

	return Load(file)
}

func Load(reader io.Reader) (doc *Document, err error) {
	var (
		scanner  = core.NewScanner(reader)
		document = &Document{
			Blocks:    make(map[string]*Block),
			Objects:   make([]Object, 0, 1024),
			DimStyles: make(map[string]*DimStyle),
		}
	)

	for scanner.Next() {
		tag := scanner.LastTag
		if tag.Is("SECTION") {
			if !scanner.Next() {
				break
			}
			sectionName := strings.ToUpper(scanner.LastTag.AsString())
			switch sectionName {
			case "TABLES":
				document.parseTables(scanner)
			case "BLOCKS":
				document.parseBlocks(scanner)
			case "ENTITIES":
				document.parseEntities(scanner)
			}
		}
	}

	return document, scanner.Err()
}
