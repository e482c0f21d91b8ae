package entities

import "github.com/zooyer/cad/core"

const defaultFontSize = 16

// MText 多行文字，Anchor 为 0-1 的相对锚点。
// Line/Distance 仅在作为线段测量标注时使用。
type MText struct {
	BaseEntity
	Insert   core.Point `json:"insert"`
	FontSize float64    `json:"font_size"`
	Text     string     `json:"text"`
	Anchor   core.Point `json:"anchor"`
	Line     string     `json:"line,omitempty"`
	Distance float64    `json:"distance,omitempty"`
}

func init() {
	Register(TypeMText, func() Entity { return &MText{FontSize: defaultFontSize} })
}

func NewMText(insert core.Point, text string, fontSize float64) *MText {
	t := CreateEntity(TypeMText).(*MText)
	t.Insert, t.Text = insert, text
	if fontSize != 0 {
		t.FontSize = fontSize
	}
	return t
}

func (t *MText) Transform(tr core.Transformation) {
	t.Insert = tr.Matrix().Apply(t.Insert)
}

// ExpandBox 文字不参与包围盒计算
func (t *MText) ExpandBox(*core.BBox) {}
