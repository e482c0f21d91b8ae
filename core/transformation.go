package core

// Flip 镜像参数
type Flip struct {
	Vertical   bool  `json:"vertical"`
	Horizontal bool  `json:"horizontal"`
	Anchor     Point `json:"anchor"`
}

// Rotate 旋转参数，Angle 为弧度
type Rotate struct {
	Angle  float64 `json:"angle"`
	Anchor Point   `json:"anchor"`
}

// Transformation 平移/镜像/旋转的组合，最终合成一个仿射矩阵作用于所有实体。
// 执行顺序：镜像 -> 旋转 -> 平移。
type Transformation struct {
	Translate Point  `json:"translate"`
	Flip      Flip   `json:"flip"`
	Rotate    Rotate `json:"rotate"`
}

func Translation(v Point) Transformation {
	return Transformation{Translate: v}
}

func Rotation(angle float64, anchor Point) Transformation {
	return Transformation{Rotate: Rotate{Angle: angle, Anchor: anchor}}
}

func Mirror(vertical, horizontal bool, anchor Point) Transformation {
	return Transformation{Flip: Flip{Vertical: vertical, Horizontal: horizontal, Anchor: anchor}}
}

// Matrix 合成变换矩阵
func (t Transformation) Matrix() Matrix {
	var (
		flip   = FlipMatrix(t.Flip.Vertical, t.Flip.Horizontal, t.Flip.Anchor)
		rotate = Identity()
	)
	if t.Rotate.Angle != 0 {
		rotate = RotateMatrix(t.Rotate.Angle, t.Rotate.Anchor)
	}

	return TranslateMatrix(t.Translate).Multiply(rotate).Multiply(flip)
}

func (t Transformation) IsIdentity() bool {
	return t.Matrix().IsIdentity()
}
