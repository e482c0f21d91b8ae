package entities

import "math"

const (
	ColorByBlock = 0
	ColorByLayer = 256
)

// 1-9 号标准色
var standardColors = [10]uint32{
	0x000000,
	0xff0000, 0xffff00, 0x00ff00, 0x00ffff, 0x0000ff, 0xff00ff,
	0xffffff, 0x808080, 0xc0c0c0,
}

// 250-255 号灰度
var grayColors = [6]uint32{0x333333, 0x5b5b5b, 0x848484, 0xadadad, 0xd6d6d6, 0xffffff}

// 10-249 号色每 10 个一组，组内亮度依次递减，奇数位为半饱和度
var colorValues = [5]float64{255, 204, 153, 127, 76}

// Index2RGB 将 AutoCAD 颜色索引(ACI)转换为 0xRRGGBB
func Index2RGB(index int) uint32 {
	switch {
	case index < 0 || index > 255:
		return 0
	case index < 10:
		return standardColors[index]
	case index >= 250:
		return grayColors[index-250]
	}

	var (
		hue        = float64(index/10-1) * 15
		value      = colorValues[(index%10)/2]
		saturation = 1.0
	)
	if index%2 == 1 {
		saturation = 0.5
	}

	r, g, b := hsv2rgb(hue, saturation, value)

	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// RGB2Index 查找最接近的颜色索引（1-255）
func RGB2Index(rgb uint32) int {
	var (
		best     = 7
		bestDist = math.MaxFloat64
	)
	for i := 1; i <= 255; i++ {
		c := Index2RGB(i)
		dr := float64(int(c>>16&0xff) - int(rgb>>16&0xff))
		dg := float64(int(c>>8&0xff) - int(rgb>>8&0xff))
		db := float64(int(c&0xff) - int(rgb&0xff))
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func hsv2rgb(hue, saturation, value float64) (r, g, b uint8) {
	var (
		hi     = value
		lo     = value * (1 - saturation)
		sector = int(hue / 60)
		frac   = (hue - float64(sector)*60) / 60
		rising = lo + (hi-lo)*frac
		fall   = hi - (hi-lo)*frac
	)

	var rf, gf, bf float64
	switch sector % 6 {
	case 0:
		rf, gf, bf = hi, rising, lo
	case 1:
		rf, gf, bf = fall, hi, lo
	case 2:
		rf, gf, bf = lo, hi, rising
	case 3:
		rf, gf, bf = lo, fall, hi
	case 4:
		rf, gf, bf = rising, lo, hi
	default:
		rf, gf, bf = hi, lo, fall
	}

	return uint8(math.Floor(rf)), uint8(math.Floor(gf)), uint8(math.Floor(bf))
}
