package tui

import "math"

// viewport maps stage pixels onto canvas dots, keeping the aspect ratio and
// centering the stage.
type viewport struct {
	scale      float64
	offX, offY float64
}

func fit(c *Canvas, stageW, stageH float64) viewport {
	dw, dh := float64(c.DotWidth()), float64(c.DotHeight())
	scale := math.Min(dw/stageW, dh/stageH)
	return viewport{
		scale: scale,
		offX:  (dw - stageW*scale) / 2,
		offY:  (dh - stageH*scale) / 2,
	}
}

func (v viewport) dot(x, y float64) (int, int) {
	return int(math.Round(v.offX + x*v.scale)), int(math.Round(v.offY + y*v.scale))
}

func (v viewport) length(px float64) int {
	n := int(math.Round(px * v.scale))
	if n < 1 {
		return 1
	}
	return n
}

// stageX returns the stage x under the middle of a canvas column.
func (v viewport) stageX(col int) float64 {
	return (float64(col*2) + 1 - v.offX) / v.scale
}
