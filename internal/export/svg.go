// Package export writes seesaw snapshots and reports to SVG and JSON files.
package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/seesaw/internal/seesaw"
)

const (
	background = "#0a0a0a"
	stageFill  = "#18181b"
	plankFill  = "#b4b4b4"
	pivotFill  = "#525252"
	textFill   = "#e5e5e5"
)

// SnapshotToSVG draws the stage, the plank at its visual angle and every
// body in its palette color.
func SnapshotToSVG(snap seesaw.Snapshot, stageW, stageH float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, stageW, stageH, stageW, stageH, stageFill)

	pl := snap.Plank
	fmt.Fprintf(&sb, `<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>
`, pl.CenterX, pl.CenterY, pl.CenterX-16, pl.CenterY+40, pl.CenterX+16, pl.CenterY+40, pivotFill)
	fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="10" fill="%s" transform="rotate(%.2f %.1f %.1f)"/>
`, pl.CenterX-pl.HalfLength, pl.CenterY-5, pl.HalfLength*2, plankFill, pl.AngleDeg, pl.CenterX, pl.CenterY)

	for _, b := range snap.Bodies {
		opacity := 1.0
		if !b.Resting {
			opacity = 0.85
		}
		fmt.Fprintf(&sb, `<g><title>%d kg at %d px from center</title>
<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.2f"/>
<text x="%.1f" y="%.1f" font-family="monospace" font-size="11" fill="%s" text-anchor="middle" dominant-baseline="central">%dkg</text></g>
`, b.Weight, int(math.Round(b.Offset)), b.X, b.Y, b.Radius, html.EscapeString(b.Color), opacity, b.X, b.Y, textFill, b.Weight)
	}

	r := snap.Readout()
	fmt.Fprintf(&sb, `<text x="12" y="20" font-family="monospace" font-size="13" fill="%s">%s   %s   %s</text>
`, textFill, html.EscapeString(r.Left), html.EscapeString(r.Right), html.EscapeString(r.Tilt))

	sb.WriteString("</svg>")
	return sb.String()
}

// TiltToSVG plots a tilt series against a fixed [-limit, limit] range with
// a dashed zero line.
func TiltToSVG(tilts []float64, width, height int, limit float64, stroke string) string {
	if len(tilts) < 2 || limit <= 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="4 4"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background,
		float64(height)/2, width, float64(height)/2, pivotFill, stroke)

	for i, v := range tilts {
		x := float64(i) / float64(len(tilts)-1) * float64(width)
		y := float64(height)/2 - v/limit*float64(height)/2
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
