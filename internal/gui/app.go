// Package gui is the raylib window front end.
package gui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/seesaw/internal/driver"
	"github.com/san-kum/seesaw/internal/seesaw"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColStage   = rl.NewColor(24, 24, 27, 255)
	ColPlank   = rl.NewColor(180, 180, 180, 255)
	ColPivot   = rl.NewColor(82, 82, 82, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

const (
	panelWidth  = 320
	plankHeight = 10
	logLines    = 12
)

type Options struct {
	StageWidth  float64
	StageHeight float64
	FrameRate   int
}

type App struct {
	drv    *driver.Driver
	opts   Options
	colors map[string]rl.Color
	tilt   []float64
}

func NewApp(drv *driver.Driver, opts Options) *App {
	p := drv.State().Params()
	if opts.StageWidth <= 0 {
		opts.StageWidth = p.CenterX * 2
	}
	if opts.StageHeight <= 0 {
		opts.StageHeight = p.CenterY + 100
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = 60
	}
	a := &App{drv: drv, opts: opts, colors: make(map[string]rl.Color)}
	drv.AddRenderer(driver.RendererFunc(a.record))
	return a
}

// Run opens the window and blocks until it is closed.
func Run(drv *driver.Driver, opts Options) {
	a := NewApp(drv, opts)
	rl.InitWindow(int32(a.opts.StageWidth)+panelWidth, int32(a.opts.StageHeight), "seesaw")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(a.opts.FrameRate))
	rl.SetExitKey(0)

	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) record(snap seesaw.Snapshot) error {
	a.tilt = append(a.tilt, snap.VisualAngle)
	if len(a.tilt) > 200 {
		a.tilt = a.tilt[1:]
	}
	return nil
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyR) {
		a.drv.Reset()
	}
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		pos := rl.GetMousePosition()
		if float64(pos.X) <= a.opts.StageWidth {
			a.drv.Spawn(float64(pos.X))
		}
	}
	a.drv.Frame(time.Now())
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	snap := a.drv.Snapshot()
	rl.DrawRectangle(0, 0, int32(a.opts.StageWidth), int32(a.opts.StageHeight), ColStage)
	a.drawPlank(snap.Plank)
	for _, b := range snap.Bodies {
		a.drawBody(b)
	}
	a.drawHUD(snap)

	rl.EndDrawing()
}

func (a *App) drawPlank(pl seesaw.Plank) {
	cx, cy := float32(pl.CenterX), float32(pl.CenterY)
	rl.DrawTriangle(
		rl.NewVector2(cx, cy),
		rl.NewVector2(cx-16, cy+40),
		rl.NewVector2(cx+16, cy+40),
		ColPivot)

	rect := rl.NewRectangle(cx, cy, float32(pl.HalfLength*2), plankHeight)
	origin := rl.NewVector2(float32(pl.HalfLength), plankHeight/2)
	rl.DrawRectanglePro(rect, origin, float32(pl.AngleDeg), ColPlank)
}

func (a *App) drawBody(b seesaw.Body) {
	col := a.color(b.Color)
	if !b.Resting {
		col = rl.Fade(col, 0.85)
	}
	x, y := int32(math.Round(b.X)), int32(math.Round(b.Y))
	rl.DrawCircle(x, y, float32(b.Radius), col)

	label := fmt.Sprintf("%dkg", b.Weight)
	size := int32(12)
	w := rl.MeasureText(label, size)
	rl.DrawText(label, x-w/2, y-size/2, size, ColSelect)
}

func (a *App) drawHUD(snap seesaw.Snapshot) {
	x := int32(a.opts.StageWidth) + 20
	rl.DrawText("seesaw", x, 20, 24, ColSelect)

	r := snap.Readout()
	rl.DrawText(r.Left, x, 64, 16, ColText)
	rl.DrawText(r.Right, x, 86, 16, ColText)
	rl.DrawText(r.Tilt, x, 108, 16, ColText)
	rl.DrawText(fmt.Sprintf("Next: %d kg", a.drv.NextWeight()), x, 136, 18, ColSelect)

	a.drawTiltGraph(x, 170, panelWidth-40, 60)

	y := int32(250)
	for i, e := range a.drv.Entries() {
		if i == logLines {
			break
		}
		rl.DrawText(e, x, y, 10, ColText)
		y += 14
	}

	rl.DrawText("[CLICK] DROP  [R] RESET  [ESC] QUIT", x, int32(a.opts.StageHeight)-24, 10, ColTextDim)
}

func (a *App) drawTiltGraph(x, y, w, h int32) {
	rl.DrawRectangleLines(x, y, w, h, ColTextDim)
	if len(a.tilt) < 2 {
		return
	}
	limit := a.drv.State().Params().MaxAngle
	points := make([]rl.Vector2, len(a.tilt))
	for i, v := range a.tilt {
		px := float32(x) + float32(i)/float32(len(a.tilt)-1)*float32(w)
		py := float32(y) + float32(h)/2 - float32(v/limit)*float32(h)/2
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColPlank)
}

func (a *App) color(hex string) rl.Color {
	if c, ok := a.colors[hex]; ok {
		return c
	}
	c := parseHex(hex)
	a.colors[hex] = c
	return c
}

// parseHex reads #rrggbb. Anything else is drawn white.
func parseHex(s string) rl.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return ColSelect
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return ColSelect
	}
	return rl.NewColor(uint8(v>>16), uint8(v>>8), uint8(v), 255)
}
