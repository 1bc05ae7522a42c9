package main

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// exportScale is pixels per scene unit in PNG exports.
const exportScale = 2.0

func (m *model) exportVisualTXT(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	canvas := m.getCanvas()
	if canvas == nil {
		return fmt.Errorf("no canvas available")
	}

	buf := m.getCurrentBuffer()
	width := m.width
	if width < 1 {
		width = 80
	}
	height := m.height - 1
	if height < 1 {
		height = 24
	}

	rendered := canvas.Render(width, height, buf.panX, buf.panY, m.config.CellWidth, m.config.CellHeight, nil, nil)
	for _, line := range rendered {
		fmt.Fprintln(file, line)
	}
	return nil
}

// bounds returns the scene rectangle covering every block and wire.
func (c *Canvas) bounds() (lo, hi Vec, ok bool) {
	grow := func(p Vec) {
		if !ok {
			lo, hi, ok = p, p, true
			return
		}
		lo = V(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y))
		hi = V(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y))
	}
	for _, b := range c.blocks {
		grow(b.Pos)
		grow(b.Pos.Add(b.Size))
	}
	for _, conn := range c.connections {
		for _, p := range conn.route {
			grow(p)
		}
	}
	return lo, hi, ok
}

func (c *Canvas) ExportToPNG(filename string) error {
	lo, hi, ok := c.bounds()
	if !ok {
		return fmt.Errorf("nothing to export")
	}

	padding := 20.0
	origin := lo.Sub(V(padding, padding))
	size := hi.Sub(lo).Add(V(2*padding, 2*padding))

	dc := gg.NewContext(int(size.X*exportScale), int(size.Y*exportScale))
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	toPx := func(p Vec) (float64, float64) {
		q := p.Sub(origin).Scale(exportScale)
		return q.X, q.Y
	}

	// Wires first so blocks cover any run that passes behind them.
	for _, conn := range c.connections {
		drawConnectionPNG(dc, conn, toPx)
	}
	for _, b := range c.blocks {
		drawBlockPNG(dc, b, toPx)
	}

	return dc.SavePNG(filename)
}

func drawConnectionPNG(dc *gg.Context, conn *Connection, toPx func(Vec) (float64, float64)) {
	route := conn.route
	dc.SetLineWidth(3)
	dc.SetColor(color.Black)
	for i := 0; i+1 < len(route); i++ {
		x1, y1 := toPx(route[i])
		x2, y2 := toPx(route[i+1])
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	// Dangling ends get a red marker.
	dc.SetColor(color.RGBA{R: 220, A: 255})
	if conn.endpoint1 == nil {
		x, y := toPx(route[0])
		dc.DrawRectangle(x-4, y-4, 8, 8)
		dc.Fill()
	}
	if conn.endpoint2 == nil {
		x, y := toPx(route[len(route)-1])
		dc.DrawRectangle(x-4, y-4, 8, 8)
		dc.Fill()
	}
}

func drawBlockPNG(dc *gg.Context, b *Block, toPx func(Vec) (float64, float64)) {
	x, y := toPx(b.Pos)
	w, h := b.Size.X*exportScale, b.Size.Y*exportScale

	dc.SetColor(color.RGBA{R: 235, G: 235, B: 235, A: 255})
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()
	dc.SetLineWidth(1.5)
	dc.SetColor(color.Black)
	dc.DrawRectangle(x, y, w, h)
	dc.Stroke()
	dc.DrawStringAnchored(b.Name, x+w/2, y+14, 0.5, 0.5)

	for _, ep := range b.Endpoints() {
		ex, ey := toPx(ep.Pos())
		tip := ep.DirectionVector().Scale(8)
		dc.MoveTo(ex, ey-6)
		dc.LineTo(ex+tip.X, ey)
		dc.LineTo(ex, ey+6)
		dc.ClosePath()
		if ep.IsConnected() {
			dc.Fill()
		} else {
			dc.Stroke()
		}

		if ep.Direction() == DirLeft {
			dc.DrawStringAnchored(ep.Name, ex+6, ey, 0, 0.35)
		} else {
			dc.DrawStringAnchored(ep.Name, ex-6, ey, 1, 0.35)
		}
	}
}
