package capture

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const crosshairRadius = 12

// markCursor draws a crosshair at p (screen points) and labels it with its
// screen coordinates. ratio converts points to image pixels.
func markCursor(img *image.RGBA, p Point, ratio float64) {
	b := img.Bounds()
	cx := b.Min.X + int(p.X*ratio)
	cy := b.Min.Y + int(p.Y*ratio)

	for d := -crosshairRadius; d <= crosshairRadius; d++ {
		setPixel(img, cx+d, cy, markerColor)
		setPixel(img, cx, cy+d, markerColor)
	}

	label := fmt.Sprintf("(%d,%d)", int(p.X), int(p.Y))
	// Face7x13 glyphs are 7px wide; keep the label inside the image.
	x := cx + crosshairRadius + 2
	if x+len(label)*7 > b.Max.X {
		x = cx - crosshairRadius - 2 - len(label)*7
	}
	y := cy - crosshairRadius
	if y-13 < b.Min.Y {
		y = cy + crosshairRadius + 13
	}
	drawLabel(img, label, x, y)
}

func setPixel(img *image.RGBA, x, y int, c color.Color) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}

// drawLabel draws text with a one-pixel outline; (x, y) is the baseline
// origin.
func drawLabel(img *image.RGBA, text string, x, y int) {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawString(img, text, x+dx, y+dy, outlineColor)
		}
	}
	drawString(img, text, x, y, labelColor)
}

func drawString(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
