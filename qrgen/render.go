package qrgen

import (
	"image"
	"image/color"
)

var palette = color.Palette{color.White, color.Black}

// render paints a module matrix (true = dark) onto a paletted image with
// size pixels per module and border modules of quiet zone on every side.
func render(modules [][]bool, size, border int) *image.Paletted {
	side := (len(modules) + 2*border) * size
	img := image.NewPaletted(image.Rect(0, 0, side, side), palette)

	for y, row := range modules {
		for x, dark := range row {
			if !dark {
				continue
			}
			x0, y0 := (x+border)*size, (y+border)*size
			for dy := 0; dy < size; dy++ {
				for dx := 0; dx < size; dx++ {
					img.SetColorIndex(x0+dx, y0+dy, 1)
				}
			}
		}
	}
	return img
}
