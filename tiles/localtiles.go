package tiles

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LocalTileProvider draws placeholder tiles labelled with their z/x/y.
type LocalTileProvider struct {
	Background color.RGBA
	Border     color.RGBA
	Text       color.RGBA
	TextBg     color.RGBA
}

// NewLocalTileProvider returns placeholder tiles matching the light or dark base map.
func NewLocalTileProvider(dark bool) *LocalTileProvider {
	if dark {
		return &LocalTileProvider{
			Background: color.RGBA{38, 38, 38, 255},
			Border:     color.RGBA{70, 70, 70, 255},
			Text:       color.RGBA{200, 200, 200, 255},
			TextBg:     color.RGBA{20, 20, 20, 220},
		}
	}
	return &LocalTileProvider{
		Background: color.RGBA{242, 239, 233, 255},
		Border:     color.RGBA{200, 200, 200, 255},
		Text:       color.RGBA{60, 60, 60, 255},
		TextBg:     color.RGBA{255, 255, 255, 220},
	}
}

func (p *LocalTileProvider) GetTile(_ context.Context, tile Tile) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	draw.Draw(img, img.Bounds(), &image.Uniform{p.Background}, image.Point{}, draw.Src)

	p.drawText(img, tile)

	borders := []image.Rectangle{
		image.Rect(0, 0, TileSize, 1),
		image.Rect(0, TileSize-1, TileSize, TileSize),
		image.Rect(0, 0, 1, TileSize),
		image.Rect(TileSize-1, 0, TileSize, TileSize),
	}
	for _, rect := range borders {
		draw.Draw(img, rect, &image.Uniform{p.Border}, image.Point{}, draw.Src)
	}
	return img, nil
}

func (p *LocalTileProvider) drawText(img *image.RGBA, tile Tile) {
	text := fmt.Sprintf("%d/%d/%d", tile.Zoom, tile.X, tile.Y)

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(p.Text),
		Face: face,
	}

	textWidth := d.MeasureString(text).Round()
	textHeight := face.Metrics().Height.Round()
	mid := TileSize / 2

	padding := 10
	textBgRect := image.Rect(
		mid-textWidth/2-padding,
		mid-textHeight/2-padding,
		mid+textWidth/2+padding,
		mid+textHeight/2+padding,
	)
	draw.Draw(img, textBgRect, &image.Uniform{p.TextBg}, image.Point{}, draw.Over)

	d.Dot = fixed.Point26_6{
		X: fixed.I(mid - textWidth/2),
		Y: fixed.I(mid + textHeight/2 - face.Descent),
	}
	d.DrawString(text)
}
