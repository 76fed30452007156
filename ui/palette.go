package ui

import "image/color"

// Palette is the body-level style of the window: it follows the map theme.
type Palette struct {
	Bg      color.NRGBA
	Surface color.NRGBA
	Fg      color.NRGBA
	Muted   color.NRGBA
	// Accent marks the selected sidebar entry.
	Accent  color.NRGBA
	Active  color.NRGBA
}

var (
	DarkPalette = Palette{
		Bg:      color.NRGBA{R: 24, G: 24, B: 27, A: 255},
		Surface: color.NRGBA{R: 32, G: 32, B: 36, A: 245},
		Fg:      color.NRGBA{R: 232, G: 232, B: 232, A: 255},
		Muted:   color.NRGBA{R: 150, G: 150, B: 155, A: 255},
		Accent:  color.NRGBA{R: 230, G: 57, B: 70, A: 255},
		Active:  color.NRGBA{R: 60, G: 60, B: 66, A: 255},
	}
	LightPalette = Palette{
		Bg:      color.NRGBA{R: 250, G: 248, B: 244, A: 255},
		Surface: color.NRGBA{R: 255, G: 255, B: 255, A: 245},
		Fg:      color.NRGBA{R: 28, G: 28, B: 30, A: 255},
		Muted:   color.NRGBA{R: 110, G: 110, B: 115, A: 255},
		Accent:  color.NRGBA{R: 230, G: 57, B: 70, A: 255},
		Active:  color.NRGBA{R: 232, G: 228, B: 220, A: 255},
	}
)

func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette
	}
	return LightPalette
}
