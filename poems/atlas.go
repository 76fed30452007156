package poems

import (
	"image/color"
	"math"
	"math/big"
	"strings"
)

// AllCities is the sidebar entry that shows the whole extent.
const AllCities = "all"

// Viewport is a map centre and zoom level.
type Viewport struct {
	Lat, Lng float64
	Zoom     float64
}

var cityViewports = map[string]Viewport{
	"Bangalore, IN": {Lat: 12.9716, Lng: 77.5946, Zoom: 13},
	"Kalga, IN":     {Lat: 31.995019, Lng: 77.450985, Zoom: 15},
	"Delhi, IN":     {Lat: 28.6139, Lng: 77.2090, Zoom: 12},
	"Gurgaon, IN":   {Lat: 28.4595, Lng: 77.0266, Zoom: 14},
	AllCities:       {Lat: 22.5, Lng: 78.5, Zoom: 5},
}

// InitialViewport is where the map opens: Bangalore, one level out.
var InitialViewport = Viewport{Lat: 12.9716, Lng: 77.5946, Zoom: 12}

// LookupViewport returns the configured view for a city or for AllCities.
func LookupViewport(city string) (Viewport, bool) {
	v, ok := cityViewports[city]
	return v, ok
}

var cityColors = map[string]color.NRGBA{
	"Bangalore, IN": {R: 0xe6, G: 0x39, B: 0x46, A: 0xff},
	"Kalga, IN":     {R: 0x2a, G: 0x9d, B: 0x8f, A: 0xff},
	"Delhi, IN":     {R: 0xe9, G: 0xc4, B: 0x6a, A: 0xff},
	"Gurgaon, IN":   {R: 0x45, G: 0x7b, B: 0x9d, A: 0xff},
}

// DefaultColor is used for cities missing from the colour table (#457b9d).
var DefaultColor = color.NRGBA{R: 0x45, G: 0x7b, B: 0x9d, A: 0xff}

// ColorFor returns the opaque pin colour of a city, or DefaultColor.
func ColorFor(city string) color.NRGBA {
	if c, ok := cityColors[city]; ok {
		return c
	}
	return DefaultColor
}

// FormatCoords renders "12.9347°N, 77.6303°E": absolute values to four
// decimals with the hemisphere letter. Zero counts as north/east.
func FormatCoords(lat, lng float64) string {
	latDir := "N"
	if lat < 0 {
		latDir = "S"
	}
	lngDir := "E"
	if lng < 0 {
		lngDir = "W"
	}
	return toFixed4(lat) + "°" + latDir + ", " + toFixed4(lng) + "°" + lngDir
}

// toFixed4 formats |x| with four decimals. A value exactly half way between
// two results rounds up, where %.4f would round to even. The product
// |x|·10⁴ fits in 128 bits, so the tie test is exact.
func toFixed4(x float64) string {
	v := new(big.Float).SetPrec(128).SetFloat64(math.Abs(x))
	v.Mul(v, big.NewFloat(1e4))
	v.Add(v, big.NewFloat(0.5))
	n, _ := v.Int(nil)

	digits := n.String()
	if len(digits) < 5 {
		digits = strings.Repeat("0", 5-len(digits)) + digits
	}
	return digits[:len(digits)-4] + "." + digits[len(digits)-4:]
}
