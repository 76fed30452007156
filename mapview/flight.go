package mapview

import (
	"time"

	"github.com/olablt/poemap/tiles"
)

// Flight animates the view from one centre/zoom to another.
// Centre moves in world pixels at the lower zoom so both ends stay on the
// same projection; zoom is interpolated linearly under the same easing.
type Flight struct {
	FromCenter tiles.LatLng
	FromZoom   float64
	ToCenter   tiles.LatLng
	ToZoom     float64
	Duration   time.Duration

	start time.Time
}

// Start fixes the animation clock. Calling it again has no effect.
func (f *Flight) Start(now time.Time) {
	if f.start.IsZero() {
		f.start = now
	}
}

// At returns the view at now and whether the flight has landed.
func (f *Flight) At(now time.Time) (tiles.LatLng, float64, bool) {
	f.Start(now)
	if f.Duration <= 0 {
		return f.ToCenter, f.ToZoom, true
	}
	t := float64(now.Sub(f.start)) / float64(f.Duration)
	if t >= 1 {
		return f.ToCenter, f.ToZoom, true
	}
	if t < 0 {
		t = 0
	}
	e := easeInOut(t)

	ref := min(f.FromZoom, f.ToZoom)
	fx, fy := tiles.CalculateWorldCoordinates(f.FromCenter, ref)
	tx, ty := tiles.CalculateWorldCoordinates(f.ToCenter, ref)
	center := tiles.WorldToLatLng(fx+(tx-fx)*e, fy+(ty-fy)*e, ref)
	zoom := f.FromZoom + (f.ToZoom-f.FromZoom)*e
	return center, zoom, false
}

// easeInOut is a cubic ease for t in [0, 1].
func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}
