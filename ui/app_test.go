package ui

import (
	"context"
	"image"
	"testing"
	"time"

	"gioui.org/f32"
	"gioui.org/font/gofont"
	"gioui.org/io/input"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olablt/poemap/mapview"
	"github.com/olablt/poemap/poemap"
	"github.com/olablt/poemap/poems"
	"github.com/olablt/poemap/tiles"
	"github.com/olablt/poemap/tiles/worker"
)

func newTestApp(t *testing.T) (*App, *poemap.Controller, *mapview.MapView) {
	t.Helper()
	pool := worker.NewPool(1, time.Second, nil)
	t.Cleanup(pool.Shutdown)
	light := tiles.NewTileManager("light", tiles.NewLocalTileProvider(false), pool, nil)
	dark := tiles.NewTileManager("dark", tiles.NewLocalTileProvider(true), pool, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	start := poems.InitialViewport
	mv := mapview.New(ctx, light, dark, tiles.LatLng{Lat: start.Lat, Lng: start.Lng}, start.Zoom)
	ctrl := poemap.New(mv, poemap.DefaultOptions(), nil)

	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	return NewApp(ctrl, mv, th), ctrl, mv
}

func frame(a *App, width int) {
	gtx := layout.Context{
		Ops:         new(op.Ops),
		Constraints: layout.Exact(image.Pt(width, 800)),
		Metric:      unit.Metric{PxPerDp: 1, PxPerSp: 1},
		Now:         time.Now(),
	}
	a.Layout(gtx)
}

// window drives App through an input router, the way a real window
// delivers pointer events between frames.
type window struct {
	app    *App
	router input.Router
	size   image.Point
}

func (w *window) frame() {
	gtx := layout.Context{
		Ops:         new(op.Ops),
		Source:      w.router.Source(),
		Constraints: layout.Exact(w.size),
		Metric:      unit.Metric{PxPerDp: 1, PxPerSp: 1},
		Now:         time.Now(),
	}
	w.app.Layout(gtx)
	w.router.Frame(gtx.Ops)
}

// click taps pos and runs the frame in which widgets see the click.
func (w *window) click(pos f32.Point) {
	w.router.Queue(
		pointer.Event{Source: pointer.Touch, Kind: pointer.Press, Position: pos},
		pointer.Event{Source: pointer.Touch, Kind: pointer.Release, Position: pos},
	)
	w.frame()
}

func TestAppClicksReachController(t *testing.T) {
	a, ctrl, mv := newTestApp(t)
	ctrl.Dispatch(poemap.PoemsLoaded{Poems: []poems.Poem{
		{Title: "One", City: "Delhi, IN", Landmark: "India Gate", Lat: 28.6129, Lng: 77.2295},
	}})
	w := &window{app: a, size: image.Pt(1200, 800)}
	w.frame()
	require.Empty(t, ctrl.State().ActiveCity)

	// sidebar: 12dp inset, 24dp title, 8dp gap, then ~31dp per entry
	w.click(f32.Pt(80, 92))
	assert.Equal(t, "Delhi, IN", ctrl.State().ActiveCity)

	w.click(f32.Pt(80, 58))
	assert.Equal(t, poems.AllCities, ctrl.State().ActiveCity)

	// theme switch sits 12dp inside the top-right corner of the map
	require.True(t, ctrl.State().Dark)
	w.click(f32.Pt(1168, 28))
	assert.False(t, ctrl.State().Dark)
	assert.False(t, mv.IsDark())

	w.click(f32.Pt(1168, 28))
	assert.True(t, ctrl.State().Dark)
	assert.True(t, mv.IsDark())
}

func TestAppHandlesPostedMessages(t *testing.T) {
	a, ctrl, mv := newTestApp(t)
	invalidated := 0
	a.Invalidate = func() { invalidated++ }

	a.Post(poemap.PoemsLoaded{Poems: []poems.Poem{
		{Title: "One", City: "Delhi, IN", Landmark: "India Gate", Lat: 28.6129, Lng: 77.2295},
		{Title: "Two", City: "Delhi, IN", Landmark: "Lodhi Garden", Lat: 28.5931, Lng: 77.2197},
	}})
	assert.Equal(t, 1, invalidated)

	frame(a, 1200)

	s := ctrl.State()
	require.True(t, s.Loaded)
	assert.Len(t, s.Pins, 2)
	assert.Equal(t, []poemap.SidebarEntry{
		{City: poems.AllCities, Label: "all"},
		{City: "Delhi, IN", Label: "Delhi, IN (2)"},
	}, s.Sidebar)
	assert.True(t, s.Measured)
	assert.False(t, s.Narrow)
	assert.Len(t, a.sidebar.entries, 2)
	assert.False(t, mv.LabelsPermanent(), "zoom 12 keeps labels on hover")
}

func TestAppMeasuresNarrowWindow(t *testing.T) {
	a, ctrl, _ := newTestApp(t)
	frame(a, 900)
	assert.True(t, ctrl.State().Narrow)
}

func TestAppPanelFollowsState(t *testing.T) {
	a, ctrl, _ := newTestApp(t)
	ctrl.Dispatch(poemap.PoemsLoaded{Poems: []poems.Poem{{Title: "One", Lat: 1, Lng: 2}}})
	ctrl.Dispatch(poemap.PinClicked{Index: 0})

	frame(a, 1200)
	assert.True(t, ctrl.State().Panel.Visible)

	a.dispatch(poemap.PanelClosed{})
	frame(a, 1200)
	assert.False(t, ctrl.State().Panel.Visible)
}

func TestPaletteFor(t *testing.T) {
	assert.Equal(t, DarkPalette, PaletteFor(true))
	assert.Equal(t, LightPalette, PaletteFor(false))
	assert.NotEqual(t, DarkPalette.Bg, LightPalette.Bg)
}
