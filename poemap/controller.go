// Package poemap holds the application state of the poem map and the single
// update function that every UI event goes through.
package poemap

import (
	"context"
	"image/color"
	"log/slog"
	"time"

	"github.com/olablt/poemap/mapview"
	"github.com/olablt/poemap/poems"
	"github.com/olablt/poemap/tiles"
)

// Viewport is the part of the map widget the controller drives.
type Viewport interface {
	FlyTo(center tiles.LatLng, zoom float64, d time.Duration)
	SetTheme(dark bool)
	Zoom() float64
	SetMarkers(markers []mapview.Marker)
	SetLabelsPermanent(permanent bool)
}

type Options struct {
	// LabelZoom is the zoom from which every pin label stays visible.
	LabelZoom float64
	// FlyDuration is the length of the animated recenter.
	FlyDuration time.Duration
	// NarrowWidth is the window width (dp) at or below which the window
	// counts as narrow.
	NarrowWidth float64
}

func DefaultOptions() Options {
	return Options{
		LabelZoom:   13,
		FlyDuration: 1500 * time.Millisecond,
		NarrowWidth: 1000,
	}
}

// Panel is the content of the detail panel.
type Panel struct {
	Visible bool
	Title   string
	Author  string
	Text    string
	Date    string
}

// SidebarEntry is one row of the city list.
type SidebarEntry struct {
	City  string
	Label string
}

// Pin is the marker created for one poem.
type Pin struct {
	Poem  int
	Color color.NRGBA
	Label string
}

type State struct {
	Poems         []poems.Poem
	Pins          []Pin
	Sidebar       []SidebarEntry
	ActiveCity    string
	Panel         Panel
	Dark          bool
	LabelsVisible bool
	// Narrow is recorded for small windows; labels follow zoom regardless.
	Narrow   bool
	Measured bool
	Loaded   bool
}

// Controller owns State. It must only be used from the UI goroutine.
type Controller struct {
	state State
	view  Viewport
	opts  Options
	log   *slog.Logger
}

// New returns a controller in the initial state: dark theme, nothing loaded.
func New(view Viewport, opts Options, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	c := &Controller{
		state: State{Dark: true},
		view:  view,
		opts:  opts,
		log:   log,
	}
	view.SetTheme(true)
	return c
}

// State returns a copy of the current state. Slices are shared and must not be modified.
func (c *Controller) State() State {
	return c.state
}

// LabelsVisible reports whether pin labels are permanent at zoom.
func (c *Controller) LabelsVisible(zoom float64) bool {
	return zoom >= c.opts.LabelZoom
}

func (c *Controller) Dispatch(msg Msg) {
	switch m := msg.(type) {
	case PoemsLoaded:
		c.load(m.Poems)
	case LoadFailed:
		c.log.Error("error loading poems", "error", m.Err)
	case PinClicked:
		c.showPoem(m.Index)
	case PanelClosed:
		c.state.Panel.Visible = false
	case CitySelected:
		c.selectCity(m.City)
	case ThemeToggled:
		c.state.Dark = !c.state.Dark
		c.view.SetTheme(c.state.Dark)
	case ZoomChanged:
		c.updateLabels(m.Zoom)
	case WindowMeasured:
		if !c.state.Measured {
			c.state.Measured = true
			c.state.Narrow = m.WidthDp <= c.opts.NarrowWidth
		}
	default:
		c.log.Warn("unhandled message", "msg", msg)
	}
}

func (c *Controller) load(list []poems.Poem) {
	if c.state.Loaded {
		c.log.Warn("poems already loaded, ignoring second load")
		return
	}
	c.state.Loaded = true
	c.state.Poems = list
	c.createPins()
	c.updateLabels(c.view.Zoom())
	c.buildSidebar()
	c.log.Info("poems loaded", "poems", len(list), "cities", len(c.state.Sidebar)-1)
}

func (c *Controller) createPins() {
	pins := make([]Pin, len(c.state.Poems))
	markers := make([]mapview.Marker, len(c.state.Poems))
	for i, p := range c.state.Poems {
		pins[i] = Pin{Poem: i, Color: poems.ColorFor(p.City), Label: p.Landmark}
		pt := p.Point()
		markers[i] = mapview.Marker{
			Position: tiles.LatLng{Lat: pt.Lat(), Lng: pt.Lon()},
			Color:    pins[i].Color,
			Label:    p.Landmark,
		}
	}
	c.state.Pins = pins
	c.view.SetMarkers(markers)
}

func (c *Controller) updateLabels(zoom float64) {
	c.state.LabelsVisible = c.LabelsVisible(zoom)
	c.view.SetLabelsPermanent(c.state.LabelsVisible)
}

func (c *Controller) buildSidebar() {
	index := poems.BuildCityIndex(c.state.Poems)
	entries := make([]SidebarEntry, 0, len(index)+1)
	entries = append(entries, SidebarEntry{City: poems.AllCities, Label: poems.AllCities})
	for _, cc := range index {
		entries = append(entries, SidebarEntry{City: cc.City, Label: cc.Label()})
	}
	c.state.Sidebar = entries
}

func (c *Controller) showPoem(i int) {
	if i < 0 || i >= len(c.state.Poems) {
		c.log.Warn("pin index out of range", "index", i)
		return
	}
	p := c.state.Poems[i]
	c.state.Panel = Panel{
		Visible: true,
		Title:   p.Title,
		Author:  p.AuthorLine(),
		Text:    p.Text,
		Date:    p.Date,
	}
}

func (c *Controller) selectCity(city string) {
	if v, ok := poems.LookupViewport(city); ok {
		c.view.FlyTo(tiles.LatLng{Lat: v.Lat, Lng: v.Lng}, v.Zoom, c.opts.FlyDuration)
	}
	c.state.ActiveCity = city
}

// LoadPoems reads the collection and turns the outcome into a message.
func LoadPoems(ctx context.Context, loader *poems.Loader, source string) Msg {
	list, err := loader.Load(ctx, source)
	if err != nil {
		return LoadFailed{Err: err}
	}
	return PoemsLoaded{Poems: list}
}
