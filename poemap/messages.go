package poemap

import "github.com/olablt/poemap/poems"

// Msg is an event fed to Controller.Dispatch.
type Msg interface {
	isMsg()
}

// PoemsLoaded carries the collection once the data source resolves.
type PoemsLoaded struct {
	Poems []poems.Poem
}

// LoadFailed reports a data source failure. The app keeps running empty.
type LoadFailed struct {
	Err error
}

// PinClicked selects the pin at Index (input order of the collection).
type PinClicked struct {
	Index int
}

// PanelClosed is the close control of the detail panel.
type PanelClosed struct{}

// CitySelected is a click on a sidebar entry; City may be poems.AllCities.
type CitySelected struct {
	City string
}

// ThemeToggled is a click on the theme switch.
type ThemeToggled struct{}

// ZoomChanged is emitted by the viewport whenever it settles on a new zoom.
type ZoomChanged struct {
	Zoom float64
}

// WindowMeasured reports the window width in dp, once at startup.
type WindowMeasured struct {
	WidthDp float64
}

func (PoemsLoaded) isMsg()    {}
func (LoadFailed) isMsg()     {}
func (PinClicked) isMsg()     {}
func (PanelClosed) isMsg()    {}
func (CitySelected) isMsg()   {}
func (ThemeToggled) isMsg()   {}
func (ZoomChanged) isMsg()    {}
func (WindowMeasured) isMsg() {}
