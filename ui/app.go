// Package ui lays out the poem map window: city sidebar, map, theme switch
// and detail panel. All state lives in the poemap controller; widgets only
// turn clicks into messages.
package ui

import (
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/olablt/poemap/mapview"
	"github.com/olablt/poemap/poemap"
)

const (
	sidebarWidth = unit.Dp(220)
	panelWidth   = unit.Dp(380)
)

type App struct {
	Theme *material.Theme
	// Invalidate asks the window for a new frame; safe from any goroutine.
	Invalidate func()

	ctrl    *poemap.Controller
	mapView *mapview.MapView
	msgs    chan poemap.Msg

	sidebar     *Sidebar
	panel       *Panel
	themeToggle widget.Clickable
}

// NewApp wires the map callbacks into ctrl.
func NewApp(ctrl *poemap.Controller, mv *mapview.MapView, th *material.Theme) *App {
	a := &App{
		Theme:   th,
		ctrl:    ctrl,
		mapView: mv,
		msgs:    make(chan poemap.Msg, 16),
		sidebar: NewSidebar(),
		panel:   NewPanel(),
	}
	mv.Theme = th
	// the map handles its events mid-frame, after the panel was laid out
	mv.OnMarkerClick(func(i int) {
		ctrl.Dispatch(poemap.PinClicked{Index: i})
		a.invalidate()
	})
	mv.OnZoomChange(func(z float64) {
		ctrl.Dispatch(poemap.ZoomChanged{Zoom: z})
		a.invalidate()
	})
	return a
}

// dispatch handles a widget message; the frame in progress already
// captured the old state, so another frame is requested.
func (a *App) dispatch(msg poemap.Msg) {
	a.ctrl.Dispatch(msg)
	a.invalidate()
}

func (a *App) invalidate() {
	if a.Invalidate != nil {
		a.Invalidate()
	}
}

// Post queues a message from another goroutine and requests a frame to handle it.
func (a *App) Post(msg poemap.Msg) {
	a.msgs <- msg
	a.invalidate()
}

func (a *App) drain() {
	for {
		select {
		case msg := <-a.msgs:
			a.ctrl.Dispatch(msg)
		default:
			return
		}
	}
}

func (a *App) Layout(gtx layout.Context) layout.Dimensions {
	a.drain()
	if !a.ctrl.State().Measured {
		a.ctrl.Dispatch(poemap.WindowMeasured{WidthDp: float64(gtx.Metric.PxToDp(gtx.Constraints.Max.X))})
	}
	if a.themeToggle.Clicked(gtx) {
		a.ctrl.Dispatch(poemap.ThemeToggled{})
	}

	state := a.ctrl.State()
	pal := PaletteFor(state.Dark)
	paint.FillShape(gtx.Ops, pal.Bg, clip.Rect{Max: gtx.Constraints.Max}.Op())

	// Flex lays out rigid children before flexed ones, so sidebar and panel
	// clicks reach the controller before the map draws this frame.
	children := []layout.FlexChild{
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Max.X = gtx.Dp(sidebarWidth)
			return a.sidebar.Layout(gtx, a.Theme, pal, state, a.dispatch)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Stack{Alignment: layout.NE}.Layout(gtx,
				layout.Expanded(a.mapView.Layout),
				layout.Stacked(func(gtx layout.Context) layout.Dimensions {
					return layout.UniformInset(unit.Dp(12)).Layout(gtx, a.themeButton(pal, state.Dark))
				}),
			)
		}),
	}
	if state.Panel.Visible {
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Max.X = min(gtx.Constraints.Max.X, gtx.Dp(panelWidth))
			return a.panel.Layout(gtx, a.Theme, pal, state.Panel, a.dispatch)
		}))
	}
	return layout.Flex{}.Layout(gtx, children...)
}

func (a *App) themeButton(pal Palette, dark bool) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		label := "light"
		if !dark {
			label = "dark"
		}
		btn := material.Button(a.Theme, &a.themeToggle, label)
		btn.Background = pal.Surface
		btn.Color = pal.Fg
		return btn.Layout(gtx)
	}
}
