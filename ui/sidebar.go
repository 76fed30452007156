package ui

import (
	"image"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/olablt/poemap/poemap"
)

// Sidebar lists "all" and every city with its poem count.
type Sidebar struct {
	list    widget.List
	entries []widget.Clickable
}

func NewSidebar() *Sidebar {
	return &Sidebar{
		list: widget.List{List: layout.List{Axis: layout.Vertical}},
	}
}

// Layout draws the entries of state and dispatches CitySelected on click.
func (s *Sidebar) Layout(gtx layout.Context, th *material.Theme, pal Palette, state poemap.State, dispatch func(poemap.Msg)) layout.Dimensions {
	if len(s.entries) != len(state.Sidebar) {
		s.entries = make([]widget.Clickable, len(state.Sidebar))
	}
	for i := range s.entries {
		if s.entries[i].Clicked(gtx) {
			dispatch(poemap.CitySelected{City: state.Sidebar[i].City})
		}
	}

	gtx.Constraints.Min = gtx.Constraints.Max
	paint.FillShape(gtx.Ops, pal.Surface, clip.Rect{Max: gtx.Constraints.Max}.Op())

	return layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				title := material.H6(th, "cities")
				title.Color = pal.Fg
				return layout.Inset{Bottom: unit.Dp(8)}.Layout(gtx, title.Layout)
			}),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return material.List(th, &s.list).Layout(gtx, len(state.Sidebar), func(gtx layout.Context, i int) layout.Dimensions {
					entry := state.Sidebar[i]
					return s.entry(gtx, th, pal, &s.entries[i], entry.Label, entry.City == state.ActiveCity)
				})
			}),
		)
	})
}

func (s *Sidebar) entry(gtx layout.Context, th *material.Theme, pal Palette, btn *widget.Clickable, label string, active bool) layout.Dimensions {
	return btn.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		lbl := material.Body1(th, label)
		lbl.Color = pal.Muted
		if active {
			lbl.Color = pal.Fg
			lbl.Font.Weight = font.Bold
		}
		gtx.Constraints.Min.X = gtx.Constraints.Max.X

		macro := recordInset(gtx, lbl.Layout)
		if active {
			rect := image.Rectangle{Max: macro.size}
			paint.FillShape(gtx.Ops, pal.Active, clip.UniformRRect(rect, gtx.Dp(4)).Op(gtx.Ops))
			bar := image.Rectangle{Max: image.Pt(gtx.Dp(3), macro.size.Y)}
			paint.FillShape(gtx.Ops, pal.Accent, clip.Rect(bar).Op())
		}
		macro.call.Add(gtx.Ops)
		return layout.Dimensions{Size: macro.size}
	})
}
