package ui

import (
	"image"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/olablt/poemap/poemap"
)

// Panel shows the selected poem: title, author line, text and date.
type Panel struct {
	close  widget.Clickable
	scroll widget.List
}

func NewPanel() *Panel {
	return &Panel{
		scroll: widget.List{List: layout.List{Axis: layout.Vertical}},
	}
}

func (p *Panel) Layout(gtx layout.Context, th *material.Theme, pal Palette, panel poemap.Panel, dispatch func(poemap.Msg)) layout.Dimensions {
	if p.close.Clicked(gtx) {
		dispatch(poemap.PanelClosed{})
	}

	gtx.Constraints.Min = gtx.Constraints.Max
	paint.FillShape(gtx.Ops, pal.Surface, clip.Rect{Max: gtx.Constraints.Max}.Op())

	rows := []layout.Widget{
		func(gtx layout.Context) layout.Dimensions {
			title := material.H5(th, panel.Title)
			title.Color = pal.Fg
			return title.Layout(gtx)
		},
		func(gtx layout.Context) layout.Dimensions {
			author := material.Caption(th, panel.Author)
			author.Color = pal.Muted
			return layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(16)}.Layout(gtx, author.Layout)
		},
		func(gtx layout.Context) layout.Dimensions {
			text := material.Body1(th, panel.Text)
			text.Color = pal.Fg
			return text.Layout(gtx)
		},
		func(gtx layout.Context) layout.Dimensions {
			date := material.Caption(th, panel.Date)
			date.Color = pal.Muted
			return layout.Inset{Top: unit.Dp(16)}.Layout(gtx, date.Layout)
		},
	}

	return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.E.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					btn := material.Button(th, &p.close, "×")
					btn.Background = pal.Active
					btn.Color = pal.Fg
					btn.Inset = layout.Inset{Top: 2, Bottom: 2, Left: 10, Right: 10}
					return btn.Layout(gtx)
				})
			}),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return material.List(th, &p.scroll).Layout(gtx, len(rows), func(gtx layout.Context, i int) layout.Dimensions {
					return rows[i](gtx)
				})
			}),
		)
	})
}

type recorded struct {
	call op.CallOp
	size image.Point
}

// recordInset lays out w with list padding without drawing it yet, so a
// background sized to the result can go underneath.
func recordInset(gtx layout.Context, w layout.Widget) recorded {
	macro := op.Record(gtx.Ops)
	dims := layout.Inset{Top: 6, Bottom: 6, Left: 8, Right: 8}.Layout(gtx, w)
	return recorded{call: macro.Stop(), size: dims.Size}
}
