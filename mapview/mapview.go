package mapview

import (
	"context"
	"image"
	"image/color"
	"math"
	"time"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/olablt/poemap/tiles"
)

// Marker is a circular pin with a text label.
type Marker struct {
	Position tiles.LatLng
	Color    color.NRGBA
	Label    string
}

// clickSlop is how far (px) the pointer may travel between press and
// release and still count as a click.
const clickSlop = 4

// tileOp is an uploaded tile image; src tells when the tile was replaced.
type tileOp struct {
	src image.Image
	op  paint.ImageOp
}

type MapView struct {
	Light, Dark *tiles.TileManager
	Theme       *material.Theme
	MinZoom     float64
	MaxZoom     float64

	MarkerRadius unit.Dp
	MarkerStroke unit.Dp
	LabelOffset  unit.Dp

	// Invalidate, if set, asks the window for a new frame.
	Invalidate func()

	ctx     context.Context
	dark    bool
	center  tiles.LatLng
	zoom    float64
	size    image.Point
	pxPerDp float64

	markers         []Marker
	labelsPermanent bool
	hovered         int

	flight       *Flight
	notifiedZoom float64
	onZoom       func(zoom float64)
	onClick      func(index int)

	imageOps *lru.Cache[string, tileOp]

	pressed  bool
	dragged  bool
	pressPos f32.Point
	lastPos  f32.Point
}

// New returns a map centred on center. ctx bounds asynchronous tile loads.
func New(ctx context.Context, light, dark *tiles.TileManager, center tiles.LatLng, zoom float64) *MapView {
	mv := &MapView{
		Light:        light,
		Dark:         dark,
		MinZoom:      2,
		MaxZoom:      19,
		MarkerRadius: 8,
		MarkerStroke: 2,
		LabelOffset:  8,
		ctx:          ctx,
		dark:         true,
		center:       center.Clamp(),
		pxPerDp:      1,
		hovered:      -1,
		imageOps:     tiles.NewCache[tileOp](1024),
	}
	mv.zoom = mv.clampZoom(zoom)
	mv.notifiedZoom = mv.zoom
	return mv
}

func (mv *MapView) Center() tiles.LatLng { return mv.center }

func (mv *MapView) Zoom() float64 { return mv.zoom }

func (mv *MapView) IsDark() bool { return mv.dark }

// OnZoomChange registers fn, called each time the view settles on a new zoom.
func (mv *MapView) OnZoomChange(fn func(zoom float64)) { mv.onZoom = fn }

// OnMarkerClick registers fn, called with the index of a clicked marker.
func (mv *MapView) OnMarkerClick(fn func(index int)) { mv.onClick = fn }

func (mv *MapView) SetMarkers(markers []Marker) {
	mv.markers = append([]Marker(nil), markers...)
	mv.hovered = -1
	mv.invalidate()
}

// SetLabelsPermanent shows every label when true; otherwise a label is only
// drawn while its marker is hovered.
func (mv *MapView) SetLabelsPermanent(permanent bool) {
	mv.labelsPermanent = permanent
	mv.invalidate()
}

func (mv *MapView) LabelsPermanent() bool { return mv.labelsPermanent }

// SetTheme selects the dark or light tile layer. Only one layer is ever drawn.
func (mv *MapView) SetTheme(dark bool) {
	mv.dark = dark
	mv.invalidate()
}

// FlyTo animates the view to center and zoom over d.
func (mv *MapView) FlyTo(center tiles.LatLng, zoom float64, d time.Duration) {
	mv.flight = &Flight{
		FromCenter: mv.center,
		FromZoom:   mv.zoom,
		ToCenter:   center.Clamp(),
		ToZoom:     mv.clampZoom(zoom),
		Duration:   d,
	}
	if d <= 0 {
		mv.finishFlight()
	}
	mv.invalidate()
}

func (mv *MapView) Layout(gtx layout.Context) layout.Dimensions {
	tag := mv
	mv.size = gtx.Constraints.Max
	mv.pxPerDp = float64(gtx.Metric.PxPerDp)
	if mv.pxPerDp <= 0 {
		mv.pxPerDp = 1
	}

	mv.processEvents(gtx, tag)
	mv.advanceFlight(gtx)

	// Confine the area of interest to a gtx Max
	defer clip.Rect{Max: mv.size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, tag)

	paint.Fill(gtx.Ops, mv.background())
	mv.drawTiles(gtx)
	mv.drawMarkers(gtx)
	mv.drawAttribution(gtx)

	return layout.Dimensions{Size: mv.size}
}

func (mv *MapView) processEvents(gtx layout.Context, tag event.Tag) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  tag,
			Kinds:   pointer.Scroll | pointer.Drag | pointer.Press | pointer.Release | pointer.Cancel | pointer.Move | pointer.Enter | pointer.Leave,
			ScrollY: pointer.ScrollRange{Min: -10, Max: 10},
		})
		if !ok {
			break
		}
		x, ok := ev.(pointer.Event)
		if !ok {
			continue
		}

		switch x.Kind {
		case pointer.Press:
			mv.finishFlight()
			mv.pressed = true
			mv.dragged = false
			mv.pressPos = x.Position
			mv.lastPos = x.Position
		case pointer.Drag:
			if !mv.pressed {
				break
			}
			if distance(x.Position, mv.pressPos) > clickSlop {
				mv.dragged = true
			}
			mv.pan(x.Position.Sub(mv.lastPos))
			mv.lastPos = x.Position
		case pointer.Release:
			if mv.pressed && !mv.dragged && mv.onClick != nil {
				if i := mv.markerAt(gtx, x.Position); i >= 0 {
					mv.onClick(i)
				}
			}
			mv.pressed = false
		case pointer.Cancel:
			mv.pressed = false
		case pointer.Move, pointer.Enter:
			mv.hovered = mv.markerAt(gtx, x.Position)
		case pointer.Leave:
			mv.hovered = -1
		case pointer.Scroll:
			mv.finishFlight()
			if x.Scroll.Y < 0 {
				mv.zoomAround(x.Position, math.Round(mv.zoom)+1)
			} else if x.Scroll.Y > 0 {
				mv.zoomAround(x.Position, math.Round(mv.zoom)-1)
			}
		}
	}
}

func (mv *MapView) advanceFlight(gtx layout.Context) {
	if mv.flight == nil {
		return
	}
	center, zoom, done := mv.flight.At(gtx.Now)
	mv.center, mv.zoom = center, zoom
	if done {
		mv.flight = nil
		mv.notifyZoom()
		return
	}
	gtx.Execute(op.InvalidateCmd{})
}

// finishFlight jumps to the destination of a running flight.
func (mv *MapView) finishFlight() {
	if mv.flight == nil {
		return
	}
	mv.center, mv.zoom = mv.flight.ToCenter, mv.flight.ToZoom
	mv.flight = nil
	mv.notifyZoom()
}

func (mv *MapView) notifyZoom() {
	if mv.zoom == mv.notifiedZoom {
		return
	}
	mv.notifiedZoom = mv.zoom
	if mv.onZoom != nil {
		mv.onZoom(mv.zoom)
	}
}

// pan moves the map by a screen delta in pixels.
func (mv *MapView) pan(delta f32.Point) {
	cx, cy := tiles.CalculateWorldCoordinates(mv.center, mv.zoom)
	cx -= float64(delta.X) / mv.pxPerDp
	cy -= float64(delta.Y) / mv.pxPerDp
	mv.center = tiles.WorldToLatLng(cx, cy, mv.zoom).Clamp()
}

// zoomAround changes zoom while keeping the point under pos fixed on screen.
func (mv *MapView) zoomAround(pos f32.Point, newZoom float64) {
	newZoom = mv.clampZoom(newZoom)
	if newZoom == mv.zoom {
		return
	}
	offX := (float64(pos.X) - float64(mv.size.X)/2) / mv.pxPerDp
	offY := (float64(pos.Y) - float64(mv.size.Y)/2) / mv.pxPerDp

	worldX, worldY := tiles.CalculateWorldCoordinates(mv.center, mv.zoom)
	factor := math.Pow(2, newZoom-mv.zoom)
	mouseX := (worldX + offX) * factor
	mouseY := (worldY + offY) * factor

	mv.center = tiles.WorldToLatLng(mouseX-offX, mouseY-offY, newZoom).Clamp()
	mv.zoom = newZoom
	mv.notifyZoom()
}

func (mv *MapView) clampZoom(z float64) float64 {
	return max(mv.MinZoom, min(z, mv.MaxZoom))
}

func (mv *MapView) layer() *tiles.TileManager {
	if mv.dark {
		return mv.Dark
	}
	return mv.Light
}

func (mv *MapView) background() color.NRGBA {
	if mv.dark {
		return color.NRGBA{R: 38, G: 38, B: 38, A: 255}
	}
	return color.NRGBA{R: 242, G: 239, B: 233, A: 255}
}

// screenPoint projects ll into pixel coordinates of the widget.
func (mv *MapView) screenPoint(ll tiles.LatLng) f32.Point {
	cx, cy := tiles.CalculateWorldCoordinates(mv.center, mv.zoom)
	wx, wy := tiles.CalculateWorldCoordinates(ll, mv.zoom)
	return f32.Pt(
		float32(float64(mv.size.X)/2+(wx-cx)*mv.pxPerDp),
		float32(float64(mv.size.Y)/2+(wy-cy)*mv.pxPerDp),
	)
}

func (mv *MapView) drawTiles(gtx layout.Context) {
	layer := mv.layer()
	if layer == nil {
		return
	}
	tz := int(math.Round(mv.zoom))
	scale := math.Pow(2, mv.zoom-float64(tz)) * mv.pxPerDp
	view := image.Pt(int(float64(mv.size.X)/scale)+1, int(float64(mv.size.Y)/scale)+1)
	cx, cy := tiles.CalculateWorldCoordinates(mv.center, float64(tz))

	for _, tile := range tiles.CalculateVisibleTiles(mv.center, tz, view) {
		img, ok := layer.Tile(mv.ctx, tile)
		if !ok {
			continue
		}
		imageOp := mv.imageOp(layer, tile, img)

		x := float64(mv.size.X)/2 + (float64(tile.X*tiles.TileSize)-cx)*scale
		y := float64(mv.size.Y)/2 + (float64(tile.Y*tiles.TileSize)-cy)*scale
		tr := f32.Affine2D{}.
			Scale(f32.Point{}, f32.Pt(float32(scale), float32(scale))).
			Offset(f32.Pt(float32(x), float32(y)))

		transform := op.Affine(tr).Push(gtx.Ops)
		area := clip.Rect{Max: image.Pt(tiles.TileSize, tiles.TileSize)}.Push(gtx.Ops)
		imageOp.Add(gtx.Ops)
		paint.PaintOp{}.Add(gtx.Ops)
		area.Pop()
		transform.Pop()
	}
}

// imageOp keeps one ImageOp per tile so the texture is uploaded once. A
// placeholder replaced by the real tile gets a new ImageOp.
func (mv *MapView) imageOp(layer *tiles.TileManager, tile tiles.Tile, img image.Image) paint.ImageOp {
	key := layer.Name + "/" + tiles.GetTileKey(tile)
	if cached, ok := mv.imageOps.Get(key); ok && cached.src == img {
		return cached.op
	}
	imageOp := paint.NewImageOp(tiles.Unwrap(img))
	imageOp.Filter = paint.FilterLinear
	mv.imageOps.Add(key, tileOp{src: img, op: imageOp})
	return imageOp
}

// Attribution returns the credit line of the layer on screen.
func (mv *MapView) Attribution() string {
	if layer := mv.layer(); layer != nil {
		return layer.Attribution
	}
	return ""
}

// drawAttribution puts the tile credit in the bottom-right corner.
func (mv *MapView) drawAttribution(gtx layout.Context) {
	text := mv.Attribution()
	if mv.Theme == nil || text == "" {
		return
	}
	fg := color.NRGBA{R: 51, G: 51, B: 51, A: 255}
	bg := color.NRGBA{R: 255, G: 255, B: 255, A: 200}
	if mv.dark {
		fg = color.NRGBA{R: 170, G: 170, B: 170, A: 255}
		bg = color.NRGBA{R: 0, G: 0, B: 0, A: 160}
	}

	lbl := material.Label(mv.Theme, unit.Sp(11), text)
	lbl.Color = fg
	lbl.MaxLines = 1

	agtx := gtx
	agtx.Constraints = layout.Constraints{Max: mv.size}
	macro := op.Record(gtx.Ops)
	dims := layout.Inset{Top: 1, Bottom: 1, Left: 4, Right: 4}.Layout(agtx, lbl.Layout)
	call := macro.Stop()

	off := op.Offset(mv.size.Sub(dims.Size)).Push(gtx.Ops)
	paint.FillShape(gtx.Ops, bg, clip.Rect{Max: dims.Size}.Op())
	call.Add(gtx.Ops)
	off.Pop()
}

func (mv *MapView) drawMarkers(gtx layout.Context) {
	r := float32(gtx.Dp(mv.MarkerRadius))
	stroke := float32(gtx.Dp(mv.MarkerStroke))
	margin := r + stroke
	bounds := image.Rectangle{Max: mv.size}

	points := make([]f32.Point, len(mv.markers))
	for i, m := range mv.markers {
		p := mv.screenPoint(m.Position)
		points[i] = p
		if !inside(bounds, p, margin) {
			continue
		}
		rect := image.Rect(int(p.X-r), int(p.Y-r), int(p.X+r), int(p.Y+r))

		fill := m.Color
		fill.A = 204
		paint.FillShape(gtx.Ops, fill, clip.Ellipse(rect).Op(gtx.Ops))
		paint.FillShape(gtx.Ops, color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			clip.Stroke{Path: clip.Ellipse(rect).Path(gtx.Ops), Width: stroke}.Op())
	}

	// labels go on top of every marker
	for i, m := range mv.markers {
		if !mv.labelsPermanent && i != mv.hovered {
			continue
		}
		if !inside(bounds, points[i], margin) {
			continue
		}
		mv.drawLabel(gtx, points[i], m.Label)
	}
}

func (mv *MapView) drawLabel(gtx layout.Context, p f32.Point, text string) {
	if mv.Theme == nil || text == "" {
		return
	}
	fg := color.NRGBA{R: 34, G: 34, B: 34, A: 255}
	bg := color.NRGBA{R: 255, G: 255, B: 255, A: 230}
	if mv.dark {
		fg = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
		bg = color.NRGBA{R: 30, G: 30, B: 30, A: 230}
	}

	lbl := material.Label(mv.Theme, unit.Sp(12), text)
	lbl.Color = fg
	lbl.MaxLines = 1

	lgtx := gtx
	lgtx.Constraints = layout.Constraints{Max: image.Pt(gtx.Dp(240), gtx.Dp(48))}
	macro := op.Record(gtx.Ops)
	dims := layout.Inset{Top: 2, Bottom: 2, Left: 6, Right: 6}.Layout(lgtx, lbl.Layout)
	call := macro.Stop()

	off := op.Offset(labelOrigin(p, dims.Size, gtx.Dp(mv.LabelOffset))).Push(gtx.Ops)
	paint.FillShape(gtx.Ops, bg, clip.UniformRRect(image.Rectangle{Max: dims.Size}, gtx.Dp(3)).Op(gtx.Ops))
	call.Add(gtx.Ops)
	off.Pop()
}

func (mv *MapView) markerAt(gtx layout.Context, pos f32.Point) int {
	points := make([]f32.Point, len(mv.markers))
	for i, m := range mv.markers {
		points[i] = mv.screenPoint(m.Position)
	}
	return hitTest(points, pos, float32(gtx.Dp(mv.MarkerRadius+mv.MarkerStroke)))
}

func (mv *MapView) invalidate() {
	if mv.Invalidate != nil {
		mv.Invalidate()
	}
}

// labelOrigin places a label of size horizontally centred on p with its
// bottom edge offset px above p.
func labelOrigin(p f32.Point, size image.Point, offset int) image.Point {
	return image.Pt(int(p.X)-size.X/2, int(p.Y)-offset-size.Y)
}

// hitTest returns the index of the point nearest to pos within radius, or -1.
func hitTest(points []f32.Point, pos f32.Point, radius float32) int {
	best := -1
	bestDist := radius
	for i, p := range points {
		if d := distance(p, pos); d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func distance(a, b f32.Point) float32 {
	d := a.Sub(b)
	return float32(math.Hypot(float64(d.X), float64(d.Y)))
}

func inside(bounds image.Rectangle, p f32.Point, margin float32) bool {
	return p.X >= float32(bounds.Min.X)-margin && p.X <= float32(bounds.Max.X)+margin &&
		p.Y >= float32(bounds.Min.Y)-margin && p.Y <= float32(bounds.Max.Y)+margin
}
