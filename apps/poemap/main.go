package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/olablt/poemap/config"
	"github.com/olablt/poemap/logging"
	"github.com/olablt/poemap/mapview"
	"github.com/olablt/poemap/poemap"
	"github.com/olablt/poemap/poems"
	"github.com/olablt/poemap/tiles"
	"github.com/olablt/poemap/tiles/worker"
	"github.com/olablt/poemap/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	pool := worker.NewPool(cfg.Tiles.Workers, cfg.Tiles.Timeout, log)

	refresh := make(chan struct{}, 1)
	notify := func() {
		select {
		case refresh <- struct{}{}:
		default:
		}
	}

	light := newLayer("light", cfg.Tiles.LightURL, false, cfg, pool, log)
	dark := newLayer("dark", cfg.Tiles.DarkURL, true, cfg, pool, log)
	light.SetOnLoadCallback(notify)
	dark.SetOnLoadCallback(notify)

	start := poems.InitialViewport
	mv := mapview.New(ctx, light, dark, tiles.LatLng{Lat: start.Lat, Lng: start.Lng}, start.Zoom)
	mv.MinZoom = cfg.Map.MinZoom
	mv.MaxZoom = cfg.Map.MaxZoom
	mv.Invalidate = notify

	ctrl := poemap.New(mv, poemap.Options{
		LabelZoom:   cfg.Map.LabelZoom,
		FlyDuration: cfg.Map.FlyDuration,
		NarrowWidth: cfg.Map.NarrowWidth,
	}, log)

	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	window := ui.NewApp(ctrl, mv, th)
	window.Invalidate = notify

	loader := poems.NewLoader(&http.Client{Timeout: 30 * time.Second})
	go func() {
		log.Info("loading poems", "source", cfg.Data.Source)
		window.Post(poemap.LoadPoems(ctx, loader, cfg.Data.Source))
	}()

	go func() {
		w := new(app.Window)
		w.Option(
			app.Title(cfg.Window.Title),
			app.Size(unit.Dp(cfg.Window.Width), unit.Dp(cfg.Window.Height)),
		)

		var ops op.Ops
		go func() {
			for range refresh {
				w.Invalidate()
			}
		}()
		for {
			switch e := w.Event().(type) {
			case app.DestroyEvent:
				cancel()
				pool.Shutdown()
				if e.Err != nil {
					log.Error("window closed", "error", e.Err)
					os.Exit(1)
				}
				os.Exit(0)
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				window.Layout(gtx)
				e.Frame(gtx.Ops)
			}
		}
	}()
	app.Main()
}

// newLayer builds one base map: remote tiles with a locally drawn placeholder
// when the tile server is unreachable.
func newLayer(name, url string, dark bool, cfg *config.Config, pool *worker.Pool, log *slog.Logger) *tiles.TileManager {
	remote := tiles.NewURLTileProvider(url, cfg.Tiles.Subdomains, cfg.Tiles.UserAgent, log)
	provider := tiles.NewCombinedTileProvider(remote, tiles.NewLocalTileProvider(dark), log)
	tm := tiles.NewTileManager(name, provider, pool, log)
	tm.Attribution = cfg.Tiles.Attribution
	tm.RetryAfter = cfg.Tiles.RetryAfter
	return tm
}
