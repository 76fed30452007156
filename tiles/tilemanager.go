package tiles

import (
	"context"
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/olablt/poemap/tiles/worker"
)

type TileProvider interface {
	GetTile(ctx context.Context, tile Tile) (image.Image, error)
}

// DefaultRetryAfter is how long a failed or fallback tile is left alone
// before the provider is asked again.
const DefaultRetryAfter = 30 * time.Second

// TileManager caches tiles of one layer and loads missing ones on a worker pool.
type TileManager struct {
	Name string

	// Attribution credits the tile source; the map draws it in a corner.
	Attribution string
	RetryAfter  time.Duration

	cache    *lru.Cache[string, image.Image]
	provider TileProvider
	pool     *worker.Pool
	group    singleflight.Group
	onLoad   func()
	log      *slog.Logger

	mu      sync.Mutex
	pending map[string]bool
	failed  map[string]time.Time
}

func NewTileManager(name string, provider TileProvider, pool *worker.Pool, log *slog.Logger) *TileManager {
	if log == nil {
		log = slog.Default()
	}
	return &TileManager{
		Name:       name,
		RetryAfter: DefaultRetryAfter,
		cache:      NewCache[image.Image](512),
		provider:   provider,
		pool:       pool,
		log:        log.With("layer", name),
		pending:    make(map[string]bool),
		failed:     make(map[string]time.Time),
	}
}

func (tm *TileManager) GetCache() *lru.Cache[string, image.Image] {
	return tm.cache
}

// SetOnLoadCallback registers a function called after a tile was loaded asynchronously.
func (tm *TileManager) SetOnLoadCallback(callback func()) {
	tm.onLoad = callback
}

// GetTileKey returns a unique string key for a tile
func GetTileKey(tile Tile) string {
	return fmt.Sprintf("%d/%d/%d", tile.Zoom, tile.X, tile.Y)
}

// GetTile returns the tile, loading it from the provider if needed. A cached
// fallback tile is loaded again. Concurrent calls for the same tile share
// one provider request.
func (tm *TileManager) GetTile(ctx context.Context, tile Tile) (image.Image, error) {
	key := GetTileKey(tile)
	if img, exists := tm.cache.Get(key); exists && !IsFallback(img) {
		return img, nil
	}
	return tm.load(ctx, tile, key)
}

func (tm *TileManager) load(ctx context.Context, tile Tile, key string) (image.Image, error) {
	v, err, _ := tm.group.Do(key, func() (interface{}, error) {
		img, err := tm.provider.GetTile(ctx, tile)
		if err != nil {
			return nil, err
		}
		tm.cache.Add(key, img)
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

// Tile never blocks. It returns the cached tile and whether there was one;
// a missing or fallback tile is (re)loaded in the background.
func (tm *TileManager) Tile(ctx context.Context, tile Tile) (image.Image, bool) {
	key := GetTileKey(tile)
	img, exists := tm.cache.Get(key)
	if exists && !IsFallback(img) {
		return img, true
	}
	tm.request(ctx, tile, key)
	return img, exists
}

func (tm *TileManager) request(ctx context.Context, tile Tile, key string) {
	tm.mu.Lock()
	if tm.pending[key] {
		tm.mu.Unlock()
		return
	}
	if at, ok := tm.failed[key]; ok && time.Since(at) < tm.RetryAfter {
		tm.mu.Unlock()
		return
	}
	tm.pending[key] = true
	tm.mu.Unlock()

	err := tm.pool.Submit(worker.Task{
		Ctx:  ctx,
		Name: tm.Name + "/" + key,
		Work: func(taskCtx context.Context) error {
			img, err := tm.load(taskCtx, tile, key)

			tm.mu.Lock()
			delete(tm.pending, key)
			switch {
			case ctx.Err() != nil:
				// shutting down; the tile is free to be requested again
			case err != nil || IsFallback(img):
				tm.failed[key] = time.Now()
			default:
				delete(tm.failed, key)
			}
			tm.mu.Unlock()

			if err != nil {
				if ctx.Err() == nil {
					tm.log.Warn("tile load failed", "tile", key, "error", err)
				}
				return err
			}
			if tm.onLoad != nil {
				tm.onLoad()
			}
			return nil
		},
	})
	if err != nil {
		// queue full or pool closed: forget the request, the next frame retries
		tm.mu.Lock()
		delete(tm.pending, key)
		tm.mu.Unlock()
	}
}
