package tiles

import (
	"context"
	"fmt"
	"image"
	"log/slog"
)

// Fallback marks a tile drawn by the fallback provider. It is shown like any
// other tile, but TileManager asks the primary again once RetryAfter passed.
type Fallback struct {
	image.Image
}

func IsFallback(img image.Image) bool {
	_, ok := img.(*Fallback)
	return ok
}

// Unwrap returns the image under a Fallback, or img itself.
func Unwrap(img image.Image) image.Image {
	if f, ok := img.(*Fallback); ok {
		return f.Image
	}
	return img
}

// CombinedTileProvider serves the primary tile and falls back to a second
// provider when the primary fails, so the map never shows holes.
type CombinedTileProvider struct {
	primary  TileProvider
	fallback TileProvider
	log      *slog.Logger
}

func NewCombinedTileProvider(primary, fallback TileProvider, log *slog.Logger) *CombinedTileProvider {
	if log == nil {
		log = slog.Default()
	}
	return &CombinedTileProvider{
		primary:  primary,
		fallback: fallback,
		log:      log,
	}
}

func (p *CombinedTileProvider) GetTile(ctx context.Context, tile Tile) (image.Image, error) {
	img, err := p.primary.GetTile(ctx, tile)
	if err == nil {
		return img, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	p.log.Debug("primary tile provider failed, using fallback", "tile", GetTileKey(tile), "error", err)

	fallbackImg, ferr := p.fallback.GetTile(ctx, tile)
	if ferr != nil {
		return nil, fmt.Errorf("both primary and fallback providers failed: %v: %w", err, ferr)
	}
	return &Fallback{Image: fallbackImg}, nil
}
