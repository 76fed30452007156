package tiles

import (
	"context"
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	CartoLightURL = "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png"
	CartoDarkURL  = "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png"

	// CartoAttribution is the credit CARTO basemaps must carry.
	CartoAttribution = "© OpenStreetMap contributors © CARTO"

	DefaultUserAgent = "poemap/1.0 (+https://github.com/olablt/poemap)"
)

var DefaultSubdomains = []string{"a", "b", "c", "d"}

// URLTileProvider downloads tiles from an XYZ template such as
// "https://{s}.example.com/{z}/{x}/{y}{r}.png".
type URLTileProvider struct {
	Template   string
	Subdomains []string
	// Retina replaces {r}; empty for standard 256px tiles.
	Retina    string
	UserAgent string

	client *http.Client
	log    *slog.Logger
}

func NewURLTileProvider(template string, subdomains []string, userAgent string, log *slog.Logger) *URLTileProvider {
	if len(subdomains) == 0 {
		subdomains = DefaultSubdomains
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if log == nil {
		log = slog.Default()
	}
	return &URLTileProvider{
		Template:   template,
		Subdomains: subdomains,
		UserAgent:  userAgent,
		client:     &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}
}

func (p *URLTileProvider) GetTile(ctx context.Context, tile Tile) (image.Image, error) {
	url := p.GetTileURL(tile)
	p.log.Debug("requesting tile", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for tile %v: %w", tile, err)
	}
	req.Header.Set("User-Agent", p.UserAgent)
	req.Header.Set("Accept", "image/png,image/*;q=0.8,*/*;q=0.5")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tile %v: %w", tile, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch tile %v: unexpected status code: %d", tile, resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode tile %v: %w", tile, err)
	}
	return img, nil
}

// GetTileURL returns the URL for downloading the map tile
func (p *URLTileProvider) GetTileURL(tile Tile) string {
	s := ""
	if len(p.Subdomains) > 0 {
		i := tile.X + tile.Y
		if i < 0 {
			i = -i
		}
		s = p.Subdomains[i%len(p.Subdomains)]
	}
	r := strings.NewReplacer(
		"{s}", s,
		"{z}", strconv.Itoa(tile.Zoom),
		"{x}", strconv.Itoa(tile.X),
		"{y}", strconv.Itoa(tile.Y),
		"{r}", p.Retina,
	)
	return r.Replace(p.Template)
}
