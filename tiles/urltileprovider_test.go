package tiles

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTileURL(t *testing.T) {
	p := NewURLTileProvider(CartoDarkURL, nil, "", nil)

	cases := []struct {
		tile Tile
		want string
	}{
		{Tile{X: 0, Y: 0, Zoom: 0}, "https://a.basemaps.cartocdn.com/dark_all/0/0/0.png"},
		{Tile{X: 5861, Y: 3798, Zoom: 13}, "https://d.basemaps.cartocdn.com/dark_all/13/5861/3798.png"},
		{Tile{X: 2, Y: 3, Zoom: 3}, "https://b.basemaps.cartocdn.com/dark_all/3/2/3.png"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, p.GetTileURL(tc.tile))
	}

	p.Retina = "@2x"
	assert.Equal(t, "https://c.basemaps.cartocdn.com/dark_all/1/1/1@2x.png", p.GetTileURL(Tile{X: 1, Y: 1, Zoom: 1}))
}

func TestURLTileProviderGetTile(t *testing.T) {
	var buf bytes.Buffer
	src := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	src.Set(5, 5, color.RGBA{R: 255, A: 255})
	require.NoError(t, png.Encode(&buf, src))

	var gotUA, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		if r.URL.Path == "/4/1/2.png" {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(buf.Bytes())
			return
		}
		http.Error(w, "no tile", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewURLTileProvider(srv.URL+"/{z}/{x}/{y}{r}.png", nil, "poemap-test", nil)

	img, err := p.GetTile(context.Background(), Tile{X: 1, Y: 2, Zoom: 4})
	require.NoError(t, err)
	assert.Equal(t, "poemap-test", gotUA)
	assert.Equal(t, "/4/1/2.png", gotPath)
	assert.Equal(t, TileSize, img.Bounds().Dx())
	r, _, _, _ := img.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), r)

	_, err = p.GetTile(context.Background(), Tile{X: 9, Y: 9, Zoom: 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestLocalTileProvider(t *testing.T) {
	for _, dark := range []bool{true, false} {
		p := NewLocalTileProvider(dark)
		img, err := p.GetTile(context.Background(), Tile{X: 10, Y: 20, Zoom: 6})
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, TileSize, TileSize), img.Bounds())
		assert.Equal(t, p.Border, img.At(0, 0))
		assert.Equal(t, p.Background, img.At(40, 40))
	}
}
