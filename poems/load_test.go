package poems

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const poemsJSON = `[
  {"title": "One", "author": "A", "poem_text": "first", "date_written": "2024-01-01",
   "city": "Bangalore, IN", "landmark": "Cubbon Park", "lat": 12.9763, "lng": 77.5929},
  {"title": "Two", "poem_text": "second", "date_written": "2024-02-02",
   "city": "Delhi, IN", "landmark": "India Gate", "lat": 28.6129, "lng": 77.2295}
]`

const poemsGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature",
     "geometry": {"type": "Point", "coordinates": [77.5929, 12.9763]},
     "properties": {"title": "One", "author": "A", "poem_text": "first", "date_written": "2024-01-01",
                    "city": "Bangalore, IN", "landmark": "Cubbon Park"}},
    {"type": "Feature",
     "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]},
     "properties": {"title": "skipped"}}
  ]
}`

func TestDecodeArray(t *testing.T) {
	list, err := Decode([]byte(poemsJSON))
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, Poem{
		Title: "One", Author: "A", Text: "first", Date: "2024-01-01",
		City: "Bangalore, IN", Landmark: "Cubbon Park", Lat: 12.9763, Lng: 77.5929,
	}, list[0])
	assert.Empty(t, list[1].Author)
}

func TestDecodeGeoJSON(t *testing.T) {
	list, err := Decode([]byte(poemsGeoJSON))
	require.NoError(t, err)
	require.Len(t, list, 1)

	assert.Equal(t, "One", list[0].Title)
	assert.Equal(t, "Cubbon Park", list[0].Landmark)
	assert.InDelta(t, 12.9763, list[0].Lat, 1e-9)
	assert.InDelta(t, 77.5929, list[0].Lng, 1e-9)
	assert.Equal(t, list[0].Lng, list[0].Point().Lon())
}

func TestDecodeInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "poems", `[{"lat": "north"}]`, `{"type": "FeatureCollection", "features": 3}`} {
		_, err := Decode([]byte(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestLoaderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poems.json")
	require.NoError(t, os.WriteFile(path, []byte(poemsJSON), 0o644))

	list, err := NewLoader(nil).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoad)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoaderHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/poems.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(poemsJSON))
		case "/poems.geojson":
			_, _ = w.Write([]byte(poemsGeoJSON))
		case "/broken.json":
			_, _ = w.Write([]byte(`[{"title": `))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	loader := NewLoader(srv.Client())
	ctx := context.Background()

	list, err := loader.Load(ctx, srv.URL+"/poems.json")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = loader.Load(ctx, srv.URL+"/poems.geojson")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = loader.Load(ctx, srv.URL+"/missing.json")
	assert.ErrorIs(t, err, ErrLoad)
	assert.Contains(t, err.Error(), "404")

	_, err = loader.Load(ctx, srv.URL+"/broken.json")
	assert.ErrorIs(t, err, ErrLoad)
}

func TestLoaderCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(poemsJSON))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(srv.Client()).Load(ctx, srv.URL)
	assert.ErrorIs(t, err, ErrLoad)
	assert.ErrorIs(t, err, context.Canceled)
}
