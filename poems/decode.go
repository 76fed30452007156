package poems

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var errUnknownFormat = errors.New("expected a JSON array of poems or a GeoJSON FeatureCollection")

// Decode parses either the poems.json array format or a GeoJSON
// FeatureCollection whose Point features carry the poem fields as properties.
func Decode(data []byte) ([]Poem, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errUnknownFormat
	}

	switch trimmed[0] {
	case '[':
		var list []Poem
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode poems: %w", err)
		}
		return list, nil
	case '{':
		return decodeFeatureCollection(trimmed)
	default:
		return nil, errUnknownFormat
	}
}

func decodeFeatureCollection(data []byte) ([]Poem, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	list := make([]Poem, 0, len(fc.Features))
	for _, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		props := f.Properties
		list = append(list, Poem{
			Title:    props.MustString("title", ""),
			Author:   props.MustString("author", ""),
			Text:     props.MustString("poem_text", ""),
			Date:     props.MustString("date_written", ""),
			City:     props.MustString("city", ""),
			Landmark: props.MustString("landmark", ""),
			Lat:      pt.Lat(),
			Lng:      pt.Lon(),
		})
	}
	return list, nil
}
