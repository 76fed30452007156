// Package poems loads the poem collection and holds the static city atlas
// used to place and colour pins.
package poems

import "github.com/paulmach/orb"

// Poem is one geotagged poem. Field names follow poems.json.
type Poem struct {
	Title    string  `json:"title"`
	Author   string  `json:"author,omitempty"`
	Text     string  `json:"poem_text"`
	Date     string  `json:"date_written"`
	City     string  `json:"city"`
	Landmark string  `json:"landmark"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// Point returns the poem location as an orb point (lng, lat).
func (p Poem) Point() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// AuthorLine is the line shown under the title: "Author · coords", or the
// coordinates alone when the poem has no author.
func (p Poem) AuthorLine() string {
	coords := FormatCoords(p.Lat, p.Lng)
	if p.Author == "" {
		return coords
	}
	return p.Author + " · " + coords
}
