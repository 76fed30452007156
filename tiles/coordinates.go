package tiles

import (
	"image"
	"math"
)

const (
	TileSize = 256
	// MaxLatitude is the web mercator cut-off.
	MaxLatitude = 85.05112878
)

// Tile represents a map tile coordinates
type Tile struct {
	X, Y, Zoom int
}

// LatLng represents a geographical point
type LatLng struct {
	Lat, Lng float64
}

// Clamp keeps the point inside the projectable range.
func (ll LatLng) Clamp() LatLng {
	ll.Lat = max(-MaxLatitude, min(ll.Lat, MaxLatitude))
	for ll.Lng < -180 {
		ll.Lng += 360
	}
	for ll.Lng > 180 {
		ll.Lng -= 360
	}
	return ll
}

// LatLngToTile converts geographical coordinates to tile coordinates
func LatLngToTile(ll LatLng, zoom int) Tile {
	x, y := CalculateWorldCoordinates(ll, float64(zoom))
	return Tile{X: int(x / TileSize), Y: int(y / TileSize), Zoom: zoom}
}

// CalculateWorldCoordinates converts geographical coordinates to world pixel coordinates at given zoom level.
// Fractional zoom levels are allowed.
func CalculateWorldCoordinates(ll LatLng, zoom float64) (float64, float64) {
	ll = ll.Clamp()
	n := math.Pow(2, zoom)
	latRad := ll.Lat * math.Pi / 180.0
	worldX := float64(TileSize) * n * (ll.Lng + 180) / 360
	worldY := float64(TileSize) * n * (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2
	return worldX, worldY
}

// WorldToLatLng converts world pixel coordinates back to geographical coordinates
func WorldToLatLng(worldX, worldY float64, zoom float64) LatLng {
	n := math.Pow(2, zoom)
	lng := (worldX/(float64(TileSize)*n))*360 - 180
	latRad := math.Pi * (1 - 2*worldY/(float64(TileSize)*n))
	lat := 180 / math.Pi * math.Atan(math.Sinh(latRad))
	return LatLng{Lat: lat, Lng: lng}
}

// ValidTile reports whether the tile exists at its zoom level.
func ValidTile(tile Tile) bool {
	n := 1 << tile.Zoom
	return tile.Zoom >= 0 && tile.X >= 0 && tile.Y >= 0 && tile.X < n && tile.Y < n
}

// CalculateVisibleTiles calculates which tiles cover a viewport of the given size
// (in tile pixels at zoom) around center. Tiles outside the world are skipped.
func CalculateVisibleTiles(center LatLng, zoom int, viewport image.Point) []Tile {
	cx, cy := CalculateWorldCoordinates(center, float64(zoom))
	halfW := float64(viewport.X) / 2
	halfH := float64(viewport.Y) / 2

	startX := int(math.Floor((cx - halfW) / TileSize))
	endX := int(math.Floor((cx + halfW) / TileSize))
	startY := int(math.Floor((cy - halfH) / TileSize))
	endY := int(math.Floor((cy + halfH) / TileSize))

	visibleTiles := make([]Tile, 0, (endX-startX+1)*(endY-startY+1))
	for x := startX; x <= endX; x++ {
		for y := startY; y <= endY; y++ {
			tile := Tile{X: x, Y: y, Zoom: zoom}
			if !ValidTile(tile) {
				continue
			}
			visibleTiles = append(visibleTiles, tile)
		}
	}
	return visibleTiles
}
