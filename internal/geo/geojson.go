package geo

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// EncodeGeometry serializes an orb geometry as a GeoJSON geometry document
func EncodeGeometry(g orb.Geometry) (string, error) {
	data, err := json.Marshal(geojson.NewGeometry(g))
	if err != nil {
		return "", fmt.Errorf("encode geometry: %w", err)
	}
	return string(data), nil
}

// ProjectLineString converts a Lambert-93 point sequence to a WGS84 line
// string.
func ProjectLineString(points []orb.Point) orb.LineString {
	line := make(orb.LineString, len(points))
	for i, p := range points {
		lon, lat := Lambert93ToWGS84(p[0], p[1])
		line[i] = orb.Point{lon, lat}
	}
	return line
}
