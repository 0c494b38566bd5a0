package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLambert93ToWGS84ProjectionOrigin(t *testing.T) {
	// the false origin maps back to the projection center exactly
	lon, lat := Lambert93ToWGS84(700000, 6600000)

	assert.InDelta(t, 3.0, lon, 1e-9)
	assert.InDelta(t, 46.5, lat, 1e-9)
}

func TestLambert93ToWGS84BrestArea(t *testing.T) {
	lon, lat := Lambert93ToWGS84(150000, 6850000)

	assert.InDelta(t, -4.458323, lon, 1e-4)
	assert.InDelta(t, 48.516297, lat, 1e-4)
}

func TestProjectLineStringConvertsEveryVertex(t *testing.T) {
	line := ProjectLineString([]orb.Point{
		{150000, 6850000},
		{150100, 6850100},
	})

	require.Len(t, line, 2)
	assert.InDelta(t, -4.458323, line[0][0], 1e-4)
	assert.InDelta(t, 48.516297, line[0][1], 1e-4)
	assert.InDelta(t, -4.457102, line[1][0], 1e-4)
	assert.InDelta(t, 48.517277, line[1][1], 1e-4)
}

func TestEncodeGeometryProducesGeoJSON(t *testing.T) {
	encoded, err := EncodeGeometry(orb.Point{-4.48, 48.39})

	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Point","coordinates":[-4.48,48.39]}`, encoded)
}
