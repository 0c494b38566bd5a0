package sarthe

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sutter-pierre/dialog-integrations/internal/frame"
	"github.com/sutter-pierre/dialog-integrations/internal/model"
)

func validatedFrame(t *testing.T, rows ...frame.Row) *frame.Frame {
	t.Helper()
	f := frame.New(rawDataSchema.Columns()...)
	for _, row := range rows {
		f.Append(row)
	}
	validated, err := rawDataSchema.Validate(f)
	require.NoError(t, err)
	return validated
}

func sartheRow(overrides frame.Row) frame.Row {
	row := frame.Row{
		"infobulle":  "D323 Le Mans",
		"loc_txt":    "D323 entre Le Mans et Yvré",
		"VITESSE":    "80",
		"longueur":   "1250.5",
		"annee":      "2023",
		"date_modif": "2023-05-15T10:00:00Z",
		"geo_shape":  `{"type":"LineString","coordinates":[[0.25,48.0],[0.26,48.01]]}`,
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func TestFetchRawDataParsesSemicolonCSV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("infobulle;VITESSE\nD323;80\nD357;70\n"))
	}))
	defer server.Close()

	a := New()
	a.url = server.URL

	f, err := a.FetchRawData(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"infobulle", "VITESSE"}, f.Columns())
	require.Equal(t, 2, f.Len())
	assert.Equal(t, "D323", f.Rows()[0].Str("infobulle"))
	assert.Equal(t, "70", f.Rows()[1].Str("VITESSE"))
}

func TestFetchRawDataSkipsMalformedRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// bare quote on the second data row: that row is lost, the rest
		// of the feed is not
		w.Write([]byte("infobulle;VITESSE\nD323;80\nD3\"57;70\nD100;90\n"))
	}))
	defer server.Close()

	a := New()
	a.url = server.URL

	f, err := a.FetchRawData(context.Background())

	require.NoError(t, err)
	require.Equal(t, 2, f.Len())
	assert.Equal(t, "D323", f.Rows()[0].Str("infobulle"))
	assert.Equal(t, "D100", f.Rows()[1].Str("infobulle"))
}

func TestFetchRawDataFailsOnHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	a := New()
	a.url = server.URL

	_, err := a.FetchRawData(context.Background())
	assert.Error(t, err)
}

func TestComputeCleanDataBuildsSpeedLimitationRecords(t *testing.T) {
	a := New()
	records, err := a.ComputeCleanData(validatedFrame(t, sartheRow(nil)))

	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, string(model.MeasureSpeedLimitation), rec.MeasureType)
	assert.Equal(t, 80, rec.MeasureMaxSpeed)
	assert.Equal(t, model.StatusDraft, rec.RegulationStatus)
	assert.Equal(t, model.CategoryPermanentRegulation, rec.RegulationCategory)
	assert.Equal(t, "Limitation de vitesse", rec.RegulationOtherCategoryText)
	assert.Equal(t, "D323 Le Mans", rec.RegulationTitle)
	assert.Equal(t, "D323 entre Le Mans et Yvré", rec.Location.Label)
	assert.True(t, rec.VehicleSet.AllVehicles)
	assert.True(t, rec.Period.IsPermanent)
	assert.Equal(t, model.RecurrenceEveryDay, rec.Period.RecurrenceType)
}

func TestComputeCleanDataDropsInvalidSpeeds(t *testing.T) {
	a := New()
	records, err := a.ComputeCleanData(validatedFrame(t,
		sartheRow(frame.Row{"VITESSE": ""}),
		sartheRow(frame.Row{"VITESSE": "0", "loc_txt": "b"}),
		sartheRow(frame.Row{"VITESSE": "150", "loc_txt": "c"}),
		sartheRow(frame.Row{"VITESSE": "80", "loc_txt": "d"}),
	))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "d", records[0].Location.Label)
}

func TestComputeCleanDataDropsRowsWithoutGeometry(t *testing.T) {
	a := New()
	records, err := a.ComputeCleanData(validatedFrame(t,
		sartheRow(frame.Row{"geo_shape": ""}),
		sartheRow(frame.Row{"loc_txt": "kept"}),
	))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0].Location.Label)
}

func TestComputeCleanDataStartDateFromAnnee(t *testing.T) {
	a := New()
	records, err := a.ComputeCleanData(validatedFrame(t,
		sartheRow(frame.Row{"annee": "2023"}),
	))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2023-01-01T00:00:00Z", records[0].Period.StartDate)
}

func TestComputeCleanDataStartDateFallsBackToDateModif(t *testing.T) {
	a := New()
	records, err := a.ComputeCleanData(validatedFrame(t,
		sartheRow(frame.Row{"annee": "", "date_modif": "2023-05-15T10:00:00Z"}),
	))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2023-05-15T10:00:00Z", records[0].Period.StartDate)
}

func TestComputeCleanDataTitleFallsBackToInconnu(t *testing.T) {
	a := New()
	records, err := a.ComputeCleanData(validatedFrame(t,
		sartheRow(frame.Row{"infobulle": "", "loc_txt": ""}),
	))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Inconnu", records[0].RegulationTitle)
	// label falls back to the title when loc_txt is empty
	assert.Equal(t, "Inconnu", records[0].Location.Label)
}

func TestComputeCleanDataDropsDuplicatedFallbackIdentifiersWholesale(t *testing.T) {
	a := New()
	records, err := a.ComputeCleanData(validatedFrame(t,
		sartheRow(nil),
		sartheRow(nil), // same loc_txt/VITESSE/longueur: same hash
		sartheRow(frame.Row{"loc_txt": "unique"}),
	))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "unique", records[0].Location.Label)
}

func TestFallbackIdentifierIsDeterministicMD5(t *testing.T) {
	row := frame.Row{"loc_txt": "D323", "VITESSE": int64(80), "longueur": 1250.5}

	expected := md5.Sum([]byte("D323|80|1250.5"))

	assert.Equal(t, hex.EncodeToString(expected[:]), fallbackIdentifier(row))
}
