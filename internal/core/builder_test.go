package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sutter-pierre/dialog-integrations/internal/model"
)

func validRecord(identifier string) model.FlatRecord {
	return model.FlatRecord{
		RegulationIdentifier:        identifier,
		RegulationStatus:            model.StatusPublished,
		RegulationCategory:          model.CategoryPermanentRegulation,
		RegulationSubject:           model.SubjectOther,
		RegulationTitle:             "Limitation Vitesse – Rue A",
		RegulationOtherCategoryText: "Circulation",
		MeasureType:                 string(model.MeasureSpeedLimitation),
		MeasureMaxSpeed:             50,
		Period: model.Period{
			StartDate:      "2023-06-15T00:00:00Z",
			RecurrenceType: model.RecurrenceEveryDay,
			IsPermanent:    true,
		},
		Location: model.Location{
			RoadType: model.RoadTypeRawGeoJSON,
			Label:    "Brest – Rue A",
			Geometry: `{"type":"Point","coordinates":[-4.48,48.39]}`,
		},
		VehicleSet: model.VehicleSet{AllVehicles: true},
	}
}

func TestBuildRegulationsGroupsByIdentifier(t *testing.T) {
	records := []model.FlatRecord{
		validRecord("A"),
		validRecord("B"),
		validRecord("A"),
	}

	result := BuildRegulations(records, nil, nil)

	require.Len(t, result.Regulations, 2)
	assert.Equal(t, "A", result.Regulations[0].Identifier)
	assert.Len(t, result.Regulations[0].Measures, 2)
	assert.Equal(t, "B", result.Regulations[1].Identifier)
	assert.Len(t, result.Regulations[1].Measures, 1)
	assert.Equal(t, 3, result.Measures)
}

func TestBuildRegulationsTakesRegulationFieldsFromFirstRow(t *testing.T) {
	first := validRecord("A")
	first.RegulationTitle = "Limitation Vitesse – Rue A"
	second := validRecord("A")

	result := BuildRegulations([]model.FlatRecord{first, second}, nil, nil)

	require.Len(t, result.Regulations, 1)
	regulation := result.Regulations[0]
	assert.Equal(t, first.RegulationTitle, regulation.Title)
	assert.Equal(t, first.RegulationStatus, regulation.Status)
	assert.Equal(t, first.RegulationCategory, regulation.Category)
	assert.Equal(t, first.RegulationSubject, regulation.Subject)
	assert.Equal(t, first.RegulationOtherCategoryText, regulation.OtherCategoryText)
}

func TestBuildRegulationsSkipsFailingMeasuresOnly(t *testing.T) {
	good := validRecord("A")
	bad := validRecord("A")
	bad.MeasureType = "notAMeasureType"

	result := BuildRegulations([]model.FlatRecord{good, bad}, nil, nil)

	require.Len(t, result.Regulations, 1)
	assert.Len(t, result.Regulations[0].Measures, 1)
	assert.Equal(t, 1, result.SkippedMeasures)
	assert.Equal(t, 0, result.DroppedGroups)
}

func TestBuildRegulationsDropsGroupWithoutValidMeasures(t *testing.T) {
	bad1 := validRecord("B")
	bad1.MeasureType = "notAMeasureType"
	bad2 := validRecord("B")
	bad2.Location.Geometry = ""

	result := BuildRegulations([]model.FlatRecord{validRecord("A"), bad1, bad2}, nil, nil)

	require.Len(t, result.Regulations, 1)
	assert.Equal(t, "A", result.Regulations[0].Identifier)
	assert.Equal(t, 1, result.DroppedGroups)
	assert.Equal(t, 2, result.SkippedMeasures)
}

func TestBuildRegulationsUsesCustomMeasureFunc(t *testing.T) {
	called := 0
	custom := func(rec model.FlatRecord) (model.MeasureDTO, error) {
		called++
		return model.MeasureDTO{Type: model.MeasureNoEntry}, nil
	}

	result := BuildRegulations([]model.FlatRecord{validRecord("A")}, custom, nil)

	assert.Equal(t, 1, called)
	require.Len(t, result.Regulations, 1)
	assert.Equal(t, model.MeasureNoEntry, result.Regulations[0].Measures[0].Type)
}

func TestBuildMeasureRequiresPositiveSpeedForSpeedLimitation(t *testing.T) {
	rec := validRecord("A")
	rec.MeasureMaxSpeed = 0

	_, err := BuildMeasure(rec)

	assert.Error(t, err)
}

func TestBuildMeasureOmitsMaxSpeedForOtherTypes(t *testing.T) {
	rec := validRecord("A")
	rec.MeasureType = string(model.MeasureParkingProhibited)
	rec.MeasureMaxSpeed = 50

	measure, err := BuildMeasure(rec)

	require.NoError(t, err)
	assert.Equal(t, 0, measure.MaxSpeed)
}

func TestBuildMeasureRejectsIncompleteRecord(t *testing.T) {
	rec := validRecord("A")
	rec.Period.StartDate = ""

	_, err := BuildMeasure(rec)

	assert.Error(t, err)
}

func TestBuildMeasureAlwaysUsesRawGeometryCarrier(t *testing.T) {
	rec := validRecord("A")

	measure, err := BuildMeasure(rec)

	require.NoError(t, err)
	require.Len(t, measure.Locations, 1)
	location := measure.Locations[0]
	require.NotNil(t, location.RawGeoJSON)
	assert.Equal(t, "Brest – Rue A", location.RawGeoJSON.Label)
	assert.Equal(t, rec.Location.Geometry, location.RawGeoJSON.Geometry)
}

func TestVehicleSetCollapsesToMinimalForm(t *testing.T) {
	rec := validRecord("A")
	rec.VehicleSet = model.VehicleSet{AllVehicles: true}

	measure, err := BuildMeasure(rec)
	require.NoError(t, err)

	serialized, err := json.Marshal(measure.VehicleSet)
	require.NoError(t, err)
	assert.JSONEq(t, `{"allVehicles":true}`, string(serialized))
}

func TestVehicleSetWithDimensionsKeepsAllFields(t *testing.T) {
	rec := validRecord("A")
	rec.VehicleSet = model.VehicleSet{AllVehicles: true, MaxHeight: 3.5}

	measure, err := BuildMeasure(rec)
	require.NoError(t, err)

	serialized, err := json.Marshal(measure.VehicleSet)
	require.NoError(t, err)
	assert.JSONEq(t, `{"allVehicles":true,"maxHeight":3.5}`, string(serialized))
}
