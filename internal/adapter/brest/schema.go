package brest

import (
	"github.com/sutter-pierre/dialog-integrations/internal/frame"
	"github.com/sutter-pierre/dialog-integrations/internal/model"
)

// rawDataSchema declares the columns used from the Brest shapefile after
// boolean casting. The geometry column is synthesized at fetch time from
// the shape records.
var rawDataSchema = frame.Schema{
	{Name: "NOARR", Type: frame.String, Nullable: true},
	{Name: "DESCRIPTIF", Type: frame.String, Nullable: true},
	{Name: "LIBRU", Type: frame.String, Nullable: true},
	{Name: "LIBCO", Type: frame.String, Nullable: true},
	{Name: "geometry", Type: frame.String, Nullable: true},
	{Name: "SENS", Type: frame.Int, Nullable: true},
	{Name: "VELO", Type: frame.Bool, Nullable: false},
	{Name: "CYCLO", Type: frame.Bool, Nullable: false},
	{Name: "VITEMAX", Type: frame.Int, Nullable: true},
	{Name: "POIDS", Type: frame.Float, Nullable: true},
	{Name: "HAUTEUR", Type: frame.Float, Nullable: true},
	{Name: "LARGEUR", Type: frame.Float, Nullable: true},
	{Name: "DT_MAT", Type: frame.Timestamp, Nullable: true},
}

// measureConfig maps one DESCRIPTIF value to its measure type and fixed
// vehicle-set overrides.
type measureConfig struct {
	measureType     model.MeasureType
	exemptedTypes   []string
	restrictedTypes []string
}

// descriptionConfig lists the DESCRIPTIF values integrated from the Brest
// feed; rows with any other description are dropped.
var descriptionConfig = map[string]measureConfig{
	"Limitation Vitesse":          {measureType: model.MeasureSpeedLimitation},
	"Stationnement interdit":      {measureType: model.MeasureParkingProhibited},
	"Limitation Poids":            {measureType: model.MeasureNoEntry, restrictedTypes: []string{"heavyGoodsVehicle"}},
	"Limitation Hauteur":          {measureType: model.MeasureNoEntry},
	"Sens interdit / Sens unique": {measureType: model.MeasureNoEntry},
}

// oneWayDescription is dropped when SENS is 1: a one-way street in its
// nominal direction is not a restriction.
const oneWayDescription = "Sens interdit / Sens unique"
