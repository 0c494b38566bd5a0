package model

import "fmt"

// Period carries the period fields of one flat regulation-measure record.
// StartDate and the time fields are RFC 3339 strings; empty means absent.
type Period struct {
	StartDate      string
	EndDate        string
	StartTime      string
	EndTime        string
	RecurrenceType RecurrenceType
	IsPermanent    bool
}

// Location carries the location fields of one flat regulation-measure record.
// Geometry is a GeoJSON document; the raw-geometry carrier is always used on
// the wire regardless of RoadType.
type Location struct {
	RoadType RoadType
	Label    string
	Geometry string
}

// VehicleSet carries the vehicle fields of one flat regulation-measure
// record. Zero dimension values mean "no limit declared".
type VehicleSet struct {
	AllVehicles           bool
	HeavyweightMaxWeight  float64
	MaxHeight             float64
	MaxWidth              float64
	ExemptedTypes         []string
	OtherExemptedTypeText string
	RestrictedTypes       []string
}

// FlatRecord is one row per (regulation, measure) pair as produced by an
// adapter's clean-data transform. All rows sharing a RegulationIdentifier
// must carry identical regulation-level values; measure and vehicle fields
// may differ per row.
type FlatRecord struct {
	RegulationIdentifier        string
	RegulationStatus            RegulationStatus
	RegulationCategory          RegulationCategory
	RegulationSubject           RegulationSubject
	RegulationTitle             string
	RegulationOtherCategoryText string

	MeasureType     string
	MeasureMaxSpeed int

	Period     Period
	Location   Location
	VehicleSet VehicleSet
}

// Validate enforces the clean-data output contract. Records failing it are
// rejected row by row during DTO construction, never silently submitted.
func (r FlatRecord) Validate() error {
	var missing []string

	if r.RegulationIdentifier == "" {
		missing = append(missing, "regulation identifier")
	}
	if r.RegulationStatus == "" {
		missing = append(missing, "regulation status")
	}
	if r.RegulationCategory == "" {
		missing = append(missing, "regulation category")
	}
	if r.RegulationSubject == "" {
		missing = append(missing, "regulation subject")
	}
	if r.RegulationTitle == "" {
		missing = append(missing, "regulation title")
	}
	if r.MeasureType == "" {
		missing = append(missing, "measure type")
	}
	if r.Location.Label == "" {
		missing = append(missing, "location label")
	}
	if r.Location.Geometry == "" {
		missing = append(missing, "location geometry")
	}
	if r.Period.StartDate == "" {
		missing = append(missing, "period start date")
	}
	if r.Period.RecurrenceType == "" {
		missing = append(missing, "period recurrence type")
	}

	if len(missing) > 0 {
		return fmt.Errorf("incomplete record: missing %v", missing)
	}
	return nil
}

// RegulationDTO is the wire-level unit submitted to the registry: one
// identifier and an ordered list of measures.
type RegulationDTO struct {
	Identifier        string             `json:"identifier"`
	Category          RegulationCategory `json:"category"`
	Status            RegulationStatus   `json:"status"`
	Subject           RegulationSubject  `json:"subject"`
	Title             string             `json:"title"`
	OtherCategoryText string             `json:"otherCategoryText,omitempty"`
	Measures          []MeasureDTO       `json:"measures"`
}

// MeasureDTO is one wire-level measure: a type, an optional max speed
// (speed limitation only), exactly one period, one location and one
// vehicle set.
type MeasureDTO struct {
	Type       MeasureType   `json:"type"`
	MaxSpeed   int           `json:"maxSpeed,omitempty"`
	Periods    []PeriodDTO   `json:"periods"`
	Locations  []LocationDTO `json:"locations"`
	VehicleSet VehicleSetDTO `json:"vehicleSet"`
}

// PeriodDTO is the wire-level period of a measure
type PeriodDTO struct {
	StartDate      string         `json:"startDate"`
	EndDate        string         `json:"endDate,omitempty"`
	StartTime      string         `json:"startTime,omitempty"`
	EndTime        string         `json:"endTime,omitempty"`
	RecurrenceType RecurrenceType `json:"recurrenceType"`
	IsPermanent    bool           `json:"isPermanent"`
}

// RawGeoJSONDTO carries a labelled raw geometry
type RawGeoJSONDTO struct {
	Label    string `json:"label"`
	Geometry string `json:"geometry"`
}

// LocationDTO is the wire-level location of a measure. The raw-geometry
// carrier is always populated, whatever the declared road type.
type LocationDTO struct {
	RoadType   RoadType       `json:"roadType"`
	RawGeoJSON *RawGeoJSONDTO `json:"rawGeoJson,omitempty"`
}

// VehicleSetDTO is the wire-level vehicle set of a measure. The remote
// schema treats {allVehicles: true} with no other field as the canonical
// minimal form; omitempty tags keep the serialization minimal.
type VehicleSetDTO struct {
	AllVehicles           bool     `json:"allVehicles"`
	HeavyweightMaxWeight  float64  `json:"heavyweightMaxWeight,omitempty"`
	MaxHeight             float64  `json:"maxHeight,omitempty"`
	MaxWidth              float64  `json:"maxWidth,omitempty"`
	ExemptedTypes         []string `json:"exemptedTypes,omitempty"`
	OtherExemptedTypeText string   `json:"otherExemptedTypeText,omitempty"`
	RestrictedTypes       []string `json:"restrictedTypes,omitempty"`
}

// IsAllVehiclesOnly reports whether the set carries nothing beyond the
// all-vehicles flag.
func (v VehicleSetDTO) IsAllVehiclesOnly() bool {
	return v.AllVehicles &&
		v.HeavyweightMaxWeight == 0 &&
		v.MaxHeight == 0 &&
		v.MaxWidth == 0 &&
		len(v.ExemptedTypes) == 0 &&
		v.OtherExemptedTypeText == "" &&
		len(v.RestrictedTypes) == 0
}
