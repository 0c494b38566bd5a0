package model

import "fmt"

// RegulationCategory classifies a regulation on the Dialog registry
type RegulationCategory string

const (
	// CategoryPermanentRegulation represents a permanent traffic regulation
	CategoryPermanentRegulation RegulationCategory = "permanentRegulation"
	// CategoryTemporaryRegulation represents a time-bounded traffic regulation
	CategoryTemporaryRegulation RegulationCategory = "temporaryRegulation"
)

// RegulationStatus represents the publication status of a regulation
type RegulationStatus string

const (
	// StatusDraft marks a regulation as not yet visible on the registry
	StatusDraft RegulationStatus = "draft"
	// StatusPublished marks a regulation as publicly visible
	StatusPublished RegulationStatus = "published"
)

// RegulationSubject represents the subject of a regulation
type RegulationSubject string

const (
	// SubjectOther is used when no dedicated subject applies
	SubjectOther RegulationSubject = "other"
)

// MeasureType represents the kind of restriction a measure imposes
type MeasureType string

const (
	// MeasureNoEntry forbids entry to the located area
	MeasureNoEntry MeasureType = "noEntry"
	// MeasureSpeedLimitation caps the speed on the located area
	MeasureSpeedLimitation MeasureType = "speedLimitation"
	// MeasureParkingProhibited forbids parking on the located area
	MeasureParkingProhibited MeasureType = "parkingProhibited"
)

// ParseMeasureType converts a stored string value to a MeasureType.
// Unknown values return an error so the caller can fail a single measure
// without aborting the run.
func ParseMeasureType(s string) (MeasureType, error) {
	switch MeasureType(s) {
	case MeasureNoEntry, MeasureSpeedLimitation, MeasureParkingProhibited:
		return MeasureType(s), nil
	}
	return "", fmt.Errorf("unknown measure type %q", s)
}

// RoadType describes how a measure location is expressed
type RoadType string

const (
	// RoadTypeRawGeoJSON locates a measure with a raw GeoJSON geometry
	RoadTypeRawGeoJSON RoadType = "rawGeoJson"
)

// RecurrenceType describes how a period repeats
type RecurrenceType string

const (
	// RecurrenceEveryDay applies the period every day
	RecurrenceEveryDay RecurrenceType = "everyDay"
)

// IntegrationReport summarizes a single integrate run
type IntegrationReport struct {
	RunID        string `json:"run_id"`
	Organization string `json:"organization"`
	RawRows      int    `json:"raw_rows"`
	ValidRows    int    `json:"valid_rows"`
	CleanRows    int    `json:"clean_rows"`
	Regulations  int    `json:"regulations"`
	Measures     int    `json:"measures"`
	Known        int    `json:"known_identifiers"`
	Submitted    int    `json:"submitted"`
	Failed       int    `json:"failed"`
	Total        int    `json:"total"`
}

// PublishReport summarizes a single publish-all run
type PublishReport struct {
	RunID        string `json:"run_id"`
	Organization string `json:"organization"`
	Succeeded    int    `json:"succeeded"`
	Failed       int    `json:"failed"`
	Total        int    `json:"total"`
}
