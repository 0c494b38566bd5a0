package core

import (
	"fmt"
	"log/slog"

	"github.com/sutter-pierre/dialog-integrations/internal/model"
)

// MeasureFunc builds the wire-level measure for one flat record. Adapters
// implementing model.MeasureBuilder replace the default.
type MeasureFunc func(model.FlatRecord) (model.MeasureDTO, error)

// BuildResult aggregates the outcome of grouping flat records into
// regulation DTOs.
type BuildResult struct {
	Regulations     []model.RegulationDTO
	Measures        int
	SkippedMeasures int
	DroppedGroups   int
}

// BuildRegulations groups flat records by regulation identifier and builds
// one regulation DTO per group, one measure per row.
//
// Group order follows first appearance of each identifier; within-group row
// order is preserved. A row whose measure cannot be built is logged and
// skipped; a group yielding no valid measure is dropped entirely — a
// regulation is never submitted without measures. Regulation-level fields
// come from the first row of the group.
func BuildRegulations(records []model.FlatRecord, createMeasure MeasureFunc, logger *slog.Logger) BuildResult {
	if createMeasure == nil {
		createMeasure = BuildMeasure
	}
	if logger == nil {
		logger = slog.Default()
	}

	var order []string
	groups := make(map[string][]model.FlatRecord)
	for _, rec := range records {
		id := rec.RegulationIdentifier
		if _, seen := groups[id]; !seen {
			order = append(order, id)
		}
		groups[id] = append(groups[id], rec)
	}

	var result BuildResult
	for _, id := range order {
		rows := groups[id]

		measures := make([]model.MeasureDTO, 0, len(rows))
		for _, rec := range rows {
			measure, err := createMeasure(rec)
			if err != nil {
				logger.Error("error creating measure",
					"regulation", id,
					"error", err,
				)
				result.SkippedMeasures++
				continue
			}
			measures = append(measures, measure)
		}

		if len(measures) == 0 {
			logger.Warn("dropping regulation without valid measures", "regulation", id)
			result.DroppedGroups++
			continue
		}

		first := rows[0]
		result.Regulations = append(result.Regulations, model.RegulationDTO{
			Identifier:        id,
			Category:          first.RegulationCategory,
			Status:            first.RegulationStatus,
			Subject:           first.RegulationSubject,
			Title:             first.RegulationTitle,
			OtherCategoryText: first.RegulationOtherCategoryText,
			Measures:          measures,
		})
		result.Measures += len(measures)
	}

	return result
}

// BuildMeasure is the default measure construction: it validates the record
// contract, resolves the measure type and assembles the period, location
// and vehicle-set DTOs from the record's sub-records.
func BuildMeasure(rec model.FlatRecord) (model.MeasureDTO, error) {
	if err := rec.Validate(); err != nil {
		return model.MeasureDTO{}, err
	}

	measureType, err := model.ParseMeasureType(rec.MeasureType)
	if err != nil {
		return model.MeasureDTO{}, err
	}

	measure := model.MeasureDTO{
		Type:       measureType,
		Periods:    []model.PeriodDTO{buildPeriod(rec.Period)},
		Locations:  []model.LocationDTO{buildLocation(rec.Location)},
		VehicleSet: buildVehicleSet(rec.VehicleSet),
	}

	if measureType == model.MeasureSpeedLimitation {
		if rec.MeasureMaxSpeed <= 0 {
			return model.MeasureDTO{}, fmt.Errorf("speed limitation requires a max speed, got %d", rec.MeasureMaxSpeed)
		}
		measure.MaxSpeed = rec.MeasureMaxSpeed
	}

	return measure, nil
}

func buildPeriod(p model.Period) model.PeriodDTO {
	return model.PeriodDTO{
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		StartTime:      p.StartTime,
		EndTime:        p.EndTime,
		RecurrenceType: p.RecurrenceType,
		IsPermanent:    p.IsPermanent,
	}
}

// buildLocation always uses the raw-geometry carrier, whatever the declared
// road type.
func buildLocation(l model.Location) model.LocationDTO {
	roadType := l.RoadType
	if roadType == "" {
		roadType = model.RoadTypeRawGeoJSON
	}
	return model.LocationDTO{
		RoadType: roadType,
		RawGeoJSON: &model.RawGeoJSONDTO{
			Label:    l.Label,
			Geometry: l.Geometry,
		},
	}
}

// buildVehicleSet normalizes a set carrying only the all-vehicles flag to
// the minimal single-field form, which the remote schema treats as
// canonical.
func buildVehicleSet(v model.VehicleSet) model.VehicleSetDTO {
	dto := model.VehicleSetDTO{
		AllVehicles:           v.AllVehicles,
		HeavyweightMaxWeight:  v.HeavyweightMaxWeight,
		MaxHeight:             v.MaxHeight,
		MaxWidth:              v.MaxWidth,
		ExemptedTypes:         v.ExemptedTypes,
		OtherExemptedTypeText: v.OtherExemptedTypeText,
		RestrictedTypes:       v.RestrictedTypes,
	}
	if dto.IsAllVehiclesOnly() {
		return model.VehicleSetDTO{AllVehicles: true}
	}
	return dto
}
