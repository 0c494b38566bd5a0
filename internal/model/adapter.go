package model

import (
	"context"

	"github.com/sutter-pierre/dialog-integrations/internal/frame"
)

// SourceAdapter is implemented once per open-data source. The engine drives
// every adapter through the same fetch → preprocess → validate → clean
// sequence; adapters only supply the source-specific column mapping.
type SourceAdapter interface {
	// Organization returns the configuration key selecting this adapter
	Organization() string

	// RawDataSchema declares the column contract enforced on raw data
	RawDataSchema() frame.Schema

	// Draft reports whether built regulations stay in draft status
	Draft() bool

	// FetchRawData downloads and parses the source feed into a raw frame
	FetchRawData(ctx context.Context) (*frame.Frame, error)

	// PreprocessRawData applies source-specific light preparation before
	// schema validation (identity by default)
	PreprocessRawData(f *frame.Frame) (*frame.Frame, error)

	// ComputeCleanData converts the validated frame into flat
	// regulation-measure records
	ComputeCleanData(f *frame.Frame) ([]FlatRecord, error)
}

// MeasureBuilder is an optional adapter capability replacing the generic
// measure construction. The engine detects it by type assertion.
type MeasureBuilder interface {
	// CreateMeasure builds the wire-level measure for one flat record
	CreateMeasure(rec FlatRecord) (MeasureDTO, error)
}
