// Package adapter provides the common base every source adapter embeds.
package adapter

import (
	"github.com/sutter-pierre/dialog-integrations/internal/frame"
	"github.com/sutter-pierre/dialog-integrations/internal/model"
)

// Base carries the per-adapter configuration supplied at construction: the
// organization key, the draft flag and the raw-data schema contract.
type Base struct {
	organization string
	draft        bool
	schema       frame.Schema
}

// NewBase creates the common adapter base
func NewBase(organization string, draft bool, schema frame.Schema) Base {
	return Base{organization: organization, draft: draft, schema: schema}
}

// Organization returns the configuration key selecting this adapter
func (b *Base) Organization() string {
	return b.organization
}

// Draft reports whether built regulations stay in draft status
func (b *Base) Draft() bool {
	return b.draft
}

// RawDataSchema declares the column contract enforced on raw data
func (b *Base) RawDataSchema() frame.Schema {
	return b.schema
}

// PreprocessRawData is the identity by default; adapters needing light
// preparation before validation override it.
func (b *Base) PreprocessRawData(f *frame.Frame) (*frame.Frame, error) {
	return f, nil
}

// Status maps the draft flag to the regulation status built records carry
func (b *Base) Status() model.RegulationStatus {
	if b.draft {
		return model.StatusDraft
	}
	return model.StatusPublished
}
