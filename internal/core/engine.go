// Package core drives the generic integration pipeline every source
// adapter plugs into: schema validation, record grouping, publish diffing
// and the submit/publish loops.
package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sutter-pierre/dialog-integrations/internal/logging"
	"github.com/sutter-pierre/dialog-integrations/internal/model"
)

// identifierSuffix is appended to every built identifier before diffing
// and submission, to disambiguate reruns.
const identifierSuffix = "-0"

// RegistryClient is the remote regulation registry as seen by the engine
type RegistryClient interface {
	// KnownIdentifiers fetches the identifiers already registered
	KnownIdentifiers(ctx context.Context) ([]string, error)

	// SubmitRegulation registers one new regulation
	SubmitRegulation(ctx context.Context, regulation model.RegulationDTO) error

	// PublishRegulation publishes one registered regulation
	PublishRegulation(ctx context.Context, identifier string) error
}

// Engine runs the integration pipeline for one adapter against one
// registry. All steps execute sequentially on the calling goroutine; remote
// calls are blocking and issued one at a time.
type Engine struct {
	adapter model.SourceAdapter
	client  RegistryClient
	runID   string
}

// NewEngine creates an engine for one run
func NewEngine(adapter model.SourceAdapter, client RegistryClient) *Engine {
	return &Engine{
		adapter: adapter,
		client:  client,
		runID:   uuid.NewString(),
	}
}

// Integrate runs fetch → preprocess → validate → clean → group → diff →
// submit. Failures up to and including the known-identifier fetch abort the
// run; per-regulation submission failures are counted and logged, never
// propagated.
func (e *Engine) Integrate(ctx context.Context) (*model.IntegrationReport, error) {
	logger := logging.ForRun(e.adapter.Organization(), e.runID)
	report := &model.IntegrationReport{
		RunID:        e.runID,
		Organization: e.adapter.Organization(),
	}

	raw, err := e.adapter.FetchRawData(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch raw data: %w", err)
	}
	report.RawRows = raw.Len()
	logger.Info("fetched raw data", "rows", report.RawRows)

	preprocessed, err := e.adapter.PreprocessRawData(raw)
	if err != nil {
		return nil, fmt.Errorf("preprocess raw data: %w", err)
	}

	validated, err := e.adapter.RawDataSchema().Validate(preprocessed)
	if err != nil {
		return nil, fmt.Errorf("validate raw data: %w", err)
	}
	report.ValidRows = validated.Len()

	records, err := e.adapter.ComputeCleanData(validated)
	if err != nil {
		return nil, fmt.Errorf("compute clean data: %w", err)
	}
	report.CleanRows = len(records)
	logger.Info("computed clean data", "rows", report.CleanRows)

	createMeasure := MeasureFunc(BuildMeasure)
	if builder, ok := e.adapter.(model.MeasureBuilder); ok {
		createMeasure = builder.CreateMeasure
	}

	built := BuildRegulations(records, createMeasure, logger)
	report.Regulations = len(built.Regulations)
	report.Measures = built.Measures
	logger.Info("built regulations",
		"regulations", report.Regulations,
		"measures", report.Measures,
		"skipped_measures", built.SkippedMeasures,
		"dropped_regulations", built.DroppedGroups,
	)

	for i := range built.Regulations {
		built.Regulations[i].Identifier += identifierSuffix
	}

	// without the registry snapshot, diffing is unsafe: abort before any
	// submission
	known, err := e.client.KnownIdentifiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch known identifiers: %w", err)
	}
	report.Known = len(known)

	knownSet := make(map[string]struct{}, len(known))
	for _, id := range known {
		knownSet[id] = struct{}{}
	}

	for _, regulation := range built.Regulations {
		if _, exists := knownSet[regulation.Identifier]; exists {
			continue
		}
		report.Total++
		if err := e.client.SubmitRegulation(ctx, regulation); err != nil {
			logger.Error("error submitting regulation",
				"identifier", regulation.Identifier,
				"error", err,
			)
			report.Failed++
			continue
		}
		report.Submitted++
	}

	logger.Info("integration run complete",
		"submitted", report.Submitted,
		"failed", report.Failed,
		"total", report.Total,
	)
	return report, nil
}

// Publish fetches every known identifier and invokes the remote publish
// action for each. Per-identifier failures are counted and the loop
// continues; every identifier is attempted exactly once.
func (e *Engine) Publish(ctx context.Context) (*model.PublishReport, error) {
	logger := logging.ForRun(e.adapter.Organization(), e.runID)
	report := &model.PublishReport{
		RunID:        e.runID,
		Organization: e.adapter.Organization(),
	}

	known, err := e.client.KnownIdentifiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch known identifiers: %w", err)
	}
	report.Total = len(known)

	for _, identifier := range known {
		if err := e.client.PublishRegulation(ctx, identifier); err != nil {
			logger.Error("error publishing regulation",
				"identifier", identifier,
				"error", err,
			)
			report.Failed++
			continue
		}
		report.Succeeded++
	}

	logger.Info("publish run complete",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"total", report.Total,
	)
	return report, nil
}
