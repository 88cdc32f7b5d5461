package examsift

import (
	"context"

	"github.com/sijun-lee/examsift/bundle"
	"github.com/sijun-lee/examsift/model"
	"github.com/sijun-lee/examsift/pipeline"
)

// Extractor provides a fluent interface for extracting structured
// questions and assets from an exam bundle. Each configuration method
// returns a new Extractor instance, making it safe for concurrent use and
// allowing method chaining.
type Extractor struct {
	// Source
	dir string

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		dir:     e.dir,
		options: e.options.clone(),
		err:     e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// WithLayout enables the layout-analysis stage against the given service
// endpoint. The key is required; extraction fails with
// ErrMissingCredentials when it is empty.
//
// Example:
//
//	result, _, err := examsift.Open(dir).WithLayout(baseURL, key).Extract(ctx)
func (e *Extractor) WithLayout(baseURL, apiKey string) *Extractor {
	newExt := e.clone()
	newExt.options.layoutBaseURL = baseURL
	newExt.options.layoutAPIKey = apiKey
	return newExt
}

// WithVision enables the vision-extraction stage with the given API key.
//
// Example:
//
//	result, _, err := examsift.Open(dir).WithVision(key).Extract(ctx)
func (e *Extractor) WithVision(apiKey string) *Extractor {
	newExt := e.clone()
	newExt.options.visionAPIKey = apiKey
	return newExt
}

// VisionModel overrides the vision model identifier.
func (e *Extractor) VisionModel(model string) *Extractor {
	newExt := e.clone()
	newExt.options.visionModel = model
	return newExt
}

// AssetDir sets the directory rendered asset crops are written into.
// An empty directory disables crop rendering.
//
// Example:
//
//	result, _, err := examsift.Open(dir).AssetDir("out/assets").Extract(ctx)
func (e *Extractor) AssetDir(dir string) *Extractor {
	newExt := e.clone()
	newExt.options.assetDir = dir
	return newExt
}

// Taxonomy sets the classification values passed to the vision service
// as hints. Multiple calls are cumulative.
func (e *Extractor) Taxonomy(values ...string) *Extractor {
	newExt := e.clone()
	newExt.options.taxonomy = append(newExt.options.taxonomy, values...)
	return newExt
}

// Workers bounds the concurrent per-page vision calls.
func (e *Extractor) Workers(n int) *Extractor {
	newExt := e.clone()
	newExt.options.workers = n
	return newExt
}

// DPI sets the page rasterization density. Crops inherit it as their
// source density.
func (e *Extractor) DPI(dpi int) *Extractor {
	newExt := e.clone()
	newExt.options.dpi = dpi
	return newExt
}

// WithEnricher installs the external classification enricher applied to
// question records after the merge.
func (e *Extractor) WithEnricher(enricher pipeline.Enricher) *Extractor {
	newExt := e.clone()
	newExt.options.enricher = enricher
	return newExt
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// Extract runs the full pipeline over the bundle and returns the
// structured result.
//
// Returns the result, any warnings encountered during processing, and an
// error if extraction failed. Warnings indicate non-fatal issues (skipped
// pages or assets, synthetic or low-confidence regions) where extraction
// succeeded but results may be imperfect.
//
// Example:
//
//	result, warnings, err := examsift.Open("exams/2024-midterm").Extract(ctx)
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", examsift.FormatWarnings(warnings))
//	}
func (e *Extractor) Extract(ctx context.Context) (*pipeline.Result, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	b, err := bundle.Discover(e.dir)
	if err != nil {
		return nil, nil, err
	}

	orchestrator, err := pipeline.New(e.options.pipelineConfig())
	if err != nil {
		return nil, nil, err
	}
	if e.options.enricher != nil {
		orchestrator.SetEnricher(e.options.enricher)
	}

	result, err := orchestrator.Run(ctx, b)
	if err != nil {
		return nil, nil, err
	}
	return result, warningsFrom(result.Diagnostics), nil
}

// Questions runs the pipeline and returns only the question records,
// discarding warnings. Convenience wrapper over Extract.
//
// Example:
//
//	qs, err := examsift.Open("exams/2024-midterm").Questions(ctx)
func (e *Extractor) Questions(ctx context.Context) ([]*model.QuestionRecord, error) {
	result, _, err := e.Extract(ctx)
	if err != nil {
		return nil, err
	}
	return result.Questions, nil
}
