package examsift

import "github.com/sijun-lee/examsift/pipeline"

// ExtractOptions holds configuration for exam extraction.
type ExtractOptions struct {
	// Asset output
	assetDir string

	// Stage toggles and credentials
	layoutBaseURL string
	layoutAPIKey  string
	visionAPIKey  string
	visionModel   string

	// Hints
	taxonomy []string

	// Concurrency
	workers int

	// Rendering
	dpi int

	// External enrichment
	enricher pipeline.Enricher
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		assetDir: "assets",
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := ExtractOptions{
		assetDir:      o.assetDir,
		layoutBaseURL: o.layoutBaseURL,
		layoutAPIKey:  o.layoutAPIKey,
		visionAPIKey:  o.visionAPIKey,
		visionModel:   o.visionModel,
		workers:       o.workers,
		dpi:           o.dpi,
		enricher:      o.enricher,
	}

	if o.taxonomy != nil {
		newOpts.taxonomy = make([]string, len(o.taxonomy))
		copy(newOpts.taxonomy, o.taxonomy)
	}

	return newOpts
}

// pipelineConfig maps the fluent options onto the orchestrator config.
func (o ExtractOptions) pipelineConfig() pipeline.Config {
	config := pipeline.DefaultConfig()

	config.Crop.Dir = o.assetDir
	if o.workers > 0 {
		config.Workers = o.workers
	}
	if o.dpi > 0 {
		config.Render.DPI = o.dpi
		config.Crop.SourceDPI = o.dpi
	}
	config.Taxonomy = o.taxonomy

	if o.layoutAPIKey != "" {
		config.EnableLayout = true
		config.Layout.APIKey = o.layoutAPIKey
		config.Layout.BaseURL = o.layoutBaseURL
	}
	if o.visionAPIKey != "" {
		config.EnableVision = true
		config.Vision.APIKey = o.visionAPIKey
		if o.visionModel != "" {
			config.Vision.Model = o.visionModel
		}
	}

	return config
}
