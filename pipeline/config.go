package pipeline

import (
	"github.com/sijun-lee/examsift/crop"
	"github.com/sijun-lee/examsift/layoutsvc"
	"github.com/sijun-lee/examsift/locate"
	"github.com/sijun-lee/examsift/pagerender"
	"github.com/sijun-lee/examsift/reconcile"
	"github.com/sijun-lee/examsift/segment"
	"github.com/sijun-lee/examsift/vision"
)

// Config holds orchestrator configuration
type Config struct {
	// Workers bounds the concurrent vision calls; rate limits of the
	// vision service set the practical ceiling.
	Workers int

	// Taxonomy lists the classification values passed to the vision
	// service as hints.
	Taxonomy []string

	// EnableLayout turns on the layout-analysis stage. Credentials in
	// Layout are then required.
	EnableLayout bool

	// EnableVision turns on the vision-extraction stage. Credentials in
	// Vision are then required.
	EnableVision bool

	Render    pagerender.Config
	Layout    layoutsvc.Config
	Vision    vision.Config
	Segment   segment.Config
	Locate    locate.Config
	Reconcile reconcile.Config
	Crop      crop.Config
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Workers:   4,
		Render:    pagerender.DefaultConfig(),
		Layout:    layoutsvc.DefaultConfig(),
		Vision:    vision.DefaultConfig(),
		Segment:   segment.DefaultConfig(),
		Locate:    locate.DefaultConfig(),
		Reconcile: reconcile.DefaultConfig(),
		Crop:      crop.DefaultConfig(),
	}
}
