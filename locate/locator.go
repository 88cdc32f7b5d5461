package locate

import (
	"github.com/sijun-lee/examsift/layoutsvc"
	"github.com/sijun-lee/examsift/model"
)

// Locator is the interface for asset-location strategies.
type Locator interface {
	// Locate finds asset regions using the layout-analysis result.
	Locate(layout *layoutsvc.Result) ([]*model.AssetRegion, error)

	// Name returns the locator name
	Name() string

	// Configure sets locator parameters
	Configure(config Config) error
}

// Config holds locator configuration
type Config struct {
	// MinFigureAreaFrac is the minimum fraction of page area a
	// vector-drawing rectangle must cover to become a figure candidate.
	MinFigureAreaFrac float64

	// MinTableCols is the minimum column count for a usable table.
	MinTableCols int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinFigureAreaFrac: 0.035,
		MinTableCols:      1,
	}
}

// Registry holds registered locators
type Registry struct {
	locators map[string]Locator
}

// NewRegistry creates a new locator registry
func NewRegistry() *Registry {
	return &Registry{locators: make(map[string]Locator)}
}

// Register registers a locator
func (r *Registry) Register(l Locator) {
	r.locators[l.Name()] = l
}

// Get retrieves a locator by name
func (r *Registry) Get(name string) Locator {
	return r.locators[name]
}
