package model

import "github.com/google/uuid"

// AssetKind represents the kind of visual asset
type AssetKind string

const (
	AssetTable  AssetKind = "table"
	AssetFigure AssetKind = "figure"
)

// AssetSource records which stage produced an asset region's bounding box.
type AssetSource string

const (
	// SourceGeometric marks regions derived from layout-engine structure
	// or page vector drawings. Highest trust among locator output.
	SourceGeometric AssetSource = "geometric"
	// SourceVision marks regions reported by the vision-extraction service.
	SourceVision AssetSource = "vision"
	// SourceAnnotated marks reviewer-drawn boxes from an annotated copy of
	// the document. These override locator output.
	SourceAnnotated AssetSource = "annotated"
	// SourceSynthetic marks conservative fallback regions inserted when a
	// question is known to need a visual asset but none was located.
	SourceSynthetic AssetSource = "synthetic"
)

// AssetRegion is one located visual asset (a table or figure) on a page.
// Exactly one of Table or Figure is non-nil, matching Kind.
type AssetRegion struct {
	ID       string      `json:"id"`
	Kind     AssetKind   `json:"kind"`
	OwningNo int         `json:"owning_no,omitempty"` // question ordinal; 0 until reconciled
	Page     int         `json:"page"`                // 1-based page index
	BBox     Polygon     `json:"bbox"`
	Source   AssetSource `json:"source"`

	// LowConfidence flags assignments made by the nearest-neighbor
	// fallback rather than a confident overlap match, for operator review.
	LowConfidence bool `json:"low_confidence,omitempty"`

	Table  *TableData  `json:"table,omitempty"`
	Figure *FigureData `json:"figure,omitempty"`

	// Set by the asset renderer.
	LocalPath   string `json:"local_path,omitempty"`
	ContentHash string `json:"content_hash,omitempty"`

	// Set only by the external upload collaborator, never by this core.
	StorageRef string `json:"storage_ref,omitempty"`
}

// NewAssetRegion creates a region of the given kind with a fresh ID.
func NewAssetRegion(kind AssetKind, page int, bbox Polygon, source AssetSource) *AssetRegion {
	return &AssetRegion{
		ID:     uuid.NewString(),
		Kind:   kind,
		Page:   page,
		BBox:   bbox,
		Source: source,
	}
}

// Resolved reports whether the region has been assigned to a question.
func (a *AssetRegion) Resolved() bool {
	return a.OwningNo > 0
}

// TableData is the kind-specific payload of a table region.
type TableData struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
	// OptionRows maps an option marker (e.g. "①", "A") to the 0-based row
	// that belongs to that option, for tables enumerating answer choices.
	OptionRows map[string]int `json:"option_rows,omitempty"`
}

// Column describes one table column with its inferred value type.
type Column struct {
	Name string   `json:"name"`
	Type CellType `json:"type"`
}

// Row is one table body row of typed cells.
type Row []Cell

// FigureData is the kind-specific payload of a figure region.
type FigureData struct {
	Caption string   `json:"caption,omitempty"`
	Labels  []string `json:"labels,omitempty"`
}
