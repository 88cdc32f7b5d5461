package locate

import (
	"github.com/sijun-lee/examsift/layoutsvc"
	"github.com/sijun-lee/examsift/model"
)

// GeometricLocator derives asset regions from layout-engine structure:
// native tables become typed table regions, and large vector-drawing
// rectangles become figure candidates.
type GeometricLocator struct {
	config Config
}

// NewGeometricLocator creates a geometric locator with default configuration.
func NewGeometricLocator() *GeometricLocator {
	return &GeometricLocator{config: DefaultConfig()}
}

// Name returns the locator's identifier ("geometric").
func (l *GeometricLocator) Name() string {
	return "geometric"
}

// Configure sets the locator configuration.
func (l *GeometricLocator) Configure(config Config) error {
	l.config = config
	return nil
}

// Locate converts the layout result into asset regions. Tables with a
// malformed bounding polygon are skipped; figure candidates below the
// minimum page-area fraction are dropped.
func (l *GeometricLocator) Locate(layout *layoutsvc.Result) ([]*model.AssetRegion, error) {
	if layout == nil {
		return nil, nil
	}

	var regions []*model.AssetRegion

	for _, raw := range layout.Tables {
		if !raw.BBox.Valid() || len(raw.Header) < l.config.MinTableCols {
			continue
		}
		region := model.NewAssetRegion(model.AssetTable, raw.Page, raw.BBox, model.SourceGeometric)
		region.Table = TypeTable(raw)
		regions = append(regions, region)
	}

	for _, rect := range layout.Rects {
		if !rect.BBox.Valid() {
			continue
		}
		if rect.BBox.Area() < l.config.MinFigureAreaFrac {
			continue
		}
		region := model.NewAssetRegion(model.AssetFigure, rect.Page, rect.BBox, model.SourceGeometric)
		region.Figure = &model.FigureData{}
		regions = append(regions, region)
	}

	return regions, nil
}
