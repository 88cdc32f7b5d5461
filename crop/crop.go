// Package crop renders resolved asset regions to image files. Each region's
// bounding polygon is padded, clamped to the page, cut out of the page
// raster, rescaled to a fixed output density, and written as PNG next to a
// short content hash for downstream upload deduplication.
package crop

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/sijun-lee/examsift/model"
)

// Config holds asset renderer configuration
type Config struct {
	// Dir is the output directory for rendered crops.
	Dir string

	// PadFrac is the symmetric padding added around a region's bounds
	// before cropping, as a fraction of page size, clamped to the page.
	PadFrac float64

	// OutputDPI is the density crops are rescaled to.
	OutputDPI int

	// SourceDPI is the density the page rasters were rendered at.
	SourceDPI int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		PadFrac:   0.02,
		OutputDPI: 144,
		SourceDPI: 200,
	}
}

// Renderer crops asset regions out of page rasters.
type Renderer struct {
	config Config
}

// New creates a renderer with default configuration writing into dir.
func New(dir string) *Renderer {
	config := DefaultConfig()
	config.Dir = dir
	return &Renderer{config: config}
}

// NewWithConfig creates a renderer with the given configuration.
func NewWithConfig(config Config) *Renderer {
	def := DefaultConfig()
	if config.PadFrac == 0 {
		config.PadFrac = def.PadFrac
	}
	if config.OutputDPI == 0 {
		config.OutputDPI = def.OutputDPI
	}
	if config.SourceDPI == 0 {
		config.SourceDPI = def.SourceDPI
	}
	return &Renderer{config: config}
}

// Render crops one region from its page raster, writes the PNG, and sets
// the region's LocalPath and ContentHash. A degenerate bounding polygon is
// an asset-level error: the caller logs it and skips this one region.
func (r *Renderer) Render(region *model.AssetRegion, page *model.Page) error {
	if !region.BBox.Valid() {
		return fmt.Errorf("region %s: degenerate bounding polygon (%d points)", region.ID, len(region.BBox))
	}
	if page.Raster == nil {
		return fmt.Errorf("region %s: page %d has no raster", region.ID, page.Index)
	}

	img, err := r.Crop(region.BBox, page)
	if err != nil {
		return fmt.Errorf("region %s: %w", region.ID, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("region %s: encoding crop: %w", region.ID, err)
	}

	if err := os.MkdirAll(r.config.Dir, 0o755); err != nil {
		return fmt.Errorf("region %s: %w", region.ID, err)
	}
	path := filepath.Join(r.config.Dir, region.ID+".png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("region %s: writing crop: %w", region.ID, err)
	}

	region.LocalPath = path
	region.ContentHash = ShortHash(buf.Bytes())
	return nil
}

// Crop returns the padded region image rescaled to the output density.
func (r *Renderer) Crop(bbox model.Polygon, page *model.Page) (image.Image, error) {
	padded := bbox.Pad(r.config.PadFrac)

	x0 := int(padded.Left() * float64(page.Width))
	y0 := int(padded.Top() * float64(page.Height))
	x1 := int(padded.Right() * float64(page.Width))
	y1 := int(padded.Bottom() * float64(page.Height))
	if x1 <= x0 || y1 <= y0 {
		return nil, fmt.Errorf("empty crop window [%d,%d,%d,%d]", x0, y0, x1, y1)
	}

	scale := float64(r.config.OutputDPI) / float64(r.config.SourceDPI)
	outW := int(float64(x1-x0) * scale)
	outH := int(float64(y1-y0) * scale)
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, outW, outH))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), page.Raster, image.Rect(x0, y0, x1, y1), xdraw.Src, nil)
	return out, nil
}

// ShortHash returns the first 12 hex characters of the SHA-256 of data.
func ShortHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:12]
}
