package crop

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sijun-lee/examsift/model"
)

func testPage(t *testing.T) *model.Page {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 400, 600))
	for y := 0; y < 600; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	return &model.Page{Index: 1, Width: 400, Height: 600, Raster: img}
}

func TestRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)
	page := testPage(t)
	region := model.NewAssetRegion(model.AssetFigure, 1,
		model.NewPolygon(0.25, 0.25, 0.75, 0.50), model.SourceGeometric)

	if err := r.Render(region, page); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	if region.LocalPath == "" {
		t.Fatal("Render() did not set LocalPath")
	}
	if filepath.Dir(region.LocalPath) != dir {
		t.Errorf("LocalPath = %q, want inside %q", region.LocalPath, dir)
	}
	if len(region.ContentHash) != 12 {
		t.Errorf("ContentHash = %q, want 12 hex characters", region.ContentHash)
	}

	data, err := os.ReadFile(region.LocalPath)
	if err != nil {
		t.Fatalf("reading rendered crop: %v", err)
	}
	if len(data) == 0 || !strings.HasPrefix(string(data[1:4]), "PNG") {
		t.Error("rendered crop is not a PNG")
	}
	if ShortHash(data) != region.ContentHash {
		t.Error("ContentHash does not match the written file")
	}
}

func TestRenderer_Render_DegeneratePolygon(t *testing.T) {
	r := New(t.TempDir())
	page := testPage(t)

	region := model.NewAssetRegion(model.AssetTable, 1,
		model.Polygon{{X: 0.1, Y: 0.1}, {X: 0.9, Y: 0.1}, {X: 0.9, Y: 0.5}}, model.SourceVision)

	if err := r.Render(region, page); err == nil {
		t.Fatal("Render() accepted a 3-point polygon")
	}
	if region.LocalPath != "" || region.ContentHash != "" {
		t.Error("failed render must not set LocalPath or ContentHash")
	}
}

func TestRenderer_Render_OutOfBoundsPolygon(t *testing.T) {
	r := New(t.TempDir())
	page := testPage(t)

	region := model.NewAssetRegion(model.AssetTable, 1,
		model.Polygon{{X: -0.2, Y: 0.1}, {X: 0.9, Y: 0.1}, {X: 0.9, Y: 0.5}, {X: -0.2, Y: 0.5}},
		model.SourceVision)

	if err := r.Render(region, page); err == nil {
		t.Fatal("Render() accepted a polygon outside [0,1]")
	}
}

func TestRenderer_Crop_Scaled(t *testing.T) {
	r := NewWithConfig(Config{PadFrac: 0.02, OutputDPI: 100, SourceDPI: 200})
	page := testPage(t)

	img, err := r.Crop(model.NewPolygon(0.1, 0.1, 0.5, 0.5), page)
	if err != nil {
		t.Fatalf("Crop() failed: %v", err)
	}

	// Padded window is [0.08, 0.52] => 176x264 source pixels, halved by
	// the 100/200 density ratio.
	bounds := img.Bounds()
	if bounds.Dx() != 88 || bounds.Dy() != 132 {
		t.Errorf("Crop() = %dx%d, want 88x132", bounds.Dx(), bounds.Dy())
	}
}

func TestShortHash(t *testing.T) {
	a := ShortHash([]byte("one"))
	b := ShortHash([]byte("two"))
	if len(a) != 12 || len(b) != 12 {
		t.Errorf("ShortHash lengths = %d, %d, want 12", len(a), len(b))
	}
	if a == b {
		t.Error("ShortHash collision on different inputs")
	}
	if a != ShortHash([]byte("one")) {
		t.Error("ShortHash not deterministic")
	}
}
