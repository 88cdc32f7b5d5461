package examsift

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sijun-lee/examsift/pipeline"
)

func TestExtractor_CloneImmutability(t *testing.T) {
	base := Open("exams/sample")
	configured := base.WithVision("key").Taxonomy("독해").Workers(8)

	if base.options.visionAPIKey != "" {
		t.Errorf("base visionAPIKey = %q, want empty", base.options.visionAPIKey)
	}
	if base.options.taxonomy != nil {
		t.Errorf("base taxonomy = %v, want nil", base.options.taxonomy)
	}
	if configured.options.visionAPIKey != "key" || configured.options.workers != 8 {
		t.Errorf("configured options = %+v", configured.options)
	}

	// Extending a chain must not mutate the earlier link.
	extended := configured.Taxonomy("문법")
	if len(configured.options.taxonomy) != 1 {
		t.Errorf("configured taxonomy = %v, want 1 entry", configured.options.taxonomy)
	}
	if len(extended.options.taxonomy) != 2 {
		t.Errorf("extended taxonomy = %v, want 2 entries", extended.options.taxonomy)
	}
}

func TestExtractOptions_PipelineConfig(t *testing.T) {
	opts := defaultOptions()
	opts.visionAPIKey = "vk"
	opts.layoutAPIKey = "lk"
	opts.layoutBaseURL = "https://layout.example.com"
	opts.dpi = 150

	config := opts.pipelineConfig()
	if !config.EnableVision || config.Vision.APIKey != "vk" {
		t.Errorf("vision stage not wired: %+v", config.Vision)
	}
	if !config.EnableLayout || config.Layout.BaseURL != "https://layout.example.com" {
		t.Errorf("layout stage not wired: %+v", config.Layout)
	}
	if config.Render.DPI != 150 || config.Crop.SourceDPI != 150 {
		t.Errorf("DPI = %d/%d, want 150 for both render and crop source", config.Render.DPI, config.Crop.SourceDPI)
	}
	if config.Crop.Dir != "assets" {
		t.Errorf("Crop.Dir = %q, want default asset dir", config.Crop.Dir)
	}
}

func TestExtractOptions_StagesDisabledByDefault(t *testing.T) {
	config := defaultOptions().pipelineConfig()
	if config.EnableVision || config.EnableLayout {
		t.Errorf("stages enabled without credentials: vision=%v layout=%v", config.EnableVision, config.EnableLayout)
	}
}

func TestOpen_EmptyDir(t *testing.T) {
	_, _, err := Open("").Extract(context.Background())
	if err == nil {
		t.Error("Extract() error = nil, want error for empty directory")
	}
}

func TestExtract_MissingBundle(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "nope")).Extract(context.Background())
	if err == nil {
		t.Error("Extract() error = nil, want error for missing directory")
	}
}

func TestExtract_NoQuestionDocument(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := Open(dir).Extract(context.Background())
	if !errors.Is(err, ErrNoQuestionDocument) {
		t.Errorf("Extract() error = %v, want ErrNoQuestionDocument", err)
	}
}

func TestExtract_UnreadableDocument(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "question.pdf"), []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := Open(dir).Extract(context.Background())
	if !errors.Is(err, ErrUnreadableDocument) {
		t.Errorf("Extract() error = %v, want ErrUnreadableDocument", err)
	}
}

func TestFormatWarnings(t *testing.T) {
	if got := FormatWarnings(nil); got != "" {
		t.Errorf("FormatWarnings(nil) = %q, want empty", got)
	}

	warnings := []Warning{
		{Code: WarnPageSkipped, Message: "page 3: retries exhausted"},
		{Code: WarnAssetSkipped, Message: "asset abc: degenerate bounding polygon"},
	}
	got := FormatWarnings(warnings)
	if !strings.Contains(got, "[page_skipped] page 3") {
		t.Errorf("FormatWarnings() = %q, missing page warning", got)
	}
	if !strings.Contains(got, "\n[asset_skipped]") {
		t.Errorf("FormatWarnings() = %q, want one warning per line", got)
	}
}

func TestWarningsFrom(t *testing.T) {
	diags := pipeline.Diagnostics{
		SkippedPages:  []pipeline.SkippedPage{{Page: 2, Reason: "malformed vision response"}},
		SkippedAssets: []pipeline.SkippedAsset{{ID: "a1", Reason: "page 9 not rendered"}},
		Synthetic:     []string{"s1"},
		LowConfidence: []string{"l1"},
		Unassigned:    []string{"u1"},
		Notes:         []string{"layout-analysis: status 503"},
	}

	warnings := warningsFrom(diags)
	if len(warnings) != 6 {
		t.Fatalf("len(warnings) = %d, want 6", len(warnings))
	}

	counts := make(map[WarningCode]int)
	for _, w := range warnings {
		counts[w.Code]++
	}
	for _, code := range []WarningCode{WarnPageSkipped, WarnAssetSkipped, WarnSyntheticRegion, WarnLowConfidence, WarnUnassignedRegion, WarnPhase} {
		if counts[code] != 1 {
			t.Errorf("warnings for %s = %d, want 1", code, counts[code])
		}
	}
}

func TestWarningsFrom_CleanRun(t *testing.T) {
	if got := warningsFrom(pipeline.Diagnostics{}); got != nil {
		t.Errorf("warningsFrom(empty) = %v, want nil", got)
	}
}
