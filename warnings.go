package examsift

import (
	"fmt"
	"strings"

	"github.com/sijun-lee/examsift/pipeline"
)

// WarningCode classifies a non-fatal issue encountered during extraction.
type WarningCode string

const (
	// WarnPageSkipped means a page's vision extraction failed or returned
	// unparseable output and contributed nothing.
	WarnPageSkipped WarningCode = "page_skipped"

	// WarnAssetSkipped means one asset region could not be rendered or
	// referenced a question that does not exist.
	WarnAssetSkipped WarningCode = "asset_skipped"

	// WarnSyntheticRegion means a fallback region was inserted for a
	// question that required a visual asset none was located for.
	WarnSyntheticRegion WarningCode = "synthetic_region"

	// WarnLowConfidence means a region was assigned by nearest-neighbor
	// fallback instead of a confident overlap match.
	WarnLowConfidence WarningCode = "low_confidence"

	// WarnUnassignedRegion means a region's page had no question spans,
	// so it could not be assigned at all.
	WarnUnassignedRegion WarningCode = "unassigned_region"

	// WarnPhase covers degraded phases: missing text layers, a failed
	// layout-analysis call, side documents that would not render.
	WarnPhase WarningCode = "phase"
)

// Warning describes a non-fatal issue. Extraction succeeded, but the unit
// the warning names may need operator review.
type Warning struct {
	Code    WarningCode
	Message string
}

// FormatWarnings renders warnings as a single human-readable string,
// one warning per line.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, 0, len(warnings))
	for _, w := range warnings {
		lines = append(lines, fmt.Sprintf("[%s] %s", w.Code, w.Message))
	}
	return strings.Join(lines, "\n")
}

// warningsFrom flattens run diagnostics into the warning list surfaced by
// terminal operations.
func warningsFrom(d pipeline.Diagnostics) []Warning {
	var warnings []Warning
	for _, p := range d.SkippedPages {
		warnings = append(warnings, Warning{
			Code:    WarnPageSkipped,
			Message: fmt.Sprintf("page %d: %s", p.Page, p.Reason),
		})
	}
	for _, a := range d.SkippedAssets {
		warnings = append(warnings, Warning{
			Code:    WarnAssetSkipped,
			Message: fmt.Sprintf("asset %s: %s", a.ID, a.Reason),
		})
	}
	for _, id := range d.Synthetic {
		warnings = append(warnings, Warning{
			Code:    WarnSyntheticRegion,
			Message: fmt.Sprintf("asset %s: synthetic fallback region", id),
		})
	}
	for _, id := range d.LowConfidence {
		warnings = append(warnings, Warning{
			Code:    WarnLowConfidence,
			Message: fmt.Sprintf("asset %s: assigned by nearest-neighbor fallback", id),
		})
	}
	for _, id := range d.Unassigned {
		warnings = append(warnings, Warning{
			Code:    WarnUnassignedRegion,
			Message: fmt.Sprintf("asset %s: no question spans on its page", id),
		})
	}
	for _, note := range d.Notes {
		warnings = append(warnings, Warning{Code: WarnPhase, Message: note})
	}
	return warnings
}
