package pipeline

// SkippedPage records a page whose vision extraction was dropped.
type SkippedPage struct {
	Page   int
	Reason string
}

// SkippedAsset records an asset region that could not be rendered.
type SkippedAsset struct {
	ID     string
	Reason string
}

// Diagnostics accumulates every non-fatal issue of one run. A run always
// completes with best-effort output; operators review the diagnostics to
// find units that need a second look.
type Diagnostics struct {
	// SkippedPages lists pages whose vision call failed or returned
	// unparseable output.
	SkippedPages []SkippedPage

	// SkippedAssets lists regions dropped during crop rendering.
	SkippedAssets []SkippedAsset

	// Synthetic lists IDs of fallback regions inserted for questions that
	// required a visual asset none was located for.
	Synthetic []string

	// LowConfidence lists IDs of regions assigned by nearest-neighbor
	// fallback instead of a confident overlap match.
	LowConfidence []string

	// Unassigned lists IDs of regions on pages with no question spans.
	Unassigned []string

	// Notes are free-form phase warnings (text-layer gaps, layout-service
	// failures, and similar).
	Notes []string
}

// Empty reports whether the run completed without any recorded issue.
func (d *Diagnostics) Empty() bool {
	return len(d.SkippedPages) == 0 &&
		len(d.SkippedAssets) == 0 &&
		len(d.Synthetic) == 0 &&
		len(d.LowConfidence) == 0 &&
		len(d.Unassigned) == 0 &&
		len(d.Notes) == 0
}
