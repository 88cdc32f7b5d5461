package reconcile

import (
	"math"

	"github.com/sijun-lee/examsift/model"
)

// Assignment pairs one region with the question it was matched to.
type Assignment struct {
	Region *model.AssetRegion
	No     int

	// LowConfidence is set when the match came from the nearest-midpoint
	// fallback rather than a confident overlap.
	LowConfidence bool
}

// Match assigns every unresolved region to a question span. It returns the
// assignments and the remaining regions that could not be matched because
// their page has no candidate spans. Candidate lists are never mutated.
//
// A region is matched to the span with the greatest vertical overlap when
// that overlap reaches the configured fraction of the span's height;
// otherwise to the span whose midpoint is nearest the region's midpoint,
// flagged low-confidence. Ties go to the lower question number.
func Match(regions []*model.AssetRegion, spans []model.QuestionSpan, config Config) ([]Assignment, []*model.AssetRegion) {
	spansByPage := make(map[int][]model.QuestionSpan)
	for _, s := range spans {
		spansByPage[s.Page] = append(spansByPage[s.Page], s)
	}

	var assignments []Assignment
	var remaining []*model.AssetRegion

	for _, region := range regions {
		if region.Resolved() {
			continue
		}
		candidates := spansByPage[region.Page]
		if len(candidates) == 0 {
			remaining = append(remaining, region)
			continue
		}

		best, confident := pick(region, candidates, config)
		assignments = append(assignments, Assignment{
			Region:        region,
			No:            best.No,
			LowConfidence: !confident,
		})
	}

	return assignments, remaining
}

// pick selects the best span for one region.
func pick(region *model.AssetRegion, candidates []model.QuestionSpan, config Config) (model.QuestionSpan, bool) {
	bestIdx := -1
	bestOverlap := 0.0
	for i, s := range candidates {
		ov := region.BBox.VerticalOverlap(s.Top, s.Bottom)
		better := ov > bestOverlap ||
			(ov == bestOverlap && bestIdx >= 0 && ov > 0 && s.No < candidates[bestIdx].No)
		if better {
			bestIdx, bestOverlap = i, ov
		}
	}

	if bestIdx >= 0 {
		s := candidates[bestIdx]
		if h := s.Height(); h > 0 && bestOverlap >= config.OverlapThreshold*h {
			return s, true
		}
	}

	// Nearest-neighbor fallback: closest span midpoint to the region's
	// midpoint. Always yields an assignment.
	mid := region.BBox.MidY()
	nearest := 0
	nearestDist := math.Inf(1)
	for i, s := range candidates {
		d := math.Abs(s.Mid() - mid)
		if d < nearestDist || (d == nearestDist && s.No < candidates[nearest].No) {
			nearest, nearestDist = i, d
		}
	}
	return candidates[nearest], false
}

// Apply writes assignments onto their regions: the owning question number
// and the low-confidence flag.
func Apply(assignments []Assignment) {
	for _, a := range assignments {
		a.Region.OwningNo = a.No
		a.Region.LowConfidence = a.LowConfidence
	}
}
