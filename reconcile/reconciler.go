package reconcile

import (
	"sort"

	"github.com/sijun-lee/examsift/model"
)

// Reconciler drives candidate merging, span matching, and synthetic
// fallback insertion for one exam run.
type Reconciler struct {
	config Config
}

// New creates a reconciler with default configuration.
func New() *Reconciler {
	return &Reconciler{config: DefaultConfig()}
}

// NewWithConfig creates a reconciler with the given configuration.
func NewWithConfig(config Config) *Reconciler {
	return &Reconciler{config: config}
}

// Spans derives question spans from layout anchors.
func (r *Reconciler) Spans(anchors []model.TextAnchor) []model.QuestionSpan {
	return Spans(anchors, r.config)
}

// Reconcile merges geometric and vision candidates, assigns every region
// to a question, and inserts synthetic fallback regions for questions in
// needs that ended up with no asset of the required kind. It returns the
// assigned regions and the regions left unassigned because their page has
// no question spans.
func (r *Reconciler) Reconcile(
	geometric, vision, annotated []*model.AssetRegion,
	spans []model.QuestionSpan,
	needs map[int]model.AssetKind,
) (assigned, unassigned []*model.AssetRegion) {
	candidates := MergeCandidates(geometric, vision)
	candidates = ApplyOverrides(annotated, candidates)

	assignments, remaining := Match(candidates, spans, r.config)
	Apply(assignments)

	for _, region := range candidates {
		if region.Resolved() {
			assigned = append(assigned, region)
		}
	}
	assigned = append(assigned, r.fillMissing(needs, assigned, spans)...)

	return assigned, remaining
}

// MergeCandidates applies locator precedence: geometric candidates are
// higher-trust, so vision candidates on a page are only consumed for asset
// kinds the geometric locator found nothing of on that page.
func MergeCandidates(geometric, vision []*model.AssetRegion) []*model.AssetRegion {
	type pageKind struct {
		page int
		kind model.AssetKind
	}
	covered := make(map[pageKind]bool)
	for _, g := range geometric {
		covered[pageKind{g.Page, g.Kind}] = true
	}

	merged := make([]*model.AssetRegion, 0, len(geometric)+len(vision))
	merged = append(merged, geometric...)
	for _, v := range vision {
		if !covered[pageKind{v.Page, v.Kind}] {
			merged = append(merged, v)
		}
	}
	return merged
}

// ApplyOverrides replaces located candidates with reviewer-drawn annotated
// regions. An annotated region that already names its question supersedes
// every located candidate of the same kind for that question; located
// regions on other questions pass through.
func ApplyOverrides(annotated, located []*model.AssetRegion) []*model.AssetRegion {
	if len(annotated) == 0 {
		return located
	}

	type ownerKind struct {
		no   int
		kind model.AssetKind
	}
	overridden := make(map[ownerKind]bool)
	out := make([]*model.AssetRegion, 0, len(annotated)+len(located))
	for _, a := range annotated {
		out = append(out, a)
		if a.Resolved() {
			overridden[ownerKind{a.OwningNo, a.Kind}] = true
		}
	}

	for _, region := range located {
		if region.Resolved() && overridden[ownerKind{region.OwningNo, region.Kind}] {
			continue
		}
		out = append(out, region)
	}
	return out
}

// fillMissing inserts a conservative synthetic region for each question
// known to require a visual asset that has none after matching.
func (r *Reconciler) fillMissing(
	needs map[int]model.AssetKind,
	assigned []*model.AssetRegion,
	spans []model.QuestionSpan,
) []*model.AssetRegion {
	if len(needs) == 0 {
		return nil
	}

	have := make(map[int]map[model.AssetKind]bool)
	for _, region := range assigned {
		if have[region.OwningNo] == nil {
			have[region.OwningNo] = make(map[model.AssetKind]bool)
		}
		have[region.OwningNo][region.Kind] = true
	}

	spanByNo := make(map[int]model.QuestionSpan)
	for _, s := range spans {
		if _, ok := spanByNo[s.No]; !ok {
			spanByNo[s.No] = s
		}
	}

	nos := make([]int, 0, len(needs))
	for no := range needs {
		nos = append(nos, no)
	}
	sort.Ints(nos)

	var synthetic []*model.AssetRegion
	for _, no := range nos {
		kind := needs[no]
		if have[no][kind] {
			continue
		}
		span, ok := spanByNo[no]
		if !ok {
			continue
		}
		synthetic = append(synthetic, r.syntheticRegion(span, kind))
	}
	return synthetic
}

// syntheticRegion builds a fallback region spanning the question's full
// horizontal band at its vertical span.
func (r *Reconciler) syntheticRegion(span model.QuestionSpan, kind model.AssetKind) *model.AssetRegion {
	bbox := model.NewPolygon(r.config.FallbackLeft, span.Top, r.config.FallbackRight, span.Bottom)
	region := model.NewAssetRegion(kind, span.Page, bbox, model.SourceSynthetic)
	region.OwningNo = span.No
	region.LowConfidence = true
	switch kind {
	case model.AssetTable:
		region.Table = &model.TableData{}
	case model.AssetFigure:
		region.Figure = &model.FigureData{}
	}
	return region
}
