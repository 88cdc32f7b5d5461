// Package pipeline drives the full exam extraction sequence: page
// rendering, per-page segmentation and asset location, bounding-box
// reconciliation, crop rendering, and answer resolution. Per-page work
// fans out across a bounded worker pool; reconciliation and the final
// merge are join points that run once all page results are in.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/sijun-lee/examsift/answers"
	"github.com/sijun-lee/examsift/bundle"
	"github.com/sijun-lee/examsift/crop"
	"github.com/sijun-lee/examsift/internal/vlog"
	"github.com/sijun-lee/examsift/layoutsvc"
	"github.com/sijun-lee/examsift/locate"
	"github.com/sijun-lee/examsift/model"
	"github.com/sijun-lee/examsift/pagerender"
	"github.com/sijun-lee/examsift/reconcile"
	"github.com/sijun-lee/examsift/segment"
	"github.com/sijun-lee/examsift/vision"
)

// ErrNoQuestions is returned when segmentation finds no questions in the
// entire document. It is fatal: without questions nothing downstream can
// be reconciled or resolved.
var ErrNoQuestions = errors.New("no questions segmented")

// ErrMissingCredentials is returned when a stage is enabled without the
// service credentials it needs.
var ErrMissingCredentials = errors.New("missing service credentials")

// Enricher fills classification fields on question records. Implementations
// live outside the pipeline; enrichment failures are recorded as
// diagnostics, never fatal.
type Enricher interface {
	Enrich(ctx context.Context, questions []*model.QuestionRecord) error
}

// Result is the structured output of one run.
type Result struct {
	Questions   []*model.QuestionRecord
	Tables      []*model.AssetRegion
	Figures     []*model.AssetRegion
	Diagnostics Diagnostics
}

// Orchestrator runs the extraction pipeline over one exam bundle at a
// time. Runs share no mutable state, so one orchestrator may serve
// concurrent exams.
type Orchestrator struct {
	config     Config
	renderer   *pagerender.Renderer
	layout     *layoutsvc.Client
	vision     *vision.Client
	crops      *crop.Renderer
	segmenter  *segment.Segmenter
	reconciler *reconcile.Reconciler
	resolver   *answers.Resolver
	locators   *locate.Registry
	enricher   Enricher
}

// New creates an orchestrator. Enabling a stage without its credentials
// returns ErrMissingCredentials.
func New(config Config) (*Orchestrator, error) {
	def := DefaultConfig()
	if config.Workers <= 0 {
		config.Workers = def.Workers
	}

	o := &Orchestrator{
		config:     config,
		renderer:   pagerender.NewWithConfig(config.Render),
		segmenter:  segment.NewWithConfig(config.Segment),
		reconciler: reconcile.NewWithConfig(config.Reconcile),
		resolver:   answers.New(),
		crops:      crop.NewWithConfig(config.Crop),
		locators:   locate.NewRegistry(),
	}

	geometric := locate.NewGeometricLocator()
	if err := geometric.Configure(config.Locate); err != nil {
		return nil, fmt.Errorf("configuring geometric locator: %w", err)
	}
	o.locators.Register(geometric)

	if config.EnableLayout {
		if config.Layout.APIKey == "" {
			return nil, fmt.Errorf("layout-analysis stage: %w", ErrMissingCredentials)
		}
		o.layout = layoutsvc.NewClient(config.Layout)
	}
	if config.EnableVision {
		client, err := vision.NewClient(config.Vision)
		if err != nil {
			if errors.Is(err, vision.ErrMissingAPIKey) {
				return nil, fmt.Errorf("vision stage: %w", ErrMissingCredentials)
			}
			return nil, fmt.Errorf("vision stage: %w", err)
		}
		o.vision = client
	}

	return o, nil
}

// SetEnricher installs the external classification enricher.
func (o *Orchestrator) SetEnricher(e Enricher) {
	o.enricher = e
}

// Run executes the pipeline over one exam bundle. Only structural,
// whole-document failures return an error; every other failure is isolated
// to its page, question, or asset and recorded in the result's diagnostics.
func (o *Orchestrator) Run(ctx context.Context, b *bundle.Bundle) (*Result, error) {
	var diags Diagnostics

	rendered, err := o.renderer.Render(b.Question)
	if err != nil {
		return nil, err
	}
	for _, issue := range rendered.Issues {
		diags.Notes = append(diags.Notes, fmt.Sprintf("page %d: %s", issue.Page, issue.Reason))
	}
	vlog.Printf("rendered %d pages from %s", len(rendered.Pages), b.Question)

	keyText := o.sideDocumentText(b.AnswerKey, &diags)
	solutionText := o.sideDocumentText(b.Solution, &diags)

	geometric, spans := o.layoutPass(ctx, b.Question, &diags)

	cleanTexts := o.annotatedTexts(b, &diags)
	extractions := o.visionPass(ctx, rendered.Pages, o.buildHints(keyText), cleanTexts, &diags)

	questions := o.segmenter.Segment(rendered.Pages)
	if len(questions) == 0 {
		return nil, fmt.Errorf("%s: %w", b.Question, ErrNoQuestions)
	}
	vlog.Printf("segmented %d questions", len(questions))

	byNo := make(map[int]*model.QuestionRecord, len(questions))
	for _, q := range questions {
		byNo[q.No] = q
	}
	questions = o.mergeVisionItems(questions, byNo, extractions)

	visionRegions, needs := o.collectVisionRegions(extractions, &diags)
	for _, h := range b.Hints {
		if h.OwningNo > 0 {
			needs[h.OwningNo] = h.Kind
		}
	}

	assigned, unassigned := o.reconciler.Reconcile(geometric, visionRegions, b.Hints, spans, needs)
	assigned = o.validateOwners(assigned, byNo, &diags)
	for _, region := range unassigned {
		diags.Unassigned = append(diags.Unassigned, region.ID)
	}
	for _, region := range assigned {
		if region.Source == model.SourceSynthetic {
			diags.Synthetic = append(diags.Synthetic, region.ID)
		} else if region.LowConfidence {
			diags.LowConfidence = append(diags.LowConfidence, region.ID)
		}
	}

	o.cropPass(assigned, rendered.Pages, &diags)

	if keyText != "" {
		o.resolver.ResolveKey(keyText, byNo)
	}
	if solutionText != "" {
		o.resolver.ResolveSolutions(solutionText, byNo)
	}

	if b.Audio != "" {
		for _, q := range questions {
			if q.AudioRef == "" {
				q.AudioRef = b.Audio
			}
		}
	}

	if o.enricher != nil {
		if err := o.enricher.Enrich(ctx, questions); err != nil {
			diags.Notes = append(diags.Notes, fmt.Sprintf("enrichment: %v", err))
		}
	}

	sort.Slice(questions, func(i, j int) bool { return questions[i].No < questions[j].No })

	result := &Result{Questions: questions, Diagnostics: diags}
	for _, region := range assigned {
		switch region.Kind {
		case model.AssetTable:
			result.Tables = append(result.Tables, region)
		case model.AssetFigure:
			result.Figures = append(result.Figures, region)
		}
	}
	sortRegions(result.Tables)
	sortRegions(result.Figures)

	vlog.Printf("run complete: %d questions, %d tables, %d figures", len(result.Questions), len(result.Tables), len(result.Figures))
	return result, nil
}

// sideDocumentText renders an optional side document (answer key,
// solution) and joins its page texts. Failures degrade to an empty text
// with a diagnostic note.
func (o *Orchestrator) sideDocumentText(path string, diags *Diagnostics) string {
	if path == "" {
		return ""
	}
	rendered, err := o.renderer.Render(path)
	if err != nil {
		diags.Notes = append(diags.Notes, fmt.Sprintf("%s: %v", path, err))
		return ""
	}
	texts := make([]string, 0, len(rendered.Pages))
	for _, p := range rendered.Pages {
		texts = append(texts, p.Text)
	}
	return strings.Join(texts, "\n")
}

// layoutPass runs the layout-analysis service over the question document
// and derives geometric asset candidates plus question spans. A failed
// call degrades to no geometric candidates and no spans.
func (o *Orchestrator) layoutPass(ctx context.Context, questionPath string, diags *Diagnostics) ([]*model.AssetRegion, []model.QuestionSpan) {
	if o.layout == nil {
		return nil, nil
	}

	data, err := os.ReadFile(questionPath)
	if err != nil {
		diags.Notes = append(diags.Notes, fmt.Sprintf("layout-analysis: reading document: %v", err))
		return nil, nil
	}
	layout, err := o.layout.Analyze(ctx, data, "application/pdf")
	if err != nil {
		diags.Notes = append(diags.Notes, fmt.Sprintf("layout-analysis: %v", err))
		return nil, nil
	}

	regions, err := o.locators.Get("geometric").Locate(layout)
	if err != nil {
		diags.Notes = append(diags.Notes, fmt.Sprintf("geometric locator: %v", err))
		regions = nil
	}
	spans := o.reconciler.Spans(layout.Anchors)
	vlog.Printf("layout pass: %d geometric candidates, %d spans", len(regions), len(spans))
	return regions, spans
}

// annotatedTexts renders the annotated copy, when present, for per-page
// reviewed text passed to the vision service as a hint.
func (o *Orchestrator) annotatedTexts(b *bundle.Bundle, diags *Diagnostics) []string {
	if b.Annotated == "" {
		return nil
	}
	rendered, err := o.renderer.Render(b.Annotated)
	if err != nil {
		diags.Notes = append(diags.Notes, fmt.Sprintf("%s: %v", b.Annotated, err))
		return nil
	}
	texts := make([]string, len(rendered.Pages))
	for i, p := range rendered.Pages {
		texts[i] = p.Text
	}
	return texts
}

// buildHints extracts prior answer tokens from the answer-key text for use
// as vision hints. The first strategy to produce a token for a number wins.
func (o *Orchestrator) buildHints(keyText string) vision.Hints {
	hints := vision.Hints{Taxonomy: o.config.Taxonomy}
	if keyText == "" {
		return hints
	}

	tokens := make(map[int]string)
	for _, strategy := range answers.KeyStrategies() {
		for _, ex := range strategy.Extract(keyText) {
			if _, ok := tokens[ex.No]; !ok {
				tokens[ex.No] = ex.Token
			}
		}
	}
	if len(tokens) > 0 {
		hints.AnswerTokens = tokens
	}
	return hints
}

// visionPass fans page extraction out across a bounded worker pool. A
// failed or malformed page contributes nothing; its index stays nil and
// the page is recorded as skipped.
func (o *Orchestrator) visionPass(ctx context.Context, pages []*model.Page, hints vision.Hints, cleanTexts []string, diags *Diagnostics) []*vision.PageExtraction {
	results := make([]*vision.PageExtraction, len(pages))
	if o.vision == nil {
		return results
	}

	var mu sync.Mutex
	var skipped []SkippedPage
	var wg sync.WaitGroup
	sem := make(chan struct{}, o.config.Workers)

	for i, page := range pages {
		wg.Add(1)
		go func(i int, page *model.Page) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			pageHints := hints
			if i < len(cleanTexts) {
				pageHints.CleanText = cleanTexts[i]
			}

			extraction, err := o.vision.ExtractPage(ctx, page, pageHints)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				skipped = append(skipped, SkippedPage{Page: page.Index, Reason: err.Error()})
				return
			}
			results[i] = extraction
		}(i, page)
	}
	wg.Wait()

	sort.Slice(skipped, func(i, j int) bool { return skipped[i].Page < skipped[j].Page })
	diags.SkippedPages = append(diags.SkippedPages, skipped...)
	return results
}

// mergeVisionItems folds vision items into segmented question records
// with first-non-empty-wins precedence. Vision option lists go through
// the same healing discipline as segmented bodies, so an over- or
// under-producing response can never push a record outside the 2-5
// option contract. Vision answers are tokens, so they normalize against
// the merged options before being kept.
func (o *Orchestrator) mergeVisionItems(questions []*model.QuestionRecord, byNo map[int]*model.QuestionRecord, extractions []*vision.PageExtraction) []*model.QuestionRecord {
	for i, extraction := range extractions {
		if extraction == nil {
			continue
		}
		page := i + 1
		for _, it := range extraction.Items {
			if it.No <= 0 {
				continue
			}
			record := byNo[it.No]
			if record == nil {
				record = &model.QuestionRecord{No: it.No, Page: page}
				byNo[it.No] = record
				questions = append(questions, record)
			}
			record.MergeFrom(&model.QuestionRecord{
				Stem:       it.Stem,
				Options:    o.segmenter.HealOptions(it.Options),
				Rationale:  it.Rationale,
				Area:       it.Area,
				Difficulty: it.Difficulty,
				Level:      it.Level,
				Page:       page,
			})
			if it.Answer != "" && (record.Answer == "" || record.Answer == model.AnswerUnknown) {
				record.Answer = answers.Normalize(it.Answer, record)
			}
		}
	}
	return questions
}

// collectVisionRegions converts vision tables and figures into asset
// regions and derives the needs map: every question a vision element
// names is known to require an asset of that kind.
func (o *Orchestrator) collectVisionRegions(extractions []*vision.PageExtraction, diags *Diagnostics) ([]*model.AssetRegion, map[int]model.AssetKind) {
	var regions []*model.AssetRegion
	needs := make(map[int]model.AssetKind)

	for i, extraction := range extractions {
		if extraction == nil {
			continue
		}
		page := i + 1

		for _, t := range extraction.Tables {
			if !t.BBox.Valid() {
				diags.SkippedAssets = append(diags.SkippedAssets, SkippedAsset{ID: t.ID, Reason: "degenerate bounding polygon"})
				continue
			}
			region := model.NewAssetRegion(model.AssetTable, page, t.BBox, model.SourceVision)
			region.Table = locate.TypeTable(layoutsvc.RawTable{Page: page, BBox: t.BBox, Header: t.Header, Body: t.Body})
			if len(t.QuestionNos) == 1 {
				region.OwningNo = t.QuestionNos[0]
			}
			for _, no := range t.QuestionNos {
				needs[no] = model.AssetTable
			}
			regions = append(regions, region)
		}

		for _, f := range extraction.Figures {
			if !f.BBox.Valid() {
				diags.SkippedAssets = append(diags.SkippedAssets, SkippedAsset{ID: f.ID, Reason: "degenerate bounding polygon"})
				continue
			}
			region := model.NewAssetRegion(model.AssetFigure, page, f.BBox, model.SourceVision)
			region.Figure = &model.FigureData{Caption: f.Caption, Labels: f.Labels}
			if len(f.QuestionNos) == 1 {
				region.OwningNo = f.QuestionNos[0]
			}
			for _, no := range f.QuestionNos {
				needs[no] = model.AssetFigure
			}
			regions = append(regions, region)
		}
	}

	return regions, needs
}

// validateOwners drops regions whose owning question does not exist.
// Ownership must reference a real record; a dangling assignment is an
// asset-level defect, not a fatal one.
func (o *Orchestrator) validateOwners(assigned []*model.AssetRegion, byNo map[int]*model.QuestionRecord, diags *Diagnostics) []*model.AssetRegion {
	kept := assigned[:0]
	for _, region := range assigned {
		if byNo[region.OwningNo] == nil {
			diags.SkippedAssets = append(diags.SkippedAssets, SkippedAsset{
				ID:     region.ID,
				Reason: fmt.Sprintf("owning question %d not found", region.OwningNo),
			})
			continue
		}
		kept = append(kept, region)
	}
	return kept
}

// cropPass renders every assigned region to a PNG crop. Failures skip the
// single asset.
func (o *Orchestrator) cropPass(assigned []*model.AssetRegion, pages []*model.Page, diags *Diagnostics) {
	if o.config.Crop.Dir == "" {
		return
	}

	byIndex := make(map[int]*model.Page, len(pages))
	for _, p := range pages {
		byIndex[p.Index] = p
	}

	for _, region := range assigned {
		page := byIndex[region.Page]
		if page == nil {
			diags.SkippedAssets = append(diags.SkippedAssets, SkippedAsset{ID: region.ID, Reason: fmt.Sprintf("page %d not rendered", region.Page)})
			continue
		}
		if err := o.crops.Render(region, page); err != nil {
			diags.SkippedAssets = append(diags.SkippedAssets, SkippedAsset{ID: region.ID, Reason: err.Error()})
		}
	}
}

func sortRegions(regions []*model.AssetRegion) {
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Page != regions[j].Page {
			return regions[i].Page < regions[j].Page
		}
		if regions[i].OwningNo != regions[j].OwningNo {
			return regions[i].OwningNo < regions[j].OwningNo
		}
		return regions[i].BBox.Top() < regions[j].BBox.Top()
	})
}
