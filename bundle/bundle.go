// Package bundle discovers the documents of one exam: the question
// document plus the optional answer-key, solution, audio, and annotated
// files next to it.
//
// Roles are recognized by filename keywords (Korean and English). An
// annotated copy of the question document may carry a ".boxes.json"
// sidecar with reviewer-drawn boxes; those parse into annotated asset
// regions, which override locator-derived boxes during reconciliation.
package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sijun-lee/examsift/model"
)

// ErrNoQuestionDocument is returned when the bundle directory holds no
// recognizable question document. It is fatal to the run.
var ErrNoQuestionDocument = errors.New("no question document in bundle")

// Bundle is one exam's input file set.
type Bundle struct {
	Dir       string
	Question  string // question document path, always set
	AnswerKey string // optional answer-key document
	Solution  string // optional solution document
	Audio     string // optional audio file
	Annotated string // optional human-annotated copy of the question document

	// Hints are reviewer-drawn boxes from the annotated copy's sidecar.
	Hints []*model.AssetRegion
}

var audioExts = map[string]bool{
	".mp3": true, ".m4a": true, ".wav": true, ".ogg": true,
}

// Discover scans dir and assigns each file a role. Exactly one question
// document is required; every other role is optional. When several files
// match a role, the lexically first wins.
func Discover(dir string) (*Bundle, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading bundle directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	b := &Bundle{Dir: dir}
	for _, name := range names {
		path := filepath.Join(dir, name)
		lower := strings.ToLower(name)
		ext := filepath.Ext(lower)

		switch {
		case audioExts[ext]:
			setIfEmpty(&b.Audio, path)
		case ext != ".pdf":
			continue
		case containsAny(lower, "검수", "annotated", "reviewed"):
			setIfEmpty(&b.Annotated, path)
		case containsAny(lower, "해설", "solution"):
			setIfEmpty(&b.Solution, path)
		case containsAny(lower, "정답", "answer", "key"):
			setIfEmpty(&b.AnswerKey, path)
		case containsAny(lower, "문제", "question", "exam"):
			setIfEmpty(&b.Question, path)
		default:
			// A lone unlabeled PDF is taken as the question document.
			setIfEmpty(&b.Question, path)
		}
	}

	if b.Question == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoQuestionDocument, dir)
	}

	if b.Annotated != "" {
		hints, err := loadHints(b.Annotated)
		if err != nil {
			return nil, fmt.Errorf("annotated copy: %w", err)
		}
		b.Hints = hints
	}

	return b, nil
}

func setIfEmpty(dst *string, path string) {
	if *dst == "" {
		*dst = path
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// hintBox is one reviewer-drawn box in the sidecar file.
type hintBox struct {
	No   int           `json:"no"`
	Kind string        `json:"kind"`
	Page int           `json:"page"`
	BBox model.Polygon `json:"bbox"`
}

// loadHints reads the annotated copy's ".boxes.json" sidecar, if present.
// A box with a malformed polygon or unknown kind is skipped; reviewer
// files are hand-made and a bad line must not discard the rest.
func loadHints(annotatedPath string) ([]*model.AssetRegion, error) {
	sidecar := strings.TrimSuffix(annotatedPath, filepath.Ext(annotatedPath)) + ".boxes.json"
	data, err := os.ReadFile(sidecar)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading sidecar: %w", err)
	}

	var boxes []hintBox
	if err := json.Unmarshal(data, &boxes); err != nil {
		return nil, fmt.Errorf("parsing sidecar %s: %w", filepath.Base(sidecar), err)
	}

	var hints []*model.AssetRegion
	for _, box := range boxes {
		kind := model.AssetKind(box.Kind)
		if kind != model.AssetTable && kind != model.AssetFigure {
			continue
		}
		if !box.BBox.Valid() || box.Page < 1 {
			continue
		}
		region := model.NewAssetRegion(kind, box.Page, box.BBox, model.SourceAnnotated)
		region.OwningNo = box.No
		switch kind {
		case model.AssetTable:
			region.Table = &model.TableData{}
		case model.AssetFigure:
			region.Figure = &model.FigureData{}
		}
		hints = append(hints, region)
	}
	return hints, nil
}
