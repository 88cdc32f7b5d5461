package reconcile

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/sijun-lee/examsift/model"
)

// numberToken matches a question-number anchor token like "12." or "7)".
var numberToken = regexp.MustCompile(`^(\d{1,3})[.)]?$`)

// Config holds reconciler configuration
type Config struct {
	// OverlapThreshold is the minimum vertical overlap, as a fraction of
	// the span's height, for a confident assignment.
	OverlapThreshold float64

	// LastSpanBottom is where the last question's span on a page ends.
	LastSpanBottom float64

	// FallbackLeft and FallbackRight bound the horizontal band of
	// synthetic fallback regions.
	FallbackLeft  float64
	FallbackRight float64
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		OverlapThreshold: 0.30,
		LastSpanBottom:   0.98,
		FallbackLeft:     0.10,
		FallbackRight:    0.90,
	}
}

// Spans derives question spans from positioned text anchors, across all
// pages. On each page, question-number tokens are ordered top to bottom;
// each span runs from the bottom edge of its own token to the top edge of
// the next token, and the last span on a page ends at LastSpanBottom.
// Repeated numbers on one page keep only their topmost token.
func Spans(anchors []model.TextAnchor, config Config) []model.QuestionSpan {
	type token struct {
		no  int
		top float64
		bot float64
	}
	byPage := make(map[int][]token)

	for _, a := range anchors {
		m := numberToken.FindStringSubmatch(a.Text)
		if m == nil {
			continue
		}
		no, err := strconv.Atoi(m[1])
		if err != nil || no == 0 {
			continue
		}
		byPage[a.Page] = append(byPage[a.Page], token{no: no, top: a.BBox.Top(), bot: a.BBox.Bottom()})
	}

	pages := make([]int, 0, len(byPage))
	for p := range byPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	var spans []model.QuestionSpan
	for _, p := range pages {
		tokens := byPage[p]
		sort.Slice(tokens, func(i, j int) bool { return tokens[i].top < tokens[j].top })

		seen := make(map[int]bool)
		kept := tokens[:0]
		for _, t := range tokens {
			if seen[t.no] {
				continue
			}
			seen[t.no] = true
			kept = append(kept, t)
		}

		for i, t := range kept {
			bottom := config.LastSpanBottom
			if i+1 < len(kept) {
				bottom = kept[i+1].top
			}
			if bottom < t.bot {
				bottom = t.bot
			}
			spans = append(spans, model.QuestionSpan{
				No:     t.no,
				Page:   p,
				Top:    t.bot,
				Bottom: bottom,
			})
		}
	}

	return spans
}
