package answers

import (
	"golang.org/x/text/width"

	"github.com/sijun-lee/examsift/internal/marker"
	"github.com/sijun-lee/examsift/model"
	"github.com/sijun-lee/examsift/segment"
)

// Resolver fills answers and rationales on question records from separately
// parsed answer-key and solution documents.
type Resolver struct {
	strategies []Strategy
}

// New creates a resolver with the default key-extraction strategies.
func New() *Resolver {
	return &Resolver{strategies: KeyStrategies()}
}

// ResolveKey extracts answer tokens from an answer-key document and sets
// the Answer field of matching questions. Questions already holding a real
// answer are left alone. Unmatched tokens resolve to model.AnswerUnknown.
func (r *Resolver) ResolveKey(keyText string, questions map[int]*model.QuestionRecord) {
	covered := make(map[int]bool)
	for _, strat := range r.strategies {
		for _, ex := range strat.Extract(keyText) {
			if covered[ex.No] {
				continue
			}
			q, ok := questions[ex.No]
			if !ok {
				continue
			}
			covered[ex.No] = true
			setAnswer(q, Normalize(ex.Token, q))
		}
	}
}

// ResolveSolutions segments a solution document by question number, pulls
// the answer-label sentence out of each segment, and keeps the remaining
// text as the rationale.
func (r *Resolver) ResolveSolutions(solutionText string, questions map[int]*model.QuestionRecord) {
	for _, body := range segment.Bodies(solutionText) {
		q, ok := questions[body.No]
		if !ok {
			continue
		}

		token, remaining, found := ExtractLabeled(body.Text)
		if found {
			setAnswer(q, Normalize(token, q))
		}
		if q.Rationale == "" && remaining != "" {
			q.Rationale = remaining
		}
	}
}

// setAnswer applies first-non-empty-wins: a real answer is never replaced,
// and "unknown" never overwrites a real answer.
func setAnswer(q *model.QuestionRecord, answer string) {
	if q.Answer == "" || q.Answer == model.AnswerUnknown {
		q.Answer = answer
	}
}

// Normalize maps a raw answer token to the literal option string it names.
// The token may be a circled numeral, a Latin letter, an Arabic digit, or
// carry the marker embedded inside longer text. Fullwidth forms are folded
// to their narrow equivalents first. Tokens with no recognizable marker, or
// an index outside the question's option list, normalize to
// model.AnswerUnknown; a bare index is never returned.
func Normalize(token string, q *model.QuestionRecord) string {
	folded := width.Fold.String(token)
	idx := marker.First(folded)
	if idx == 0 {
		return model.AnswerUnknown
	}
	return q.OptionAt(idx)
}
