package model

// AnswerUnknown is the literal answer value used when a token could not be
// normalized to one of a question's options.
const AnswerUnknown = "unknown"

// QuestionRecord is one structured exam question. Records are created by
// the segmenter with stem and options populated; the resolver fills the
// answer and rationale, and external enrichment fills the classification
// fields. A record is never deleted, only enriched.
type QuestionRecord struct {
	No        int      `json:"no"`               // ordinal, unique per exam
	Stem      string   `json:"stem"`             // question text before the first option marker
	Options   []string `json:"options"`          // 2-5 healed options; empty for free-response items
	Answer    string   `json:"answer,omitempty"` // literal option text or AnswerUnknown; empty until resolved
	Rationale string   `json:"rationale,omitempty"`

	// Classification, filled by an external enrichment collaborator.
	Area       string `json:"area,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Level      string `json:"level,omitempty"`

	AudioRef string `json:"audio_ref,omitempty"` // audio transcript reference, if any
	Page     int    `json:"page"`                // 1-based source page
}

// HasOptions reports whether the question is multiple-choice.
func (q *QuestionRecord) HasOptions() bool {
	return len(q.Options) > 0
}

// OptionAt returns the 1-based option at idx, or AnswerUnknown when idx is
// out of range. Consumers always receive literal option text, never an index.
func (q *QuestionRecord) OptionAt(idx int) string {
	if idx < 1 || idx > len(q.Options) {
		return AnswerUnknown
	}
	return q.Options[idx-1]
}

// MergeFrom copies non-empty fields from other into q without overwriting
// fields q already has. First non-empty value wins; a later stage never
// replaces a populated field with an empty one.
func (q *QuestionRecord) MergeFrom(other *QuestionRecord) {
	if q.Stem == "" {
		q.Stem = other.Stem
	}
	if len(q.Options) == 0 {
		q.Options = other.Options
	}
	if other.Answer != "" && (q.Answer == "" || q.Answer == AnswerUnknown) {
		q.Answer = other.Answer
	}
	if q.Rationale == "" {
		q.Rationale = other.Rationale
	}
	if q.Area == "" {
		q.Area = other.Area
	}
	if q.Difficulty == "" {
		q.Difficulty = other.Difficulty
	}
	if q.Level == "" {
		q.Level = other.Level
	}
	if q.AudioRef == "" {
		q.AudioRef = other.AudioRef
	}
	if q.Page == 0 {
		q.Page = other.Page
	}
}
