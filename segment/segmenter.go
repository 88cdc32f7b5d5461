package segment

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sijun-lee/examsift/model"
)

// questionLine matches a line opening a new question, capturing its number.
var questionLine = regexp.MustCompile(`^(\d{1,3})[.)]\s`)

// optionMarker matches an option marker inside a question body. Circled
// numerals may stand alone; digits and letters need a closing delimiter so
// that ordinary prose ("a word", "10 people") does not split an option.
var optionMarker = regexp.MustCompile(`(?:^|\s)[\[({〔【]?(?:([①-⑳])[\])}〕】.]?|(10|[1-9]|[A-Ea-e])[\].)}:])[ \t]*`)

// Config holds segmenter configuration
type Config struct {
	// MinFragmentLen is the rune length a merged option fragment must reach
	// before healing stops concatenating, unless it already ends in
	// terminal punctuation.
	MinFragmentLen int

	// MaxOptions is the healing target when five or more raw fragments are
	// detected.
	MaxOptions int

	// DefaultOptions is the healing target otherwise.
	DefaultOptions int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinFragmentLen: 25,
		MaxOptions:     5,
		DefaultOptions: 4,
	}
}

// Segmenter splits per-page exam text into ordered question records.
type Segmenter struct {
	config Config
}

// New creates a segmenter with default configuration.
func New() *Segmenter {
	return &Segmenter{config: DefaultConfig()}
}

// NewWithConfig creates a segmenter with the given configuration.
func NewWithConfig(config Config) *Segmenter {
	return &Segmenter{config: config}
}

// Segment runs over every page and returns question records ordered by
// number. When a question number recurs across pages, the occurrence with
// non-empty options is kept.
func (s *Segmenter) Segment(pages []*model.Page) []*model.QuestionRecord {
	byNo := make(map[int]*model.QuestionRecord)

	for _, page := range pages {
		for _, q := range s.SegmentPage(page.Index, page.Text) {
			prev, seen := byNo[q.No]
			if !seen {
				byNo[q.No] = q
				continue
			}
			if len(prev.Options) == 0 && len(q.Options) > 0 {
				byNo[q.No] = q
			}
		}
	}

	out := make([]*model.QuestionRecord, 0, len(byNo))
	for _, q := range byNo {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].No < out[j].No })
	return out
}

// SegmentPage parses one page's raw text into question records. A page
// with no question-number tokens yields an empty slice.
func (s *Segmenter) SegmentPage(pageNo int, text string) []*model.QuestionRecord {
	var records []*model.QuestionRecord
	var current *model.QuestionRecord
	var body strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		current.Stem, current.Options = s.parseBody(body.String())
		records = append(records, current)
		body.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		m := questionLine.FindStringSubmatch(line)
		if m != nil {
			flush()
			current = &model.QuestionRecord{No: atoi(m[1]), Page: pageNo}
			body.WriteString(strings.TrimSpace(line[len(m[0]):]))
			body.WriteString("\n")
			continue
		}
		if current != nil {
			body.WriteString(line)
			body.WriteString("\n")
		}
	}
	flush()

	return records
}

// parseBody splits a question body into stem and healed options. A body
// with no detected markers is a free-response item: the whole body is the
// stem and the option list is empty.
func (s *Segmenter) parseBody(body string) (string, []string) {
	matches := optionMarker.FindAllStringIndex(body, -1)
	if len(matches) == 0 {
		return strings.TrimSpace(body), nil
	}

	stem := strings.TrimSpace(body[:matches[0][0]])

	raw := make([]string, 0, len(matches))
	for i, m := range matches {
		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		frag := strings.TrimSpace(body[m[1]:end])
		if frag != "" {
			raw = append(raw, frag)
		}
	}

	target := s.config.DefaultOptions
	if len(raw) >= s.config.MaxOptions {
		target = s.config.MaxOptions
	}

	options := s.heal(raw, target)
	if len(options) < 2 {
		// One stray marker in prose, not a real option list.
		return strings.TrimSpace(body), nil
	}
	return stem, options
}

// HealOptions applies the option-count contract to an externally supplied
// option list. Lists with fewer than two entries cannot be multiple choice
// and collapse to nil (free-response); lists over the maximum are healed
// down to it, exactly as fragmented bodies are. A list healing below two
// entries collapses to nil as well.
func (s *Segmenter) HealOptions(options []string) []string {
	if len(options) < 2 {
		return nil
	}
	healed := s.heal(options, s.config.MaxOptions)
	if len(healed) < 2 {
		return nil
	}
	return healed
}

// heal merges fragmented option text into the expected answer-choice count.
func (s *Segmenter) heal(fragments []string, target int) []string {
	if len(fragments) <= target {
		return fragments
	}

	// Pass 1: concatenate adjacent fragments until each one is long enough
	// or ends in terminal punctuation.
	var merged []string
	var cur string
	for _, frag := range fragments {
		if cur == "" {
			cur = frag
		} else {
			cur = cur + " " + frag
		}
		if utf8.RuneCountInString(cur) > s.config.MinFragmentLen || endsTerminal(cur) {
			merged = append(merged, cur)
			cur = ""
		}
	}
	if cur != "" {
		merged = append(merged, cur)
	}

	// Pass 2: still over target, fold from the front until at target length.
	for len(merged) > target {
		merged = append([]string{merged[0] + " " + merged[1]}, merged[2:]...)
	}

	return merged
}

func endsTerminal(s string) bool {
	r, size := utf8.DecodeLastRuneInString(s)
	if size == 0 {
		return false
	}
	switch r {
	case '.', '?', '!', '。', '？', '！':
		return true
	}
	return false
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
