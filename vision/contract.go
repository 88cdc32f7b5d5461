package vision

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sijun-lee/examsift/model"
)

// ErrMalformedResponse marks a page whose vision response could not be
// parsed. Callers log it and treat the page's extraction as empty; it is
// never fatal to a run.
var ErrMalformedResponse = errors.New("malformed vision response")

// PageExtraction is the vision service's output contract for one page.
type PageExtraction struct {
	Items   []Item   `json:"items"`
	Tables  []Table  `json:"tables"`
	Figures []Figure `json:"figures"`
}

// Item is one question the service read off the page.
type Item struct {
	No        int      `json:"no"`
	Stem      string   `json:"stem"`
	Options   []string `json:"options"`
	Answer    string   `json:"answer"`
	Rationale string   `json:"rationale"`

	// Classification hints.
	Area       string `json:"area"`
	Difficulty string `json:"difficulty"`
	Level      string `json:"level"`
}

// Table is one table the service located, with the questions it relates to.
type Table struct {
	ID          string        `json:"id"`
	BBox        model.Polygon `json:"bbox"`
	Header      []string      `json:"header"`
	Body        [][]string    `json:"body"`
	QuestionNos []int         `json:"question_nos"`
}

// Figure is one figure the service located.
type Figure struct {
	ID          string        `json:"id"`
	BBox        model.Polygon `json:"bbox"`
	Caption     string        `json:"caption"`
	Labels      []string      `json:"labels"`
	QuestionNos []int         `json:"question_nos"`
}

// item mirrors Item with a raw options field so that a scalar or object
// options value coerces to an empty list instead of failing the page.
type item struct {
	No         int             `json:"no"`
	Stem       string          `json:"stem"`
	Options    json.RawMessage `json:"options"`
	Answer     string          `json:"answer"`
	Rationale  string          `json:"rationale"`
	Area       string          `json:"area"`
	Difficulty string          `json:"difficulty"`
	Level      string          `json:"level"`
}

type pageExtraction struct {
	Items   []item   `json:"items"`
	Tables  []Table  `json:"tables"`
	Figures []Figure `json:"figures"`
}

// ParseResponse parses one page's raw vision-service output into the
// strict contract. Markdown code fences around the JSON are stripped
// first. Invalid JSON returns ErrMalformedResponse.
func ParseResponse(raw string) (*PageExtraction, error) {
	cleaned := StripFences(raw)

	var pe pageExtraction
	if err := json.Unmarshal([]byte(cleaned), &pe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	out := &PageExtraction{Tables: pe.Tables, Figures: pe.Figures}
	for _, it := range pe.Items {
		out.Items = append(out.Items, Item{
			No:         it.No,
			Stem:       it.Stem,
			Options:    coerceOptions(it.Options),
			Answer:     it.Answer,
			Rationale:  it.Rationale,
			Area:       it.Area,
			Difficulty: it.Difficulty,
			Level:      it.Level,
		})
	}
	return out, nil
}

// coerceOptions accepts only a JSON list of strings; anything else (null,
// a scalar, an object) becomes an empty list.
func coerceOptions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var opts []string
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil
	}
	return opts
}

// StripFences removes a markdown code-fence wrapper (``` or ```json)
// around a response body, if present.
func StripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
		// Drop the language tag on the opening fence line.
		trimmed = trimmed[i+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
