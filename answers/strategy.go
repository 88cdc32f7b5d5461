package answers

import (
	"regexp"
	"strconv"
	"strings"
)

// Extraction is one raw (question number, answer token) pair pulled from an
// answer-key or solution document, before normalization.
type Extraction struct {
	No    int
	Token string
}

// Strategy is a single answer-extraction pattern. Strategies are tried in
// order over the whole document text; later strategies only contribute
// question numbers earlier ones did not cover.
type Strategy struct {
	Name    string
	pattern *regexp.Regexp
}

// Extract returns every (number, token) pair the strategy finds in text.
func (s Strategy) Extract(text string) []Extraction {
	var out []Extraction
	for _, m := range s.pattern.FindAllStringSubmatch(text, -1) {
		no, err := strconv.Atoi(m[1])
		if err != nil || no == 0 {
			continue
		}
		token := strings.TrimSpace(m[2])
		if token == "" {
			continue
		}
		out = append(out, Extraction{No: no, Token: token})
	}
	return out
}

// KeyStrategies is the ordered strategy list for compact answer-key
// documents: inline "12. ②" lines first, then labeled
// "12 정답: ②" / "12 Answer: B" lines.
func KeyStrategies() []Strategy {
	return []Strategy{
		{
			Name:    "inline",
			pattern: regexp.MustCompile(`(?m)^\s*(\d{1,3})\s*[.)]\s*(\S[^\n]*?)\s*$`),
		},
		{
			Name:    "labeled",
			pattern: regexp.MustCompile(`(?m)^\s*(\d{1,3})[.)]?\s*(?:(?:정답|Answer|ANS)\s*[:：]?|답\s*[:：])\s*(\S[^\n]*?)\s*$`),
		},
	}
}

// answerLabel matches an answer-label sentence inside one question's
// solution segment, capturing the token after the label.
var answerLabel = regexp.MustCompile(`(?m)^.*?(?:(?:정답|Answer|ANS)\s*[:：은는]?|답\s*[:：])\s*(\S[^\n]*?)\s*$`)

// ExtractLabeled finds the first answer-label line inside a solution
// segment. It returns the token, the segment text with that line removed,
// and whether a label was found.
func ExtractLabeled(segmentText string) (token, remaining string, ok bool) {
	loc := answerLabel.FindStringSubmatchIndex(segmentText)
	if loc == nil {
		return "", segmentText, false
	}
	token = strings.TrimSpace(segmentText[loc[2]:loc[3]])
	remaining = strings.TrimSpace(segmentText[:loc[0]] + segmentText[loc[1]:])
	return token, remaining, true
}
