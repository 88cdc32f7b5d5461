package segment

import "strings"

// Body is the raw text attributed to one question number, before any
// stem/option parsing. The answer resolver uses bodies to segment solution
// documents by question number.
type Body struct {
	No   int
	Text string
}

// Bodies splits text into per-question raw bodies using the same
// question-number line pattern as SegmentPage. Text before the first
// question line is dropped.
func Bodies(text string) []Body {
	var bodies []Body
	cur := -1
	var sb strings.Builder

	flush := func() {
		if cur < 0 {
			return
		}
		bodies = append(bodies, Body{No: cur, Text: strings.TrimSpace(sb.String())})
		sb.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if m := questionLine.FindStringSubmatch(line); m != nil {
			flush()
			cur = atoi(m[1])
			sb.WriteString(strings.TrimSpace(line[len(m[0]):]))
			sb.WriteString("\n")
			continue
		}
		if cur >= 0 {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	flush()

	return bodies
}
