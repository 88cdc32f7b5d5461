// Package marker maps option-marker glyphs (circled numerals, Latin
// letters, Arabic digits) to 1-based option indices. It is shared by the
// question segmenter and the answer resolver.
package marker

import (
	"strconv"
	"unicode"
)

const circledBase = '①' // U+2460, circled one

// CircledIndex returns the 1-based index for a circled numeral ①-⑳,
// or 0 when r is not a circled numeral.
func CircledIndex(r rune) int {
	if r >= circledBase && r <= '⑳' {
		return int(r-circledBase) + 1
	}
	return 0
}

// LetterIndex returns the 1-based index for a Latin option letter A-E
// (either case), or 0 otherwise.
func LetterIndex(r rune) int {
	switch {
	case r >= 'A' && r <= 'E':
		return int(r-'A') + 1
	case r >= 'a' && r <= 'e':
		return int(r-'a') + 1
	}
	return 0
}

// First scans s for the first recognizable option marker and returns its
// 1-based index, or 0 when no marker is found. Markers are recognized in
// this order of preference at each position: circled numeral, Arabic
// number 1-10, Latin letter A-E. A digit run longer than two characters is
// not a marker. A letter is only a marker when it does not sit inside a
// longer word.
func First(s string) int {
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if idx := CircledIndex(r); idx > 0 {
			return idx
		}

		if unicode.IsDigit(r) {
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			if n := j - i; n <= 2 {
				if idx := digitIndex(string(runes[i:j])); idx > 0 {
					return idx
				}
			}
			i = j - 1
			continue
		}

		if idx := LetterIndex(r); idx > 0 {
			prevOK := i == 0 || !unicode.IsLetter(runes[i-1])
			nextOK := i == len(runes)-1 || !unicode.IsLetter(runes[i+1])
			if prevOK && nextOK {
				return idx
			}
		}
	}
	return 0
}

func digitIndex(s string) int {
	switch s {
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return int(s[0] - '0')
	case "10":
		return 10
	}
	return 0
}

// Glyph returns a display glyph for a 1-based option index: the circled
// numeral for 1-20, or the decimal string otherwise.
func Glyph(idx int) string {
	if idx >= 1 && idx <= 20 {
		return string(rune(circledBase + idx - 1))
	}
	return strconv.Itoa(idx)
}
