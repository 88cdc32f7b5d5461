// Package segment splits per-page exam text into ordered question records.
//
// A line matching the question-number pattern (e.g. "12. " or "3) ") opens a
// new question; following lines accumulate into its body until the next such
// line or the end of the page. Within a body, option markers (digits 1-10,
// letters A-E, circled numerals ①-⑳, with optional surrounding brackets or
// punctuation) split the text into a stem and raw options.
//
// Raw options from scanned documents are frequently fragmented mid-sentence.
// Option healing merges adjacent fragments until each is long enough or ends
// in terminal punctuation, then collapses from the front until the list is at
// the expected answer-choice count.
package segment
