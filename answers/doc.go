// Package answers extracts and normalizes answer tokens and rationales
// from answer-key and solution documents.
//
// Extraction runs an explicit ordered list of strategies over the document
// text; each strategy is a single pattern that can be tested in isolation.
// Raw tokens are then normalized against the matching question's option
// list: a circled numeral, Latin letter, or Arabic digit anywhere in the
// token maps to a 1-based option index, which resolves to the literal
// option string. A token with no recognizable marker, or one whose index is
// out of range, resolves to "unknown" -- a bare index is never surfaced.
package answers
