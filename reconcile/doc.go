// Package reconcile assigns located asset regions to the questions they
// belong to.
//
// For every question number the reconciler derives a question span: the
// vertical page window between the bottom edge of its number token and the
// top edge of the next question's token (or near the page bottom for the
// last question on a page). Each unresolved region is then matched to the
// span with the greatest vertical overlap; when no overlap reaches the
// confidence threshold, the region falls back to the span whose midpoint is
// nearest, flagged low-confidence for operator review. A region on a page
// with candidate spans is always assigned to something.
//
// The matcher is a pure function returning (assignments, remaining); it
// never mutates its candidate lists, so tie-breaking is deterministic and
// testable in isolation.
package reconcile
