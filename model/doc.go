// Package model defines the core data types shared by every stage of the
// exam extraction pipeline: pages, question records, visual asset regions,
// and the normalized geometry used to tie them together.
//
// # Coordinate system
//
// All geometry is expressed in page-normalized coordinates: x and y each in
// [0,1], with the origin at the top-left of the page and y increasing
// downward. This matches the convention used by vision-extraction services
// and makes regions resolution-independent.
//
// # Lifecycle
//
// A [Page] is created once by the page renderer and is read-only afterwards.
// A [QuestionRecord] is created by the segmenter and enriched (never deleted)
// by later stages. An [AssetRegion] is created by a locator, assigned an
// owning question by the reconciler, and given a local render path and
// content hash by the asset renderer.
package model
