// Package layoutsvc is the client for the external layout-analysis
// service: an OCR/document-structure engine that receives document bytes
// and returns the full text, native table structures with bounding
// polygons, page vector-drawing rectangles, and positioned text anchors.
//
// Anchors may arrive either as structured JSON or as an hOCR document; the
// hOCR form is parsed with golang.org/x/net/html and normalized against
// each page's reported dimensions.
package layoutsvc
