package model

// TextAnchor is one positioned text token reported by the layout-analysis
// service. Anchors for question-number tokens are what the reconciler uses
// to derive question spans.
type TextAnchor struct {
	Page int     `json:"page"` // 1-based page index
	Text string  `json:"text"`
	BBox Polygon `json:"bbox"`
}
