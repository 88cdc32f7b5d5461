package model

import "math"

// Point represents a 2D point in page-normalized coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is a bounding polygon locating a visual region on a page.
// A well-formed polygon has exactly four points, each coordinate in [0,1],
// ordered top-left, top-right, bottom-right, bottom-left.
type Polygon []Point

// NewPolygon creates an axis-aligned polygon from two opposite corners.
// Coordinates are reordered so the result is well-formed regardless of
// which corners are passed.
func NewPolygon(x0, y0, x1, y1 float64) Polygon {
	left := math.Min(x0, x1)
	right := math.Max(x0, x1)
	top := math.Min(y0, y1)
	bottom := math.Max(y0, y1)
	return Polygon{
		{X: left, Y: top},
		{X: right, Y: top},
		{X: right, Y: bottom},
		{X: left, Y: bottom},
	}
}

// Valid reports whether the polygon is a well-formed quadrilateral:
// exactly 4 points with every coordinate in [0,1].
func (pg Polygon) Valid() bool {
	if len(pg) != 4 {
		return false
	}
	for _, p := range pg {
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			return false
		}
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			return false
		}
	}
	return true
}

// Left returns the left edge X coordinate
func (pg Polygon) Left() float64 {
	return pg.fold(math.Inf(1), math.Min, func(p Point) float64 { return p.X })
}

// Right returns the right edge X coordinate
func (pg Polygon) Right() float64 {
	return pg.fold(math.Inf(-1), math.Max, func(p Point) float64 { return p.X })
}

// Top returns the top edge Y coordinate (smallest Y, since y grows downward)
func (pg Polygon) Top() float64 {
	return pg.fold(math.Inf(1), math.Min, func(p Point) float64 { return p.Y })
}

// Bottom returns the bottom edge Y coordinate (largest Y)
func (pg Polygon) Bottom() float64 {
	return pg.fold(math.Inf(-1), math.Max, func(p Point) float64 { return p.Y })
}

func (pg Polygon) fold(init float64, pick func(a, b float64) float64, coord func(Point) float64) float64 {
	v := init
	for _, p := range pg {
		v = pick(v, coord(p))
	}
	return v
}

// Width returns the horizontal extent of the polygon
func (pg Polygon) Width() float64 {
	return pg.Right() - pg.Left()
}

// Height returns the vertical extent of the polygon
func (pg Polygon) Height() float64 {
	return pg.Bottom() - pg.Top()
}

// MidY returns the vertical midpoint of the polygon
func (pg Polygon) MidY() float64 {
	return (pg.Top() + pg.Bottom()) / 2
}

// VerticalOverlap returns the length of the intersection between the
// polygon's y-extent and the interval [top, bottom]. The result is zero
// when the two do not overlap.
func (pg Polygon) VerticalOverlap(top, bottom float64) float64 {
	lo := math.Max(pg.Top(), top)
	hi := math.Min(pg.Bottom(), bottom)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// Pad expands the polygon's bounds symmetrically by the given fraction on
// every side, clamped to [0,1]. The receiver is not modified.
func (pg Polygon) Pad(frac float64) Polygon {
	return NewPolygon(
		clamp01(pg.Left()-frac),
		clamp01(pg.Top()-frac),
		clamp01(pg.Right()+frac),
		clamp01(pg.Bottom()+frac),
	)
}

// Area returns the area of the polygon's axis-aligned bounds
func (pg Polygon) Area() float64 {
	return pg.Width() * pg.Height()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// QuestionSpan is the vertical page window attributed to one question
// number, derived from adjacent question-number token positions. It is
// used only for geometric matching and is never persisted.
type QuestionSpan struct {
	No     int     // question ordinal the span belongs to
	Page   int     // 1-based page index
	Top    float64 // bottom edge of the question's number token
	Bottom float64 // top edge of the next question's token, or near page bottom
}

// Height returns the vertical extent of the span
func (s QuestionSpan) Height() float64 {
	return s.Bottom - s.Top
}

// Mid returns the vertical midpoint of the span
func (s QuestionSpan) Mid() float64 {
	return (s.Top + s.Bottom) / 2
}
