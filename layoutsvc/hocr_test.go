package layoutsvc

import (
	"math"
	"strings"
	"testing"
)

const sampleHOCR = `<html><body>
<div class='ocr_page' id='page_1' title='image "p1.png"; bbox 0 0 1000 2000; ppageno 0'>
  <span class='ocrx_word' title='bbox 100 200 180 240; x_wconf 96'>12.</span>
  <span class='ocrx_word' title='bbox 200 200 400 240'>다음</span>
</div>
<div class='ocr_page' id='page_2' title='bbox 0 0 1000 2000'>
  <span class='ocrx_word' title='bbox 100 1900 180 1960'>13.</span>
  <span class='ocrx_word' title='broken title'>noise</span>
</div>
</body></html>`

func TestParseHOCR(t *testing.T) {
	anchors, err := ParseHOCR(strings.NewReader(sampleHOCR))
	if err != nil {
		t.Fatalf("ParseHOCR() failed: %v", err)
	}
	if len(anchors) != 3 {
		t.Fatalf("ParseHOCR() = %d anchors, want 3", len(anchors))
	}

	first := anchors[0]
	if first.Page != 1 || first.Text != "12." {
		t.Errorf("anchors[0] = page %d text %q, want page 1 '12.'", first.Page, first.Text)
	}
	if math.Abs(first.BBox.Left()-0.1) > 1e-9 || math.Abs(first.BBox.Top()-0.1) > 1e-9 {
		t.Errorf("anchors[0] bbox = [%v, %v], want normalized [0.1, 0.1]",
			first.BBox.Left(), first.BBox.Top())
	}
	if !first.BBox.Valid() {
		t.Error("anchors[0] bbox is not a well-formed polygon")
	}

	last := anchors[2]
	if last.Page != 2 || last.Text != "13." {
		t.Errorf("anchors[2] = page %d text %q, want page 2 '13.'", last.Page, last.Text)
	}
	if math.Abs(last.BBox.Top()-0.95) > 1e-9 {
		t.Errorf("anchors[2] top = %v, want 0.95", last.BBox.Top())
	}
}

func TestParseHOCR_OffsetPageOrigin(t *testing.T) {
	// A page bbox that does not start at 0 0, as scanners that crop the
	// sheet produce. Word coordinates share the page's pixel frame, so
	// the page origin must come off before normalizing.
	doc := `<html><body>
<div class='ocr_page' title='bbox 100 50 900 650'>
  <span class='ocrx_word' title='bbox 200 110 300 170'>15.</span>
</div>
</body></html>`

	anchors, err := ParseHOCR(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseHOCR() failed: %v", err)
	}
	if len(anchors) != 1 {
		t.Fatalf("ParseHOCR() = %d anchors, want 1", len(anchors))
	}

	bbox := anchors[0].BBox
	want := [4]float64{0.125, 0.1, 0.25, 0.2}
	got := [4]float64{bbox.Left(), bbox.Top(), bbox.Right(), bbox.Bottom()}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("bbox = %v, want (0.125, 0.1, 0.25, 0.2)", got)
			break
		}
	}
	if !bbox.Valid() {
		t.Error("offset-origin bbox is not a well-formed polygon")
	}
}

func TestParseHOCR_Empty(t *testing.T) {
	anchors, err := ParseHOCR(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("ParseHOCR() failed: %v", err)
	}
	if len(anchors) != 0 {
		t.Errorf("ParseHOCR() on empty document = %d anchors, want 0", len(anchors))
	}
}

func TestParseBBox(t *testing.T) {
	x0, y0, x1, y1, ok := parseBBox(`image "p.png"; bbox 10 20 30 40; ppageno 0`)
	if !ok {
		t.Fatal("parseBBox() did not find the bbox")
	}
	if x0 != 10 || y0 != 20 || x1 != 30 || y1 != 40 {
		t.Errorf("parseBBox() = %v %v %v %v, want 10 20 30 40", x0, y0, x1, y1)
	}

	if _, _, _, _, ok := parseBBox("x_wconf 95"); ok {
		t.Error("parseBBox() accepted a title without bbox")
	}
}

func TestResultFrom_HOCRFallback(t *testing.T) {
	ar := analyzeResponse{
		Pages: []struct {
			Text string `json:"text"`
		}{{Text: "1. 문제"}, {Text: "2. 문제"}},
		HOCR: sampleHOCR,
	}

	result, err := resultFrom(ar)
	if err != nil {
		t.Fatalf("resultFrom() failed: %v", err)
	}
	if len(result.Anchors) != 3 {
		t.Errorf("resultFrom() = %d anchors from hOCR fallback, want 3", len(result.Anchors))
	}
	if result.Text != "1. 문제\n2. 문제" {
		t.Errorf("Text = %q", result.Text)
	}
}
