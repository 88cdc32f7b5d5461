package locate

import (
	"testing"

	"github.com/sijun-lee/examsift/layoutsvc"
	"github.com/sijun-lee/examsift/model"
)

func TestNewGeometricLocator(t *testing.T) {
	l := NewGeometricLocator()
	if l == nil {
		t.Fatal("NewGeometricLocator() returned nil")
	}
	if name := l.Name(); name != "geometric" {
		t.Errorf("Name() = %q, want 'geometric'", name)
	}
}

func TestGeometricLocator_Locate_Nil(t *testing.T) {
	regions, err := NewGeometricLocator().Locate(nil)
	if err != nil {
		t.Errorf("Locate(nil) failed: %v", err)
	}
	if regions != nil {
		t.Errorf("Locate(nil) = %d regions, want none", len(regions))
	}
}

func TestGeometricLocator_Locate_Tables(t *testing.T) {
	layout := &layoutsvc.Result{
		Tables: []layoutsvc.RawTable{
			{
				Page:   1,
				BBox:   model.NewPolygon(0.1, 0.2, 0.9, 0.4),
				Header: []string{"품목", "가격"},
				Body:   [][]string{{"사과", "1,500원"}, {"배", "3,000원"}},
			},
			{
				// Malformed bbox, must be skipped.
				Page:   1,
				BBox:   model.Polygon{{X: 0, Y: 0}},
				Header: []string{"a"},
				Body:   [][]string{{"b"}},
			},
		},
	}

	regions, err := NewGeometricLocator().Locate(layout)
	if err != nil {
		t.Fatalf("Locate() failed: %v", err)
	}
	if len(regions) != 1 {
		t.Fatalf("Locate() = %d regions, want 1", len(regions))
	}

	r := regions[0]
	if r.Kind != model.AssetTable || r.Source != model.SourceGeometric {
		t.Errorf("region kind/source = %v/%v", r.Kind, r.Source)
	}
	if r.Table == nil || len(r.Table.Rows) != 2 {
		t.Fatalf("region table payload = %+v", r.Table)
	}
	if r.Table.Columns[1].Type != model.CellCurrency {
		t.Errorf("가격 column type = %v, want currency", r.Table.Columns[1].Type)
	}
}

func TestGeometricLocator_Locate_FigureAreaThreshold(t *testing.T) {
	layout := &layoutsvc.Result{
		Rects: []layoutsvc.Rect{
			{Page: 2, BBox: model.NewPolygon(0.1, 0.1, 0.5, 0.3)},   // area 0.08, kept
			{Page: 2, BBox: model.NewPolygon(0.1, 0.1, 0.15, 0.15)}, // area 0.0025, dropped
		},
	}

	regions, err := NewGeometricLocator().Locate(layout)
	if err != nil {
		t.Fatalf("Locate() failed: %v", err)
	}
	if len(regions) != 1 {
		t.Fatalf("Locate() = %d regions, want 1 above the area threshold", len(regions))
	}
	if regions[0].Kind != model.AssetFigure {
		t.Errorf("region kind = %v, want figure", regions[0].Kind)
	}
}

func TestCoerceCell(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want model.Cell
	}{
		{"empty", "", model.NullCell()},
		{"dash", "-", model.NullCell()},
		{"bool korean", "예", model.BoolCell(true)},
		{"bool x", "X", model.BoolCell(false)},
		{"int", "42", model.IntCell(42)},
		{"grouped int", "12,000", model.IntCell(12000)},
		{"float", "3.14", model.FloatCell(3.14)},
		{"currency suffix", "1,500원", model.CurrencyCell(1500, "원")},
		{"currency symbol", "$29.99", model.CurrencyCell(29.99, "$")},
		{"string", "사과", model.StringCell("사과")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceCell(tt.in); got != tt.want {
				t.Errorf("CoerceCell(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTypeTable_ColumnVote(t *testing.T) {
	raw := layoutsvc.RawTable{
		Page:   1,
		BBox:   model.NewPolygon(0, 0, 1, 1),
		Header: []string{"이름", "수량"},
		Body: [][]string{
			{"사과", "3"},
			{"배", "5"},
			{"감", "many"}, // minority string vote
		},
	}

	td := TypeTable(raw)
	if td.Columns[0].Type != model.CellString {
		t.Errorf("이름 column = %v, want string", td.Columns[0].Type)
	}
	if td.Columns[1].Type != model.CellInt {
		t.Errorf("수량 column = %v, want int by majority vote", td.Columns[1].Type)
	}
}

func TestTypeTable_CurrencyOverride(t *testing.T) {
	raw := layoutsvc.RawTable{
		Page:   1,
		BBox:   model.NewPolygon(0, 0, 1, 1),
		Header: []string{"품목", "금액"},
		Body:   [][]string{{"연필", "500"}, {"공책", "1200"}},
	}

	td := TypeTable(raw)
	if td.Columns[1].Type != model.CellCurrency {
		t.Errorf("금액 column = %v, want currency override on numeric column", td.Columns[1].Type)
	}
	if td.Columns[0].Type != model.CellString {
		t.Errorf("품목 column = %v, want string (no override)", td.Columns[0].Type)
	}
}

func TestTypeTable_OptionRows(t *testing.T) {
	raw := layoutsvc.RawTable{
		Page:   1,
		BBox:   model.NewPolygon(0, 0, 1, 1),
		Header: []string{"보기", "내용"},
		Body: [][]string{
			{"① 가", "첫 번째"},
			{"② 나", "두 번째"},
		},
	}

	td := TypeTable(raw)
	if len(td.OptionRows) != 2 {
		t.Fatalf("OptionRows = %v, want 2 entries", td.OptionRows)
	}
	if td.OptionRows["②"] != 1 {
		t.Errorf("OptionRows[②] = %d, want 1", td.OptionRows["②"])
	}
}
