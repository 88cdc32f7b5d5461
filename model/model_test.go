package model

import (
	"math"
	"strings"
	"testing"
)

func TestNewPolygon(t *testing.T) {
	pg := NewPolygon(0.8, 0.6, 0.2, 0.1)

	if !pg.Valid() {
		t.Fatal("NewPolygon() produced an invalid polygon")
	}
	if pg.Left() != 0.2 || pg.Right() != 0.8 {
		t.Errorf("horizontal bounds = [%v, %v], want [0.2, 0.8]", pg.Left(), pg.Right())
	}
	if pg.Top() != 0.1 || pg.Bottom() != 0.6 {
		t.Errorf("vertical bounds = [%v, %v], want [0.1, 0.6]", pg.Top(), pg.Bottom())
	}
}

func TestPolygon_Valid(t *testing.T) {
	tests := []struct {
		name string
		pg   Polygon
		want bool
	}{
		{"well-formed", NewPolygon(0, 0, 1, 1), true},
		{"three points", Polygon{{0, 0}, {1, 0}, {1, 1}}, false},
		{"five points", Polygon{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0.5, 0.5}}, false},
		{"coordinate above one", Polygon{{0, 0}, {1.2, 0}, {1.2, 1}, {0, 1}}, false},
		{"negative coordinate", Polygon{{-0.1, 0}, {1, 0}, {1, 1}, {-0.1, 1}}, false},
		{"NaN coordinate", Polygon{{math.NaN(), 0}, {1, 0}, {1, 1}, {0, 1}}, false},
		{"empty", Polygon{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pg.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygon_VerticalOverlap(t *testing.T) {
	pg := NewPolygon(0.1, 0.41, 0.9, 0.50)

	got := pg.VerticalOverlap(0.40, 0.55)
	if math.Abs(got-0.09) > 1e-9 {
		t.Errorf("VerticalOverlap() = %v, want 0.09", got)
	}

	if got := pg.VerticalOverlap(0.6, 0.9); got != 0 {
		t.Errorf("VerticalOverlap() on disjoint interval = %v, want 0", got)
	}
}

func TestPolygon_Pad_Clamped(t *testing.T) {
	pg := NewPolygon(0.01, 0.01, 0.99, 0.99).Pad(0.02)

	if !pg.Valid() {
		t.Fatal("Pad() produced an invalid polygon")
	}
	if pg.Left() != 0 || pg.Top() != 0 || pg.Right() != 1 || pg.Bottom() != 1 {
		t.Errorf("Pad() bounds = [%v %v %v %v], want clamped to [0 0 1 1]",
			pg.Left(), pg.Top(), pg.Right(), pg.Bottom())
	}
}

func TestQuestionSpan(t *testing.T) {
	s := QuestionSpan{No: 12, Page: 3, Top: 0.40, Bottom: 0.55}

	if h := s.Height(); math.Abs(h-0.15) > 1e-9 {
		t.Errorf("Height() = %v, want 0.15", h)
	}
	if m := s.Mid(); math.Abs(m-0.475) > 1e-9 {
		t.Errorf("Mid() = %v, want 0.475", m)
	}
}

func TestQuestionRecord_OptionAt(t *testing.T) {
	q := &QuestionRecord{No: 12, Options: []string{"Paris", "London", "Tokyo"}}

	if got := q.OptionAt(2); got != "London" {
		t.Errorf("OptionAt(2) = %q, want 'London'", got)
	}
	if got := q.OptionAt(0); got != AnswerUnknown {
		t.Errorf("OptionAt(0) = %q, want %q", got, AnswerUnknown)
	}
	if got := q.OptionAt(4); got != AnswerUnknown {
		t.Errorf("OptionAt(4) = %q, want %q", got, AnswerUnknown)
	}
}

func TestQuestionRecord_MergeFrom(t *testing.T) {
	q := &QuestionRecord{No: 3, Stem: "original stem", Answer: AnswerUnknown}
	q.MergeFrom(&QuestionRecord{
		No:        3,
		Stem:      "other stem",
		Options:   []string{"a", "b"},
		Answer:    "b",
		Rationale: "because",
		Page:      2,
	})

	if q.Stem != "original stem" {
		t.Errorf("Stem = %q, existing value should win", q.Stem)
	}
	if len(q.Options) != 2 {
		t.Errorf("Options = %v, empty field should be filled", q.Options)
	}
	if q.Answer != "b" {
		t.Errorf("Answer = %q, unknown should be replaced by a real answer", q.Answer)
	}
	if q.Rationale != "because" || q.Page != 2 {
		t.Errorf("Rationale/Page not merged: %q, %d", q.Rationale, q.Page)
	}
}

func TestQuestionRecord_MergeFrom_NeverEmpties(t *testing.T) {
	q := &QuestionRecord{No: 1, Stem: "stem", Answer: "London", Rationale: "why"}
	q.MergeFrom(&QuestionRecord{No: 1})

	if q.Stem != "stem" || q.Answer != "London" || q.Rationale != "why" {
		t.Errorf("MergeFrom with empty record changed fields: %+v", q)
	}
}

func TestNewAssetRegion(t *testing.T) {
	a := NewAssetRegion(AssetTable, 3, NewPolygon(0.1, 0.41, 0.9, 0.50), SourceGeometric)

	if a.ID == "" {
		t.Error("NewAssetRegion() did not assign an ID")
	}
	if a.Resolved() {
		t.Error("new region should not be resolved")
	}
	a.OwningNo = 12
	if !a.Resolved() {
		t.Error("region with owning question should be resolved")
	}
}

func TestCell_Render(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"bool", BoolCell(true), "true"},
		{"int", IntCell(42), "42"},
		{"float", FloatCell(3.5), "3.5"},
		{"currency", CurrencyCell(12000, "원"), "12000원"},
		{"string", StringCell("사과"), "사과"},
		{"null", NullCell(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.Render(); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTableData_ToMarkdown(t *testing.T) {
	td := &TableData{
		Columns: []Column{{Name: "품목", Type: CellString}, {Name: "가격", Type: CellCurrency}},
		Rows: []Row{
			{StringCell("사과"), CurrencyCell(1500, "원")},
			{StringCell("배"), CurrencyCell(3000, "원")},
		},
	}

	md := td.ToMarkdown()
	if !strings.Contains(md, "| 품목 | 가격 |") {
		t.Errorf("ToMarkdown() missing header row:\n%s", md)
	}
	if !strings.Contains(md, "| 사과 | 1500원 |") {
		t.Errorf("ToMarkdown() missing body row:\n%s", md)
	}
	if strings.Count(md, "\n") != 4 {
		t.Errorf("ToMarkdown() = %d lines, want 4", strings.Count(md, "\n"))
	}
}
