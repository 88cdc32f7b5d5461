package model

import (
	"fmt"
	"strings"
)

// CellType represents the inferred value type of a table cell or column
type CellType int

const (
	CellNull CellType = iota
	CellBool
	CellInt
	CellFloat
	CellCurrency
	CellString
)

func (ct CellType) String() string {
	switch ct {
	case CellBool:
		return "bool"
	case CellInt:
		return "int"
	case CellFloat:
		return "float"
	case CellCurrency:
		return "currency"
	case CellString:
		return "string"
	default:
		return "null"
	}
}

// Cell is one typed table cell. Type selects which value field is set;
// a CellCurrency cell carries both the numeric amount and its unit tag.
type Cell struct {
	Type     CellType `json:"type"`
	Bool     bool     `json:"bool,omitempty"`
	Int      int64    `json:"int,omitempty"`
	Float    float64  `json:"float,omitempty"`
	Text     string   `json:"text,omitempty"`
	Currency string   `json:"currency,omitempty"` // unit tag, e.g. "원", "$"
}

// NullCell returns an empty cell.
func NullCell() Cell { return Cell{Type: CellNull} }

// BoolCell returns a boolean cell.
func BoolCell(v bool) Cell { return Cell{Type: CellBool, Bool: v} }

// IntCell returns an integer cell.
func IntCell(v int64) Cell { return Cell{Type: CellInt, Int: v} }

// FloatCell returns a floating-point cell.
func FloatCell(v float64) Cell { return Cell{Type: CellFloat, Float: v} }

// StringCell returns a plain text cell.
func StringCell(s string) Cell { return Cell{Type: CellString, Text: s} }

// CurrencyCell returns a currency-tagged numeric cell.
func CurrencyCell(amount float64, unit string) Cell {
	return Cell{Type: CellCurrency, Float: amount, Currency: unit}
}

// Render returns the cell's value as display text.
func (c Cell) Render() string {
	switch c.Type {
	case CellBool:
		if c.Bool {
			return "true"
		}
		return "false"
	case CellInt:
		return fmt.Sprintf("%d", c.Int)
	case CellFloat:
		return trimFloat(c.Float)
	case CellCurrency:
		return trimFloat(c.Float) + c.Currency
	case CellString:
		return c.Text
	default:
		return ""
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.4f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// ToMarkdown renders the table as a markdown table.
func (t *TableData) ToMarkdown() string {
	if len(t.Columns) == 0 {
		return ""
	}

	var sb strings.Builder

	for _, col := range t.Columns {
		sb.WriteString("| ")
		sb.WriteString(strings.ReplaceAll(col.Name, "\n", " "))
		sb.WriteString(" ")
	}
	sb.WriteString("|\n")

	for range t.Columns {
		sb.WriteString("| --- ")
	}
	sb.WriteString("|\n")

	for _, row := range t.Rows {
		for j := range t.Columns {
			sb.WriteString("| ")
			if j < len(row) {
				sb.WriteString(strings.ReplaceAll(row[j].Render(), "\n", " "))
			}
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	return sb.String()
}
