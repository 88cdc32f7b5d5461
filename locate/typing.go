package locate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sijun-lee/examsift/internal/marker"
	"github.com/sijun-lee/examsift/layoutsvc"
	"github.com/sijun-lee/examsift/model"
)

var (
	intPattern      = regexp.MustCompile(`^[+-]?\d{1,3}(?:,\d{3})*$|^[+-]?\d+$`)
	floatPattern    = regexp.MustCompile(`^[+-]?\d+\.\d+$`)
	currencyPattern = regexp.MustCompile(`^([₩$€¥])\s*([\d,]+(?:\.\d+)?)$|^([\d,]+(?:\.\d+)?)\s*(원|달러|엔|유로)$`)

	// currencyColumn matches column names that force currency typing.
	currencyColumn = regexp.MustCompile(`가격|비용|요금|금액|단가|price|cost|fee|amount`)
)

// TypeTable converts a raw layout-engine table into typed columns and rows.
func TypeTable(raw layoutsvc.RawTable) *model.TableData {
	cols := len(raw.Header)
	rows := make([]model.Row, 0, len(raw.Body))
	for _, rawRow := range raw.Body {
		row := make(model.Row, cols)
		for j := 0; j < cols; j++ {
			if j < len(rawRow) {
				row[j] = CoerceCell(rawRow[j])
			} else {
				row[j] = model.NullCell()
			}
		}
		rows = append(rows, row)
	}

	columns := make([]model.Column, cols)
	for j := 0; j < cols; j++ {
		name := strings.TrimSpace(raw.Header[j])
		columns[j] = model.Column{Name: name, Type: columnType(name, rows, j)}
	}

	return &model.TableData{
		Columns:    columns,
		Rows:       rows,
		OptionRows: optionRows(raw.Body),
	}
}

// CoerceCell converts one cell's text into a typed value by content
// pattern: boolean, integer, float, currency-tagged number, or string.
func CoerceCell(s string) model.Cell {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return model.NullCell()
	}

	switch strings.ToLower(s) {
	case "true", "yes", "o", "예", "참":
		return model.BoolCell(true)
	case "false", "no", "x", "아니오", "거짓":
		return model.BoolCell(false)
	}

	if m := currencyPattern.FindStringSubmatch(s); m != nil {
		symbol, amount := m[1], m[2]
		if symbol == "" {
			amount, symbol = m[3], m[4]
		}
		if v, err := strconv.ParseFloat(strings.ReplaceAll(amount, ",", ""), 64); err == nil {
			return model.CurrencyCell(v, symbol)
		}
	}

	if intPattern.MatchString(s) {
		if v, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64); err == nil {
			return model.IntCell(v)
		}
	}

	if floatPattern.MatchString(s) {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return model.FloatCell(v)
		}
	}

	return model.StringCell(s)
}

// columnType decides a column's type by majority vote over its non-null
// cells, then applies the currency override when the column name names a
// price-like quantity and the column is numeric.
func columnType(name string, rows []model.Row, col int) model.CellType {
	votes := make(map[model.CellType]int)
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		if t := row[col].Type; t != model.CellNull {
			votes[t]++
		}
	}

	best := model.CellString
	bestCount := 0
	for t, n := range votes {
		if n > bestCount || (n == bestCount && t < best) {
			best, bestCount = t, n
		}
	}
	if bestCount == 0 {
		best = model.CellString
	}

	if currencyColumn.MatchString(strings.ToLower(name)) && numericType(best) {
		return model.CellCurrency
	}
	return best
}

func numericType(t model.CellType) bool {
	return t == model.CellInt || t == model.CellFloat || t == model.CellCurrency
}

// optionRows maps option markers found in each row's first cell to that
// row's index, for tables whose rows enumerate answer choices.
func optionRows(body [][]string) map[string]int {
	var out map[string]int
	for i, row := range body {
		if len(row) == 0 {
			continue
		}
		first := strings.TrimSpace(row[0])
		if first == "" {
			continue
		}
		r := []rune(first)[0]
		if idx := marker.CircledIndex(r); idx > 0 {
			if out == nil {
				out = make(map[string]int)
			}
			out[string(r)] = i
		}
	}
	return out
}
