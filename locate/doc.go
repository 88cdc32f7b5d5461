// Package locate derives visual asset regions (tables and figures) from
// layout-engine output.
//
// Tables come from the engine's native table structures: header cells
// become typed columns and body cells are coerced to
// bool/int/float/currency/string values, with column types decided by
// majority vote over non-null cells and a currency override when the
// column name carries a price/cost/fee/amount token.
//
// Figure candidates come from page vector-drawing rectangles whose area
// exceeds a minimum fraction of the page. This is deliberately permissive;
// false positives are pruned during reconciliation.
package locate
