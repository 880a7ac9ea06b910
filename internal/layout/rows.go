package layout

import "sort"

// GroupRows buckets rects into rows: a rect joins the current row while its
// y is within tolerance of the row's first rect. Rows are ordered top to
// bottom and each row left to right.
func GroupRows(rects []Rectangle, tolerance float64) [][]Rectangle {
	if len(rects) == 0 {
		return nil
	}

	sorted := append([]Rectangle(nil), rects...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Bounds.Y < sorted[j].Bounds.Y })

	var rows [][]Rectangle
	current := []Rectangle{sorted[0]}
	for _, r := range sorted[1:] {
		if r.Bounds.Y-current[0].Bounds.Y < tolerance {
			current = append(current, r)
			continue
		}
		rows = append(rows, current)
		current = []Rectangle{r}
	}
	rows = append(rows, current)

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].Bounds.X < row[j].Bounds.X })
	}
	return rows
}

// PatternFromRows maps a row grouping to a pattern by its row and column
// counts. Ragged groupings are scattered; no rows is unknown.
func PatternFromRows(rows [][]Rectangle) Pattern {
	if len(rows) == 0 {
		return PatternUnknown
	}
	cols := len(rows[0])
	for _, row := range rows[1:] {
		if len(row) != cols {
			return PatternScattered
		}
	}

	switch {
	case len(rows) == 2 && cols == 2:
		return PatternGrid2x2
	case len(rows) == 4 && cols == 1:
		return PatternVertical
	case len(rows) == 1 && cols == 4:
		return PatternHorizontal
	default:
		return PatternScattered
	}
}
