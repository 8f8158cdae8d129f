package storage

// RowScanner is satisfied by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// SortSpec allow-lists the sort keys a list query accepts.
type SortSpec struct {
	Columns  map[string]string // sort key -> SQL column
	Default  string            // ORDER BY body when the key is unknown
	Tiebreak string            // appended to keep pagination stable
}

// Clause returns a safe ORDER BY clause. Only keys present in Columns are accepted.
func (s SortSpec) Clause(sort, dir string) string {
	col, ok := s.Columns[sort]
	if !ok {
		return " ORDER BY " + s.Default
	}
	d := "ASC"
	if dir == "desc" {
		d = "DESC"
	}
	return " ORDER BY " + col + " " + d + ", " + s.Tiebreak
}

// PageClause returns LIMIT/OFFSET placeholders and their args. A non-positive
// limit falls back to 1000 rows.
func PageClause(limit, offset int) (string, []any) {
	if limit <= 0 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return " LIMIT ? OFFSET ?", []any{limit, offset}
}
