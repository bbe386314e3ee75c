package dataprocessing

// Table is an in-memory tabular dataset: an ordered header plus string rows.
// All merge operations work on Tables so the pipeline stays independent of
// any particular source schema.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a table and its column index. Rows are kept as-is; short
// rows are tolerated and read as empty cells via Value.
func NewTable(name string, columns []string, rows [][]string) *Table {
	t := &Table{Name: name, Columns: columns, Rows: rows}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, col := range t.Columns {
		t.index[col] = i
	}
}

// ColumnIndex returns the position of a column by name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// Value reads one cell by column name. Missing columns and short rows read
// as the empty string.
func (t *Table) Value(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// ColumnMapping renames a source column to its merged-schema name during
// projection.
type ColumnMapping struct {
	From string
	To   string
}

// Project selects the mapped columns from t, in mapping order, renaming each
// to its target name. A mapping whose source column is absent yields a
// MissingColumnError.
func Project(t *Table, mappings []ColumnMapping) (*Table, error) {
	indices := make([]int, len(mappings))
	columns := make([]string, len(mappings))
	for i, m := range mappings {
		idx, ok := t.ColumnIndex(m.From)
		if !ok {
			return nil, &MissingColumnError{File: t.Name, Column: m.From}
		}
		indices[i] = idx
		columns[i] = m.To
	}

	rows := make([][]string, len(t.Rows))
	for r, src := range t.Rows {
		row := make([]string, len(indices))
		for i, idx := range indices {
			if idx < len(src) {
				row[i] = src[idx]
			}
		}
		rows[r] = row
	}

	return NewTable(t.Name, columns, rows), nil
}

// KeyStats describes the join-key population of one table.
type KeyStats struct {
	Distinct   int
	Duplicates int
}

// KeyStatsFor counts distinct and duplicated values of the named column.
func (t *Table) KeyStatsFor(column string) KeyStats {
	seen := make(map[string]int)
	for _, row := range t.Rows {
		seen[t.Value(row, column)]++
	}
	stats := KeyStats{Distinct: len(seen)}
	for _, n := range seen {
		if n > 1 {
			stats.Duplicates += n - 1
		}
	}
	return stats
}
