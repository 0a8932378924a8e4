package model

// Table is a header plus string rows, the shape handed between the reader,
// the pipeline and the export writer.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Index returns the position of the named column, or -1.
func (t Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }
