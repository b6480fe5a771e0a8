package infraformat

import (
	"sort"
)

// Table is the flattened projection of a hole collection: one row per
// survey entry, joined with its hole's header and fileheader fields.
// Cells hold the decoded values (string, int64, float64, time.Time for
// the date column); absent cells are nil.
type Table struct {
	columns []string
	rows    [][]any
}

// Columns returns the column names in stable first-seen order. Survey
// fields are prefixed "data_", point headers "header_<TAG>_", file
// headers "fileheader_<TAG>_".
func (t *Table) Columns() []string { return t.columns }

// Rows returns the table rows. Each row has one cell per column.
func (t *Table) Rows() [][]any { return t.rows }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Table builds the tabular projection of the collection.
//
// A hole with zero survey entries contributes no rows at all, not even a
// placeholder. Downstream consumers depend on this; do not "fix" it.
func (h Holes) Table() *Table {
	t := &Table{}
	index := make(map[string]int)

	column := func(name string) int {
		i, ok := index[name]
		if !ok {
			i = len(t.columns)
			index[name] = i
			t.columns = append(t.columns, name)
		}
		return i
	}

	var cells []map[int]any
	for _, hole := range h {
		if len(hole.Survey) == 0 {
			continue
		}
		joined := make(map[int]any)
		if !hole.Date.IsZero() {
			joined[column("Date")] = hole.Date
		}
		for _, tag := range headerTags(hole) {
			entry := hole.Header[tag]
			for _, name := range entry.Fields.Names() {
				v, _ := entry.Fields.Get(name)
				joined[column("header_"+tag+"_"+name)] = v
			}
		}
		for _, tag := range sortedTags(hole.FileHeader) {
			fields := hole.FileHeader[tag]
			for _, name := range fields.Names() {
				v, _ := fields.Get(name)
				joined[column("fileheader_"+tag+"_"+name)] = v
			}
		}
		for _, row := range hole.Survey {
			cell := make(map[int]any, len(joined)+row.Fields.Len())
			for _, name := range row.Fields.Names() {
				v, _ := row.Fields.Get(name)
				cell[column("data_"+name)] = v
			}
			for i, v := range joined {
				cell[i] = v
			}
			cells = append(cells, cell)
		}
	}

	t.rows = make([][]any, len(cells))
	for i, cell := range cells {
		row := make([]any, len(t.columns))
		for j, v := range cell {
			row[j] = v
		}
		t.rows[i] = row
	}
	return t
}

// headerTags returns the hole's header tags in the canonical tag order,
// with the "-1" ending last.
func headerTags(hole *Hole) []string {
	var tags []string
	for _, tag := range headerTagOrder {
		if _, ok := hole.Header[tag]; ok {
			tags = append(tags, tag)
		}
	}
	if _, ok := hole.Header[endingTag]; ok {
		tags = append(tags, endingTag)
	}
	return tags
}

// sortedTags returns map keys sorted, for deterministic column order.
func sortedTags(m map[string]Fields) []string {
	tags := make([]string, 0, len(m))
	for tag := range m {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
