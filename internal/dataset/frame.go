package dataset

import (
	"strings"
	"unicode"
)

// Frame is a small in-memory columnar table. It backs the durable CSV
// datasets exchanged between pipeline stages: raw partitions, the
// canonical dataset, the scored dataset, and the aggregate export.
// Cells are strings; absent cells are empty strings.
type Frame struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// New builds an empty frame with the given column order.
func New(cols ...string) *Frame {
	f := &Frame{index: map[string]int{}}
	for _, c := range cols {
		f.AddColumn(c)
	}
	return f
}

// Columns returns the column names in their defined order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.cols))
	copy(out, f.cols)
	return out
}

// Len is the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Has reports whether a column exists.
func (f *Frame) Has(col string) bool {
	_, ok := f.index[col]
	return ok
}

// AddColumn appends a new column; existing rows get empty cells.
// Adding an already-present column is a no-op.
func (f *Frame) AddColumn(col string) {
	if f.Has(col) {
		return
	}
	f.index[col] = len(f.cols)
	f.cols = append(f.cols, col)
	for i := range f.rows {
		f.rows[i] = append(f.rows[i], "")
	}
}

// AppendRow appends cells in column order, padding missing cells.
func (f *Frame) AppendRow(cells ...string) {
	row := make([]string, len(f.cols))
	copy(row, cells)
	f.rows = append(f.rows, row)
}

// Append adds a row from a column->value mapping; keys that are not
// declared columns are ignored.
func (f *Frame) Append(cells map[string]string) {
	row := make([]string, len(f.cols))
	for col, v := range cells {
		if i, ok := f.index[col]; ok {
			row[i] = v
		}
	}
	f.rows = append(f.rows, row)
}

// Value returns the cell at row i; unknown columns read as empty.
func (f *Frame) Value(i int, col string) string {
	j, ok := f.index[col]
	if !ok {
		return ""
	}
	return f.rows[i][j]
}

// Set writes the cell at row i for an existing column.
func (f *Frame) Set(i int, col string, v string) {
	if j, ok := f.index[col]; ok {
		f.rows[i][j] = v
	}
}

// Rename maps every column name through fn. When two source columns
// collapse to the same target name the first one keeps the slot and
// later columns only fill cells the earlier ones left empty.
func (f *Frame) Rename(fn func(string) string) *Frame {
	out := &Frame{index: map[string]int{}}
	for _, c := range f.cols {
		out.AddColumn(fn(c))
	}
	for i := range f.rows {
		row := make([]string, len(out.cols))
		for j, c := range f.cols {
			k := out.index[fn(c)]
			if row[k] == "" {
				row[k] = f.rows[i][j]
			}
		}
		out.rows = append(out.rows, row)
	}
	return out
}

// Union concatenates frames over the union of their columns. Columns
// keep first-seen order; cells for columns a frame lacks are empty.
// This is the CSV analogue of concatenating heterogeneous partitions.
func Union(frames ...*Frame) *Frame {
	out := &Frame{index: map[string]int{}}
	for _, fr := range frames {
		for _, c := range fr.cols {
			out.AddColumn(c)
		}
	}
	for _, fr := range frames {
		for i := range fr.rows {
			row := make([]string, len(out.cols))
			for j, c := range fr.cols {
				row[out.index[c]] = fr.rows[i][j]
			}
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// DropDuplicates removes rows whose cells are equal across all columns,
// keeping the first occurrence. Identity is full-row equality; records
// carry no primary key.
func (f *Frame) DropDuplicates() {
	seen := make(map[string]struct{}, len(f.rows))
	kept := f.rows[:0]
	for _, row := range f.rows {
		key := strings.Join(row, "\x1f")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	f.rows = kept
}

// Filter keeps only rows for which keep returns true.
func (f *Frame) Filter(keep func(i int) bool) {
	kept := f.rows[:0]
	for i, row := range f.rows {
		if keep(i) {
			kept = append(kept, row)
		}
	}
	f.rows = kept
}

// NormalizeColumnName collapses casing and whitespace drift between
// sources: surrounding space is trimmed and each letter run is
// title-cased, so " body ", "BODY" and "Body" all become "Body" and
// "created_utc" becomes "Created_Utc".
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	b.Grow(len(name))
	prevLetter := false
	for _, r := range name {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		prevLetter = false
		b.WriteRune(r)
	}
	return b.String()
}
