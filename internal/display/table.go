package display

import "github.com/bethropolis/richexif/internal/metadata"

// Table header labels.
const (
	FieldHeader = "Field"
	ValueHeader = "Value"
)

// Row is one table line.
type Row struct {
	Field string
	Value string
}

// Table is a two-column Field/Value listing.
type Table struct {
	Rows []Row
}

// Header returns the column labels.
func (t Table) Header() []string {
	return []string{FieldHeader, ValueHeader}
}

// BuildTable makes one row per entry, in order.
func BuildTable(md metadata.Metadata) Table {
	rows := make([]Row, len(md))
	for i, e := range md {
		rows[i] = Row{Field: e.Key, Value: metadata.FormatValue(e.Value)}
	}
	return Table{Rows: rows}
}
