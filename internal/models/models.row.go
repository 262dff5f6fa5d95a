// FilePath: internal/models/models.row.go
package models

// Row is a result row keyed by column name. It is used where the column set
// follows the table rather than a fixed struct.
type Row map[string]any

// NewRow copies a scanned column map, turning driver byte slices into strings
// so they serialise as text instead of base64.
func NewRow(scanned map[string]any) Row {
	row := make(Row, len(scanned))
	for col, val := range scanned {
		if b, ok := val.([]byte); ok {
			row[col] = string(b)
			continue
		}
		row[col] = val
	}
	return row
}
