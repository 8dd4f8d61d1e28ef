package importer

// RowsFromPayload converts already-parsed tabular input (ordered column
// headers plus one string map per row) into RawRows numbered from 1 in source
// order. This is the boundary between the excluded parsing layers and the
// engine.
func RowsFromPayload(columns []string, rows []map[string]string) []RawRow {
	out := make([]RawRow, 0, len(rows))
	for i, values := range rows {
		out = append(out, NewRawRow(i+1, columns, values))
	}
	return out
}
