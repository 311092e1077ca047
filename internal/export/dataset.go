// Package export renders engine output into flat tabular artifacts,
// ported from the teacher's pkg/export (CSVExporter/PDFExporter) and
// scoped to spec.md's one allowed export: a diagnostic feasibility
// report, never a rendering of the schedule itself.
package export

// Dataset is tabular export content: an ordered header row and a set of
// string-keyed rows.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}
