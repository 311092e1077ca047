package export

import (
	"fmt"
	"strings"

	"github.com/noah-isme/sched-engine/internal/feasibility"
)

// FeasibilityDataset flattens a feasibility.Result into the tabular shape
// CSVExporter/PDFExporter expect, one row per violation.
func FeasibilityDataset(result feasibility.Result) Dataset {
	dataset := Dataset{
		Headers: []string{"Severity", "Type", "Entity", "Description", "Suggested Actions"},
		Rows:    make([]map[string]string, 0, len(result.Violations)),
	}
	for _, v := range result.Violations {
		actions := make([]string, 0, len(v.Actions))
		for _, a := range v.Actions {
			actions = append(actions, a.ActionType)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Severity":           string(v.Severity),
			"Type":               string(v.Type),
			"Entity":             fmt.Sprintf("%s (%s)", v.EntityName, v.EntityID),
			"Description":        v.Description,
			"Suggested Actions": strings.Join(actions, "; "),
		})
	}
	return dataset
}

// FeasibilityReportPDF renders a one-page feasibility report: the
// internal diagnostic export named in spec.md's non-goals carve-out, not
// a rendering of the schedule itself.
func FeasibilityReportPDF(result feasibility.Result) ([]byte, error) {
	exporter := NewPDFExporter()
	return exporter.Render(FeasibilityDataset(result), "Feasibility Report")
}
