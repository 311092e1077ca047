package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sched-engine/internal/domain"
	"github.com/noah-isme/sched-engine/internal/feasibility"
)

func TestCSVExporterRendersHeaderAndRows(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"A", "B"},
		Rows:    []map[string]string{{"A": "1", "B": "2"}},
	}
	out, err := exporter.Render(data)
	require.NoError(t, err)
	assert.Contains(t, string(out), "A,B")
	assert.Contains(t, string(out), "1,2")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRendersNonEmptyDocument(t *testing.T) {
	exporter := NewPDFExporter()
	data := Dataset{
		Headers: []string{"Severity", "Entity"},
		Rows:    []map[string]string{{"Severity": "CRITICAL", "Entity": "course c1"}},
	}
	out, err := exporter.Render(data, "Feasibility Report")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestFeasibilityDatasetFlattensViolations(t *testing.T) {
	result := feasibility.Result{
		Violations: []feasibility.Violation{
			{
				Type: feasibility.ViolationNoTeacher, EntityID: "c1", EntityName: "Algebra I",
				Description: "no certified teacher available", Severity: domain.SeverityCritical,
				Actions: []feasibility.Action{{ActionType: "hire_or_certify", EntityID: "c1"}},
			},
		},
		SeverityCounts: map[domain.Severity]int{domain.SeverityCritical: 1},
	}
	dataset := FeasibilityDataset(result)
	require.Len(t, dataset.Rows, 1)
	assert.Equal(t, "CRITICAL", dataset.Rows[0]["Severity"])
	assert.Contains(t, dataset.Rows[0]["Entity"], "Algebra I")
	assert.Contains(t, dataset.Rows[0]["Suggested Actions"], "hire_or_certify")
}

func TestFeasibilityReportPDFRenders(t *testing.T) {
	out, err := FeasibilityReportPDF(feasibility.Result{})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
