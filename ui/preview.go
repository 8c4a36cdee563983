package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"flood-reports/models"
	"flood-reports/services"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

// RenderPreview draws the first limit rows of a report as a bordered table,
// followed by a count of the rows left out.
func RenderPreview(report *models.Report, limit int) string {
	shown := min(limit, len(report.Rows))
	rows := make([][]string, shown)
	for i := 0; i < shown; i++ {
		rows[i] = report.Rows[i].Values()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(report.Headers...).
		Rows(rows...)

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteString("\n")
	if rest := len(report.Rows) - shown; rest > 0 {
		fmt.Fprintf(&b, "... (%d more rows)\n", rest)
	}
	return b.String()
}

// RenderSummary pretty-prints the summary the way summary.json stores it.
func RenderSummary(summary models.Summary) string {
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", summary)
	}
	return string(out)
}

// LoadMessage describes a finished load: the validation error report, if
// any, and the loaded and filtered counts.
func LoadMessage(ds *models.Dataset, window services.YearRange) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reading file: %s\n", ds.Source)
	fmt.Fprintf(&b, "Raw records loaded: %d\n", ds.RawCount)
	if report := services.ValidationErrorReport(ds, services.MaxReportedErrors); report != "" {
		b.WriteString("\n")
		b.WriteString(report)
	}
	fmt.Fprintf(&b, "(%d rows loaded, %d filtered for %s)\n", ds.RawCount, len(ds.Records), window)
	return b.String()
}

// GenerateMessage previews every report, lists the written files and
// prints the summary. previewRows <= 0 prints only the report titles.
func GenerateMessage(out *models.Output, files []string, previewRows int) string {
	var b strings.Builder
	for i, r := range out.Reports {
		b.WriteString(titleStyle.Render(fmt.Sprintf("Report %d: %s", i+1, r.Title)))
		b.WriteString("\n")
		if previewRows > 0 {
			b.WriteString(RenderPreview(r, previewRows))
			b.WriteString("\n")
		}
	}
	if len(files) > 0 {
		b.WriteString("Outputs saved:\n")
		for _, f := range files {
			fmt.Fprintf(&b, "  %s\n", f)
		}
		b.WriteString("\n")
	}
	b.WriteString("Summary Stats (summary.json):\n")
	b.WriteString(RenderSummary(out.Summary))
	b.WriteString("\n")
	return b.String()
}
