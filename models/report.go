package models

import (
	"fmt"
	"sort"
	"strings"
)

// ReportRow is an ordered column -> text mapping. Its key set always equals
// the header list it was built with.
type ReportRow struct {
	headers []string
	values  map[string]string
}

// NewReportRow builds a row for the given headers. It fails when values is
// missing a header or carries a column the header list does not declare.
func NewReportRow(headers []string, values map[string]string) (ReportRow, error) {
	var missing, extra []string
	declared := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		declared[h] = struct{}{}
		if _, ok := values[h]; !ok {
			missing = append(missing, h)
		}
	}
	for k := range values {
		if _, ok := declared[k]; !ok {
			extra = append(extra, k)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(extra)
		return ReportRow{}, fmt.Errorf("report row: missing columns [%s], undeclared columns [%s]",
			strings.Join(missing, ", "), strings.Join(extra, ", "))
	}

	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return ReportRow{headers: headers, values: copied}, nil
}

// Get returns the text for column, or "" when the column is not declared.
func (r ReportRow) Get(column string) string {
	return r.values[column]
}

// Headers returns the declared column order.
func (r ReportRow) Headers() []string {
	return r.headers
}

// Values returns the cells in header order.
func (r ReportRow) Values() []string {
	out := make([]string, len(r.headers))
	for i, h := range r.headers {
		out[i] = r.values[h]
	}
	return out
}

// Report is one generated table.
type Report struct {
	Name     string
	Title    string
	Filename string
	Headers  []string
	Rows     []ReportRow
}

// AddRow validates values against the report headers and appends the row.
func (r *Report) AddRow(values map[string]string) error {
	row, err := NewReportRow(r.Headers, values)
	if err != nil {
		return fmt.Errorf("%s: %w", r.Name, err)
	}
	r.Rows = append(r.Rows, row)
	return nil
}

// Records returns every row as a string slice in header order.
func (r *Report) Records() [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Values()
	}
	return out
}

// Summary holds dataset-wide totals over the filtered records.
type Summary struct {
	TotalProjects    int     `json:"total_projects" yaml:"total_projects"`
	TotalContractors int     `json:"total_contractors" yaml:"total_contractors"`
	TotalProvinces   int     `json:"total_provinces" yaml:"total_provinces"`
	GlobalAvgDelay   float64 `json:"global_avg_delay" yaml:"global_avg_delay"`
	TotalSavings     float64 `json:"total_savings" yaml:"total_savings"`
}

// Output bundles everything a generate pass produces.
type Output struct {
	RunID   string
	Reports []*Report
	Summary Summary
}
