package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeaders = []string{"Rank", "Contractor", "RiskFlag"}

func TestNewReportRowOrdersValues(t *testing.T) {
	row, err := NewReportRow(testHeaders, map[string]string{
		"RiskFlag":   "Low Risk",
		"Rank":       "1",
		"Contractor": "ACME",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "ACME", "Low Risk"}, row.Values())
	assert.Equal(t, testHeaders, row.Headers())
	assert.Equal(t, "ACME", row.Get("Contractor"))
	assert.Empty(t, row.Get("Region"))
}

func TestNewReportRowRejectsColumnDrift(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]string
		wantMsg string
	}{
		{
			name:    "missing column",
			values:  map[string]string{"Rank": "1", "Contractor": "ACME"},
			wantMsg: "missing columns [RiskFlag]",
		},
		{
			name:    "undeclared column",
			values:  map[string]string{"Rank": "1", "Contractor": "ACME", "RiskFlag": "x", "Risk": "y"},
			wantMsg: "undeclared columns [Risk]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReportRow(testHeaders, tt.values)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNewReportRowCopiesValues(t *testing.T) {
	values := map[string]string{"Rank": "1", "Contractor": "ACME", "RiskFlag": "Low Risk"}
	row, err := NewReportRow(testHeaders, values)
	require.NoError(t, err)

	values["Contractor"] = "changed"
	assert.Equal(t, "ACME", row.Get("Contractor"))
}

func TestReportAddRow(t *testing.T) {
	r := &Report{Name: "contractors", Headers: testHeaders}

	require.NoError(t, r.AddRow(map[string]string{"Rank": "1", "Contractor": "ACME", "RiskFlag": "Low Risk"}))
	err := r.AddRow(map[string]string{"Rank": "2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contractors:")

	assert.Equal(t, [][]string{{"1", "ACME", "Low Risk"}}, r.Records())
}

func TestRowErrorString(t *testing.T) {
	e := RowError{Row: 7, Messages: []string{"Missing Region", "Invalid FundingYear: 2019"}}
	assert.Equal(t, "Row 7: Missing Region, Invalid FundingYear: 2019", e.String())
}

func TestDatasetEmpty(t *testing.T) {
	var nilSet *Dataset
	assert.True(t, nilSet.Empty())
	assert.True(t, (&Dataset{RawCount: 3}).Empty())
	assert.False(t, (&Dataset{Records: []*ProcessedRecord{{}}}).Empty())
}
