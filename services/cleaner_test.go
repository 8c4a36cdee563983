package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flood-reports/models"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"1,234.50", 1234.50, true},
		{" 99 ", 99, true},
		{"-12", -12, true},
		{"1,000,000", 1000000, true},
		{"N/A", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseNumber(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate(" 2022-03-01 ")
	require.True(t, ok)
	assert.Equal(t, time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC), got)

	for _, raw := range []string{"", "N/A", "2022-3-1", "01/03/2022", "2022-02-30"} {
		_, ok := ParseDate(raw)
		assert.False(t, ok, "ParseDate(%q)", raw)
	}
}

func TestCleanRecord(t *testing.T) {
	r := validRaw()
	r.Province = "  Bohol   Island "
	r.Contractor = ""
	r.TypeOfWork = "  "
	r.Latitude = "N/A"
	r.ActualCompletionDate = ""

	c, problems := CleanRecord(r)
	require.Empty(t, problems)

	assert.Equal(t, 2022, c.FundingYear)
	assert.Equal(t, 1000000.0, c.ApprovedBudget)
	assert.Equal(t, 950000.0, c.ContractCost)
	assert.Equal(t, "Bohol Island", c.Province)
	assert.Equal(t, models.UnknownLabel, c.Contractor)
	assert.Equal(t, models.UnknownLabel, c.TypeOfWork)
	assert.Nil(t, c.Latitude)
	require.NotNil(t, c.Longitude)
	assert.Equal(t, 124.14, *c.Longitude)
	require.NotNil(t, c.StartDate)
	assert.Nil(t, c.ActualCompletionDate)
}

func TestCleanRecordUnparseableAmount(t *testing.T) {
	r := validRaw()
	r.ApprovedBudget = "N/A"

	c, problems := CleanRecord(r)
	assert.Nil(t, c)
	assert.Equal(t, []string{"Invalid ApprovedBudgetForContract: N/A"}, problems)
}

func TestCleanerReportsRowNumbers(t *testing.T) {
	c := NewCleaner(zap.NewNop())

	missingRegion := validRaw()
	missingRegion.Region = ""
	badCost := validRaw()
	badCost.ContractCost = "twelve"

	cleaned, errs := c.Clean([]*models.RawRecord{validRaw(), missingRegion, badCost, validRaw()})

	assert.Len(t, cleaned, 2)
	require.Len(t, errs, 2)
	assert.Equal(t, "Row 3: Missing Region", errs[0].String())
	assert.Equal(t, "Row 4: Invalid ContractCost: twelve", errs[1].String())
}
