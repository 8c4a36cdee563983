package storage

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"flood-reports/models"
)

func sampleReport(t *testing.T) *models.Report {
	t.Helper()
	r := &models.Report{
		Name:     "regional",
		Title:    "Regional",
		Filename: "report1_regional_efficiency.csv",
		Headers:  []string{"Region", "TotalBudget"},
	}
	require.NoError(t, r.AddRow(map[string]string{"Region": "NCR", "TotalBudget": "1,000"}))
	require.NoError(t, r.AddRow(map[string]string{"Region": "Region VII", "TotalBudget": "250"}))
	return r
}

var sampleSummary = models.Summary{
	TotalProjects:    2,
	TotalContractors: 1,
	TotalProvinces:   1,
	GlobalAvgDelay:   12.5,
	TotalSavings:     100000,
}

func TestCSVWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	w, err := NewCSVWriter(dir)
	require.NoError(t, err)

	path, err := w.WriteReport(sampleReport(t))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report1_regional_efficiency.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Region", "TotalBudget"},
		{"NCR", "1,000"},
		{"Region VII", "250"},
	}, rows)
}

func TestWriteSummary(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteSummary(dir, sampleSummary)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{
  "total_projects": 2,
  "total_contractors": 1,
  "total_provinces": 1,
  "global_avg_delay": 12.5,
  "total_savings": 100000
}
`, string(data))
}

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	sheets := map[string]string{"regional": "Regional"}

	path, err := WriteWorkbook(dir, []*models.Report{sampleReport(t)}, sheets, sampleSummary)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Regional", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Regional")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Region", "TotalBudget"}, {"NCR", "1,000"}, {"Region VII", "250"}}, rows)

	projects, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "2", projects)
}

func located(lat, lng *float64, imputed bool) *models.ProcessedRecord {
	return &models.ProcessedRecord{
		CleanedRecord: models.CleanedRecord{
			Region:      "Region VII",
			Province:    "Bohol",
			Contractor:  "ACME",
			TypeOfWork:  "Dike",
			FundingYear: 2022,
			Latitude:    lat,
			Longitude:   lng,
		},
		CostSavings:     50,
		LatitudeImputed: imputed,
	}
}

func ptr(v float64) *float64 { return &v }

func TestProjectFeatures(t *testing.T) {
	records := []*models.ProcessedRecord{
		located(ptr(9.8), ptr(124.1), false),
		located(nil, ptr(124.1), false),
		located(ptr(10), ptr(124), true),
	}

	fc := ProjectFeatures(records)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "1", fc.Features[0].ID)
	assert.Equal(t, "3", fc.Features[1].ID)
	assert.Equal(t, true, fc.Features[1].Properties["imputed"])
}

func TestWriteGeoJSON(t *testing.T) {
	path, err := WriteGeoJSON(t.TempDir(), []*models.ProcessedRecord{located(ptr(9.8), ptr(124.1), false)})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 1)
	assert.Equal(t, "Point", doc.Features[0].Geometry.Type)
	assert.Equal(t, []float64{124.1, 9.8}, doc.Features[0].Geometry.Coordinates)
	assert.Equal(t, "Bohol", doc.Features[0].Properties["province"])
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "hello.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello\n"), 0644))

	m := &Manifest{Version: 1, RunID: "run-1", Input: "data.csv", Counts: RunCounts{Raw: 3, Valid: 2, Invalid: 1, Filtered: 2}}
	require.NoError(t, m.AddFile(file))

	path, err := m.Write(dir)
	require.NoError(t, err)

	got, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, m.Counts, got.Counts)
	require.Len(t, got.Files, 1)
	assert.Equal(t, int64(6), got.Files[0].Bytes)
	assert.Equal(t, "5891b5b522d5df086d0ff0b110fbd9d21bb4fc7163af34d08286a2e846f6be03", got.Files[0].SHA256)
}

func TestManifestMissingFile(t *testing.T) {
	m := &Manifest{}
	assert.Error(t, m.AddFile(filepath.Join(t.TempDir(), "absent")))
}
