package services

import (
	"math"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"flood-reports/models"
)

// TrendHeaders is the column order of the annual type trend report.
var TrendHeaders = []string{
	"FundingYear", "TypeOfWork", "TotalProjects", "AvgSavings", "OverrunRate", "YoYChange",
}

type yearType struct {
	year       int
	typeOfWork string
}

type trendStats struct {
	year          int
	typeOfWork    string
	totalProjects int
	avgSavings    float64
	overrunRate   float64
	yoyChange     float64
}

// Trends reports savings and overrun rates per funding year and type of
// work, with each type's change against its baseline-year average.
func (s *ReportService) Trends(records []*models.ProcessedRecord) (*models.Report, error) {
	groups := groupBy(records, func(r *models.ProcessedRecord) yearType {
		return yearType{year: r.FundingYear, typeOfWork: r.TypeOfWork}
	})

	stats := make([]trendStats, 0, len(groups))
	baselines := make(map[string]float64)
	for _, g := range groups {
		st := computeTrend(g.key, g.records)
		if st.year == s.opts.BaselineYear {
			baselines[st.typeOfWork] = st.avgSavings
		}
		stats = append(stats, st)
	}

	for i := range stats {
		st := &stats[i]
		if st.year == s.opts.BaselineYear {
			continue
		}
		baseline, ok := baselines[st.typeOfWork]
		if !ok || baseline == 0 {
			continue
		}
		st.yoyChange = (st.avgSavings - baseline) / math.Abs(baseline) * 100
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].year != stats[j].year {
			return stats[i].year < stats[j].year
		}
		return stats[i].avgSavings > stats[j].avgSavings
	})

	report := &models.Report{
		Name:     ReportTrends,
		Title:    "Annual Project Type Cost Overrun Trends",
		Filename: "report3_cost_overrun_trends.csv",
		Headers:  TrendHeaders,
	}
	for _, st := range stats {
		err := report.AddRow(map[string]string{
			"FundingYear":   strconv.Itoa(st.year),
			"TypeOfWork":    st.typeOfWork,
			"TotalProjects": strconv.Itoa(st.totalProjects),
			"AvgSavings":    FormatNumber(st.avgSavings, 2),
			"OverrunRate":   FormatNumber(st.overrunRate, 2),
			"YoYChange":     FormatNumber(st.yoyChange, 2),
		})
		if err != nil {
			return nil, err
		}
	}

	s.logger.Debug("trend report built",
		zap.Int("groups", len(report.Rows)),
		zap.Int("baselines", len(baselines)),
	)
	return report, nil
}

func computeTrend(key yearType, recs []*models.ProcessedRecord) trendStats {
	savings := make([]float64, len(recs))
	overruns := 0
	for i, r := range recs {
		savings[i] = r.CostSavings
		if r.CostSavings < 0 {
			overruns++
		}
	}
	return trendStats{
		year:          key.year,
		typeOfWork:    key.typeOfWork,
		totalProjects: len(recs),
		avgSavings:    Mean(savings),
		overrunRate:   Percentage(float64(overruns), float64(len(recs))),
	}
}
