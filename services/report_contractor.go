package services

import (
	"math"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"flood-reports/models"
)

// ContractorHeaders is the column order of the contractor ranking report.
var ContractorHeaders = []string{
	"Rank", "Contractor", "TotalCost", "NumProjects", "AvgDelay", "TotalSavings", "ReliabilityIndex", "RiskFlag",
}

const (
	// reliabilityDelayHorizon is the average delay at which the delay factor reaches zero.
	reliabilityDelayHorizon = 90.0
	highRiskThreshold       = 50.0

	RiskHigh = "High Risk"
	RiskLow  = "Low Risk"
)

type contractorStats struct {
	contractor   string
	totalCost    float64
	numProjects  int
	avgDelay     float64
	totalSavings float64
	reliability  float64
	riskFlag     string
}

// Contractors ranks contractors with enough projects by total contract cost
// and keeps the top entries.
func (s *ReportService) Contractors(records []*models.ProcessedRecord) (*models.Report, error) {
	groups := groupBy(records, func(r *models.ProcessedRecord) string { return r.Contractor })

	stats := make([]contractorStats, 0, len(groups))
	skipped := 0
	for _, g := range groups {
		if len(g.records) < s.opts.MinContractorProjects {
			skipped++
			continue
		}
		stats = append(stats, computeContractor(g.key, g.records))
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].totalCost > stats[j].totalCost
	})
	if len(stats) > s.opts.TopContractors {
		stats = stats[:s.opts.TopContractors]
	}

	report := &models.Report{
		Name:     ReportContractors,
		Title:    "Top Contractors Performance Ranking",
		Filename: "report2_contractor_ranking.csv",
		Headers:  ContractorHeaders,
	}
	for i, st := range stats {
		err := report.AddRow(map[string]string{
			"Rank":             strconv.Itoa(i + 1),
			"Contractor":       st.contractor,
			"TotalCost":        FormatLargeNumber(st.totalCost),
			"NumProjects":      strconv.Itoa(st.numProjects),
			"AvgDelay":         FormatNumber(st.avgDelay, 2),
			"TotalSavings":     FormatLargeNumber(st.totalSavings),
			"ReliabilityIndex": FormatNumber(st.reliability, 2),
			"RiskFlag":         st.riskFlag,
		})
		if err != nil {
			return nil, err
		}
	}

	s.logger.Debug("contractor report built",
		zap.Int("ranked", len(report.Rows)),
		zap.Int("below_min_projects", skipped),
	)
	return report, nil
}

func computeContractor(contractor string, recs []*models.ProcessedRecord) contractorStats {
	st := contractorStats{contractor: contractor, numProjects: len(recs)}
	for _, r := range recs {
		st.totalCost += r.ContractCost
		st.totalSavings += r.CostSavings
	}
	st.avgDelay = MeanInt(knownDelays(recs))
	st.reliability = reliabilityIndex(st.avgDelay, st.totalSavings, st.totalCost)
	st.riskFlag = RiskLow
	if st.reliability < highRiskThreshold {
		st.riskFlag = RiskHigh
	}
	return st
}

// reliabilityIndex combines delay performance and savings ratio into 0-100.
func reliabilityIndex(avgDelay, totalSavings, totalCost float64) float64 {
	if totalCost <= 0 {
		return 0
	}
	delayFactor := math.Max(1-avgDelay/reliabilityDelayHorizon, 0)
	return Clamp(delayFactor*(totalSavings/totalCost)*100, 0, 100)
}
