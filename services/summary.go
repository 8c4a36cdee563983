package services

import "flood-reports/models"

// Summary computes dataset-wide totals over the filtered records.
func (s *ReportService) Summary(records []*models.ProcessedRecord) models.Summary {
	contractors := make(map[string]struct{})
	provinces := make(map[string]struct{})
	var totalSavings float64

	for _, r := range records {
		if r.Contractor != "" && r.Contractor != models.UnknownLabel {
			contractors[r.Contractor] = struct{}{}
		}
		if r.Province != "" {
			provinces[r.Province] = struct{}{}
		}
		totalSavings += r.CostSavings
	}

	return models.Summary{
		TotalProjects:    len(records),
		TotalContractors: len(contractors),
		TotalProvinces:   len(provinces),
		GlobalAvgDelay:   RoundHalfUp(MeanInt(knownDelays(records)), 1),
		TotalSavings:     RoundHalfUp(totalSavings, 0),
	}
}
