package services

import (
	"time"

	"flood-reports/models"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func datePtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

// project builds a processed record with savings already derived.
func project(region string, year int, budget, cost float64) *models.ProcessedRecord {
	return &models.ProcessedRecord{
		CleanedRecord: models.CleanedRecord{
			Region:         region,
			MainIsland:     "Luzon",
			FundingYear:    year,
			ApprovedBudget: budget,
			ContractCost:   cost,
			Contractor:     models.UnknownLabel,
			TypeOfWork:     models.UnknownLabel,
		},
		CostSavings: budget - cost,
	}
}

func validRaw() *models.RawRecord {
	return &models.RawRecord{
		Region:               "Region VII",
		MainIsland:           "Visayas",
		FundingYear:          "2022",
		ApprovedBudget:       "1,000,000.00",
		ContractCost:         "950,000.00",
		StartDate:            "2022-01-10",
		ActualCompletionDate: "2022-03-11",
		Latitude:             "9.85",
		Longitude:            "124.14",
		Province:             "Bohol",
		Contractor:           "ACME BUILDERS",
		TypeOfWork:           "Construction of Flood Mitigation Structure",
	}
}
