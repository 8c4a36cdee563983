package services

import (
	"fmt"
	"strconv"
	"strings"

	"flood-reports/models"
)

// ValidateRecord checks a raw row for required fields and a funding year
// inside the accepted window. Every rule runs; errors accumulate in order.
func ValidateRecord(r *models.RawRecord) models.ValidationResult {
	var errs []string

	if isBlank(r.Region) {
		errs = append(errs, "Missing "+models.ColRegion)
	}
	if isBlank(r.MainIsland) {
		errs = append(errs, "Missing "+models.ColMainIsland)
	}
	if _, ok := parseFundingYear(r.FundingYear); !ok {
		errs = append(errs, fmt.Sprintf("Invalid FundingYear: %s", r.FundingYear))
	}
	if isBlank(r.ApprovedBudget) {
		errs = append(errs, "Missing "+models.ColApprovedBudget)
	}
	if isBlank(r.ContractCost) {
		errs = append(errs, "Missing "+models.ColContractCost)
	}

	return models.ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// parseFundingYear returns the year when raw is an integer in the accepted window.
func parseFundingYear(raw string) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	if year < models.MinFundingYear || year > models.MaxFundingYear {
		return year, false
	}
	return year, true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
