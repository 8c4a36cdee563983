package models

import (
	"fmt"
	"strings"
	"time"
)

// Input column names, as they appear in the source header row.
const (
	ColRegion               = "Region"
	ColMainIsland           = "MainIsland"
	ColFundingYear          = "FundingYear"
	ColApprovedBudget       = "ApprovedBudgetForContract"
	ColContractCost         = "ContractCost"
	ColStartDate            = "StartDate"
	ColActualCompletionDate = "ActualCompletionDate"
	ColLatitude             = "ProjectLatitude"
	ColLongitude            = "ProjectLongitude"
	ColProvince             = "Province"
	ColContractor           = "Contractor"
	ColTypeOfWork           = "TypeOfWork"
)

// InputColumns lists every column a source file must carry.
var InputColumns = []string{
	ColRegion, ColMainIsland, ColFundingYear, ColApprovedBudget, ColContractCost,
	ColStartDate, ColActualCompletionDate, ColLatitude, ColLongitude,
	ColProvince, ColContractor, ColTypeOfWork,
}

// Funding years outside this window are rejected at validation.
const (
	MinFundingYear = 2021
	MaxFundingYear = 2023
)

// UnknownLabel replaces a blank contractor or type of work.
const UnknownLabel = "Unknown"

// RawRecord holds one unprocessed input row. Every field is the text exactly
// as read from the source; nothing here is guaranteed to be well formed.
type RawRecord struct {
	Region               string
	MainIsland           string
	FundingYear          string
	ApprovedBudget       string
	ContractCost         string
	StartDate            string
	ActualCompletionDate string
	Latitude             string
	Longitude            string
	Province             string
	Contractor           string
	TypeOfWork           string
}

// ValidationResult is the outcome of checking a single RawRecord.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// CleanedRecord is the typed projection of a RawRecord that passed validation.
// Optional values are nil when absent.
type CleanedRecord struct {
	Region               string
	MainIsland           string
	FundingYear          int
	ApprovedBudget       float64
	ContractCost         float64
	StartDate            *time.Time
	ActualCompletionDate *time.Time
	Latitude             *float64
	Longitude            *float64
	Province             string
	Contractor           string
	TypeOfWork           string
}

// ProcessedRecord is a CleanedRecord plus its derived metrics.
type ProcessedRecord struct {
	CleanedRecord

	CostSavings         float64
	CompletionDelayDays *int

	// Set when the coordinate was filled from the province mean.
	LatitudeImputed  bool
	LongitudeImputed bool
}

// HasCoordinates reports whether both latitude and longitude are known.
func (p *ProcessedRecord) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// RowError collects the problems found in one input row. Row is the 1-based
// line number in the source file, counting the header as line 1.
type RowError struct {
	Row      int
	Messages []string
}

func (e RowError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Row, strings.Join(e.Messages, ", "))
}

// Dataset is the working collection for one pipeline run, threaded
// explicitly from the load stage to report generation.
type Dataset struct {
	Source string

	RawCount   int
	ValidCount int
	Errors     []RowError
	Imputed    int

	// Records holds the imputed, year-filtered projects that reports consume.
	Records []*ProcessedRecord
}

// Empty reports whether there is nothing to generate reports from.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Records) == 0
}
