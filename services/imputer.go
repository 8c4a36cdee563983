package services

import (
	"go.uber.org/zap"

	"flood-reports/models"
)

// Imputer fills missing project coordinates from province averages.
type Imputer struct {
	logger *zap.Logger
}

// NewImputer creates an Imputer with the given logger.
func NewImputer(logger *zap.Logger) *Imputer {
	return &Imputer{logger: logger.Named("imputer")}
}

type provinceCoords struct {
	lats, lngs []float64
}

// Impute fills absent latitude and longitude values in place, each axis
// independently, with the mean of the known values of the record's
// province. Records with a blank province are left alone. It returns how
// many coordinate values were filled.
func (im *Imputer) Impute(records []*models.ProcessedRecord) int {
	byProvince := make(map[string]*provinceCoords)
	for _, r := range records {
		if r.Province == "" {
			continue
		}
		pc, ok := byProvince[r.Province]
		if !ok {
			pc = &provinceCoords{}
			byProvince[r.Province] = pc
		}
		if r.Latitude != nil {
			pc.lats = append(pc.lats, *r.Latitude)
		}
		if r.Longitude != nil {
			pc.lngs = append(pc.lngs, *r.Longitude)
		}
	}

	filled := 0
	for _, r := range records {
		pc, ok := byProvince[r.Province]
		if !ok {
			continue
		}
		if r.Latitude == nil && len(pc.lats) > 0 {
			lat := Mean(pc.lats)
			r.Latitude = &lat
			r.LatitudeImputed = true
			filled++
		}
		if r.Longitude == nil && len(pc.lngs) > 0 {
			lng := Mean(pc.lngs)
			r.Longitude = &lng
			r.LongitudeImputed = true
			filled++
		}
	}

	im.logger.Info("imputed coordinates",
		zap.Int("provinces", len(byProvince)),
		zap.Int("filled", filled),
	)
	return filled
}
