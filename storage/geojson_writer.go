package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"flood-reports/models"
)

// GeoJSONFilename is the project location export.
const GeoJSONFilename = "projects.geojson"

// ProjectFeatures converts records with both coordinates into WGS84 point
// features. Records still missing a coordinate after imputation are skipped.
func ProjectFeatures(records []*models.ProcessedRecord) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(records))}
	for i, r := range records {
		if !r.HasCoordinates() {
			continue
		}
		point := geom.NewPointFlat(geom.XY, []float64{*r.Longitude, *r.Latitude}).SetSRID(4326)
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       strconv.Itoa(i + 1),
			Geometry: point,
			Properties: map[string]any{
				"region":       r.Region,
				"province":     r.Province,
				"contractor":   r.Contractor,
				"type_of_work": r.TypeOfWork,
				"funding_year": r.FundingYear,
				"cost_savings": r.CostSavings,
				"imputed":      r.LatitudeImputed || r.LongitudeImputed,
			},
		})
	}
	return fc
}

// WriteGeoJSON writes the project point collection into dir.
func WriteGeoJSON(dir string, records []*models.ProcessedRecord) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", eris.Wrapf(err, "geojson: create output dir %s", dir)
	}

	data, err := json.Marshal(ProjectFeatures(records))
	if err != nil {
		return "", eris.Wrap(err, "geojson: marshal features")
	}

	path := filepath.Join(dir, GeoJSONFilename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", eris.Wrapf(err, "geojson: write %s", path)
	}
	return path, nil
}
