package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
)

// Metrics describes the most recent load and generate. The row gauges are
// set, not added to, so reloading in one session replaces the numbers.
type Metrics struct {
	registry *prometheus.Registry

	RowsRead           prometheus.Gauge
	RowsInvalid        prometheus.Gauge
	RowsFiltered       prometheus.Gauge
	CoordinatesImputed prometheus.Gauge
	ReportRows         *prometheus.GaugeVec
}

// NewMetrics registers the pipeline collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floodreports",
			Name:      "rows_read",
			Help:      "Raw rows read from the source file.",
		}),
		RowsInvalid: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floodreports",
			Name:      "rows_invalid",
			Help:      "Rows dropped by validation or numeric parsing.",
		}),
		RowsFiltered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floodreports",
			Name:      "rows_filtered",
			Help:      "Rows kept by the funding-year filter.",
		}),
		CoordinatesImputed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floodreports",
			Name:      "coordinates_imputed",
			Help:      "Latitude or longitude values filled from province means.",
		}),
		ReportRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "floodreports",
			Name:      "report_rows",
			Help:      "Rows emitted per report.",
		}, []string{"report"}),
	}
	m.registry.MustRegister(m.RowsRead, m.RowsInvalid, m.RowsFiltered, m.CoordinatesImputed, m.ReportRows)
	return m
}

// Gatherer exposes the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// ObserveLoad records the counts of one processed dataset.
func (m *Metrics) ObserveLoad(raw, invalid, filtered, imputed int) {
	m.RowsRead.Set(float64(raw))
	m.RowsInvalid.Set(float64(invalid))
	m.RowsFiltered.Set(float64(filtered))
	m.CoordinatesImputed.Set(float64(imputed))
}

// WriteTextfile writes the current values in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return eris.Wrapf(err, "metrics: write %s", path)
	}
	return nil
}
