package services

import (
	"sort"

	"flood-reports/models"
)

// Median returns the middle value of vals, averaging the two middle values
// for an even count. It does not reorder vals. Empty input yields 0.
func Median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)

	mid := len(cp) / 2
	if len(cp)%2 == 0 {
		return (cp[mid-1] + cp[mid]) / 2
	}
	return cp[mid]
}

// Mean returns the arithmetic mean, or 0 for empty input.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return Sum(vals) / float64(len(vals))
}

// MeanInt is Mean over integer samples.
func MeanInt(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	total := 0
	for _, v := range vals {
		total += v
	}
	return float64(total) / float64(len(vals))
}

// Sum adds vals.
func Sum(vals []float64) float64 {
	var total float64
	for _, v := range vals {
		total += v
	}
	return total
}

// Percentage returns part/total*100, or 0 when total is 0.
func Percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// knownDelays collects the completion delays that are present.
func knownDelays(records []*models.ProcessedRecord) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		if r.CompletionDelayDays != nil {
			out = append(out, *r.CompletionDelayDays)
		}
	}
	return out
}
