package pipeline

import (
	"co2-sector-pipeline/internal/model"
	"fmt"
)

// SmoothSectors applies a centered rolling mean to each sector series
// independently. A year's smoothed value requires every year of the
// window to be observed: the first and last half-window positions of a
// contiguous run stay nil, and year gaps truncate windows the same way
// they break YoY links. There is no edge shrinking or extrapolation.
func SmoothSectors(long []model.SectorRecord, window int) ([]model.SmoothedRecord, error) {
	if window <= 1 {
		return nil, fmt.Errorf("smoothing window must be greater than 1, got %d", window)
	}
	if window%2 == 0 {
		return nil, fmt.Errorf("smoothing window must be odd, got %d", window)
	}
	half := window / 2

	bySector := make(map[string]map[int]float64)
	for _, rec := range long {
		if bySector[rec.Sector] == nil {
			bySector[rec.Sector] = make(map[int]float64)
		}
		bySector[rec.Sector][rec.Year] = rec.Emissions
	}

	out := make([]model.SmoothedRecord, 0, len(long))
	for _, rec := range long {
		series := bySector[rec.Sector]
		sr := model.SmoothedRecord{Year: rec.Year, Sector: rec.Sector}

		sum := 0.0
		complete := true
		for y := rec.Year - half; y <= rec.Year+half; y++ {
			v, ok := series[y]
			if !ok {
				complete = false
				break
			}
			sum += v
		}
		if complete {
			mean := sum / float64(window)
			sr.Smoothed = &mean
		}
		out = append(out, sr)
	}

	fmt.Printf("🔄 Smoothed %d sector-year records (window %d)\n", len(out), window)
	return out, nil
}
