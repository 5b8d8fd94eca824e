package pipeline

import (
	"co2-sector-pipeline/internal/model"
	"fmt"
	"math"
)

// logMean is the logarithmic mean L(a,b) = (a-b)/(ln a - ln b), with
// L(a,a) = a so equal endpoints avoid the 0/0 singularity. The LMDI
// weighting is built on this mean: it is what makes the three factor
// effects sum exactly to the observed CO2 change.
func logMean(a, b float64) float64 {
	if a == b {
		return a
	}
	return (a - b) / (math.Log(a) - math.Log(b))
}

// kayaPoint holds the Kaya factors at one endpoint year.
type kayaPoint struct {
	year       int
	co2        float64
	population float64
	affluence  float64 // GDP per capita
	intensity  float64 // CO2 per GDP unit
}

// kayaAt extracts the Kaya factors for a year. ok is false when the
// year is absent or any of CO2, population and GDP is missing or zero,
// in which case the period using this endpoint is skipped.
func kayaAt(raw []model.RawRecord, year int) (kayaPoint, bool) {
	for _, rec := range raw {
		if rec.Year != year {
			continue
		}
		if rec.CO2 == nil || rec.Population == nil || rec.GDP == nil {
			return kayaPoint{}, false
		}
		if *rec.CO2 == 0 || *rec.Population == 0 || *rec.GDP == 0 {
			return kayaPoint{}, false
		}
		return kayaPoint{
			year:       year,
			co2:        *rec.CO2,
			population: *rec.Population,
			affluence:  *rec.GDP / *rec.Population,
			intensity:  *rec.CO2 / *rec.GDP,
		}, true
	}
	return kayaPoint{}, false
}

// LatestCompleteYear returns the maximum year with non-null, non-zero
// CO2, population and GDP.
func LatestCompleteYear(raw []model.RawRecord) (int, bool) {
	latest := 0
	found := false
	for _, rec := range raw {
		if rec.CO2 != nil && rec.Population != nil && rec.GDP != nil &&
			*rec.CO2 != 0 && *rec.Population != 0 && *rec.GDP != 0 {
			if rec.Year > latest {
				latest = rec.Year
				found = true
			}
		}
	}
	return latest, found
}

// ComputeKayaLMDI decomposes the CO2 change over each configured
// period into population, affluence and intensity effects using the
// additive LMDI-I form:
//
//	effect_F = L(CO2_end, CO2_start) × ln(F_end / F_start)
//
// Periods with End == 0 resolve to the latest complete year. A period
// whose endpoints cannot be resolved is skipped with a warning; the
// remaining periods still run.
func ComputeKayaLMDI(raw []model.RawRecord, periods []model.Period) ([]model.LMDIResult, []model.Warning) {
	var results []model.LMDIResult
	var warnings []model.Warning

	latest, haveLatest := LatestCompleteYear(raw)
	fmt.Printf("📊 Computing LMDI decomposition for %d periods\n", len(periods))

	for _, period := range periods {
		end := period.End
		if end == 0 {
			if !haveLatest {
				warnings = append(warnings, model.Warning{
					Stage:   model.WarnDecomposition,
					Message: fmt.Sprintf("period %d–latest skipped: no year with complete co2/population/gdp", period.Start),
				})
				continue
			}
			end = latest
		}

		start, okStart := kayaAt(raw, period.Start)
		if !okStart {
			warnings = append(warnings, model.Warning{
				Stage:   model.WarnDecomposition,
				Year:    period.Start,
				Message: fmt.Sprintf("period %d–%d skipped: start endpoint unavailable", period.Start, end),
			})
			continue
		}
		endPoint, okEnd := kayaAt(raw, end)
		if !okEnd {
			warnings = append(warnings, model.Warning{
				Stage:   model.WarnDecomposition,
				Year:    end,
				Message: fmt.Sprintf("period %d–%d skipped: end endpoint unavailable", period.Start, end),
			})
			continue
		}

		weight := logMean(endPoint.co2, start.co2)

		results = append(results, model.LMDIResult{
			Period:           fmt.Sprintf("%d–%d", start.year, endPoint.year),
			StartYear:        start.year,
			EndYear:          endPoint.year,
			PopulationEffect: weight * math.Log(endPoint.population/start.population),
			AffluenceEffect:  weight * math.Log(endPoint.affluence/start.affluence),
			IntensityEffect:  weight * math.Log(endPoint.intensity/start.intensity),
			DeltaCO2:         endPoint.co2 - start.co2,
		})
	}

	fmt.Printf("📊 LMDI decomposition computed for %d of %d periods\n", len(results), len(periods))
	return results, warnings
}
