package pipeline

import (
	"co2-sector-pipeline/internal/model"
	"fmt"
	"sort"
)

// ToLong converts the wide sector columns into one record per
// (year, sector) pair, skipping absent values. Output is ordered by
// year ascending, then canonical sector order.
func ToLong(raw []model.RawRecord) []model.SectorRecord {
	var long []model.SectorRecord
	for _, rec := range raw {
		for _, sector := range model.CanonicalSectors {
			v := rec.Sector(sector)
			if v == nil {
				continue
			}
			long = append(long, model.SectorRecord{
				Year:      rec.Year,
				Sector:    sector,
				Emissions: *v,
			})
		}
	}
	fmt.Printf("🔄 Extracted %d sector-year records across %d sectors\n",
		len(long), len(model.CanonicalSectors))
	return long
}

// TotalByYear indexes the reported total CO2 by year. Years with a
// missing total are absent from the map.
func TotalByYear(raw []model.RawRecord) map[int]float64 {
	totals := make(map[int]float64, len(raw))
	for _, rec := range raw {
		if rec.CO2 != nil {
			totals[rec.Year] = *rec.CO2
		}
	}
	return totals
}

// ComputeShares computes each sector's share of the reported total for
// its year. The share is nil when the total is missing or zero; a
// zero denominator is data, not an error.
func ComputeShares(raw []model.RawRecord, long []model.SectorRecord) []model.ShareRecord {
	totals := TotalByYear(raw)

	shares := make([]model.ShareRecord, 0, len(long))
	for _, rec := range long {
		sr := model.ShareRecord{Year: rec.Year, Sector: rec.Sector}
		if total, ok := totals[rec.Year]; ok && total != 0 {
			share := rec.Emissions / total
			sr.Share = &share
		}
		shares = append(shares, sr)
	}
	return shares
}

// ComputeSectorYoY computes year-on-year deltas per sector series.
// Only an observation in the immediately preceding calendar year
// counts as "previous": gaps in the year sequence break the link and
// the deltas stay nil. Every input record yields an output row, so
// first-year rows appear with nil deltas.
func ComputeSectorYoY(long []model.SectorRecord) []model.YoYRecord {
	bySector := make(map[string][]model.SectorRecord)
	for _, rec := range long {
		bySector[rec.Sector] = append(bySector[rec.Sector], rec)
	}

	var out []model.YoYRecord
	for _, sector := range model.CanonicalSectors {
		series := bySector[sector]
		sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
		var prev model.SectorRecord
		for _, rec := range series {
			out = append(out, yoyFrom(rec.Year, sector, rec.Emissions, prev))
			prev = rec
		}
	}

	sortYoY(out)
	return out
}

// ComputeTotalYoY computes year-on-year deltas for the reported total,
// emitted under the "total" pseudo-sector.
func ComputeTotalYoY(raw []model.RawRecord) []model.YoYRecord {
	var out []model.YoYRecord
	var prev model.SectorRecord
	for _, rec := range raw {
		if rec.CO2 == nil {
			continue
		}
		out = append(out, yoyFrom(rec.Year, model.TotalSector, *rec.CO2, prev))
		prev = model.SectorRecord{Year: rec.Year, Sector: model.TotalSector, Emissions: *rec.CO2}
	}
	return out
}

// yoyFrom builds one YoY row from a value and the previous observation
// of the same series. A zero-valued prev (Year 0) means no previous
// observation exists yet.
func yoyFrom(year int, sector string, value float64, prev model.SectorRecord) model.YoYRecord {
	rec := model.YoYRecord{Year: year, Sector: sector}
	if prev.Year != year-1 {
		return rec
	}
	delta := value - prev.Emissions
	rec.DeltaAbs = &delta
	if prev.Emissions != 0 {
		pct := delta / prev.Emissions
		rec.DeltaPct = &pct
	}
	return rec
}

// ComputeContributions divides each sector's annual delta by the total
// annual delta. The contribution is nil where either delta is missing
// or the total delta is zero. Contributions need not sum to 1 when the
// total carries a residual outside the six sectors.
func ComputeContributions(sectorYoY, totalYoY []model.YoYRecord) []model.ContributionRecord {
	totalDelta := make(map[int]*float64, len(totalYoY))
	for _, rec := range totalYoY {
		totalDelta[rec.Year] = rec.DeltaAbs
	}

	out := make([]model.ContributionRecord, 0, len(sectorYoY))
	for _, rec := range sectorYoY {
		cr := model.ContributionRecord{Year: rec.Year, Sector: rec.Sector}
		td := totalDelta[rec.Year]
		if rec.DeltaAbs != nil && td != nil && *td != 0 {
			contribution := *rec.DeltaAbs / *td
			cr.Contribution = &contribution
		}
		out = append(out, cr)
	}
	return out
}

// MergeYoY combines sector and total YoY rows into one table ordered
// by year, with the total pseudo-sector after the real sectors.
func MergeYoY(sectorYoY, totalYoY []model.YoYRecord) []model.YoYRecord {
	merged := make([]model.YoYRecord, 0, len(sectorYoY)+len(totalYoY))
	merged = append(merged, sectorYoY...)
	merged = append(merged, totalYoY...)
	sortYoY(merged)
	return merged
}

func sortYoY(rows []model.YoYRecord) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return model.SectorRank(rows[i].Sector) < model.SectorRank(rows[j].Sector)
	})
}
