// Package figures renders the five analysis figures with gonum/plot.
// Only the data content of each figure is contractual; styling is
// kept close to plain defaults.
package figures

import (
	"co2-sector-pipeline/internal/model"
	"fmt"
	"image/color"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Fixed figure file names.
const (
	FigureTotalTimeseries  = "total_co2_timeseries.png"
	FigureSectorTimeseries = "sector_emissions_timeseries.png"
	FigureSharesStacked    = "sector_shares_stacked_area.png"
	FigureContributions    = "sector_contribution_yoy_latest20.png"
	FigureLMDIWaterfall    = "kaya_lmdi_waterfall.png"
)

var sectorColors = []color.RGBA{
	{R: 68, G: 68, B: 68, A: 255},    // coal
	{R: 204, G: 102, B: 0, A: 255},   // oil
	{R: 51, G: 102, B: 204, A: 255},  // gas
	{R: 153, G: 153, B: 153, A: 255}, // cement
	{R: 204, G: 51, B: 51, A: 255},   // flaring
	{R: 102, G: 153, B: 51, A: 255},  // other_industry
}

// RenderAll renders the five figures into figuresDir.
func RenderAll(
	figuresDir string,
	raw []model.RawRecord,
	long []model.SectorRecord,
	shares []model.ShareRecord,
	contributions []model.ContributionRecord,
	lmdi []model.LMDIResult,
	contributionYears int,
) error {
	steps := []struct {
		name   string
		render func(path string) error
	}{
		{FigureTotalTimeseries, func(path string) error { return renderTotalTimeseries(path, raw) }},
		{FigureSectorTimeseries, func(path string) error { return renderSectorTimeseries(path, long) }},
		{FigureSharesStacked, func(path string) error { return renderSharesStackedArea(path, shares) }},
		{FigureContributions, func(path string) error {
			return renderContributions(path, contributions, contributionYears)
		}},
		{FigureLMDIWaterfall, func(path string) error { return renderLMDIWaterfall(path, lmdi) }},
	}

	for _, step := range steps {
		path := filepath.Join(figuresDir, step.name)
		if err := step.render(path); err != nil {
			return fmt.Errorf("failed to render %s: %w", step.name, err)
		}
		fmt.Printf("🖼️ Figure saved: %s\n", path)
	}
	return nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func renderTotalTimeseries(path string, raw []model.RawRecord) error {
	p := newPlot("Global CO₂ Emissions Over Time", "Year", "Emissions (MtCO₂)")

	var points plotter.XYs
	for _, rec := range raw {
		if rec.CO2 == nil {
			continue
		}
		points = append(points, plotter.XY{X: float64(rec.Year), Y: *rec.CO2})
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	line.Width = vg.Points(2)
	line.Color = color.RGBA{A: 255}
	p.Add(line)
	p.Legend.Add("Total CO₂", line)

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

func renderSectorTimeseries(path string, long []model.SectorRecord) error {
	p := newPlot("Sectoral CO₂ Emissions Over Time", "Year", "Emissions (MtCO₂)")

	bySector := make(map[string]plotter.XYs)
	for _, rec := range long {
		bySector[rec.Sector] = append(bySector[rec.Sector], plotter.XY{X: float64(rec.Year), Y: rec.Emissions})
	}

	for i, sector := range model.CanonicalSectors {
		points := bySector[sector]
		if len(points) == 0 {
			continue
		}
		sort.Slice(points, func(a, b int) bool { return points[a].X < points[b].X })
		line, err := plotter.NewLine(points)
		if err != nil {
			return err
		}
		line.Width = vg.Points(2)
		line.Color = sectorColors[i]
		p.Add(line)
		p.Legend.Add(sector, line)
	}

	return p.Save(12*vg.Inch, 7*vg.Inch, path)
}

// renderSharesStackedArea draws cumulative share bands, one polygon
// per sector, stacked in canonical order. Missing shares count as 0.
func renderSharesStackedArea(path string, shares []model.ShareRecord) error {
	p := newPlot("Sector Shares of Total CO₂ Emissions", "Year", "Share of total")

	byYear := make(map[int]map[string]float64)
	for _, rec := range shares {
		if rec.Share == nil {
			continue
		}
		if byYear[rec.Year] == nil {
			byYear[rec.Year] = make(map[string]float64)
		}
		byYear[rec.Year][rec.Sector] = *rec.Share
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	if len(years) == 0 {
		return p.Save(12*vg.Inch, 7*vg.Inch, path)
	}

	bottom := make([]float64, len(years))
	for i, sector := range model.CanonicalSectors {
		top := make([]float64, len(years))
		for j, y := range years {
			top[j] = bottom[j] + byYear[y][sector]
		}

		band := make(plotter.XYs, 0, 2*len(years))
		for j, y := range years {
			band = append(band, plotter.XY{X: float64(y), Y: top[j]})
		}
		for j := len(years) - 1; j >= 0; j-- {
			band = append(band, plotter.XY{X: float64(years[j]), Y: bottom[j]})
		}

		poly, err := plotter.NewPolygon(band)
		if err != nil {
			return err
		}
		c := sectorColors[i]
		c.A = 200
		poly.Color = c
		poly.LineStyle.Width = 0
		p.Add(poly)
		p.Legend.Add(sector, poly)

		bottom = top
	}

	return p.Save(12*vg.Inch, 7*vg.Inch, path)
}

// renderContributions draws grouped bars of each sector's contribution
// to the total annual change over the most recent N years. Grouped
// rather than stacked: contributions regularly change sign.
func renderContributions(path string, contributions []model.ContributionRecord, lastN int) error {
	p := newPlot(fmt.Sprintf("Sector Contributions to Annual CO₂ Change (last %d years)", lastN),
		"Year", "Contribution to total change")

	maxYear := 0
	for _, rec := range contributions {
		if rec.Year > maxYear {
			maxYear = rec.Year
		}
	}
	minYear := maxYear - lastN + 1

	byYear := make(map[int]map[string]float64)
	years := make(map[int]bool)
	for _, rec := range contributions {
		if rec.Year < minYear || rec.Contribution == nil {
			continue
		}
		if byYear[rec.Year] == nil {
			byYear[rec.Year] = make(map[string]float64)
		}
		byYear[rec.Year][rec.Sector] = *rec.Contribution
		years[rec.Year] = true
	}

	sortedYears := make([]int, 0, len(years))
	for y := range years {
		sortedYears = append(sortedYears, y)
	}
	sort.Ints(sortedYears)

	labels := make([]string, len(sortedYears))
	for i, y := range sortedYears {
		labels[i] = fmt.Sprintf("%d", y)
	}

	barWidth := vg.Points(4)
	for i, sector := range model.CanonicalSectors {
		values := make(plotter.Values, len(sortedYears))
		for j, y := range sortedYears {
			values[j] = byYear[y][sector]
		}
		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return err
		}
		bars.Color = sectorColors[i]
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(i-len(model.CanonicalSectors)/2) * barWidth
		p.Add(bars)
		p.Legend.Add(sector, bars)
	}
	p.NominalX(labels...)

	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}

// renderLMDIWaterfall draws one waterfall per period: three floating
// effect bars walking from zero to the net change, plus a net bar.
func renderLMDIWaterfall(path string, lmdi []model.LMDIResult) error {
	p := newPlot("Kaya LMDI Decomposition of CO₂ Change", "", "Effect (MtCO₂)")

	effectColors := []color.RGBA{
		{R: 51, G: 102, B: 204, A: 255}, // population
		{R: 204, G: 153, B: 0, A: 255},  // affluence
		{R: 51, G: 153, B: 102, A: 255}, // intensity
		{R: 68, G: 68, B: 68, A: 255},   // net change
	}
	effectNames := []string{"population", "affluence", "intensity", "net change"}
	legendDone := false

	const groupWidth = 5.0
	var ticks []plot.Tick

	for gi, res := range lmdi {
		x0 := float64(gi) * groupWidth
		effects := []float64{res.PopulationEffect, res.AffluenceEffect, res.IntensityEffect}

		level := 0.0
		for ei, effect := range effects {
			x := x0 + float64(ei)
			if err := addBar(p, x, level, level+effect, effectColors[ei]); err != nil {
				return err
			}
			level += effect
		}
		if err := addBar(p, x0+3, 0, res.DeltaCO2, effectColors[3]); err != nil {
			return err
		}

		ticks = append(ticks, plot.Tick{Value: x0 + 1.5, Label: res.Period})

		if !legendDone {
			for ei, name := range effectNames {
				thumb, err := plotter.NewPolygon(barPoints(0, 0, 0))
				if err != nil {
					return err
				}
				thumb.Color = effectColors[ei]
				p.Legend.Add(name, thumb)
			}
			legendDone = true
		}
	}

	if len(lmdi) > 0 {
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
		p.X.Min = -1
		p.X.Max = float64(len(lmdi))*groupWidth - 1
	}

	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}

func barPoints(x, y0, y1 float64) plotter.XYs {
	const halfWidth = 0.4
	return plotter.XYs{
		{X: x - halfWidth, Y: y0},
		{X: x + halfWidth, Y: y0},
		{X: x + halfWidth, Y: y1},
		{X: x - halfWidth, Y: y1},
	}
}

func addBar(p *plot.Plot, x, y0, y1 float64, c color.RGBA) error {
	poly, err := plotter.NewPolygon(barPoints(x, y0, y1))
	if err != nil {
		return err
	}
	poly.Color = c
	poly.LineStyle.Width = 0
	p.Add(poly)
	return nil
}
