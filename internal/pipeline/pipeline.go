package pipeline

import (
	"co2-sector-pipeline/internal/figures"
	"co2-sector-pipeline/internal/model"
	"co2-sector-pipeline/internal/store"
	"co2-sector-pipeline/pkg/utils"
	"fmt"
	"log"
	"time"
)

// Run executes the full analysis for one run: load, reshape, smooth,
// decompose, export, render. Stages run sequentially; each consumes
// the immutable output of the previous one and nothing reads back
// from a later stage. Fatal errors abort the run; data-quality
// findings are logged, persisted and carried to completion.
func Run(runID string, cfg model.Config) (err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting emissions analysis run: %s\n", runID)

	store.UpdateRunStatus(runID, "running")
	defer func() {
		if err != nil {
			store.UpdateRunStatus(runID, "failed")
			store.SaveRunError(runID, err)
		}
	}()

	om := utils.NewOutputManager(cfg.OutputDir)
	if err = om.EnsureOutputDirsExist(); err != nil {
		return err
	}

	// --- LOAD ---
	store.UpdateRunStatus(runID, "loading")
	raw, warnings, err := LoadWorldData(cfg)
	if err != nil {
		return err
	}

	// --- RESHAPE ---
	store.UpdateRunStatus(runID, "reshaping")
	long := ToLong(raw)
	shares := ComputeShares(raw, long)
	sectorYoY := ComputeSectorYoY(long)
	totalYoY := ComputeTotalYoY(raw)
	contributions := ComputeContributions(sectorYoY, totalYoY)
	fmt.Printf("🔄 Shares: %d, YoY: %d, contributions: %d records\n",
		len(shares), len(sectorYoY)+len(totalYoY), len(contributions))

	// --- SMOOTH ---
	store.UpdateRunStatus(runID, "smoothing")
	smoothed, err := SmoothSectors(long, cfg.SmoothingWindow)
	if err != nil {
		return err
	}

	// --- DECOMPOSE ---
	store.UpdateRunStatus(runID, "decomposing")
	lmdi, lmdiWarnings := ComputeKayaLMDI(raw, cfg.Periods)
	warnings = append(warnings, lmdiWarnings...)

	for _, w := range warnings {
		log.Printf("⚠️ %s", w)
		store.SaveRunWarning(runID, w)
	}

	arts := Artifacts{
		Raw:           raw,
		SectorLong:    long,
		Shares:        shares,
		YoY:           MergeYoY(sectorYoY, totalYoY),
		Contributions: contributions,
		Smoothed:      smoothed,
		LMDI:          lmdi,
	}

	// --- EXPORT ---
	store.UpdateRunStatus(runID, "exporting")
	exports, err := ExportTables(om, arts)
	if err != nil {
		return err
	}
	for _, res := range exports {
		store.SaveArtifact(runID, "table", res.Path, res.Rows)
	}

	workbookPath, err := ExportSummaryWorkbook(om, arts)
	if err != nil {
		return err
	}
	store.SaveArtifact(runID, "workbook", workbookPath, len(arts.LMDI))

	// --- FIGURES ---
	store.UpdateRunStatus(runID, "rendering")
	if err = figures.RenderAll(om.FiguresDir(), raw, long, shares, contributions, lmdi, cfg.ContributionYears); err != nil {
		return err
	}
	for _, name := range []string{
		figures.FigureTotalTimeseries,
		figures.FigureSectorTimeseries,
		figures.FigureSharesStacked,
		figures.FigureContributions,
		figures.FigureLMDIWaterfall,
	} {
		store.SaveArtifact(runID, "figure", om.FigurePath(name), 0)
	}

	fmt.Printf("🏁 Analysis run %s completed in %v\n", runID, time.Since(start))
	fmt.Printf("   Years: %d–%d | sector-year records: %d | LMDI periods: %d/%d | warnings: %d\n",
		raw[0].Year, raw[len(raw)-1].Year, len(long), len(lmdi), len(cfg.Periods), len(warnings))

	store.UpdateRunStatus(runID, "completed")
	return nil
}
