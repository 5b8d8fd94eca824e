package pipeline

import (
	"co2-sector-pipeline/internal/model"
	"co2-sector-pipeline/pkg/utils"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Fixed table file names. The names and their column sets are part of
// the pipeline's external contract.
const (
	TableSectorLong    = "world_sector_emissions_long.csv"
	TableSectorShares  = "world_sector_shares.csv"
	TableYoYChanges    = "world_yoy_changes.csv"
	TableContributions = "world_contribution_to_yoy_total.csv"
	TableLMDI          = "kaya_lmdi_decomposition.csv"
	TableSmoothed      = "sector_emissions_smoothed.csv"

	SummaryWorkbook = "analysis_summary.xlsx"
)

// Artifacts bundles every table produced by the analysis stages.
type Artifacts struct {
	Raw           []model.RawRecord
	SectorLong    []model.SectorRecord
	Shares        []model.ShareRecord
	YoY           []model.YoYRecord // sector rows plus the total pseudo-sector
	Contributions []model.ContributionRecord
	Smoothed      []model.SmoothedRecord
	LMDI          []model.LMDIResult
}

// ExportResult describes one persisted table file.
type ExportResult struct {
	Table string `json:"table"`
	Path  string `json:"path"`
	Rows  int    `json:"rows"`
}

// ExportTables writes the six CSV tables to the tables directory.
// Nil values render as empty cells; floats use the shortest
// round-tripping representation so repeat runs are byte-identical.
func ExportTables(om *utils.OutputManager, arts Artifacts) ([]ExportResult, error) {
	tables := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{TableSectorLong, []string{"year", "sector", "emissions_mtco2"}, sectorLongRows(arts.SectorLong)},
		{TableSectorShares, []string{"year", "sector", "share"}, shareRows(arts.Shares)},
		{TableYoYChanges, []string{"year", "sector", "delta_abs", "delta_pct"}, yoyRows(arts.YoY)},
		{TableContributions, []string{"year", "sector", "contribution"}, contributionRows(arts.Contributions)},
		{TableLMDI, []string{"period_label", "population_effect", "affluence_effect", "intensity_effect", "delta_co2"}, lmdiRows(arts.LMDI)},
		{TableSmoothed, []string{"year", "sector", "smoothed_emissions"}, smoothedRows(arts.Smoothed)},
	}

	results := make([]ExportResult, 0, len(tables))
	for _, t := range tables {
		path := om.TablePath(t.name)
		if err := writeCSV(path, t.header, t.rows); err != nil {
			return results, fmt.Errorf("failed to export %s: %w", t.name, err)
		}
		fmt.Printf("💾 %s: %d rows exported\n", t.name, len(t.rows))
		results = append(results, ExportResult{Table: t.name, Path: path, Rows: len(t.rows)})
	}
	return results, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func sectorLongRows(recs []model.SectorRecord) [][]string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			strconv.Itoa(r.Year), r.Sector, utils.FormatFloat(r.Emissions),
		})
	}
	return rows
}

func shareRows(recs []model.ShareRecord) [][]string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			strconv.Itoa(r.Year), r.Sector, utils.FormatNullableFloat(r.Share),
		})
	}
	return rows
}

func yoyRows(recs []model.YoYRecord) [][]string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			strconv.Itoa(r.Year), r.Sector,
			utils.FormatNullableFloat(r.DeltaAbs), utils.FormatNullableFloat(r.DeltaPct),
		})
	}
	return rows
}

func contributionRows(recs []model.ContributionRecord) [][]string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			strconv.Itoa(r.Year), r.Sector, utils.FormatNullableFloat(r.Contribution),
		})
	}
	return rows
}

func lmdiRows(recs []model.LMDIResult) [][]string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			r.Period,
			utils.FormatFloat(r.PopulationEffect),
			utils.FormatFloat(r.AffluenceEffect),
			utils.FormatFloat(r.IntensityEffect),
			utils.FormatFloat(r.DeltaCO2),
		})
	}
	return rows
}

func smoothedRows(recs []model.SmoothedRecord) [][]string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			strconv.Itoa(r.Year), r.Sector, utils.FormatNullableFloat(r.Smoothed),
		})
	}
	return rows
}

// ExportSummaryWorkbook writes an Excel workbook with an overview of
// the analysed data and the LMDI results.
func ExportSummaryWorkbook(om *utils.OutputManager, arts Artifacts) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	overview := "Overview"
	f.SetSheetName("Sheet1", overview)

	minYear, maxYear := 0, 0
	minCO2, maxCO2 := 0.0, 0.0
	haveCO2 := false
	for _, rec := range arts.Raw {
		if minYear == 0 || rec.Year < minYear {
			minYear = rec.Year
		}
		if rec.Year > maxYear {
			maxYear = rec.Year
		}
		if rec.CO2 != nil {
			if !haveCO2 || *rec.CO2 < minCO2 {
				minCO2 = *rec.CO2
			}
			if !haveCO2 || *rec.CO2 > maxCO2 {
				maxCO2 = *rec.CO2
			}
			haveCO2 = true
		}
	}

	overviewRows := [][]interface{}{
		{"Metric", "Value"},
		{"Years covered", fmt.Sprintf("%d–%d", minYear, maxYear)},
		{"World-aggregate rows", len(arts.Raw)},
		{"Sector-year records", len(arts.SectorLong)},
		{"Sectors analysed", len(model.CanonicalSectors)},
		{"Total CO₂ range (Mt)", fmt.Sprintf("%.1f–%.1f", minCO2, maxCO2)},
		{"LMDI periods computed", len(arts.LMDI)},
	}
	for i, row := range overviewRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(overview, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write overview sheet: %w", err)
		}
	}

	lmdiSheet := "LMDI"
	if _, err := f.NewSheet(lmdiSheet); err != nil {
		return "", fmt.Errorf("failed to create LMDI sheet: %w", err)
	}
	lmdiHeader := []interface{}{"Period", "Population effect (Mt)", "Affluence effect (Mt)", "Intensity effect (Mt)", "ΔCO₂ (Mt)"}
	cell, _ := excelize.CoordinatesToCellName(1, 1)
	if err := f.SetSheetRow(lmdiSheet, cell, &lmdiHeader); err != nil {
		return "", fmt.Errorf("failed to write LMDI header: %w", err)
	}
	for i, r := range arts.LMDI {
		row := []interface{}{r.Period, r.PopulationEffect, r.AffluenceEffect, r.IntensityEffect, r.DeltaCO2}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(lmdiSheet, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write LMDI row: %w", err)
		}
	}

	path := filepath.Join(om.BaseOutputDir, SummaryWorkbook)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save summary workbook: %w", err)
	}
	fmt.Printf("💾 %s: summary workbook exported\n", SummaryWorkbook)
	return path, nil
}
