package pipeline

import (
	"co2-sector-pipeline/internal/model"
	"co2-sector-pipeline/pkg/utils"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// requiredColumns are the CSV columns the loader refuses to run
// without. Any other column in the source is ignored.
var requiredColumns = []string{
	"country",
	"year",
	"co2",
	"population",
	"gdp",
	"coal_co2",
	"oil_co2",
	"gas_co2",
	"cement_co2",
	"flaring_co2",
	"other_industry_co2",
}

// LoadWorldData reads the source CSV, filters it to the configured
// world-aggregate label, validates the schema and sorts by year.
// Reconciliation deviations between the sector sum and the reported
// total are returned as warnings, never as errors.
func LoadWorldData(cfg model.Config) ([]model.RawRecord, []model.Warning, error) {
	fmt.Printf("➡️ Loading CO₂ dataset from %s\n", cfg.InputCSV)

	if _, err := os.Stat(cfg.InputCSV); err != nil {
		return nil, nil, &model.MissingFileError{Path: cfg.InputCSV}
	}

	file, err := os.Open(cfg.InputCSV)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.LazyQuotes = true

	headers, err := csvReader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		// Clean header names: trim whitespace and remove all quotes
		cleanHeader := strings.TrimSpace(h)
		cleanHeader = strings.ReplaceAll(cleanHeader, `"`, "")
		colIndex[cleanHeader] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &model.SchemaError{Missing: missing}
	}

	var records []model.RawRecord
	rowCount := 0
	skipped := 0
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, fmt.Errorf("CSV read error: %w", err)
		}
		rowCount++

		if strings.TrimSpace(row[colIndex["country"]]) != cfg.WorldLabel {
			continue
		}

		year, err := strconv.Atoi(strings.TrimSpace(row[colIndex["year"]]))
		if err != nil {
			skipped++
			continue
		}

		cell := func(col string) *float64 {
			return utils.ParseNullableFloat(row[colIndex[col]])
		}

		records = append(records, model.RawRecord{
			Year:          year,
			CO2:           cell("co2"),
			Population:    cell("population"),
			GDP:           cell("gdp"),
			Coal:          cell("coal_co2"),
			Oil:           cell("oil_co2"),
			Gas:           cell("gas_co2"),
			Cement:        cell("cement_co2"),
			Flaring:       cell("flaring_co2"),
			OtherIndustry: cell("other_industry_co2"),
		})
	}

	if skipped > 0 {
		fmt.Printf("⚠️ Skipped %d %q rows with unparseable years\n", skipped, cfg.WorldLabel)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("no %q aggregate rows found in %s (%d rows scanned)", cfg.WorldLabel, cfg.InputCSV, rowCount)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Year < records[j].Year
	})

	fmt.Printf("📄 Filtered to %q aggregate: %d of %d rows, years %d–%d\n",
		cfg.WorldLabel, len(records), rowCount, records[0].Year, records[len(records)-1].Year)

	warnings := reconcileSectorSums(records, cfg.ReconTolerance)

	return records, warnings, nil
}

// reconcileSectorSums compares the six-sector sum against the reported
// total for every year where all sector values are present. Deviations
// beyond the relative tolerance become warnings.
func reconcileSectorSums(records []model.RawRecord, tolerance float64) []model.Warning {
	var warnings []model.Warning
	checked := 0

	for _, rec := range records {
		if rec.CO2 == nil || *rec.CO2 == 0 {
			continue
		}
		sum := 0.0
		complete := true
		for _, sector := range model.CanonicalSectors {
			v := rec.Sector(sector)
			if v == nil {
				complete = false
				break
			}
			sum += *v
		}
		if !complete {
			continue
		}
		checked++

		relDev := math.Abs(*rec.CO2-sum) / math.Abs(*rec.CO2)
		if relDev > tolerance {
			warnings = append(warnings, model.Warning{
				Stage: model.WarnReconciliation,
				Year:  rec.Year,
				Message: fmt.Sprintf("sector sum %.4f deviates from total %.4f by %.5f%%",
					sum, *rec.CO2, relDev*100),
			})
		}
	}

	// Component sum check for the latest complete year, logged for
	// visibility even when it reconciles.
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if rec.CO2 == nil {
			continue
		}
		sum := 0.0
		complete := true
		for _, sector := range model.CanonicalSectors {
			v := rec.Sector(sector)
			if v == nil {
				complete = false
				break
			}
			sum += *v
		}
		if complete {
			fmt.Printf("🔍 Component sum check (year %d): total=%.2f, sum(sectors)=%.2f, diff=%.4f\n",
				rec.Year, *rec.CO2, sum, math.Abs(*rec.CO2-sum))
			break
		}
	}

	fmt.Printf("🔍 Reconciliation: %d years checked, %d warnings\n", checked, len(warnings))

	return warnings
}
