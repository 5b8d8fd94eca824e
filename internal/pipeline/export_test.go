package pipeline

import (
	"co2-sector-pipeline/internal/model"
	"co2-sector-pipeline/pkg/utils"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArtifacts() Artifacts {
	raw := []model.RawRecord{
		rawYear(2019, 100, 40, 30, 20, 5, 3, 2),
		rawYear(2020, 90, 35, 28, 18, 4, 3, 2),
	}
	long := ToLong(raw)
	shares := ComputeShares(raw, long)
	sectorYoY := ComputeSectorYoY(long)
	totalYoY := ComputeTotalYoY(raw)

	return Artifacts{
		Raw:           raw,
		SectorLong:    long,
		Shares:        shares,
		YoY:           MergeYoY(sectorYoY, totalYoY),
		Contributions: ComputeContributions(sectorYoY, totalYoY),
		Smoothed:      []model.SmoothedRecord{{Year: 2019, Sector: "coal"}},
		LMDI: []model.LMDIResult{{
			Period:           "2019–2020",
			StartYear:        2019,
			EndYear:          2020,
			PopulationEffect: 4,
			AffluenceEffect:  2,
			IntensityEffect:  -16,
			DeltaCO2:         -10,
		}},
	}
}

func TestExportTables_WritesAllSixTables(t *testing.T) {
	om := utils.NewOutputManager(t.TempDir())
	require.NoError(t, om.EnsureOutputDirsExist())

	results, err := ExportTables(om, testArtifacts())
	require.NoError(t, err)
	require.Len(t, results, 6)

	wantHeaders := map[string]string{
		TableSectorLong:    "year,sector,emissions_mtco2",
		TableSectorShares:  "year,sector,share",
		TableYoYChanges:    "year,sector,delta_abs,delta_pct",
		TableContributions: "year,sector,contribution",
		TableLMDI:          "period_label,population_effect,affluence_effect,intensity_effect,delta_co2",
		TableSmoothed:      "year,sector,smoothed_emissions",
	}
	for _, res := range results {
		content, err := os.ReadFile(res.Path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
		assert.Equal(t, wantHeaders[res.Table], lines[0], res.Table)
		assert.Len(t, lines, res.Rows+1, res.Table)
	}
}

func TestExportTables_NilValuesAreEmptyCells(t *testing.T) {
	om := utils.NewOutputManager(t.TempDir())
	require.NoError(t, om.EnsureOutputDirsExist())

	_, err := ExportTables(om, testArtifacts())
	require.NoError(t, err)

	content, err := os.ReadFile(om.TablePath(TableSmoothed))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2019,coal,", lines[1])

	// First-year YoY rows carry empty delta cells.
	content, err = os.ReadFile(om.TablePath(TableYoYChanges))
	require.NoError(t, err)
	assert.Contains(t, string(content), "2019,coal,,\n")
}

func TestExportTables_Idempotent(t *testing.T) {
	om := utils.NewOutputManager(t.TempDir())
	require.NoError(t, om.EnsureOutputDirsExist())
	arts := testArtifacts()

	_, err := ExportTables(om, arts)
	require.NoError(t, err)

	first := make(map[string][]byte)
	entries, err := os.ReadDir(om.TablesDir())
	require.NoError(t, err)
	for _, entry := range entries {
		content, err := os.ReadFile(filepath.Join(om.TablesDir(), entry.Name()))
		require.NoError(t, err)
		first[entry.Name()] = content
	}

	_, err = ExportTables(om, arts)
	require.NoError(t, err)

	for name, before := range first {
		after, err := os.ReadFile(filepath.Join(om.TablesDir(), name))
		require.NoError(t, err)
		assert.Equal(t, before, after, "re-export of %s must be byte-identical", name)
	}
}

func TestExportSummaryWorkbook(t *testing.T) {
	om := utils.NewOutputManager(t.TempDir())
	require.NoError(t, om.EnsureOutputDirsExist())

	path, err := ExportSummaryWorkbook(om, testArtifacts())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, SummaryWorkbook, filepath.Base(path))
	assert.Positive(t, info.Size())
}
