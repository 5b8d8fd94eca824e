package pipeline

import (
	"co2-sector-pipeline/internal/model"
	"co2-sector-pipeline/pkg/utils"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawYear(year int, co2 float64, sectors ...float64) model.RawRecord {
	rec := model.RawRecord{Year: year, CO2: utils.Float64Ptr(co2)}
	ptrs := []**float64{&rec.Coal, &rec.Oil, &rec.Gas, &rec.Cement, &rec.Flaring, &rec.OtherIndustry}
	for i, v := range sectors {
		if i >= len(ptrs) {
			break
		}
		*ptrs[i] = utils.Float64Ptr(v)
	}
	return rec
}

func TestToLong_Completeness(t *testing.T) {
	raw := []model.RawRecord{
		rawYear(2019, 100, 40, 30, 20, 5, 3, 2),
		{Year: 2020, CO2: utils.Float64Ptr(90), Coal: utils.Float64Ptr(35), Oil: utils.Float64Ptr(30)},
	}

	long := ToLong(raw)

	// Every non-null (year, sector) pair appears exactly once with
	// the raw value; null pairs are absent.
	require.Len(t, long, 8)
	seen := make(map[[2]interface{}]float64)
	for _, rec := range long {
		key := [2]interface{}{rec.Year, rec.Sector}
		_, dup := seen[key]
		require.False(t, dup, "duplicate record for %v", key)
		seen[key] = rec.Emissions
	}
	assert.Equal(t, 40.0, seen[[2]interface{}{2019, "coal"}])
	assert.Equal(t, 2.0, seen[[2]interface{}{2019, "other_industry"}])
	assert.Equal(t, 30.0, seen[[2]interface{}{2020, "oil"}])
}

func TestToLong_CanonicalOrder(t *testing.T) {
	raw := []model.RawRecord{
		rawYear(2020, 90, 35, 30, 15, 4, 3, 3),
		rawYear(2019, 100, 40, 30, 20, 5, 3, 2),
	}
	// Loader sorts by year before reshaping.
	raw[0], raw[1] = raw[1], raw[0]

	long := ToLong(raw)

	require.Len(t, long, 12)
	for i, rec := range long[:6] {
		assert.Equal(t, 2019, rec.Year)
		assert.Equal(t, model.CanonicalSectors[i], rec.Sector)
	}
	for i, rec := range long[6:] {
		assert.Equal(t, 2020, rec.Year)
		assert.Equal(t, model.CanonicalSectors[i], rec.Sector)
	}
}

func TestComputeShares(t *testing.T) {
	t.Run("share is sector over total and stays within bounds", func(t *testing.T) {
		raw := []model.RawRecord{rawYear(2019, 100, 40, 30, 20, 5, 3, 2)}
		long := ToLong(raw)

		shares := ComputeShares(raw, long)

		require.Len(t, shares, 6)
		sum := 0.0
		for _, s := range shares {
			require.NotNil(t, s.Share)
			assert.GreaterOrEqual(t, *s.Share, 0.0)
			assert.LessOrEqual(t, *s.Share, 1.0)
			sum += *s.Share
		}
		assert.InDelta(t, 1.0, sum, 1e-12)
		assert.Equal(t, 0.4, *shares[0].Share)
	})

	t.Run("zero or missing total yields nil share", func(t *testing.T) {
		raw := []model.RawRecord{
			rawYear(2019, 0, 40),
			{Year: 2020, Coal: utils.Float64Ptr(35)},
		}
		long := ToLong(raw)

		shares := ComputeShares(raw, long)

		require.Len(t, shares, 2)
		assert.Nil(t, shares[0].Share)
		assert.Nil(t, shares[1].Share)
	})
}

func TestComputeSectorYoY(t *testing.T) {
	long := []model.SectorRecord{
		{Year: 2018, Sector: "coal", Emissions: 100},
		{Year: 2019, Sector: "coal", Emissions: 110},
		// 2020 missing: the 2021 observation has no previous year.
		{Year: 2021, Sector: "coal", Emissions: 120},
		{Year: 2018, Sector: "oil", Emissions: 0},
		{Year: 2019, Sector: "oil", Emissions: 50},
	}

	yoy := ComputeSectorYoY(long)
	require.Len(t, yoy, 5)

	byKey := make(map[[2]interface{}]model.YoYRecord)
	for _, rec := range yoy {
		byKey[[2]interface{}{rec.Year, rec.Sector}] = rec
	}

	t.Run("first observed year has nil deltas", func(t *testing.T) {
		rec := byKey[[2]interface{}{2018, "coal"}]
		assert.Nil(t, rec.DeltaAbs)
		assert.Nil(t, rec.DeltaPct)
	})

	t.Run("consecutive years produce both deltas", func(t *testing.T) {
		rec := byKey[[2]interface{}{2019, "coal"}]
		require.NotNil(t, rec.DeltaAbs)
		assert.Equal(t, 10.0, *rec.DeltaAbs)
		require.NotNil(t, rec.DeltaPct)
		assert.InDelta(t, 0.1, *rec.DeltaPct, 1e-12)
	})

	t.Run("a year gap breaks the previous-year link", func(t *testing.T) {
		rec := byKey[[2]interface{}{2021, "coal"}]
		assert.Nil(t, rec.DeltaAbs)
		assert.Nil(t, rec.DeltaPct)
	})

	t.Run("zero previous value leaves percent nil", func(t *testing.T) {
		rec := byKey[[2]interface{}{2019, "oil"}]
		require.NotNil(t, rec.DeltaAbs)
		assert.Equal(t, 50.0, *rec.DeltaAbs)
		assert.Nil(t, rec.DeltaPct)
	})
}

func TestComputeTotalYoY(t *testing.T) {
	raw := []model.RawRecord{
		rawYear(2018, 100),
		rawYear(2019, 110),
		{Year: 2020}, // total missing
		rawYear(2021, 130),
	}

	yoy := ComputeTotalYoY(raw)
	require.Len(t, yoy, 3)

	assert.Equal(t, model.TotalSector, yoy[0].Sector)
	assert.Nil(t, yoy[0].DeltaAbs)

	require.NotNil(t, yoy[1].DeltaAbs)
	assert.Equal(t, 10.0, *yoy[1].DeltaAbs)

	// 2021 follows a missing 2020 total.
	assert.Equal(t, 2021, yoy[2].Year)
	assert.Nil(t, yoy[2].DeltaAbs)
}

func TestComputeContributions(t *testing.T) {
	sectorYoY := []model.YoYRecord{
		{Year: 2019, Sector: "coal", DeltaAbs: utils.Float64Ptr(6)},
		{Year: 2019, Sector: "oil", DeltaAbs: utils.Float64Ptr(4)},
		{Year: 2020, Sector: "coal", DeltaAbs: utils.Float64Ptr(5)},
		{Year: 2021, Sector: "coal"},
	}
	totalYoY := []model.YoYRecord{
		{Year: 2019, Sector: model.TotalSector, DeltaAbs: utils.Float64Ptr(10)},
		{Year: 2020, Sector: model.TotalSector, DeltaAbs: utils.Float64Ptr(0)},
		{Year: 2021, Sector: model.TotalSector, DeltaAbs: utils.Float64Ptr(3)},
	}

	contributions := ComputeContributions(sectorYoY, totalYoY)
	require.Len(t, contributions, 4)

	require.NotNil(t, contributions[0].Contribution)
	assert.InDelta(t, 0.6, *contributions[0].Contribution, 1e-12)
	require.NotNil(t, contributions[1].Contribution)
	assert.InDelta(t, 0.4, *contributions[1].Contribution, 1e-12)

	// Zero total delta: contribution undefined, not a division error.
	assert.Nil(t, contributions[2].Contribution)
	// Missing sector delta.
	assert.Nil(t, contributions[3].Contribution)
}

func TestMergeYoY_TotalSortsLast(t *testing.T) {
	sectorYoY := []model.YoYRecord{
		{Year: 2019, Sector: "coal"},
		{Year: 2019, Sector: "oil"},
		{Year: 2020, Sector: "coal"},
	}
	totalYoY := []model.YoYRecord{
		{Year: 2019, Sector: model.TotalSector},
		{Year: 2020, Sector: model.TotalSector},
	}

	merged := MergeYoY(sectorYoY, totalYoY)

	require.Len(t, merged, 5)
	assert.Equal(t, "coal", merged[0].Sector)
	assert.Equal(t, "oil", merged[1].Sector)
	assert.Equal(t, model.TotalSector, merged[2].Sector)
	assert.Equal(t, 2019, merged[2].Year)
	assert.Equal(t, "coal", merged[3].Sector)
	assert.Equal(t, model.TotalSector, merged[4].Sector)
}
