package model

// CanonicalSectors lists the six emission sectors in their fixed
// canonical order. All sector-keyed outputs follow this order.
var CanonicalSectors = []string{
	"coal",
	"oil",
	"gas",
	"cement",
	"flaring",
	"other_industry",
}

// TotalSector is the pseudo-sector used for economy-wide rows in the
// year-on-year table.
const TotalSector = "total"

// SectorColumn maps a canonical sector name to its source CSV column.
func SectorColumn(sector string) string {
	return sector + "_co2"
}

// SectorRank returns a sector's position in the canonical order.
// The total pseudo-sector sorts after all real sectors.
func SectorRank(sector string) int {
	for i, s := range CanonicalSectors {
		if s == sector {
			return i
		}
	}
	return len(CanonicalSectors)
}

// RawRecord is one world-aggregate row of the source dataset.
// Values that are absent in the source are nil.
type RawRecord struct {
	Year          int      `json:"year"`
	CO2           *float64 `json:"co2"`        // Mt
	Population    *float64 `json:"population"` // persons
	GDP           *float64 `json:"gdp"`        // constant-currency units
	Coal          *float64 `json:"coal_co2"`
	Oil           *float64 `json:"oil_co2"`
	Gas           *float64 `json:"gas_co2"`
	Cement        *float64 `json:"cement_co2"`
	Flaring       *float64 `json:"flaring_co2"`
	OtherIndustry *float64 `json:"other_industry_co2"`
}

// Sector returns the emissions value for a canonical sector name.
func (r RawRecord) Sector(name string) *float64 {
	switch name {
	case "coal":
		return r.Coal
	case "oil":
		return r.Oil
	case "gas":
		return r.Gas
	case "cement":
		return r.Cement
	case "flaring":
		return r.Flaring
	case "other_industry":
		return r.OtherIndustry
	}
	return nil
}

// SectorRecord is one (year, sector) observation in long format.
type SectorRecord struct {
	Year      int     `json:"year"`
	Sector    string  `json:"sector"`
	Emissions float64 `json:"emissions_mtco2"`
}

// ShareRecord is a sector's share of total emissions for one year.
// Share is nil when the year's total is missing or zero.
type ShareRecord struct {
	Year   int      `json:"year"`
	Sector string   `json:"sector"`
	Share  *float64 `json:"share"`
}

// YoYRecord is the change vs. the immediately preceding year for one
// sector series (or the total pseudo-sector). Both deltas are nil for
// a series' first observed year and across gaps in the year sequence;
// DeltaPct is additionally nil when the previous value is zero.
type YoYRecord struct {
	Year     int      `json:"year"`
	Sector   string   `json:"sector"`
	DeltaAbs *float64 `json:"delta_abs"`
	DeltaPct *float64 `json:"delta_pct"`
}

// ContributionRecord is a sector's share of the total year-on-year
// change. Contribution is nil where the total delta is nil or zero.
type ContributionRecord struct {
	Year         int      `json:"year"`
	Sector       string   `json:"sector"`
	Contribution *float64 `json:"contribution"`
}

// SmoothedRecord is a centered rolling mean of a sector series.
// Smoothed is nil within half a window of either series boundary and
// wherever a year gap truncates the window.
type SmoothedRecord struct {
	Year     int      `json:"year"`
	Sector   string   `json:"sector"`
	Smoothed *float64 `json:"smoothed_emissions"`
}

// LMDIResult is the additive Kaya-identity decomposition of the CO2
// change over one period. The three effects sum to DeltaCO2 up to
// floating-point rounding.
type LMDIResult struct {
	Period           string  `json:"period"`
	StartYear        int     `json:"start_year"`
	EndYear          int     `json:"end_year"`
	PopulationEffect float64 `json:"population_effect"`
	AffluenceEffect  float64 `json:"affluence_effect"`
	IntensityEffect  float64 `json:"intensity_effect"`
	DeltaCO2         float64 `json:"delta_co2"`
}
