package model

// Period is one decomposition window. End == 0 means "latest available
// year", resolved against the loaded data at decomposition time.
type Period struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Config carries every tunable of the pipeline. It is built once in
// cmd and passed by value into each stage; stages never mutate it.
type Config struct {
	InputCSV          string   `json:"inputCsv"`
	OutputDir         string   `json:"outputDir"`
	DBPath            string   `json:"dbPath"`
	WorldLabel        string   `json:"worldLabel"`
	SmoothingWindow   int      `json:"smoothingWindow"`
	Periods           []Period `json:"periods"`
	ContributionYears int      `json:"contributionYears"`
	// ReconTolerance is the relative deviation between the sector sum
	// and the reported total above which a reconciliation warning is
	// emitted. 1e-5 is 0.001%.
	ReconTolerance float64 `json:"reconTolerance"`
}

// DefaultConfig returns the canonical configuration.
func DefaultConfig() Config {
	return Config{
		InputCSV:        "data/owid-co2-data.csv",
		OutputDir:       "output",
		DBPath:          "pipeline.db",
		WorldLabel:      "World",
		SmoothingWindow: 5,
		Periods: []Period{
			{Start: 1990, End: 0},
			{Start: 2000, End: 2019},
			{Start: 2019, End: 0},
		},
		ContributionYears: 20,
		ReconTolerance:    1e-5,
	}
}
