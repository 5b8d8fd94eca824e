package main

import (
	"co2-sector-pipeline/internal/model"
	"co2-sector-pipeline/internal/pipeline"
	"co2-sector-pipeline/internal/store"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	flagInput  string
	flagOutput string
	flagDB     string
	flagWorld  string
	flagWindow int
)

var rootCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Historical sectoral CO₂ emissions analysis",
	Long: `Run the historical sectoral CO₂ emissions analysis pipeline.

The pipeline loads the OWID CO₂ dataset, restricts it to the World
aggregate, reshapes sectoral emissions, computes shares, year-on-year
changes and contributions, smooths sector series, decomposes the CO₂
change with the Kaya identity (LMDI), and exports six CSV tables, a
summary workbook and five figures.`,
	SilenceUsage: true,
	RunE:         runAnalysis,
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.InitDB(flagDB); err != nil {
			return err
		}
		runs, err := store.ListRuns()
		if err != nil {
			return err
		}
		for _, run := range runs {
			fmt.Printf("%s  %-10s  %s\n", run.ID, run.Status, run.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	defaults := model.DefaultConfig()
	rootCmd.Flags().StringVar(&flagInput, "input", defaults.InputCSV, "path to the OWID CO₂ CSV")
	rootCmd.Flags().StringVar(&flagOutput, "output", defaults.OutputDir, "output directory for tables and figures")
	rootCmd.Flags().StringVar(&flagDB, "db", defaults.DBPath, "path to the run-history database")
	rootCmd.Flags().StringVar(&flagWorld, "world", defaults.WorldLabel, "world-aggregate country label")
	rootCmd.Flags().IntVar(&flagWindow, "window", defaults.SmoothingWindow, "rolling-mean window size (odd)")

	runsCmd.Flags().StringVar(&flagDB, "db", defaults.DBPath, "path to the run-history database")
	rootCmd.AddCommand(runsCmd)
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	cfg.InputCSV = flagInput
	cfg.OutputDir = flagOutput
	cfg.DBPath = flagDB
	cfg.WorldLabel = flagWorld
	cfg.SmoothingWindow = flagWindow

	if err := store.InitDB(cfg.DBPath); err != nil {
		return err
	}

	runID := uuid.New().String()
	if err := store.SaveRun(runID, cfg); err != nil {
		return err
	}

	return pipeline.Run(runID, cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
