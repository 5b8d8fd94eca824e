package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputManager handles output file organization and path management.
// Tables and figures land in fixed subdirectories of the base output
// directory so re-runs overwrite the same artifacts.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager.
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// TablesDir returns the directory for exported CSV tables.
func (om *OutputManager) TablesDir() string {
	return filepath.Join(om.BaseOutputDir, "tables")
}

// FiguresDir returns the directory for rendered figures.
func (om *OutputManager) FiguresDir() string {
	return filepath.Join(om.BaseOutputDir, "figures")
}

// TablePath returns the full path for a named table file.
func (om *OutputManager) TablePath(fileName string) string {
	return filepath.Join(om.TablesDir(), filepath.Base(fileName))
}

// FigurePath returns the full path for a named figure file.
func (om *OutputManager) FigurePath(fileName string) string {
	return filepath.Join(om.FiguresDir(), filepath.Base(fileName))
}

// EnsureOutputDirsExist creates the output directory tree. Idempotent.
func (om *OutputManager) EnsureOutputDirsExist() error {
	for _, dir := range []string{om.BaseOutputDir, om.TablesDir(), om.FiguresDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	return nil
}
