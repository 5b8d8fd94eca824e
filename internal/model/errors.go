package model

import (
	"fmt"
	"strings"
)

// MissingFileError is fatal: the input dataset does not exist.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

// SchemaError is fatal: one or more required columns are absent from
// the input CSV header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Warning stages. Expected data-quality findings travel as Warning
// values alongside stage results, never as errors.
const (
	WarnReconciliation = "reconciliation"
	WarnDecomposition  = "decomposition"
)

// Warning is a non-fatal finding surfaced by a stage. Year is zero
// when the finding is not tied to a single year.
type Warning struct {
	Stage   string `json:"stage"`
	Year    int    `json:"year,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Year != 0 {
		return fmt.Sprintf("[%s] year %d: %s", w.Stage, w.Year, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Stage, w.Message)
}
