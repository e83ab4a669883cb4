package pdm

import (
	"fmt"
	"time"
)

// UnknownSourceError is returned for a source name that is not one of the
// five registered sources.
type UnknownSourceError struct {
	Name string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown source %q", e.Name)
}

// SourceUnavailableError means a source's underlying location is missing or
// unreadable. It aborts the run.
type SourceUnavailableError struct {
	Source   string
	Location string
	Err      error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %q unavailable at %s: %v", e.Source, e.Location, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// Violation is one offending cell, kept for diagnostics.
type Violation struct {
	Column string
	Row    int
	Value  string
}

// SchemaError reports the first failing validation category for a table,
// with every violation in that category and a bounded row sample.
type SchemaError struct {
	Source string
	// Check is the failing category: "columns", "types", "enum", "keys" or
	// "alignment".
	Check      string
	Violations []Violation
	// Total counts all violations in the category; Violations holds at most
	// SampleLimit of them.
	Total int
}

// SampleLimit bounds the number of offending rows carried in a SchemaError.
const SampleLimit = 5

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("source %q failed %s check: %d violation(s)", e.Source, e.Check, e.Total)
	for _, v := range e.Violations {
		msg += fmt.Sprintf("; column=%q row=%d value=%q", v.Column, v.Row, v.Value)
	}
	if e.Total > len(e.Violations) {
		msg += fmt.Sprintf("; and %d more", e.Total-len(e.Violations))
	}
	return msg
}

// ReferentialError means an event table references a machineID with no row
// in the machines table.
type ReferentialError struct {
	Source    string
	Row       int
	MachineID int64
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("source %q row %d references machineID=%d which does not exist in %q", e.Source, e.Row, e.MachineID, SourceMachines)
}

// NotBuiltError means the dataset registry was accessed before a successful
// build.
type NotBuiltError struct{}

func (e *NotBuiltError) Error() string {
	return "dataset registry not built"
}

// WriteError means persisting a canonical table failed. The prior artifact
// at the target, if any, is left intact.
type WriteError struct {
	Source string
	Path   string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing source %q to %s: %v", e.Source, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// TableReport describes one persisted artifact.
type TableReport struct {
	Source string `json:"source"`
	Path   string `json:"path"`
	Rows   int64  `json:"rows"`
	Bytes  int64  `json:"bytes"`
}

// WriteReport is the result of persisting a full registry.
type WriteReport struct {
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Tables     []TableReport `json:"tables"`
}

// Table returns the report for the named source.
func (r WriteReport) Table(source string) (TableReport, bool) {
	for _, t := range r.Tables {
		if t.Source == source {
			return t, true
		}
	}
	return TableReport{}, false
}
