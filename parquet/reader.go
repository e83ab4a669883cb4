package parquet

import (
	pq "github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
)

// Read-back helpers, used for round-trip verification of written artifacts.

// ReadMachines reads a machines artifact.
func ReadMachines(path string) ([]MachineRow, error) {
	return read[MachineRow](path)
}

// ReadErrors reads an errors artifact.
func ReadErrors(path string) ([]ErrorRow, error) {
	return read[ErrorRow](path)
}

// ReadMaint reads a maint artifact.
func ReadMaint(path string) ([]MaintRow, error) {
	return read[MaintRow](path)
}

// ReadTelemetry reads a telemetry artifact.
func ReadTelemetry(path string) ([]TelemetryRow, error) {
	return read[TelemetryRow](path)
}

// ReadFailures reads a failures artifact.
func ReadFailures(path string) ([]FailureRow, error) {
	return read[FailureRow](path)
}

func read[T any](path string) ([]T, error) {
	rows, err := pq.ReadFile[T](path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return rows, nil
}
