package parquet

import (
	"github.com/fleetpdm/pdm"
)

// The conversion helpers below materialize row-group slices from the
// column-major tables. Registry tables have already passed validation, so
// column lookups use mustCol rather than threading errors through every
// closure; a missing column here is a programming error.

func mustCol(t *pdm.Table, name string) *pdm.Column {
	col, ok := t.Column(name)
	if !ok {
		panic("canonical table " + t.Source + " missing column " + name)
	}
	return col
}

func machineRows(t *pdm.Table) func(lo, hi int) []MachineRow {
	ids, models, ages := mustCol(t, "machineID"), mustCol(t, "model"), mustCol(t, "age")
	return func(lo, hi int) []MachineRow {
		rows := make([]MachineRow, hi-lo)
		for i := lo; i < hi; i++ {
			rows[i-lo] = MachineRow{
				MachineID: ids.Ints[i],
				Model:     models.Strings[i],
				Age:       ages.Ints[i],
			}
		}
		return rows
	}
}

func errorRows(t *pdm.Table) func(lo, hi int) []ErrorRow {
	ids, times, errIDs := mustCol(t, "machineID"), mustCol(t, "datetime"), mustCol(t, "errorID")
	return func(lo, hi int) []ErrorRow {
		rows := make([]ErrorRow, hi-lo)
		for i := lo; i < hi; i++ {
			rows[i-lo] = ErrorRow{
				MachineID: ids.Ints[i],
				Datetime:  times.Times[i],
				ErrorID:   errIDs.Strings[i],
			}
		}
		return rows
	}
}

func maintRows(t *pdm.Table) func(lo, hi int) []MaintRow {
	ids, times, comps := mustCol(t, "machineID"), mustCol(t, "datetime"), mustCol(t, "comp")
	return func(lo, hi int) []MaintRow {
		rows := make([]MaintRow, hi-lo)
		for i := lo; i < hi; i++ {
			rows[i-lo] = MaintRow{
				MachineID: ids.Ints[i],
				Datetime:  times.Times[i],
				Comp:      comps.Strings[i],
			}
		}
		return rows
	}
}

func telemetryRows(t *pdm.Table) func(lo, hi int) []TelemetryRow {
	ids, times := mustCol(t, "machineID"), mustCol(t, "datetime")
	volt, rot := mustCol(t, "voltage"), mustCol(t, "rotation")
	pres, vib := mustCol(t, "pressure"), mustCol(t, "vibration")
	return func(lo, hi int) []TelemetryRow {
		rows := make([]TelemetryRow, hi-lo)
		for i := lo; i < hi; i++ {
			rows[i-lo] = TelemetryRow{
				MachineID: ids.Ints[i],
				Datetime:  times.Times[i],
				Voltage:   volt.Floats[i],
				Rotation:  rot.Floats[i],
				Pressure:  pres.Floats[i],
				Vibration: vib.Floats[i],
			}
		}
		return rows
	}
}

func failureRows(t *pdm.Table) func(lo, hi int) []FailureRow {
	ids, times, fails := mustCol(t, "machineID"), mustCol(t, "datetime"), mustCol(t, "failure")
	return func(lo, hi int) []FailureRow {
		rows := make([]FailureRow, hi-lo)
		for i := lo; i < hi; i++ {
			rows[i-lo] = FailureRow{
				MachineID: ids.Ints[i],
				Datetime:  times.Times[i],
				Failure:   fails.Strings[i],
			}
		}
		return rows
	}
}
