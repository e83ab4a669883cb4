package parquet

import (
	"time"
)

// Row structs define the parquet schema for each canonical table. Tags are
// the artifact's column names; timestamps are stored at millisecond
// precision.

// MachineRow is one machine registry row.
type MachineRow struct {
	MachineID int64  `parquet:"machineID"`
	Model     string `parquet:"model"`
	Age       int64  `parquet:"age"`
}

// ErrorRow is one non-breaking anomaly event.
type ErrorRow struct {
	MachineID int64     `parquet:"machineID"`
	Datetime  time.Time `parquet:"datetime,timestamp(millisecond)"`
	ErrorID   string    `parquet:"errorID"`
}

// MaintRow is one maintenance event.
type MaintRow struct {
	MachineID int64     `parquet:"machineID"`
	Datetime  time.Time `parquet:"datetime,timestamp(millisecond)"`
	Comp      string    `parquet:"comp"`
}

// TelemetryRow is one hourly sensor reading.
type TelemetryRow struct {
	MachineID int64     `parquet:"machineID"`
	Datetime  time.Time `parquet:"datetime,timestamp(millisecond)"`
	Voltage   float64   `parquet:"voltage"`
	Rotation  float64   `parquet:"rotation"`
	Pressure  float64   `parquet:"pressure"`
	Vibration float64   `parquet:"vibration"`
}

// FailureRow is one component replacement event.
type FailureRow struct {
	MachineID int64     `parquet:"machineID"`
	Datetime  time.Time `parquet:"datetime,timestamp(millisecond)"`
	Failure   string    `parquet:"failure"`
}
