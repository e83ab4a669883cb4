package csv_test

import (
	"errors"
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/fleetpdm/pdm"
	"github.com/fleetpdm/pdm/csv"
)

func MustGetTempFile(t *testing.T, content string) *os.File {
	f, err := ioutil.TempFile("", "")
	if err != nil {
		t.Fatalf("getting temp file: %v", err)
	}
	n, err := f.WriteString(content)
	if err != nil || n != len(content) {
		t.Fatalf("writing temp file: %v, n: %v", err, n)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })
	return f
}

func mustSpec(t *testing.T, name string) pdm.SourceSpec {
	t.Helper()
	specs, err := pdm.NewSpecSet()
	if err != nil {
		t.Fatalf("building spec set: %v", err)
	}
	spec, err := specs.Get(name)
	if err != nil {
		t.Fatalf("getting spec %s: %v", name, err)
	}
	return spec
}

func TestLoadMachines(t *testing.T) {
	f := MustGetTempFile(t, `machineID,model,age
1,model3,18
2,model4,7
3,,8
`)
	r := csv.NewReader(mustSpec(t, "machines"), csv.WithURL(f.Name()))
	table, err := r.Load()
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if table.NumRows() != 3 {
		t.Fatalf("wrong row count: %d", table.NumRows())
	}
	ids, ok := table.Column("machineID")
	if !ok || ids.Type != pdm.TypeInt {
		t.Fatalf("machineID should load as int")
	}
	if ids.Ints[1] != 2 {
		t.Fatalf("wrong machineID: %d", ids.Ints[1])
	}
	models, _ := table.Column("model")
	if !models.Missing[2] {
		t.Fatalf("empty model cell should load as missing")
	}
	if models.Strings[0] != "model3" {
		t.Fatalf("wrong model: %q", models.Strings[0])
	}
}

func TestLoadTelemetryTyped(t *testing.T) {
	f := MustGetTempFile(t, `datetime,machineID,voltage,rotation,pressure,vibration
2015-01-01 06:00:00,1,176.21,418.5,113.07,45.08
2015-01-01 07:00:00,1,,402.74,95.46,43.41
`)
	r := csv.NewReader(mustSpec(t, "telemetry"), csv.WithURL(f.Name()))
	table, err := r.Load()
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	times, _ := table.Column("datetime")
	want := time.Date(2015, 1, 1, 6, 0, 0, 0, time.UTC)
	if !times.Times[0].Equal(want) {
		t.Fatalf("wrong timestamp: %v", times.Times[0])
	}
	volts, _ := table.Column("voltage")
	if volts.Floats[0] != 176.21 {
		t.Fatalf("wrong voltage: %v", volts.Floats[0])
	}
	if !volts.Missing[1] {
		t.Fatalf("empty voltage should be missing")
	}
}

func TestLoadTypeMismatch(t *testing.T) {
	f := MustGetTempFile(t, `machineID,model,age
1,model1,old
`)
	r := csv.NewReader(mustSpec(t, "machines"), csv.WithURL(f.Name()))
	_, err := r.Load()
	var se *pdm.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Check != "types" {
		t.Fatalf("wrong check: %q", se.Check)
	}
	v := se.Violations[0]
	if v.Column != "age" || v.Value != "old" || v.Row != 0 {
		t.Fatalf("wrong violation: %+v", v)
	}
}

func TestLoadUnknownColumnKept(t *testing.T) {
	f := MustGetTempFile(t, `machineID,model,age,plant
1,model1,4,berlin
`)
	r := csv.NewReader(mustSpec(t, "machines"), csv.WithURL(f.Name()))
	table, err := r.Load()
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	// the undeclared column is carried as a string for the validator to
	// reject, not dropped here
	plant, ok := table.Column("plant")
	if !ok || plant.Type != pdm.TypeString || plant.Strings[0] != "berlin" {
		t.Fatalf("undeclared column should be carried as string: %v", plant)
	}
	if err := pdm.Validate(table, mustSpec(t, "machines")); err == nil {
		t.Fatalf("validator should reject the extra column")
	}
}

func TestLoadMissingFile(t *testing.T) {
	r := csv.NewReader(mustSpec(t, "machines"),
		csv.WithURL("/no/such/machines.csv"), csv.WithMaxRetries(2))
	_, err := r.Load()
	var sue *pdm.SourceUnavailableError
	if !errors.As(err, &sue) {
		t.Fatalf("expected SourceUnavailableError, got %v", err)
	}
	if sue.Source != "machines" {
		t.Fatalf("wrong source in error: %q", sue.Source)
	}
}

func TestBatches(t *testing.T) {
	f := MustGetTempFile(t, `machineID,datetime,errorID
1,2015-01-01 06:00:00,error1
1,2015-01-01 07:00:00,error2
2,2015-01-01 06:00:00,error1
2,2015-01-01 07:00:00,error3
3,2015-01-01 06:00:00,error5
`)
	r := csv.NewReader(mustSpec(t, "errors"), csv.WithURL(f.Name()))
	var sizes []int
	err := r.Batches(2, func(batch *pdm.Table) error {
		sizes = append(sizes, batch.NumRows())
		return nil
	})
	if err != nil {
		t.Fatalf("batching: %v", err)
	}
	if len(sizes) != 3 || sizes[0] != 2 || sizes[1] != 2 || sizes[2] != 1 {
		t.Fatalf("wrong batch sizes: %v", sizes)
	}
}

func TestBatchesEmptySource(t *testing.T) {
	f := MustGetTempFile(t, "machineID,model,age\n")
	r := csv.NewReader(mustSpec(t, "machines"), csv.WithURL(f.Name()))
	calls := 0
	err := r.Batches(10, func(batch *pdm.Table) error {
		calls++
		if batch.NumRows() != 0 {
			t.Fatalf("expected empty batch, got %d rows", batch.NumRows())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("batching: %v", err)
	}
	if calls != 1 {
		t.Fatalf("fn should be called exactly once for a headered empty source, got %d", calls)
	}
}

func TestDuplicateHeader(t *testing.T) {
	f := MustGetTempFile(t, "machineID,model,model\n1,model1,model2\n")
	r := csv.NewReader(mustSpec(t, "machines"), csv.WithURL(f.Name()))
	if _, err := r.Load(); err == nil {
		t.Fatalf("duplicate header fields should fail")
	}
}
