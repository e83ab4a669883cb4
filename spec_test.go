package pdm_test

import (
	"errors"
	"testing"

	"github.com/fleetpdm/pdm"
)

func TestSpecSet(t *testing.T) {
	specs := mustSpecs(t)

	names := specs.Names()
	want := []string{"machines", "errors", "maint", "telemetry", "failures"}
	if len(names) != len(want) {
		t.Fatalf("got %d sources: %v", len(names), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("source %d: got %q, want %q", i, names[i], name)
		}
	}

	spec, err := specs.Get("telemetry")
	if err != nil {
		t.Fatalf("getting telemetry spec: %v", err)
	}
	if spec.Align != pdm.AlignHourly {
		t.Fatalf("telemetry should be hourly aligned")
	}
	cs, ok := spec.Col("voltage")
	if !ok || cs.Type != pdm.TypeFloat {
		t.Fatalf("voltage should be a float column, got %v %v", ok, cs.Type)
	}
	keys := spec.KeyCols()
	if len(keys) != 2 || keys[0] != "machineID" || keys[1] != "datetime" {
		t.Fatalf("wrong telemetry keys: %v", keys)
	}

	if specs.Sentinel() != "Unknown" {
		t.Fatalf("default sentinel: %q", specs.Sentinel())
	}
}

func TestSpecSetUnknownSource(t *testing.T) {
	specs := mustSpecs(t)
	_, err := specs.Get("weather")
	var use *pdm.UnknownSourceError
	if !errors.As(err, &use) {
		t.Fatalf("expected UnknownSourceError, got %v", err)
	}
	if use.Name != "weather" {
		t.Fatalf("wrong name in error: %q", use.Name)
	}
}

func TestSpecSetSentinelCollision(t *testing.T) {
	_, err := pdm.NewSpecSet(pdm.OptSentinel("comp2"))
	if err == nil {
		t.Fatalf("sentinel colliding with the component enumeration should fail")
	}
	_, err = pdm.NewSpecSet(pdm.OptSentinel(""))
	if err == nil {
		t.Fatalf("empty sentinel should fail")
	}
	if _, err := pdm.NewSpecSet(pdm.OptSentinel("None")); err != nil {
		t.Fatalf("non-colliding sentinel: %v", err)
	}
}
