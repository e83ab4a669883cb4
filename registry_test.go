package pdm_test

import (
	"errors"
	"testing"

	"github.com/fleetpdm/pdm"
)

func allTables(t *testing.T) map[string]*pdm.Table {
	return map[string]*pdm.Table{
		pdm.SourceMachines: machinesTable(t, 3),
		pdm.SourceErrors: mustTable(t, pdm.SourceErrors,
			intCol("machineID", 1),
			timeCol("datetime", hour(0)),
			strCol("errorID", "error1"),
		),
		pdm.SourceMaint: mustTable(t, pdm.SourceMaint,
			intCol("machineID", 2),
			timeCol("datetime", hour(1)),
			strCol("comp", "comp1"),
		),
		pdm.SourceTelemetry: mustTable(t, pdm.SourceTelemetry,
			intCol("machineID", 1),
			timeCol("datetime", hour(0)),
			floatCol("voltage", 170),
			floatCol("rotation", 440),
			floatCol("pressure", 100),
			floatCol("vibration", 40),
		),
		pdm.SourceFailures: mustTable(t, pdm.SourceFailures,
			intCol("machineID", 2),
			timeCol("datetime", hour(1)),
			strCol("failure", "comp1"),
		),
	}
}

func TestRegistryBuildAndGet(t *testing.T) {
	specs := mustSpecs(t)
	reg, err := pdm.BuildRegistry(specs, allTables(t))
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}
	tel, err := reg.Get(pdm.SourceTelemetry)
	if err != nil {
		t.Fatalf("getting telemetry: %v", err)
	}
	if tel.NumRows() != 1 {
		t.Fatalf("wrong telemetry rows: %d", tel.NumRows())
	}
	if len(reg.Names()) != 5 {
		t.Fatalf("wrong names: %v", reg.Names())
	}

	_, err = reg.Get("weather")
	var use *pdm.UnknownSourceError
	if !errors.As(err, &use) {
		t.Fatalf("expected UnknownSourceError, got %v", err)
	}
}

func TestRegistryNotBuilt(t *testing.T) {
	var reg *pdm.Registry
	_, err := reg.Get(pdm.SourceMachines)
	var nbe *pdm.NotBuiltError
	if !errors.As(err, &nbe) {
		t.Fatalf("expected NotBuiltError, got %v", err)
	}
	if reg.Names() != nil {
		t.Fatalf("unbuilt registry should have no names")
	}
}

func TestRegistryBuildAtomic(t *testing.T) {
	specs := mustSpecs(t)
	tables := allTables(t)
	delete(tables, pdm.SourceFailures)
	reg, err := pdm.BuildRegistry(specs, tables)
	if err == nil {
		t.Fatalf("build with a missing source should fail")
	}
	if reg != nil {
		t.Fatalf("failed build should produce no registry")
	}

	tables = allTables(t)
	tables["weather"] = machinesTable(t, 1)
	if _, err := pdm.BuildRegistry(specs, tables); err == nil {
		t.Fatalf("build with an unknown source should fail")
	}
}
