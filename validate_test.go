package pdm_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fleetpdm/pdm"
)

func maintSpec(t *testing.T) pdm.SourceSpec {
	t.Helper()
	spec, err := mustSpecs(t).Get(pdm.SourceMaint)
	if err != nil {
		t.Fatalf("getting maint spec: %v", err)
	}
	return spec
}

func TestValidateOK(t *testing.T) {
	maint := mustTable(t, pdm.SourceMaint,
		intCol("machineID", 1, 1, 2),
		timeCol("datetime", hour(0), hour(5), hour(0)),
		strCol("comp", "comp1", "comp2", "comp1"),
	)
	if err := pdm.Validate(maint, maintSpec(t)); err != nil {
		t.Fatalf("valid maint table rejected: %v", err)
	}
}

func TestValidateEnum(t *testing.T) {
	maint := mustTable(t, pdm.SourceMaint,
		intCol("machineID", 1),
		timeCol("datetime", hour(0)),
		strCol("comp", "component5"),
	)
	err := pdm.Validate(maint, maintSpec(t))
	var se *pdm.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Check != "enum" {
		t.Fatalf("wrong check: %q", se.Check)
	}
	if se.Total != 1 || len(se.Violations) != 1 {
		t.Fatalf("wrong violation counts: %d/%d", se.Total, len(se.Violations))
	}
	v := se.Violations[0]
	if v.Column != "comp" || v.Value != "component5" || v.Row != 0 {
		t.Fatalf("wrong violation: %+v", v)
	}
}

func TestValidateColumnSet(t *testing.T) {
	// missing comp, unexpected cost
	maint := mustTable(t, pdm.SourceMaint,
		intCol("machineID", 1),
		timeCol("datetime", hour(0)),
		floatCol("cost", 12.5),
	)
	err := pdm.Validate(maint, maintSpec(t))
	var se *pdm.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Check != "columns" {
		t.Fatalf("wrong check: %q", se.Check)
	}
	if se.Total != 2 {
		t.Fatalf("missing and extra column should both be violations, got %d", se.Total)
	}
}

func TestValidateTypes(t *testing.T) {
	maint := mustTable(t, pdm.SourceMaint,
		strCol("machineID", "1"),
		timeCol("datetime", hour(0)),
		strCol("comp", "comp1"),
	)
	err := pdm.Validate(maint, maintSpec(t))
	var se *pdm.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Check != "types" || se.Violations[0].Column != "machineID" {
		t.Fatalf("wrong error: %v", se)
	}
}

func TestValidateDuplicateKeys(t *testing.T) {
	maint := mustTable(t, pdm.SourceMaint,
		intCol("machineID", 1, 1),
		timeCol("datetime", hour(0), hour(0)),
		strCol("comp", "comp1", "comp1"),
	)
	err := pdm.Validate(maint, maintSpec(t))
	var se *pdm.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Check != "keys" {
		t.Fatalf("wrong check: %q", se.Check)
	}
	if se.Violations[0].Row != 1 {
		t.Fatalf("duplicate should be reported at its second occurrence, got row %d", se.Violations[0].Row)
	}
}

func TestValidateMissingKey(t *testing.T) {
	ids := pdm.NewColumn("machineID", pdm.TypeInt)
	ids.AppendInt(1)
	ids.AppendMissing()
	maint := mustTable(t, pdm.SourceMaint,
		ids,
		timeCol("datetime", hour(0), hour(1)),
		strCol("comp", "comp1", "comp2"),
	)
	err := pdm.Validate(maint, maintSpec(t))
	var se *pdm.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Check != "keys" || se.Violations[0].Row != 1 {
		t.Fatalf("wrong error: %v", se)
	}
}

func TestValidateAlignment(t *testing.T) {
	maint := mustTable(t, pdm.SourceMaint,
		intCol("machineID", 1),
		timeCol("datetime", hour(0).Add(17*time.Minute)),
		strCol("comp", "comp1"),
	)
	err := pdm.Validate(maint, maintSpec(t))
	var se *pdm.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Check != "alignment" {
		t.Fatalf("wrong check: %q", se.Check)
	}
}

func TestValidateSampleBounded(t *testing.T) {
	comps := []string{"widget", "widget", "widget", "widget", "widget", "widget", "widget"}
	ids := make([]int64, len(comps))
	times := make([]time.Time, len(comps))
	for i := range comps {
		ids[i] = int64(i + 1)
		times[i] = hour(i)
	}
	maint := mustTable(t, pdm.SourceMaint,
		intCol("machineID", ids...),
		timeCol("datetime", times...),
		strCol("comp", comps...),
	)
	err := pdm.Validate(maint, maintSpec(t))
	var se *pdm.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Total != 7 {
		t.Fatalf("all violations in the category should be counted, got %d", se.Total)
	}
	if len(se.Violations) != pdm.SampleLimit {
		t.Fatalf("sample should be bounded at %d, got %d", pdm.SampleLimit, len(se.Violations))
	}
}

func TestCheckDensity(t *testing.T) {
	// machine 1 is dense over 4 hours; machine 2 is missing hour(1) and
	// hour(2) within its window.
	tel := mustTable(t, pdm.SourceTelemetry,
		intCol("machineID", 1, 1, 1, 1, 2, 2),
		timeCol("datetime", hour(0), hour(1), hour(2), hour(3), hour(0), hour(3)),
		floatCol("voltage", 170, 171, 172, 173, 174, 175),
		floatCol("rotation", 440, 441, 442, 443, 444, 445),
		floatCol("pressure", 100, 101, 102, 103, 104, 105),
		floatCol("vibration", 40, 41, 42, 43, 44, 45),
	)
	gaps, err := pdm.CheckDensity(tel)
	if err != nil {
		t.Fatalf("checking density: %v", err)
	}
	if len(gaps) != 1 {
		t.Fatalf("expected one deficient machine, got %v", gaps)
	}
	g := gaps[0]
	if g.MachineID != 2 || g.Expected != 4 || g.Observed != 2 || g.MissingHours != 2 {
		t.Fatalf("wrong gap: %+v", g)
	}
}
