package pdm_test

import (
	"testing"
	"time"

	"github.com/fleetpdm/pdm"
)

func mustTable(t *testing.T, source string, cols ...*pdm.Column) *pdm.Table {
	t.Helper()
	tb, err := pdm.NewTable(source, cols...)
	if err != nil {
		t.Fatalf("building table %s: %v", source, err)
	}
	return tb
}

func intCol(name string, vals ...int64) *pdm.Column {
	c := pdm.NewColumn(name, pdm.TypeInt)
	for _, v := range vals {
		c.AppendInt(v)
	}
	return c
}

func floatCol(name string, vals ...float64) *pdm.Column {
	c := pdm.NewColumn(name, pdm.TypeFloat)
	for _, v := range vals {
		c.AppendFloat(v)
	}
	return c
}

func strCol(name string, vals ...string) *pdm.Column {
	c := pdm.NewColumn(name, pdm.TypeString)
	for _, v := range vals {
		c.AppendString(v)
	}
	return c
}

func timeCol(name string, vals ...time.Time) *pdm.Column {
	c := pdm.NewColumn(name, pdm.TypeTime)
	for _, v := range vals {
		c.AppendTime(v)
	}
	return c
}

// hour returns n hours past a fixed base timestamp.
func hour(n int) time.Time {
	return time.Date(2015, 1, 1, 6, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Hour)
}

func mustSpecs(t *testing.T) *pdm.SpecSet {
	t.Helper()
	specs, err := pdm.NewSpecSet()
	if err != nil {
		t.Fatalf("building spec set: %v", err)
	}
	return specs
}

// machinesTable returns a valid machines table with ids 1..n.
func machinesTable(t *testing.T, n int) *pdm.Table {
	ids := pdm.NewColumn("machineID", pdm.TypeInt)
	models := pdm.NewColumn("model", pdm.TypeString)
	ages := pdm.NewColumn("age", pdm.TypeInt)
	for i := 1; i <= n; i++ {
		ids.AppendInt(int64(i))
		models.AppendString(pdm.ModelTypes[i%len(pdm.ModelTypes)])
		ages.AppendInt(int64(5 + i))
	}
	return mustTable(t, pdm.SourceMachines, ids, models, ages)
}
