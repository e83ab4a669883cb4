package pdm

import (
	"github.com/pkg/errors"
)

// MachineIDs extracts the machine key set from the machines table.
func MachineIDs(machines *Table) (map[int64]struct{}, error) {
	col, ok := machines.Column("machineID")
	if !ok || col.Type != TypeInt {
		return nil, errors.Errorf("table %q has no integer machineID column", machines.Source)
	}
	ids := make(map[int64]struct{}, col.Len())
	for i, v := range col.Ints {
		if col.Missing[i] {
			continue
		}
		ids[v] = struct{}{}
	}
	return ids, nil
}

// CheckReferences verifies that every machineID in each event table resolves
// to a row in the machines table. It fails fast on the first orphaned
// reference. Callers must run it only after all tables have individually
// passed validation and imputation; a malformed machines table would
// otherwise produce misleading orphan reports.
func CheckReferences(machines *Table, events ...*Table) error {
	ids, err := MachineIDs(machines)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if err := checkTableReferences(ids, ev); err != nil {
			return err
		}
	}
	return nil
}

func checkTableReferences(ids map[int64]struct{}, ev *Table) error {
	col, ok := ev.Column("machineID")
	if !ok || col.Type != TypeInt {
		return errors.Errorf("table %q has no integer machineID column", ev.Source)
	}
	for i, v := range col.Ints {
		if _, ok := ids[v]; !ok {
			return &ReferentialError{Source: ev.Source, Row: i, MachineID: v}
		}
	}
	return nil
}

// ReconcileFailures verifies that every failure row has a maintenance row
// with matching machineID, timestamp and component. Whether this holds is
// not guaranteed by the upstream extract, so enforcement is the caller's
// choice; the return value is the number of unmatched failure rows, with the
// first unmatched row's details in the error when enforce is set.
func ReconcileFailures(failures, maint *Table, enforce bool) (int, error) {
	fIDs, fok1 := failures.Column("machineID")
	fTimes, fok2 := failures.Column("datetime")
	fComps, fok3 := failures.Column("failure")
	if !fok1 || !fok2 || !fok3 {
		return 0, errors.Errorf("table %q missing reconciliation columns", failures.Source)
	}
	mIDs, mok1 := maint.Column("machineID")
	mTimes, mok2 := maint.Column("datetime")
	mComps, mok3 := maint.Column("comp")
	if !mok1 || !mok2 || !mok3 {
		return 0, errors.Errorf("table %q missing reconciliation columns", maint.Source)
	}

	type key struct {
		id   int64
		ts   int64
		comp string
	}
	known := make(map[key]struct{}, maint.NumRows())
	for i := 0; i < maint.NumRows(); i++ {
		known[key{mIDs.Ints[i], mTimes.Times[i].Unix(), mComps.Strings[i]}] = struct{}{}
	}

	unmatched := 0
	firstRow := -1
	for i := 0; i < failures.NumRows(); i++ {
		k := key{fIDs.Ints[i], fTimes.Times[i].Unix(), fComps.Strings[i]}
		if _, ok := known[k]; !ok {
			if firstRow < 0 {
				firstRow = i
			}
			unmatched++
		}
	}
	if unmatched > 0 && enforce {
		return unmatched, errors.Errorf("%d failure row(s) have no matching maint row (first at row %d)", unmatched, firstRow)
	}
	return unmatched, nil
}
