// Copyright 2017 Pilosa Corp.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived
// from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND
// CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES,
// INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR
// CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY,
// WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH
// DAMAGE.

package pdm

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks a loaded table against its spec. Categories are checked in
// order: column set, column types, closed enumerations, key presence and
// uniqueness, hourly alignment. The first failing category stops validation
// (later categories would only produce cascading noise) but every violation
// within that category is counted and a bounded sample is reported.
func Validate(t *Table, spec SourceSpec) error {
	for _, check := range []func(*Table, SourceSpec) *SchemaError{
		checkColumns,
		checkTypes,
		checkEnums,
		CheckKeys,
		checkAlignment,
	} {
		if err := check(t, spec); err != nil {
			return err
		}
	}
	return nil
}

func addViolation(se *SchemaError, v Violation) {
	se.Total++
	if len(se.Violations) < SampleLimit {
		se.Violations = append(se.Violations, v)
	}
}

// checkColumns requires the table's column set to exactly match the spec.
// Missing and extra columns both fail.
func checkColumns(t *Table, spec SourceSpec) *SchemaError {
	se := &SchemaError{Source: spec.Name, Check: "columns"}
	for _, cs := range spec.Cols {
		if _, ok := t.Column(cs.Name); !ok {
			addViolation(se, Violation{Column: cs.Name, Row: -1, Value: "missing column"})
		}
	}
	for _, name := range t.ColumnNames() {
		if _, ok := spec.Col(name); !ok {
			addViolation(se, Violation{Column: name, Row: -1, Value: "unexpected column"})
		}
	}
	if se.Total > 0 {
		return se
	}
	return nil
}

func checkTypes(t *Table, spec SourceSpec) *SchemaError {
	se := &SchemaError{Source: spec.Name, Check: "types"}
	for _, cs := range spec.Cols {
		col, ok := t.Column(cs.Name)
		if !ok {
			continue
		}
		if col.Type != cs.Type {
			addViolation(se, Violation{Column: cs.Name, Row: -1, Value: fmt.Sprintf("got %s, want %s", col.Type, cs.Type)})
		}
	}
	if se.Total > 0 {
		return se
	}
	return nil
}

// checkEnums verifies closed enumerations. Missing cells are skipped; they
// are the imputer's to recover, not a schema violation.
func checkEnums(t *Table, spec SourceSpec) *SchemaError {
	se := &SchemaError{Source: spec.Name, Check: "enum"}
	for _, cs := range spec.Cols {
		if cs.Enum == nil {
			continue
		}
		col, ok := t.Column(cs.Name)
		if !ok || col.Type != TypeString {
			continue
		}
		members := make(map[string]struct{}, len(cs.Enum))
		for _, v := range cs.Enum {
			members[v] = struct{}{}
		}
		for i, v := range col.Strings {
			if col.Missing[i] {
				continue
			}
			if _, ok := members[v]; !ok {
				addViolation(se, Violation{Column: cs.Name, Row: i, Value: v})
			}
		}
	}
	if se.Total > 0 {
		return se
	}
	return nil
}

// CheckKeys verifies that key columns are fully present and that composite
// key values are unique. It is exported separately because the telemetry
// source is validated in batches and cross-batch duplicates can only be
// caught on the assembled table.
func CheckKeys(t *Table, spec SourceSpec) *SchemaError {
	se := &SchemaError{Source: spec.Name, Check: "keys"}
	keyCols := make([]*Column, 0, 3)
	for _, name := range spec.KeyCols() {
		col, ok := t.Column(name)
		if !ok {
			return nil // column-set check reports this
		}
		keyCols = append(keyCols, col)
	}
	if len(keyCols) == 0 {
		return nil
	}

	for _, col := range keyCols {
		for i, miss := range col.Missing {
			if miss {
				addViolation(se, Violation{Column: col.Name, Row: i, Value: "missing key value"})
			}
		}
	}
	if se.Total > 0 {
		return se
	}

	seen := make(map[string]struct{}, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		key := compositeKey(keyCols, i)
		if _, dup := seen[key]; dup {
			addViolation(se, Violation{Column: strings.Join(spec.KeyCols(), "+"), Row: i, Value: key})
			continue
		}
		seen[key] = struct{}{}
	}
	if se.Total > 0 {
		return se
	}
	return nil
}

func compositeKey(cols []*Column, row int) string {
	parts := make([]string, len(cols))
	for j, col := range cols {
		switch col.Type {
		case TypeInt:
			parts[j] = fmt.Sprintf("%d", col.Ints[row])
		case TypeFloat:
			parts[j] = fmt.Sprintf("%g", col.Floats[row])
		case TypeString:
			parts[j] = col.Strings[row]
		case TypeTime:
			parts[j] = col.Times[row].UTC().Format(time.RFC3339)
		}
	}
	return strings.Join(parts, "|")
}

// checkAlignment verifies hour alignment of timestamp columns for hourly
// sources.
func checkAlignment(t *Table, spec SourceSpec) *SchemaError {
	if spec.Align != AlignHourly {
		return nil
	}
	se := &SchemaError{Source: spec.Name, Check: "alignment"}
	for _, cs := range spec.Cols {
		if cs.Type != TypeTime {
			continue
		}
		col, ok := t.Column(cs.Name)
		if !ok || col.Type != TypeTime {
			continue
		}
		for i, ts := range col.Times {
			if col.Missing[i] {
				continue
			}
			if !HourAligned(ts) {
				addViolation(se, Violation{Column: cs.Name, Row: i, Value: ts.UTC().Format(time.RFC3339)})
			}
		}
	}
	if se.Total > 0 {
		return se
	}
	return nil
}

// DensityGap describes missing hours for one machine in the telemetry table.
type DensityGap struct {
	MachineID    int64
	Expected     int
	Observed     int
	MissingHours int
}

// CheckDensity measures telemetry density per machine: over each machine's
// observed min/max window at hourly granularity, the row count should equal
// the number of hours in the window. Returns one gap per deficient machine.
func CheckDensity(t *Table) ([]DensityGap, error) {
	ids, ok := t.Column("machineID")
	if !ok || ids.Type != TypeInt {
		return nil, &SchemaError{Source: t.Source, Check: "columns", Total: 1,
			Violations: []Violation{{Column: "machineID", Row: -1, Value: "missing column"}}}
	}
	times, ok := t.Column("datetime")
	if !ok || times.Type != TypeTime {
		return nil, &SchemaError{Source: t.Source, Check: "columns", Total: 1,
			Violations: []Violation{{Column: "datetime", Row: -1, Value: "missing column"}}}
	}

	type window struct {
		min, max time.Time
		count    int
	}
	windows := make(map[int64]*window)
	for i := 0; i < t.NumRows(); i++ {
		id := ids.Ints[i]
		ts := times.Times[i]
		w, ok := windows[id]
		if !ok {
			windows[id] = &window{min: ts, max: ts, count: 1}
			continue
		}
		if ts.Before(w.min) {
			w.min = ts
		}
		if ts.After(w.max) {
			w.max = ts
		}
		w.count++
	}

	var gaps []DensityGap
	for id, w := range windows {
		expected := int(w.max.Sub(w.min)/time.Hour) + 1
		if w.count < expected {
			gaps = append(gaps, DensityGap{
				MachineID:    id,
				Expected:     expected,
				Observed:     w.count,
				MissingHours: expected - w.count,
			})
		}
	}
	return gaps, nil
}
