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
	"github.com/pkg/errors"
)

// The five logical sources. Every table flowing through the pipeline is one
// of these.
const (
	SourceMachines  = "machines"
	SourceErrors    = "errors"
	SourceMaint     = "maint"
	SourceTelemetry = "telemetry"
	SourceFailures  = "failures"
)

// Closed value sets for the enumerated columns. Any value outside these sets
// is a validation failure, not a row to be dropped.
var (
	ModelTypes     = []string{"model1", "model2", "model3", "model4"}
	ErrorClasses   = []string{"error1", "error2", "error3", "error4", "error5"}
	ComponentTypes = []string{"comp1", "comp2", "comp3", "comp4"}
)

// DefaultSentinel replaces missing categorical values during imputation.
const DefaultSentinel = "Unknown"

// Granularity is the time-alignment rule for a source's timestamp columns.
type Granularity int

const (
	// AlignNone means timestamps (if any) are taken as-is.
	AlignNone Granularity = iota
	// AlignHourly means timestamps are rounded to the nearest hour on load
	// and must sit on hour boundaries to validate.
	AlignHourly
)

// ColSpec declares one required column of a source.
type ColSpec struct {
	Name string
	Type ColType
	// Key marks the column as part of the source's composite primary key.
	// Key columns must be present (non-missing) and jointly unique.
	Key bool
	// Enum is the closed value set for categorical columns, nil for open
	// columns.
	Enum []string
}

// SourceSpec declares the full expected shape of one logical source.
type SourceSpec struct {
	Name  string
	Cols  []ColSpec
	Align Granularity
}

// Col returns the spec for the named column.
func (s SourceSpec) Col(name string) (ColSpec, bool) {
	for _, c := range s.Cols {
		if c.Name == name {
			return c, true
		}
	}
	return ColSpec{}, false
}

// KeyCols returns the names of the key columns in declaration order.
func (s SourceSpec) KeyCols() []string {
	var keys []string
	for _, c := range s.Cols {
		if c.Key {
			keys = append(keys, c.Name)
		}
	}
	return keys
}

// SpecSet is the process-wide registry of source specs. It is immutable
// after NewSpecSet returns; no mutation operation is exposed.
type SpecSet struct {
	specs    map[string]SourceSpec
	names    []string
	sentinel string
}

// SpecOption is a functional option to pass to NewSpecSet.
type SpecOption func(*SpecSet)

// OptSentinel overrides the categorical imputation sentinel.
func OptSentinel(sentinel string) SpecOption {
	return func(ss *SpecSet) {
		ss.sentinel = sentinel
	}
}

// NewSpecSet builds the registry for the five fixed sources. It fails if the
// imputation sentinel collides with any enumerated value, since imputation
// must never manufacture a legitimate category.
func NewSpecSet(opts ...SpecOption) (*SpecSet, error) {
	ss := &SpecSet{
		specs:    make(map[string]SourceSpec),
		sentinel: DefaultSentinel,
	}
	for _, opt := range opts {
		opt(ss)
	}
	if ss.sentinel == "" {
		return nil, errors.New("sentinel must be non-empty")
	}

	for _, spec := range []SourceSpec{
		{
			Name: SourceMachines,
			Cols: []ColSpec{
				{Name: "machineID", Type: TypeInt, Key: true},
				{Name: "model", Type: TypeString, Enum: ModelTypes},
				{Name: "age", Type: TypeInt},
			},
			Align: AlignNone,
		},
		{
			Name: SourceErrors,
			Cols: []ColSpec{
				{Name: "machineID", Type: TypeInt, Key: true},
				{Name: "datetime", Type: TypeTime, Key: true},
				{Name: "errorID", Type: TypeString, Enum: ErrorClasses},
			},
			Align: AlignHourly,
		},
		{
			Name: SourceMaint,
			Cols: []ColSpec{
				{Name: "machineID", Type: TypeInt, Key: true},
				{Name: "datetime", Type: TypeTime, Key: true},
				{Name: "comp", Type: TypeString, Key: true, Enum: ComponentTypes},
			},
			Align: AlignHourly,
		},
		{
			Name: SourceTelemetry,
			Cols: []ColSpec{
				{Name: "machineID", Type: TypeInt, Key: true},
				{Name: "datetime", Type: TypeTime, Key: true},
				{Name: "voltage", Type: TypeFloat},
				{Name: "rotation", Type: TypeFloat},
				{Name: "pressure", Type: TypeFloat},
				{Name: "vibration", Type: TypeFloat},
			},
			Align: AlignHourly,
		},
		{
			Name: SourceFailures,
			Cols: []ColSpec{
				{Name: "machineID", Type: TypeInt, Key: true},
				{Name: "datetime", Type: TypeTime, Key: true},
				{Name: "failure", Type: TypeString, Key: true, Enum: ComponentTypes},
			},
			Align: AlignHourly,
		},
	} {
		for _, col := range spec.Cols {
			for _, v := range col.Enum {
				if v == ss.sentinel {
					return nil, errors.Errorf("sentinel %q collides with %s.%s enumeration", ss.sentinel, spec.Name, col.Name)
				}
			}
		}
		ss.specs[spec.Name] = spec
		ss.names = append(ss.names, spec.Name)
	}
	return ss, nil
}

// Get returns the spec for the named source.
func (ss *SpecSet) Get(name string) (SourceSpec, error) {
	spec, ok := ss.specs[name]
	if !ok {
		return SourceSpec{}, &UnknownSourceError{Name: name}
	}
	return spec, nil
}

// Names returns the source names in registration order.
func (ss *SpecSet) Names() []string {
	names := make([]string, len(ss.names))
	copy(names, ss.names)
	return names
}

// Sentinel returns the categorical imputation sentinel.
func (ss *SpecSet) Sentinel() string {
	return ss.sentinel
}
