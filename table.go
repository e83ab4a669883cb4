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
	"time"

	"github.com/pkg/errors"
)

// ColType is the declared type of a column.
type ColType int

const (
	// TypeInt is a 64 bit integer column.
	TypeInt ColType = iota
	// TypeFloat is a 64 bit float column.
	TypeFloat
	// TypeString is a string column.
	TypeString
	// TypeTime is a timestamp column.
	TypeTime
)

// String implements fmt.Stringer.
func (t ColType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeTime:
		return "time"
	}
	return "unknown"
}

// Column is one typed vector of a table plus a missing mask. Exactly one of
// the value slices is populated, matching Type, and it has the same length
// as Missing.
type Column struct {
	Name    string
	Type    ColType
	Ints    []int64
	Floats  []float64
	Strings []string
	Times   []time.Time
	Missing []bool
}

// NewColumn returns an empty column of the given type.
func NewColumn(name string, typ ColType) *Column {
	return &Column{Name: name, Type: typ}
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	return len(c.Missing)
}

// AppendInt appends a present integer cell.
func (c *Column) AppendInt(v int64) {
	c.Ints = append(c.Ints, v)
	c.Missing = append(c.Missing, false)
}

// AppendFloat appends a present float cell.
func (c *Column) AppendFloat(v float64) {
	c.Floats = append(c.Floats, v)
	c.Missing = append(c.Missing, false)
}

// AppendString appends a present string cell.
func (c *Column) AppendString(v string) {
	c.Strings = append(c.Strings, v)
	c.Missing = append(c.Missing, false)
}

// AppendTime appends a present timestamp cell.
func (c *Column) AppendTime(v time.Time) {
	c.Times = append(c.Times, v)
	c.Missing = append(c.Missing, false)
}

// AppendMissing appends a missing cell, growing the value slice for the
// column's type with a zero value so indices stay aligned.
func (c *Column) AppendMissing() {
	switch c.Type {
	case TypeInt:
		c.Ints = append(c.Ints, 0)
	case TypeFloat:
		c.Floats = append(c.Floats, 0)
	case TypeString:
		c.Strings = append(c.Strings, "")
	case TypeTime:
		c.Times = append(c.Times, time.Time{})
	}
	c.Missing = append(c.Missing, true)
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	cp := &Column{Name: c.Name, Type: c.Type}
	cp.Ints = append([]int64(nil), c.Ints...)
	cp.Floats = append([]float64(nil), c.Floats...)
	cp.Strings = append([]string(nil), c.Strings...)
	cp.Times = append([]time.Time(nil), c.Times...)
	cp.Missing = append([]bool(nil), c.Missing...)
	return cp
}

// Table is an immutable-by-convention column-major table for one source.
// Pipeline stages never mutate a table they were given; they return new ones.
type Table struct {
	Source string
	cols   []*Column
	byName map[string]int
}

// NewTable assembles a table from columns. All columns must have equal
// length and distinct names.
func NewTable(source string, cols ...*Column) (*Table, error) {
	t := &Table{
		Source: source,
		byName: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if i > 0 && c.Len() != cols[0].Len() {
			return nil, errors.Errorf("column %q has %d cells, want %d", c.Name, c.Len(), cols[0].Len())
		}
		if _, dup := t.byName[c.Name]; dup {
			return nil, errors.Errorf("duplicate column %q", c.Name)
		}
		t.byName[c.Name] = i
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// ColumnNames returns column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the column slice. Callers must not mutate the columns.
func (t *Table) Columns() []*Column {
	return t.cols
}

// Append returns a new table holding t's rows followed by other's rows.
// Both tables must have identical column layouts.
func (t *Table) Append(other *Table) (*Table, error) {
	if len(t.cols) != len(other.cols) {
		return nil, errors.Errorf("column count mismatch: %d vs %d", len(t.cols), len(other.cols))
	}
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		oc := other.cols[i]
		if oc.Name != c.Name || oc.Type != c.Type {
			return nil, errors.Errorf("column mismatch at %d: %s/%s vs %s/%s", i, c.Name, c.Type, oc.Name, oc.Type)
		}
		cp := c.Clone()
		cp.Ints = append(cp.Ints, oc.Ints...)
		cp.Floats = append(cp.Floats, oc.Floats...)
		cp.Strings = append(cp.Strings, oc.Strings...)
		cp.Times = append(cp.Times, oc.Times...)
		cp.Missing = append(cp.Missing, oc.Missing...)
		cols[i] = cp
	}
	return NewTable(t.Source, cols...)
}

// Extend appends other's rows to t in place. It exists for owners
// accumulating batches into a table nothing else has seen yet; handing out a
// table and then extending it breaks the immutability convention.
func (t *Table) Extend(other *Table) error {
	if len(t.cols) != len(other.cols) {
		return errors.Errorf("column count mismatch: %d vs %d", len(t.cols), len(other.cols))
	}
	for i, c := range t.cols {
		oc := other.cols[i]
		if oc.Name != c.Name || oc.Type != c.Type {
			return errors.Errorf("column mismatch at %d: %s/%s vs %s/%s", i, c.Name, c.Type, oc.Name, oc.Type)
		}
	}
	for i, c := range t.cols {
		oc := other.cols[i]
		c.Ints = append(c.Ints, oc.Ints...)
		c.Floats = append(c.Floats, oc.Floats...)
		c.Strings = append(c.Strings, oc.Strings...)
		c.Times = append(c.Times, oc.Times...)
		c.Missing = append(c.Missing, oc.Missing...)
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.Clone()
	}
	nt, _ := NewTable(t.Source, cols...)
	return nt
}
