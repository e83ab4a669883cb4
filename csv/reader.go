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

// Package csv reads one logical source's raw CSV content into a typed
// pdm.Table per its SourceSpec. Column typing is declared, not inferred: a
// cell that does not parse as the declared type is an error, never an
// implicit string. Empty cells become missing values for the imputer to
// recover.
package csv

import (
	gocsv "encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/fleetpdm/pdm"
)

// Opener is an interface to a resource which can be repeatedly Opened (and
// the returned ReadCloser subsequently read). Each call to Open should read
// from the beginning of the resource, so a failed open can simply be
// retried.
type Opener interface {
	Open() (io.ReadCloser, error)
}

// OpenStringer is an Opener which also has a String method returning the
// name of the resource being opened (e.g. a file, URL, or object key).
type OpenStringer interface {
	fmt.Stringer
	Opener
}

// urlOpener turns a URL or file path (string) into an OpenStringer.
type urlOpener string

func (u urlOpener) Open() (io.ReadCloser, error) {
	url := string(u)
	if strings.HasPrefix(url, "http") {
		resp, err := http.Get(url)
		if err != nil {
			return nil, errors.Wrap(err, "getting via http")
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, errors.Errorf("getting via http: status %s", resp.Status)
		}
		return resp.Body, nil
	}
	f, err := os.Open(url)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	return f, nil
}

func (u urlOpener) String() string {
	return string(u)
}

// Reader loads one source.
type Reader struct {
	spec       pdm.SourceSpec
	src        OpenStringer
	maxRetries int
}

// Option is a functional option to pass to NewReader.
type Option func(*Reader)

// WithURL sets the raw location; HTTP(S) URLs and local paths both work.
func WithURL(url string) Option {
	return func(r *Reader) {
		r.src = urlOpener(url)
	}
}

// WithOpenStringer sets the raw location to an arbitrary OpenStringer (e.g.
// an S3 object).
func WithOpenStringer(os OpenStringer) Option {
	return func(r *Reader) {
		r.src = os
	}
}

// WithMaxRetries sets the max number of open attempts.
func WithMaxRetries(maxRetries int) Option {
	return func(r *Reader) {
		if maxRetries > 0 {
			r.maxRetries = maxRetries
		}
	}
}

// NewReader creates a Reader for the given source spec. e.g.
//
//	r := csv.NewReader(spec, csv.WithURL("/data/raw/telemetry.csv"))
func NewReader(spec pdm.SourceSpec, options ...Option) *Reader {
	r := &Reader{
		spec:       spec,
		maxRetries: 3,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Load reads the whole source into a single table.
func (r *Reader) Load() (*pdm.Table, error) {
	var loaded *pdm.Table
	err := r.Batches(math.MaxInt, func(t *pdm.Table) error {
		loaded = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

// Batches streams the source in tables of at most size rows, calling fn for
// each. fn is called at least once, with an empty table if the source has a
// header but no rows. An error from fn aborts the stream. Opening the
// resource is retried; an I/O failure mid-stream fails the whole load, since
// a batch run aborts rather than resumes.
func (r *Reader) Batches(size int, fn func(*pdm.Table) error) error {
	if r.src == nil {
		return errors.New("reader has no source location")
	}
	if size <= 0 {
		return errors.Errorf("batch size must be positive, got %d", size)
	}

	content, err := r.open()
	if err != nil {
		return err
	}
	defer content.Close()

	cr := gocsv.NewReader(content)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return &pdm.SourceUnavailableError{Source: r.spec.Name, Location: r.src.String(),
			Err: errors.Wrap(err, "reading header")}
	}
	// ReuseRecord means cr.Read will clobber this slice; the header outlives
	// the first record, so copy it.
	header = append([]string(nil), trimBOM(header)...)
	if err := validateHeader(header); err != nil {
		return errors.Wrapf(err, "validating header of %s", r.src)
	}

	cols := r.newColumns(header)
	batchRows, delivered := 0, 0
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "reading %s, row %d", r.src, row)
		}
		if err := r.appendRecord(cols, record, row); err != nil {
			return err
		}
		row++
		batchRows++
		if batchRows == size {
			if err := r.flush(cols, fn); err != nil {
				return err
			}
			delivered += batchRows
			batchRows = 0
			cols = r.newColumns(header)
		}
	}
	if batchRows > 0 || delivered == 0 {
		if err := r.flush(cols, fn); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) open() (io.ReadCloser, error) {
	var err error
	var content io.ReadCloser
	for try := 0; try < r.maxRetries; try++ {
		content, err = r.src.Open()
		if err == nil {
			return content, nil
		}
	}
	return nil, &pdm.SourceUnavailableError{
		Source:   r.spec.Name,
		Location: r.src.String(),
		Err:      errors.Wrapf(err, "tried %d times, latest", r.maxRetries),
	}
}

// newColumns builds one column per header field. Columns the spec does not
// declare are carried as strings so the validator can report them as
// unexpected rather than having them silently vanish here.
func (r *Reader) newColumns(header []string) []*pdm.Column {
	cols := make([]*pdm.Column, len(header))
	for i, name := range header {
		typ := pdm.TypeString
		if cs, ok := r.spec.Col(name); ok {
			typ = cs.Type
		}
		cols[i] = pdm.NewColumn(name, typ)
	}
	return cols
}

func (r *Reader) appendRecord(cols []*pdm.Column, record []string, row int) error {
	if len(record) != len(cols) {
		return &pdm.SchemaError{Source: r.spec.Name, Check: "columns", Total: 1,
			Violations: []pdm.Violation{{Column: "", Row: row,
				Value: fmt.Sprintf("%d fields, want %d", len(record), len(cols))}}}
	}
	for i, field := range record {
		col := cols[i]
		field = strings.TrimSpace(field)
		if field == "" || field == "NA" {
			col.AppendMissing()
			continue
		}
		switch col.Type {
		case pdm.TypeInt:
			v, err := pdm.ParseInt(field)
			if err != nil {
				return r.typeError(col.Name, row, field)
			}
			col.AppendInt(v)
		case pdm.TypeFloat:
			v, err := pdm.ParseFloat(field)
			if err != nil {
				return r.typeError(col.Name, row, field)
			}
			col.AppendFloat(v)
		case pdm.TypeTime:
			v, err := pdm.ParseTime(field, r.spec.Align)
			if err != nil {
				return r.typeError(col.Name, row, field)
			}
			col.AppendTime(v)
		default:
			col.AppendString(field)
		}
	}
	return nil
}

func (r *Reader) typeError(column string, row int, value string) error {
	return &pdm.SchemaError{Source: r.spec.Name, Check: "types", Total: 1,
		Violations: []pdm.Violation{{Column: column, Row: row, Value: value}}}
}

func (r *Reader) flush(cols []*pdm.Column, fn func(*pdm.Table) error) error {
	t, err := pdm.NewTable(r.spec.Name, cols...)
	if err != nil {
		return errors.Wrapf(err, "assembling %s batch", r.spec.Name)
	}
	return fn(t)
}

func validateHeader(header []string) error {
	fields := make(map[string]int)
	for i, h := range header {
		if h == "" {
			return errors.Errorf("header contains empty string at %d: %v", i, header)
		}
		if pos, exists := fields[h]; exists {
			return errors.Errorf("%s appeared at both %d and %d in header", h, pos, i)
		}
		fields[h] = i
	}
	return nil
}

func trimBOM(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return header
}
