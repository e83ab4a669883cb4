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

// Package parquet persists canonical tables to columnar artifacts. Each
// table is written to <source>.parquet under the target directory via a
// temp-file sibling and an atomic rename, so a prior artifact stays intact
// until the replacement is fully written.
package parquet

import (
	"os"
	"path/filepath"
	"time"

	pq "github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/fleetpdm/pdm"
)

// DefaultBatchSize is the number of rows per parquet row group.
const DefaultBatchSize = 100000

// Writer persists a registry's canonical tables.
type Writer struct {
	dir       string
	batchSize int
}

// WriterOption is a functional option to pass to NewWriter.
type WriterOption func(*Writer)

// WithBatchSize sets the number of rows per row group.
func WithBatchSize(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

// NewWriter returns a Writer targeting dir.
func NewWriter(dir string, opts ...WriterOption) *Writer {
	w := &Writer{dir: dir, batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ArtifactPath returns the deterministic artifact path for a source.
func (w *Writer) ArtifactPath(source string) string {
	return filepath.Join(w.dir, source+".parquet")
}

// Write persists every table in the registry and returns per-table row and
// byte counts. Tables are written concurrently; each targets a disjoint
// file. On error no artifact is replaced for the failing table, though
// tables that finished earlier have already been swapped in.
func (w *Writer) Write(reg *pdm.Registry) (pdm.WriteReport, error) {
	report := pdm.WriteReport{StartedAt: time.Now().UTC()}
	names := reg.Names()
	if names == nil {
		return report, &pdm.NotBuiltError{}
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return report, &pdm.WriteError{Path: w.dir, Err: err}
	}

	reports := make([]pdm.TableReport, len(names))
	eg := errgroup.Group{}
	for i, name := range names {
		i, name := i, name
		eg.Go(func() error {
			rep, err := w.writeTable(reg, name)
			if err != nil {
				return err
			}
			reports[i] = rep
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return report, err
	}
	report.Tables = reports
	report.FinishedAt = time.Now().UTC()
	return report, nil
}

func (w *Writer) writeTable(reg *pdm.Registry, name string) (pdm.TableReport, error) {
	t, err := reg.Get(name)
	if err != nil {
		return pdm.TableReport{}, err
	}
	path := w.ArtifactPath(name)
	switch name {
	case pdm.SourceMachines:
		return writeRows(name, path, t.NumRows(), w.batchSize, machineRows(t))
	case pdm.SourceErrors:
		return writeRows(name, path, t.NumRows(), w.batchSize, errorRows(t))
	case pdm.SourceMaint:
		return writeRows(name, path, t.NumRows(), w.batchSize, maintRows(t))
	case pdm.SourceTelemetry:
		return writeRows(name, path, t.NumRows(), w.batchSize, telemetryRows(t))
	case pdm.SourceFailures:
		return writeRows(name, path, t.NumRows(), w.batchSize, failureRows(t))
	}
	return pdm.TableReport{}, &pdm.UnknownSourceError{Name: name}
}

// writeRows streams n rows to a temp file in row groups of batchSize, then
// renames over the final path. build materializes one row-group's worth of
// rows at a time so the full table is never duplicated in row form.
func writeRows[T any](source, path string, n, batchSize int, build func(lo, hi int) []T) (pdm.TableReport, error) {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return pdm.TableReport{}, &pdm.WriteError{Source: source, Path: path, Err: err}
	}
	abort := func(err error) (pdm.TableReport, error) {
		f.Close()
		os.Remove(tmp)
		return pdm.TableReport{}, &pdm.WriteError{Source: source, Path: path, Err: err}
	}

	pw := pq.NewGenericWriter[T](f, pq.Compression(&pq.Snappy))
	for lo := 0; lo < n; lo += batchSize {
		hi := lo + batchSize
		if hi > n {
			hi = n
		}
		if _, err := pw.Write(build(lo, hi)); err != nil {
			return abort(errors.Wrap(err, "writing row group"))
		}
		if err := pw.Flush(); err != nil {
			return abort(errors.Wrap(err, "flushing row group"))
		}
	}
	if err := pw.Close(); err != nil {
		return abort(errors.Wrap(err, "closing parquet writer"))
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return pdm.TableReport{}, &pdm.WriteError{Source: source, Path: path, Err: err}
	}
	info, err := os.Stat(tmp)
	if err != nil {
		os.Remove(tmp)
		return pdm.TableReport{}, &pdm.WriteError{Source: source, Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return pdm.TableReport{}, &pdm.WriteError{Source: source, Path: path, Err: err}
	}
	return pdm.TableReport{Source: source, Path: path, Rows: int64(n), Bytes: info.Size()}, nil
}
