// Package pipeline runs the full ingestion and normalization flow: the five
// sources are loaded, validated, and imputed concurrently, then reference
// checked across sources, assembled into the dataset registry, and persisted
// as columnar artifacts.
package pipeline

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/fleetpdm/pdm"
	"github.com/fleetpdm/pdm/aws/s3"
	"github.com/fleetpdm/pdm/csv"
	"github.com/fleetpdm/pdm/parquet"
)

// Main contains the configuration for one pipeline run.
type Main struct {
	Source            string `help:"Directory or URL prefix holding the five raw CSV sources."`
	Target            string `help:"Directory where canonical parquet artifacts are written."`
	BatchSize         int    `help:"Rows per telemetry batch and per parquet row group."`
	Concurrency       int    `help:"Number of sources loaded concurrently."`
	Manifest          string `help:"Optional bolt DB path recording run write reports."`
	Sentinel          string `help:"Replacement value for missing categorical fields."`
	StrictDensity     bool   `help:"Fail the run when telemetry has per-machine hourly gaps."`
	CheckFailureMaint bool   `help:"Require every failure row to match a maint row."`
	S3Region          string `help:"AWS region for s3:// source locations."`
	DryRun            bool   `help:"Validate and cross-check only; write no artifacts."`

	stats pdm.Statter
}

// NewMain gets a new Main with the default configuration.
func NewMain() *Main {
	return &Main{
		Source:      "data",
		Target:      "canonical",
		BatchSize:   parquet.DefaultBatchSize,
		Concurrency: 5,
		Sentinel:    pdm.DefaultSentinel,
		S3Region:    "us-east-1",
		stats:       pdm.NopStatter{},
	}
}

// SetStatter sets the stats collector for the run.
func (m *Main) SetStatter(s pdm.Statter) {
	m.stats = s
}

// Run executes the pipeline. Any fatal error aborts the run before the
// registry is built or any artifact is replaced.
func (m *Main) Run() error {
	start := time.Now()
	specs, err := pdm.NewSpecSet(pdm.OptSentinel(m.Sentinel))
	if err != nil {
		return errors.Wrap(err, "building source specs")
	}

	tables, err := m.loadAll(specs)
	if err != nil {
		return err
	}

	// Cross-source phase: single threaded over the completed set.
	if err := pdm.CheckReferences(tables[pdm.SourceMachines],
		tables[pdm.SourceErrors],
		tables[pdm.SourceMaint],
		tables[pdm.SourceTelemetry],
		tables[pdm.SourceFailures],
	); err != nil {
		return err
	}

	unmatched, err := pdm.ReconcileFailures(tables[pdm.SourceFailures], tables[pdm.SourceMaint], m.CheckFailureMaint)
	if err != nil {
		return errors.Wrap(err, "reconciling failures against maint")
	}
	if unmatched > 0 {
		log.Printf("%d failure row(s) have no matching maint row", unmatched)
	}

	gaps, err := pdm.CheckDensity(tables[pdm.SourceTelemetry])
	if err != nil {
		return errors.Wrap(err, "checking telemetry density")
	}
	if len(gaps) > 0 {
		missing := 0
		for _, g := range gaps {
			missing += g.MissingHours
		}
		if m.StrictDensity {
			return errors.Errorf("telemetry density check failed: %d machine(s) missing %d hour(s) total", len(gaps), missing)
		}
		log.Printf("telemetry gaps: %d machine(s) missing %d hour(s) total", len(gaps), missing)
	}

	reg, err := pdm.BuildRegistry(specs, tables)
	if err != nil {
		return errors.Wrap(err, "building dataset registry")
	}

	if m.DryRun {
		log.Printf("dry run: %d sources canonical after %v, nothing written", len(reg.Names()), time.Since(start))
		return nil
	}

	writer := parquet.NewWriter(m.Target, parquet.WithBatchSize(m.BatchSize))
	report, err := writer.Write(reg)
	if err != nil {
		return err
	}
	m.stats.Timing("run", time.Since(start), 1)

	if m.Manifest != "" {
		if err := m.record(report); err != nil {
			return errors.Wrap(err, "recording manifest")
		}
	}
	for _, tr := range report.Tables {
		log.Printf("wrote %s: %d rows, %d bytes", tr.Path, tr.Rows, tr.Bytes)
	}
	log.Printf("run finished in %v", time.Since(start))
	return nil
}

// loadAll runs the per-source load, validate, impute chains. The chains own
// disjoint data, so no locking beyond the results map is needed.
func (m *Main) loadAll(specs *pdm.SpecSet) (map[string]*pdm.Table, error) {
	tables := make(map[string]*pdm.Table, len(specs.Names()))
	var mu sync.Mutex
	eg := errgroup.Group{}
	eg.SetLimit(m.Concurrency)
	for _, name := range specs.Names() {
		name := name
		eg.Go(func() error {
			t, err := m.loadSource(specs, name)
			if err != nil {
				return err
			}
			mu.Lock()
			tables[name] = t
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func (m *Main) loadSource(specs *pdm.SpecSet, name string) (*pdm.Table, error) {
	spec, err := specs.Get(name)
	if err != nil {
		return nil, err
	}
	reader, err := m.newReader(spec)
	if err != nil {
		return nil, err
	}
	if name == pdm.SourceTelemetry {
		return m.loadTelemetry(specs, spec, reader)
	}

	t, err := reader.Load()
	if err != nil {
		return nil, err
	}
	if err := pdm.Validate(t, spec); err != nil {
		return nil, err
	}
	imputed := pdm.Impute(t, specs.Sentinel())
	m.stats.Count("rows", int64(imputed.NumRows()), 1, name)
	return imputed, nil
}

// loadTelemetry processes the high-volume source in bounded batches; each
// batch is validated and imputed under the same contracts as a full table,
// and only the canonical column vectors are held for the whole source.
func (m *Main) loadTelemetry(specs *pdm.SpecSet, spec pdm.SourceSpec, reader *csv.Reader) (*pdm.Table, error) {
	var canonical *pdm.Table
	err := reader.Batches(m.BatchSize, func(batch *pdm.Table) error {
		if err := pdm.Validate(batch, spec); err != nil {
			return err
		}
		imputed := pdm.Impute(batch, specs.Sentinel())
		m.stats.Count("rows", int64(imputed.NumRows()), 1, spec.Name)
		if canonical == nil {
			canonical = imputed
			return nil
		}
		return canonical.Extend(imputed)
	})
	if err != nil {
		return nil, err
	}
	// Within-batch uniqueness was checked per batch; duplicates spanning
	// batches need a pass over the assembled table.
	if se := pdm.CheckKeys(canonical, spec); se != nil {
		return nil, se
	}
	return canonical, nil
}

func (m *Main) newReader(spec pdm.SourceSpec) (*csv.Reader, error) {
	loc := m.location(spec.Name)
	if strings.HasPrefix(loc, "s3://") {
		opener, err := s3.FromURL(m.S3Region, loc)
		if err != nil {
			return nil, errors.Wrapf(err, "opening s3 source for %s", spec.Name)
		}
		return csv.NewReader(spec, csv.WithOpenStringer(opener)), nil
	}
	return csv.NewReader(spec, csv.WithURL(loc)), nil
}

func (m *Main) location(source string) string {
	return strings.TrimRight(m.Source, "/") + "/" + source + ".csv"
}

func (m *Main) record(report pdm.WriteReport) error {
	manifest, err := pdm.OpenManifest(m.Manifest)
	if err != nil {
		return err
	}
	defer manifest.Close()
	return manifest.Record(report)
}
