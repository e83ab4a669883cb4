// Package pdm ingests the raw data sources behind a fleet predictive
// maintenance program and produces the canonical columnar dataset consumed
// by feature engineering and modeling.
//
// Five fixed sources flow through the pipeline: the machine registry, the
// error and maintenance event logs, the failure log, and the high volume
// hourly telemetry stream. Each source moves through the same stages:
//
// 1. SourceSpec
//
//	Every source has a declared spec: required columns with types, key
//	columns, closed value sets for enumerated columns, and a time
//	alignment rule. Specs are registered once at startup in a SpecSet and
//	never change. Loading is checked against the declaration; nothing is
//	inferred from content and nothing is silently coerced.
//
// 2. Load
//
//	The csv subpackage reads one source into a typed column-major Table.
//	Raw locations may be local paths, http(s) URLs, or s3:// objects (see
//	aws/s3). Empty cells become missing values; cells that fail to parse
//	as the declared type fail the load.
//
// 3. Validate
//
//	Validate checks the table against its spec category by category:
//	column set, types, enumerations, key presence and uniqueness, hour
//	alignment. The first failing category aborts with a bounded sample of
//	offending rows.
//
// 4. Impute
//
//	Missing values are not errors. Numeric columns are zero-filled and
//	categorical columns get a sentinel that is guaranteed not to collide
//	with any legitimate enumerated value. Imputation is idempotent and
//	never touches present cells.
//
// 5. Cross-source checks and registry
//
//	After every source has individually passed, CheckReferences confirms
//	each event row's machineID resolves to the machine registry, and
//	BuildRegistry assembles the read-only Registry. The build is atomic:
//	either all five canonical tables are present and consistent or there
//	is no registry.
//
// 6. Persist
//
//	The parquet subpackage writes each canonical table to
//	<source>.parquet under the target directory, replacing any prior
//	artifact atomically so downstream consumers only ever see a complete
//	snapshot.
//
// The pipeline subpackage wires the stages together and the cmd tree
// exposes them as the pdm binary.
package pdm
