package pdm

import (
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

var (
	runsBucket   = []byte("runs")
	latestBucket = []byte("latest")
)

// Manifest records the write report of each successful pipeline run in
// boltdb: the full report per run keyed by finish time, and the latest
// report per source for quick artifact verification.
type Manifest struct {
	db *bolt.DB
}

// OpenManifest opens (creating if necessary) a manifest DB at filename.
func OpenManifest(filename string) (*Manifest, error) {
	db, err := bolt.Open(filename, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening db file '%v'", filename)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(runsBucket); err != nil {
			return errors.Wrap(err, "creating runs bucket")
		}
		if _, err := tx.CreateBucketIfNotExists(latestBucket); err != nil {
			return errors.Wrap(err, "creating latest bucket")
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ensuring bucket existence")
	}
	return &Manifest{db: db}, nil
}

// Record stores a run's write report.
func (m *Manifest) Record(report WriteReport) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		val, err := json.Marshal(report)
		if err != nil {
			return errors.Wrap(err, "marshaling report")
		}
		key := []byte(report.FinishedAt.UTC().Format(time.RFC3339Nano))
		if err := tx.Bucket(runsBucket).Put(key, val); err != nil {
			return errors.Wrap(err, "putting run report")
		}
		lb := tx.Bucket(latestBucket)
		for _, tr := range report.Tables {
			val, err := json.Marshal(tr)
			if err != nil {
				return errors.Wrap(err, "marshaling table report")
			}
			if err := lb.Put([]byte(tr.Source), val); err != nil {
				return errors.Wrapf(err, "putting latest report for %s", tr.Source)
			}
		}
		return nil
	})
}

// Latest returns the most recent table report for a source.
func (m *Manifest) Latest(source string) (TableReport, error) {
	var tr TableReport
	err := m.db.View(func(tx *bolt.Tx) error {
		val := tx.Bucket(latestBucket).Get([]byte(source))
		if val == nil {
			return errors.Errorf("no report recorded for source %q", source)
		}
		return errors.Wrap(json.Unmarshal(val, &tr), "unmarshaling table report")
	})
	return tr, err
}

// Runs returns all recorded run reports, oldest first.
func (m *Manifest) Runs() ([]WriteReport, error) {
	var runs []WriteReport
	err := m.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).ForEach(func(k, v []byte) error {
			var r WriteReport
			if err := json.Unmarshal(v, &r); err != nil {
				return errors.Wrapf(err, "unmarshaling run %s", k)
			}
			runs = append(runs, r)
			return nil
		})
	})
	return runs, err
}

// Close syncs and closes the underlying DB.
func (m *Manifest) Close() error {
	if err := m.db.Sync(); err != nil {
		return errors.Wrap(err, "syncing db")
	}
	return m.db.Close()
}
