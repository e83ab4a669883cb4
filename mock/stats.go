package mock

import (
	"sync"
	"time"
)

// RecordingStatter is used for testing. Counters are keyed by stat name plus
// the first tag, matching the termstat display convention.
type RecordingStatter struct {
	mu     sync.Mutex
	Counts map[string]int64
}

// Count implements pdm.Statter.
func (r *RecordingStatter) Count(name string, value int64, rate float64, tags ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Counts == nil {
		r.Counts = make(map[string]int64)
	}
	key := name
	if len(tags) > 0 {
		key = name + ":" + tags[0]
	}
	r.Counts[key] += value
}

// Gauge implements pdm.Statter.
func (r *RecordingStatter) Gauge(name string, value float64, rate float64, tags ...string) {}

// Timing implements pdm.Statter.
func (r *RecordingStatter) Timing(name string, value time.Duration, rate float64, tags ...string) {}

// Get returns the recorded count for key.
func (r *RecordingStatter) Get(key string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Counts[key]
}
