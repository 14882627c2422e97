package health

import (
	"sync"
	"time"
)

// Sample is one history point: the verdict at a given check time.
type Sample struct {
	Time   time.Time
	Status Status
}

// Record holds everything the engine knows about one host.
type Record struct {
	Name        string
	Host        string
	Status      Status
	LastCheckAt time.Time
	CheckCount  int
	UpCount     int
	DownCount   int
	UptimePct   float64
	History     []Sample
}

// Store is the single source of truth for host health. It is safe for
// concurrent per-host writers; Reconcile must only run between check
// cycles (the scheduler's barrier guarantees that).
type Store struct {
	mu        sync.RWMutex
	retention time.Duration
	records   map[string]*Record
}

// NewStore creates a Store that prunes history entries older than
// retention on every update.
func NewStore(retention time.Duration) *Store {
	if retention <= 0 {
		retention = 48 * time.Hour
	}
	return &Store{
		retention: retention,
		records:   make(map[string]*Record),
	}
}

// ApplyResult records the outcome of one completed check. Unseen hosts
// are initialized with status unknown before the result is applied.
// It reports whether the verdict changed along with the previous and
// new status; a first-ever observation (unknown -> verdict) counts as
// a transition.
func (s *Store) ApplyResult(hostKey, name string, isUp bool, now time.Time) (transitioned bool, prev, cur Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.records[hostKey]
	if rec == nil {
		rec = &Record{
			Name:   name,
			Host:   hostKey,
			Status: StatusUnknown,
		}
		s.records[hostKey] = rec
	}
	rec.Name = name

	cur = StatusDown
	if isUp {
		cur = StatusUp
	}
	prev = rec.Status
	transitioned = cur != prev

	rec.Status = cur
	rec.LastCheckAt = now
	rec.CheckCount++
	if isUp {
		rec.UpCount++
	} else {
		rec.DownCount++
	}
	rec.UptimePct = float64(rec.UpCount) / float64(rec.CheckCount) * 100

	rec.History = append(rec.History, Sample{Time: now, Status: cur})
	rec.History = pruneHistory(rec.History, now.Add(-s.retention))

	return transitioned, prev, cur
}

// Snapshot returns a deep copy of all records. Callers never observe a
// record mid-update and may mutate the result freely.
func (s *Store) Snapshot() map[string]Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Record, len(s.records))
	for key, rec := range s.records {
		cp := *rec
		cp.History = make([]Sample, len(rec.History))
		copy(cp.History, rec.History)
		out[key] = cp
	}
	return out
}

// Reconcile drops records whose key is absent from currentHostKeys.
// Called once per cycle, before any check starts.
func (s *Store) Reconcile(currentHostKeys []string) {
	keep := make(map[string]struct{}, len(currentHostKeys))
	for _, k := range currentHostKeys {
		keep[k] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.records {
		if _, ok := keep[key]; !ok {
			delete(s.records, key)
		}
	}
}

// pruneHistory drops samples strictly older than cutoff, preserving
// order. History is append-only so the retained suffix is contiguous.
func pruneHistory(history []Sample, cutoff time.Time) []Sample {
	idx := 0
	for idx < len(history) && history[idx].Time.Before(cutoff) {
		idx++
	}
	if idx == 0 {
		return history
	}
	return append(history[:0], history[idx:]...)
}
