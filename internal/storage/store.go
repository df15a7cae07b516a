package storage

import (
	"sync/atomic"
	"time"
)

// Snapshot is one immutable generation of the job collections. It is built
// completely before being published to a Store and never modified afterwards.
type Snapshot struct {
	summaries []JobSummary
	details   []JobDetail
	byID      map[string]int

	Source   string
	LoadedAt time.Time
	// Degraded is set when the source could not be read and the snapshot
	// stands in as an empty collection.
	Degraded bool
	LoadErr  error
}

// NewSnapshot indexes details by id. Later duplicates of an id are ignored.
func NewSnapshot(source string, summaries []JobSummary, details []JobDetail) *Snapshot {
	s := &Snapshot{
		summaries: summaries,
		details:   details,
		byID:      make(map[string]int, len(details)),
		Source:    source,
		LoadedAt:  time.Now().UTC(),
	}
	for i, d := range details {
		if _, dup := s.byID[d.ID]; dup {
			continue
		}
		s.byID[d.ID] = i
	}
	return s
}

// EmptySnapshot is what a failed load degrades to.
func EmptySnapshot(source string, loadErr error) *Snapshot {
	s := NewSnapshot(source, nil, nil)
	s.Degraded = loadErr != nil
	s.LoadErr = loadErr
	return s
}

func (s *Snapshot) Summaries() []JobSummary { return s.summaries }

func (s *Snapshot) Details() []JobDetail { return s.details }

// Store serves reads from the current snapshot. Reads take no locks; Replace
// publishes a new snapshot with a single pointer swap.
type Store struct {
	current atomic.Pointer[Snapshot]
	// everLoaded flips once a non-degraded snapshot has been published.
	everLoaded atomic.Bool
}

func NewStore(initial *Snapshot) *Store {
	st := &Store{}
	if initial == nil {
		st.current.Store(EmptySnapshot("none", nil))
		return st
	}
	st.Replace(initial)
	return st
}

// Replace atomically publishes snap. A nil snapshot is ignored.
func (st *Store) Replace(snap *Snapshot) {
	if snap == nil {
		return
	}
	st.current.Store(snap)
	if !snap.Degraded {
		st.everLoaded.Store(true)
	}
}

func (st *Store) Snapshot() *Snapshot { return st.current.Load() }

// AllSummaries returns the summaries in load order. The slice is shared and
// must not be modified by callers.
func (st *Store) AllSummaries() []JobSummary {
	return st.current.Load().summaries
}

// DetailByID is an exact match on the opaque id.
func (st *Store) DetailByID(id string) (JobDetail, bool) {
	snap := st.current.Load()
	i, ok := snap.byID[id]
	if !ok {
		return JobDetail{}, false
	}
	return snap.details[i], true
}

// Status describes the published snapshot for health reporting.
type Status struct {
	Source    string    `json:"source"`
	Jobs      int       `json:"jobs"`
	Details   int       `json:"details"`
	LoadedAt  time.Time `json:"loadedAt"`
	Degraded  bool      `json:"degraded"`
	Error     string    `json:"error,omitempty"`
	EverReady bool      `json:"-"`
}

func (st *Store) Status() Status {
	snap := st.current.Load()
	status := Status{
		Source:    snap.Source,
		Jobs:      len(snap.summaries),
		Details:   len(snap.details),
		LoadedAt:  snap.LoadedAt,
		Degraded:  snap.Degraded,
		EverReady: st.everLoaded.Load(),
	}
	if snap.LoadErr != nil {
		status.Error = snap.LoadErr.Error()
	}
	return status
}
