package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes what an entry timed.
type EntryKind uint8

const (
	// KindRequest is an inbound HTTP request.
	KindRequest EntryKind = iota
	// KindQuery is a database statement.
	KindQuery
	// KindBackend is a portal round trip to the API.
	KindBackend
)

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Path       string // "METHOD /path", "store.Method" or "METHOD /api/v1/..."
	StatusCode int    // HTTP status; 0 for queries and unanswered backend calls
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer for timing entries.
// Writes are non-blocking; when full, oldest entries are overwritten.
// Aggregation happens only on read (Snapshot).
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   int64 // total entries ever written (atomic for stats)
}

// NewCollector creates a collector with the given ring buffer capacity.
// PRE: size > 0
// POST: Returns a ready-to-use collector with pre-allocated storage
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record appends an entry to the ring buffer.
// PRE: e is a valid Entry
// POST: Entry stored; if buffer full, oldest entry overwritten
// Lock hold time: single index increment + struct copy (~nanoseconds).
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	atomic.AddInt64(&c.count, 1)
}

// TotalRecorded returns the total number of entries ever recorded.
// PRE: none
// POST: returns count >= 0
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.count)
}

// Snapshot holds aggregated performance data computed on read.
// Backend fields stay zero on the API, which makes no backend calls.
type Snapshot struct {
	TotalRequests       int64      `json:"total_requests"`
	RequestP50Ms        float64    `json:"request_p50_ms"`
	RequestP95Ms        float64    `json:"request_p95_ms"`
	RequestP99Ms        float64    `json:"request_p99_ms"`
	SlowestPaths        []PathStat `json:"slowest_paths"`
	SlowestQueries      []PathStat `json:"slowest_queries"`
	BackendCalls        int        `json:"backend_calls,omitempty"`
	BackendFailures     int        `json:"backend_failures,omitempty"`
	BackendP50Ms        float64    `json:"backend_p50_ms,omitempty"`
	BackendP95Ms        float64    `json:"backend_p95_ms,omitempty"`
	BackendP99Ms        float64    `json:"backend_p99_ms,omitempty"`
	SlowestBackendCalls []PathStat `json:"slowest_backend_calls,omitempty"`
}

// PathStat aggregates timing for a single path or store.method.
type PathStat struct {
	Path    string  `json:"path"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	Count   int     `json:"count"`
	TotalMs float64 `json:"total_ms"`
}

// series gathers the durations and per-path stats of one entry kind.
type series struct {
	durations []float64
	stats     map[string]*PathStat
}

func (s *series) add(e Entry) {
	if s.stats == nil {
		s.stats = make(map[string]*PathStat)
	}
	s.durations = append(s.durations, e.DurationMs)
	accumulate(s.stats, e)
}

// percentiles returns p50, p95 and p99, all zero for an empty series.
func (s *series) percentiles() (p50, p95, p99 float64) {
	if len(s.durations) == 0 {
		return 0, 0, 0
	}
	sort.Float64s(s.durations)
	return percentile(s.durations, 50), percentile(s.durations, 95), percentile(s.durations, 99)
}

// Snapshot computes aggregated stats from the ring buffer.
// This is expensive (sorts) and should only be called on dashboard page load.
// PRE: none
// POST: Returns a Snapshot with percentiles and top-N lists per entry kind
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, c.size)
	copy(buf, c.entries)
	c.mu.Unlock()

	var requests, queries, calls series
	failures := 0
	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		switch e.Kind {
		case KindRequest:
			requests.add(e)
		case KindQuery:
			queries.add(e)
		case KindBackend:
			calls.add(e)
			if e.StatusCode == 0 || e.StatusCode >= 500 {
				failures++
			}
		}
	}

	snap := Snapshot{
		TotalRequests:       c.TotalRecorded(),
		SlowestPaths:        topByAvg(requests.stats, topN),
		SlowestQueries:      topByAvg(queries.stats, topN),
		BackendCalls:        len(calls.durations),
		BackendFailures:     failures,
		SlowestBackendCalls: topByAvg(calls.stats, topN),
	}
	snap.RequestP50Ms, snap.RequestP95Ms, snap.RequestP99Ms = requests.percentiles()
	snap.BackendP50Ms, snap.BackendP95Ms, snap.BackendP99Ms = calls.percentiles()
	return snap
}

// accumulate folds e into the stat for its path and refreshes the average.
func accumulate(stats map[string]*PathStat, e Entry) {
	s, ok := stats[e.Path]
	if !ok {
		s = &PathStat{Path: e.Path}
		stats[e.Path] = s
	}
	s.Count++
	s.TotalMs += e.DurationMs
	s.MaxMs = max(s.MaxMs, e.DurationMs)
	s.AvgMs = s.TotalMs / float64(s.Count)
}

// percentile returns the p-th percentile from a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// topByAvg returns the top N paths sorted by average duration (descending).
func topByAvg(stats map[string]*PathStat, n int) []PathStat {
	list := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].AvgMs > list[j].AvgMs
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}
