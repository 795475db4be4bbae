package metrics

import (
	"net/http"
	"sort"
	"sync"
	"time"
)

const (
	maxSamples = 1000
	maxPaths   = 1000
)

// Labels that stand in for request paths which are not tracked individually.
const (
	NotFoundPath = "(not found)"
	OtherPath    = "(other)"
)

// PathLabel returns the key a response is accounted under. Missing files all
// share one entry so arbitrary client paths cannot grow the maps.
func PathLabel(path string, statusCode int) string {
	if statusCode == http.StatusNotFound {
		return NotFoundPath
	}
	return path
}

type Metrics struct {
	mutex         sync.RWMutex
	requests      map[string]int64
	responseTimes map[string][]time.Duration
	statusCodes   map[string]map[int]int64
	bytes         map[string]int64
	paths         map[string]struct{}
	probe         string
	startTime     time.Time
}

type Snapshot struct {
	TotalRequests int64                  `json:"total_requests"`
	TotalBytes    int64                  `json:"total_bytes"`
	Uptime        time.Duration          `json:"uptime"`
	Probe         string                 `json:"probe"`
	Response      ResponseStats          `json:"response"`
	Paths         map[string]PathMetrics `json:"paths"`
}

// ResponseStats aggregates the retained response time samples of every path.
type ResponseStats struct {
	Samples int           `json:"samples"`
	Avg     time.Duration `json:"avg"`
	P50     time.Duration `json:"p50"`
	P95     time.Duration `json:"p95"`
	P99     time.Duration `json:"p99"`
}

type PathMetrics struct {
	Requests    int64         `json:"requests"`
	Bytes       int64         `json:"bytes"`
	AvgResponse time.Duration `json:"avg_response"`
	P50Response time.Duration `json:"p50_response"`
	P95Response time.Duration `json:"p95_response"`
	P99Response time.Duration `json:"p99_response"`
	StatusCodes map[int]int64 `json:"status_codes"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests:      make(map[string]int64),
		responseTimes: make(map[string][]time.Duration),
		statusCodes:   make(map[string]map[int]int64),
		bytes:         make(map[string]int64),
		paths:         make(map[string]struct{}),
		startTime:     time.Now(),
	}
}

func (m *Metrics) IncrementRequests(path string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests[m.key(path)]++
}

func (m *Metrics) RecordResponse(path string, duration time.Duration, statusCode int, bytes int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	path = m.key(path)
	m.responseTimes[path] = append(m.responseTimes[path], duration)
	if len(m.responseTimes[path]) > maxSamples {
		m.responseTimes[path] = m.responseTimes[path][1:]
	}

	if m.statusCodes[path] == nil {
		m.statusCodes[path] = make(map[int]int64)
	}
	m.statusCodes[path][statusCode]++
	m.bytes[path] += bytes
}

// key folds new paths into OtherPath once maxPaths are tracked.
// Callers hold the write lock.
func (m *Metrics) key(path string) string {
	if _, ok := m.paths[path]; ok {
		return path
	}
	if len(m.paths) >= maxPaths {
		m.paths[OtherPath] = struct{}{}
		return OtherPath
	}
	m.paths[path] = struct{}{}
	return path
}

func (m *Metrics) SetProbe(reason string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.probe = reason
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime: time.Since(m.startTime),
		Probe:  m.probe,
		Paths:  make(map[string]PathMetrics),
	}

	var all []time.Duration
	for p := range m.paths {
		snap.TotalRequests += m.requests[p]
		snap.TotalBytes += m.bytes[p]

		pm := PathMetrics{
			Requests:    m.requests[p],
			Bytes:       m.bytes[p],
			StatusCodes: make(map[int]int64, len(m.statusCodes[p])),
		}
		for code, n := range m.statusCodes[p] {
			pm.StatusCodes[code] = n
		}

		durations := m.responseTimes[p]
		all = append(all, durations...)
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			pm.AvgResponse = average(sorted)
			pm.P50Response = percentile(sorted, 0.50)
			pm.P95Response = percentile(sorted, 0.95)
			pm.P99Response = percentile(sorted, 0.99)
		}

		snap.Paths[p] = pm
	}

	if len(all) > 0 {
		sort.Slice(all, func(i, j int) bool {
			return all[i] < all[j]
		})
		snap.Response = ResponseStats{
			Samples: len(all),
			Avg:     average(all),
			P50:     percentile(all, 0.50),
			P95:     percentile(all, 0.95),
			P99:     percentile(all, 0.99),
		}
	}

	return snap
}

// StatusTotals sums status codes across all paths.
func (s Snapshot) StatusTotals() map[int]int64 {
	totals := make(map[int]int64)
	for _, pm := range s.Paths {
		for code, n := range pm.StatusCodes {
			totals[code] += n
		}
	}
	return totals
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
