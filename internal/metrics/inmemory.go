package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// OperationStat aggregates requests for one (kind, operation, outcome).
type OperationStat struct {
	Kind        string
	OperationID string
	Outcome     string
	Count       uint64
	TotalNs     int64
}

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Operations   []OperationStat
	AuthFailures map[string]uint64
	RateLimited  uint64
}

// Operation returns the stat for the given labels, or a zero stat.
func (s Snapshot) Operation(operationID, outcome string) OperationStat {
	for _, op := range s.Operations {
		if op.OperationID == operationID && op.Outcome == outcome {
			return op
		}
	}
	return OperationStat{OperationID: operationID, Outcome: outcome}
}

type operationKey struct {
	kind, operationID, outcome string
}

// InMemoryRecorder keeps metrics in process memory.
type InMemoryRecorder struct {
	mu           sync.Mutex
	operations   map[operationKey]*OperationStat
	authFailures map[string]uint64
	rateLimited  uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		operations:   make(map[operationKey]*OperationStat),
		authFailures: make(map[string]uint64),
	}
}

// ObserveOperation records one request.
func (m *InMemoryRecorder) ObserveOperation(kind, operationID, outcome string, duration time.Duration) {
	key := operationKey{kind: kind, operationID: operationID, outcome: outcome}

	m.mu.Lock()
	defer m.mu.Unlock()

	stat, ok := m.operations[key]
	if !ok {
		stat = &OperationStat{Kind: kind, OperationID: operationID, Outcome: outcome}
		m.operations[key] = stat
	}
	stat.Count++
	stat.TotalNs += duration.Nanoseconds()
}

// IncAuthFailure counts a rejected credential.
func (m *InMemoryRecorder) IncAuthFailure(reason string) {
	m.mu.Lock()
	m.authFailures[reason]++
	m.mu.Unlock()
}

// IncRateLimited counts a rate-limited request.
func (m *InMemoryRecorder) IncRateLimited() {
	atomic.AddUint64(&m.rateLimited, 1)
}

// Snapshot returns a copy of the counters, operations sorted by labels.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	ops := make([]OperationStat, 0, len(m.operations))
	for _, stat := range m.operations {
		ops = append(ops, *stat)
	}
	failures := make(map[string]uint64, len(m.authFailures))
	for reason, n := range m.authFailures {
		failures[reason] = n
	}
	m.mu.Unlock()

	sort.Slice(ops, func(i, j int) bool {
		if ops[i].OperationID != ops[j].OperationID {
			return ops[i].OperationID < ops[j].OperationID
		}
		return ops[i].Outcome < ops[j].Outcome
	})

	return Snapshot{
		Operations:   ops,
		AuthFailures: failures,
		RateLimited:  atomic.LoadUint64(&m.rateLimited),
	}
}
