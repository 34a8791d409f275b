package pipeline

import (
	"sync"
	"time"
)

// StageStats aggregates per-stage dispatch counters.
type StageStats struct {
	Count    int64
	Total    time.Duration
	Failures int64
}

// Metrics collects pipeline dispatch counters.
type Metrics struct {
	mu         sync.Mutex
	dispatches int64
	maxDepth   int
	stages     map[string]*StageStats
}

// NewMetrics creates empty metrics.
func NewMetrics() *Metrics {
	return &Metrics{stages: make(map[string]*StageStats)}
}

func (m *Metrics) recordDispatch(depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatches++
	if depth > m.maxDepth {
		m.maxDepth = depth
	}
}

func (m *Metrics) recordStage(name string, d time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.stages[name]
	if st == nil {
		st = &StageStats{}
		m.stages[name] = st
	}
	st.Count++
	st.Total += d
	if failed {
		st.Failures++
	}
}

// Dispatches returns the total number of dispatches that entered the
// chain.
func (m *Metrics) Dispatches() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dispatches
}

// MaxDepth returns the deepest dispatch nesting observed.
func (m *Metrics) MaxDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxDepth
}

// StageSnapshot returns a copy of the per-stage counters.
func (m *Metrics) StageSnapshot() map[string]StageStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]StageStats, len(m.stages))
	for name, st := range m.stages {
		out[name] = *st
	}
	return out
}
