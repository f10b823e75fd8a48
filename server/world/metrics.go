package world

import "sync"

// Metrics tracks counters of the work done by the tick scheduler. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	mu sync.Mutex

	ticks            uint64
	randomUpdates    uint64
	scheduledUpdates uint64
	neighbourUpdates uint64
	failures         uint64
	entitiesTicked   uint64
	entitiesRemoved  uint64
	tilesTicked      uint64
}

// MetricsSnapshot is a copy of the counters of a Metrics.
type MetricsSnapshot struct {
	Ticks            uint64
	RandomUpdates    uint64
	ScheduledUpdates uint64
	NeighbourUpdates uint64
	Failures         uint64
	EntitiesTicked   uint64
	EntitiesRemoved  uint64
	TilesTicked      uint64
}

// NewMetrics creates an empty metrics registry.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) add(counter *uint64, n uint64) {
	if m == nil || n == 0 {
		return
	}
	m.mu.Lock()
	*counter += n
	m.mu.Unlock()
}

func (m *Metrics) incTicks() {
	if m != nil {
		m.add(&m.ticks, 1)
	}
}

func (m *Metrics) addRandomUpdates(n int) {
	if m != nil {
		m.add(&m.randomUpdates, uint64(n))
	}
}

func (m *Metrics) addScheduledUpdates(n int) {
	if m != nil {
		m.add(&m.scheduledUpdates, uint64(n))
	}
}

func (m *Metrics) addNeighbourUpdates(n int) {
	if m != nil {
		m.add(&m.neighbourUpdates, uint64(n))
	}
}

func (m *Metrics) incFailures() {
	if m != nil {
		m.add(&m.failures, 1)
	}
}

func (m *Metrics) addEntitiesTicked(n int) {
	if m != nil {
		m.add(&m.entitiesTicked, uint64(n))
	}
}

func (m *Metrics) addEntitiesRemoved(n int) {
	if m != nil {
		m.add(&m.entitiesRemoved, uint64(n))
	}
}

func (m *Metrics) addTilesTicked(n int) {
	if m != nil {
		m.add(&m.tilesTicked, uint64(n))
	}
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		Ticks:            m.ticks,
		RandomUpdates:    m.randomUpdates,
		ScheduledUpdates: m.scheduledUpdates,
		NeighbourUpdates: m.neighbourUpdates,
		Failures:         m.failures,
		EntitiesTicked:   m.entitiesTicked,
		EntitiesRemoved:  m.entitiesRemoved,
		TilesTicked:      m.tilesTicked,
	}
}
