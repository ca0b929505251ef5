package status

import (
	"slices"
	"sync"
)

// MetricMap holds named metrics of type T behind stable pointers
// Callers look a name up once and keep the pointer; only registration takes the lock
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
	names []string // sorted, grows on registration only
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T)}
}

// Get returns the metric registered under name, registering a zero value on first use
func (m *MetricMap[T]) Get(name string) *T {
	m.mu.RLock()
	ptr, ok := m.items[name]
	m.mu.RUnlock()
	if ok {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ptr, ok := m.items[name]; ok {
		return ptr
	}
	ptr = new(T)
	m.items[name] = ptr
	i, _ := slices.BinarySearch(m.names, name)
	m.names = slices.Insert(m.names, i, name)
	return ptr
}

// Names returns registered names in sorted order
func (m *MetricMap[T]) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.names)
}

// Range visits metrics in name order; fn must not register new names
func (m *MetricMap[T]) Range(fn func(name string, ptr *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, name := range m.names {
		fn(name, m.items[name])
	}
}

func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.names)
}
