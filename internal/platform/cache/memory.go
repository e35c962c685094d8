package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/facebookgo/clock"
)

const (
	defaultCapacity = 10000
	defaultTTL      = 5 * time.Minute
)

// Memory is an LRU cache with per-entry expiry read from the injected clock.
// It is safe for concurrent use.
type Memory struct {
	capacity   int
	defaultTTL time.Duration
	clock      clock.Clock

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
}

type entry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

func NewMemory(capacity int, ttl time.Duration, c clock.Clock) *Memory {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if c == nil {
		c = clock.New()
	}
	return &Memory{
		capacity:   capacity,
		defaultTTL: ttl,
		clock:      c,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	e := el.Value.(*entry)
	if !m.clock.Now().Before(e.expiresAt) {
		m.remove(el)
		return nil, false, nil
	}
	m.order.MoveToFront(el)
	return append([]byte(nil), e.value...), true, nil
}

// Set stores a copy of value. Overwriting a key restarts its ttl and marks
// it most recently used.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	e := &entry{key: key, value: append([]byte(nil), value...)}

	m.mu.Lock()
	defer m.mu.Unlock()

	e.expiresAt = m.clock.Now().Add(ttl)
	if el, ok := m.entries[key]; ok {
		el.Value = e
		m.order.MoveToFront(el)
		return nil
	}
	for m.order.Len() >= m.capacity {
		m.remove(m.order.Back())
	}
	m.entries[key] = m.order.PushFront(e)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		if el, ok := m.entries[k]; ok {
			m.remove(el)
		}
	}
	return nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *Memory) remove(el *list.Element) {
	m.order.Remove(el)
	delete(m.entries, el.Value.(*entry).key)
}
