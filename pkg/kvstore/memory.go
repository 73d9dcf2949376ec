package kvstore

import (
	"context"
	"sync"
)

type memoryNamespace struct {
	values map[string][]byte
	order  []string
}

// MemoryStore keeps everything in process. Used by tests and single-instance
// deployments without Redis.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]*memoryNamespace
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{namespaces: make(map[string]*memoryNamespace)}
}

func (s *MemoryStore) Get(_ context.Context, namespace, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		return nil, ErrNotFound
	}
	v, ok := ns.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return copyBytes(v), nil
}

func (s *MemoryStore) Put(_ context.Context, namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		ns = &memoryNamespace{values: make(map[string][]byte)}
		s.namespaces[namespace] = ns
	}
	if _, exists := ns.values[key]; !exists {
		ns.order = append(ns.order, key)
	}
	ns.values[key] = copyBytes(value)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		return ErrNotFound
	}
	if _, exists := ns.values[key]; !exists {
		return ErrNotFound
	}
	delete(ns.values, key)
	for i, k := range ns.order {
		if k == key {
			ns.order = append(ns.order[:i], ns.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context, namespace string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		return []Record{}, nil
	}
	out := make([]Record, 0, len(ns.order))
	for _, k := range ns.order {
		out = append(out, Record{Key: k, Value: copyBytes(ns.values[k])})
	}
	return out, nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
